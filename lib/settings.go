package lib

import "strings"

// Settings map of settings parameters, keys are dotted names like
// "check.interval" or "flist.minblock".
type Settings map[string]interface{}

// Section will create a new settings object with parameters
// starting with `prefix`.
func (setts Settings) Section(prefix string) Settings {
	section := make(Settings)
	for key, value := range setts {
		if strings.HasPrefix(key, prefix) {
			section[key] = value
		}
	}
	return section
}

// Trim settings parameter with `prefix` string.
func (setts Settings) Trim(prefix string) Settings {
	trimmed := make(Settings)
	for key, value := range setts {
		trimmed[strings.TrimPrefix(key, prefix)] = value
	}
	return trimmed
}

// AddPrefix return a new settings object with each key prefixed
// by `prefix`.
func (setts Settings) AddPrefix(prefix string) Settings {
	prefixed := make(Settings)
	for key, value := range setts {
		prefixed[prefix+key] = value
	}
	return prefixed
}

// Mixin settings to override `setts` with `settings`. Mixin updates
// `setts` in place and returns the same.
func (setts Settings) Mixin(settings ...interface{}) Settings {
	update := func(arg map[string]interface{}) {
		for key, value := range arg {
			setts[key] = value
		}
	}
	for _, arg := range settings {
		switch cnf := arg.(type) {
		case Settings:
			update(map[string]interface{}(cnf))
		case map[string]interface{}:
			update(cnf)
		}
	}
	return setts
}

// Bool return the boolean value for key. Numbers are accepted and
// treated as true when non-zero.
func (setts Settings) Bool(key string) bool {
	value := setts.get(key)
	if val, ok := value.(bool); ok {
		return val
	} else if n, ok := tonumber(value); ok {
		return n != 0
	}
	panicerr("settings %q not a bool: %T", key, value)
	return false
}

// Int64 return the int64 value for key.
func (setts Settings) Int64(key string) int64 {
	value := setts.get(key)
	if n, ok := tonumber(value); ok {
		return int64(n)
	}
	panicerr("settings %q not a number: %T", key, value)
	return 0
}

// String return the string value for key.
func (setts Settings) String(key string) string {
	value := setts.get(key)
	if val, ok := value.(string); ok {
		return val
	}
	panicerr("settings %q not a string: %T", key, value)
	return ""
}

func (setts Settings) get(key string) interface{} {
	value, ok := setts[key]
	if !ok {
		panicerr("missing settings %q", key)
	}
	return value
}

func tonumber(value interface{}) (float64, bool) {
	switch val := value.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint64:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint8:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case int16:
		return float64(val), true
	case int8:
		return float64(val), true
	}
	return 0, false
}
