package hmemory

import "os"
import "time"
import "strconv"
import "strings"

import "github.com/bnclabs/hmemory/lib"

// Environment keys, prefixed by "env.prefix" setting.
const (
	EnvReportCallstack = "report_callstack"
	EnvAssertOnError   = "assert_on_error"
	EnvCheckInterval   = "check_interval"
)

// Policy resolve runtime decisions. Environment is consulted afresh
// for every decision so that a change in the environment is picked up
// by the next decision, settings supply the compiled-in defaults.
type Policy struct {
	prefix    string
	callstack bool
	onerror   bool
	interval  int64 // milliseconds
	jitter    int64 // percent
	lookupenv func(key string) (string, bool)
}

// NewPolicy from settings, refer Defaultsettings() for keys.
func NewPolicy(setts lib.Settings) *Policy {
	return &Policy{
		prefix:    setts.String("env.prefix"),
		callstack: setts.Bool("report.callstack"),
		onerror:   setts.Bool("assert.onerror"),
		interval:  setts.Int64("check.interval"),
		jitter:    setts.Int64("check.jitter"),
		lookupenv: os.LookupEnv,
	}
}

// Reportcallstack whether diagnostic reports should include a
// symbolized call stack.
func (policy *Policy) Reportcallstack() bool {
	if n, ok := policy.envint(EnvReportCallstack); ok {
		return n != 0
	}
	return policy.callstack
}

// Assertonerror whether detected errors should abort the process.
func (policy *Policy) Assertonerror() bool {
	if n, ok := policy.envint(EnvAssertOnError); ok {
		return n != 0
	}
	return policy.onerror
}

// Checkinterval return the period between validation scans and
// whether it was supplied explicitly by the environment.
func (policy *Policy) Checkinterval() (time.Duration, bool) {
	if n, ok := policy.envint(EnvCheckInterval); ok {
		return time.Duration(n) * time.Millisecond, true
	}
	return time.Duration(policy.interval) * time.Millisecond, false
}

// Jitter percentage applied to default check interval.
func (policy *Policy) Jitter() int64 {
	return policy.jitter
}

// envint an absent or non integer value is treated as not set.
func (policy *Policy) envint(name string) (int64, bool) {
	value, ok := policy.lookupenv(policy.prefix + name)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Stats snapshot of resolved policy.
func (policy *Policy) Stats() map[string]interface{} {
	interval, explicit := policy.Checkinterval()
	return map[string]interface{}{
		"report.callstack": policy.Reportcallstack(),
		"assert.onerror":   policy.Assertonerror(),
		"check.interval":   interval.String(),
		"check.explicit":   explicit,
		"check.jitter":     policy.jitter,
	}
}
