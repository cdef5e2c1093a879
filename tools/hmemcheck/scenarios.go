package main

import "fmt"
import "sort"
import "unsafe"

import "github.com/bnclabs/hmemory"

type scenario struct {
	description string
	run         func(m *hmemory.Memory, arg string) error
}

var scenarios = map[string]scenario{
	"success-00": {"every allocation primitive, all freed", success00},
	"success-01": {"strdup and strndup of argument", success01},
	"success-06": {"asprintf of argument", success06},
	"fail-00":    {"1024 bytes never freed", fail00},
	"overflow":   {"write one byte past a 64 byte block", overflow},
	"underflow":  {"write one byte before a 64 byte block", underflow},
	"doublefree": {"free the same block twice", doublefree},
	"overlap":    {"memcpy between overlapping regions", overlap},
}

func scenarionames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func success00(m *hmemory.Memory, arg string) error {
	ptr := m.Malloc("", 1024)
	if ptr == nil {
		return fmt.Errorf("malloc failed")
	}
	m.Free(ptr)
	if ptr = m.Calloc("", 1, 1024); ptr == nil {
		return fmt.Errorf("calloc failed")
	}
	m.Free(ptr)
	if ptr = m.Realloc("", nil, 1024); ptr == nil {
		return fmt.Errorf("realloc failed")
	}
	m.Free(ptr)
	if ptr = m.Realloc("", nil, 1024); ptr == nil {
		return fmt.Errorf("realloc failed")
	}
	if ptr = m.Realloc("", ptr, 2048); ptr == nil {
		return fmt.Errorf("realloc failed")
	}
	m.Free(ptr)
	if err := success01(m, arg); err != nil {
		return err
	}
	return success06(m, arg)
}

func success01(m *hmemory.Memory, arg string) error {
	src := m.Cstring("argument", arg)
	if src == nil {
		return fmt.Errorf("cstring failed")
	}
	defer m.Free(src)

	ptr := m.Strdup("", src)
	if ptr == nil {
		return fmt.Errorf("strdup failed")
	}
	m.Free(ptr)
	if ptr = m.Strndup("", src, 1024); ptr == nil {
		return fmt.Errorf("strndup failed")
	}
	m.Free(ptr)
	return nil
}

func success06(m *hmemory.Memory, arg string) error {
	var strp unsafe.Pointer
	if n := m.Asprintf("", &strp, "%s", arg); n < 0 {
		return fmt.Errorf("asprintf failed")
	}
	m.Free(strp)
	return nil
}

func fail00(m *hmemory.Memory, arg string) error {
	if m.Malloc("", 1024) == nil {
		return fmt.Errorf("malloc failed")
	}
	return nil
}

func overflow(m *hmemory.Memory, arg string) error {
	ptr := m.Malloc("overflow", 64)
	if ptr == nil {
		return fmt.Errorf("malloc failed")
	}
	*(*byte)(unsafe.Add(ptr, 64)) = 0
	err := m.Validate()
	m.Free(ptr)
	return err
}

func underflow(m *hmemory.Memory, arg string) error {
	ptr := m.Malloc("underflow", 64)
	if ptr == nil {
		return fmt.Errorf("malloc failed")
	}
	*(*byte)(unsafe.Add(ptr, -1)) = 0xff
	m.Free(ptr)
	return nil
}

func doublefree(m *hmemory.Memory, arg string) error {
	ptr := m.Malloc("doublefree", 64)
	if ptr == nil {
		return fmt.Errorf("malloc failed")
	}
	m.Free(ptr)
	m.Free(ptr)
	return nil
}

func overlap(m *hmemory.Memory, arg string) error {
	ptr := m.Cstring("overlap", arg)
	if ptr == nil {
		return fmt.Errorf("cstring failed")
	}
	if n := int64(len(arg)); n > 1 {
		m.Memcpy(unsafe.Add(ptr, 1), ptr, n-1)
	}
	m.Free(ptr)
	return nil
}
