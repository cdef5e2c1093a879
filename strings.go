package hmemory

import "io"
import "fmt"
import "bufio"
import "unsafe"

import "github.com/bnclabs/hmemory/lib"

// Strdup duplicate the NUL terminated string at `s` into a tracked
// block. A nil `s` is reported as invalid argument and nil returned.
func (m *Memory) Strdup(label string, s unsafe.Pointer) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("strdup-%p(%v)", s, site.short())
	}
	if s == nil {
		m.reporter.report(ErrorInvalidArgument, site, "strdup with invalid argument")
		return nil
	}
	return m.duplicate("strdup", label, s, lib.Cstrlen(s, -1), site)
}

// Strndup duplicate at most `maxlen` bytes of string at `s`, result
// is always NUL terminated.
func (m *Memory) Strndup(label string, s unsafe.Pointer, maxlen int64) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("strndup-%p-%d(%v)", s, maxlen, site.short())
	}
	if s == nil || maxlen < 0 {
		m.reporter.report(ErrorInvalidArgument, site, "strndup with invalid argument")
		return nil
	}
	return m.duplicate("strndup", label, s, lib.Cstrlen(s, maxlen), site)
}

// Cstring copy Go string into a tracked, NUL terminated, block.
func (m *Memory) Cstring(label string, s string) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("cstring-%d(%v)", len(s), site.short())
	}
	ptr := m.malloc("cstring", label, int64(len(s))+1, site)
	if ptr != nil {
		block := lib.Bytes(ptr, int64(len(s))+1)
		block[copy(block, s)] = 0
	}
	return ptr
}

// Asprintf format into a tracked, NUL terminated, block stored in
// `*strp`. Return the formatted length excluding NUL, or -1 on
// failure in which case `*strp` is nil.
func (m *Memory) Asprintf(label string, strp *unsafe.Pointer, format string, args ...interface{}) int {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("asprintf(%v)", site.short())
	}
	return m.sprintf("asprintf", label, strp, format, args, site)
}

// Vasprintf same as Asprintf with arguments supplied as slice.
func (m *Memory) Vasprintf(label string, strp *unsafe.Pointer, format string, args []interface{}) int {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("vasprintf(%v)", site.short())
	}
	return m.sprintf("vasprintf", label, strp, format, args, site)
}

// Getline read a line, including the delimiter, from `r` into a
// tracked NUL terminated block. If `*strp` is not nil it must be a
// tracked block and is freed before reading. Size of the new block is
// stored in `*n`. Return number of bytes read, or -1 on end of input
// or error.
func (m *Memory) Getline(label string, strp *unsafe.Pointer, n *int64, r *bufio.Reader) int64 {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("getline(%v)", site.short())
	}
	if strp == nil || n == nil || r == nil {
		m.reporter.report(ErrorInvalidArgument, site, "getline with invalid argument")
		return -1
	}
	if *strp != nil {
		m.free("getline", *strp, site)
		*strp, *n = nil, 0
	}

	line, err := r.ReadBytes('\n')
	if err != nil && err != io.EOF {
		m.reporter.report(ErrorInvalidArgument, site, "getline failed: %v", err)
		return -1
	} else if len(line) == 0 {
		return -1
	}
	size := int64(len(line)) + 1
	ptr := m.malloc("getline", label, size, site)
	if ptr == nil {
		return -1
	}
	block := lib.Bytes(ptr, size)
	block[copy(block, line)] = 0
	*strp, *n = ptr, size
	return int64(len(line))
}

func (m *Memory) duplicate(command, label string, s unsafe.Pointer, n int64, site Site) unsafe.Pointer {
	ptr := m.malloc(command, label, n+1, site)
	if ptr != nil {
		lib.Memcpy(ptr, s, n)
		lib.Bytes(ptr, n+1)[n] = 0
	}
	return ptr
}

func (m *Memory) sprintf(
	command, label string, strp *unsafe.Pointer, format string,
	args []interface{}, site Site) int {

	if strp == nil {
		fmsg := "%s with invalid argument"
		m.reporter.report(ErrorInvalidArgument, site, fmsg, command)
		return -1
	}
	s := fmt.Sprintf(format, args...)
	ptr := m.malloc(command, label, int64(len(s))+1, site)
	if ptr == nil {
		*strp = nil
		return -1
	}
	block := lib.Bytes(ptr, int64(len(s))+1)
	block[copy(block, s)] = 0
	*strp = ptr
	return len(s)
}
