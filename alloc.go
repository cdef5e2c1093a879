package hmemory

import "fmt"
import "runtime"
import "unsafe"

import "github.com/bnclabs/hmemory/lib"

// Malloc allocate `size` bytes of uninitialized memory and track it
// under `label`. Return nil if raw allocator is exhausted.
func (m *Memory) Malloc(label string, size int64) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("malloc-%d(%v)", size, site.short())
	}
	return m.malloc("malloc", label, size, site)
}

// Calloc allocate zeroed memory for `nmemb` elements of `size` bytes.
func (m *Memory) Calloc(label string, nmemb, size int64) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("calloc-%d,%d(%v)", nmemb, size, site.short())
	}
	if nmemb < 0 || size < 0 || (size > 0 && nmemb > maxsize/size) {
		fmsg := "calloc with invalid argument %d,%d"
		m.reporter.report(ErrorInvalidArgument, site, fmsg, nmemb, size)
		return nil
	}
	ptr := m.malloc("calloc", label, nmemb*size, site)
	if ptr != nil {
		block := lib.Bytes(ptr, nmemb*size)
		for i := range block {
			block[i] = 0
		}
	}
	return ptr
}

// Realloc resize the tracked block at `ptr` to `size` bytes, content
// is preserved upto the smaller of old and new sizes. A nil ptr is
// same as Malloc. On failure nil is returned and `ptr` stays valid
// and tracked.
func (m *Memory) Realloc(label string, ptr unsafe.Pointer, size int64) unsafe.Pointer {
	site := callsite(1)
	if label == "" {
		label = fmt.Sprintf("realloc-%p,%d(%v)", ptr, size, site.short())
	}
	if ptr == nil {
		return m.malloc("realloc", label, size, site)
	} else if size < 0 || size > maxsize {
		fmsg := "realloc with invalid size %d"
		m.reporter.report(ErrorInvalidArgument, site, fmsg, size)
		return nil
	}

	address := rawaddress(ptr)
	if !m.verified("realloc", address, ptr, site) {
		return nil
	}
	rec, err := m.registry.detach(address)
	if err != nil {
		m.reporter.report(err, site, "realloc with invalid address (%p)", ptr)
		m.escalate(err)
		return nil
	}

	// registry lock is not held while raw allocator moves the block.
	newraw := m.raw.Realloc(rec.raw, rawsize(rec.size), rawsize(size))
	if newraw == nil {
		if err := m.registry.restore(rec); err != nil {
			m.reporter.report(err, site, "realloc with invalid memory (%p)", ptr)
			m.escalate(err)
		}
		fmsg := "realloc failed for %d bytes at %p"
		m.reporter.report(ErrorAllocationFailure, site, fmsg, size, ptr)
		return nil
	}
	guardapply(newraw, rawsize(size))
	newrec := &record{raw: newraw, size: size, label: label, site: site}
	if err := m.registry.attach(newrec, rec.size); err != nil {
		m.reporter.report(err, site, "realloc with invalid memory (%p)", newraw)
		m.escalate(err)
		return nil
	}
	debugf("%v realloc %q %p -> %p size %v", m.logprefix, label, ptr, payloadof(newraw), size)
	return payloadof(newraw)
}

// Free release a tracked block, nil is a no-op. Untracked addresses,
// including double free, are reported and escalated without touching
// memory.
func (m *Memory) Free(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	m.free("free", ptr, callsite(1))
}

func (m *Memory) free(command string, ptr unsafe.Pointer, site Site) {
	address := rawaddress(ptr)
	if !m.verified(command, address, ptr, site) {
		return
	}
	rec, err := m.registry.remove(address)
	if err != nil {
		m.reporter.report(err, site, "%s with invalid address (%p)", command, ptr)
		m.escalate(err)
		return
	}
	m.raw.Free(rec.raw, rawsize(rec.size))
	debugf("%v free %q %p size %v", m.logprefix, rec.label, ptr, rec.size)
}

// Memcpy copy `n` bytes from src to dst. Overlapping regions are
// reported and escalated, and then copied as with memmove.
func (m *Memory) Memcpy(dst, src unsafe.Pointer, n int64) unsafe.Pointer {
	if n <= 0 {
		return dst
	}
	site := callsite(1)
	if dst == nil || src == nil {
		fmsg := "memcpy with invalid argument %p, %p"
		m.reporter.report(ErrorInvalidArgument, site, fmsg, dst, src)
		return nil
	}
	d, s := uintptr(dst), uintptr(src)
	if s < d+uintptr(n) && d < s+uintptr(n) {
		m.reporter.report(ErrorMemoryOverlap, site, "memcpy with overlapping memory")
		m.escalate(ErrorMemoryOverlap)
	}
	lib.Memcpy(dst, src, n)
	return dst
}

// Lookup return a copy of the tracked allocation whose payload is
// `ptr`, false if `ptr` is not tracked.
func (m *Memory) Lookup(ptr unsafe.Pointer) (Allocation, bool) {
	if ptr == nil {
		return Allocation{}, false
	}
	return m.registry.lookup(rawaddress(ptr))
}

// Validate synchronously verify the guards of every live block,
// each corruption is reported and escalated. Return the combined
// CorruptionError of all corrupted blocks, if any.
func (m *Memory) Validate() error {
	return m.validate("validate", false)
}

func (m *Memory) malloc(command, label string, size int64, site Site) unsafe.Pointer {
	if size < 0 || size > maxsize {
		m.reporter.report(ErrorInvalidArgument, site, "%s with invalid size %d", command, size)
		return nil
	}
	total := rawsize(size)
	raw := m.raw.Alloc(total)
	if raw == nil {
		fmsg := "%s failed for %d bytes"
		m.reporter.report(ErrorAllocationFailure, site, fmsg, command, size)
		return nil
	}
	guardapply(raw, total)
	rec := &record{raw: raw, size: size, label: label, site: site}
	if err := m.registry.insert(rec); err != nil {
		m.reporter.report(err, site, "%s with invalid memory (%p)", command, raw)
		m.escalate(err)
		return nil
	}
	debugf("%v %s %q %p size %v", m.logprefix, command, label, payloadof(raw), size)
	return payloadof(raw)
}

// verified check that address is tracked and its guards are intact.
// Return false if the address is unknown, corruption is reported and
// escalated but not treated as failure.
func (m *Memory) verified(command string, address uintptr, ptr unsafe.Pointer, site Site) bool {
	alloc, corruption, err := m.registry.check(address)
	if err != nil {
		m.reporter.report(err, site, "%s with invalid address (%p)", command, ptr)
		m.escalate(err)
		return false
	} else if corruption != 0 {
		cerr := &CorruptionError{Allocation: alloc, Side: corruption}
		m.reportcorruption(command, cerr, site)
		m.escalate(cerr)
	}
	return true
}

func (m *Memory) reportcorruption(command string, cerr *CorruptionError, site Site) {
	fmsg := "%s with corrupted address (%p) %q, %v"
	m.reporter.report(ErrorMemoryCorruption, site, fmsg, command, cerr.Payload, cerr.Label, cerr.Side)
}

// largest payload such that raw size does not overflow int64.
const maxsize = int64(^uint64(0)>>1) - 2*Guardwidth

func callsite(skip int) Site {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return Site{Function: "???", File: "???"}
	}
	function := "???"
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}
	return Site{Function: function, File: file, Line: line}
}

func (site Site) short() string {
	return fmt.Sprintf("%v %v:%v", site.Function, lib.Shortfile(site.File), site.Line)
}
