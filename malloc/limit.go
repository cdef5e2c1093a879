package malloc

import "unsafe"
import "sync/atomic"

// limit fails allocations once bytes handed out by the wrapped
// allocator would exceed capacity.
type limit struct {
	used     int64 // 64-bit aligned stats
	capacity int64
	raw      Rawallocator
}

// NewLimit wrap `raw` so that no more than `capacity` bytes are handed
// out at any time.
func NewLimit(raw Rawallocator, capacity int64) Rawallocator {
	return &limit{capacity: capacity, raw: raw}
}

func (m *limit) Name() string {
	return m.raw.Name()
}

func (m *limit) reserve(n int64) bool {
	if atomic.AddInt64(&m.used, n) > m.capacity {
		atomic.AddInt64(&m.used, -n)
		return false
	}
	return true
}

func (m *limit) Alloc(size int64) unsafe.Pointer {
	if !m.reserve(size) {
		return nil
	}
	ptr := m.raw.Alloc(size)
	if ptr == nil {
		atomic.AddInt64(&m.used, -size)
	}
	return ptr
}

func (m *limit) Realloc(ptr unsafe.Pointer, oldsize, size int64) unsafe.Pointer {
	delta := size - oldsize
	if !m.reserve(delta) {
		return nil
	}
	newptr := m.raw.Realloc(ptr, oldsize, size)
	if newptr == nil {
		atomic.AddInt64(&m.used, -delta)
	}
	return newptr
}

func (m *limit) Free(ptr unsafe.Pointer, size int64) {
	if ptr == nil {
		return
	}
	m.raw.Free(ptr, size)
	atomic.AddInt64(&m.used, -size)
}

func (m *limit) Allocated() int64 {
	return m.raw.Allocated()
}

func (m *limit) Memory() (memheap, overhead int64) {
	memheap, overhead = m.raw.Memory()
	return memheap, overhead + int64(unsafe.Sizeof(*m))
}

func (m *limit) Release() {
	m.raw.Release()
	atomic.StoreInt64(&m.used, 0)
}
