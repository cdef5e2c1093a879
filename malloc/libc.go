package malloc

//#include <stdlib.h>
import "C"

import "unsafe"
import "sync/atomic"

// libc allocate memory using C library's malloc family.
type libc struct {
	allocated int64 // 64-bit aligned stats
}

// NewLibc return a Rawallocator that uses C malloc, realloc and free.
func NewLibc() Rawallocator {
	return &libc{}
}

func (m *libc) Name() string {
	return "libc"
}

func (m *libc) Alloc(size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	ptr := C.malloc(C.size_t(size))
	if ptr == nil {
		return nil
	}
	atomic.AddInt64(&m.allocated, size)
	return ptr
}

func (m *libc) Realloc(ptr unsafe.Pointer, oldsize, size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	newptr := C.realloc(ptr, C.size_t(size))
	if newptr == nil {
		return nil
	}
	atomic.AddInt64(&m.allocated, size-oldsize)
	return newptr
}

func (m *libc) Free(ptr unsafe.Pointer, size int64) {
	if ptr == nil {
		return
	}
	C.free(ptr)
	atomic.AddInt64(&m.allocated, -size)
}

func (m *libc) Allocated() int64 {
	return atomic.LoadInt64(&m.allocated)
}

func (m *libc) Memory() (heap, overhead int64) {
	return m.Allocated(), int64(unsafe.Sizeof(*m))
}

func (m *libc) Release() {
}
