// Functions and methods are not thread safe, Arena serializes them.

package malloc

//#include <stdlib.h>
import "C"

import "unsafe"

// poolflist manages a memory block sliced up into equal sized chunks.
type poolflist struct {
	// 64-bit aligned stats
	mallocated int64

	capacity int64          // memory managed by this pool
	size     int64          // fixed size chunks in this pool
	base     unsafe.Pointer // pool's base pointer
	freelist []uint16
}

// size of each chunk in the block and no. of chunks in the block.
func newpoolflist(size, n int64) *poolflist {
	if n <= 0 || n > Maxchunks {
		panicerr("number of chunks %v not in (0,%v]", n, Maxchunks)
	}
	capacity := size * n
	base := C.malloc(C.size_t(capacity))
	if base == nil {
		return nil
	}
	pool := &poolflist{
		capacity: capacity,
		size:     size,
		base:     base,
		freelist: make([]uint16, n),
	}
	// chunks are handed out from lower addresses first.
	for i := int64(0); i < n; i++ {
		pool.freelist[i] = uint16(n - 1 - i)
	}
	return pool
}

func (pool *poolflist) allocchunk() (unsafe.Pointer, bool) {
	if len(pool.freelist) == 0 {
		return nil, false
	}
	last := len(pool.freelist) - 1
	nthblock := int64(pool.freelist[last])
	pool.freelist = pool.freelist[:last]
	pool.mallocated += pool.size
	return unsafe.Add(pool.base, nthblock*pool.size), true
}

func (pool *poolflist) free(ptr unsafe.Pointer) {
	diffptr := int64(uintptr(ptr) - uintptr(pool.base))
	if (diffptr % pool.size) != 0 {
		panicerr("poolflist.free(): unaligned pointer: %x,%v", diffptr, pool.size)
	}
	pool.freelist = append(pool.freelist, uint16(diffptr/pool.size))
	pool.mallocated -= pool.size
}

func (pool *poolflist) contains(ptr unsafe.Pointer) bool {
	addr, base := uintptr(ptr), uintptr(pool.base)
	return addr >= base && addr < base+uintptr(pool.capacity)
}

func (pool *poolflist) isempty() bool {
	return pool.mallocated == 0
}

func (pool *poolflist) info() (capacity, alloc, overhead int64) {
	self := int64(unsafe.Sizeof(*pool))
	slicesz := int64(cap(pool.freelist)) * int64(unsafe.Sizeof(uint16(0)))
	return pool.capacity, pool.mallocated, slicesz + self
}

func (pool *poolflist) release() {
	if pool.base != nil {
		C.free(pool.base)
	}
	pool.freelist = nil
	pool.capacity, pool.base = 0, nil
	pool.mallocated = 0
}
