package malloc

import "unsafe"

// Rawallocator is the underlying allocator used by hmemory, sizes
// passed to Realloc and Free are the sizes used while allocating.
type Rawallocator interface {
	// Name of the allocator algorithm.
	Name() string

	// Alloc a block of `size` bytes, return nil if memory is exhausted.
	Alloc(size int64) unsafe.Pointer

	// Realloc resize block `ptr` from `oldsize` to `size`, may move the
	// block. On failure return nil and `ptr` remains valid.
	Realloc(ptr unsafe.Pointer, oldsize, size int64) unsafe.Pointer

	// Free block `ptr` of `size` bytes.
	Free(ptr unsafe.Pointer, size int64)

	// Allocated return bytes currently handed out to the caller.
	Allocated() int64

	// Memory return memory obtained from OS and overhead in managing it.
	Memory() (heap, overhead int64)

	// Release this allocator and all its resources.
	Release()
}
