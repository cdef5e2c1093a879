package malloc

//#include <stdlib.h>
import "C"

import "sync"
import "unsafe"

// Arena manage pools of fixed size chunks, one list of pools for each
// chunk size between minblock and maxblock. Blocks larger than
// maxblock are allocated directly from C heap.
type Arena struct {
	mu         sync.Mutex
	blocksizes []int64                // sorted list of chunk-sizes
	mpools     map[int64][]*poolflist // size -> list of pools
	large      map[uintptr]largeblock // blocks > maxblock

	// stats
	allocated int64 // bytes handed out, as requested
	heap      int64 // bytes obtained from OS

	// configuration
	minblock  int64 // minimum chunk size
	maxblock  int64 // maximum chunk size
	pcapacity int64 // memory capacity of a single pool
}

type largeblock struct {
	ptr  unsafe.Pointer
	size int64
}

// NewArena create a new flist arena.
func NewArena(minblock, maxblock, pcapacity int64) *Arena {
	arena := &Arena{
		blocksizes: Blocksizes(minblock, maxblock),
		mpools:     make(map[int64][]*poolflist),
		large:      make(map[uintptr]largeblock),
		minblock:   minblock,
		maxblock:   maxblock,
		pcapacity:  pcapacity,
	}
	if pcapacity < maxblock {
		panicerr("pool capacity %v < maxblock %v", pcapacity, maxblock)
	}
	return arena
}

// Name implement Rawallocator{} interface.
func (arena *Arena) Name() string {
	return "flist"
}

// Alloc implement Rawallocator{} interface.
func (arena *Arena) Alloc(size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	arena.mu.Lock()
	defer arena.mu.Unlock()

	if arena.mpools == nil {
		panicerr("arena released")
	}
	return arena.alloc(size)
}

func (arena *Arena) alloc(size int64) unsafe.Pointer {
	chunksize := SuitableSize(arena.blocksizes, size)
	if chunksize < 0 {
		ptr := C.malloc(C.size_t(size))
		if ptr == nil {
			return nil
		}
		arena.large[uintptr(ptr)] = largeblock{ptr: ptr, size: size}
		arena.allocated += size
		arena.heap += size
		return ptr
	}

	for _, pool := range arena.mpools[chunksize] {
		if ptr, ok := pool.allocchunk(); ok {
			arena.allocated += size
			return ptr
		}
	}
	// pools exhausted, create a new pool.
	numchunks := arena.pcapacity / chunksize
	if numchunks > Maxchunks {
		numchunks = Maxchunks
	}
	pool := newpoolflist(chunksize, numchunks)
	if pool == nil {
		return nil
	}
	pools := arena.mpools[chunksize]
	arena.mpools[chunksize] = append([]*poolflist{pool}, pools...)
	arena.heap += pool.capacity
	ptr, _ := pool.allocchunk()
	arena.allocated += size
	return ptr
}

// Realloc implement Rawallocator{} interface. Blocks that stay within
// the same chunk size are resized in place.
func (arena *Arena) Realloc(ptr unsafe.Pointer, oldsize, size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	arena.mu.Lock()
	defer arena.mu.Unlock()

	oldchunk := SuitableSize(arena.blocksizes, oldsize)
	newchunk := SuitableSize(arena.blocksizes, size)
	if oldchunk > 0 && oldchunk == newchunk {
		arena.allocated += size - oldsize
		return ptr
	}
	newptr := arena.alloc(size)
	if newptr == nil {
		return nil
	}
	n := oldsize
	if size < n {
		n = size
	}
	copy(unsafe.Slice((*byte)(newptr), n), unsafe.Slice((*byte)(ptr), n))
	arena.free(ptr, oldsize)
	return newptr
}

// Free implement Rawallocator{} interface.
func (arena *Arena) Free(ptr unsafe.Pointer, size int64) {
	if ptr == nil {
		return
	}
	arena.mu.Lock()
	defer arena.mu.Unlock()
	arena.free(ptr, size)
}

func (arena *Arena) free(ptr unsafe.Pointer, size int64) {
	if block, ok := arena.large[uintptr(ptr)]; ok {
		delete(arena.large, uintptr(ptr))
		C.free(block.ptr)
		arena.allocated -= block.size
		arena.heap -= block.size
		return
	}

	chunksize := SuitableSize(arena.blocksizes, size)
	pools := arena.mpools[chunksize]
	for i, pool := range pools {
		if !pool.contains(ptr) {
			continue
		}
		pool.free(ptr)
		arena.allocated -= size
		// give an empty pool back to OS, if it is not the only one.
		if pool.isempty() && len(pools) > 1 {
			arena.heap -= pool.capacity
			pool.release()
			copy(pools[i:], pools[i+1:])
			arena.mpools[chunksize] = pools[:len(pools)-1]
		}
		return
	}
	panicerr("arena.free(): %p of size %v not from this arena", ptr, size)
}

// Allocated implement Rawallocator{} interface.
func (arena *Arena) Allocated() int64 {
	arena.mu.Lock()
	defer arena.mu.Unlock()
	return arena.allocated
}

// Memory implement Rawallocator{} interface.
func (arena *Arena) Memory() (memheap, overhead int64) {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	self := int64(unsafe.Sizeof(*arena))
	slicesz := int64(cap(arena.blocksizes)) * int64(unsafe.Sizeof(int64(1)))
	overhead += self + slicesz
	for _, pools := range arena.mpools {
		for _, pool := range pools {
			_, _, x := pool.info()
			overhead += x
		}
	}
	return arena.heap, overhead
}

// Utilization return, for each chunk-size in use, the percentage of
// pool memory handed out.
func (arena *Arena) Utilization() ([]int64, []float64) {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	sizes, zs := []int64{}, []float64{}
	for _, size := range arena.blocksizes {
		capacity, allocated := float64(0), float64(0)
		for _, pool := range arena.mpools[size] {
			c, a, _ := pool.info()
			capacity, allocated = capacity+float64(c), allocated+float64(a)
		}
		if capacity > 0 {
			sizes = append(sizes, size)
			zs = append(zs, (allocated/capacity)*100)
		}
	}
	return sizes, zs
}

// Chunksizes return the sorted list of chunk sizes managed by pools.
func (arena *Arena) Chunksizes() []int64 {
	return arena.blocksizes
}

// Release implement Rawallocator{} interface.
func (arena *Arena) Release() {
	arena.mu.Lock()
	defer arena.mu.Unlock()

	for _, pools := range arena.mpools {
		for _, pool := range pools {
			pool.release()
		}
	}
	for _, block := range arena.large {
		C.free(block.ptr)
	}
	arena.blocksizes, arena.mpools, arena.large = nil, nil, nil
	arena.allocated, arena.heap = 0, 0
}
