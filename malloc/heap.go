package malloc

import "sync"
import "unsafe"

// heap allocate memory from golang heap. Blocks are pinned in a map,
// keyed by address, until they are freed.
type heap struct {
	mu        sync.Mutex
	allocated int64
	blocks    map[uintptr][]byte
}

// NewHeap return a Rawallocator backed by golang byte-slices.
func NewHeap() Rawallocator {
	return &heap{blocks: make(map[uintptr][]byte)}
}

func (m *heap) Name() string {
	return "heap"
}

func (m *heap) Alloc(size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	block := make([]byte, size)
	ptr := unsafe.Pointer(&block[0])

	m.mu.Lock()
	m.blocks[uintptr(ptr)] = block
	m.allocated += size
	m.mu.Unlock()
	return ptr
}

func (m *heap) Realloc(ptr unsafe.Pointer, oldsize, size int64) unsafe.Pointer {
	if size <= 0 {
		return nil
	}
	m.mu.Lock()
	old, ok := m.blocks[uintptr(ptr)]
	m.mu.Unlock()
	if !ok {
		return nil
	}
	newptr := m.Alloc(size)
	copy(unsafe.Slice((*byte)(newptr), size), old)
	m.Free(ptr, int64(len(old)))
	return newptr
}

func (m *heap) Free(ptr unsafe.Pointer, size int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if block, ok := m.blocks[uintptr(ptr)]; ok {
		delete(m.blocks, uintptr(ptr))
		m.allocated -= int64(len(block))
	}
}

func (m *heap) Allocated() int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.allocated
}

func (m *heap) Memory() (memheap, overhead int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry := int64(unsafe.Sizeof(uintptr(0)) + unsafe.Sizeof([]byte(nil)))
	return m.allocated, int64(len(m.blocks)) * entry
}

func (m *heap) Release() {
	m.mu.Lock()
	m.blocks, m.allocated = make(map[uintptr][]byte), 0
	m.mu.Unlock()
}
