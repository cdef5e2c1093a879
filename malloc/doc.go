// Package malloc supplies the raw memory allocators underneath the
// hmemory tracking engine. Every allocator implements Rawallocator and
// hands out memory that is not managed by the golang garbage collector
// (except "heap", which pins golang byte-slices until freed):
//
//  * "libc" allocate, resize and free using C malloc/realloc/free.
//  * "heap" allocate from golang heap, useful when cgo is not available
//    or when the program under test must stay pure go.
//  * "flist" allocate from pools of fixed size chunks, where each
//    pool is a single block of memory obtained from OS and sliced
//    into equal sized chunks tracked by a free-list. Sizes between
//    pre-configured minblock and maxblock are rounded up to the next
//    suitable chunk size, sizes above maxblock bypass the pools.
//
// Allocators are safe for concurrent use. When settings "capacity" is
// more than zero, the allocator fails, returning nil, once the bytes
// handed out would exceed capacity.
package malloc
