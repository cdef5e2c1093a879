package malloc

import "fmt"

import "github.com/bnclabs/hmemory/lib"

// Sizeinterval minblock and maxblocks should be multiples of Sizeinterval.
const Sizeinterval = int64(32)

// MEMUtilization expected in flist pools.
const MEMUtilization = float64(0.95)

// Maxarenasize maximum memory that can be obtained from OS by flist pools.
const Maxarenasize = int64(1024 * 1024 * 1024 * 1024) // 1TB

// Maxchunks maximum number of chunks allowed in a pool.
const Maxchunks = int64(65536)

// Defaultsettings for raw allocators.
//
// "allocator" (string, default: "libc")
//		Allocator algorithm, can be "libc", "heap" or "flist".
//
// "capacity" (int64, default: 0)
//		Maximum bytes that can be handed out, zero means unlimited.
//
// "flist.minblock" (int64, default: 32)
//		Minimum chunk size for flist pools.
//
// "flist.maxblock" (int64, default: 1MB)
//		Maximum chunk size for flist pools, larger blocks bypass pools.
//
// "flist.pool.capacity" (int64, default: 1MB)
//		Memory obtained from OS for a single pool.
func Defaultsettings() lib.Settings {
	return lib.Settings{
		"allocator":           "libc",
		"capacity":            int64(0),
		"flist.minblock":      int64(32),
		"flist.maxblock":      int64(1024 * 1024),
		"flist.pool.capacity": int64(1024 * 1024),
	}
}

// New create a raw allocator based on settings.
func New(setts lib.Settings) Rawallocator {
	setts = Defaultsettings().Mixin(setts)

	var raw Rawallocator
	switch name := setts.String("allocator"); name {
	case "libc":
		raw = NewLibc()
	case "heap":
		raw = NewHeap()
	case "flist":
		flist := setts.Section("flist.").Trim("flist.")
		raw = NewArena(
			flist.Int64("minblock"), flist.Int64("maxblock"),
			flist.Int64("pool.capacity"))
	default:
		panic(fmt.Errorf("unknown allocator %q", name))
	}
	if capacity := setts.Int64("capacity"); capacity > 0 {
		return NewLimit(raw, capacity)
	}
	return raw
}
