package hmemory

import "os"

import "github.com/bnclabs/hmemory/lib"
import "github.com/bnclabs/hmemory/malloc"
import "github.com/cloudfoundry/gosigar"

// Defaultsettings for hmemory instance along with its raw allocator.
//
// "report.callstack" (bool, default: true)
//		Include a symbolized call stack in every diagnostic report.
//		Overridden by environment variable <env.prefix>report_callstack.
//
// "assert.onerror" (bool, default: true)
//		Abort the process when an error is detected, if false errors
//		are only reported. Overridden by <env.prefix>assert_on_error.
//
// "check.interval" (int64, default: 500)
//		Period, in milliseconds, between validation scans. Overridden
//		by <env.prefix>check_interval, a non-positive value disables
//		the validation worker.
//
// "check.jitter" (int64, default: 25)
//		Percentage of randomness added to the default check interval.
//		Not applied when the interval is set via the environment.
//
// "env.prefix" (string, default: "hmemory_")
//		Prefix for environment variables.
//
// "callstack.depth" (int64, default: 32)
//		Maximum number of frames captured for a report.
//
// "allocator" (string, default: "libc")
//		Raw allocator, refer malloc.Defaultsettings().
//
// "capacity" (int64, default: 0)
//		Maximum bytes, including guards, that can be obtained from
//		raw allocator, zero means unlimited.
//
func Defaultsettings() lib.Settings {
	setts := lib.Settings{
		"report.callstack": true,
		"assert.onerror":   true,
		"check.interval":   int64(500),
		"check.jitter":     int64(25),
		"env.prefix":       "hmemory_",
		"callstack.depth":  int64(32),
	}
	return setts.Mixin(malloc.Defaultsettings())
}

func getsysmem() (total, used, free uint64) {
	mem := sigar.Mem{}
	mem.Get()
	return mem.Total, mem.Used, mem.Free
}

// getprocmem return resident and virtual size of this process, ok is
// false on platforms where it cannot be computed.
func getprocmem() (resident, size uint64, ok bool) {
	mem := sigar.ProcMem{}
	if err := mem.Get(os.Getpid()); err != nil {
		return 0, 0, false
	}
	return mem.Resident, mem.Size, true
}
