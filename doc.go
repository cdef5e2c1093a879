// Package hmemory implement a debugging allocator that detects heap
// misuse in programs managing memory outside the garbage collector.
//
// Every block handed out by Memory is bracketed by two guards holding
// Signature, and tracked in a registry along with its size, label and
// call site. Guards are verified when the block is freed or resized,
// on Validate, and periodically by a background worker. Frees of
// untracked addresses, double frees and overlapping copies are
// detected. Blocks still tracked when Memory is closed are reported as
// leaks.
//
// Diagnostics are written to os.Stderr, or the writer set via
// SetOutput, every line prefixed by "(hmemory:<pid>) ". Detected errors
// are escalated, either by aborting the process or by continuing after
// an error line. Escalation policy, call stack reporting and check
// interval can be overridden at runtime by environment variables:
//
//	hmemory_report_callstack=0|1
//	hmemory_assert_on_error=0|1
//	hmemory_check_interval=<milliseconds>
//
// Typical usage:
//
//	mem := hmemory.New(hmemory.Defaultsettings())
//	defer mem.Close()
//
//	ptr := mem.Malloc("buf", 1024)
//	...
//	mem.Free(ptr)
//
// Raw memory is obtained from one of the allocators in malloc package,
// selected by "allocator" setting.
package hmemory
