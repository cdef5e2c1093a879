package hmemory

import "fmt"
import "errors"

// ErrorAllocationFailure underlying allocator is exhausted, returned to
// caller as nil/negative result and never escalated.
var ErrorAllocationFailure = errors.New("hmemory.allocationfailure")

// ErrorInvalidArgument nil or invalid input to duplicate or copy.
var ErrorInvalidArgument = errors.New("hmemory.invalidargument")

// ErrorUnknownAddress free, realloc or check on an address that is not
// tracked, invalid free or double free.
var ErrorUnknownAddress = errors.New("hmemory.unknownaddress")

// ErrorDuplicateAddress an address is already tracked while inserting.
var ErrorDuplicateAddress = errors.New("hmemory.duplicateaddress")

// ErrorMemoryCorruption guard mismatch, see CorruptionError.
var ErrorMemoryCorruption = errors.New("hmemory.memorycorruption")

// ErrorMemoryOverlap source and destination of Memcpy overlap.
var ErrorMemoryOverlap = errors.New("hmemory.memoryoverlap")

// ErrorLeakDetected allocations are still tracked at Close.
var ErrorLeakDetected = errors.New("hmemory.leakdetected")

// CorruptionError detail of a corrupted allocation.
type CorruptionError struct {
	Allocation
	Side Corruption
}

func (err *CorruptionError) Error() string {
	fmsg := "%v: %v at %p size %v label %q"
	return fmt.Sprintf(fmsg, ErrorMemoryCorruption, err.Side, err.Payload, err.Size, err.Label)
}

// Unwrap return ErrorMemoryCorruption, so that errors.Is works.
func (err *CorruptionError) Unwrap() error {
	return ErrorMemoryCorruption
}
