package hmemory

import "unsafe"
import "strings"
import "encoding/binary"

// Signature written immediately before and after the payload of
// every tracked allocation.
const Signature = uint64(0xdeadbeef)

// Guardwidth number of bytes occupied by each copy of Signature. Raw
// block for a payload of `n` bytes is n + 2*Guardwidth bytes long and
// payload starts at raw + Guardwidth.
const Guardwidth = int64(8)

// Corruption bitmask of guards that failed verification, zero means
// the block is intact.
type Corruption uint8

const (
	// Underflow guard preceding the payload is overwritten.
	Underflow Corruption = 1 << iota
	// Overflow guard following the payload is overwritten.
	Overflow
)

func (c Corruption) String() string {
	ss := []string{}
	if c&Underflow != 0 {
		ss = append(ss, "underflow")
	}
	if c&Overflow != 0 {
		ss = append(ss, "overflow")
	}
	if len(ss) == 0 {
		return "ok"
	}
	return strings.Join(ss, ",")
}

// guardapply write Signature at offset 0 and at offset
// total-Guardwidth of raw block.
func guardapply(raw unsafe.Pointer, total int64) {
	binary.LittleEndian.PutUint64(guardbytes(raw, 0), Signature)
	binary.LittleEndian.PutUint64(guardbytes(raw, total-Guardwidth), Signature)
}

// guardverify re-read both guards of raw block, does not mutate it.
func guardverify(raw unsafe.Pointer, total int64) (c Corruption) {
	if binary.LittleEndian.Uint64(guardbytes(raw, 0)) != Signature {
		c |= Underflow
	}
	if binary.LittleEndian.Uint64(guardbytes(raw, total-Guardwidth)) != Signature {
		c |= Overflow
	}
	return c
}

func guardbytes(raw unsafe.Pointer, off int64) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(raw, off)), Guardwidth)
}

func rawsize(size int64) int64 {
	return size + 2*Guardwidth
}

func payloadof(raw unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(raw, Guardwidth)
}

// rawaddress compute raw address of a payload pointer without
// dereferencing it, the pointer may not be tracked.
func rawaddress(payload unsafe.Pointer) uintptr {
	return uintptr(payload) - uintptr(Guardwidth)
}
