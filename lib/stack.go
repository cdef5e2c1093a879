package lib

import "bytes"
import "fmt"
import "runtime"
import "strings"

// Frame is one symbolized entry of a call stack. Function, File and
// Line are empty/zero when the return address could not be resolved.
type Frame struct {
	PC       uintptr
	Function string
	File     string
	Line     int
}

// Callers return upto `depth` return addresses of the calling goroutine,
// skipping `skip` frames above the caller of Callers.
func Callers(skip, depth int) []uintptr {
	if depth <= 0 {
		return nil
	}
	pcs := make([]uintptr, depth)
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

// Symbolize resolve return addresses into frames using the runtime's
// symbol table. Inlined calls expand into more than one frame.
func Symbolize(pcs []uintptr) []Frame {
	if len(pcs) == 0 {
		return nil
	}
	frames := make([]Frame, 0, len(pcs))
	iter := runtime.CallersFrames(pcs)
	for {
		f, more := iter.Next()
		frames = append(frames, Frame{
			PC: f.PC, Function: f.Function, File: f.File, Line: f.Line,
		})
		if !more {
			break
		}
	}
	return frames
}

// Shortfile return the base name of a source file path.
func Shortfile(file string) string {
	if i := strings.LastIndexByte(file, '/'); i >= 0 {
		return file[i+1:]
	}
	return file
}

// GetStacktrace return stack-trace in human readable format.
func GetStacktrace(skip int, stack []byte) string {
	var buf bytes.Buffer
	lines := strings.Split(string(stack), "\n")
	if skip*2 > len(lines) {
		skip = len(lines) / 2
	}
	for _, call := range lines[skip*2:] {
		buf.WriteString(fmt.Sprintf("%s\n", call))
	}
	return buf.String()
}
