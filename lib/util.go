package lib

import "fmt"
import "unsafe"
import "strings"
import "encoding/json"

// Parsecsv convert a string of command seperated value into list of string of
// values.
func Parsecsv(input string) []string {
	if input == "" {
		return nil
	}
	ss := strings.Split(input, ",")
	outs := make([]string, 0)
	for _, s := range ss {
		s = strings.Trim(s, " \t\r\n")
		if s == "" {
			continue
		}
		outs = append(outs, s)
	}
	return outs
}

// Bytes return a byte-slice view of `n` bytes starting at `ptr`. Useful
// when memory block is obtained outside golang runtime. Return nil for
// nil pointer or non-positive length.
func Bytes(ptr unsafe.Pointer, n int64) []byte {
	if ptr == nil || n <= 0 {
		return nil
	}
	return unsafe.Slice((*byte)(ptr), n)
}

// Memcpy copy memory block of length `ln` from `src` to `dst`. Overlapping
// blocks are copied as if by memmove.
func Memcpy(dst, src unsafe.Pointer, ln int64) int64 {
	return int64(copy(Bytes(dst, ln), Bytes(src, ln)))
}

// Cstrlen return the length of NUL terminated string at `ptr`, scanning
// no more than `maxlen` bytes. If maxlen is negative scan till NUL.
func Cstrlen(ptr unsafe.Pointer, maxlen int64) int64 {
	if ptr == nil {
		return 0
	}
	n := int64(0)
	for maxlen < 0 || n < maxlen {
		if *(*byte)(unsafe.Add(ptr, n)) == 0 {
			break
		}
		n++
	}
	return n
}

// Gostring copy NUL terminated string at `ptr` into golang string.
func Gostring(ptr unsafe.Pointer) string {
	return string(Bytes(ptr, Cstrlen(ptr, -1)))
}

// Prettystats uses json.MarshalIndent, if pretty is true, instead of
// json.Marshal. If Marshal return error Prettystats will panic.
func Prettystats(stats map[string]interface{}, pretty bool) string {
	if pretty {
		data, err := json.MarshalIndent(stats, "", "  ")
		if err != nil {
			panic(err)
		}
		return string(data)
	}
	data, err := json.Marshal(stats)
	if err != nil {
		panic(err)
	}
	return string(data)
}

func panicerr(fmsg string, args ...interface{}) {
	panic(fmt.Errorf(fmsg, args...))
}
