package lib

import "bytes"
import "reflect"
import "strings"
import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func TestParsecsv(t *testing.T) {
	if x := Parsecsv(""); x != nil {
		t.Errorf("expected nil, got %v", x)
	}
	ref := []string{"libc", "heap", "flist"}
	if x := Parsecsv(" libc, heap,,\tflist\n"); !reflect.DeepEqual(ref, x) {
		t.Errorf("expected %v, got %v", ref, x)
	}
}

func TestMemcpy(t *testing.T) {
	src, dst := make([]byte, 100), make([]byte, 1024)
	for i := 0; i < len(src); i++ {
		src[i] = 0xAB
	}
	n := Memcpy(unsafe.Pointer(&dst[0]), unsafe.Pointer(&src[0]), int64(len(src)))
	if n != int64(len(src)) {
		t.Fatalf("expected %v, got %v", len(src), n)
	} else if !bytes.Equal(dst[:len(src)], src) {
		t.Fatalf("Memcpy() failed")
	}

	// overlapping blocks behave like memmove.
	buf := []byte("abcdefgh")
	Memcpy(unsafe.Pointer(&buf[2]), unsafe.Pointer(&buf[0]), 4)
	if x := string(buf); x != "ababcdgh" {
		t.Fatalf("expected %v, got %v", "ababcdgh", x)
	}
	require.Equal(t, int64(0), Memcpy(nil, unsafe.Pointer(&buf[0]), 4))
}

func TestBytes(t *testing.T) {
	buf := []byte("hello")
	require.Nil(t, Bytes(nil, 10))
	require.Nil(t, Bytes(unsafe.Pointer(&buf[0]), 0))
	view := Bytes(unsafe.Pointer(&buf[0]), 5)
	view[0] = 'H'
	require.Equal(t, "Hello", string(buf))
}

func TestCstrlen(t *testing.T) {
	buf := []byte("hello\x00world\x00")
	ptr := unsafe.Pointer(&buf[0])
	require.Equal(t, int64(5), Cstrlen(ptr, -1))
	require.Equal(t, int64(3), Cstrlen(ptr, 3))
	require.Equal(t, int64(5), Cstrlen(ptr, 100))
	require.Equal(t, int64(0), Cstrlen(nil, -1))
	require.Equal(t, "hello", Gostring(ptr))
	require.Equal(t, "world", Gostring(unsafe.Pointer(&buf[6])))
	require.Equal(t, "", Gostring(nil))
}

func TestPrettystats(t *testing.T) {
	stats := map[string]interface{}{"current": int64(10), "count": 1}
	require.Equal(t, `{"count":1,"current":10}`, Prettystats(stats, false))
	require.True(t, strings.Contains(Prettystats(stats, true), "\n  \"count\": 1"))
	require.Panics(t, func() {
		Prettystats(map[string]interface{}{"ch": make(chan int)}, false)
	})
}
