package hmemory

import "bytes"
import "sync"
import "testing"
import "unsafe"

import "github.com/bnclabs/hmemory/lib"

const testprefix = "hmemtest_"

type syncbuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncbuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncbuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

type aborts struct {
	mu   sync.Mutex
	errs []error
}

func (a *aborts) abort(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.errs = append(a.errs, err)
}

func (a *aborts) count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.errs)
}

func (a *aborts) last() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if len(a.errs) == 0 {
		return nil
	}
	return a.errs[len(a.errs)-1]
}

// testsettings isolate tests from the environment and keep the
// validation worker out of the way, unless overridden.
func testsettings(overrides ...lib.Settings) lib.Settings {
	setts := lib.Settings{
		"env.prefix":       testprefix,
		"check.interval":   int64(3600 * 1000),
		"report.callstack": false,
	}
	for _, override := range overrides {
		setts.Mixin(override)
	}
	return setts
}

func newtestmemory(t *testing.T, overrides ...lib.Settings) (*Memory, *syncbuffer, *aborts) {
	t.Helper()
	out, ab := &syncbuffer{}, &aborts{}
	m := New(testsettings(overrides...))
	m.SetOutput(out).SetAbort(ab.abort)
	return m, out, ab
}

func checkcounters(t *testing.T, m *Memory, current, peak, total, count int64) {
	t.Helper()
	c, p, tt, n := m.registry.counters()
	if c != current {
		t.Errorf("current expected %v, got %v", current, c)
	} else if p != peak {
		t.Errorf("peak expected %v, got %v", peak, p)
	} else if tt != total {
		t.Errorf("total expected %v, got %v", total, tt)
	} else if n != count {
		t.Errorf("count expected %v, got %v", count, n)
	}
}

func payloadbytes(ptr unsafe.Pointer, n int64) []byte {
	return lib.Bytes(ptr, n)
}

// guardbyte return a pointer to the i-th byte relative to payload,
// negative i address the underflow guard.
func guardbyte(ptr unsafe.Pointer, i int64) *byte {
	return (*byte)(unsafe.Add(ptr, i))
}
