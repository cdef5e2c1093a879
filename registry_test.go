package hmemory

import "testing"
import "unsafe"

import "github.com/stretchr/testify/require"

func newtestrecord(size int64, label string) *record {
	block := make([]byte, rawsize(size))
	raw := unsafe.Pointer(&block[0])
	guardapply(raw, rawsize(size))
	return &record{raw: raw, size: size, label: label, site: callsite(1)}
}

func TestRegistryInsert(t *testing.T) {
	reg := newregistry()
	rec1, rec2 := newtestrecord(10, "one"), newtestrecord(20, "two")
	require.NoError(t, reg.insert(rec1))
	require.NoError(t, reg.insert(rec2))
	require.Equal(t, ErrorDuplicateAddress, reg.insert(rec1))

	alloc, ok := reg.lookup(rec1.address())
	require.True(t, ok)
	require.Equal(t, "one", alloc.Label)
	require.Equal(t, int64(10), alloc.Size)
	require.Equal(t, payloadof(rec1.raw), alloc.Payload)
	require.Equal(t, "TestRegistryInsert", shortfunc(alloc.Site.Function))

	current, peak, total, count := reg.counters()
	require.Equal(t, []int64{30, 30, 30, 2}, []int64{current, peak, total, count})

	_, err := reg.remove(rec1.address())
	require.NoError(t, err)
	_, err = reg.remove(rec1.address())
	require.Equal(t, ErrorUnknownAddress, err)
	_, ok = reg.lookup(rec1.address())
	require.False(t, ok)

	current, peak, total, count = reg.counters()
	require.Equal(t, []int64{20, 30, 30, 1}, []int64{current, peak, total, count})
}

func TestRegistryCheck(t *testing.T) {
	reg := newregistry()
	rec := newtestrecord(8, "check")
	require.NoError(t, reg.insert(rec))

	_, corruption, err := reg.check(rec.address())
	require.NoError(t, err)
	require.Equal(t, Corruption(0), corruption)

	*(*byte)(unsafe.Add(rec.raw, Guardwidth+8)) = 0
	alloc, corruption, err := reg.check(rec.address())
	require.NoError(t, err)
	require.Equal(t, Overflow, corruption)
	require.Equal(t, "check", alloc.Label)

	_, _, err = reg.check(rec.address() + 1)
	require.Equal(t, ErrorUnknownAddress, err)
}

func TestRegistryResize(t *testing.T) {
	reg := newregistry()
	rec := newtestrecord(100, "resize")
	require.NoError(t, reg.insert(rec))

	// failed resize leaves everything as it was.
	detached, err := reg.detach(rec.address())
	require.NoError(t, err)
	_, ok := reg.lookup(rec.address())
	require.False(t, ok)
	require.NoError(t, reg.restore(detached))
	current, peak, total, count := reg.counters()
	require.Equal(t, []int64{100, 100, 100, 1}, []int64{current, peak, total, count})

	// grow
	detached, err = reg.detach(rec.address())
	require.NoError(t, err)
	require.NoError(t, reg.attach(newtestrecord(250, "resize"), detached.size))
	current, peak, total, count = reg.counters()
	require.Equal(t, []int64{250, 250, 250, 1}, []int64{current, peak, total, count})

	_, err = reg.detach(rec.address())
	require.Equal(t, ErrorUnknownAddress, err)
}

func TestRegistryShrink(t *testing.T) {
	reg := newregistry()
	rec := newtestrecord(100, "shrink")
	require.NoError(t, reg.insert(rec))
	detached, err := reg.detach(rec.address())
	require.NoError(t, err)
	require.NoError(t, reg.attach(newtestrecord(40, "shrink"), detached.size))

	current, peak, total, count := reg.counters()
	require.Equal(t, []int64{40, 100, 100, 1}, []int64{current, peak, total, count})
	stats := reg.stats()
	require.Equal(t, int64(1), stats["nallocs"])
	require.Equal(t, int64(1), stats["nreallocs"])
	require.Equal(t, int64(0), stats["nfrees"])
	sizes := stats["sizes"].(map[string]interface{})
	require.Equal(t, int64(2), sizes["samples"])
	require.Equal(t, int64(100), sizes["max"])
}

func TestRegistryDrain(t *testing.T) {
	reg := newregistry()
	for i := int64(1); i <= 10; i++ {
		require.NoError(t, reg.insert(newtestrecord(i, "drain")))
	}
	n := 0
	reg.foreach(func(rec *record) bool {
		n++
		return n < 5
	})
	require.Equal(t, 5, n)

	recs := reg.drain()
	require.Equal(t, 10, len(recs))
	for i := 1; i < len(recs); i++ {
		require.True(t, recs[i-1].address() < recs[i].address())
	}
	current, peak, total, count := reg.counters()
	require.Equal(t, []int64{0, 55, 55, 0}, []int64{current, peak, total, count})
}

func shortfunc(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == '.' {
			return name[i+1:]
		}
	}
	return name
}
