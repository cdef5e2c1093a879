package hmemory

import "errors"
import "strings"
import "testing"

import "github.com/bnclabs/hmemory/lib"
import "github.com/stretchr/testify/require"

func TestCloseClean(t *testing.T) {
	m, out, ab := newtestmemory(t)
	ptr := m.Malloc("buf", 1024)
	m.Free(ptr)

	require.NoError(t, m.Close())
	require.NoError(t, m.Close())
	require.Equal(t, 0, ab.count())
	require.Contains(t, out.String(), "memory information:")
	require.Contains(t, out.String(), "peak   : 1024 bytes (1.0 kB)")
	require.Contains(t, out.String(), "leaks  : 0 items")
	require.Equal(t, 1, strings.Count(out.String(), "memory information:"))
	require.Equal(t, int64(0), m.Reports(ErrorLeakDetected))
}

func TestCloseLeaks(t *testing.T) {
	m, out, ab := newtestmemory(t)
	m.Malloc("leak1", 10)
	m.Malloc("leak2", 20)
	m.Cstring("leak3", "leak")
	freed := m.Malloc("freed", 40)
	m.Free(freed)

	err := m.Close()
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrorLeakDetected))
	require.Equal(t, int64(3), m.Reports(ErrorLeakDetected))
	require.Equal(t, 1, ab.count())
	require.True(t, errors.Is(ab.last(), ErrorLeakDetected))

	s := out.String()
	require.Contains(t, s, "current: 75 bytes (75 B)")
	require.Contains(t, s, "count  : 3 items")
	require.Contains(t, s, "leaks  : 3 items")
	if i, j := strings.Index(s, "current: 75 bytes"), strings.Index(s, "- 10 bytes at: "); i > j {
		t.Errorf("expected statistics before leaks, got %v", s)
	}
	require.Contains(t, s, "- 10 bytes at: ")
	require.Contains(t, s, "- 20 bytes at: ")
	require.Contains(t, s, "- 5 bytes at: ")
	require.Contains(t, s, "leak3 github.com/bnclabs/hmemory.TestCloseLeaks (memory_test.go:")
	require.NotContains(t, s, "freed")
	require.Contains(t, s, "hmemory::assert: hmemory.leakdetected: 3 items")

	// leaked blocks are released.
	checkcounters(t, m, 0, 75, 75, 0)
	require.Equal(t, err, m.Close())
	require.Equal(t, int64(3), m.Reports(ErrorLeakDetected))
	require.Equal(t, 1, ab.count())
}

func TestCloseLeaksNoAssert(t *testing.T) {
	t.Setenv(testprefix+EnvAssertOnError, "0")
	m, out, ab := newtestmemory(t)
	m.Malloc("leak", 10)

	require.Error(t, m.Close())
	require.Equal(t, 0, ab.count())
	require.Contains(t, out.String(), "hmemory::error: hmemory.leakdetected")
	checkcounters(t, m, 0, 10, 10, 0)
}

func TestDegraded(t *testing.T) {
	for _, interval := range []int64{0, -10} {
		m, _, ab := newtestmemory(t, lib.Settings{"check.interval": interval})
		require.True(t, m.Degraded())
		require.Nil(t, m.stopch)

		// operations continue without the worker.
		ptr := m.Malloc("degraded", 10)
		require.NotNil(t, ptr)
		m.Free(ptr)
		require.NoError(t, m.Validate())
		require.Equal(t, true, m.Stats()["degraded"])
		require.NoError(t, m.Close())
		require.Equal(t, 0, ab.count())
	}
}

func TestSetAbortDefault(t *testing.T) {
	m, _, _ := newtestmemory(t)
	defer m.Close()
	m.SetAbort(nil)
	fn := m.abort.Load().(func(error))
	require.NotNil(t, fn)
}
