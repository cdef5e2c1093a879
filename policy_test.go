package hmemory

import "time"
import "testing"

import "github.com/stretchr/testify/require"

func TestPolicyDefaults(t *testing.T) {
	policy := NewPolicy(Defaultsettings().Mixin(testsettings()))
	require.False(t, policy.Reportcallstack())
	require.True(t, policy.Assertonerror())
	interval, explicit := policy.Checkinterval()
	require.Equal(t, time.Hour, interval)
	require.False(t, explicit)
	require.Equal(t, int64(25), policy.Jitter())

	policy = NewPolicy(Defaultsettings())
	require.True(t, policy.Reportcallstack())
	interval, _ = policy.Checkinterval()
	require.Equal(t, 500*time.Millisecond, interval)
}

func TestPolicyEnv(t *testing.T) {
	policy := NewPolicy(Defaultsettings().Mixin(testsettings()))

	t.Setenv(testprefix+EnvReportCallstack, "1")
	t.Setenv(testprefix+EnvAssertOnError, "0")
	t.Setenv(testprefix+EnvCheckInterval, "20")
	require.True(t, policy.Reportcallstack())
	require.False(t, policy.Assertonerror())
	interval, explicit := policy.Checkinterval()
	require.Equal(t, 20*time.Millisecond, interval)
	require.True(t, explicit)

	// environment is consulted for every decision.
	t.Setenv(testprefix+EnvAssertOnError, " 7 ")
	require.True(t, policy.Assertonerror())

	// non integer values fall back to defaults.
	t.Setenv(testprefix+EnvReportCallstack, "yes")
	t.Setenv(testprefix+EnvAssertOnError, "")
	t.Setenv(testprefix+EnvCheckInterval, "fast")
	require.False(t, policy.Reportcallstack())
	require.True(t, policy.Assertonerror())
	interval, explicit = policy.Checkinterval()
	require.Equal(t, time.Hour, interval)
	require.False(t, explicit)

	stats := policy.Stats()
	require.Equal(t, true, stats["assert.onerror"])
	require.Equal(t, "1h0m0s", stats["check.interval"])
}

func TestPolicyLookupenv(t *testing.T) {
	policy := NewPolicy(Defaultsettings().Mixin(testsettings()))
	env := map[string]string{testprefix + EnvCheckInterval: "-1"}
	policy.lookupenv = func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}
	interval, explicit := policy.Checkinterval()
	require.True(t, explicit)
	require.True(t, interval < 0)
}

func TestJitter(t *testing.T) {
	interval := 100 * time.Millisecond
	for i := 0; i < 1000; i++ {
		x := jitter(interval, 25)
		if x < 75*time.Millisecond || x > 125*time.Millisecond {
			t.Fatalf("unexpected jitter %v", x)
		}
	}
	require.Equal(t, interval, jitter(interval, 0))
	require.Equal(t, time.Duration(1), jitter(1, 25))
}
