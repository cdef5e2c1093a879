package main

import "bytes"
import "errors"
import "strings"
import "testing"

import "github.com/bnclabs/hmemory"
import "github.com/bnclabs/hmemory/lib"
import "github.com/stretchr/testify/require"

func testsettings() lib.Settings {
	return hmemory.Defaultsettings().Mixin(lib.Settings{
		"env.prefix":       "hmemchecktest_",
		"check.interval":   int64(3600 * 1000),
		"report.callstack": false,
	})
}

func runtest(t *testing.T, names ...string) (string, []error, error) {
	t.Helper()
	var out bytes.Buffer
	var aborts []error
	abort := func(err error) { aborts = append(aborts, err) }
	err := runScenarios(names, testsettings(), &out, abort)
	return out.String(), aborts, err
}

func TestSuccessScenarios(t *testing.T) {
	runArgument = "hmemcheck"
	for _, name := range []string{"success-00", "success-01", "success-06"} {
		out, aborts, err := runtest(t, name)
		require.NoError(t, err, name)
		require.Equal(t, 0, len(aborts), name)
		require.Contains(t, out, "leaks  : 0 items", name)
	}
}

func TestFailScenario(t *testing.T) {
	out, aborts, err := runtest(t, "fail-00")
	require.Error(t, err)
	require.True(t, errors.Is(err, hmemory.ErrorLeakDetected))
	require.Equal(t, 1, len(aborts))
	require.Contains(t, out, "leaks  : 1 items")
	require.Contains(t, out, "- 1024 bytes at: ")
	require.Contains(t, out, "malloc-1024(")
}

func TestErrorScenarios(t *testing.T) {
	runArgument = "hmemcheck"
	testcases := map[string]string{
		"overflow":   "with corrupted address",
		"underflow":  "free with corrupted address",
		"doublefree": "free with invalid address",
		"overlap":    "memcpy with overlapping memory",
	}
	for name, ref := range testcases {
		out, aborts, _ := runtest(t, name)
		require.Contains(t, out, ref, name)
		require.True(t, len(aborts) > 0, name)
		require.Contains(t, out, "leaks  : 0 items", name)
	}

	_, _, err := runtest(t, "overflow")
	require.True(t, errors.Is(err, hmemory.ErrorMemoryCorruption))
	_, _, err = runtest(t, "nosuchthing", "fail-00")
	require.Error(t, err)
	require.Contains(t, err.Error(), `unknown scenario "nosuchthing"`)
	require.Contains(t, err.Error(), "fail-00:")
}

func TestCommands(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	defer rootCmd.SetOut(nil)

	rootCmd.SetArgs([]string{"list"})
	require.NoError(t, rootCmd.Execute())
	for _, name := range scenarionames() {
		require.Contains(t, out.String(), name)
	}

	out.Reset()
	t.Setenv("hmemory_check_interval", "42")
	rootCmd.SetArgs([]string{"env", "--noassert"})
	require.NoError(t, rootCmd.Execute())
	require.Contains(t, out.String(), `"check.interval": "42ms"`)
	require.Contains(t, out.String(), `"assert.onerror": false`)

	out.Reset()
	rootCmd.SetArgs([]string{"pools", "--minblock", "32", "--maxblock", "1024"})
	require.NoError(t, rootCmd.Execute())
	require.True(t, strings.HasSuffix(out.String(), "size pools\n"))

	rootCmd.SetArgs([]string{"pools", "--minblock", "33"})
	require.Error(t, rootCmd.Execute())
}
