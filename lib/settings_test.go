package lib

import "testing"
import "reflect"

import "github.com/stretchr/testify/require"

func TestSettingsSection(t *testing.T) {
	setts := Settings{
		"section1.param1": 10,
		"section1.param2": 20,
		"section2.param1": 30,
		"section2.param2": 40,
	}
	ref := Settings{
		"section1.param1": 10,
		"section1.param2": 20,
	}
	section := setts.Section("section1")
	if !reflect.DeepEqual(ref, section) {
		t.Fatalf("expected %v, got %v", ref, section)
	}
}

func TestSettingsTrim(t *testing.T) {
	setts := Settings{
		"section1.param1": 10,
		"section1.param2": 20,
		"section2.param1": 30,
		"section2.param2": 40,
	}
	ref := Settings{
		"param1": 10,
		"param2": 20,
	}
	trimmed := setts.Section("section1").Trim("section1.")
	if !reflect.DeepEqual(ref, trimmed) {
		t.Fatalf("expected %v, got %v", ref, trimmed)
	}

	prefixed := trimmed.AddPrefix("flist.")
	ref = Settings{"flist.param1": 10, "flist.param2": 20}
	if !reflect.DeepEqual(ref, prefixed) {
		t.Fatalf("expected %v, got %v", ref, prefixed)
	}
}

func TestSettingsMixin(t *testing.T) {
	setts := Settings{"a": 1, "b": 2}
	out := setts.Mixin(
		Settings{"b": 20}, map[string]interface{}{"c": 30}, "ignored")
	ref := Settings{"a": 1, "b": 20, "c": 30}
	if !reflect.DeepEqual(ref, out) {
		t.Fatalf("expected %v, got %v", ref, out)
	} else if !reflect.DeepEqual(ref, setts) {
		t.Fatalf("expected %v, got %v", ref, setts)
	}
}

func TestSettingsGetters(t *testing.T) {
	setts := Settings{
		"bool":    true,
		"number":  int64(10),
		"int":     20,
		"float":   2.5,
		"uint8":   uint8(3),
		"string":  "libc",
		"numbool": 1,
	}
	require.True(t, setts.Bool("bool"))
	require.True(t, setts.Bool("numbool"))
	require.Equal(t, int64(10), setts.Int64("number"))
	require.Equal(t, int64(20), setts.Int64("int"))
	require.Equal(t, int64(2), setts.Int64("float"))
	require.Equal(t, int64(3), setts.Int64("uint8"))
	require.Equal(t, "libc", setts.String("string"))

	require.Panics(t, func() { setts.Bool("missing") })
	require.Panics(t, func() { setts.Bool("string") })
	require.Panics(t, func() { setts.Int64("bool") })
	require.Panics(t, func() { setts.String("number") })
}
