package config

import (
	"testing"
)

func TestExpandEnv_SetVar(t *testing.T) {
	t.Setenv("TEST_VAR", "hello")

	got := ExpandEnv("group: ${TEST_VAR}")
	want := "group: hello"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_UnsetVar(t *testing.T) {
	got := ExpandEnv("group: ${UNSET_VAR_12345}")
	want := "group: "
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultUsedWhenUnset(t *testing.T) {
	got := ExpandEnv("group: ${UNSET_VAR_12345:-fallback}")
	want := "group: fallback"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultIgnoredWhenSet(t *testing.T) {
	t.Setenv("TEST_VAR", "real")

	got := ExpandEnv("group: ${TEST_VAR:-fallback}")
	want := "group: real"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_DefaultUsedWhenEmpty(t *testing.T) {
	t.Setenv("TEST_VAR", "")

	got := ExpandEnv("group: ${TEST_VAR:-fallback}")
	want := "group: fallback"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_MultipleVars(t *testing.T) {
	t.Setenv("GROUP_A", "seq")
	t.Setenv("GROUP_B", "novaseq")

	got := ExpandEnv("${GROUP_A}:${GROUP_B}")
	want := "seq:novaseq"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestExpandEnv_NoPatterns(t *testing.T) {
	input := "plain text with $DOLLAR but no braces"
	if got := ExpandEnv(input); got != input {
		t.Errorf("got %q, want unchanged input", got)
	}
}
