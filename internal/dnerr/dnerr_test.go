package dnerr

import (
	"errors"
	"testing"
)

func TestNewAndIs(t *testing.T) {
	err := New(MalformedFormula, "unbalanced parens in %q", "(A")
	if !Is(err, MalformedFormula) {
		t.Error("Is(err, MalformedFormula) = false, want true")
	}
	if Is(err, ExhaustedPool) {
		t.Error("Is(err, ExhaustedPool) = true, want false")
	}
	want := "MalformedFormula: unbalanced parens in \"(A\""
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrapUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ExhaustedPool, "no item constants left")
	if !Is(err, ExhaustedPool) {
		t.Error("Is(err, ExhaustedPool) = false, want true")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{
		MalformedFormula:   "MalformedFormula",
		ExhaustedPool:      "ExhaustedPool",
		NonRulableOperator: "NonRulableOperator",
		Kind(99):           "UnknownErrorKind",
	}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind(%d).String() = %q, want %q", k, got, want)
		}
	}
}
