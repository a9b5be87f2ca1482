// Package dnerr defines the error taxonomy natded surfaces to callers:
// malformed input, exhausted fresh-constant pools, and the internal
// "this should never happen" case of an unrulable operator reaching the
// rule dispatch table.
package dnerr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind identifies which of the three error conditions spec.md §7 names
// occurred.
type Kind int

const (
	// MalformedFormula means the parser could not identify a main
	// operator, found an unbalanced grouping or quote, or saw a
	// character outside the defined alphabet. Fatal to the call that
	// triggered it; no partial proof is returned.
	MalformedFormula Kind = iota
	// ExhaustedPool means a decomposition needed a fresh item,
	// predicate, or world constant but the relevant pool was empty.
	ExhaustedPool
	// NonRulableOperator means the rule dispatch table was asked to
	// fire on a glyph outside its closed set. This signals an
	// implementation bug, not a user error.
	NonRulableOperator
)

func (k Kind) String() string {
	switch k {
	case MalformedFormula:
		return "MalformedFormula"
	case ExhaustedPool:
		return "ExhaustedPool"
	case NonRulableOperator:
		return "NonRulableOperator"
	default:
		return "UnknownErrorKind"
	}
}

// Error is the concrete error type natded returns. It carries the Kind
// so callers can branch on it and a Detail message describing the
// specific formula or position involved.
type Error struct {
	Kind   Kind
	Detail string
	cause  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

// Unwrap exposes the wrapped cause, if any, so errors.Is/errors.As work
// against it.
func (e *Error) Unwrap() error { return e.cause }

// New builds an Error of the given kind with a formatted detail message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// Wrap attaches kind and a detail message to an existing error, keeping
// it reachable through errors.Unwrap via github.com/pkg/errors so the
// original parse-library failure (if any) survives in the chain.
func Wrap(cause error, kind Kind, format string, args ...any) error {
	return &Error{
		Kind:   kind,
		Detail: fmt.Sprintf(format, args...),
		cause:  errors.WithStack(cause),
	}
}

// Is reports whether err is a dnerr.Error of the given kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
