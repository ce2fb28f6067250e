// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

//go:generate go tool stringer -type=Kind -linecomment -output=kind_string.go

// Package generr defines the failure kinds of a header generation run.
// Every failure is fatal to the run;
// the kind identifies which check failed.
package generr

import (
	"errors"
	"fmt"
)

// Kind is a category of generation failure.
type Kind int

const (
	Unknown Kind = iota // unknown
	// InputMalformed indicates that the definition is missing a field
	// or has a field of the wrong shape.
	InputMalformed // input malformed
	// SlotExhaustion indicates that the opcode space has no room
	// for another instruction.
	SlotExhaustion // slot exhaustion
	// InvariantViolation indicates that an out-of-range code
	// reached a table builder.
	InvariantViolation // invariant violation
	// IOFailure indicates that the definition could not be read
	// or the header could not be written.
	IOFailure // I/O failure
	// Stale indicates that an existing header differs from the generated one.
	Stale // stale output
)

// Error is a generation failure of a particular [Kind].
type Error struct {
	Kind Kind
	Err  error
}

// Errorf returns a new [*Error] of the given kind
// whose cause is formatted with [fmt.Errorf].
func Errorf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap returns err as an [*Error] of the given kind.
// If err is nil, Wrap returns nil.
// If err already carries a kind, Wrap returns it unchanged.
func Wrap(kind Kind, err error) error {
	if err == nil {
		return nil
	}
	if KindOf(err) != Unknown {
		return err
	}
	return &Error{Kind: kind, Err: err}
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// KindOf returns the [Kind] of the first [*Error] in err's tree
// or [Unknown] if there is none.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return Unknown
	}
	return e.Kind
}
