// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package generr

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{
			name: "Nil",
			err:  nil,
			want: Unknown,
		},
		{
			name: "Plain",
			err:  errors.New("bork"),
			want: Unknown,
		},
		{
			name: "Direct",
			err:  Errorf(SlotExhaustion, "no room"),
			want: SlotExhaustion,
		},
		{
			name: "Wrapped",
			err:  fmt.Errorf("generate: %w", Errorf(InvariantViolation, "code 300")),
			want: InvariantViolation,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := KindOf(test.err); got != test.want {
				t.Errorf("KindOf(%v) = %v; want %v", test.err, got, test.want)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	if err := Wrap(IOFailure, nil); err != nil {
		t.Errorf("Wrap(IOFailure, nil) = %v; want <nil>", err)
	}

	err := Wrap(IOFailure, fs.ErrNotExist)
	if got := KindOf(err); got != IOFailure {
		t.Errorf("KindOf(Wrap(IOFailure, fs.ErrNotExist)) = %v; want %v", got, IOFailure)
	}
	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("Wrap does not unwrap to its cause")
	}
	if got, want := err.Error(), "I/O failure: file does not exist"; got != want {
		t.Errorf("err.Error() = %q; want %q", got, want)
	}

	inner := Errorf(InputMalformed, "missing opmap")
	if got := Wrap(IOFailure, inner); got != inner {
		t.Errorf("Wrap(IOFailure, %v) = %v; want unchanged error", inner, got)
	}
}

func TestKindString(t *testing.T) {
	if got, want := SlotExhaustion.String(), "slot exhaustion"; got != want {
		t.Errorf("SlotExhaustion.String() = %q; want %q", got, want)
	}
	if got, want := Kind(42).String(), "Kind(42)"; got != want {
		t.Errorf("Kind(42).String() = %q; want %q", got, want)
	}
}
