// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package bittable builds fixed-size bit-vector membership tables
// over the opcode space.
package bittable

import (
	"iter"
	"math/bits"

	"github.com/holiman/uint256"
	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/generr"
)

const (
	// Words is the number of words in a [Table].
	Words = codeset.Size / WordBits
	// WordBits is the number of bits in a [Table] word.
	WordBits = 32

	wordMask = 1<<WordBits - 1
)

// Table is a 256-bit membership vector.
// Code c is a member if bit c%32 of word c/32 is set.
type Table [Words]uint32

// Build returns the table whose members are the given codes.
// Duplicate codes are permitted.
// Build returns a [generr.InvariantViolation] error
// if a code is outside the opcode space
// or if any bits remain after filling every word.
func Build(codes iter.Seq[int]) (Table, error) {
	var acc, bit uint256.Int
	one := uint256.NewInt(1)
	for c := range codes {
		if !codeset.Valid(c) {
			return Table{}, generr.Errorf(generr.InvariantViolation, "code %d outside [0, %d]", c, codeset.Size-1)
		}
		bit.Lsh(one, uint(c))
		acc.Or(&acc, &bit)
	}

	var t Table
	for i := range t {
		t[i] = uint32(acc.Uint64() & wordMask)
		acc.Rsh(&acc, WordBits)
	}
	if !acc.IsZero() {
		return Table{}, generr.Errorf(generr.InvariantViolation, "%d bits left over after filling %d words", acc.BitLen(), Words)
	}
	return t, nil
}

// FromSet returns the table whose members are the codes in s.
func FromSet(s codeset.Set) Table {
	t, err := Build(s.All())
	if err != nil {
		// A codeset.Set only holds valid codes.
		panic(err)
	}
	return t
}

// Has reports whether c is a member of t.
func (t Table) Has(c int) bool {
	if !codeset.Valid(c) {
		return false
	}
	return t[c/WordBits]&(1<<(uint(c)%WordBits)) != 0
}

// Len returns the number of members of t.
func (t Table) Len() int {
	n := 0
	for _, w := range t {
		n += bits.OnesCount32(w)
	}
	return n
}

// Set returns the members of t.
func (t Table) Set() codeset.Set {
	var s codeset.Set
	for c := range codeset.Size {
		if t.Has(c) {
			s.Add(c)
		}
	}
	return s
}
