// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package codeset provides a fixed-size set of byte-sized opcodes.
package codeset

import (
	"fmt"
	"iter"
	"math/bits"
	"strings"
)

// Size is the number of codes in the opcode space.
const Size = 256

const wordSize = 64

// Set is a bitmap of opcodes in the range [0, Size).
// The zero value is an empty set.
// Set is a value type: assignment copies the set.
type Set struct {
	words [Size / wordSize]uint64
}

// Of returns a new set that contains the arguments passed to it.
// Of panics if any argument is outside the opcode space.
func Of(codes ...int) Set {
	var s Set
	for _, c := range codes {
		if !s.Add(c) {
			panic(fmt.Sprintf("codeset.Of: code %d out of range", c))
		}
	}
	return s
}

// Valid reports whether c is a code in the opcode space.
func Valid(c int) bool {
	return 0 <= c && c < Size
}

// Add adds c to the set.
// Add reports false and leaves the set unchanged
// if c is outside the opcode space.
func (s *Set) Add(c int) bool {
	if !Valid(c) {
		return false
	}
	s.words[c/wordSize] |= 1 << (uint(c) % wordSize)
	return true
}

// Has reports whether the set contains c.
func (s Set) Has(c int) bool {
	if !Valid(c) {
		return false
	}
	return s.words[c/wordSize]&(1<<(uint(c)%wordSize)) != 0
}

// Len returns the number of codes in the set.
func (s Set) Len() int {
	total := 0
	for _, word := range s.words {
		total += bits.OnesCount64(word)
	}
	return total
}

// Union returns the set of codes present in s or t.
func (s Set) Union(t Set) Set {
	for i := range s.words {
		s.words[i] |= t.words[i]
	}
	return s
}

// Intersect returns the set of codes present in both s and t.
func (s Set) Intersect(t Set) Set {
	for i := range s.words {
		s.words[i] &= t.words[i]
	}
	return s
}

// All returns an iterator of the codes in s in ascending order.
func (s Set) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i, word := range s.words {
			for word != 0 {
				j := bits.TrailingZeros64(word)
				if !yield(i*wordSize + j) {
					return
				}
				word &^= 1 << j
			}
		}
	}
}

// Format implements [fmt.Formatter]
// by formatting its elements according to the printer state and verb
// surrounded by braces.
func (s Set) Format(f fmt.State, verb rune) {
	f.Write([]byte("{"))
	first := true
	for c := range s.All() {
		if !first {
			f.Write([]byte(" "))
		}
		first = false
		fmt.Fprintf(f, fmt.FormatString(f, verb), c)
	}
	f.Write([]byte("}"))
}

// String returns the set formatted with the %d verb.
func (s Set) String() string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "%d", s)
	return sb.String()
}
