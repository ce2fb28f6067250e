// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package alloc assigns codes to instructions
// that have no predetermined place in the opcode space.
package alloc

import (
	"fmt"

	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/generr"
)

// Reserved is the code reserved for the trace marker.
// The allocator never produces it.
const Reserved = codeset.Size - 1

// firstCandidate is the first code the allocator considers.
const firstCandidate = 1

// Opcode is an instruction name paired with its code.
type Opcode struct {
	Name string
	Code uint8
}

// State is the allocator's progress through the opcode space.
// State is a value: each step returns a new State
// and leaves its receiver unchanged.
type State struct {
	occupied codeset.Set
	cursor   int
}

// NewState returns the starting state for a pass
// over an opcode space where the given codes are already taken.
func NewState(occupied codeset.Set) State {
	return State{
		occupied: occupied,
		cursor:   firstCandidate,
	}
}

// Occupied returns the set of codes that are taken.
func (s State) Occupied() codeset.Set {
	return s.occupied
}

// Cursor returns the code at which the next search begins.
func (s State) Cursor() int {
	return s.cursor
}

// Next claims the first free code at or after the cursor.
// The cursor never moves backward,
// so codes skipped over by earlier calls are not revisited.
// Next returns a [generr.SlotExhaustion] error
// if the search reaches [Reserved].
func (s State) Next() (State, uint8, error) {
	for s.cursor < Reserved && s.occupied.Has(s.cursor) {
		s.cursor++
	}
	if s.cursor >= Reserved {
		return s, 0, generr.Errorf(generr.SlotExhaustion, "no free code below %d (%d codes occupied)", Reserved, s.occupied.Len())
	}
	code := s.cursor
	s.occupied.Add(code)
	return s, uint8(code), nil
}

// Assign allocates a code for each name in order.
// On failure, Assign returns the state before the failing name.
func Assign(s State, names []string) (State, []Opcode, error) {
	if need := s.occupied.Len() + len(names); need > codeset.Size {
		return s, nil, generr.Errorf(generr.SlotExhaustion, "%d instructions do not fit in %d codes", need, codeset.Size)
	}
	result := make([]Opcode, 0, len(names))
	for _, name := range names {
		next, code, err := s.Next()
		if err != nil {
			return s, nil, fmt.Errorf("no free opcode for %s: %w", name, err)
		}
		s = next
		result = append(result, Opcode{Name: name, Code: code})
	}
	return s, result, nil
}
