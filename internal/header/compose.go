// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package header

import (
	"fmt"
	"iter"
	"strconv"
	"strings"

	"zb.256lights.llc/opcodegen/internal/opdef"
)

// Define is a single object-like macro definition.
type Define struct {
	Name  string
	Value string
}

// IntDefine returns a [Define] with an integer value.
func IntDefine(name string, value int) Define {
	return Define{Name: name, Value: strconv.Itoa(value)}
}

// String formats d as a "#define" line with aligned columns.
func (d Define) String() string {
	return fmt.Sprintf("#define %-31s %3s\n", d.Name, d.Value)
}

// MembershipMacro returns a function-like macro definition
// that tests whether its parameter equals any of the given codes.
// The disjunction is seeded with false,
// so an empty sequence yields a macro that always evaluates to false.
func MembershipMacro(name, param string, codes iter.Seq[int]) string {
	sb := new(strings.Builder)
	fmt.Fprintf(sb, "#define %s(%s) (false\\", name, param)
	for c := range codes {
		fmt.Fprintf(sb, "\n    || ((%s) == %d) \\", param, c)
	}
	sb.WriteString("\n    )\n")
	return sb.String()
}

// BinaryOpBlock is the set of definitions derived
// from a list of binary operation slots.
// All three groups are in the order of the slots they were built from.
type BinaryOpBlock struct {
	// Indices defines one constant per slot whose value is the slot's index.
	Indices []Define
	// Names defines one string constant per slot
	// holding the operator's display name.
	Names []Define
	// SaneOffsets is a macro that checks that each index
	// times the scale factor equals the slot's structure offset.
	SaneOffsets string
}

// Names of the macros in a [BinaryOpBlock].
const (
	saneOffsetsMacro = "HAVE_SANE_NB_OFFSETS"
	scaleMacro       = "NB_SCALE"
	numberMethods    = "PyNumberMethods"
)

// BinaryOpGroups builds the definitions for the given slots.
func BinaryOpGroups(slots []opdef.BinaryOpSlot) BinaryOpBlock {
	block := BinaryOpBlock{
		Indices: make([]Define, 0, len(slots)),
		Names:   make([]Define, 0, len(slots)),
	}
	sane := new(strings.Builder)
	fmt.Fprintf(sane, "#define %s ( \\\n", saneOffsetsMacro)
	for _, slot := range slots {
		constant := strings.ToUpper(slot.Slot)
		block.Indices = append(block.Indices, IntDefine(constant, slot.Index))
		block.Names = append(block.Names, Define{
			Name:  constant + "_NAME",
			Value: `"` + slot.Name + `"`,
		})
		fmt.Fprintf(sane, "    %s * %s == offsetof(%s, %s) && \\\n", constant, scaleMacro, numberMethods, slot.Slot)
	}
	sane.WriteString("    true)\n")
	block.SaneOffsets = sane.String()
	return block
}
