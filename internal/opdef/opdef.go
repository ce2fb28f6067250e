// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package opdef provides the in-memory model of an opcode definition
// and a loader for definition files.
//
// A definition file is a [JWCC] object:
//
//	{
//		"opname": ["CACHE", "POP_TOP", "LOAD_CONST"],
//		"opmap": {"CACHE": 0, "POP_TOP": 1, "LOAD_CONST": 100},
//		"haveArgument": 90,
//		"haveArgumentAfter": "POP_TOP",
//		"hasconst": ["LOAD_CONST"],
//		"hasjrel": [],
//		"hasjabs": [],
//		"specialized": ["LOAD_CONST__LOAD_FAST"],
//		"binaryOpSlots": [[0, "nb_add", "+"]],
//	}
//
// [JWCC]: https://nigeltao.github.io/blog/2021/json-with-commas-comments.html
package opdef

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/generr"
)

// TraceCode is the code reserved for the DO_TRACING marker.
// No instruction in a definition may claim it.
const TraceCode = codeset.Size - 1

// Names of constants the generated header defines
// alongside the instructions.
const (
	TraceMarker       = "DO_TRACING"
	ArgumentThreshold = "HAVE_ARGUMENT"
)

// reservedMacros is the set of names the generated header
// defines or tests besides instruction and slot constants.
var reservedMacros = map[string]struct{}{
	TraceMarker:               {},
	ArgumentThreshold:         {},
	"Py_OPCODE_H":             {},
	"NEED_OPCODE_JUMP_TABLES": {},
	"_PyOpcode_RelativeJump":  {},
	"_PyOpcode_Jump":          {},
	"HAS_CONST":               {},
	"NB_SCALE":                {},
	"HAVE_SANE_NB_OFFSETS":    {},
	"HAS_ARG":                 {},
	"IS_ARTIFICIAL":           {},
}

// IsReservedMacro reports whether name is defined or tested
// by the generated header itself.
func IsReservedMacro(name string) bool {
	_, ok := reservedMacros[name]
	return ok
}

// Definition is a parsed opcode definition.
type Definition struct {
	// OpNames is the ordered listing of instruction names.
	// Names that are not in OpMap are placeholders and are not emitted.
	OpNames []string
	// OpMap maps explicit instruction names to their codes.
	OpMap map[string]int

	// HaveArgument is the threshold at or above which
	// an instruction takes an immediate argument.
	HaveArgument int
	// HaveArgumentAfter is the name of the explicit instruction
	// after which the HAVE_ARGUMENT constant is emitted.
	HaveArgumentAfter string

	HasConst []string
	HasJRel  []string
	HasJAbs  []string

	// Specialized is the ordered list of instruction names
	// whose codes are allocated at generation time.
	Specialized []string

	BinaryOpSlots []BinaryOpSlot
}

// BinaryOpSlot describes a numeric binary operator.
// In JSON, it is represented as an [index, slot, name] array.
type BinaryOpSlot struct {
	// Index is the slot's position in the operator table.
	Index int
	// Slot is the C structure field name of the slot (e.g. "nb_add").
	Slot string
	// Name is the operator's display name (e.g. "+").
	Name string
}

// UnmarshalJSONFrom decodes a [BinaryOpSlot] from a three-element array.
func (s *BinaryOpSlot) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '[' {
		return fmt.Errorf("binary op slot must be an array not a %v", got)
	}
	if err := jsonv2.UnmarshalDecode(in, &s.Index); err != nil {
		return fmt.Errorf("binary op slot index: %w", err)
	}
	if err := jsonv2.UnmarshalDecode(in, &s.Slot); err != nil {
		return fmt.Errorf("binary op slot identifier: %w", err)
	}
	if err := jsonv2.UnmarshalDecode(in, &s.Name); err != nil {
		return fmt.Errorf("binary op slot name: %w", err)
	}
	tok, err = in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != ']' {
		return fmt.Errorf("binary op slot %s has more than 3 elements", s.Slot)
	}
	return nil
}

// Definition member names.
const (
	keyOpNames           = "opname"
	keyOpMap             = "opmap"
	keyHaveArgument      = "haveArgument"
	keyHaveArgumentAfter = "haveArgumentAfter"
	keyHasConst          = "hasconst"
	keyHasJRel           = "hasjrel"
	keyHasJAbs           = "hasjabs"
	keySpecialized       = "specialized"
	keyBinaryOpSlots     = "binaryOpSlots"
)

var requiredKeys = []string{
	keyOpNames,
	keyOpMap,
	keyHaveArgument,
	keyHaveArgumentAfter,
	keyHasConst,
	keyHasJRel,
	keyHasJAbs,
	keySpecialized,
	keyBinaryOpSlots,
}

// UnmarshalJSONFrom decodes a definition object.
// Every member is required and unknown members are rejected.
func (def *Definition) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '{' {
		return fmt.Errorf("definition must be an object not a %v", got)
	}

	seen := make(map[string]bool)
	for {
		keyToken, err := in.ReadToken()
		if err != nil {
			return err
		}
		switch kind := keyToken.Kind(); kind {
		case '}':
			for _, k := range requiredKeys {
				if !seen[k] {
					return fmt.Errorf("missing %q", k)
				}
			}
			return nil
		case '"':
			// Keep going.
		default:
			return fmt.Errorf("unexpected non-string key (%v) in object", kind)
		}

		k := keyToken.String()
		if seen[k] {
			return fmt.Errorf("duplicate %q", k)
		}
		seen[k] = true
		var dst any
		switch k {
		case keyOpNames:
			dst = &def.OpNames
		case keyOpMap:
			dst = &def.OpMap
		case keyHaveArgument:
			dst = &def.HaveArgument
		case keyHaveArgumentAfter:
			dst = &def.HaveArgumentAfter
		case keyHasConst:
			dst = &def.HasConst
		case keyHasJRel:
			dst = &def.HasJRel
		case keyHasJAbs:
			dst = &def.HasJAbs
		case keySpecialized:
			dst = &def.Specialized
		case keyBinaryOpSlots:
			dst = &def.BinaryOpSlots
		default:
			return fmt.Errorf("unknown field %q", k)
		}
		if err := jsonv2.UnmarshalDecode(in, dst); err != nil {
			return fmt.Errorf("unmarshal %s: %w", k, err)
		}
	}
}

// Validate checks the definition's shape.
// It returns an [generr.InputMalformed] error describing the first problem found.
func (def *Definition) Validate() error {
	if len(def.OpMap) == 0 {
		return generr.Errorf(generr.InputMalformed, "opmap is empty")
	}

	listed := make(map[string]struct{}, len(def.OpNames))
	for _, name := range def.OpNames {
		if _, dup := listed[name]; dup {
			return generr.Errorf(generr.InputMalformed, "opname lists %s more than once", name)
		}
		listed[name] = struct{}{}
	}

	var used codeset.Set
	owner := make(map[int]string, len(def.OpMap))
	for _, name := range slices.Sorted(maps.Keys(def.OpMap)) {
		code := def.OpMap[name]
		if !IsIdentifier(name) {
			return generr.Errorf(generr.InputMalformed, "opmap: %q is not an identifier", name)
		}
		if _, ok := listed[name]; !ok {
			return generr.Errorf(generr.InputMalformed, "opmap: %s missing from opname", name)
		}
		if !codeset.Valid(code) {
			return generr.Errorf(generr.InputMalformed, "opmap: %s = %d outside [0, %d]", name, code, codeset.Size-1)
		}
		if code == TraceCode {
			return generr.Errorf(generr.InputMalformed, "opmap: %s = %d is reserved for DO_TRACING", name, code)
		}
		if used.Has(code) {
			return generr.Errorf(generr.InputMalformed, "opmap: %s and %s both use code %d", owner[code], name, code)
		}
		used.Add(code)
		owner[code] = name
	}

	if !codeset.Valid(def.HaveArgument) {
		return generr.Errorf(generr.InputMalformed, "haveArgument = %d outside [0, %d]", def.HaveArgument, codeset.Size-1)
	}
	if _, ok := def.OpMap[def.HaveArgumentAfter]; !ok {
		return generr.Errorf(generr.InputMalformed, "haveArgumentAfter: %q is not an explicit instruction", def.HaveArgumentAfter)
	}

	for _, list := range []struct {
		key   string
		names []string
	}{
		{keyHasConst, def.HasConst},
		{keyHasJRel, def.HasJRel},
		{keyHasJAbs, def.HasJAbs},
	} {
		if _, err := def.Resolve(list.names); err != nil {
			return generr.Errorf(generr.InputMalformed, "%s: %v", list.key, err)
		}
	}

	specialized := make(map[string]struct{}, len(def.Specialized))
	for _, name := range def.Specialized {
		if !IsIdentifier(name) {
			return generr.Errorf(generr.InputMalformed, "specialized: %q is not an identifier", name)
		}
		if _, ok := def.OpMap[name]; ok {
			return generr.Errorf(generr.InputMalformed, "specialized: %s already has an explicit code", name)
		}
		if _, dup := specialized[name]; dup {
			return generr.Errorf(generr.InputMalformed, "specialized: %s listed more than once", name)
		}
		specialized[name] = struct{}{}
	}

	slotNames := make(map[string]struct{}, len(def.BinaryOpSlots))
	slotIndices := make(map[int]struct{}, len(def.BinaryOpSlots))
	for _, slot := range def.BinaryOpSlots {
		if !IsIdentifier(slot.Slot) {
			return generr.Errorf(generr.InputMalformed, "binaryOpSlots: %q is not an identifier", slot.Slot)
		}
		if slot.Index < 0 {
			return generr.Errorf(generr.InputMalformed, "binaryOpSlots: %s has negative index %d", slot.Slot, slot.Index)
		}
		if strings.ContainsAny(slot.Name, "\"\\\n") {
			return generr.Errorf(generr.InputMalformed, "binaryOpSlots: %s display name %q cannot be quoted", slot.Slot, slot.Name)
		}
		if _, dup := slotNames[slot.Slot]; dup {
			return generr.Errorf(generr.InputMalformed, "binaryOpSlots: %s listed more than once", slot.Slot)
		}
		if _, dup := slotIndices[slot.Index]; dup {
			return generr.Errorf(generr.InputMalformed, "binaryOpSlots: index %d used more than once", slot.Index)
		}
		slotNames[slot.Slot] = struct{}{}
		slotIndices[slot.Index] = struct{}{}
	}

	return def.checkMacroNames()
}

// checkMacroNames verifies that every macro the definition contributes
// to the header has a distinct name that the header does not use itself.
func (def *Definition) checkMacroNames() error {
	defined := make(map[string]string)
	define := func(source, macro string) error {
		if IsReservedMacro(macro) {
			return generr.Errorf(generr.InputMalformed, "%s: %s is reserved for the generated header", source, macro)
		}
		if prev, dup := defined[macro]; dup {
			return generr.Errorf(generr.InputMalformed, "%s: %s is also defined by %s", source, macro, prev)
		}
		defined[macro] = source
		return nil
	}
	for _, name := range slices.Sorted(maps.Keys(def.OpMap)) {
		if err := define(keyOpMap, name); err != nil {
			return err
		}
	}
	for _, name := range def.Specialized {
		if err := define(keySpecialized, name); err != nil {
			return err
		}
	}
	for _, slot := range def.BinaryOpSlots {
		source := keyBinaryOpSlots + " " + slot.Slot
		constant := strings.ToUpper(slot.Slot)
		if err := define(source, constant); err != nil {
			return err
		}
		if err := define(source, constant+"_NAME"); err != nil {
			return err
		}
	}
	return nil
}

// Explicit returns the set of codes claimed by the explicit instructions.
// Codes outside the opcode space are ignored; see [Definition.Validate].
func (def *Definition) Explicit() codeset.Set {
	var s codeset.Set
	for _, code := range def.OpMap {
		s.Add(code)
	}
	return s
}

// Resolve returns the codes of the given explicit instruction names.
// Duplicate names resolve to the same code.
func (def *Definition) Resolve(names []string) (codeset.Set, error) {
	var s codeset.Set
	for _, name := range names {
		code, ok := def.OpMap[name]
		if !ok {
			return codeset.Set{}, fmt.Errorf("%q is not an explicit instruction", name)
		}
		if !s.Add(code) {
			return codeset.Set{}, fmt.Errorf("%s = %d outside [0, %d]", name, code, codeset.Size-1)
		}
	}
	return s, nil
}

// IsIdentifier reports whether s is a valid C identifier.
func IsIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_' || 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
