// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package opcodegen

import (
	"context"
	"fmt"
	"slices"

	"zb.256lights.llc/opcodegen/internal/alloc"
	"zb.256lights.llc/opcodegen/internal/bittable"
	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/generr"
	"zb.256lights.llc/opcodegen/internal/header"
	"zb.256lights.llc/opcodegen/internal/opdef"
	"zombiezen.com/go/log"
)

// Generate resolves a definition into a header.
// source is the definition name recorded in the header's preamble.
func Generate(ctx context.Context, def *opdef.Definition, source string) (*header.Header, error) {
	if err := def.Validate(); err != nil {
		return nil, err
	}

	h := &header.Header{
		Source:            source,
		HaveArgument:      def.HaveArgument,
		HaveArgumentAfter: def.HaveArgumentAfter,
		BinaryOps:         slices.Clone(def.BinaryOpSlots),
	}
	for _, name := range def.OpNames {
		code, ok := def.OpMap[name]
		if !ok {
			continue
		}
		h.Explicit = append(h.Explicit, alloc.Opcode{Name: name, Code: uint8(code)})
	}

	state, specialized, err := alloc.Assign(alloc.NewState(def.Explicit()), def.Specialized)
	if err != nil {
		return nil, err
	}
	h.Specialized = specialized
	log.Debugf(ctx, "Allocated %d specialized opcodes (%d of %d codes in use)",
		len(specialized), state.Occupied().Len(), codeset.Size)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	rel, err := def.Resolve(def.HasJRel)
	if err != nil {
		return nil, generr.Errorf(generr.InputMalformed, "hasjrel: %v", err)
	}
	abs, err := def.Resolve(def.HasJAbs)
	if err != nil {
		return nil, generr.Errorf(generr.InputMalformed, "hasjabs: %v", err)
	}
	h.RelativeJump, err = bittable.Build(rel.All())
	if err != nil {
		return nil, fmt.Errorf("relative jump table: %w", err)
	}
	h.Jump, err = bittable.Build(rel.Union(abs).All())
	if err != nil {
		return nil, fmt.Errorf("jump table: %w", err)
	}
	if overlap := rel.Intersect(abs); overlap.Len() > 0 {
		log.Debugf(ctx, "Codes %v are both relative and absolute jumps", overlap)
	}
	log.Debugf(ctx, "Jump tables: %d relative, %d total", h.RelativeJump.Len(), h.Jump.Len())

	h.HasConst, err = def.Resolve(def.HasConst)
	if err != nil {
		return nil, generr.Errorf(generr.InputMalformed, "hasconst: %v", err)
	}

	if err := Verify(h); err != nil {
		return nil, err
	}
	return h, nil
}

// Verify checks that no two instructions in h share a code,
// that none of them uses the trace marker's code
// and that every relative jump is also in the jump table.
func Verify(h *header.Header) error {
	owner := make(map[int]string)
	claim := func(name string, code int) error {
		if !codeset.Valid(code) {
			return generr.Errorf(generr.InvariantViolation, "%s = %d outside [0, %d]", name, code, codeset.Size-1)
		}
		if prev, dup := owner[code]; dup {
			return generr.Errorf(generr.InvariantViolation, "%s and %s both use code %d", prev, name, code)
		}
		owner[code] = name
		return nil
	}
	for _, op := range h.Explicit {
		if err := claim(op.Name, int(op.Code)); err != nil {
			return err
		}
	}
	for _, op := range h.Specialized {
		if err := claim(op.Name, int(op.Code)); err != nil {
			return err
		}
	}
	if err := claim(header.TraceMarker, opdef.TraceCode); err != nil {
		return err
	}

	var missing codeset.Set
	for c := range h.RelativeJump.Set().All() {
		if !h.Jump.Has(c) {
			missing.Add(c)
		}
	}
	if missing.Len() > 0 {
		return generr.Errorf(generr.InvariantViolation, "jump table lacks relative jumps %v", missing)
	}
	return nil
}

// Render generates the header for def and returns its bytes.
func Render(ctx context.Context, def *opdef.Definition, source string) ([]byte, error) {
	h, err := Generate(ctx, def, source)
	if err != nil {
		return nil, err
	}
	return h.Render(), nil
}
