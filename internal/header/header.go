// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package header assembles the generated C opcode header.
package header

import (
	"bytes"
	"fmt"

	"zb.256lights.llc/opcodegen/internal/alloc"
	"zb.256lights.llc/opcodegen/internal/bittable"
	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/opdef"
)

// TraceMarker is the name of the constant defined as [opdef.TraceCode].
const TraceMarker = opdef.TraceMarker

// Header is the fully resolved content of an opcode header.
type Header struct {
	// Source is the name of the definition shown in the preamble.
	Source string

	// Explicit lists the explicit instructions in emission order.
	Explicit []alloc.Opcode
	// HaveArgument is the argument threshold.
	HaveArgument int
	// HaveArgumentAfter is the explicit instruction
	// after which HAVE_ARGUMENT is defined.
	HaveArgumentAfter string
	// Specialized lists the specialized instructions
	// with their allocated codes in emission order.
	Specialized []alloc.Opcode

	RelativeJump bittable.Table
	Jump         bittable.Table
	HasConst     codeset.Set

	BinaryOps []opdef.BinaryOpSlot
}

const preamble = `/* Auto-generated by opcodegen from %s */
#ifndef Py_OPCODE_H
#define Py_OPCODE_H
#ifdef __cplusplus
extern "C" {
#endif

#include <stddef.h>


/* Instruction opcodes for compiled code */
`

const postamble = `
#define NB_SCALE offsetof(PyNumberMethods, nb_subtract)

#define HAS_ARG(op) ((op) >= HAVE_ARGUMENT)

/* Reserve some bytecodes for internal use in the compiler.
 * The value of 240 is arbitrary. */
#define IS_ARTIFICIAL(op) ((op) > 240)

#ifdef __cplusplus
}
#endif
#endif /* !Py_OPCODE_H */
`

// Builder accumulates header segments in order.
// The zero value is an empty document.
type Builder struct {
	buf bytes.Buffer
}

// Raw appends s verbatim.
func (b *Builder) Raw(s string) {
	b.buf.WriteString(s)
}

// Define appends a "#define" line.
func (b *Builder) Define(d Define) {
	b.buf.WriteString(d.String())
}

// Blank appends an empty line.
func (b *Builder) Blank() {
	b.buf.WriteByte('\n')
}

// Table appends a static uint32_t array holding t.
func (b *Builder) Table(name string, t bittable.Table) {
	fmt.Fprintf(&b.buf, "static uint32_t %s[%d] = {\n", name, len(t))
	for _, w := range t {
		fmt.Fprintf(&b.buf, "    %dU,\n", w)
	}
	b.buf.WriteString("};\n")
}

// Bytes returns the accumulated document.
// The slice is valid until the next call to an append method.
func (b *Builder) Bytes() []byte {
	return b.buf.Bytes()
}

// Render returns the header document.
func (h *Header) Render() []byte {
	b := new(Builder)
	b.Raw(fmt.Sprintf(preamble, h.Source))

	for _, op := range h.Explicit {
		b.Define(IntDefine(op.Name, int(op.Code)))
		if op.Name == h.HaveArgumentAfter {
			b.Define(IntDefine(opdef.ArgumentThreshold, h.HaveArgument))
		}
	}
	for _, op := range h.Specialized {
		b.Define(IntDefine(op.Name, int(op.Code)))
	}
	b.Define(IntDefine(TraceMarker, opdef.TraceCode))

	b.Raw("#ifdef NEED_OPCODE_JUMP_TABLES\n")
	b.Table("_PyOpcode_RelativeJump", h.RelativeJump)
	b.Table("_PyOpcode_Jump", h.Jump)
	b.Raw("#endif /* OPCODE_TABLES */\n")

	b.Blank()
	b.Raw(MembershipMacro("HAS_CONST", "op", h.HasConst.All()))

	block := BinaryOpGroups(h.BinaryOps)
	b.Blank()
	for _, d := range block.Indices {
		b.Define(d)
	}
	b.Blank()
	for _, d := range block.Names {
		b.Define(d)
	}
	b.Blank()
	b.Raw(block.SaneOffsets)

	b.Raw(postamble)
	return b.Bytes()
}
