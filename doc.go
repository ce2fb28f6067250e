// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

// Package opcodegen compiles a declarative opcode definition
// into a C header of opcode constants and membership tables.
//
// Explicit instructions keep the codes given in the definition.
// Specialized instructions are assigned the lowest free codes
// in a single upward scan starting at 1,
// and code 255 is reserved for the DO_TRACING marker.
package opcodegen
