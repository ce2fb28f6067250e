// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package opdef

import (
	"fmt"
	"os"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/tailscale/hujson"
	"zb.256lights.llc/opcodegen/internal/generr"
)

// Load reads and parses the definition file at the given path.
func Load(path string) (*Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, generr.Wrap(generr.IOFailure, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return def, nil
}

// Parse parses and validates a definition from JWCC data.
func Parse(data []byte) (*Definition, error) {
	jsonData, err := hujson.Standardize(data)
	if err != nil {
		return nil, generr.Wrap(generr.InputMalformed, err)
	}
	def := new(Definition)
	if err := jsonv2.Unmarshal(jsonData, def); err != nil {
		return nil, generr.Wrap(generr.InputMalformed, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return def, nil
}
