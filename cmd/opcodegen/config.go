// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"strconv"

	jsonv2 "github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/tailscale/hujson"
)

type globalConfig struct {
	Debug  bool   `json:"debug"`
	Output string `json:"output"`
}

// defaultOutput is the header path used when neither
// the command line nor the configuration names one.
var defaultOutput = filepath.Join("Include", "opcode.h")

func defaultGlobalConfig() *globalConfig {
	return &globalConfig{
		Output: defaultOutput,
	}
}

func (g *globalConfig) mergeEnvironment() error {
	if path := os.Getenv("OPCODEGEN_OUTPUT"); path != "" {
		g.Output = path
	}
	if s := os.Getenv("OPCODEGEN_DEBUG"); s != "" {
		debug, err := strconv.ParseBool(s)
		if err != nil {
			return fmt.Errorf("OPCODEGEN_DEBUG: %v", err)
		}
		g.Debug = debug
	}
	return nil
}

// mergeFiles reads each of the given configuration files in order.
// Later files override values set by earlier ones.
// Files that do not exist are skipped.
func (g *globalConfig) mergeFiles(paths iter.Seq[string]) error {
	for path := range paths {
		huJSONData, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				continue
			}
			return err
		}
		if err := g.mergeData(path, huJSONData); err != nil {
			return err
		}
	}
	return nil
}

// mergeFile reads a configuration file that must exist.
func (g *globalConfig) mergeFile(path string) error {
	huJSONData, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return g.mergeData(path, huJSONData)
}

func (g *globalConfig) mergeData(path string, huJSONData []byte) error {
	jsonData, err := hujson.Standardize(huJSONData)
	if err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	if err := jsonv2.Unmarshal(jsonData, g, jsonv2.RejectUnknownMembers(true)); err != nil {
		return fmt.Errorf("read %s: %v", path, err)
	}
	return nil
}

// UnmarshalJSONFrom unmarshals the configuration object from the JSON decoder,
// merging any fields in the JSON object with existing values.
func (g *globalConfig) UnmarshalJSONFrom(in *jsontext.Decoder) error {
	tok, err := in.ReadToken()
	if err != nil {
		return err
	}
	if got := tok.Kind(); got != '{' {
		return fmt.Errorf("config must be an object not a %v", got)
	}

	for {
		keyToken, err := in.ReadToken()
		if err != nil {
			return err
		}
		switch kind := keyToken.Kind(); kind {
		case '}':
			return nil
		case '"':
			// Keep going.
		default:
			return fmt.Errorf("unexpected non-string key (%v) in object", kind)
		}

		switch k := keyToken.String(); k {
		case "debug":
			if err := jsonv2.UnmarshalDecode(in, &g.Debug); err != nil {
				return fmt.Errorf("unmarshal config.debug: %w", err)
			}
		case "output":
			if err := jsonv2.UnmarshalDecode(in, &g.Output); err != nil {
				return fmt.Errorf("unmarshal config.output: %w", err)
			}
		default:
			if reject, _ := jsonv2.GetOption(in.Options(), jsonv2.RejectUnknownMembers); reject {
				return fmt.Errorf("unmarshal config: unknown field %q", k)
			}
			if err := in.SkipValue(); err != nil {
				return err
			}
		}
	}
}

func (g *globalConfig) validate() error {
	if g.Output == "" {
		return fmt.Errorf("output path not set")
	}
	return nil
}

// configPaths returns the paths of the user and system configuration files
// in the order they should be merged,
// so that the user's file takes precedence.
func configPaths() iter.Seq[string] {
	return func(yield func(string) bool) {
		dirs := configDirs()
		for _, dir := range slices.Backward(dirs) {
			if !yield(filepath.Join(dir, "opcodegen", "config.jwcc")) {
				return
			}
		}
	}
}
