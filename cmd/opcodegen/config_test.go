// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package main

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestDefaultGlobalConfig(t *testing.T) {
	got := defaultGlobalConfig()
	if got.Output == "" {
		t.Errorf("defaultGlobalConfig().Output is empty")
	}
	if got.Debug {
		t.Errorf("defaultGlobalConfig().Debug = true; want false")
	}
	if err := got.validate(); err != nil {
		t.Errorf("defaultGlobalConfig().validate() = %v", err)
	}
}

func TestGlobalConfigMergeFiles(t *testing.T) {
	dir := t.TempDir()
	var paths [3]string
	paths[0] = filepath.Join(dir, "config1.jwcc")
	if err := os.WriteFile(paths[0], []byte("{\n\t// Comment.\n\t\"debug\": true,\n\t\"output\": \"foo.h\",\n}\n"), 0o666); err != nil {
		t.Fatal(err)
	}
	paths[1] = filepath.Join(dir, "missing.jwcc")
	paths[2] = filepath.Join(dir, "config2.jwcc")
	if err := os.WriteFile(paths[2], []byte(`{"output": "bar.h"}`+"\n"), 0o666); err != nil {
		t.Fatal(err)
	}

	g := defaultGlobalConfig()
	if err := g.mergeFiles(slices.Values(paths[:])); err != nil {
		t.Error("mergeFiles:", err)
	}
	want := &globalConfig{Debug: true, Output: "bar.h"}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}
}

func TestGlobalConfigMergeFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "UnknownField",
			content: `{"store": "/zb/store"}`,
			wantErr: `unknown field "store"`,
		},
		{
			name:    "NotObject",
			content: `["debug"]`,
			wantErr: "must be an object",
		},
		{
			name:    "BadType",
			content: `{"debug": "yes"}`,
			wantErr: "config.debug",
		},
		{
			name:    "Syntax",
			content: `{"debug": true`,
			wantErr: "config.jwcc",
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.jwcc")
			if err := os.WriteFile(path, []byte(test.content), 0o666); err != nil {
				t.Fatal(err)
			}
			err := defaultGlobalConfig().mergeFile(path)
			if err == nil || !strings.Contains(err.Error(), test.wantErr) {
				t.Errorf("mergeFile(...) = %v; want error containing %q", err, test.wantErr)
			}
		})
	}

	t.Run("Missing", func(t *testing.T) {
		err := defaultGlobalConfig().mergeFile(filepath.Join(t.TempDir(), "nope.jwcc"))
		if err == nil {
			t.Error("mergeFile on a missing file did not return an error")
		}
	})
}

func TestGlobalConfigMergeEnvironment(t *testing.T) {
	t.Setenv("OPCODEGEN_OUTPUT", "env.h")
	t.Setenv("OPCODEGEN_DEBUG", "1")
	g := defaultGlobalConfig()
	if err := g.mergeEnvironment(); err != nil {
		t.Fatal(err)
	}
	want := &globalConfig{Debug: true, Output: "env.h"}
	if diff := cmp.Diff(want, g); diff != "" {
		t.Errorf("config (-want +got):\n%s", diff)
	}

	t.Setenv("OPCODEGEN_DEBUG", "sometimes")
	if err := defaultGlobalConfig().mergeEnvironment(); err == nil {
		t.Error("mergeEnvironment with OPCODEGEN_DEBUG=sometimes did not return an error")
	}
}

func TestConfigPaths(t *testing.T) {
	dirs := configDirs()
	var got []string
	for path := range configPaths() {
		got = append(got, path)
	}
	if len(got) != len(dirs) {
		t.Fatalf("configPaths() yielded %d paths; want %d", len(got), len(dirs))
	}
	if len(dirs) == 0 {
		return
	}
	// The most preferred directory is merged last.
	if want := filepath.Join(dirs[0], "opcodegen", "config.jwcc"); got[len(got)-1] != want {
		t.Errorf("last config path = %q; want %q", got[len(got)-1], want)
	}
}

func TestPathListFlag(t *testing.T) {
	var f pathListFlag
	if err := f.Set("a.jwcc"); err != nil {
		t.Fatal(err)
	}
	if err := f.Append("b,c.jwcc"); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"a.jwcc", "b,c.jwcc"}, f.GetSlice()); diff != "" {
		t.Errorf("GetSlice() (-want +got):\n%s", diff)
	}
	if got, want := f.String(), `a.jwcc,"b,c.jwcc"`; got != want {
		t.Errorf("String() = %q; want %q", got, want)
	}
	if err := f.Replace([]string{"z.jwcc"}); err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"z.jwcc"}, []string(f)); diff != "" {
		t.Errorf("after Replace (-want +got):\n%s", diff)
	}
}
