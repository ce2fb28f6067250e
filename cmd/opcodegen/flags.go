// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package main

import (
	"encoding/csv"
	"slices"
	"strings"

	"github.com/spf13/pflag"
)

// pathListFlag is the implementation of [github.com/spf13/pflag.Value]
// and [github.com/spf13/pflag.SliceValue]
// for a flag that may be given multiple times.
type pathListFlag []string

var _ pflag.SliceValue = (*pathListFlag)(nil)

func (f *pathListFlag) Type() string {
	return "path"
}

func (f pathListFlag) String() string {
	if len(f) == 0 {
		return ""
	}
	sb := new(strings.Builder)
	w := csv.NewWriter(sb)
	w.Write(f)
	w.Flush()
	return strings.TrimSuffix(sb.String(), "\n")
}

func (f *pathListFlag) Set(s string) error {
	*f = append(*f, s)
	return nil
}

func (f *pathListFlag) Append(s string) error {
	return f.Set(s)
}

func (f *pathListFlag) Replace(list []string) error {
	*f = slices.Clone(list)
	return nil
}

func (f pathListFlag) GetSlice() []string {
	return slices.Clone(f)
}
