// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package bittable

import (
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"zb.256lights.llc/opcodegen/internal/codeset"
	"zb.256lights.llc/opcodegen/internal/generr"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name  string
		codes []int
		want  Table
	}{
		{
			name: "Empty",
		},
		{
			name:  "Zero",
			codes: []int{0},
			want:  Table{1},
		},
		{
			name:  "WordEdges",
			codes: []int{31, 32, 63, 64, 255},
			want:  Table{1 << 31, 1 | 1<<31, 1, 0, 0, 0, 0, 1 << 31},
		},
		{
			name:  "Duplicates",
			codes: []int{93, 93, 110, 93},
			want:  Table{0, 0, 1 << 29, 1 << 14},
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := Build(slices.Values(test.codes))
			if err != nil {
				t.Fatal(err)
			}
			if diff := cmp.Diff(test.want, got); diff != "" {
				t.Errorf("Build(%v) (-want +got):\n%s", test.codes, diff)
			}
		})
	}
}

func TestBuildRoundTrip(t *testing.T) {
	members := codeset.Of(0, 1, 7, 31, 32, 33, 90, 93, 110, 111, 127, 128, 200, 240, 254, 255)
	table, err := Build(members.All())
	if err != nil {
		t.Fatal(err)
	}
	for c := range codeset.Size {
		if got, want := table.Has(c), members.Has(c); got != want {
			t.Errorf("table.Has(%d) = %t; want %t", c, got, want)
		}
	}
	if got, want := table.Len(), members.Len(); got != want {
		t.Errorf("table.Len() = %d; want %d", got, want)
	}
	if got := table.Set(); got != members {
		t.Errorf("table.Set() = %v; want %v", got, members)
	}
	if got := FromSet(members); got != table {
		t.Errorf("FromSet(members) = %v; want %v", got, table)
	}
}

func TestBuildOutOfRange(t *testing.T) {
	for _, c := range []int{-1, 256, 1 << 20} {
		_, err := Build(slices.Values([]int{3, c}))
		if got := generr.KindOf(err); got != generr.InvariantViolation {
			t.Errorf("KindOf(Build([3 %d])) = %v; want %v (err = %v)", c, got, generr.InvariantViolation, err)
		}
	}
}

func TestUnion(t *testing.T) {
	rel := codeset.Of(93, 110, 120, 140)
	abs := codeset.Of(110, 113, 114, 115)

	relTable := FromSet(rel)
	absTable := FromSet(abs)
	anyTable := FromSet(rel.Union(abs))

	for c := range codeset.Size {
		if got, want := anyTable.Has(c), relTable.Has(c) || absTable.Has(c); got != want {
			t.Errorf("anyTable.Has(%d) = %t; want %t", c, got, want)
		}
	}
	// 110 is in both sets and counts once.
	if got, want := anyTable.Len(), 7; got != want {
		t.Errorf("anyTable.Len() = %d; want %d", got, want)
	}
	for i := range anyTable {
		if got, want := anyTable[i], relTable[i]|absTable[i]; got != want {
			t.Errorf("anyTable[%d] = %#x; want %#x", i, got, want)
		}
	}
}
