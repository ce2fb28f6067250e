// Copyright 2026 The opcodegen Authors
// SPDX-License-Identifier: MIT

package codeset

import (
	"fmt"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSet(t *testing.T) {
	var s Set
	if got := s.Len(); got != 0 {
		t.Errorf("Set{}.Len() = %d; want 0", got)
	}
	for _, c := range []int{0, 63, 64, 200, 255} {
		if !s.Add(c) {
			t.Errorf("s.Add(%d) = false; want true", c)
		}
	}
	for _, c := range []int{-1, 256, 1000} {
		if s.Add(c) {
			t.Errorf("s.Add(%d) = true; want false", c)
		}
		if s.Has(c) {
			t.Errorf("s.Has(%d) = true; want false", c)
		}
	}

	want := []int{0, 63, 64, 200, 255}
	if diff := cmp.Diff(want, slices.Collect(s.All())); diff != "" {
		t.Errorf("s.All() (-want +got):\n%s", diff)
	}
	if got := s.Len(); got != len(want) {
		t.Errorf("s.Len() = %d; want %d", got, len(want))
	}
	for c := range Size {
		if got, want := s.Has(c), slices.Contains(want, c); got != want {
			t.Errorf("s.Has(%d) = %t; want %t", c, got, want)
		}
	}
}

func TestSetIsValue(t *testing.T) {
	s := Of(1, 2)
	t2 := s
	t2.Add(3)
	if s.Has(3) {
		t.Error("adding to a copy modified the original set")
	}
}

func TestUnion(t *testing.T) {
	a := Of(1, 5, 70)
	b := Of(5, 70, 254)
	got := a.Union(b)
	want := []int{1, 5, 70, 254}
	if diff := cmp.Diff(want, slices.Collect(got.All())); diff != "" {
		t.Errorf("Union (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]int{5, 70}, slices.Collect(a.Intersect(b).All())); diff != "" {
		t.Errorf("Intersect (-want +got):\n%s", diff)
	}
	if a.Has(254) {
		t.Error("Union modified its receiver")
	}
}

func TestFormat(t *testing.T) {
	s := Of(3, 1, 128)
	if got, want := fmt.Sprint(s), "{1 3 128}"; got != want {
		t.Errorf("fmt.Sprint(s) = %q; want %q", got, want)
	}
	if got, want := fmt.Sprintf("%#x", s), "{0x1 0x3 0x80}"; got != want {
		t.Errorf("fmt.Sprintf(%%#x, s) = %q; want %q", got, want)
	}
	if got, want := Of().String(), "{}"; got != want {
		t.Errorf("Of().String() = %q; want %q", got, want)
	}
}
