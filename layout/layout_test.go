// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout_test

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"testing"

	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/tree"
)

const epsilon = 1e-9

func readTree(t testing.TB, nw string) *tree.Node {
	t.Helper()

	trees, err := tree.ReadNewick(strings.NewReader(nw))
	if err != nil {
		t.Fatalf("invalid newick %q: %v", nw, err)
	}
	return trees[0]
}

func TestLayoutAngles(t *testing.T) {
	tr := readTree(t, "((A:1,B:1):1,(C:1,D:1):1);")

	lt, err := layout.New(tr, 800, 600, 20, layout.None)
	if err != nil {
		t.Fatalf("layout: unexpected error: %v", err)
	}

	terms := lt.Terms()
	if len(terms) != 4 {
		t.Fatalf("layout: got %d terminals, want 4", len(terms))
	}
	step := math.Pi / 2
	for i, l := range terms {
		want := float64(i) * step
		if math.Abs(l.Pos.Angle-want) > epsilon {
			t.Errorf("terminal %s: got angle %.6f, want %.6f", l.Key, l.Pos.Angle, want)
		}
	}

	// internal angles are the midpoint of the leftmost
	// and rightmost descendant terminals
	for _, n := range lt.Internal() {
		if n == lt.Root {
			continue
		}
		first := n.Children[0]
		for !first.IsTerm() {
			first = first.Children[0]
		}
		last := n.Children[len(n.Children)-1]
		for !last.IsTerm() {
			last = last.Children[len(last.Children)-1]
		}
		want := (first.Pos.Angle + last.Pos.Angle) / 2
		if math.Abs(n.Pos.Angle-want) > epsilon {
			t.Errorf("node %s: got angle %.6f, want %.6f", n.Key, n.Pos.Angle, want)
		}
	}

	// the root is at the center
	if lt.Root.Pos.Angle != 0 || lt.Root.Pos.Radius != 0 {
		t.Errorf("root: got position %v, want the origin", lt.Root.Pos)
	}
}

func TestLayoutRadii(t *testing.T) {
	tr := readTree(t, "((A:1,B:2):1,C:4);")

	lt, err := layout.New(tr, 200, 200, 0, layout.None)
	if err != nil {
		t.Fatalf("layout: unexpected error: %v", err)
	}

	// allotted radius is min(w,h)/2 - margin = 100,
	// the most distant terminal is C at 4
	if math.Abs(lt.MaxRadius-100) > epsilon {
		t.Errorf("max radius: got %.6f, want %.6f", lt.MaxRadius, 100.0)
	}
	if math.Abs(lt.Scale-25) > epsilon {
		t.Errorf("scale: got %.6f, want %.6f", lt.Scale, 25.0)
	}

	want := map[string]float64{
		"A":   2 * 25,
		"B":   3 * 25,
		"C":   4 * 25,
		"A,B": 1 * 25,
	}
	for _, n := range lt.Nodes() {
		if n == lt.Root {
			continue
		}
		if w, ok := want[n.Key]; ok {
			if math.Abs(n.Pos.Radius-w) > epsilon {
				t.Errorf("node %s: got radius %.6f, want %.6f", n.Key, n.Pos.Radius, w)
			}
		}
	}

	// radius grows from the root along any path
	for _, l := range lt.Links() {
		if l.Target.Pos.Radius <= l.Source.Pos.Radius {
			t.Errorf("link %s: radius is not monotone (%.4f -> %.4f)",
				l.Key(), l.Source.Pos.Radius, l.Target.Pos.Radius)
		}
	}
}

func TestLayoutCartesian(t *testing.T) {
	tr := readTree(t, "((A:1,B:1):1,(C:1,D:1):1);")

	lt, err := layout.New(tr, 500, 500, 10, layout.None)
	if err != nil {
		t.Fatalf("layout: unexpected error: %v", err)
	}

	for _, n := range lt.Nodes() {
		x := n.Pos.Radius * math.Cos(n.Pos.Angle)
		y := n.Pos.Radius * math.Sin(n.Pos.Angle)
		if math.Abs(n.X-x) > epsilon || math.Abs(n.Y-y) > epsilon {
			t.Errorf("node %s: got (%.4f, %.4f), want (%.4f, %.4f)", n.Key, n.X, n.Y, x, y)
		}
		if math.Abs(n.X) > 250 || math.Abs(n.Y) > 250 {
			t.Errorf("node %s: position (%.4f, %.4f) outside drawing area", n.Key, n.X, n.Y)
		}
	}
}

func TestLayoutTransformLog(t *testing.T) {
	// with log1p, lengths {0, 1, e-1} give radii
	// in ratios {0, ln 2, 1} up to the layout scale
	tr := readTree(t, "(A:0,B:1,C:" + formatFloat(math.E-1) + ");")

	lt, err := layout.New(tr, 200, 200, 0, layout.Log)
	if err != nil {
		t.Fatalf("layout: unexpected error: %v", err)
	}

	radii := make(map[string]float64, 3)
	for _, l := range lt.Terms() {
		radii[l.Key] = l.Pos.Radius
	}

	if radii["A"] != 0 {
		t.Errorf("terminal A: got radius %.6f, want 0", radii["A"])
	}
	if want := radii["C"] * math.Ln2; math.Abs(radii["B"]-want) > 1e-6 {
		t.Errorf("terminal B: got radius %.6f, want %.6f", radii["B"], want)
	}
	if math.Abs(radii["C"]-lt.MaxRadius) > epsilon {
		t.Errorf("terminal C: got radius %.6f, want %.6f", radii["C"], lt.MaxRadius)
	}
}

func TestLayoutTransformUnit(t *testing.T) {
	tr := readTree(t, "((A:1,B:2):3,C:4);")

	lt, err := layout.New(tr, 200, 200, 0, layout.Unit)
	if err != nil {
		t.Fatalf("layout: unexpected error: %v", err)
	}

	// A and B at depth 2, C at depth 1
	for _, l := range lt.Terms() {
		want := 100.0
		if l.Key == "C" {
			want = 50.0
		}
		if math.Abs(l.Pos.Radius-want) > epsilon {
			t.Errorf("terminal %s: got radius %.6f, want %.6f", l.Key, l.Pos.Radius, want)
		}
	}
}

func TestLayoutErrors(t *testing.T) {
	valid := readTree(t, "(A:1,B:1);")

	if _, err := layout.New(valid, 100, 100, 50, layout.None); !errors.Is(err, layout.ErrLayoutOverflow) {
		t.Errorf("margin overflow: got error %v, want %v", err, layout.ErrLayoutOverflow)
	}

	bad := &tree.Node{Name: "A"}
	if _, err := layout.New(bad, 100, 100, 0, layout.None); !errors.Is(err, tree.ErrInvalidHierarchy) {
		t.Errorf("invalid tree: got error %v, want %v", err, tree.ErrInvalidHierarchy)
	}
}

func TestParseTransform(t *testing.T) {
	valid := []string{"none", "unit", "sqrt", "log1p", "normalized", ""}
	for _, s := range valid {
		if _, err := layout.ParseTransform(s); err != nil {
			t.Errorf("transform %q: unexpected error: %v", s, err)
		}
	}
	if _, err := layout.ParseTransform("cubic"); err == nil {
		t.Errorf("transform %q: expecting error", "cubic")
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 12, 64)
}
