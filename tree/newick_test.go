// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package tree_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/phylomovie/phylomovie/tree"
)

func TestReadNewick(t *testing.T) {
	in := "((A:1,B:2):0.5,(C:0.5,(D:1,E:1):0.5):0.25);\n"

	trees, err := tree.ReadNewick(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}
	if len(trees) != 1 {
		t.Fatalf("read: got %d trees, want 1", len(trees))
	}

	if !reflect.DeepEqual(trees[0], fiveTaxa()) {
		t.Errorf("read: got %v, want %v", trees[0].Newick(), fiveTaxa().Newick())
	}
}

func TestReadNewickList(t *testing.T) {
	in := "(A:1,B:1);\n(A:2,B:2);\n(A:1,(B:1,C:1):1);\n"

	trees, err := tree.ReadNewick(strings.NewReader(in))
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}
	if len(trees) != 3 {
		t.Fatalf("read: got %d trees, want 3", len(trees))
	}

	want := []string{"A,B", "A,B", "A,B,C"}
	for i, tr := range trees {
		if got := tr.Key(); got != want[i] {
			t.Errorf("tree %d: got root key %q, want %q", i, got, want[i])
		}
	}
}

func TestPurify(t *testing.T) {
	in := "((A[comment]:1,B:2[&rate=0.1]):0.5,C:1);\n\n\n"
	want := "((A:1,B:2):0.5,C:1);"
	if got := tree.Purify(in); got != want {
		t.Errorf("purify: got %q, want %q", got, want)
	}
}

func TestReadNewickDefaults(t *testing.T) {
	// missing lengths default to 1
	trees, err := tree.ReadNewick(strings.NewReader("(A,(B:2,C));"))
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}

	tr := trees[0]
	if got := tr.Children[0].Length; got != tree.DefBranchLength {
		t.Errorf("terminal length: got %.3f, want %.3f", got, tree.DefBranchLength)
	}
	if got := tr.Children[1].Length; got != tree.DefBranchLength {
		t.Errorf("internal length: got %.3f, want %.3f", got, tree.DefBranchLength)
	}
	if got := tr.Children[1].Children[0].Length; got != 2.0 {
		t.Errorf("explicit length: got %.3f, want %.3f", got, 2.0)
	}
}

func TestReadNewickCollapseRoot(t *testing.T) {
	// a root with a single descendant collapses into it
	trees, err := tree.ReadNewick(strings.NewReader("((A:1,B:1):1);"))
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}

	tr := trees[0]
	if len(tr.Children) != 2 {
		t.Fatalf("collapse: got %d root children, want 2", len(tr.Children))
	}
	if got := tr.Key(); got != "A,B" {
		t.Errorf("collapse: got root key %q, want %q", got, "A,B")
	}
}

func TestReadNewickErrors(t *testing.T) {
	tests := []string{
		"((A:1,B:1;",
		"(A:xx,B:1);",
		"",
	}
	for _, in := range tests {
		if _, err := tree.ReadNewick(strings.NewReader(in)); err == nil {
			t.Errorf("read %q: expecting error", in)
		}
	}
}

func TestNewickRoundTrip(t *testing.T) {
	tr := fiveTaxa()

	trees, err := tree.ReadNewick(strings.NewReader(tr.Newick() + ";"))
	if err != nil {
		t.Fatalf("read: unexpected error: %v", err)
	}
	if !reflect.DeepEqual(trees[0], tr) {
		t.Errorf("round trip: got %q, want %q", trees[0].Newick(), tr.Newick())
	}
}
