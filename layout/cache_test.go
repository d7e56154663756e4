// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout_test

import (
	"errors"
	"testing"

	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/tree"
)

func cacheTrees(t testing.TB) []*tree.Node {
	t.Helper()

	return []*tree.Node{
		readTree(t, "((A:1,B:1):1,C:2);"),
		readTree(t, "((A:1,C:1):1,B:2);"),
		readTree(t, "((B:1,C:1):1,A:2);"),
	}
}

func TestCache(t *testing.T) {
	c := layout.NewCache(cacheTrees(t), 400, 400, 10, layout.None)
	if c.Len() != 3 {
		t.Fatalf("cache: got %d trees, want 3", c.Len())
	}

	e, err := c.Entry(1)
	if err != nil {
		t.Fatalf("entry: unexpected error: %v", err)
	}

	if len(e.TermPositions) != 3 {
		t.Errorf("terminal positions: got %d, want 3", len(e.TermPositions))
	}
	if _, ok := e.NodePositions["A,C"]; !ok {
		t.Errorf("node positions: missing clade %q", "A,C")
	}

	for _, n := range e.Tree.Nodes() {
		p, ok := e.Position(n.Key)
		if !ok {
			t.Errorf("position: missing key %q", n.Key)
			continue
		}
		if p != n.Pos {
			t.Errorf("position %s: got %v, want %v", n.Key, p, n.Pos)
		}
	}

	// a second request returns the memoized entry
	again, err := c.Entry(1)
	if err != nil {
		t.Fatalf("entry: unexpected error: %v", err)
	}
	if again != e {
		t.Errorf("entry: memoized entry not reused")
	}
}

func TestCacheRange(t *testing.T) {
	c := layout.NewCache(cacheTrees(t), 400, 400, 10, layout.None)

	for _, i := range []int{-1, 3, 100} {
		if _, err := c.Entry(i); !errors.Is(err, layout.ErrIndexRange) {
			t.Errorf("entry %d: got error %v, want %v", i, err, layout.ErrIndexRange)
		}
	}
}

func TestCacheReset(t *testing.T) {
	c := layout.NewCache(cacheTrees(t), 400, 400, 10, layout.None)

	e, err := c.Entry(0)
	if err != nil {
		t.Fatalf("entry: unexpected error: %v", err)
	}

	// same parameters keep the entries
	c.Reset(400, 400, 10, layout.None)
	if again, _ := c.Entry(0); again != e {
		t.Errorf("reset: entries invalidated without a parameter change")
	}

	// a transform change invalidates the entries
	c.Reset(400, 400, 10, layout.Unit)
	again, err := c.Entry(0)
	if err != nil {
		t.Fatalf("entry: unexpected error: %v", err)
	}
	if again == e {
		t.Errorf("reset: entries not invalidated by a transform change")
	}
	if c.Transform() != layout.Unit {
		t.Errorf("reset: got transform %q, want %q", c.Transform(), layout.Unit)
	}
}
