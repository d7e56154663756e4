// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package delta_test

import (
	"strings"
	"testing"

	"github.com/phylomovie/phylomovie/delta"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/tree"
)

func lay(t testing.TB, nw string) *layout.Tree {
	t.Helper()

	trees, err := tree.ReadNewick(strings.NewReader(nw))
	if err != nil {
		t.Fatalf("invalid newick %q: %v", nw, err)
	}
	lt, err := layout.New(trees[0], 400, 400, 10, layout.None)
	if err != nil {
		t.Fatalf("layout of %q: %v", nw, err)
	}
	return lt
}

func nodeKeys(ops []delta.NodeOp) []string {
	keys := make([]string, 0, len(ops))
	for _, op := range ops {
		keys = append(keys, op.Key)
	}
	return keys
}

func linkKeys(ops []delta.LinkOp) []string {
	keys := make([]string, 0, len(ops))
	for _, op := range ops {
		keys = append(keys, op.Key)
	}
	return keys
}

func hasKey(keys []string, k string) bool {
	for _, v := range keys {
		if v == k {
			return true
		}
	}
	return false
}

func TestCompareNoPrevious(t *testing.T) {
	cur := lay(t, "((A:1,B:1):1,C:2);")

	d := delta.Compare(cur, nil)

	if !d.HasEnter() || d.HasUpdate() || d.HasExit() {
		t.Errorf("no previous: got enter=%v update=%v exit=%v", d.HasEnter(), d.HasUpdate(), d.HasExit())
	}
	if got := len(d.Terms.Enter); got != 3 {
		t.Errorf("entering terminals: got %d, want 3", got)
	}
	if got := len(d.Nodes.Enter); got != 2 {
		t.Errorf("entering nodes: got %d, want 2", got)
	}
	if got := len(d.Links.Enter); got != 4 {
		t.Errorf("entering links: got %d, want 4", got)
	}
}

func TestCompareIdentical(t *testing.T) {
	cur := lay(t, "((A:1,B:1):1,C:2);")
	prev := lay(t, "((A:1,B:1):1,C:2);")

	d := delta.Compare(cur, prev)

	if d.HasEnter() || d.HasUpdate() || d.HasExit() {
		t.Errorf("identical trees: got enter=%v update=%v exit=%v", d.HasEnter(), d.HasUpdate(), d.HasExit())
	}
	if got := len(d.Terms.Stable); got != 3 {
		t.Errorf("stable terminals: got %d, want 3", got)
	}
	if got := len(d.Links.Stable); got != 4 {
		t.Errorf("stable links: got %d, want 4", got)
	}
}

func TestCompareTopologyChange(t *testing.T) {
	prev := lay(t, "((A:1,B:1):1,(C:1,D:1):1);")
	cur := lay(t, "((A:1,C:1):1,(B:1,D:1):1);")

	d := delta.Compare(cur, prev)

	if !hasKey(nodeKeys(d.Nodes.Enter), "A,C") || !hasKey(nodeKeys(d.Nodes.Enter), "B,D") {
		t.Errorf("entering nodes: got %v", nodeKeys(d.Nodes.Enter))
	}
	if !hasKey(nodeKeys(d.Nodes.Exit), "A,B") || !hasKey(nodeKeys(d.Nodes.Exit), "C,D") {
		t.Errorf("exiting nodes: got %v", nodeKeys(d.Nodes.Exit))
	}
	if !hasKey(linkKeys(d.Links.Enter), "A,C") {
		t.Errorf("entering links: got %v", linkKeys(d.Links.Enter))
	}
	if !hasKey(linkKeys(d.Links.Exit), "C,D") {
		t.Errorf("exiting links: got %v", linkKeys(d.Links.Exit))
	}

	// terminals are conserved: enter and exit are empty
	if len(d.Terms.Enter) != 0 || len(d.Terms.Exit) != 0 {
		t.Errorf("terminals: got %d entering, %d exiting, want none",
			len(d.Terms.Enter), len(d.Terms.Exit))
	}

	// the union of update and stable covers the terminal set
	n := len(d.Terms.Update) + len(d.Terms.Stable)
	if n != 4 {
		t.Errorf("terminals: update+stable covers %d of 4", n)
	}
}

func TestCompareTermSwap(t *testing.T) {
	prev := lay(t, "(A:1,B:1,C:1,D:1);")
	cur := lay(t, "(B:1,A:1,C:1,D:1);")

	d := delta.Compare(cur, prev)

	up := nodeKeys(d.Terms.Update)
	if !hasKey(up, "A") || !hasKey(up, "B") {
		t.Errorf("updating terminals: got %v, want A and B", up)
	}
	st := nodeKeys(d.Terms.Stable)
	if !hasKey(st, "C") || !hasKey(st, "D") {
		t.Errorf("stable terminals: got %v, want C and D", st)
	}
}

func TestCompareDisjointSets(t *testing.T) {
	prev := lay(t, "((A:1,B:1):1,(C:1,D:1):1);")
	cur := lay(t, "((A:1,C:1):2,(B:1,D:1):1);")

	d := delta.Compare(cur, prev)

	seen := make(map[string]string)
	record := func(class string, keys []string) {
		for _, k := range keys {
			if prev, ok := seen[k]; ok {
				t.Errorf("key %q in both %s and %s", k, prev, class)
			}
			seen[k] = class
		}
	}
	record("enter", nodeKeys(d.Terms.Enter))
	record("update", nodeKeys(d.Terms.Update))
	record("exit", nodeKeys(d.Terms.Exit))
	record("stable", nodeKeys(d.Terms.Stable))
}
