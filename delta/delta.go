// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package delta implements the difference engine
// that compares two laid out trees
// and classifies every element
// (branch, internal node, terminal)
// as entering, updating, exiting,
// or stable,
// keyed by the stable element identities.
package delta

import (
	"github.com/phylomovie/phylomovie/layout"
)

// A NodeOp is a pending operation
// over a node element.
// Prev is nil for entering elements
// and Cur is nil for exiting ones.
type NodeOp struct {
	Key  string
	Prev *layout.Node
	Cur  *layout.Node
}

// A LinkOp is a pending operation
// over a branch element.
type LinkOp struct {
	Key  string
	Prev layout.Link
	Cur  layout.Link
}

// A NodeSet holds the classified operations
// of a node element class.
// Elements whose position did not move
// are reported as stable
// and take part in no operation.
type NodeSet struct {
	Enter  []NodeOp
	Update []NodeOp
	Exit   []NodeOp
	Stable []NodeOp
}

// A LinkSet holds the classified operations
// of the branch element class.
type LinkSet struct {
	Enter  []LinkOp
	Update []LinkOp
	Exit   []LinkOp
	Stable []LinkOp
}

// A Diff is the full classification
// of the differences between two laid out trees,
// one set per element class.
type Diff struct {
	Links LinkSet
	Nodes NodeSet // internal nodes
	Terms NodeSet // terminals
}

// HasEnter reports whether any element class
// has entering elements.
func (d *Diff) HasEnter() bool {
	return len(d.Links.Enter) > 0 || len(d.Nodes.Enter) > 0 || len(d.Terms.Enter) > 0
}

// HasUpdate reports whether any element class
// has moving elements.
func (d *Diff) HasUpdate() bool {
	return len(d.Links.Update) > 0 || len(d.Nodes.Update) > 0 || len(d.Terms.Update) > 0
}

// HasExit reports whether any element class
// has exiting elements.
func (d *Diff) HasExit() bool {
	return len(d.Links.Exit) > 0 || len(d.Nodes.Exit) > 0 || len(d.Terms.Exit) > 0
}

// Compare classifies the differences
// between the current laid out tree
// and the previous one.
// A nil previous tree classifies every element
// as entering.
//
// Operations are ordered by the iteration order
// of the current tree
// (pre-order for nodes, parent before child for links);
// exit operations follow the order
// of the previous tree.
func Compare(cur, prev *layout.Tree) *Diff {
	d := &Diff{}

	var prevLinks map[string]layout.Link
	var prevNodes, prevTerms map[string]*layout.Node
	if prev != nil {
		prevLinks = make(map[string]layout.Link, len(prev.Nodes()))
		for _, l := range prev.Links() {
			prevLinks[l.Key()] = l
		}
		prevNodes = make(map[string]*layout.Node)
		prevTerms = make(map[string]*layout.Node, len(prev.Terms()))
		for _, n := range prev.Nodes() {
			if n.IsTerm() {
				prevTerms[n.Key] = n
				continue
			}
			prevNodes[n.Key] = n
		}
	}

	curLinks := make(map[string]bool, len(cur.Nodes()))
	for _, l := range cur.Links() {
		curLinks[l.Key()] = true
		p, ok := prevLinks[l.Key()]
		switch {
		case !ok:
			d.Links.Enter = append(d.Links.Enter, LinkOp{Key: l.Key(), Cur: l})
		case p.Source.Pos != l.Source.Pos || p.Target.Pos != l.Target.Pos:
			d.Links.Update = append(d.Links.Update, LinkOp{Key: l.Key(), Prev: p, Cur: l})
		default:
			d.Links.Stable = append(d.Links.Stable, LinkOp{Key: l.Key(), Prev: p, Cur: l})
		}
	}

	curNodes := make(map[string]bool, len(cur.Nodes()))
	for _, n := range cur.Nodes() {
		curNodes[n.Key] = true

		var p *layout.Node
		var ok bool
		if n.IsTerm() {
			p, ok = prevTerms[n.Key]
		} else {
			p, ok = prevNodes[n.Key]
		}

		set := &d.Nodes
		if n.IsTerm() {
			set = &d.Terms
		}
		switch {
		case !ok:
			set.Enter = append(set.Enter, NodeOp{Key: n.Key, Cur: n})
		case p.Pos != n.Pos:
			set.Update = append(set.Update, NodeOp{Key: n.Key, Prev: p, Cur: n})
		default:
			set.Stable = append(set.Stable, NodeOp{Key: n.Key, Prev: p, Cur: n})
		}
	}

	if prev == nil {
		return d
	}

	for _, l := range prev.Links() {
		if curLinks[l.Key()] {
			continue
		}
		d.Links.Exit = append(d.Links.Exit, LinkOp{Key: l.Key(), Prev: l})
	}
	for _, n := range prev.Nodes() {
		if curNodes[n.Key] {
			continue
		}
		op := NodeOp{Key: n.Key, Prev: n}
		if n.IsTerm() {
			d.Terms.Exit = append(d.Terms.Exit, op)
			continue
		}
		d.Nodes.Exit = append(d.Nodes.Exit, op)
	}

	return d
}
