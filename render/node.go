// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"github.com/phylomovie/phylomovie/delta"
	"github.com/phylomovie/phylomovie/geom"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/style"
	"github.com/phylomovie/phylomovie/taxa"
)

// A NodeRenderer draws the internal nodes
// and terminals of the tree
// as circles.
// Both classes share the geometry;
// the visual distinction,
// if any,
// comes from the style and the color policy.
type NodeRenderer struct {
	sc     *scene.Scene
	colors *taxa.Policy
	style  *style.Bundle
}

func nodeClass(n *layout.Node) string {
	if n.IsTerm() {
		return scene.ClassTerm
	}
	return scene.ClassNode
}

// Instant renders every node of a laid out tree
// at its final position.
func (r *NodeRenderer) Instant(e *layout.Entry) {
	keep := make(map[string]bool)
	for _, n := range e.Tree.Nodes() {
		keep[nodeClass(n)+"/"+n.Key] = true
		r.draw(n, n.Pos, 1)
	}
	r.removeStale(keep)
}

// Interpolated renders every node
// of the target tree
// at time factor t from its source counterpart.
// Nodes without a counterpart fade in
// at their own position,
// and nodes only present in the source
// fade out,
// leaving the scene at t = 1.
func (r *NodeRenderer) Interpolated(from, to *layout.Entry, t float64) {
	keep := make(map[string]bool)
	for _, n := range to.Tree.Nodes() {
		keep[nodeClass(n)+"/"+n.Key] = true

		fromP, ok := from.Position(n.Key)
		op := 1.0
		if !ok {
			fromP = n.Pos
			op = t
		}
		r.draw(n, geom.Interpolate(fromP, n.Pos, t), op)
	}
	if t < 1 {
		for _, n := range from.Tree.Nodes() {
			if keep[nodeClass(n)+"/"+n.Key] {
				continue
			}
			keep[nodeClass(n)+"/"+n.Key] = true
			r.draw(n, n.Pos, 1-t)
		}
	}
	r.removeStale(keep)
}

func (r *NodeRenderer) draw(n *layout.Node, pos geom.Polar, opacity float64) {
	x, y := pos.Cartesian()
	r.sc.Upsert(&scene.Element{
		ID:      n.Key,
		Kind:    scene.Circle,
		Class:   nodeClass(n),
		X:       x,
		Y:       y,
		Radius:  r.style.NodeRadius,
		Fill:    scene.RGB(r.colors.NodeColor(n)),
		Opacity: opacity,
	})
}

func (r *NodeRenderer) removeStale(keep map[string]bool) {
	for _, e := range r.sc.Elements() {
		if e.Class != scene.ClassNode && e.Class != scene.ClassTerm {
			continue
		}
		if !keep[e.Class+"/"+e.ID] {
			r.sc.Remove(e.Class, e.ID)
		}
	}
}

// stage adds the node operations of a phase
// to an animation stage,
// for both internal nodes and terminals.
func (r *NodeRenderer) stage(st *Stage, nodes, terms delta.NodeSet, phase Phase) {
	r.stageClass(st, nodes, scene.ClassNode, phase)
	r.stageClass(st, terms, scene.ClassTerm, phase)
}

func (r *NodeRenderer) stageClass(st *Stage, set delta.NodeSet, class string, phase Phase) {
	switch phase {
	case Exit:
		for _, op := range set.Exit {
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(class, key); ok {
					e.Opacity = 1 - t
				}
			})
			st.OnComplete(func() {
				r.sc.Remove(class, key)
			})
		}
	case Enter:
		for _, op := range set.Enter {
			r.draw(op.Cur, op.Cur.Pos, 0)
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(class, key); ok {
					e.Opacity = t
				}
			})
		}
	case Update:
		for _, op := range set.Update {
			prev, cur, key := op.Prev, op.Cur, op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(class, key); ok {
					pos := geom.Interpolate(prev.Pos, cur.Pos, t)
					e.X, e.Y = pos.Cartesian()
					e.Fill = scene.RGB(r.colors.NodeColor(cur))
				}
			})
		}
	}
}

// applyColors re-resolves the node colors
// of the last rendered tree.
func (r *NodeRenderer) applyColors(e *layout.Entry) {
	for _, n := range e.Tree.Nodes() {
		if el, ok := r.sc.Element(nodeClass(n), n.Key); ok {
			el.Fill = scene.RGB(r.colors.NodeColor(n))
		}
	}
}
