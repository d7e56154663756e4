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

// A LinkRenderer draws the branches of the tree
// as arc-plus-line paths.
type LinkRenderer struct {
	sc     *scene.Scene
	colors *taxa.Policy
	style  *style.Bundle
}

// Instant renders every branch of a laid out tree
// at its final position.
func (r *LinkRenderer) Instant(e *layout.Entry) {
	keep := make(map[string]bool)
	for _, l := range e.Tree.Links() {
		keep[l.Key()] = true
		r.draw(l, geom.ArcLinePath(l.Source.Pos, l.Target.Pos), 1)
	}
	r.removeStale(keep)
}

// Interpolated renders every branch
// of the target tree
// at time factor t from its source counterpart.
// Branches without a counterpart fade in
// at their own position,
// and branches only present in the source
// fade out,
// leaving the scene at t = 1.
func (r *LinkRenderer) Interpolated(from, to *layout.Entry, t float64) {
	keep := make(map[string]bool)
	for _, l := range to.Tree.Links() {
		keep[l.Key()] = true

		toS, toT := l.Source.Pos, l.Target.Pos
		fromS, okS := from.Position(l.Source.Key)
		fromT, okT := from.Position(l.Target.Key)
		op := 1.0
		if !okS || !okT {
			fromS, fromT = toS, toT
			op = t
		}
		r.draw(l, geom.InterpolateArcPath(fromS, fromT, toS, toT, t), op)
	}
	if t < 1 {
		for _, l := range from.Tree.Links() {
			if keep[l.Key()] {
				continue
			}
			keep[l.Key()] = true
			r.draw(l, geom.ArcLinePath(l.Source.Pos, l.Target.Pos), 1-t)
		}
	}
	r.removeStale(keep)
}

func (r *LinkRenderer) draw(l layout.Link, path string, opacity float64) {
	r.sc.Upsert(&scene.Element{
		ID:          l.Key(),
		Kind:        scene.Path,
		Class:       scene.ClassLink,
		Path:        path,
		Stroke:      scene.RGB(r.colors.LinkColor(l)),
		StrokeWidth: r.style.StrokeWidth,
		Opacity:     opacity,
	})
}

func (r *LinkRenderer) removeStale(keep map[string]bool) {
	for _, e := range r.sc.Elements() {
		if e.Class != scene.ClassLink {
			continue
		}
		if !keep[e.ID] {
			r.sc.Remove(scene.ClassLink, e.ID)
		}
	}
}

// stage adds the branch operations of a phase
// to an animation stage.
func (r *LinkRenderer) stage(st *Stage, set delta.LinkSet, phase Phase) {
	switch phase {
	case Exit:
		for _, op := range set.Exit {
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassLink, key); ok {
					e.Opacity = 1 - t
				}
			})
			st.OnComplete(func() {
				r.sc.Remove(scene.ClassLink, key)
			})
		}
	case Enter:
		for _, op := range set.Enter {
			l := op.Cur
			r.draw(l, geom.ArcLinePath(l.Source.Pos, l.Target.Pos), 0)
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassLink, key); ok {
					e.Opacity = t
				}
			})
		}
	case Update:
		for _, op := range set.Update {
			prev, cur, key := op.Prev, op.Cur, op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassLink, key); ok {
					e.Path = geom.InterpolateArcPath(
						prev.Source.Pos, prev.Target.Pos,
						cur.Source.Pos, cur.Target.Pos, t)
					e.Stroke = scene.RGB(r.colors.LinkColor(cur))
				}
			})
		}
	}
}

// applyColors re-resolves the branch colors
// of the last rendered tree.
func (r *LinkRenderer) applyColors(e *layout.Entry) {
	for _, l := range e.Tree.Links() {
		if el, ok := r.sc.Element(scene.ClassLink, l.Key()); ok {
			el.Stroke = scene.RGB(r.colors.LinkColor(l))
		}
	}
}
