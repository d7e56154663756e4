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

// A LabelRenderer draws the terminal names
// around the label circle.
// The text anchor and the 180° flip
// are re-evaluated at the rendered angle,
// so a label never reads upside-down,
// even in the middle of a transition.
type LabelRenderer struct {
	sc     *scene.Scene
	colors *taxa.Policy
	style  *style.Bundle
}

// Instant renders the label of every terminal
// of a laid out tree.
func (r *LabelRenderer) Instant(e *layout.Entry) {
	lr := labelRadius(e, r.style)
	keep := make(map[string]bool)
	for _, l := range e.Tree.Terms() {
		keep[l.Key] = true
		r.draw(l, l.Pos.Angle, lr, 1)
	}
	r.removeStale(keep)
}

// Interpolated renders the labels
// at time factor t
// between two laid out trees.
// Labels without a counterpart fade in,
// and labels only present in the source
// fade out,
// leaving the scene at t = 1.
func (r *LabelRenderer) Interpolated(from, to *layout.Entry, t float64) {
	lr := lerp(from.MaxRadius, to.MaxRadius, t) + r.style.LabelOffset
	keep := make(map[string]bool)
	for _, l := range to.Tree.Terms() {
		keep[l.Key] = true

		fromP, ok := from.Position(l.Key)
		op := 1.0
		if !ok {
			fromP = l.Pos
			op = t
		}
		angle := fromP.Angle + geom.ShortestAngle(fromP.Angle, l.Pos.Angle)*t
		r.draw(l, angle, lr, op)
	}
	if t < 1 {
		for _, l := range from.Tree.Terms() {
			if keep[l.Key] {
				continue
			}
			keep[l.Key] = true
			r.draw(l, l.Pos.Angle, lr, 1-t)
		}
	}
	r.removeStale(keep)
}

func (r *LabelRenderer) draw(l *layout.Node, angle, radius, opacity float64) {
	anchor := "start"
	if geom.FlipLabel(angle) {
		anchor = "end"
	}
	r.sc.Upsert(&scene.Element{
		ID:        l.Key,
		Kind:      scene.Text,
		Class:     scene.ClassLabel,
		Text:      l.Key,
		Transform: geom.LabelTransform(angle, radius),
		Anchor:    anchor,
		Fill:      scene.RGB(r.colors.NodeColor(l)),
		FontSize:  r.style.FontSize,
		Opacity:   opacity,
	})
}

func (r *LabelRenderer) removeStale(keep map[string]bool) {
	for _, e := range r.sc.Elements() {
		if e.Class != scene.ClassLabel {
			continue
		}
		if !keep[e.ID] {
			r.sc.Remove(scene.ClassLabel, e.ID)
		}
	}
}

// stage adds the label operations of a phase
// to an animation stage.
func (r *LabelRenderer) stage(st *Stage, terms delta.NodeSet, from, to *layout.Entry, phase Phase) {
	switch phase {
	case Exit:
		for _, op := range terms.Exit {
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassLabel, key); ok {
					e.Opacity = 1 - t
				}
			})
			st.OnComplete(func() {
				r.sc.Remove(scene.ClassLabel, key)
			})
		}
	case Enter:
		lr := labelRadius(to, r.style)
		for _, op := range terms.Enter {
			r.draw(op.Cur, op.Cur.Pos.Angle, lr, 0)
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassLabel, key); ok {
					e.Opacity = t
				}
			})
		}
	case Update:
		fromRadius := to.MaxRadius
		if from != nil {
			fromRadius = from.MaxRadius
		}
		for _, op := range terms.Update {
			prev, cur, key := op.Prev, op.Cur, op.Key
			st.Add(func(t float64) {
				e, ok := r.sc.Element(scene.ClassLabel, key)
				if !ok {
					return
				}
				angle := prev.Pos.Angle + geom.ShortestAngle(prev.Pos.Angle, cur.Pos.Angle)*t
				radius := lerp(fromRadius, to.MaxRadius, t) + r.style.LabelOffset
				e.Transform = geom.LabelTransform(angle, radius)
				e.Anchor = "start"
				if geom.FlipLabel(angle) {
					e.Anchor = "end"
				}
				e.Fill = scene.RGB(r.colors.NodeColor(cur))
			})
		}
	}
}

// applyColors re-resolves the label colors
// of the last rendered tree.
func (r *LabelRenderer) applyColors(e *layout.Entry) {
	for _, l := range e.Tree.Terms() {
		if el, ok := r.sc.Element(scene.ClassLabel, l.Key); ok {
			el.Fill = scene.RGB(r.colors.NodeColor(l))
		}
	}
}
