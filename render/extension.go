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

// An ExtensionRenderer draws the dashed segments
// that extend every terminal
// to the label circle.
type ExtensionRenderer struct {
	sc     *scene.Scene
	colors *taxa.Policy
	style  *style.Bundle
}

// Instant renders the extension of every terminal
// of a laid out tree.
func (r *ExtensionRenderer) Instant(e *layout.Entry) {
	if !r.style.ShowExtensions {
		r.removeStale(nil)
		return
	}

	keep := make(map[string]bool)
	for _, l := range e.Tree.Terms() {
		keep[l.Key] = true
		r.draw(l, geom.ExtensionPath(l.Pos, e.MaxRadius), 1)
	}
	r.removeStale(keep)
}

// Interpolated renders the extensions
// at time factor t
// between two laid out trees.
// Extensions without a counterpart fade in,
// and extensions only present in the source
// fade out,
// leaving the scene at t = 1.
func (r *ExtensionRenderer) Interpolated(from, to *layout.Entry, t float64) {
	if !r.style.ShowExtensions {
		r.removeStale(nil)
		return
	}

	endRadius := lerp(from.MaxRadius, to.MaxRadius, t)
	keep := make(map[string]bool)
	for _, l := range to.Tree.Terms() {
		keep[l.Key] = true

		fromP, ok := from.Position(l.Key)
		op := 1.0
		if !ok {
			fromP = l.Pos
			op = t
		}
		p := geom.Interpolate(fromP, l.Pos, t)
		r.draw(l, geom.ExtensionPath(p, endRadius), op)
	}
	if t < 1 {
		for _, l := range from.Tree.Terms() {
			if keep[l.Key] {
				continue
			}
			keep[l.Key] = true
			r.draw(l, geom.ExtensionPath(l.Pos, endRadius), 1-t)
		}
	}
	r.removeStale(keep)
}

func (r *ExtensionRenderer) draw(l *layout.Node, path string, opacity float64) {
	r.sc.Upsert(&scene.Element{
		ID:          l.Key,
		Kind:        scene.Path,
		Class:       scene.ClassExtension,
		Path:        path,
		Stroke:      scene.RGB(r.colors.NodeColor(l)),
		StrokeWidth: r.style.ExtensionStrokeWidth,
		Dashed:      true,
		Opacity:     opacity,
	})
}

func (r *ExtensionRenderer) removeStale(keep map[string]bool) {
	for _, e := range r.sc.Elements() {
		if e.Class != scene.ClassExtension {
			continue
		}
		if !keep[e.ID] {
			r.sc.Remove(scene.ClassExtension, e.ID)
		}
	}
}

// stage adds the extension operations of a phase
// to an animation stage.
func (r *ExtensionRenderer) stage(st *Stage, terms delta.NodeSet, from, to *layout.Entry, phase Phase) {
	if !r.style.ShowExtensions {
		return
	}

	switch phase {
	case Exit:
		for _, op := range terms.Exit {
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassExtension, key); ok {
					e.Opacity = 1 - t
				}
			})
			st.OnComplete(func() {
				r.sc.Remove(scene.ClassExtension, key)
			})
		}
	case Enter:
		for _, op := range terms.Enter {
			r.draw(op.Cur, geom.ExtensionPath(op.Cur.Pos, to.MaxRadius), 0)
			key := op.Key
			st.Add(func(t float64) {
				if e, ok := r.sc.Element(scene.ClassExtension, key); ok {
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
				if e, ok := r.sc.Element(scene.ClassExtension, key); ok {
					e.Path = geom.InterpolateExtensionPath(
						prev.Pos, fromRadius,
						cur.Pos, to.MaxRadius, t)
					e.Stroke = scene.RGB(r.colors.NodeColor(cur))
				}
			})
		}
	}
}

// applyColors re-resolves the extension colors
// of the last rendered tree.
func (r *ExtensionRenderer) applyColors(e *layout.Entry) {
	for _, l := range e.Tree.Terms() {
		if el, ok := r.sc.Element(scene.ClassExtension, l.Key); ok {
			el.Stroke = scene.RGB(r.colors.NodeColor(l))
		}
	}
}
