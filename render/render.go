// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package render implements the four renderers
// of the tree movie
// (branches, nodes, terminal extensions, labels)
// over a shared scene.
//
// Every renderer supports three entry points:
// an instant snapshot render,
// an interpolated render at a time factor
// between two laid out trees,
// and a staged render
// that animates the differences
// computed by the difference engine.
package render

import (
	"time"

	"go.uber.org/zap"

	"github.com/phylomovie/phylomovie/delta"
	"github.com/phylomovie/phylomovie/ease"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/style"
	"github.com/phylomovie/phylomovie/taxa"
)

// A Phase is one step of a staged render.
type Phase int

// Stage phases.
const (
	Exit Phase = iota
	Enter
	Update
)

// String returns the name of the phase.
func (p Phase) String() string {
	switch p {
	case Exit:
		return "exit"
	case Enter:
		return "enter"
	case Update:
		return "update"
	}
	return "unknown"
}

// A Set holds the four renderers
// over a shared scene.
type Set struct {
	Links  *LinkRenderer
	Nodes  *NodeRenderer
	Exts   *ExtensionRenderer
	Labels *LabelRenderer

	sc  *scene.Scene
	cur *layout.Entry
	log *zap.Logger
}

// NewSet creates the renderer set
// over a scene,
// with a shared color policy
// and style bundle.
// A nil logger disables logging.
func NewSet(sc *scene.Scene, colors *taxa.Policy, st *style.Bundle, log *zap.Logger) *Set {
	if log == nil {
		log = zap.NewNop()
	}
	return &Set{
		Links:  &LinkRenderer{sc: sc, colors: colors, style: st},
		Nodes:  &NodeRenderer{sc: sc, colors: colors, style: st},
		Exts:   &ExtensionRenderer{sc: sc, colors: colors, style: st},
		Labels: &LabelRenderer{sc: sc, colors: colors, style: st},
		sc:     sc,
		log:    log,
	}
}

// Scene returns the shared scene of the set.
func (s *Set) Scene() *scene.Scene {
	return s.sc
}

// Current returns the last rendered entry.
func (s *Set) Current() *layout.Entry {
	return s.cur
}

// Instant renders a snapshot of a laid out tree,
// with no transitions.
// It is used on the initial render
// and after a drawing area change.
func (s *Set) Instant(e *layout.Entry) {
	s.sc.Clear()
	s.Links.Instant(e)
	s.Nodes.Instant(e)
	s.Exts.Instant(e)
	s.Labels.Instant(e)
	s.cur = e
}

// Interpolated renders the frame
// at time factor t
// between two laid out trees.
// Every element of the target tree is drawn;
// positions come from the source tree counterpart
// when it exists,
// with angles moving along the shortest arc.
// Elements only present in the source
// fade out,
// and are removed at t = 1.
func (s *Set) Interpolated(from, to *layout.Entry, t float64) {
	s.Links.Interpolated(from, to, t)
	s.Nodes.Interpolated(from, to, t)
	s.Exts.Interpolated(from, to, t)
	s.Labels.Interpolated(from, to, t)
	s.cur = to
}

// Stage builds the combined animation stage
// of a phase,
// joining the pending operations
// of the four renderers
// for a transition between two laid out trees.
// The from entry may be nil
// on an initial render.
// The stage may be empty.
func (s *Set) Stage(d *delta.Diff, from, to *layout.Entry, phase Phase, dur time.Duration, fn ease.Func) *Stage {
	st := NewStage(dur, fn)
	s.Links.stage(st, d.Links, phase)
	s.Nodes.stage(st, d.Nodes, d.Terms, phase)
	s.Exts.stage(st, d.Terms, from, to, phase)
	s.Labels.stage(st, d.Terms, from, to, phase)
	s.cur = to
	s.log.Debug("stage built",
		zap.String("phase", phase.String()),
		zap.Duration("duration", dur),
		zap.Bool("empty", st.Empty()))
	return st
}

// Prune removes every scene element
// that belongs to none of the given trees
// and restores full opacity on the rest.
// It is used before staging a transition
// over a scene left by an abandoned
// interpolated frame,
// so no foreign or half-faded element
// survives the next animation.
func (s *Set) Prune(entries ...*layout.Entry) {
	keep := make(map[string]bool)
	for _, e := range entries {
		if e == nil {
			continue
		}
		for _, n := range e.Tree.Nodes() {
			if n.IsTerm() {
				keep[scene.ElemID(scene.ClassTerm, n.Key)] = true
				keep[scene.ElemID(scene.ClassExtension, n.Key)] = true
				keep[scene.ElemID(scene.ClassLabel, n.Key)] = true
				continue
			}
			keep[scene.ElemID(scene.ClassNode, n.Key)] = true
		}
		for _, l := range e.Tree.Links() {
			keep[scene.ElemID(scene.ClassLink, l.Key())] = true
		}
	}
	for _, el := range s.sc.Elements() {
		if !keep[scene.ElemID(el.Class, el.ID)] {
			s.sc.Remove(el.Class, el.ID)
			continue
		}
		el.Opacity = 1
	}
}

// ApplyColors re-resolves the color
// of every element of the last rendered tree,
// without touching geometry.
// It is used when the taxa grouping
// or the marked components change.
func (s *Set) ApplyColors() {
	if s.cur == nil {
		return
	}
	s.Links.applyColors(s.cur)
	s.Nodes.applyColors(s.cur)
	s.Exts.applyColors(s.cur)
	s.Labels.applyColors(s.cur)
}

// labelRadius returns the radius
// of the label circle of an entry.
func labelRadius(e *layout.Entry, st *style.Bundle) float64 {
	return e.MaxRadius + st.LabelOffset
}

// lerp is a linear interpolation
// between two scalars.
func lerp(a, b, t float64) float64 {
	return a + (b-a)*t
}
