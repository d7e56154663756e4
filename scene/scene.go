// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package scene implements the retained scene graph
// used as the rendering surface of the movie:
// a keyed collection of styled elements
// (paths, circles, and text labels)
// that can be mutated between frames
// and serialized as an SVG document.
package scene

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"go.uber.org/zap"
)

// A Kind is the geometric kind of an element.
type Kind int

// Valid element kinds.
const (
	Path Kind = iota
	Circle
	Text
)

// Element classes,
// used to stack the drawing
// in a stable z-order.
const (
	ClassExtension = "extension"
	ClassLink      = "link"
	ClassNode      = "node"
	ClassTerm      = "term"
	ClassLabel     = "label"
)

// classOrder is the z-order of the element classes,
// from back to front.
var classOrder = []string{ClassExtension, ClassLink, ClassNode, ClassTerm, ClassLabel}

// An Element is a drawable item of the scene,
// identified by a stable ID
// within its class.
type Element struct {
	ID    string
	Kind  Kind
	Class string

	// Path geometry (Kind == Path).
	Path string

	// Circle geometry (Kind == Circle).
	X, Y, Radius float64

	// Text content and placement (Kind == Text).
	Text      string
	Transform string
	Anchor    string

	Fill        string
	Stroke      string
	StrokeWidth float64
	Dashed      bool
	Opacity     float64
	FontSize    float64
}

// valid reports whether the element geometry
// is made of finite numbers.
func (e *Element) valid() bool {
	switch e.Kind {
	case Circle:
		for _, v := range []float64{e.X, e.Y, e.Radius} {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false
			}
		}
	case Path:
		if strings.Contains(e.Path, "NaN") || strings.Contains(e.Path, "Inf") {
			return false
		}
	case Text:
		if strings.Contains(e.Transform, "NaN") || strings.Contains(e.Transform, "Inf") {
			return false
		}
	}
	return true
}

// A Scene is a rendering surface:
// a keyed, retained collection of elements
// inside a width×height rectangle
// with the origin at its center.
//
// A scene must only be mutated
// by its owning controller.
type Scene struct {
	Width  float64
	Height float64

	elems map[string]*Element
	order []string

	log *zap.Logger
}

// New creates an empty scene.
// A nil logger disables logging.
func New(width, height float64, log *zap.Logger) *Scene {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scene{
		Width:  width,
		Height: height,
		elems:  make(map[string]*Element),
		log:    log,
	}
}

// elemID builds the scene key of an element
// from its class and identity.
func elemID(class, key string) string {
	return class + "/" + key
}

// ElemID returns the scene key of an element
// of a given class.
func ElemID(class, key string) string {
	return elemID(class, key)
}

// Upsert adds or replaces an element.
// The opacity is stored as given;
// an element inserted at opacity 0 is hidden
// until its owner raises it.
// Elements with invalid geometry
// (NaN or infinite coordinates)
// are dropped and reported at debug level;
// the scene is never corrupted by them.
// It returns false for a dropped element.
func (s *Scene) Upsert(e *Element) bool {
	if !e.valid() {
		s.log.Debug("skipping invalid element",
			zap.String("id", e.ID),
			zap.String("class", e.Class))
		return false
	}

	id := elemID(e.Class, e.ID)
	if _, ok := s.elems[id]; !ok {
		s.order = append(s.order, id)
	}
	s.elems[id] = e
	return true
}

// Remove deletes the element
// of a class and identity.
func (s *Scene) Remove(class, key string) {
	id := elemID(class, key)
	if _, ok := s.elems[id]; !ok {
		return
	}
	delete(s.elems, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// Element returns the element
// of a class and identity.
func (s *Scene) Element(class, key string) (*Element, bool) {
	e, ok := s.elems[elemID(class, key)]
	return e, ok
}

// Elements returns the scene elements
// in drawing order:
// stacked by class,
// and by insertion order
// inside each class.
func (s *Scene) Elements() []*Element {
	es := make([]*Element, 0, len(s.elems))
	for _, class := range classOrder {
		for _, id := range s.order {
			e := s.elems[id]
			if e.Class == class {
				es = append(es, e)
			}
		}
	}
	// unknown classes go on top
	for _, id := range s.order {
		e := s.elems[id]
		known := false
		for _, class := range classOrder {
			if e.Class == class {
				known = true
				break
			}
		}
		if !known {
			es = append(es, e)
		}
	}
	return es
}

// Len returns the number of elements
// in the scene.
func (s *Scene) Len() int {
	return len(s.elems)
}

// Clear removes every element.
func (s *Scene) Clear() {
	s.elems = make(map[string]*Element)
	s.order = nil
}

// RGB formats a color
// as an SVG rgb() value.
func RGB(c color.RGBA) string {
	return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
}
