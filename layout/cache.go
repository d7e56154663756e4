// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout

import (
	"errors"
	"fmt"

	"github.com/phylomovie/phylomovie/geom"
	"github.com/phylomovie/phylomovie/tree"
)

// ErrIndexRange is returned when a sequence index
// is outside the movie sequence.
var ErrIndexRange = errors.New("sequence index out of range")

// An Entry is a cached laid out tree
// with its per-element position maps.
type Entry struct {
	// Tree is the laid out tree.
	Tree *Tree

	// TermPositions maps a terminal key
	// to its polar position.
	TermPositions map[string]geom.Polar

	// NodePositions maps an internal node key
	// to its polar position.
	NodePositions map[string]geom.Polar

	// MaxRadius of the laid out tree.
	MaxRadius float64
}

// Position returns the polar position
// of the element with the given key,
// either a terminal or an internal node.
func (e *Entry) Position(key string) (geom.Polar, bool) {
	if p, ok := e.TermPositions[key]; ok {
		return p, true
	}
	p, ok := e.NodePositions[key]
	return p, ok
}

// A Cache memoizes the layout of each tree
// of a movie sequence.
// Each tree is laid out at most once
// per parameter set;
// changing the drawing parameters
// invalidates all entries.
//
// The cache is append-only within a session
// and must be used from a single goroutine.
type Cache struct {
	trees []*tree.Node

	width     float64
	height    float64
	margin    float64
	transform Transform

	entries map[int]*Entry
}

// NewCache creates a layout cache
// for a sequence of trees.
func NewCache(trees []*tree.Node, width, height, margin float64, tr Transform) *Cache {
	return &Cache{
		trees:     trees,
		width:     width,
		height:    height,
		margin:    margin,
		transform: tr,
		entries:   make(map[int]*Entry, len(trees)),
	}
}

// Len returns the number of trees
// in the sequence.
func (c *Cache) Len() int {
	return len(c.trees)
}

// Transform returns the branch length transformation
// currently used by the cache.
func (c *Cache) Transform() Transform {
	return c.transform
}

// Entry returns the cached layout
// of the tree at a sequence index,
// computing it on first use.
func (c *Cache) Entry(i int) (*Entry, error) {
	if i < 0 || i >= len(c.trees) {
		return nil, fmt.Errorf("%w: %d of %d", ErrIndexRange, i, len(c.trees))
	}
	if e, ok := c.entries[i]; ok {
		return e, nil
	}

	t, err := New(c.trees[i], c.width, c.height, c.margin, c.transform)
	if err != nil {
		return nil, fmt.Errorf("tree %d: %w", i, err)
	}

	e := &Entry{
		Tree:          t,
		TermPositions: make(map[string]geom.Polar, len(t.Terms())),
		NodePositions: make(map[string]geom.Polar),
		MaxRadius:     t.MaxRadius,
	}
	for _, n := range t.Nodes() {
		if n.IsTerm() {
			e.TermPositions[n.Key] = n.Pos
			continue
		}
		e.NodePositions[n.Key] = n.Pos
	}
	c.entries[i] = e
	return e, nil
}

// Reset changes the drawing parameters of the cache.
// If any parameter differs
// all cached entries are invalidated.
func (c *Cache) Reset(width, height, margin float64, tr Transform) {
	if c.width == width && c.height == height && c.margin == margin && c.transform == tr {
		return
	}
	c.width = width
	c.height = height
	c.margin = margin
	c.transform = tr
	c.entries = make(map[int]*Entry, len(c.trees))
}
