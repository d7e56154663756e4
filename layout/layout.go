// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package layout implements the radial layout
// of a phylogenetic tree:
// each node receives an angle and a radius
// (and the derived cartesian position),
// terminals are spread equally around the circle,
// and radii accumulate the transformed branch lengths
// from the root.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/phylomovie/phylomovie/geom"
	"github.com/phylomovie/phylomovie/tree"
)

// ErrLayoutOverflow is returned when the tree radius
// cannot fit in the drawing area,
// even after removing the margin.
var ErrLayoutOverflow = errors.New("layout overflow")

// A Node is a laid out node:
// a tree node with a polar position
// and its derived cartesian position,
// connected to its laid out parent
// and descendants.
type Node struct {
	// Tree is the source node
	// (of the transformed copy of the input tree).
	Tree *tree.Node

	// Key is the stable identity of the node.
	Key string

	// Pos is the polar position of the node.
	// The angle is in [0, 2π)
	// and the radius is scaled
	// to the drawing area.
	Pos geom.Polar

	// Cartesian position,
	// with the origin at the center
	// of the drawing area.
	X, Y float64

	Parent   *Node
	Children []*Node
}

// IsTerm reports whether the node is a terminal.
func (n *Node) IsTerm() bool {
	return len(n.Children) == 0
}

// Terms returns the names of the terminals
// that descend from the node.
func (n *Node) Terms() []string {
	return n.Tree.Terms()
}

// A Link is a branch of a laid out tree.
// The source is always the parent
// of the target.
type Link struct {
	Source *Node
	Target *Node
}

// Key returns the identity of the link,
// the key of its child endpoint.
func (l Link) Key() string {
	return l.Target.Key
}

// A Tree is a radially laid out tree
// inside a rectangle of a given width and height
// centered at the origin.
type Tree struct {
	// Dimensions of the drawing area.
	Width  float64
	Height float64
	Margin float64

	// MaxRadius is the radius
	// of the most distant terminal
	// after scaling.
	MaxRadius float64

	// Scale is the uniform factor
	// applied to the cumulative branch lengths.
	Scale float64

	Root *Node

	nodes []*Node
	terms []*Node
}

// New computes the radial layout of a tree
// inside a width×height rectangle,
// leaving the given margin
// around the drawing.
//
// It returns tree.ErrInvalidHierarchy
// if the input tree is not a valid hierarchy,
// and ErrLayoutOverflow
// if there is no room for the drawing.
func New(root *tree.Node, width, height, margin float64, tr Transform) (*Tree, error) {
	if err := root.Validate(); err != nil {
		return nil, err
	}

	allotted := math.Min(width, height)/2 - margin
	if allotted <= 0 {
		return nil, fmt.Errorf("%w: no room in %.2f×%.2f area with margin %.2f", ErrLayoutOverflow, width, height, margin)
	}

	t := &Tree{
		Width:  width,
		Height: height,
		Margin: margin,
	}
	t.Root = t.build(tr.apply(root), nil)

	terms := t.terms
	step := 2 * math.Pi / float64(len(terms))
	for i, l := range terms {
		l.Pos.Angle = float64(i) * step
	}
	t.setAngles(t.Root)
	t.setRadii(t.Root, 0)

	// root is at the center by convention
	t.Root.Pos = geom.Polar{}

	maxRadius := 0.0
	for _, l := range terms {
		if l.Pos.Radius > maxRadius {
			maxRadius = l.Pos.Radius
		}
	}
	t.Scale = 1
	if maxRadius > 0 {
		t.Scale = allotted / maxRadius
	}

	for _, n := range t.nodes {
		n.Pos.Radius *= t.Scale
		n.X, n.Y = n.Pos.Cartesian()
	}
	t.MaxRadius = maxRadius * t.Scale

	return t, nil
}

// build creates the laid out nodes
// in pre-order.
func (t *Tree) build(n *tree.Node, parent *Node) *Node {
	ln := &Node{
		Tree:   n,
		Key:    n.Key(),
		Parent: parent,
	}
	t.nodes = append(t.nodes, ln)
	if n.IsTerm() {
		t.terms = append(t.terms, ln)
		return ln
	}

	for _, d := range n.Children {
		ln.Children = append(ln.Children, t.build(d, ln))
	}
	return ln
}

// setAngles assigns to each internal node
// the midpoint of the angles
// of its leftmost and rightmost
// descendant terminals.
func (t *Tree) setAngles(n *Node) {
	if n.IsTerm() {
		return
	}
	for _, d := range n.Children {
		t.setAngles(d)
	}
	n.Pos.Angle = (leftmostTerm(n).Pos.Angle + rightmostTerm(n).Pos.Angle) / 2
}

func leftmostTerm(n *Node) *Node {
	for !n.IsTerm() {
		n = n.Children[0]
	}
	return n
}

func rightmostTerm(n *Node) *Node {
	for !n.IsTerm() {
		n = n.Children[len(n.Children)-1]
	}
	return n
}

// setRadii accumulates the transformed branch lengths
// from the root.
func (t *Tree) setRadii(n *Node, from float64) {
	n.Pos.Radius = from
	for _, d := range n.Children {
		t.setRadii(d, from+d.Tree.Length)
	}
}

// Nodes returns all nodes of the tree
// in pre-order
// (a parent is always before any of its descendants).
func (t *Tree) Nodes() []*Node {
	return t.nodes
}

// Terms returns the terminals of the tree
// in the deterministic input order
// used to spread the angles.
func (t *Tree) Terms() []*Node {
	return t.terms
}

// Internal returns the internal nodes of the tree
// in pre-order.
func (t *Tree) Internal() []*Node {
	var ns []*Node
	for _, n := range t.nodes {
		if !n.IsTerm() {
			ns = append(ns, n)
		}
	}
	return ns
}

// Links returns the branches of the tree,
// parent before child.
func (t *Tree) Links() []Link {
	var ls []Link
	for _, n := range t.nodes {
		if n.Parent == nil {
			continue
		}
		ls = append(ls, Link{Source: n.Parent, Target: n})
	}
	return ls
}
