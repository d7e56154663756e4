// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package tree implements the phylogenetic trees
// used as input for a tree movie.
//
// A tree is a rooted hierarchy of nodes,
// each node with an optional name
// (terminals must always be named),
// a branch length,
// and zero or more descendants.
package tree

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// DefBranchLength is the branch length assigned to a node
// when the input does not define one.
const DefBranchLength = 1.0

// ErrInvalidHierarchy is returned when a tree
// cannot be used for a layout:
// an unnamed terminal,
// a repeated terminal name,
// or a tree with less than two terminals.
var ErrInvalidHierarchy = errors.New("invalid hierarchy")

// A Node is a node of a phylogenetic tree.
// Nodes are immutable inputs of the movie:
// once a tree is part of a movie sequence
// it should never be modified.
type Node struct {
	// Name of the node.
	// It must be non-empty for terminals
	// and can be empty for internal nodes.
	Name string

	// Length is the length of the branch
	// that connects the node with its ancestor.
	Length float64

	// Children are the descendants of the node,
	// in input order.
	Children []*Node
}

// IsTerm reports whether the node is a terminal
// (i.e. it has no descendants).
func (n *Node) IsTerm() bool {
	return len(n.Children) == 0
}

// Copy returns a deep copy of the node and its descendants.
func (n *Node) Copy() *Node {
	c := &Node{
		Name:   n.Name,
		Length: n.Length,
	}
	if n.Children == nil {
		return c
	}
	c.Children = make([]*Node, 0, len(n.Children))
	for _, d := range n.Children {
		c.Children = append(c.Children, d.Copy())
	}
	return c
}

// Nodes returns the node and all its descendants
// in pre-order
// (a parent is always before any of its descendants).
func (n *Node) Nodes() []*Node {
	ns := []*Node{n}
	for _, d := range n.Children {
		ns = append(ns, d.Nodes()...)
	}
	return ns
}

// Terms returns the names of the terminals
// that descend from the node,
// in traversal order.
func (n *Node) Terms() []string {
	if n.IsTerm() {
		return []string{n.Name}
	}

	var terms []string
	for _, d := range n.Children {
		terms = append(terms, d.Terms()...)
	}
	return terms
}

// Validate returns ErrInvalidHierarchy
// if the tree rooted at n
// cannot be laid out:
// a terminal without a name,
// two terminals with the same name,
// or less than two terminals.
func (n *Node) Validate() error {
	terms := n.Terms()
	if len(terms) < 2 {
		return fmt.Errorf("%w: tree with %d terminals", ErrInvalidHierarchy, len(terms))
	}

	seen := make(map[string]bool, len(terms))
	for _, t := range terms {
		if t == "" {
			return fmt.Errorf("%w: unnamed terminal", ErrInvalidHierarchy)
		}
		if seen[t] {
			return fmt.Errorf("%w: repeated terminal %q", ErrInvalidHierarchy, t)
		}
		seen[t] = true
	}
	return nil
}

// jsonNode is the JSON representation of a node
// in a movie payload:
//
//	{ "name": "taxon", "length": 0.01, "children": [ ... ] }
//
// The length field is tolerated as a number,
// a numeric string,
// or an empty string
// (in which case DefBranchLength is used).
type jsonNode struct {
	Name     string          `json:"name"`
	Length   json.RawMessage `json:"length"`
	Children []*Node         `json:"children"`
}

// UnmarshalJSON implements the json.Unmarshaler interface.
func (n *Node) UnmarshalJSON(data []byte) error {
	var jn jsonNode
	if err := json.Unmarshal(data, &jn); err != nil {
		return err
	}

	ln, err := parseLength(jn.Length)
	if err != nil {
		return err
	}

	n.Name = jn.Name
	n.Length = ln
	n.Children = jn.Children
	return nil
}

func parseLength(raw json.RawMessage) (float64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return DefBranchLength, nil
	}

	var v float64
	if err := json.Unmarshal(raw, &v); err == nil {
		return v, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, fmt.Errorf("invalid branch length %s", raw)
	}
	if s == "" {
		return DefBranchLength, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid branch length %q: %v", s, err)
	}
	return v, nil
}

// MarshalJSON implements the json.Marshaler interface.
func (n *Node) MarshalJSON() ([]byte, error) {
	type out struct {
		Name     string  `json:"name"`
		Length   float64 `json:"length"`
		Children []*Node `json:"children,omitempty"`
	}
	return json.Marshal(out{
		Name:     n.Name,
		Length:   n.Length,
		Children: n.Children,
	})
}

// SortedTerms returns the sorted names of the terminals
// that descend from the node.
func (n *Node) SortedTerms() []string {
	terms := n.Terms()
	slices.Sort(terms)
	return terms
}
