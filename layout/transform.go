// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package layout

import (
	"fmt"
	"math"

	"github.com/phylomovie/phylomovie/tree"
)

// A Transform is a branch length transformation
// applied to a tree before the radial layout.
type Transform string

// Valid branch length transformations.
const (
	// Use branch lengths as given.
	None Transform = "none"

	// Ignore branch lengths
	// (every branch has unit length).
	Unit Transform = "unit"

	// Square root of each branch length.
	SquareRoot Transform = "sqrt"

	// Log(1+x) of each branch length.
	Log Transform = "log1p"

	// Branch lengths divided
	// by the maximum branch length of the tree.
	Normalized Transform = "normalized"
)

// ParseTransform returns the transformation
// for a string value.
func ParseTransform(s string) (Transform, error) {
	switch t := Transform(s); t {
	case None, Unit, SquareRoot, Log, Normalized:
		return t, nil
	case "":
		return None, nil
	}
	return "", fmt.Errorf("unknown branch transformation %q", s)
}

// apply returns a deep copy of the tree
// with the transformation applied
// to every branch length.
func (tr Transform) apply(n *tree.Node) *tree.Node {
	c := n.Copy()
	if tr == None || tr == "" {
		return c
	}

	maxLen := 0.0
	if tr == Normalized {
		for _, d := range c.Nodes() {
			if d.Length > maxLen {
				maxLen = d.Length
			}
		}
	}

	for _, d := range c.Nodes() {
		switch tr {
		case Unit:
			d.Length = 1
		case SquareRoot:
			d.Length = math.Sqrt(d.Length)
		case Log:
			d.Length = math.Log1p(d.Length)
		case Normalized:
			if maxLen > 0 {
				d.Length = d.Length / maxLen
			}
		}
	}
	return c
}
