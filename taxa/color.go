// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package taxa

import (
	"image/color"

	"github.com/phylomovie/phylomovie/layout"
)

// Default policy colors.
var (
	// Neutral color for elements
	// whose descendant terminals
	// belong to different groups.
	DefNeutral = color.RGBA{R: 50, G: 50, B: 50, A: 255}

	// Highlight color for elements
	// of a marked component.
	DefHighlight = color.RGBA{R: 230, G: 30, B: 30, A: 255}
)

// A Policy resolves the color
// of any laid out element:
// a terminal takes its group color;
// an internal node or branch takes the group color
// only when all its descendant terminals
// share a group;
// and any element of a marked component
// takes the highlight color,
// overriding the group.
type Policy struct {
	grouping *Grouping

	marked map[string]bool // clade and terminal keys

	Neutral   color.RGBA
	Highlight color.RGBA
}

// NewPolicy creates a color policy
// over a taxa grouping.
func NewPolicy(g *Grouping) *Policy {
	return &Policy{
		grouping:  g,
		marked:    make(map[string]bool),
		Neutral:   DefNeutral,
		Highlight: DefHighlight,
	}
}

// Grouping returns the taxa grouping of the policy.
func (p *Policy) Grouping() *Grouping {
	return p.grouping
}

// Mark replaces the marked components.
// Each component is a set of element keys
// (terminal names and clade keys)
// describing a highlighted subtree.
func (p *Policy) Mark(components ...[]string) {
	p.marked = make(map[string]bool)
	for _, comp := range components {
		for _, k := range comp {
			p.marked[k] = true
		}
	}
}

// ClearMarks removes all marked components.
func (p *Policy) ClearMarks() {
	p.marked = make(map[string]bool)
}

// IsMarked reports whether an element key
// belongs to a marked component.
func (p *Policy) IsMarked(key string) bool {
	return p.marked[key]
}

// NodeColor resolves the color
// of a laid out node.
func (p *Policy) NodeColor(n *layout.Node) color.RGBA {
	if p.marked[n.Key] {
		return p.Highlight
	}
	if n.IsTerm() {
		c, _ := p.grouping.GroupColor(p.grouping.Group(n.Key))
		return c
	}
	return p.cladeColor(n)
}

// LinkColor resolves the color
// of a laid out branch,
// from its child endpoint.
func (p *Policy) LinkColor(l layout.Link) color.RGBA {
	return p.NodeColor(l.Target)
}

// cladeColor returns the shared group color
// of an internal node,
// or the neutral color
// when its terminals span several groups.
func (p *Policy) cladeColor(n *layout.Node) color.RGBA {
	terms := n.Terms()
	if len(terms) == 0 {
		return p.Neutral
	}

	group := p.grouping.Group(terms[0])
	for _, t := range terms[1:] {
		if p.grouping.Group(t) != group {
			return p.Neutral
		}
	}
	c, ok := p.grouping.GroupColor(group)
	if !ok {
		return p.Neutral
	}
	return c
}
