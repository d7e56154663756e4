// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package taxa implements the grouping of terminals
// into colored taxa groups,
// and the color policy
// that resolves the color of any laid out element.
package taxa

import (
	"encoding/csv"
	"fmt"
	"image/color"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/js-arias/blind"
)

// A Mode indicates how terminals are assigned
// to taxa groups.
type Mode string

// Valid grouping modes.
const (
	// Each terminal is its own group.
	Taxa Mode = "taxa"

	// The group is the prefix of the terminal name
	// before a separator string.
	Separator Mode = "separator"

	// Groups are read from a CSV file.
	CSV Mode = "csv"
)

// A Grouping is an assignment of terminals
// to named groups,
// with a color per group.
type Grouping struct {
	mode   Mode
	groups map[string]string // terminal -> group
	colors map[string]color.RGBA
	names  []string // sorted group names
}

// NewTaxa creates a grouping
// in which every terminal is its own group.
func NewTaxa(terms []string) *Grouping {
	g := &Grouping{
		mode:   Taxa,
		groups: make(map[string]string, len(terms)),
	}
	for _, t := range terms {
		g.groups[t] = t
	}
	g.setDefaultColors()
	return g
}

// NewSeparator creates a grouping
// in which the group of a terminal
// is the part of its name
// before the first occurrence of sep.
func NewSeparator(terms []string, sep string) *Grouping {
	g := &Grouping{
		mode:   Separator,
		groups: make(map[string]string, len(terms)),
	}
	for _, t := range terms {
		gr := t
		if i := strings.Index(t, sep); sep != "" && i > 0 {
			gr = t[:i]
		}
		g.groups[t] = gr
	}
	g.setDefaultColors()
	return g
}

// ReadCSV creates a grouping from a CSV file
// with rows of the form
//
//	terminal,group[,color]
//
// in which color is an optional hex value
// such as "#1b9e77".
// Terminals of the movie
// that are absent from the file
// are kept as their own group.
func ReadCSV(r io.Reader, terms []string) (*Grouping, error) {
	g := &Grouping{
		mode:   CSV,
		groups: make(map[string]string, len(terms)),
		colors: make(map[string]color.RGBA),
	}
	for _, t := range terms {
		g.groups[t] = t
	}

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.Comment = '#'
	for ln := 1; ; ln++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %v", ln, err)
		}
		if len(row) < 2 {
			return nil, fmt.Errorf("row %d: expecting at least 2 fields", ln)
		}
		term := strings.TrimSpace(row[0])
		group := strings.TrimSpace(row[1])
		if term == "" || group == "" {
			continue
		}
		g.groups[term] = group

		if len(row) > 2 && strings.TrimSpace(row[2]) != "" {
			c, err := parseHexColor(strings.TrimSpace(row[2]))
			if err != nil {
				return nil, fmt.Errorf("row %d: %v", ln, err)
			}
			g.colors[group] = c
		}
	}
	g.setDefaultColors()
	return g, nil
}

// Mode returns the grouping mode.
func (g *Grouping) Mode() Mode {
	return g.mode
}

// Group returns the group of a terminal.
// An unknown terminal is its own group.
func (g *Grouping) Group(term string) string {
	if gr, ok := g.groups[term]; ok {
		return gr
	}
	return term
}

// Groups returns the sorted group names.
func (g *Grouping) Groups() []string {
	return g.names
}

// GroupColor returns the color of a group.
func (g *Grouping) GroupColor(group string) (color.RGBA, bool) {
	c, ok := g.colors[group]
	return c, ok
}

// SetGroupColor overrides the color of a group.
func (g *Grouping) SetGroupColor(group string, c color.RGBA) {
	if g.colors == nil {
		g.colors = make(map[string]color.RGBA)
	}
	g.colors[group] = c
}

// setDefaultColors assigns a color
// to every group without an explicit one,
// spreading the groups
// over a color-blind safe sequential scale.
func (g *Grouping) setDefaultColors() {
	if g.colors == nil {
		g.colors = make(map[string]color.RGBA)
	}

	seen := make(map[string]bool, len(g.groups))
	for _, gr := range g.groups {
		seen[gr] = true
	}
	g.names = make([]string, 0, len(seen))
	for gr := range seen {
		g.names = append(g.names, gr)
	}
	slices.Sort(g.names)

	div := float64(len(g.names) - 1)
	if div <= 0 {
		div = 1
	}
	for i, gr := range g.names {
		if _, ok := g.colors[gr]; ok {
			continue
		}
		r, cg, b, _ := blind.Sequential(blind.Iridescent, float64(i)/div).RGBA()
		g.colors[gr] = color.RGBA{
			R: uint8(r >> 8),
			G: uint8(cg >> 8),
			B: uint8(b >> 8),
			A: 255,
		}
	}
}

func parseHexColor(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(s, "#")
	if len(s) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %v", s, err)
	}
	return color.RGBA{
		R: uint8(v >> 16),
		G: uint8(v >> 8),
		B: uint8(v),
		A: 255,
	}, nil
}
