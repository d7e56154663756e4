// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package project

import (
	"fmt"
	"os"

	"github.com/phylomovie/phylomovie/movie"
	"github.com/phylomovie/phylomovie/msa"
	"github.com/phylomovie/phylomovie/style"
	"github.com/phylomovie/phylomovie/taxa"
	"github.com/phylomovie/phylomovie/tree"
)

// Movie reads the movie payload
// as defined in a project.
// If the project only defines a newick tree list,
// a movie of anchor trees is synthesized from it.
func (p *Project) Movie() (*movie.Movie, error) {
	name := p.Path(Movie)
	if name == "" {
		return p.movieFromTrees()
	}

	m, err := movie.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// movieFromTrees builds an anchors-only movie
// from the newick tree list of the project.
func (p *Project) movieFromTrees() (*movie.Movie, error) {
	name := p.Path(Trees)
	if name == "" {
		return nil, fmt.Errorf("movie not defined in project %q", p.name)
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	trees, err := tree.ReadNewick(f)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}

	m := &movie.Movie{
		Trees:     trees,
		FullTrees: make([]int, len(trees)),
	}
	for i := range trees {
		m.FullTrees[i] = i
	}
	if len(trees) > 0 {
		m.SortedLeaves = trees[0].SortedTerms()
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("while reading file %q: %w", name, err)
	}
	return m, nil
}

// AlignmentWindow reads the alignment
// as defined in a project
// and returns the column window
// inferred for the given number of anchor trees.
// If the project has no alignment
// ok is false.
func (p *Project) AlignmentWindow(anchors int) (w msa.Window, ok bool, err error) {
	name := p.Path(Alignment)
	if name == "" {
		return msa.Window{}, false, nil
	}

	ln, err := msa.AlignmentLengthFile(name)
	if err != nil {
		return msa.Window{}, false, err
	}
	return msa.InferWindow(ln, anchors), true, nil
}

// Groups reads the taxa grouping
// as defined in a project,
// for the given terminals.
// If the project has no grouping file
// each terminal is its own group.
func (p *Project) Groups(terms []string) (*taxa.Grouping, error) {
	name := p.Path(Groups)
	if name == "" {
		return taxa.NewTaxa(terms), nil
	}

	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := taxa.ReadCSV(f, terms)
	if err != nil {
		return nil, fmt.Errorf("while reading file %q: %v", name, err)
	}
	return g, nil
}

// Style reads the style bundle
// as defined in a project.
// If the project has no style file
// the default bundle is returned.
func (p *Project) Style() (style.Bundle, error) {
	name := p.Path(Style)
	if name == "" {
		return style.Default(), nil
	}
	return style.Read(name)
}
