// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package movie implements the movie payload:
// the dense sequence of anchor
// and interpolated trees,
// the per-transition distances,
// and the anchor positions
// that seed the transition index resolver.
package movie

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"github.com/phylomovie/phylomovie/tree"
)

// ErrInvalidMovie is returned when a movie payload
// breaks one of its invariants.
var ErrInvalidMovie = errors.New("invalid movie payload")

// A Metadata describes the provenance
// of a tree of the sequence:
// the interpolation phase,
// the anchor pair it belongs to,
// and its step inside the pair.
type Metadata struct {
	Phase       string `json:"phase"`
	TreePairKey string `json:"tree_pair_key"`
	StepInPair  int    `json:"step_in_pair"`
}

// Phases of a sequence tree.
const (
	// PhaseFull marks an anchor tree.
	PhaseFull = "full"

	// PhaseIntermediate marks an interpolated tree
	// between two anchors.
	PhaseIntermediate = "intermediate"
)

// A Scale is the scaling factor of an anchor tree.
type Scale struct {
	Value float64 `json:"value"`
}

// A Movie is the full movie payload.
// All arrays are aligned by sequence index
// where applicable.
type Movie struct {
	// Trees is the dense movie sequence:
	// anchor trees and the interpolated
	// intermediates between them.
	Trees []*tree.Node `json:"interpolated_trees"`

	// Metadata of each tree of the sequence.
	Metadata []Metadata `json:"tree_metadata"`

	// SortedLeaves is the conserved leaf set
	// of every tree of the sequence,
	// in sorted order.
	SortedLeaves []string `json:"sorted_leaves"`

	// RFD is the Robinson-Foulds distance
	// of each consecutive anchor pair.
	RFD []float64 `json:"robinsonFouldsDistances"`

	// WeightedRFD is the weighted Robinson-Foulds
	// distance of each consecutive anchor pair.
	WeightedRFD []float64 `json:"weightedRobinsonFouldsDistances"`

	// Scales of the anchor trees.
	Scales []Scale `json:"scaleList"`

	// FullTrees holds the sequence indices
	// of the anchor trees.
	FullTrees []int `json:"full_tree_indices"`
}

// Read reads and validates a movie payload
// in JSON from a reader.
func Read(r io.Reader) (*Movie, error) {
	m := &Movie{}
	if err := json.NewDecoder(r).Decode(m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidMovie, err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadFile reads and validates a movie payload
// from a JSON file.
func ReadFile(name string) (*Movie, error) {
	f, err := os.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	m, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("on file %q: %w", name, err)
	}
	return m, nil
}

// Len returns the number of trees
// of the movie sequence.
func (m *Movie) Len() int {
	return len(m.Trees)
}

// Anchors returns the number of anchor trees.
func (m *Movie) Anchors() int {
	return len(m.FullTrees)
}

// Validate returns ErrInvalidMovie
// if the payload breaks one of its invariants:
// every tree must be a valid hierarchy
// over the conserved leaf set,
// and the anchor indices must start at zero
// and increase strictly
// inside the sequence.
func (m *Movie) Validate() error {
	if len(m.Trees) == 0 {
		return fmt.Errorf("%w: no trees", ErrInvalidMovie)
	}
	for i, t := range m.Trees {
		if err := t.Validate(); err != nil {
			return fmt.Errorf("%w: tree %d: %v", ErrInvalidMovie, i, err)
		}
		if len(m.SortedLeaves) > 0 && !reflect.DeepEqual(t.SortedTerms(), m.SortedLeaves) {
			return fmt.Errorf("%w: tree %d: leaf set not conserved", ErrInvalidMovie, i)
		}
	}

	if len(m.FullTrees) == 0 {
		return fmt.Errorf("%w: no anchor trees", ErrInvalidMovie)
	}
	if m.FullTrees[0] != 0 {
		return fmt.Errorf("%w: first anchor at sequence index %d, want 0", ErrInvalidMovie, m.FullTrees[0])
	}
	for i := 1; i < len(m.FullTrees); i++ {
		if m.FullTrees[i] <= m.FullTrees[i-1] {
			return fmt.Errorf("%w: anchor indices not strictly increasing at %d", ErrInvalidMovie, i)
		}
	}
	if last := m.FullTrees[len(m.FullTrees)-1]; last >= len(m.Trees) {
		return fmt.Errorf("%w: anchor at sequence index %d of %d trees", ErrInvalidMovie, last, len(m.Trees))
	}
	if len(m.Trees) > 1 && len(m.FullTrees) < 2 {
		return fmt.Errorf("%w: a movie with transitions requires at least two anchors", ErrInvalidMovie)
	}

	if len(m.RFD) > 0 && len(m.RFD) != len(m.FullTrees)-1 {
		return fmt.Errorf("%w: %d distances for %d anchors", ErrInvalidMovie, len(m.RFD), len(m.FullTrees))
	}
	if len(m.WeightedRFD) > 0 && len(m.WeightedRFD) != len(m.FullTrees)-1 {
		return fmt.Errorf("%w: %d weighted distances for %d anchors", ErrInvalidMovie, len(m.WeightedRFD), len(m.FullTrees))
	}
	if len(m.Scales) > 0 && len(m.Scales) != len(m.FullTrees) {
		return fmt.Errorf("%w: %d scale values for %d anchors", ErrInvalidMovie, len(m.Scales), len(m.FullTrees))
	}
	if len(m.Metadata) > 0 {
		if len(m.Metadata) != len(m.Trees) {
			return fmt.Errorf("%w: %d metadata entries for %d trees", ErrInvalidMovie, len(m.Metadata), len(m.Trees))
		}
		anchors := make(map[int]bool, len(m.FullTrees))
		for _, s := range m.FullTrees {
			anchors[s] = true
		}
		for i, md := range m.Metadata {
			if anchors[i] && md.Phase != PhaseFull {
				return fmt.Errorf("%w: anchor tree %d with phase %q, want %q", ErrInvalidMovie, i, md.Phase, PhaseFull)
			}
			if !anchors[i] && md.Phase == PhaseFull {
				return fmt.Errorf("%w: tree %d with phase %q is not an anchor", ErrInvalidMovie, i, PhaseFull)
			}
		}
	}
	return nil
}

// Resolver returns the transition index resolver
// seeded by the anchor indices of the movie.
func (m *Movie) Resolver() (*Resolver, error) {
	return NewResolver(m.FullTrees, len(m.Trees))
}
