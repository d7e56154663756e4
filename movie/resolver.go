// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package movie

import (
	"errors"
	"fmt"
	"sort"
)

// ErrResolverRange is returned when a resolver query
// falls outside the movie sequence.
var ErrResolverRange = errors.New("resolver index out of range")

// A Resolver maps between the three index spaces
// of a movie:
// sequence indices over the dense tree sequence,
// anchor indices over the anchor trees,
// and distance indices over the transitions
// between consecutive anchors.
//
// All queries run in O(log n)
// over the sorted anchor positions.
type Resolver struct {
	anchors []int
	seqLen  int
}

// NewResolver creates a resolver
// from the sequence indices of the anchor trees
// of a movie with seqLen trees.
func NewResolver(anchors []int, seqLen int) (*Resolver, error) {
	if len(anchors) == 0 {
		return nil, fmt.Errorf("%w: no anchors", ErrInvalidMovie)
	}
	if anchors[0] != 0 {
		return nil, fmt.Errorf("%w: first anchor at sequence index %d, want 0", ErrInvalidMovie, anchors[0])
	}
	for i := 1; i < len(anchors); i++ {
		if anchors[i] <= anchors[i-1] {
			return nil, fmt.Errorf("%w: anchor indices not strictly increasing at %d", ErrInvalidMovie, i)
		}
	}
	if last := anchors[len(anchors)-1]; last >= seqLen {
		return nil, fmt.Errorf("%w: anchor at sequence index %d of %d trees", ErrInvalidMovie, last, seqLen)
	}
	return &Resolver{
		anchors: anchors,
		seqLen:  seqLen,
	}, nil
}

// Anchors returns the number of anchors.
func (r *Resolver) Anchors() int {
	return len(r.anchors)
}

// Transitions returns the number of transitions
// between consecutive anchors.
func (r *Resolver) Transitions() int {
	return len(r.anchors) - 1
}

func (r *Resolver) checkSequence(s int) error {
	if s < 0 || s >= r.seqLen {
		return fmt.Errorf("%w: sequence index %d of %d", ErrResolverRange, s, r.seqLen)
	}
	return nil
}

// SequenceToAnchor returns the index
// of the nearest anchor
// at or before a sequence index.
func (r *Resolver) SequenceToAnchor(s int) (int, error) {
	if err := r.checkSequence(s); err != nil {
		return 0, err
	}
	return sort.SearchInts(r.anchors, s+1) - 1, nil
}

// AnchorToSequence returns the sequence index
// of an anchor.
func (r *Resolver) AnchorToSequence(a int) (int, error) {
	if a < 0 || a >= len(r.anchors) {
		return 0, fmt.Errorf("%w: anchor index %d of %d", ErrResolverRange, a, len(r.anchors))
	}
	return r.anchors[a], nil
}

// SequenceToDistance returns the distance index
// of the transition containing a sequence index:
// the anchor index of the source anchor.
// A sequence index sitting on an anchor
// belongs to the transition
// that ends at that anchor.
func (r *Resolver) SequenceToDistance(s int) (int, error) {
	if len(r.anchors) < 2 {
		return 0, fmt.Errorf("%w: the movie has no transitions", ErrResolverRange)
	}
	a, err := r.SequenceToAnchor(s)
	if err != nil {
		return 0, err
	}
	if r.anchors[a] == s && a > 0 {
		return a - 1, nil
	}
	if a >= len(r.anchors)-1 {
		return len(r.anchors) - 2, nil
	}
	return a, nil
}

// DistanceToTargetSequence returns the sequence index
// of the target anchor of a transition.
func (r *Resolver) DistanceToTargetSequence(d int) (int, error) {
	if d < 0 || d >= len(r.anchors)-1 {
		return 0, fmt.Errorf("%w: distance index %d of %d", ErrResolverRange, d, len(r.anchors)-1)
	}
	return r.anchors[d+1], nil
}

// NearestAnchor returns the index of the anchor
// closest to a sequence index,
// preferring the lower anchor on ties.
func (r *Resolver) NearestAnchor(s int) (int, error) {
	a, err := r.SequenceToAnchor(s)
	if err != nil {
		return 0, err
	}
	if a >= len(r.anchors)-1 {
		return a, nil
	}
	if s-r.anchors[a] <= r.anchors[a+1]-s {
		return a, nil
	}
	return a + 1, nil
}

// NearestAnchorSequence returns the sequence index
// of the anchor closest to a sequence index.
func (r *Resolver) NearestAnchorSequence(s int) (int, error) {
	a, err := r.NearestAnchor(s)
	if err != nil {
		return 0, err
	}
	return r.anchors[a], nil
}
