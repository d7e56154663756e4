// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package msa

import (
	"sync"
	"time"
)

// DefThrottle is the smallest interval
// between two region notifications.
const DefThrottle = 100 * time.Millisecond

// A Window maps anchor trees
// to alignment column regions:
// the anchor with rank a covers
// the columns [a·Step, a·Step+Size).
type Window struct {
	// Size of the region, in columns.
	Size int

	// Step between the regions
	// of consecutive anchors, in columns.
	Step int
}

// InferWindow derives the window
// of an alignment with alignLen columns
// sampled into the given number of anchor trees:
// the columns are split evenly,
// with a floor of one column.
func InferWindow(alignLen, anchors int) Window {
	w := 1
	if anchors > 0 && alignLen/anchors > 1 {
		w = alignLen / anchors
	}
	return Window{Size: w, Step: w}
}

// A Region is a column range of the alignment.
type Region struct {
	// Start column, inclusive.
	Start int `json:"startColumn"`

	// End column, exclusive.
	End int `json:"endColumn"`
}

// Region returns the column region
// of the anchor with the given rank.
func (w Window) Region(rank int) Region {
	start := rank * w.Step
	return Region{
		Start: start,
		End:   start + w.Size,
	}
}

// A Sync emits the alignment region
// of the anchor nearest
// to the displayed frame,
// at most once per throttle interval.
// Updates arriving inside the interval
// are held and delivered by Flush.
//
// A Sync is safe for concurrent use.
type Sync struct {
	mu sync.Mutex

	win      Window
	notify   func(Region)
	throttle time.Duration
	now      func() time.Time

	last    time.Time
	pending *Region
}

// NewSync creates a region synchronizer
// over a window.
// The notify function receives the regions;
// a non-positive throttle
// uses the default interval.
func NewSync(w Window, throttle time.Duration, notify func(Region)) *Sync {
	if throttle <= 0 {
		throttle = DefThrottle
	}
	return &Sync{
		win:      w,
		notify:   notify,
		throttle: throttle,
		now:      time.Now,
	}
}

// Window returns the window of the synchronizer.
func (s *Sync) Window() Window {
	return s.win
}

// Anchor reports that the anchor
// with the given rank
// is now the nearest one.
func (s *Sync) Anchor(rank int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	reg := s.win.Region(rank)
	if s.notify == nil {
		return
	}
	now := s.now()
	if !s.last.IsZero() && now.Sub(s.last) < s.throttle {
		s.pending = &reg
		return
	}
	s.last = now
	s.pending = nil
	s.notify(reg)
}

// Flush delivers a held region, if any,
// regardless of the throttle interval.
func (s *Sync) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.pending == nil || s.notify == nil {
		return
	}
	s.last = s.now()
	s.notify(*s.pending)
	s.pending = nil
}
