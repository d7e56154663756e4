// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package render

import (
	"time"

	"github.com/phylomovie/phylomovie/ease"
)

// A Stage is one animated step
// of a staged render:
// a set of element tweens
// advanced together
// over a shared duration
// with a shared easing function.
//
// A stage is driven by its owner
// through Advance,
// and settles at its final state
// when finished or cancelled.
// Done is the completion promise.
type Stage struct {
	duration time.Duration
	ease     ease.Func

	tweens []func(t float64)
	final  []func()

	done     chan struct{}
	finished bool
}

// NewStage creates an empty stage.
func NewStage(d time.Duration, fn ease.Func) *Stage {
	if fn == nil {
		fn = ease.Linear
	}
	return &Stage{
		duration: d,
		ease:     fn,
		done:     make(chan struct{}),
	}
}

// Empty reports whether the stage
// has no pending work.
func (st *Stage) Empty() bool {
	return len(st.tweens) == 0 && len(st.final) == 0
}

// Add appends an element tween.
// The tween receives the eased progress
// in [0, 1].
func (st *Stage) Add(tw func(t float64)) {
	st.tweens = append(st.tweens, tw)
}

// OnComplete appends a function
// run once when the stage settles.
func (st *Stage) OnComplete(fn func()) {
	st.final = append(st.final, fn)
}

// Done returns the completion promise
// of the stage.
func (st *Stage) Done() <-chan struct{} {
	return st.done
}

// Finished reports whether the stage
// has settled.
func (st *Stage) Finished() bool {
	return st.finished
}

// Advance moves the stage
// to the given elapsed time,
// applying the eased progress
// to every tween.
// It reports whether the stage settled.
func (st *Stage) Advance(elapsed time.Duration) bool {
	if st.finished {
		return true
	}

	p := 1.0
	if st.duration > 0 && elapsed < st.duration {
		p = float64(elapsed) / float64(st.duration)
	}
	for _, tw := range st.tweens {
		tw(st.ease(p))
	}
	if p < 1 {
		return false
	}
	st.settle()
	return true
}

// Finish settles the stage at its final state.
// Settling is how a cancelled stage
// leaves the scene consistent:
// every affected element
// jumps to its end position.
func (st *Stage) Finish() {
	if st.finished {
		return
	}
	for _, tw := range st.tweens {
		tw(1)
	}
	st.settle()
}

func (st *Stage) settle() {
	for _, fn := range st.final {
		fn()
	}
	st.finished = true
	close(st.done)
}
