// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package ease implements the easing functions
// shared by the animation stages
// and the playback loop.
package ease

import "math"

// A Func maps a linear time factor in [0, 1]
// to an eased progress in [0, 1].
// An easing function is always 0 at 0
// and 1 at 1.
type Func func(t float64) float64

// Linear keeps the time factor unchanged.
func Linear(t float64) float64 {
	return clamp(t)
}

// InOutSine is a sinusoidal ease-in-out,
// the default easing of the playback loop.
func InOutSine(t float64) float64 {
	t = clamp(t)
	return (1 - math.Cos(math.Pi*t)) / 2
}

// InOutCubic accelerates until the midpoint
// and decelerates afterwards.
func InOutCubic(t float64) float64 {
	t = clamp(t)
	if t < 0.5 {
		return 4 * t * t * t
	}
	u := 2*t - 2
	return 1 + u*u*u/2
}

func clamp(t float64) float64 {
	if t < 0 {
		return 0
	}
	if t > 1 {
		return 1
	}
	return t
}
