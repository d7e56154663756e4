// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package geom implements the polar geometry
// used by the radial tree layout:
// polar-cartesian conversion,
// shortest angular paths,
// and interpolation of polar positions.
package geom

import "math"

// A Polar is a position in polar coordinates:
// an angle in radians
// and a radius from the origin.
type Polar struct {
	Angle  float64
	Radius float64
}

// Cartesian returns the cartesian coordinates
// of a polar position,
// with x = r·cos(θ) and y = r·sin(θ).
func (p Polar) Cartesian() (x, y float64) {
	return p.Radius * math.Cos(p.Angle), p.Radius * math.Sin(p.Angle)
}

// FromCartesian returns the polar position
// of a cartesian point.
// The angle is in the range [-π, π],
// and is zero for the origin.
func FromCartesian(x, y float64) Polar {
	r := math.Hypot(x, y)
	if r == 0 {
		return Polar{}
	}
	return Polar{
		Angle:  math.Atan2(y, x),
		Radius: r,
	}
}

// IsValid reports whether both polar components
// are finite numbers.
func (p Polar) IsValid() bool {
	if math.IsNaN(p.Angle) || math.IsInf(p.Angle, 0) {
		return false
	}
	if math.IsNaN(p.Radius) || math.IsInf(p.Radius, 0) {
		return false
	}
	return true
}

// Normalize returns the angle equivalent to a
// in the range [0, 2π).
func Normalize(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a < 0 {
		a += 2 * math.Pi
	}
	return a
}

// ShortestAngle returns the signed angular difference δ,
// with |δ| ≤ π,
// such that b ≡ a+δ (mod 2π).
// When both arcs have the same length
// (|δ| = π)
// the positive direction is preferred.
func ShortestAngle(a, b float64) float64 {
	d := Normalize(b - a)
	if d > math.Pi {
		return d - 2*math.Pi
	}
	return d
}

// Interpolate returns the polar position
// at time factor t
// between two positions,
// moving the angle along the shortest arc
// and the radius linearly.
// At t = 0 it returns from,
// and at t = 1 it returns to
// (modulo 2π for the angle).
func Interpolate(from, to Polar, t float64) Polar {
	return Polar{
		Angle:  from.Angle + ShortestAngle(from.Angle, to.Angle)*t,
		Radius: from.Radius + (to.Radius-from.Radius)*t,
	}
}
