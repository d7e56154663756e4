// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package geom_test

import (
	"math"
	"strings"
	"testing"

	"github.com/phylomovie/phylomovie/geom"
)

const epsilon = 1e-9

func TestFromCartesian(t *testing.T) {
	tests := []struct {
		x, y   float64
		angle  float64
		radius float64
	}{
		{1, 0, 0, 1},
		{0, 1, math.Pi / 2, 1},
		{-1, 0, math.Pi, 1},
		{0, -1, -math.Pi / 2, 1},
		{3, 4, math.Atan2(4, 3), 5},
		{0, 0, 0, 0},
	}
	for _, test := range tests {
		p := geom.FromCartesian(test.x, test.y)
		if math.Abs(p.Angle-test.angle) > epsilon {
			t.Errorf("polar(%.1f, %.1f): got angle %.6f, want %.6f", test.x, test.y, p.Angle, test.angle)
		}
		if math.Abs(p.Radius-test.radius) > epsilon {
			t.Errorf("polar(%.1f, %.1f): got radius %.6f, want %.6f", test.x, test.y, p.Radius, test.radius)
		}
	}
}

func TestCartesianRoundTrip(t *testing.T) {
	for a := 0.0; a < 2*math.Pi; a += math.Pi / 7 {
		p := geom.Polar{Angle: a, Radius: 3.5}
		x, y := p.Cartesian()
		back := geom.FromCartesian(x, y)
		if math.Abs(geom.ShortestAngle(back.Angle, p.Angle)) > epsilon {
			t.Errorf("angle %.6f: got %.6f after round trip", a, back.Angle)
		}
		if math.Abs(back.Radius-p.Radius) > epsilon {
			t.Errorf("angle %.6f: got radius %.6f after round trip", a, back.Radius)
		}
	}
}

func TestShortestAngle(t *testing.T) {
	tests := []struct {
		a, b float64
		want float64
	}{
		{0, math.Pi / 2, math.Pi / 2},
		{math.Pi / 2, 0, -math.Pi / 2},
		{0, 3 * math.Pi / 2, -math.Pi / 2},
		{3 * math.Pi / 2, 0, math.Pi / 2},
		{0.1, 2*math.Pi - 0.1, -0.2},
		{0, 0, 0},
		// ties at |δ| = π choose the positive direction
		{0, math.Pi, math.Pi},
		{math.Pi, 0, math.Pi},
	}
	for _, test := range tests {
		if got := geom.ShortestAngle(test.a, test.b); math.Abs(got-test.want) > epsilon {
			t.Errorf("shortest(%.4f, %.4f): got %.6f, want %.6f", test.a, test.b, got, test.want)
		}
	}
}

func TestShortestAngleAntiSymmetric(t *testing.T) {
	for a := 0.0; a < 2*math.Pi; a += 0.37 {
		for b := 0.0; b < 2*math.Pi; b += 0.41 {
			d := geom.ShortestAngle(a, b)
			if math.Abs(math.Abs(d)-math.Pi) < epsilon {
				// both arcs have the same length
				continue
			}
			if r := geom.ShortestAngle(b, a); math.Abs(d+r) > epsilon {
				t.Errorf("shortest(%.4f, %.4f) = %.6f, reverse %.6f", a, b, d, r)
			}
		}
	}
}

func TestInterpolate(t *testing.T) {
	from := geom.Polar{Angle: 0.1, Radius: 1}
	to := geom.Polar{Angle: 2*math.Pi - 0.1, Radius: 3}

	p := geom.Interpolate(from, to, 0.5)
	// the shortest arc crosses the origin angle
	if want := 0.0; math.Abs(geom.ShortestAngle(p.Angle, want)) > epsilon {
		t.Errorf("interpolated angle: got %.6f, want %.6f", p.Angle, want)
	}
	if want := 2.0; math.Abs(p.Radius-want) > epsilon {
		t.Errorf("interpolated radius: got %.6f, want %.6f", p.Radius, want)
	}

	if p := geom.Interpolate(from, to, 0); p != from {
		t.Errorf("interpolate at 0: got %v, want %v", p, from)
	}
	end := geom.Interpolate(from, to, 1)
	if math.Abs(geom.ShortestAngle(end.Angle, to.Angle)) > epsilon || math.Abs(end.Radius-to.Radius) > epsilon {
		t.Errorf("interpolate at 1: got %v, want %v", end, to)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in, want float64
	}{
		{0, 0},
		{2 * math.Pi, 0},
		{-math.Pi / 2, 3 * math.Pi / 2},
		{5 * math.Pi, math.Pi},
	}
	for _, test := range tests {
		if got := geom.Normalize(test.in); math.Abs(got-test.want) > epsilon {
			t.Errorf("normalize(%.4f): got %.6f, want %.6f", test.in, got, test.want)
		}
	}
}

func TestArcLinePath(t *testing.T) {
	source := geom.Polar{Angle: 0, Radius: 1}
	target := geom.Polar{Angle: math.Pi / 2, Radius: 2}

	p := geom.ArcLinePath(source, target)
	if !strings.HasPrefix(p, "M1.000000,0.000000") {
		t.Errorf("path start: got %q", p)
	}
	if !strings.Contains(p, "A1.000000,1.000000 0 0,1 ") {
		t.Errorf("path arc: got %q", p)
	}
	if !strings.HasSuffix(p, "L0.000000,2.000000") {
		t.Errorf("path line: got %q", p)
	}

	// sweep in the negative direction
	p = geom.ArcLinePath(target, source)
	if !strings.Contains(p, " 0,0 ") {
		t.Errorf("negative sweep: got %q", p)
	}

	// a wide separation still takes the short way round,
	// with the large-arc flag off
	p = geom.ArcLinePath(
		geom.Polar{Angle: 0, Radius: 1},
		geom.Polar{Angle: 3 * math.Pi / 2, Radius: 2})
	if !strings.Contains(p, "A1.000000,1.000000 0 0,0 ") {
		t.Errorf("wide separation: got %q", p)
	}
}

func TestArcLinePathDegenerate(t *testing.T) {
	p := geom.Polar{Angle: 1, Radius: 2}
	if got := geom.ArcLinePath(p, p); got != "" {
		t.Errorf("identical endpoints: got %q, want empty path", got)
	}

	got := geom.ArcLinePath(geom.Polar{}, geom.Polar{Angle: 0, Radius: 2})
	if got != "M0,0L2.000000,0.000000" {
		t.Errorf("zero radius source: got %q", got)
	}

	// same angle: no arc segment
	got = geom.ArcLinePath(geom.Polar{Angle: 1, Radius: 1}, geom.Polar{Angle: 1, Radius: 2})
	if strings.Contains(got, "A") {
		t.Errorf("same angle: unexpected arc in %q", got)
	}
}

func TestExtensionPath(t *testing.T) {
	leaf := geom.Polar{Angle: 0, Radius: 2}
	got := geom.ExtensionPath(leaf, 3)
	if got != "M2.000000,0.000000L3.000000,0.000000" {
		t.Errorf("extension: got %q", got)
	}

	if got := geom.ExtensionPath(leaf, 2); got != "" {
		t.Errorf("extension at leaf radius: got %q, want empty path", got)
	}
}

func TestFlipLabel(t *testing.T) {
	tests := []struct {
		deg  float64
		want bool
	}{
		{0, false},
		{90, false},
		{91, true},
		{180, true},
		{269, true},
		{270, false},
		{359, false},
	}
	for _, test := range tests {
		a := test.deg * math.Pi / 180
		if got := geom.FlipLabel(a); got != test.want {
			t.Errorf("flip(%.0f°): got %v, want %v", test.deg, got, test.want)
		}
	}
}

func TestLabelTransform(t *testing.T) {
	got := geom.LabelTransform(math.Pi, 10)
	if !strings.HasPrefix(got, "rotate(180.000000) translate(10.000000,0)") {
		t.Errorf("transform: got %q", got)
	}
	if !strings.HasSuffix(got, "rotate(180)") {
		t.Errorf("transform flip: got %q", got)
	}

	got = geom.LabelTransform(0, 10)
	if strings.Contains(got, "rotate(180)") {
		t.Errorf("transform at 0°: unexpected flip in %q", got)
	}
}

func TestInterpolateArcPath(t *testing.T) {
	s := geom.Polar{Angle: 0, Radius: 1}
	tg := geom.Polar{Angle: math.Pi / 3, Radius: 2}

	// interpolating a path against itself is the path
	for _, tf := range []float64{0, 0.25, 0.5, 1} {
		got := geom.InterpolateArcPath(s, tg, s, tg, tf)
		if want := geom.ArcLinePath(s, tg); got != want {
			t.Errorf("self interpolation at %.2f: got %q, want %q", tf, got, want)
		}
	}
}
