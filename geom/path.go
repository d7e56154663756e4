// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package geom

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// coordEpsilon is the tolerance used to detect
// degenerate geometry
// (identical endpoints, zero-length arcs).
const coordEpsilon = 1e-9

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// ArcLinePath returns the SVG path of a radial branch
// from a source position to a target position:
// a circular arc at the source radius,
// swept from the source angle to the target angle
// along the shortest arc,
// followed by a straight line
// to the target position.
//
// Degenerate cases:
// identical endpoints produce an empty path;
// a zero source radius produces a single line
// from the origin.
func ArcLinePath(source, target Polar) string {
	delta := ShortestAngle(source.Angle, target.Angle)
	dr := target.Radius - source.Radius
	if math.Abs(delta) < coordEpsilon && math.Abs(dr) < coordEpsilon {
		return ""
	}

	tx, ty := target.Cartesian()
	if source.Radius < coordEpsilon {
		return fmt.Sprintf("M0,0L%s,%s", coord(tx), coord(ty))
	}

	sx, sy := source.Cartesian()
	var sb strings.Builder
	fmt.Fprintf(&sb, "M%s,%s", coord(sx), coord(sy))

	if math.Abs(delta) >= coordEpsilon {
		// elbow of the branch:
		// the source radius at the target angle
		ex, ey := Polar{Angle: target.Angle, Radius: source.Radius}.Cartesian()

		// the shortest arc never exceeds a half turn,
		// so the large-arc flag stays 0
		sweep := 0
		if delta > 0 {
			sweep = 1
		}
		fmt.Fprintf(&sb, "A%s,%s 0 0,%d %s,%s",
			coord(source.Radius), coord(source.Radius),
			sweep,
			coord(ex), coord(ey))
	}

	if math.Abs(dr) >= coordEpsilon {
		fmt.Fprintf(&sb, "L%s,%s", coord(tx), coord(ty))
	}
	return sb.String()
}

// ExtensionPath returns the SVG path
// of the straight segment
// from a terminal position
// outwards along its angle
// up to the given radius.
// If the radius equals the terminal radius
// the path is empty.
func ExtensionPath(leaf Polar, endRadius float64) string {
	if math.Abs(endRadius-leaf.Radius) < coordEpsilon {
		return ""
	}

	sx, sy := leaf.Cartesian()
	ex, ey := Polar{Angle: leaf.Angle, Radius: endRadius}.Cartesian()
	return fmt.Sprintf("M%s,%sL%s,%s", coord(sx), coord(sy), coord(ex), coord(ey))
}

// FlipLabel reports whether a label at the given angle
// must be rotated by 180°
// so that its text is not drawn upside-down.
// It is true for angles, in degrees,
// in the open interval (90°, 270°).
func FlipLabel(angle float64) bool {
	deg := Normalize(angle) * 180 / math.Pi
	return deg > 90 && deg < 270
}

// LabelTransform returns the SVG transform
// that places a terminal label
// at the given angle and radius:
// a rotation by the angle,
// a translation along the rotated axis,
// and a 180° counter-rotation
// when the label would be upside-down.
func LabelTransform(angle, labelRadius float64) string {
	deg := Normalize(angle) * 180 / math.Pi
	tr := fmt.Sprintf("rotate(%s) translate(%s,0)", coord(deg), coord(labelRadius))
	if FlipLabel(angle) {
		tr += " rotate(180)"
	}
	return tr
}

// InterpolateArcPath returns the radial branch path
// at time factor t
// between a from-branch and a to-branch,
// with each endpoint interpolated in polar space.
func InterpolateArcPath(fromSource, fromTarget, toSource, toTarget Polar, t float64) string {
	return ArcLinePath(
		Interpolate(fromSource, toSource, t),
		Interpolate(fromTarget, toTarget, t),
	)
}

// InterpolateExtensionPath returns the extension path
// at time factor t
// between a from-extension and a to-extension.
func InterpolateExtensionPath(from Polar, fromRadius float64, to Polar, toRadius float64, t float64) string {
	p := Interpolate(from, to, t)
	r := fromRadius + (toRadius-fromRadius)*t
	return ExtensionPath(p, r)
}
