// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package style implements the style bundle
// shared by all renderers:
// font size,
// stroke widths,
// terminal extensions,
// branch length transformation,
// and animation speed.
package style

import (
	"errors"
	"fmt"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/phylomovie/phylomovie/layout"
)

// ErrOutOfRange is returned when a style value
// is outside its valid range.
var ErrOutOfRange = errors.New("style value out of range")

// Animation duration bounds.
const (
	// BaseDuration is the duration of a full
	// navigation animation at speed 1.
	BaseDuration = 1000 * time.Millisecond

	// MinDuration is the smallest duration
	// of a navigation animation,
	// regardless of the speed.
	MinDuration = 200 * time.Millisecond
)

// A Bundle holds the style values
// used by the renderers
// and the animation controller.
type Bundle struct {
	// FontSize of the terminal labels,
	// in pixels.
	FontSize float64 `toml:"font_size"`

	// StrokeWidth of the branches,
	// in pixels.
	StrokeWidth float64 `toml:"stroke_width"`

	// ExtensionStrokeWidth of the dashed segments
	// that extend terminals
	// to the label circle.
	ExtensionStrokeWidth float64 `toml:"extension_stroke_width"`

	// NodeRadius of the node circles,
	// in pixels.
	NodeRadius float64 `toml:"node_radius"`

	// LabelOffset is the gap
	// between the label circle
	// and the labels.
	LabelOffset float64 `toml:"label_offset"`

	// ShowExtensions enables the terminal extensions.
	ShowExtensions bool `toml:"show_extensions"`

	// BranchTransform is the branch length
	// transformation of the layout.
	BranchTransform string `toml:"branch_transformation"`

	// AnimationSpeed is the speed factor
	// of the navigation animations.
	AnimationSpeed float64 `toml:"animation_speed"`
}

// Default returns the default style bundle.
func Default() Bundle {
	return Bundle{
		FontSize:             12,
		StrokeWidth:          2,
		ExtensionStrokeWidth: 1,
		NodeRadius:           3,
		LabelOffset:          10,
		ShowExtensions:       true,
		BranchTransform:      string(layout.None),
		AnimationSpeed:       1,
	}
}

// Validate returns ErrOutOfRange
// if any style value is invalid.
func (b Bundle) Validate() error {
	if b.FontSize <= 0 {
		return fmt.Errorf("%w: font size %.2f", ErrOutOfRange, b.FontSize)
	}
	if b.StrokeWidth <= 0 {
		return fmt.Errorf("%w: stroke width %.2f", ErrOutOfRange, b.StrokeWidth)
	}
	if b.ExtensionStrokeWidth <= 0 {
		return fmt.Errorf("%w: extension stroke width %.2f", ErrOutOfRange, b.ExtensionStrokeWidth)
	}
	if b.NodeRadius <= 0 {
		return fmt.Errorf("%w: node radius %.2f", ErrOutOfRange, b.NodeRadius)
	}
	if b.AnimationSpeed <= 0 {
		return fmt.Errorf("%w: animation speed %.2f", ErrOutOfRange, b.AnimationSpeed)
	}
	if _, err := layout.ParseTransform(b.BranchTransform); err != nil {
		return fmt.Errorf("%w: %v", ErrOutOfRange, err)
	}
	return nil
}

// Transform returns the branch length transformation
// of the bundle.
func (b Bundle) Transform() layout.Transform {
	tr, err := layout.ParseTransform(b.BranchTransform)
	if err != nil {
		return layout.None
	}
	return tr
}

// Duration returns the total duration
// of a navigation animation:
// the base duration divided by the speed,
// but never below the minimum.
func (b Bundle) Duration() time.Duration {
	d := time.Duration(float64(BaseDuration) / b.AnimationSpeed)
	if d < MinDuration {
		return MinDuration
	}
	return d
}

// Read reads a style bundle from a TOML file.
// Missing values keep their defaults.
func Read(name string) (Bundle, error) {
	b := Default()
	if _, err := toml.DecodeFile(name, &b); err != nil {
		return Bundle{}, fmt.Errorf("on file %q: %v", name, err)
	}
	if err := b.Validate(); err != nil {
		return Bundle{}, fmt.Errorf("on file %q: %w", name, err)
	}
	return b, nil
}
