// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package export writes snapshots
// of the rendering surface
// as PNG images,
// rasterizing the scene
// through its SVG form.
package export

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/phylomovie/phylomovie/scene"
)

// SnapshotName returns the file name
// of the snapshot of a sequence index.
// The name is one-based.
func SnapshotName(seq int) string {
	return fmt.Sprintf("phylo-movie-export-%d.png", seq+1)
}

// PNG rasterizes a scene
// and writes it as a PNG image
// on a white background.
func PNG(w io.Writer, sc *scene.Scene) error {
	var buf bytes.Buffer
	if err := sc.WriteSVG(&buf); err != nil {
		return err
	}
	return Raster(w, buf.Bytes(), int(sc.Width), int(sc.Height))
}

// Raster rasterizes an SVG document
// and writes it as a PNG image
// of the given dimensions
// on a white background.
func Raster(w io.Writer, svg []byte, width, height int) error {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(svg))
	if err != nil {
		return fmt.Errorf("while rasterizing scene: %v", err)
	}

	if width <= 0 || height <= 0 {
		return fmt.Errorf("while rasterizing scene: empty surface %dx%d", width, height)
	}
	icon.SetTarget(0, 0, float64(width), float64(height))

	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(width, height, dst, dst.Bounds())
	icon.Draw(rasterx.NewDasher(width, height, scanner), 1.0)

	if err := png.Encode(w, dst); err != nil {
		return fmt.Errorf("while encoding snapshot: %v", err)
	}
	return nil
}

// Write stores an already encoded PNG snapshot
// of a sequence index into a directory,
// returning the name of the written file.
func Write(dir string, seq int, data []byte) (string, error) {
	name := filepath.Join(dir, SnapshotName(seq))
	if err := os.WriteFile(name, data, 0644); err != nil {
		return "", err
	}
	return name, nil
}

// Snapshot writes the PNG snapshot
// of the scene at a sequence index
// into a directory,
// returning the name of the written file.
func Snapshot(dir string, seq int, sc *scene.Scene) (string, error) {
	name := filepath.Join(dir, SnapshotName(seq))
	f, err := os.Create(name)
	if err != nil {
		return "", err
	}
	defer f.Close()

	if err := PNG(f, sc); err != nil {
		return "", fmt.Errorf("on file %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("on file %q: %v", name, err)
	}
	return name, nil
}
