// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package snapshot implements a command to export
// a movie tree as a PNG image.
package snapshot

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/export"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/project"
	"github.com/phylomovie/phylomovie/render"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/taxa"
)

var Command = &command.Command{
	Usage: `snapshot [--tree <number>]
	[--width <value>] [--height <value>]
	[-o|--output <out-dir>]
	<project-file>`,
	Short: "export a movie tree as a PNG image",
	Long: `
Command snapshot reads a PhyloMovie project, renders a tree of the movie
sequence, and exports it as a PNG image on a white background.

The argument of the command is the name of the project file.

By default, the first tree of the sequence is exported. Use the flag --tree
to pick a different sequence index, zero-based.

By default, the drawing surface is 600x600 pixels. Use the flags --width and
--height to change it.

The image is written into the current directory, named after the one-based
position of the tree. Use the flag -o, or --output, to define a different
directory.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var treeFlag int
var width float64
var height float64
var outDir string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&treeFlag, "tree", 0, "")
	c.Flags().Float64Var(&width, "width", 600, "")
	c.Flags().Float64Var(&height, "height", 600, "")
	c.Flags().StringVar(&outDir, "output", ".", "")
	c.Flags().StringVar(&outDir, "o", ".", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	p, err := project.Read(args[0])
	if err != nil {
		return err
	}
	m, err := p.Movie()
	if err != nil {
		return err
	}
	g, err := p.Groups(m.SortedLeaves)
	if err != nil {
		return err
	}
	st, err := p.Style()
	if err != nil {
		return err
	}

	if treeFlag < 0 || treeFlag >= m.Len() {
		return fmt.Errorf("invalid tree %d of %d trees", treeFlag, m.Len())
	}

	cache := layout.NewCache(m.Trees, width, height, st.FontSize+st.LabelOffset, st.Transform())
	sc := scene.New(width, height, nil)
	set := render.NewSet(sc, taxa.NewPolicy(g), &st, nil)

	e, err := cache.Entry(treeFlag)
	if err != nil {
		return err
	}
	set.Instant(e)

	name, err := export.Snapshot(outDir, treeFlag, sc)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "%s\n", name)
	return nil
}
