// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package frames implements a command to draw
// the trees of a movie as SVG files.
package frames

import (
	"bufio"
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/project"
	"github.com/phylomovie/phylomovie/render"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/taxa"
)

var Command = &command.Command{
	Usage: `frames [--from <number>] [--to <number>]
	[--steps <number>]
	[--width <value>] [--height <value>]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "draw movie trees as SVG files",
	Long: `
Command frames reads a PhyloMovie project and draws the trees of the movie
sequence into SVG-encoded files, one file per tree, using the radial layout
of the viewer.

The argument of the command is the name of the project file.

By default, all the trees of the sequence will be drawn. Use the flags --from
and --to to restrict the range of sequence indices, both inclusive.

If the flag --steps is given with a value greater than one, each transition
between consecutive trees is subdivided into that number of interpolated
frames, so the output can be assembled into a smooth animation.

By default, the drawing surface is 600x600 pixels. Use the flags --width and
--height to change it.

By default, the files are named "frame-<number>.svg", with one-based numbers.
Use the flag -o, or --output, to define a different prefix.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var fromFlag int
var toFlag int
var steps int
var width float64
var height float64
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().IntVar(&fromFlag, "from", 0, "")
	c.Flags().IntVar(&toFlag, "to", -1, "")
	c.Flags().IntVar(&steps, "steps", 1, "")
	c.Flags().Float64Var(&width, "width", 600, "")
	c.Flags().Float64Var(&height, "height", 600, "")
	c.Flags().StringVar(&outPrefix, "output", "frame", "")
	c.Flags().StringVar(&outPrefix, "o", "frame", "")
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

	to := toFlag
	if to < 0 || to >= m.Len() {
		to = m.Len() - 1
	}
	if fromFlag < 0 || fromFlag > to {
		return fmt.Errorf("invalid tree range: %d-%d of %d trees", fromFlag, to, m.Len())
	}

	cache := layout.NewCache(m.Trees, width, height, st.FontSize+st.LabelOffset, st.Transform())
	sc := scene.New(width, height, nil)
	set := render.NewSet(sc, taxa.NewPolicy(g), &st, nil)

	frame := 0
	for i := fromFlag; i <= to; i++ {
		e, err := cache.Entry(i)
		if err != nil {
			return err
		}

		if steps > 1 && i < to {
			next, err := cache.Entry(i + 1)
			if err != nil {
				return err
			}
			for k := 0; k < steps; k++ {
				set.Interpolated(e, next, float64(k)/float64(steps))
				if err := writeSVG(sc, frame); err != nil {
					return err
				}
				frame++
			}
			continue
		}

		set.Instant(e)
		if err := writeSVG(sc, frame); err != nil {
			return err
		}
		frame++
	}
	return nil
}

func writeSVG(sc *scene.Scene, i int) (err error) {
	name := fmt.Sprintf("%s-%d.svg", outPrefix, i+1)
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer func() {
		e := f.Close()
		if e != nil && err == nil {
			err = e
		}
	}()

	bw := bufio.NewWriter(f)
	if err := sc.WriteSVG(bw); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("while writing file %q: %v", name, err)
	}
	return nil
}
