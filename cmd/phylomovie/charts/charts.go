// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package charts implements a command to plot
// the distance and scale charts of a movie.
package charts

import (
	"errors"
	"fmt"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/chart"
	"github.com/phylomovie/phylomovie/project"
)

var Command = &command.Command{
	Usage: `charts [--series <series>] [--tree <number>]
	[-o|--output <out-prefix>]
	<project-file>`,
	Short: "plot the distance and scale charts of a movie",
	Long: `
Command charts reads a PhyloMovie project and plots the data series of the
movie as PNG files, one file per series.

The argument of the command is the name of the project file.

By default, all the series with data are plotted: "rfd", the Robinson-Foulds
distance per transition; "wrfd", the weighted Robinson-Foulds distance per
transition; and "scale", the scaling factor per anchor tree. Use the flag
--series to plot a single one.

If the flag --tree is given, an indicator line marks the position of that
sequence index in the chart.

By default, the files are named "chart-<series>.png". Use the flag -o, or
--output, to define a different prefix.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var seriesFlag string
var treeFlag int
var outPrefix string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&seriesFlag, "series", "", "")
	c.Flags().IntVar(&treeFlag, "tree", -1, "")
	c.Flags().StringVar(&outPrefix, "output", "chart", "")
	c.Flags().StringVar(&outPrefix, "o", "chart", "")
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

	series := []chart.Series{chart.RFD, chart.WeightedRFD, chart.Scale}
	if seriesFlag != "" {
		series = []chart.Series{chart.Series(seriesFlag)}
	}

	plotted := false
	for _, sr := range series {
		name := fmt.Sprintf("%s-%s.png", outPrefix, sr)
		if err := chart.Save(sr, m, treeFlag, name); err != nil {
			if errors.Is(err, chart.ErrNoData) && seriesFlag == "" {
				continue
			}
			return err
		}
		fmt.Fprintf(c.Stdout(), "%s\n", name)
		plotted = true
	}
	if !plotted {
		return fmt.Errorf("the movie has no chart data")
	}
	return nil
}
