// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package reportcmd implements a command to write
// an HTML report of a movie.
package reportcmd

import (
	"fmt"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/project"
	"github.com/phylomovie/phylomovie/report"
)

var Command = &command.Command{
	Usage: "report [-o|--output <out-file>] <project-file>",
	Short: "write an HTML report of a movie",
	Long: `
Command report reads a PhyloMovie project and writes an HTML page with the
interactive charts of the movie: the Robinson-Foulds distances, the weighted
Robinson-Foulds distances, and the scaling factors, skipping the series
without data.

The argument of the command is the name of the project file.

By default, the report is written to "report.html". Use the flag -o, or
--output, to define a different file.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var outFile string

func setFlags(c *command.Command) {
	c.Flags().StringVar(&outFile, "output", "report.html", "")
	c.Flags().StringVar(&outFile, "o", "report.html", "")
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

	if err := report.WriteFile(outFile, m); err != nil {
		return err
	}
	fmt.Fprintf(c.Stdout(), "%s\n", outFile)
	return nil
}
