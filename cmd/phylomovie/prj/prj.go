// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package prj implements a command to set
// the datasets of a project.
package prj

import (
	"fmt"
	"os"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/project"
)

var Command = &command.Command{
	Usage: `prj [--movie <file>] [--trees <file>]
	[--msa <file>] [--groups <file>] [--style <file>]
	<project-file>`,
	Short: "set the datasets of a project",
	Long: `
Command prj sets the datasets of a PhyloMovie project, creating the project
file if it does not exist. Without flags it prints the datasets currently
defined in the project.

The argument of the command is the name of the project file.

The flag --movie sets the movie payload, a JSON file with the interpolated
tree sequence. The flag --trees sets a newick tree list, used to synthesize
an anchors-only movie when no payload is defined.

The flag --msa sets a multiple sequence alignment, in FASTA, PHYLIP, or
CLUSTAL format. The flag --groups sets a CSV file with the taxa grouping
used for coloring. The flag --style sets a TOML file with the style values.

An empty value ("") removes the dataset from the project.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var setPaths = map[project.Dataset]*string{
	project.Movie:     new(string),
	project.Trees:     new(string),
	project.Alignment: new(string),
	project.Groups:    new(string),
	project.Style:     new(string),
}

func setFlags(c *command.Command) {
	c.Flags().StringVar(setPaths[project.Movie], "movie", "-", "")
	c.Flags().StringVar(setPaths[project.Trees], "trees", "-", "")
	c.Flags().StringVar(setPaths[project.Alignment], "msa", "-", "")
	c.Flags().StringVar(setPaths[project.Groups], "groups", "-", "")
	c.Flags().StringVar(setPaths[project.Style], "style", "-", "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}
	name := args[0]

	p, err := project.Read(name)
	if err != nil {
		if !os.IsNotExist(err) {
			return err
		}
		p = project.New()
		p.SetName(name)
	}

	changed := false
	for set, path := range setPaths {
		if *path == "-" {
			continue
		}
		p.Add(set, *path)
		changed = true
	}
	if changed {
		if err := p.Write(); err != nil {
			return err
		}
	}

	for _, set := range p.Sets() {
		fmt.Fprintf(c.Stdout(), "%s\t%s\n", set, p.Path(set))
	}
	return nil
}
