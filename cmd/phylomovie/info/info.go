// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package info implements a command to print
// the basic information of a project.
package info

import (
	"fmt"
	"io"
	"sort"

	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/movie"
	"github.com/phylomovie/phylomovie/project"
	"gonum.org/v1/gonum/stat"
)

var Command = &command.Command{
	Usage: "info <project-file>",
	Short: "print information about a project",
	Long: `
Command info reads a PhyloMovie project and prints the information of the
movie and the other project elements into the standard output.

The argument of the command is the name of the project file.
	`,
	Run: run,
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
	printMovie(c.Stdout(), p, m)

	if err := printAlignment(c.Stdout(), p, m.Anchors()); err != nil {
		return err
	}
	if err := printGroups(c.Stdout(), p, m.SortedLeaves); err != nil {
		return err
	}
	return printStyle(c.Stdout(), p)
}

func printMovie(w io.Writer, p *project.Project, m *movie.Movie) {
	fmt.Fprintf(w, "Movie:\n")
	if name := p.Path(project.Movie); name != "" {
		fmt.Fprintf(w, "\tfile: %s\n", name)
	} else {
		fmt.Fprintf(w, "\tfile: %s [from newick trees]\n", p.Path(project.Trees))
	}
	fmt.Fprintf(w, "\ttrees: %d\n", m.Len())
	fmt.Fprintf(w, "\tanchor trees: %d\n", m.Anchors())
	fmt.Fprintf(w, "\tterminals: %d\n", len(m.SortedLeaves))
	if len(m.RFD) > 0 {
		fmt.Fprintf(w, "\tRobinson-Foulds distances: %d [%s]\n", len(m.RFD), summary(m.RFD))
	}
	if len(m.WeightedRFD) > 0 {
		fmt.Fprintf(w, "\tweighted Robinson-Foulds distances: %d [%s]\n", len(m.WeightedRFD), summary(m.WeightedRFD))
	}
	if len(m.Scales) > 0 {
		fmt.Fprintf(w, "\tscaling factors: %d\n", len(m.Scales))
	}
	fmt.Fprintf(w, "\n")
}

func summary(values []float64) string {
	vs := append([]float64(nil), values...)
	sort.Float64s(vs)
	mean := stat.Mean(vs, nil)
	median := stat.Quantile(0.5, stat.Empirical, vs, nil)
	return fmt.Sprintf("mean %.3f, median %.3f", mean, median)
}

func printAlignment(w io.Writer, p *project.Project, anchors int) error {
	win, ok, err := p.AlignmentWindow(anchors)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}

	fmt.Fprintf(w, "Alignment:\n")
	fmt.Fprintf(w, "\tfile: %s\n", p.Path(project.Alignment))
	fmt.Fprintf(w, "\twindow: %d columns, step %d\n", win.Size, win.Step)
	fmt.Fprintf(w, "\n")
	return nil
}

func printGroups(w io.Writer, p *project.Project, terms []string) error {
	name := p.Path(project.Groups)
	if name == "" {
		return nil
	}

	g, err := p.Groups(terms)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "Taxa groups:\n")
	fmt.Fprintf(w, "\tfile: %s\n", name)
	fmt.Fprintf(w, "\tgroups: %d\n", len(g.Groups()))
	fmt.Fprintf(w, "\n")
	return nil
}

func printStyle(w io.Writer, p *project.Project) error {
	b, err := p.Style()
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Style:\n")
	if name := p.Path(project.Style); name != "" {
		fmt.Fprintf(w, "\tfile: %s\n", name)
	} else {
		fmt.Fprintf(w, "\tfile: [default]\n")
	}
	fmt.Fprintf(w, "\tbranch transformation: %s\n", b.BranchTransform)
	fmt.Fprintf(w, "\tanimation speed: %.2f [%v per transition]\n", b.AnimationSpeed, b.Duration())
	fmt.Fprintf(w, "\n")
	return nil
}
