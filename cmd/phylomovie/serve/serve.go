// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package serve implements a command to run
// the interactive movie viewer.
package serve

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/js-arias/command"
	"go.uber.org/zap"

	"github.com/phylomovie/phylomovie/anim"
	"github.com/phylomovie/phylomovie/layout"
	"github.com/phylomovie/phylomovie/msa"
	"github.com/phylomovie/phylomovie/project"
	"github.com/phylomovie/phylomovie/render"
	"github.com/phylomovie/phylomovie/scene"
	"github.com/phylomovie/phylomovie/taxa"
	"github.com/phylomovie/phylomovie/viewer"
)

var Command = &command.Command{
	Usage: `serve [--addr <address>]
	[--width <value>] [--height <value>]
	[--export <out-dir>] [--debug]
	<project-file>`,
	Short: "run the interactive movie viewer",
	Long: `
Command serve reads a PhyloMovie project and serves the interactive movie
viewer: a JSON API over the movie and its charts, the rendered frames as SVG
and PNG images, and a websocket for navigation commands and state updates.

The argument of the command is the name of the project file.

By default, the viewer listens on ":8080". Use the flag --addr to define a
different address.

By default, the drawing surface is 600x600 pixels. Use the flags --width and
--height to change it.

Snapshots requested through the API are written into the current directory.
Use the flag --export to define a different directory.

The flag --debug enables the debug log messages.

The server runs until interrupted.
	`,
	SetFlags: setFlags,
	Run:      run,
}

var addr string
var width float64
var height float64
var exportDir string
var debug bool

func setFlags(c *command.Command) {
	c.Flags().StringVar(&addr, "addr", ":8080", "")
	c.Flags().Float64Var(&width, "width", 600, "")
	c.Flags().Float64Var(&height, "height", 600, "")
	c.Flags().StringVar(&exportDir, "export", ".", "")
	c.Flags().BoolVar(&debug, "debug", false, "")
}

func run(c *command.Command, args []string) error {
	if len(args) < 1 {
		return c.UsageError("expecting project file")
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

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

	cache := layout.NewCache(m.Trees, width, height, st.FontSize+st.LabelOffset, st.Transform())
	sc := scene.New(width, height, log)
	set := render.NewSet(sc, taxa.NewPolicy(g), &st, log)
	ctrl := anim.NewController(cache, set, &st, nil, log)
	if err := ctrl.Render(); err != nil {
		return err
	}

	var srv *viewer.Server
	sync, err := newSync(p, m.Anchors(), func(reg msa.Region) {
		if srv != nil {
			srv.BroadcastRegion(reg)
		}
	})
	if err != nil {
		return err
	}

	srv, err = viewer.New(ctrl, m, sync, exportDir, log)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, addr)
}

func newLogger() (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// newSync builds the alignment region synchronizer
// of the project.
// A project without an alignment
// yields a nil synchronizer.
func newSync(p *project.Project, anchors int, notify func(msa.Region)) (*msa.Sync, error) {
	win, ok, err := p.AlignmentWindow(anchors)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return msa.NewSync(win, 0, notify), nil
}
