// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// PhyloMovie is a tool to animate
// sequences of phylogenetic trees.
package main

import (
	"github.com/js-arias/command"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/charts"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/frames"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/info"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/prj"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/reportcmd"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/serve"
	"github.com/phylomovie/phylomovie/cmd/phylomovie/snapshot"
)

var app = &command.Command{
	Usage: "phylomovie <command> [<argument>...]",
	Short: "a tool to animate sequences of phylogenetic trees",
}

func init() {
	app.Add(charts.Command)
	app.Add(frames.Command)
	app.Add(info.Command)
	app.Add(prj.Command)
	app.Add(reportcmd.Command)
	app.Add(serve.Command)
	app.Add(snapshot.Command)
}

func main() {
	app.Main()
}
