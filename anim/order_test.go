// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

package anim

import (
	"reflect"
	"testing"

	"github.com/phylomovie/phylomovie/delta"
	"github.com/phylomovie/phylomovie/render"
)

func TestStageOrder(t *testing.T) {
	tests := map[string]struct {
		exit, enter, update bool
		want                []render.Phase
	}{
		"three way change": {
			exit: true, enter: true, update: true,
			want: []render.Phase{render.Exit, render.Enter, render.Update},
		},
		"only shrinks": {
			exit: true, update: true,
			want: []render.Phase{render.Update, render.Exit},
		},
		"only grows": {
			enter: true, update: true,
			want: []render.Phase{render.Enter, render.Update},
		},
		"only moves": {
			update: true,
			want:   []render.Phase{render.Update},
		},
		"exit and enter": {
			exit: true, enter: true,
			want: []render.Phase{render.Exit, render.Enter},
		},
		"no change": {
			want: []render.Phase{render.Update},
		},
	}
	for name, test := range tests {
		d := &delta.Diff{}
		if test.exit {
			d.Links.Exit = []delta.LinkOp{{Key: "x"}}
		}
		if test.enter {
			d.Terms.Enter = []delta.NodeOp{{Key: "e"}}
		}
		if test.update {
			d.Nodes.Update = []delta.NodeOp{{Key: "u"}}
		}
		if got := stageOrder(d); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: got %v, want %v", name, got, test.want)
		}
	}
}
