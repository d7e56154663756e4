// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package chart implements the distance
// and scale charts of a movie,
// with an indicator marking the position
// of the displayed frame
// in chart space.
package chart

import (
	"errors"
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/phylomovie/phylomovie/movie"
)

// ErrNoData is returned when a movie
// has no values for the requested series.
var ErrNoData = errors.New("chart series without data")

// A Series identifies a chart data series.
type Series string

// Chart data series.
const (
	// RFD: Robinson-Foulds distance per transition.
	RFD Series = "rfd"

	// WeightedRFD: weighted Robinson-Foulds distance
	// per transition.
	WeightedRFD Series = "wrfd"

	// Scale: scaling factor per anchor tree.
	Scale Series = "scale"
)

// Indicator returns the chart-space index
// of a sequence index for a series:
// the distance charts use the distance index
// of the transition containing the frame,
// and the scale chart uses the index
// of the nearest anchor.
func Indicator(sr Series, r *movie.Resolver, s int) (int, error) {
	if sr == Scale {
		return r.NearestAnchor(s)
	}
	return r.SequenceToDistance(s)
}

// Values returns the data of a series.
func Values(sr Series, m *movie.Movie) ([]float64, error) {
	var v []float64
	switch sr {
	case RFD:
		v = m.RFD
	case WeightedRFD:
		v = m.WeightedRFD
	case Scale:
		v = make([]float64, 0, len(m.Scales))
		for _, s := range m.Scales {
			v = append(v, s.Value)
		}
	default:
		return nil, fmt.Errorf("%w: unknown series %q", ErrNoData, sr)
	}
	if len(v) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoData, sr)
	}
	return v, nil
}

func yLabel(sr Series) string {
	switch sr {
	case RFD:
		return "Robinson-Foulds distance"
	case WeightedRFD:
		return "weighted Robinson-Foulds distance"
	case Scale:
		return "tree scale"
	}
	return ""
}

func xLabel(sr Series) string {
	if sr == Scale {
		return "anchor tree"
	}
	return "transition"
}

// A seriesPlot is a step plot
// of the values of a series
// over their chart-space indices.
type seriesPlot struct {
	values []float64
	style  draw.LineStyle
}

// DataRange implements the plot.DataRanger interface.
func (sp *seriesPlot) DataRange() (xMin, xMax, yMin, yMax float64) {
	for _, v := range sp.values {
		if v > yMax {
			yMax = v
		}
	}
	return 0, float64(len(sp.values) - 1), 0, yMax
}

// Plot implements the plot.Plotter interface.
func (sp *seriesPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, trY := plt.Transforms(&c)

	c.SetLineStyle(sp.style)
	var p vg.Path
	for i, v := range sp.values {
		pt := vg.Point{X: trX(float64(i)), Y: trY(v)}
		if i == 0 {
			p.Move(pt)
			continue
		}
		p.Line(pt)
	}
	c.Stroke(p)
}

// An indicatorPlot is a vertical line
// at the chart-space index
// of the displayed frame.
type indicatorPlot struct {
	x     float64
	style draw.LineStyle
}

// Plot implements the plot.Plotter interface.
func (ip *indicatorPlot) Plot(c draw.Canvas, plt *plot.Plot) {
	trX, _ := plt.Transforms(&c)

	c.SetLineStyle(ip.style)
	x := trX(ip.x)
	var p vg.Path
	p.Move(vg.Point{X: x, Y: c.Min.Y})
	p.Line(vg.Point{X: x, Y: c.Max.Y})
	c.Stroke(p)
}

// New builds the chart of a series,
// with the indicator at the sequence index cur.
// A negative cur omits the indicator.
func New(sr Series, m *movie.Movie, cur int) (*plot.Plot, error) {
	v, err := Values(sr, m)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = yLabel(sr)
	p.X.Label.Text = xLabel(sr)
	p.Y.Label.Text = yLabel(sr)

	p.Add(&seriesPlot{
		values: v,
		style:  plotter.DefaultLineStyle,
	})

	if cur >= 0 {
		r, err := m.Resolver()
		if err != nil {
			return nil, err
		}
		x, err := Indicator(sr, r, cur)
		if err != nil {
			return nil, err
		}
		st := plotter.DefaultLineStyle
		st.Color = color.RGBA{R: 230, G: 30, B: 30, A: 255}
		st.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
		p.Add(&indicatorPlot{
			x:     float64(x),
			style: st,
		})
	}
	return p, nil
}

// Save writes the chart of a series
// to an image file,
// with the indicator at the sequence index cur.
func Save(sr Series, m *movie.Movie, cur int, name string) error {
	p, err := New(sr, m, cur)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, name); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}
