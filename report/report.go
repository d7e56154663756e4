// Copyright © 2025 The PhyloMovie Authors.
// All rights reserved.
// Distributed under BSD2 license that can be found in the LICENSE file.

// Package report renders an HTML report of a movie:
// interactive charts of the per-transition distances
// and the per-anchor scaling factors.
package report

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"

	"github.com/phylomovie/phylomovie/chart"
	"github.com/phylomovie/phylomovie/movie"
)

const lineWidth = 2

// Write renders the HTML report of a movie.
// Series without data are skipped.
func Write(w io.Writer, m *movie.Movie) error {
	page := components.NewPage()
	page.PageTitle = "tree movie report"

	n := 0
	for _, sr := range []chart.Series{chart.RFD, chart.WeightedRFD, chart.Scale} {
		v, err := chart.Values(sr, m)
		if err != nil {
			continue
		}
		page.AddCharts(lineChart(sr, v))
		n++
	}
	if n == 0 {
		return fmt.Errorf("movie without chart data")
	}

	if err := page.Render(w); err != nil {
		return fmt.Errorf("while rendering report: %v", err)
	}
	return nil
}

// WriteFile renders the HTML report of a movie
// to a file.
func WriteFile(name string, m *movie.Movie) error {
	f, err := os.Create(name)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := Write(f, m); err != nil {
		return fmt.Errorf("on file %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("on file %q: %v", name, err)
	}
	return nil
}

func lineChart(sr chart.Series, values []float64) *charts.Line {
	titles := map[chart.Series]string{
		chart.RFD:         "Robinson-Foulds distances",
		chart.WeightedRFD: "weighted Robinson-Foulds distances",
		chart.Scale:       "tree scale",
	}
	xLabel := "transition"
	if sr == chart.Scale {
		xLabel = "anchor tree"
	}

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: titles[sr]}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true), Trigger: "axis"}),
		charts.WithXAxisOpts(opts.XAxis{Name: xLabel}),
		charts.WithYAxisOpts(opts.YAxis{Name: titles[sr]}),
	)

	labels := make([]string, len(values))
	data := make([]opts.LineData, len(values))
	for i, v := range values {
		labels[i] = strconv.Itoa(i)
		data[i] = opts.LineData{Value: v}
	}
	line.SetXAxis(labels)
	line.AddSeries(string(sr), data,
		charts.WithLineChartOpts(opts.LineChart{Smooth: opts.Bool(false)}),
		charts.WithLineStyleOpts(opts.LineStyle{Width: lineWidth}),
	)
	return line
}
