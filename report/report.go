// Package report summarizes a compressed file's topology usage and renders
// it as a bar chart, grounded on tattlemuss-minymiser's goexp/graphs.go (the
// one place in the retrieval pack that drives github.com/wcharczuk/go-chart/v2).
package report

import (
	"fmt"
	"io"
	"sort"

	chart "github.com/wcharczuk/go-chart/v2"

	"hsf/codec"
	"hsf/topology"
)

// ClassUsage tallies how many source symbols were encoded under each shape
// class (see topology.Class), plus how many segments used it.
type ClassUsage struct {
	Class    topology.Class
	Segments int
	Symbols  int
}

// Stats is a compression report derived from a segment list.
type Stats struct {
	TotalSymbols int
	TotalBytes   int
	ByClass      []ClassUsage
}

// Ratio returns output bytes per input symbol (less than 1 means the file
// compressed the input, on average, to less than one byte per symbol).
func (s Stats) Ratio() float64 {
	if s.TotalSymbols == 0 {
		return 0
	}
	return float64(s.TotalBytes) / float64(s.TotalSymbols)
}

// Histogram tabulates segments by topology shape class. fileBytes is the
// total on-disk size of the file the segments came from (report.Stats
// doesn't recompute it, since ScanSegments already walked the payload once;
// passing it in avoids a second pass).
func Histogram(segments []codec.Segment, fileBytes int) Stats {
	usage := make(map[topology.Class]*ClassUsage)
	total := 0
	for _, seg := range segments {
		class := topology.ClassOf(seg.Topology)
		u, ok := usage[class]
		if !ok {
			u = &ClassUsage{Class: class}
			usage[class] = u
		}
		u.Segments++
		u.Symbols += seg.Len()
		total += seg.Len()
	}
	byClass := make([]ClassUsage, 0, len(usage))
	for _, u := range usage {
		byClass = append(byClass, *u)
	}
	sort.Slice(byClass, func(i, j int) bool { return byClass[i].Class < byClass[j].Class })
	return Stats{TotalSymbols: total, TotalBytes: fileBytes, ByClass: byClass}
}

// RenderPNG draws a bar chart of symbols encoded per shape class to w.
func RenderPNG(stats Stats, w io.Writer) error {
	bars := make([]chart.Value, 0, len(stats.ByClass))
	maxSymbols := 0.0
	for _, u := range stats.ByClass {
		bars = append(bars, chart.Value{
			Label: u.Class.String(),
			Value: float64(u.Symbols),
		})
		if float64(u.Symbols) > maxSymbols {
			maxSymbols = float64(u.Symbols)
		}
	}
	graph := chart.BarChart{
		Title:      fmt.Sprintf("symbols by topology class (ratio %.3f bytes/symbol)", stats.Ratio()),
		Height:     400,
		Width:      700,
		BarWidth:   60,
		YAxis:      chart.YAxis{Name: "symbols encoded", Range: &chart.ContinuousRange{Min: 0, Max: maxSymbols}},
		Bars:       bars,
	}
	if err := graph.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("report: rendering chart: %w", err)
	}
	return nil
}
