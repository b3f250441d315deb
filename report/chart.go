package report

import (
	"fmt"
	"os"
	"regexp"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Metric selects which record attribute a chart plots.
type Metric int

const (
	MetricDuration Metric = iota
	MetricHTTPRequests
)

func (m Metric) title() string {
	if m == MetricHTTPRequests {
		return "HTTP Requests Plot"
	}
	return "Query Execution Duration Plot"
}

// value returns the metric value of a row and whether the row carries one.
func (m Metric) value(row SummaryRow) (float64, bool) {
	switch m {
	case MetricHTTPRequests:
		if row.HTTPRequests == nil {
			return 0, false
		}
		return float64(*row.HTTPRequests), true
	default:
		if row.DurationSeconds == nil {
			return 0, false
		}
		return *row.DurationSeconds, true
	}
}

// ChartOptions controls bar-chart rendering.
type ChartOptions struct {
	// Figures to split the query set across
	Parts int
	// Y-axis cap; taller bars are capped and marked with a trailing *
	MaxValue float64
	// Output files are written as <OutputPrefix>_<n>.png
	OutputPrefix string
}

// Analogous blue-family palette, one color per run.
var runPalette = []drawing.Color{
	{R: 0x4c, G: 0x8b, B: 0xc4, A: 255},
	{R: 0x5f, G: 0xb0, B: 0xa5, A: 255},
	{R: 0x8d, G: 0x7a, B: 0xc8, A: 255},
	{R: 0x62, G: 0xc4, B: 0x6e, A: 255},
	{R: 0xc4, G: 0x9a, B: 0x4c, A: 255},
	{R: 0xc4, G: 0x5c, B: 0x7a, A: 255},
}

// RenderQueryBars renders grouped per-query bar charts, one bar per run,
// split across opts.Parts figures. Values above opts.MaxValue are capped
// and their labels marked with '*'.
func RenderQueryBars(rows []SummaryRow, metric Metric, opts ChartOptions) error {
	if opts.Parts < 1 {
		opts.Parts = 1
	}

	// Stable query and run ordering, first-seen
	var queries, runs []string
	seenQuery := make(map[string]struct{})
	seenRun := make(map[string]int)
	byQueryRun := make(map[string]map[string][]SummaryRow)
	for _, row := range rows {
		if _, ok := seenQuery[row.Name]; !ok {
			seenQuery[row.Name] = struct{}{}
			queries = append(queries, row.Name)
		}
		if _, ok := seenRun[row.Run]; !ok {
			seenRun[row.Run] = len(runs)
			runs = append(runs, row.Run)
		}
		if byQueryRun[row.Name] == nil {
			byQueryRun[row.Name] = make(map[string][]SummaryRow)
		}
		byQueryRun[row.Name][row.Run] = append(byQueryRun[row.Name][row.Run], row)
	}
	if len(queries) == 0 {
		return fmt.Errorf("no plottable rows")
	}

	batchSize := (len(queries) + opts.Parts - 1) / opts.Parts
	batchIdx := 0
	for start := 0; start < len(queries); start += batchSize {
		end := start + batchSize
		if end > len(queries) {
			end = len(queries)
		}
		batchIdx++
		if err := renderBatch(queries[start:end], runs, byQueryRun, metric, opts, batchIdx); err != nil {
			return err
		}
	}
	return nil
}

func renderBatch(queries, runs []string, byQueryRun map[string]map[string][]SummaryRow,
	metric Metric, opts ChartOptions, batchIdx int) error {

	var bars []chart.Value
	for _, q := range queries {
		first := true
		for ri, run := range runs {
			for _, row := range byQueryRun[q][run] {
				v, ok := metric.value(row)
				if !ok {
					continue
				}
				label := ""
				if first {
					label = shortenLabel(q, 12)
					first = false
				}
				if v > opts.MaxValue {
					v = opts.MaxValue
					label += "*"
				}
				bars = append(bars, chart.Value{
					Label: label,
					Value: v,
					Style: chart.Style{
						FillColor:   runPalette[ri%len(runPalette)],
						StrokeColor: drawing.ColorBlack,
						StrokeWidth: 0.6,
					},
				})
			}
		}
	}
	if len(bars) == 0 {
		return nil
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("%s - %d", metric.title(), batchIdx),
		Width:    1200,
		Height:   600,
		BarWidth: 14,
		XAxis: chart.Style{
			TextRotationDegrees: 45,
		},
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: opts.MaxValue * 1.1},
		},
		Bars: bars,
	}

	out := fmt.Sprintf("%s_%d.png", opts.OutputPrefix, batchIdx)
	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()
	if err := graph.Render(chart.PNG, f); err != nil {
		return fmt.Errorf("failed to render %s: %w", out, err)
	}
	return nil
}

var emiLabelRE = regexp.MustCompile(`emi#[^0-9]*([0-9a-zA-Z]+?)(?:_ns)?\.rq`)

// shortenLabel compresses long query file names for axis labels.
func shortenLabel(name string, limit int) string {
	if m := emiLabelRE.FindStringSubmatch(name); m != nil {
		return "emi#" + m[1]
	}
	if len(name) > limit {
		return name[:limit-2] + "..."
	}
	return name
}
