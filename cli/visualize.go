package cli

// This file contains the visualize command: it renders per-query duration
// and HTTP request bar charts from one or more summary CSVs.

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/report"
)

func (a *App) visualize(ctx *cli.Context) error {
	var rows []report.SummaryRow
	for _, arg := range ctx.StringSlice("summary") {
		label, path, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("invalid --summary value %q: expected label=path", arg)
		}
		fileRows, err := report.ReadSummaryCSV(path, label)
		if err != nil {
			return err
		}
		a.logger.Info().Str("run", label).Str("summary", path).Int("rows", len(fileRows)).Msg("Loaded summary")
		rows = append(rows, fileRows...)
	}

	outDir := ctx.String("out-dir")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	parts := ctx.Int("parts")

	if err := report.RenderQueryBars(rows, report.MetricDuration, report.ChartOptions{
		Parts:        parts,
		MaxValue:     ctx.Float64("max-duration"),
		OutputPrefix: filepath.Join(outDir, "query_duration_plot"),
	}); err != nil {
		return err
	}
	if err := report.RenderQueryBars(rows, report.MetricHTTPRequests, report.ChartOptions{
		Parts:        parts,
		MaxValue:     ctx.Float64("max-requests"),
		OutputPrefix: filepath.Join(outDir, "http_requests_plot"),
	}); err != nil {
		return err
	}

	a.logger.Info().Str("dir", outDir).Msg("Figures written")
	return nil
}
