package cli

// This file contains the list command for enumerating recorded experiment
// runs.

import (
	"fmt"
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/experiments"
)

func (a *App) list(ctx *cli.Context) error {
	root, err := experiments.Root()
	if err != nil {
		return err
	}

	runs, err := experiments.LoadRuns(a.logger, root)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		a.logger.Info().Str("dir", root).Msg("No experiment runs recorded yet")
		return nil
	}

	// Newest first
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].ModTime.After(runs[j].ModTime)
	})
	if limit := ctx.Int("limit"); limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}

	fmt.Fprintf(os.Stdout, "%-30s | %-20s | %-10s | %-8s\n", "Experiment", "Recorded", "Log Size", "Summary")
	fmt.Fprintln(os.Stdout, divider(78))
	for _, run := range runs {
		summary := "no"
		if run.HasSummary {
			summary = "yes"
		}
		fmt.Fprintf(os.Stdout, "%-30s | %-20s | %-10s | %-8s\n",
			run.Name, run.ModTime.Format("2006-01-02 15:04:05"), formatSize(run.LogSize), summary)
	}
	return nil
}

func formatSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MiB", float64(n)/(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KiB", float64(n)/(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
