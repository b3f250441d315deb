// Package report renders aggregated query records as CSV, JSON, plain-text
// tables and bar charts.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

// timestampLayout matches the engine's local ISO timestamps, fractional
// seconds trimmed when zero.
const timestampLayout = "2006-01-02T15:04:05.999999"

var csvHeader = []string{
	"query_name", "sources", "start", "end", "duration_seconds",
	"http_requests", "produced_results", "results_count", "error",
}

// WriteCSV writes one row per record in insertion order. The first row
// after the header is the synthetic summary row, rendered from the
// aggregate counts: its produced_results, results_count and error columns
// hold counts rather than per-query values.
func WriteCSV(w io.Writer, summary model.OverallSummary) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	g := summary.General
	generalRow := []string{
		g.Label,
		"None",
		g.Start.Format(timestampLayout),
		g.End.Format(timestampLayout),
		formatFloat(g.DurationSeconds),
		"",
		strconv.Itoa(g.ProducedResults),
		strconv.Itoa(g.WithResults),
		strconv.Itoa(g.Errors),
	}
	if err := cw.Write(generalRow); err != nil {
		return err
	}

	for _, r := range summary.RealRecords() {
		if err := cw.Write(recordRow(r)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func recordRow(r model.QueryRecord) []string {
	return []string{
		r.Name,
		strings.Join(r.Sources, " "),
		formatTime(r.Start),
		formatTime(r.End),
		formatOptFloat(r.DurationSeconds),
		formatOptInt(r.HTTPRequests),
		strconv.FormatBool(r.ProducedResults),
		strconv.Itoa(r.ResultCount),
		errorCell(r),
	}
}

// errorCell renders the error column: "None" for successful queries, the
// last meaningful log line for unmatched errors, the category otherwise.
func errorCell(r model.QueryRecord) string {
	if r.ProducedResults {
		return "None"
	}
	if r.Error == model.ErrorOther && r.ErrorDetail != "" {
		return r.ErrorDetail
	}
	return string(r.Error)
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "None"
	}
	return t.Format(timestampLayout)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatOptFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatOptInt(n *int) string {
	if n == nil {
		return ""
	}
	return strconv.Itoa(*n)
}

// SummaryRow is one parsed row of a summary CSV, tagged with the run label
// it came from when several summaries are combined for visualization.
type SummaryRow struct {
	Run             string
	Name            string
	DurationSeconds *float64
	HTTPRequests    *int
	ProducedResults bool
}

// ReadSummaryCSV loads the real records of a summary CSV (the synthetic
// summary row at index 0 is skipped, as are rows with malformed numbers).
func ReadSummaryCSV(path, runLabel string) ([]SummaryRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open summary: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse summary %s: %w", path, err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	cols := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		cols[name] = i
	}
	field := func(row []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(row) {
			return ""
		}
		return row[i]
	}

	var rows []SummaryRow
	// records[1] is the synthetic summary row
	for _, row := range records[2:] {
		sr := SummaryRow{
			Run:  runLabel,
			Name: field(row, "query_name"),
		}
		if v, err := strconv.ParseFloat(field(row, "duration_seconds"), 64); err == nil {
			sr.DurationSeconds = &v
		}
		if v, err := strconv.Atoi(field(row, "http_requests")); err == nil {
			sr.HTTPRequests = &v
		}
		sr.ProducedResults = field(row, "produced_results") == "true"
		rows = append(rows, sr)
	}
	return rows, nil
}
