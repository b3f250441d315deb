package report

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"

	"github.com/fatih/color"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

var leadingDigitsRE = regexp.MustCompile(`^(\d+)`)

// numericKey orders query files by their leading number; names without one
// sort last.
func numericKey(name string) int {
	if m := leadingDigitsRE.FindStringSubmatch(name); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			return n
		}
	}
	return int(^uint(0) >> 1)
}

// PrintQueryTable prints the per-query status table, sorted by the numeric
// prefix of the query file name, followed by the aggregate totals.
func PrintQueryTable(w io.Writer, records []model.QueryRecord) {
	sorted := make([]model.QueryRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return numericKey(sorted[i].Name) < numericKey(sorted[j].Name)
	})

	success := color.New(color.FgGreen).SprintFunc()
	failure := color.New(color.FgRed).SprintFunc()

	fmt.Fprintf(w, "%-30s | %-10s | %-15s | %-10s | %-30s\n",
		"Query File", "Status", "HTTP Requests", "Results", "Error Code")
	fmt.Fprintln(w, divider(130))

	for _, r := range sorted {
		status := failure("error")
		results := "N/A"
		errCode := truncate(errorCell(r), 30)
		if r.ProducedResults {
			status = success("success")
			results = strconv.Itoa(r.ResultCount)
			errCode = "N/A"
		}
		fmt.Fprintf(w, "%-30s | %-10s | %-15s | %-10s | %-30s\n",
			truncate(r.Name, 30), status, formatOptInt(r.HTTPRequests), results, errCode)
	}

	fmt.Fprintln(w, divider(130))

	var withResults, noResults, errors int
	for _, r := range records {
		switch {
		case r.ProducedResults && r.ResultCount > 0:
			withResults++
		case r.ProducedResults:
			noResults++
		default:
			errors++
		}
	}
	fmt.Fprintf(w, "Total queries: %d\n", len(records))
	fmt.Fprintf(w, "Queries with errors: %d\n", errors)
	fmt.Fprintf(w, "Queries with no results: %d\n", noResults)
	fmt.Fprintf(w, "Queries with results: %d\n", withResults)
}

func divider(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
