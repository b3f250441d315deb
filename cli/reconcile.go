package cli

// This file contains the reconcile command: it matches the queries observed
// in a SPARQL endpoint log back to the canonical corpus and reports their
// HTTP request activity, plus the likely trigger of a known endpoint crash.

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/ecrum19/fed-sparql-survey-expts/corpus"
	"github.com/ecrum19/fed-sparql-survey-expts/logtext"
)

func (a *App) reconcile(ctx *cli.Context) error {
	logPath := ctx.String("sparql-endpoint")
	text, err := logtext.ReadText(logPath)
	if err != nil {
		return err
	}

	c, err := corpus.Load(ctx.String("corpus"))
	if err != nil {
		return err
	}

	endpointLog := corpus.ParseEndpointLog(text)
	endpointLog.Reconcile(c)

	matched := 0
	for _, q := range endpointLog.Queries {
		if q.Match != "" {
			matched++
		}
	}
	a.logger.Info().
		Str("log", logPath).
		Int("queries", len(endpointLog.Queries)).
		Int("matched", matched).
		Msg("Reconciled endpoint log against corpus")

	printRequestTable(endpointLog)

	crashEndpoint := ctx.String("crash-endpoint")
	if endpointLog.CrashIndex >= 0 {
		printCrashReport(endpointLog, crashEndpoint)
	}
	return nil
}

// printRequestTable lists the reconciled queries, busiest first.
func printRequestTable(l *corpus.EndpointLog) {
	order := make([]int, len(l.Queries))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return l.Queries[order[a]].HTTPRequests > l.Queries[order[b]].HTTPRequests
	})

	unmatched := color.New(color.FgYellow).SprintFunc()

	fmt.Fprintf(os.Stdout, "%-60s | %-15s | %-8s\n", "Query", "HTTP Requests", "Sources")
	fmt.Fprintln(os.Stdout, divider(90))
	for _, i := range order {
		q := l.Queries[i]
		name := q.Match
		if name == "" {
			name = unmatched(fmt.Sprintf("<unmatched query #%d>", i+1))
		}
		fmt.Fprintf(os.Stdout, "%-60s | %-15d | %-8d\n", name, q.HTTPRequests, len(q.Sources))
	}
}

// printCrashReport attributes the known upstream crash to the nearest earlier
// query that targeted the crashing endpoint, with its per-source breakdown.
func printCrashReport(l *corpus.EndpointLog, endpoint string) {
	warn := color.New(color.FgRed).SprintFunc()

	fmt.Fprintln(os.Stdout)
	fmt.Fprintf(os.Stdout, "%s during query #%d\n", warn("Endpoint crash observed"), l.CrashIndex+1)

	culprit := l.CrashCulprit(endpoint)
	if culprit < 0 {
		fmt.Fprintf(os.Stdout, "No earlier query targeted %s; cannot attribute the crash\n", endpoint)
		return
	}

	q := l.Queries[culprit]
	name := q.Match
	if name == "" {
		name = fmt.Sprintf("<unmatched query #%d>", culprit+1)
	}
	fmt.Fprintf(os.Stdout, "Likely trigger: %s (query #%d, %d requests)\n", name, culprit+1, q.HTTPRequests)
	for _, src := range q.SourceOrder {
		fmt.Fprintf(os.Stdout, "  %-60s %d\n", src, q.SourceRequests[src])
	}
}

func divider(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '-'
	}
	return string(b)
}
