package corpus

import (
	"strings"
)

// Markers in the engine's SPARQL endpoint log.
const (
	queryMarker       = "Received query query:"
	workerMarker      = "Worker"
	datasourcesMarker = "# Datasources: "
	requestMarker     = "INFO: Requesting "
	preambleToken     = "PREFIX"
	// The Virtuoso temp-file failure that takes the Biosoda endpoint down
	crashMarker = "Virtuoso 42000 Error SR452: Error in accessing temp file"
)

// EndpointQuery is one query observed in the endpoint log: its body, the
// core clause used for corpus matching, and its HTTP request activity.
type EndpointQuery struct {
	// Query body lines, as logged
	Body []string
	// Core clause: first preamble line through the end of the body
	CoreClause string
	// Declared data sources from the query's Datasources header
	Sources []string
	// Total request lines observed while the query ran
	HTTPRequests int
	// Requests per source URL, with first-seen source order
	SourceRequests map[string]int
	SourceOrder    []string
	// Matched corpus identifier; empty when reconciliation found none
	Match string
}

// EndpointLog is the parsed endpoint log: queries in execution order, plus
// the index of the query during which the known upstream crash surfaced
// (-1 when no crash was observed).
type EndpointLog struct {
	Queries    []EndpointQuery
	CrashIndex int
}

// ParseEndpointLog splits the endpoint log on the query marker and collects
// per-query bodies, core clauses and per-source request counts.
func ParseEndpointLog(text string) *EndpointLog {
	log := &EndpointLog{CrashIndex: -1}

	var current *EndpointQuery
	inBody := false
	inPreamble := false
	foundCrash := false
	crashRecorded := false

	flush := func() {
		if current == nil {
			return
		}
		log.Queries = append(log.Queries, *current)
		if foundCrash && !crashRecorded {
			crashRecorded = true
			log.CrashIndex = len(log.Queries) - 1
		}
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t\r")
		switch {
		case strings.Contains(line, queryMarker):
			flush()
			q := EndpointQuery{SourceRequests: make(map[string]int)}
			if _, after, ok := strings.Cut(line, datasourcesMarker); ok {
				for _, src := range strings.Split(after, " ") {
					if src != "" {
						q.Sources = append(q.Sources, src)
					}
				}
			}
			current = &q
			inBody = true
			inPreamble = false
		case strings.Contains(line, workerMarker):
			inBody = false
			inPreamble = false
		case current == nil:
			continue
		case inBody:
			if strings.Contains(line, preambleToken) && !inPreamble {
				inPreamble = true
				current.CoreClause = line
			} else if inPreamble {
				current.CoreClause += "\n" + line
			}
			current.Body = append(current.Body, line)
		default:
			// HTTP phase of the current query
			if strings.Contains(line, crashMarker) {
				foundCrash = true
			}
			if _, after, ok := strings.Cut(line, requestMarker); ok {
				source, _, _ := strings.Cut(after, " ")
				if _, seen := current.SourceRequests[source]; !seen {
					current.SourceOrder = append(current.SourceOrder, source)
				}
				current.SourceRequests[source]++
				current.HTTPRequests++
			}
		}
	}
	flush()

	return log
}

// Reconcile matches every logged query against the corpus by core clause and
// stores the matched identifier on the query.
func (l *EndpointLog) Reconcile(c *Corpus) {
	for i := range l.Queries {
		l.Queries[i].Match = c.Match(l.Queries[i].CoreClause)
	}
}

// CrashCulprit walks backwards from the query that observed the crash to the
// nearest earlier query that declared endpoint among its sources, the likely
// trigger of the failure. Returns -1 when there is none.
func (l *EndpointLog) CrashCulprit(endpoint string) int {
	if l.CrashIndex < 0 {
		return -1
	}
	for i := l.CrashIndex - 1; i >= 0; i-- {
		for _, src := range l.Queries[i].Sources {
			if src == endpoint {
				return i
			}
		}
	}
	return -1
}
