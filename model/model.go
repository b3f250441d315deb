package model

import "time"

// ErrorCategory is the closed set of error classifications for a query
// execution. The zero value is ErrorNone.
type ErrorCategory string

const (
	// ErrorNone marks a query that produced a structured answer.
	ErrorNone ErrorCategory = "none"
	// ErrorFetchFailed marks a failed network fetch against a data source.
	ErrorFetchFailed ErrorCategory = "fetch failed"
	// ErrorTerminated marks an engine process killed before completion.
	ErrorTerminated ErrorCategory = "terminated"
	// ErrorEngineFatal marks an engine fatal error (out of memory, stacktrace).
	ErrorEngineFatal ErrorCategory = "engine fatal"
	// ErrorHangup marks a connection closed mid-response.
	ErrorHangup ErrorCategory = "hangup"
	// ErrorGatewayTimeout marks an HTTP 504 from an upstream gateway.
	ErrorGatewayTimeout ErrorCategory = "gateway timeout"
	// ErrorUpstreamQuirk marks the known UniProt legacy-compat HTML response.
	ErrorUpstreamQuirk ErrorCategory = "upstream quirk"
	// ErrorOther marks error text that matched no known pattern; Detail
	// carries the last meaningful log line.
	ErrorOther ErrorCategory = "other"
	// ErrorUnknown marks a query with no usable diagnostic at all.
	ErrorUnknown ErrorCategory = "unknown"
)

// HTTPStatusCategory returns the parametrized category for a numeric HTTP
// status code, e.g. "http status 502".
func HTTPStatusCategory(code string) ErrorCategory {
	return ErrorCategory("http status " + code)
}

// QueryRecord is the outcome of executing one query file. It is owned by its
// parent BatchRun and never mutated after parsing.
type QueryRecord struct {
	// Query file base name (e.g. "018_ns.rq")
	Name string `json:"query_name"`
	// Data-source URLs from the execution line, deduplicated, order preserved
	Sources []string `json:"sources"`
	// Per-query start/end timestamps; nil when the section lacked them
	Start *time.Time `json:"start"`
	End   *time.Time `json:"end"`
	// Duration in seconds; nil (not zero) when either timestamp is missing
	DurationSeconds *float64 `json:"duration_seconds"`
	// HTTP requests issued, recovered from the auxiliary log; nil when unknown
	HTTPRequests *int `json:"http_requests"`
	// Whether the query completed with a structured answer (possibly empty)
	ProducedResults bool `json:"produced_results"`
	// Number of result bindings; 0 unless ProducedResults
	ResultCount int `json:"results_count"`
	// Error classification; ErrorNone iff ProducedResults
	Error ErrorCategory `json:"error"`
	// Free-text error detail (last meaningful log line for ErrorOther)
	ErrorDetail string `json:"error_detail,omitempty"`
}

// BatchRun is one execution of a batch of queries, parsed from a single
// batch log. Immutable after parsing.
type BatchRun struct {
	// Label identifying the run (derived from the log's directory name)
	Label string `json:"label"`
	// Overall run window from the log's boundary sections
	Start time.Time `json:"run_start"`
	End   time.Time `json:"run_end"`
	// End minus Start, in seconds
	DurationSeconds float64 `json:"run_duration_seconds"`
	// One record per query section, section order preserved
	Records []QueryRecord `json:"entries"`
}

// GeneralStats is the synthetic summary computed over the real records of
// one or more runs, before any synthetic row is emitted.
type GeneralStats struct {
	// Label for the summary row (run label or combined label)
	Label string `json:"label"`
	// Earliest start and latest end across all runs
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	// Sum of per-run durations (runs may be non-contiguous)
	DurationSeconds float64 `json:"duration_seconds"`
	// Queries that produced a structured answer
	ProducedResults int `json:"produced_results"`
	// Queries with a positive result count
	WithResults int `json:"results_count"`
	// Queries that failed
	Errors int `json:"error"`
}

// OverallSummary aggregates one or more BatchRuns. Entries holds the
// synthetic general record at index 0 followed by every real record in batch
// order; General keeps the aggregate counts so consumers never recount over
// the full list.
type OverallSummary struct {
	General GeneralStats  `json:"general_stats"`
	Entries []QueryRecord `json:"entries"`
}

// RealRecords returns the entries without the synthetic row.
func (s *OverallSummary) RealRecords() []QueryRecord {
	if len(s.Entries) == 0 {
		return nil
	}
	return s.Entries[1:]
}
