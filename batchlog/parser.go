// Package batchlog parses the batch logs written by the query runner into
// structured per-query records and aggregates them across runs.
package batchlog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"github.com/ecrum19/fed-sparql-survey-expts/logtext"
	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

const (
	execMarker    = "Executing: "
	requestMarker = "INFO: Requesting"
	// Suffix appended to a query file name to locate its auxiliary log
	auxLogSuffix = ".log"
)

var (
	blankLineRE = regexp.MustCompile(`\n{2,}`)
	queryFileRE = regexp.MustCompile(`-f\s+([^\s]+)`)
	sourceURLRE = regexp.MustCompile(`https?://[^\s']+`)
	startLineRE = regexp.MustCompile(`Timestamp \(start\):\s*(` + logtext.ISOPattern + `)`)
	endLineRE   = regexp.MustCompile(`Timestamp \(end\):\s*(` + logtext.ISOPattern + `)`)
	outputRE    = regexp.MustCompile(`(?s)Output:\s*(\{.*)`)
)

// MalformedLogError reports a batch log whose top-level structure is broken:
// fewer than three blank-line-delimited sections, or boundary sections with
// no timestamp.
type MalformedLogError struct {
	Path   string
	Reason string
}

func (e *MalformedLogError) Error() string {
	if e.Path == "" {
		return "malformed batch log: " + e.Reason
	}
	return fmt.Sprintf("malformed batch log %s: %s", e.Path, e.Reason)
}

// Parser parses batch logs into BatchRuns.
type Parser struct {
	logger zerolog.Logger
}

// New creates a new parser instance.
func New(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseRun reads and parses the batch log at path. Auxiliary per-query logs
// are looked up in the log's directory, and the run label derives from that
// directory's name.
func (p *Parser) ParseRun(path string) (model.BatchRun, error) {
	text, err := logtext.ReadText(path)
	if err != nil {
		return model.BatchRun{}, fmt.Errorf("failed to read batch log: %w", err)
	}
	dir := filepath.Dir(path)
	run, err := p.Parse(text, dir, filepath.Base(dir))
	if err != nil {
		if mErr, ok := err.(*MalformedLogError); ok {
			mErr.Path = path
		}
		return model.BatchRun{}, err
	}
	return run, nil
}

// Parse parses the full text of a batch log. dir is where auxiliary
// per-query logs are looked up; label names the run.
//
// Failures inside a single query section degrade to an "unknown" record so
// one broken section cannot abort the batch; only top-level structural
// failures are returned as errors.
func (p *Parser) Parse(text, dir, label string) (model.BatchRun, error) {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	blocks := blankLineRE.Split(text, -1)
	if len(blocks) < 3 {
		return model.BatchRun{}, &MalformedLogError{Reason: fmt.Sprintf("%d sections after blank-line split, need at least 3", len(blocks))}
	}

	firstTS := logtext.FindTimestamps(blocks[0])
	lastTS := logtext.FindTimestamps(blocks[len(blocks)-1])
	if len(firstTS) == 0 || len(lastTS) == 0 {
		return model.BatchRun{}, &MalformedLogError{Reason: "no timestamp in boundary sections"}
	}
	runStart, err := logtext.ParseTimestamp(firstTS[0])
	if err != nil {
		return model.BatchRun{}, err
	}
	runEnd, err := logtext.ParseTimestamp(lastTS[len(lastTS)-1])
	if err != nil {
		return model.BatchRun{}, err
	}

	run := model.BatchRun{
		Label:           label,
		Start:           runStart,
		End:             runEnd,
		DurationSeconds: runEnd.Sub(runStart).Seconds(),
	}

	for _, section := range splitSections(text) {
		record, err := p.parseSection(section, dir)
		if err != nil {
			p.logger.Warn().Err(err).Str("query", record.Name).Msg("Failed to parse query section")
			record.ProducedResults = false
			record.ResultCount = 0
			record.Error = model.ErrorUnknown
		}
		run.Records = append(run.Records, record)
	}

	return run, nil
}

// splitSections splits the log into per-query sections, each beginning with
// the execution marker line. Text before the first marker is discarded.
func splitSections(text string) []string {
	var sections []string
	var current []string
	inSection := false
	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, execMarker) {
			if inSection {
				sections = append(sections, strings.Join(current, "\n"))
			}
			current = current[:0]
			current = append(current, line)
			inSection = true
		} else if inSection {
			current = append(current, line)
		}
	}
	if inSection {
		sections = append(sections, strings.Join(current, "\n"))
	}
	return sections
}

// resultPayload is the inline success payload emitted after "Output:".
// Bindings is a pointer so an explicitly empty list (a valid zero-result
// answer) is distinguishable from a missing field.
type resultPayload struct {
	Results struct {
		Bindings *[]json.RawMessage `json:"bindings"`
	} `json:"results"`
	Metadata struct {
		HTTPRequests *int `json:"httpRequests"`
	} `json:"metadata"`
}

func (p *Parser) parseSection(section, dir string) (model.QueryRecord, error) {
	record := model.QueryRecord{Error: model.ErrorNone}

	m := queryFileRE.FindStringSubmatch(section)
	if m == nil {
		return record, fmt.Errorf("no query file flag in section")
	}
	record.Name = filepath.Base(m[1])

	execLine, _, _ := strings.Cut(section, "\n")
	record.Sources = extractSources(execLine)

	startIdx := startLineRE.FindStringSubmatchIndex(section)
	endIdx := endLineRE.FindStringSubmatchIndex(section)

	if startIdx != nil {
		ts, err := logtext.ParseTimestamp(section[startIdx[2]:startIdx[3]])
		if err != nil {
			return record, err
		}
		record.Start = &ts
	}
	if endIdx != nil {
		ts, err := logtext.ParseTimestamp(section[endIdx[2]:endIdx[3]])
		if err != nil {
			return record, err
		}
		record.End = &ts
	}
	if record.Start != nil && record.End != nil {
		d := record.End.Sub(*record.Start).Seconds()
		record.DurationSeconds = &d
	}

	// Only the text strictly between the section's own timestamps may hold
	// the inline payload.
	mid := ""
	if startIdx != nil && endIdx != nil && startIdx[1] <= endIdx[0] {
		mid = section[startIdx[1]:endIdx[0]]
	}

	if payload, ok := decodePayload(mid); ok {
		record.ProducedResults = true
		record.ResultCount = len(*payload.Results.Bindings)
		record.HTTPRequests = payload.Metadata.HTTPRequests
	}

	auxPath := findAuxLog(dir, record.Name)

	if record.ProducedResults {
		if auxPath != "" && record.HTTPRequests == nil {
			if text, err := logtext.ReadText(auxPath); err == nil {
				n := countRequests(text)
				record.HTTPRequests = &n
			}
		}
		return record, nil
	}

	if auxPath == "" {
		record.Error = model.ErrorUnknown
		return record, nil
	}

	text, err := logtext.ReadText(auxPath)
	if err != nil {
		p.logger.Warn().Err(err).Str("path", auxPath).Msg("Failed to read auxiliary log")
		record.Error = model.ErrorUnknown
		return record, nil
	}

	n := countRequests(text)
	record.HTTPRequests = &n

	if category, ok := Classify(text); ok {
		record.Error = category
		return record, nil
	}
	last := logtext.LastLine(text)
	if last == "" || strings.Contains(last, "[") {
		record.Error = model.ErrorUnknown
		return record, nil
	}
	record.Error = model.ErrorOther
	record.ErrorDetail = last
	return record, nil
}

// decodePayload extracts and decodes the "Output: {…}" JSON block. Decode
// failures are swallowed: the section is then treated as having no payload.
func decodePayload(mid string) (resultPayload, bool) {
	var payload resultPayload
	m := outputRE.FindStringSubmatch(mid)
	if m == nil {
		return payload, false
	}
	jsonText := m[1]
	if i := strings.LastIndex(jsonText, "}"); i >= 0 {
		jsonText = jsonText[:i+1]
	}
	if err := json.Unmarshal([]byte(jsonText), &payload); err != nil {
		return resultPayload{}, false
	}
	if payload.Results.Bindings == nil {
		return resultPayload{}, false
	}
	return payload, true
}

// extractSources collects the data-source URLs appearing before the query
// file flag on the execution line, deduplicated in first-seen order.
func extractSources(execLine string) []string {
	preFlag := execLine
	if i := strings.Index(execLine, "-f"); i >= 0 {
		preFlag = execLine[:i]
	}
	seen := make(map[string]struct{})
	var sources []string
	for _, u := range sourceURLRE.FindAllString(preFlag, -1) {
		u = strings.TrimRight(u, "/")
		if _, ok := seen[u]; ok {
			continue
		}
		seen[u] = struct{}{}
		sources = append(sources, u)
	}
	return sources
}

// findAuxLog returns the path of the per-query detail log beside the batch
// log, plain first, zip-wrapped second, or "" when neither exists.
func findAuxLog(dir, queryName string) string {
	if queryName == "" {
		return ""
	}
	plain := filepath.Join(dir, queryName+auxLogSuffix)
	if fileExists(plain) {
		return plain
	}
	zipped := plain + ".zip"
	if fileExists(zipped) {
		return zipped
	}
	return ""
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// countRequests counts the lines of an auxiliary log that record an issued
// HTTP request.
func countRequests(text string) int {
	n := 0
	for _, line := range strings.Split(text, "\n") {
		if strings.Contains(line, requestMarker) {
			n++
		}
	}
	return n
}
