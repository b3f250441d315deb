package batchlog

import (
	"encoding/json"
	"path/filepath"
	"strings"

	"github.com/ecrum19/fed-sparql-survey-expts/logtext"
	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

const errorMarker = "Error executing command for"

// ParseCLIOutput parses the raw output log of the engine CLI, the variant
// that carries its success payloads and error text inline rather than in
// auxiliary per-query logs. Sections with neither an Output block nor an
// error line are skipped.
func ParseCLIOutput(text string) []model.QueryRecord {
	text = strings.TrimSpace(strings.ReplaceAll(text, "\r\n", "\n"))

	var records []model.QueryRecord
	for _, section := range splitSections(text) {
		record, ok := parseCLISection(section)
		if ok {
			records = append(records, record)
		}
	}
	return records
}

func parseCLISection(section string) (model.QueryRecord, bool) {
	record := model.QueryRecord{Name: "Unknown", Error: model.ErrorNone}
	if m := queryFileRE.FindStringSubmatch(section); m != nil {
		record.Name = filepath.Base(m[1])
	}

	lines := strings.Split(section, "\n")
	for i := 1; i < len(lines); i++ {
		line := strings.TrimSpace(lines[i])

		if strings.HasPrefix(line, "Output:") {
			var jsonContent strings.Builder
			for i++; i < len(lines); i++ {
				next := strings.TrimSpace(lines[i])
				if strings.HasPrefix(next, errorMarker) {
					break
				}
				jsonContent.WriteString(next)
			}
			var payload resultPayload
			if err := json.Unmarshal([]byte(jsonContent.String()), &payload); err != nil || payload.Results.Bindings == nil {
				record.Error = model.ErrorOther
				record.ErrorDetail = "malformed output"
				return record, true
			}
			record.ProducedResults = true
			record.ResultCount = len(*payload.Results.Bindings)
			record.HTTPRequests = payload.Metadata.HTTPRequests
			return record, true
		}

		if strings.HasPrefix(line, errorMarker) {
			var block strings.Builder
			for ; i < len(lines); i++ {
				next := strings.TrimSpace(lines[i])
				if strings.HasPrefix(next, "Output:") {
					break
				}
				// Engine WARN chatter is not part of the error
				if strings.HasPrefix(next, "WARN") {
					continue
				}
				block.WriteString(lines[i] + "\n")
			}
			if category, ok := Classify(block.String()); ok {
				record.Error = category
			} else {
				record.Error = model.ErrorOther
				record.ErrorDetail = logtext.LastLine(block.String())
			}
			return record, true
		}
	}
	return record, false
}
