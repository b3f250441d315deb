package report

import (
	"encoding/json"
	"io"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

// WriteJSON writes the summary as {"general_stats": …, "entries": […]}.
// The entries list mirrors the CSV rows: the synthetic record sits at index
// 0 and its aggregate counts live in general_stats.
func WriteJSON(w io.Writer, summary model.OverallSummary) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(summary)
}
