package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, sampleSummary()))

	var decoded struct {
		General struct {
			Label           string  `json:"label"`
			DurationSeconds float64 `json:"duration_seconds"`
			ProducedResults int     `json:"produced_results"`
			Errors          int     `json:"error"`
		} `json:"general_stats"`
		Entries []struct {
			Name  string `json:"query_name"`
			Error string `json:"error"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	require.Equal(t, "run1", decoded.General.Label)
	require.InDelta(t, 30.0, decoded.General.DurationSeconds, 1e-9)
	require.Equal(t, 1, decoded.General.ProducedResults)
	require.Equal(t, 1, decoded.General.Errors)

	require.Len(t, decoded.Entries, 3)
	require.Equal(t, "run1", decoded.Entries[0].Name)
	require.Equal(t, "02.rq", decoded.Entries[2].Name)
	require.Equal(t, "fetch failed", decoded.Entries[2].Error)
}
