package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

func TestNumericKey(t *testing.T) {
	require.Equal(t, 18, numericKey("18_ns.rq"))
	require.Equal(t, 109, numericKey("109_uniprot_transporter_in_liver.rq"))
	require.Less(t, numericKey("02.rq"), numericKey("emi#examples019b.rq"))
}

func TestPrintQueryTable(t *testing.T) {
	requests := 7
	records := []model.QueryRecord{
		{Name: "18_ns.rq", ProducedResults: true, ResultCount: 12, HTTPRequests: &requests},
		{Name: "02.rq", Error: model.ErrorFetchFailed},
		{Name: "05.rq", ProducedResults: true, ResultCount: 0},
	}

	var buf bytes.Buffer
	PrintQueryTable(&buf, records)
	out := buf.String()

	require.Contains(t, out, "Query File")
	require.Contains(t, out, "18_ns.rq")
	require.Contains(t, out, "fetch failed")
	require.Contains(t, out, "Total queries: 3")
	require.Contains(t, out, "Queries with errors: 1")
	require.Contains(t, out, "Queries with no results: 1")
	require.Contains(t, out, "Queries with results: 1")

	// Numeric ordering: 02 before 05 before 18
	i02 := bytes.Index(buf.Bytes(), []byte("02.rq"))
	i05 := bytes.Index(buf.Bytes(), []byte("05.rq"))
	i18 := bytes.Index(buf.Bytes(), []byte("18_ns.rq"))
	require.Less(t, i02, i05)
	require.Less(t, i05, i18)
}

func TestShortenLabel(t *testing.T) {
	require.Equal(t, "emi#019b", shortenLabel("emi#examples019b_ns.rq", 12))
	require.Equal(t, "02.rq", shortenLabel("02.rq", 12))
	require.Equal(t, "a_very_lon...", shortenLabel("a_very_long_query_name.rq", 12))
}
