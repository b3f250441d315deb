package batchlog

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

func TestAggregate(t *testing.T) {
	day := func(h, m int) time.Time {
		return time.Date(2025, 5, 21, h, m, 0, 0, time.Local)
	}
	count := func(n int) model.QueryRecord {
		return model.QueryRecord{Name: "q", ProducedResults: true, ResultCount: n}
	}
	failed := model.QueryRecord{Name: "q", Error: model.ErrorFetchFailed}

	// Second run listed first: boundary discovery must not assume order
	runs := []model.BatchRun{
		{
			Label: "batch2", Start: day(14, 0), End: day(14, 0).Add(20 * time.Second),
			DurationSeconds: 20,
			Records:         []model.QueryRecord{count(3), failed},
		},
		{
			Label: "batch1", Start: day(10, 0), End: day(10, 0).Add(10 * time.Second),
			DurationSeconds: 10,
			Records:         []model.QueryRecord{count(1), count(0), failed},
		},
	}

	summary := Aggregate(runs, "combined")

	g := summary.General
	require.Equal(t, "combined", g.Label)
	require.Equal(t, day(10, 0), g.Start)
	require.Equal(t, day(14, 0).Add(20*time.Second), g.End)
	// Sum of run durations, not latest-minus-earliest
	require.InDelta(t, 30.0, g.DurationSeconds, 1e-9)
	require.Equal(t, 3, g.ProducedResults)
	require.Equal(t, 2, g.WithResults)
	require.Equal(t, 2, g.Errors)

	require.Len(t, summary.Entries, 6)
	synthetic := summary.Entries[0]
	require.Equal(t, "combined", synthetic.Name)
	require.Equal(t, g.Start, *synthetic.Start)
	require.Equal(t, g.End, *synthetic.End)
	require.InDelta(t, 30.0, *synthetic.DurationSeconds, 1e-9)
	require.Len(t, summary.RealRecords(), 5)
}

func TestAggregate_Empty(t *testing.T) {
	summary := Aggregate(nil, "empty")
	require.Equal(t, 0, summary.General.ProducedResults)
	require.Len(t, summary.Entries, 1)
	require.Empty(t, summary.RealRecords())
}
