package batchlog

import (
	"github.com/ecrum19/fed-sparql-survey-expts/model"
)

// Aggregate folds an ordered sequence of BatchRuns into one OverallSummary.
//
// The earliest start and latest end are found by full scan rather than by
// assuming input order, and the total duration is the sum of each run's own
// duration: runs may be non-contiguous, so latest minus earliest would
// overstate it. All aggregate counts are computed from the real records
// before the synthetic general record is prepended, and are kept in
// General so nothing ever recounts over the emitted list.
func Aggregate(runs []model.BatchRun, label string) model.OverallSummary {
	general := model.GeneralStats{Label: label}

	var records []model.QueryRecord
	for i, run := range runs {
		if i == 0 || run.Start.Before(general.Start) {
			general.Start = run.Start
		}
		if i == 0 || run.End.After(general.End) {
			general.End = run.End
		}
		general.DurationSeconds += run.DurationSeconds
		records = append(records, run.Records...)
	}

	for _, r := range records {
		if r.ProducedResults {
			general.ProducedResults++
			if r.ResultCount > 0 {
				general.WithResults++
			}
		} else {
			general.Errors++
		}
	}

	entries := make([]model.QueryRecord, 0, len(records)+1)
	entries = append(entries, syntheticRecord(general))
	entries = append(entries, records...)

	return model.OverallSummary{General: general, Entries: entries}
}

// syntheticRecord renders the general stats as the summary row prepended to
// the entries list. The aggregate counts stay in GeneralStats; emitters
// render them into the count columns of this row.
func syntheticRecord(general model.GeneralStats) model.QueryRecord {
	start := general.Start
	end := general.End
	duration := general.DurationSeconds
	return model.QueryRecord{
		Name:            general.Label,
		Start:           &start,
		End:             &end,
		DurationSeconds: &duration,
		Error:           model.ErrorNone,
	}
}
