// Package record serializes trial logs and threshold summaries to the
// flat CSV form the analysis stage consumes.
package record

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/session"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/staircase"
)

// trialHeader matches the trial-level column set of the study's raw data.
var trialHeader = []string{
	"session", "test_type", "trial", "stimulus_value",
	"target_interval", "response_interval", "correct", "reversal", "timestamp",
}

// thresholdHeader matches the threshold summary column set.
var thresholdHeader = []string{
	"session", "test_type", "threshold", "threshold_unit",
	"n_trials", "n_reversals", "degraded", "timestamp",
}

// ThresholdRow pairs one session's result with its identity for the
// summary file.
type ThresholdRow struct {
	Session   string
	Result    staircase.Result
	Timestamp time.Time
}

// WriteTrials writes the trial-level log as CSV.
func WriteTrials(w io.Writer, trials []session.Trial) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(trialHeader); err != nil {
		return fmt.Errorf("record: write trial header: %w", err)
	}

	for _, t := range trials {
		row := []string{
			t.Session,
			t.TestType,
			strconv.Itoa(t.Trial),
			formatFloat(t.StimulusValue),
			strconv.Itoa(t.TargetInterval),
			strconv.Itoa(t.ResponseInterval),
			strconv.FormatBool(t.Correct),
			strconv.FormatBool(t.Reversal),
			t.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("record: write trial %d: %w", t.Trial, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteThresholds writes the per-session threshold summary as CSV.
func WriteThresholds(w io.Writer, rows []ThresholdRow) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(thresholdHeader); err != nil {
		return fmt.Errorf("record: write threshold header: %w", err)
	}

	for _, r := range rows {
		row := []string{
			r.Session,
			r.Result.TestType,
			formatFloat(r.Result.Threshold),
			r.Result.Unit,
			strconv.Itoa(r.Result.TrialCount),
			strconv.Itoa(r.Result.ReversalCount),
			strconv.FormatBool(r.Result.Degraded),
			r.Timestamp.Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("record: write threshold for %s: %w", r.Session, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
