package analysis

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarizeGroups(t *testing.T) {
	measurements := []Measurement{
		{"english", "gap", 0.010},
		{"english", "gap", 0.014},
		{"english", "gap", 0.012},
		{"bilingual", "gap", 0.008},
		{"english", "pitch", 4.0},
	}

	summaries := Summarize(measurements)
	require.Len(t, summaries, 3)

	// Stable order: condition, then test type.
	assert.Equal(t, "bilingual", summaries[0].Condition)
	assert.Equal(t, "english", summaries[1].Condition)
	assert.Equal(t, "gap", summaries[1].TestType)
	assert.Equal(t, "pitch", summaries[2].TestType)

	englishGap := summaries[1]
	assert.Equal(t, 3, englishGap.N)
	assert.InDelta(t, 0.012, englishGap.Mean, 1e-12)
	assert.InDelta(t, 0.002, englishGap.Std, 1e-12)
	assert.InDelta(t, 0.002/math.Sqrt(3), englishGap.SEM, 1e-12)
	assert.Equal(t, 0.010, englishGap.Min)
	assert.Equal(t, 0.014, englishGap.Max)

	singleton := summaries[0]
	assert.Equal(t, 1, singleton.N)
	assert.Equal(t, 0.0, singleton.Std, "single observation has no spread")
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Empty(t, Summarize(nil))
}

func TestBilingualEffect(t *testing.T) {
	measurements := []Measurement{
		{"bilingual", "gap", 0.008},
		{"bilingual", "gap", 0.010},
		{"english", "gap", 0.012},
		{"german", "gap", 0.014},
		// Pitch has no bilingual data and must be skipped.
		{"english", "pitch", 4.0},
	}

	effects := BilingualEffect(measurements, "bilingual", []string{"english", "german"})
	require.Len(t, effects, 1)

	e := effects[0]
	assert.Equal(t, "gap", e.TestType)
	assert.InDelta(t, 0.009, e.BilingualMean, 1e-12)
	assert.InDelta(t, 0.013, e.MonolingualMean, 1e-12)
	assert.InDelta(t, -0.004, e.Difference, 1e-12)

	// Pooled population std = sqrt((1e-6 + 1e-6)/2) = 1e-3.
	assert.InDelta(t, -4.0, e.CohensD, 1e-9)
}

func TestBilingualEffectZeroSpread(t *testing.T) {
	measurements := []Measurement{
		{"bilingual", "gap", 0.01},
		{"english", "gap", 0.01},
	}

	effects := BilingualEffect(measurements, "bilingual", []string{"english"})
	require.Len(t, effects, 1)
	assert.Equal(t, 0.0, effects[0].CohensD, "zero pooled variance yields d=0")
}

func TestConvergenceSpread(t *testing.T) {
	reversals := []float64{0.08, 0.05, 0.012, 0.010, 0.011, 0.009}

	cv, err := ConvergenceSpread(reversals, 4)
	require.NoError(t, err)
	assert.Less(t, cv, 0.15, "settled tail should have small spread")

	wide, err := ConvergenceSpread(reversals, 6)
	require.NoError(t, err)
	assert.Greater(t, wide, cv, "including early reversals widens the spread")
}

func TestConvergenceSpreadErrors(t *testing.T) {
	_, err := ConvergenceSpread([]float64{1, 2, 3}, 1)
	assert.Error(t, err, "window below 2")

	_, err = ConvergenceSpread([]float64{1, 2}, 4)
	assert.Error(t, err, "not enough reversals")

	_, err = ConvergenceSpread([]float64{-1, 1}, 2)
	assert.Error(t, err, "zero mean")
}
