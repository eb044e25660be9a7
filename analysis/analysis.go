// Package analysis computes descriptive statistics over collected
// threshold measurements: per condition and test type summaries, the
// bilingual-versus-monolingual effect size, and a convergence spread
// check for single runs.
package analysis

import (
	"fmt"
	"math"
	"sort"
)

// Measurement is one threshold observation from a completed session.
type Measurement struct {
	Condition string // listening condition, e.g. "english", "bilingual"
	TestType  string // "gap" or "pitch"
	Threshold float64
}

// Summary holds descriptive statistics for one condition x test type cell.
type Summary struct {
	Condition string
	TestType  string
	N         int
	Mean      float64
	Std       float64 // sample standard deviation (n-1)
	SEM       float64
	Min       float64
	Max       float64
}

// Effect holds the Cohen's d comparison for one test type.
type Effect struct {
	TestType        string
	BilingualMean   float64
	MonolingualMean float64
	Difference      float64
	CohensD         float64
}

// Summarize groups measurements by condition and test type and computes
// descriptive statistics per group. Groups are returned in a stable order
// (condition, then test type).
func Summarize(measurements []Measurement) []Summary {
	type key struct{ condition, testType string }

	groups := make(map[key][]float64)
	for _, m := range measurements {
		k := key{m.Condition, m.TestType}
		groups[k] = append(groups[k], m.Threshold)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].condition != keys[j].condition {
			return keys[i].condition < keys[j].condition
		}
		return keys[i].testType < keys[j].testType
	})

	summaries := make([]Summary, 0, len(keys))
	for _, k := range keys {
		values := groups[k]

		mean := mean(values)
		std := sampleStd(values, mean)

		min, max := values[0], values[0]
		for _, v := range values[1:] {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}

		sem := 0.0
		if len(values) > 0 {
			sem = std / math.Sqrt(float64(len(values)))
		}

		summaries = append(summaries, Summary{
			Condition: k.condition,
			TestType:  k.testType,
			N:         len(values),
			Mean:      mean,
			Std:       std,
			SEM:       sem,
			Min:       min,
			Max:       max,
		})
	}

	return summaries
}

// BilingualEffect computes Cohen's d between the bilingual condition and
// the pooled monolingual conditions, per test type. Test types lacking
// data on either side are skipped.
func BilingualEffect(measurements []Measurement, bilingual string, monolingual []string) []Effect {
	mono := make(map[string]bool, len(monolingual))
	for _, c := range monolingual {
		mono[c] = true
	}

	byTest := make(map[string]struct{ bi, mo []float64 })
	for _, m := range measurements {
		entry := byTest[m.TestType]
		switch {
		case m.Condition == bilingual:
			entry.bi = append(entry.bi, m.Threshold)
		case mono[m.Condition]:
			entry.mo = append(entry.mo, m.Threshold)
		}
		byTest[m.TestType] = entry
	}

	testTypes := make([]string, 0, len(byTest))
	for tt := range byTest {
		testTypes = append(testTypes, tt)
	}
	sort.Strings(testTypes)

	effects := make([]Effect, 0, len(testTypes))
	for _, tt := range testTypes {
		entry := byTest[tt]
		if len(entry.bi) == 0 || len(entry.mo) == 0 {
			continue
		}

		biMean := mean(entry.bi)
		moMean := mean(entry.mo)
		diff := biMean - moMean

		pooled := math.Sqrt((populationVar(entry.bi, biMean) + populationVar(entry.mo, moMean)) / 2)
		d := 0.0
		if pooled > 0 {
			d = diff / pooled
		}

		effects = append(effects, Effect{
			TestType:        tt,
			BilingualMean:   biMean,
			MonolingualMean: moMean,
			Difference:      diff,
			CohensD:         d,
		})
	}

	return effects
}

// ConvergenceSpread returns the coefficient of variation (std/mean) of
// the last window reversal values of a run. A small spread indicates the
// staircase settled; a large one flags an unstable measurement.
func ConvergenceSpread(reversals []float64, window int) (float64, error) {
	if window < 2 {
		return 0, fmt.Errorf("analysis: convergence window must be >= 2: %d", window)
	}
	if len(reversals) < window {
		return 0, fmt.Errorf("analysis: need %d reversals, have %d", window, len(reversals))
	}

	tail := reversals[len(reversals)-window:]
	m := mean(tail)
	if m == 0 {
		return 0, fmt.Errorf("analysis: zero mean reversal value")
	}

	return sampleStd(tail, m) / math.Abs(m), nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func sampleStd(values []float64, mean float64) float64 {
	if len(values) < 2 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)-1))
}

func populationVar(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}
