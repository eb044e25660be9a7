package session

import (
	"fmt"
	"math"
	"math/rand"
)

// SimulatedListener is a Responder driven by a logistic psychometric
// function. It picks the target interval with probability
//
//	p(v) = 0.5 + 0.5 * v^s / (v^s + t^s)
//
// where v is the stimulus value, t the listener's true threshold and s
// the psychometric slope. p is 0.5 (chance) for vanishing stimuli, 0.75
// at the true threshold, and approaches 1 for easy stimuli. It lets full
// sessions run without audio hardware and gives staircase convergence a
// ground truth to be checked against.
type SimulatedListener struct {
	threshold float64
	slope     float64
	rng       *rand.Rand
}

// NewSimulatedListener creates a listener with the given true threshold
// (in stimulus units) and psychometric slope. The seed makes response
// sequences reproducible.
func NewSimulatedListener(threshold, slope float64, seed int64) (*SimulatedListener, error) {
	if threshold <= 0 {
		return nil, fmt.Errorf("session: listener threshold must be > 0: %f", threshold)
	}
	if slope <= 0 {
		return nil, fmt.Errorf("session: listener slope must be > 0: %f", slope)
	}

	return &SimulatedListener{
		threshold: threshold,
		slope:     slope,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

// ProbCorrect returns the probability of a correct response at the given
// stimulus value.
func (l *SimulatedListener) ProbCorrect(value float64) float64 {
	if value <= 0 {
		return 0.5
	}

	vs := math.Pow(value, l.slope)
	ts := math.Pow(l.threshold, l.slope)

	return 0.5 + 0.5*vs/(vs+ts)
}

// Respond implements Responder.
func (l *SimulatedListener) Respond(p Presentation) (int, error) {
	if l.rng.Float64() < l.ProbCorrect(p.StimulusValue) {
		return p.TargetInterval, nil
	}

	// Incorrect response: the other interval.
	return 3 - p.TargetInterval, nil
}
