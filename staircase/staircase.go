// Package staircase implements the transformed up-down adaptive procedure
// (Levitt, 1971) used for psychoacoustic threshold estimation.
//
// The 3-down-1-up rule tracks the stimulus level detected correctly on
// about 79.4% of trials: three consecutive correct responses make the task
// harder, a single incorrect response makes it easier. The threshold is the
// mean of the last N reversal values once the run has converged.
package staircase

import (
	"errors"
	"fmt"
	"math"

	"github.com/sirupsen/logrus"
)

// downRuleCount is the number of consecutive correct responses required
// before the stimulus is made harder.
const downRuleCount = 3

// ErrInvalidParameter reports out-of-bounds constructor parameters.
var ErrInvalidParameter = errors.New("staircase: invalid parameter")

// Direction indicates the direction of a staircase adjustment.
type Direction int

const (
	// DirectionNone means no adjustment has occurred yet.
	DirectionNone Direction = iota
	// DirectionUp means the stimulus was made easier.
	DirectionUp
	// DirectionDown means the stimulus was made harder.
	DirectionDown
)

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// TrialRecord is one entry of the append-only trial log.
type TrialRecord struct {
	Trial    int     // 1-based trial index
	Value    float64 // stimulus value after this trial's update
	Correct  bool
	Reversal bool
}

// Result summarizes a completed (or aborted) staircase run.
type Result struct {
	TestType      string
	Threshold     float64
	Unit          string
	TrialCount    int
	ReversalCount int
	// Degraded is set when the threshold had to be computed from fewer
	// reversals than requested.
	Degraded bool
}

// Config holds the staircase parameters.
type Config struct {
	// TestType is an opaque label used for logging and result records,
	// e.g. "gap" or "pitch".
	TestType string
	// Unit names the stimulus unit for result records, e.g. "seconds".
	Unit string
	// InitialValue is the starting stimulus value. Must be > 0.
	InitialValue float64
	// StepFactor is the multiplicative adjustment factor. Must be > 1.
	StepFactor float64
	// MaxReversals terminates the run. Must be >= 1.
	MaxReversals int
	// ReversalsForThreshold is the number of final reversals averaged for
	// the threshold estimate. Must be in [1, MaxReversals].
	ReversalsForThreshold int
}

func (cfg Config) validate() error {
	if cfg.InitialValue <= 0 {
		return fmt.Errorf("%w: initial value must be > 0: %f", ErrInvalidParameter, cfg.InitialValue)
	}
	if cfg.StepFactor <= 1 {
		return fmt.Errorf("%w: step factor must be > 1: %f", ErrInvalidParameter, cfg.StepFactor)
	}
	if cfg.MaxReversals < 1 {
		return fmt.Errorf("%w: max reversals must be >= 1: %d", ErrInvalidParameter, cfg.MaxReversals)
	}
	if cfg.ReversalsForThreshold < 1 || cfg.ReversalsForThreshold > cfg.MaxReversals {
		return fmt.Errorf("%w: reversals for threshold must be in [1, %d]: %d",
			ErrInvalidParameter, cfg.MaxReversals, cfg.ReversalsForThreshold)
	}
	return nil
}

// Controller holds the state of one adaptive staircase run. It is a pure
// state machine: ProcessResponse is the single mutator, and all accessors
// are consistent with the most recent call. A Controller is not safe for
// concurrent use; responses must be applied strictly in trial order.
type Controller struct {
	cfg Config

	currentValue       float64
	consecutiveCorrect int
	lastDirection      Direction
	reversalValues     []float64
	history            []TrialRecord
	trialNumber        int
}

// New creates a staircase controller. It returns ErrInvalidParameter if
// any configuration bound is violated.
func New(cfg Config) (*Controller, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"test_type":     cfg.TestType,
		"initial_value": cfg.InitialValue,
		"step_factor":   cfg.StepFactor,
		"max_reversals": cfg.MaxReversals,
	}).Info("Staircase initialized")

	return &Controller{
		cfg:           cfg,
		currentValue:  cfg.InitialValue,
		lastDirection: DirectionNone,
	}, nil
}

// ProcessResponse applies one trial response and returns whether the
// staircase is now complete. Once complete, further calls leave the state
// frozen and keep returning true.
func (c *Controller) ProcessResponse(correct bool) bool {
	if c.IsComplete() {
		return true
	}

	c.trialNumber++
	direction := DirectionNone

	if correct {
		c.consecutiveCorrect++

		// 3-down rule: after three consecutive correct, make it harder.
		if c.consecutiveCorrect >= downRuleCount {
			c.currentValue /= c.cfg.StepFactor
			c.consecutiveCorrect = 0
			direction = DirectionDown

			logrus.WithFields(logrus.Fields{
				"test_type": c.cfg.TestType,
				"trial":     c.trialNumber,
				"value":     c.currentValue,
			}).Debug("Three correct, stepping down")
		}
	} else {
		// 1-up rule: any incorrect response makes it easier.
		c.currentValue *= c.cfg.StepFactor
		c.consecutiveCorrect = 0
		direction = DirectionUp

		logrus.WithFields(logrus.Fields{
			"test_type": c.cfg.TestType,
			"trial":     c.trialNumber,
			"value":     c.currentValue,
		}).Debug("Incorrect, stepping up")
	}

	// A reversal exists only when an adjustment occurred this trial and
	// its direction differs from the previous adjustment's direction.
	isReversal := false
	if direction != DirectionNone && c.lastDirection != DirectionNone && direction != c.lastDirection {
		isReversal = true
		c.reversalValues = append(c.reversalValues, c.currentValue)

		logrus.WithFields(logrus.Fields{
			"test_type": c.cfg.TestType,
			"reversal":  len(c.reversalValues),
			"value":     c.currentValue,
		}).Info("Reversal recorded")
	}

	if direction != DirectionNone {
		c.lastDirection = direction
	}

	c.history = append(c.history, TrialRecord{
		Trial:    c.trialNumber,
		Value:    c.currentValue,
		Correct:  correct,
		Reversal: isReversal,
	})

	if c.IsComplete() {
		logrus.WithFields(logrus.Fields{
			"test_type": c.cfg.TestType,
			"trials":    c.trialNumber,
			"reversals": len(c.reversalValues),
		}).Info("Staircase complete")
		return true
	}

	return false
}

// Threshold returns the mean of the last ReversalsForThreshold reversal
// values. If fewer reversals are available, all of them are averaged and
// the degraded flag is set; with no reversals at all the threshold is NaN.
// Degraded results are usable but should be reported as such.
func (c *Controller) Threshold() (float64, bool) {
	values := c.reversalValues
	degraded := len(values) < c.cfg.ReversalsForThreshold

	if degraded {
		logrus.WithFields(logrus.Fields{
			"test_type": c.cfg.TestType,
			"have":      len(values),
			"want":      c.cfg.ReversalsForThreshold,
		}).Warn("Fewer reversals than requested, averaging all available")
	} else {
		values = values[len(values)-c.cfg.ReversalsForThreshold:]
	}

	if len(values) == 0 {
		return math.NaN(), true
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}

	return sum / float64(len(values)), degraded
}

// IsComplete reports whether the run reached MaxReversals.
func (c *Controller) IsComplete() bool {
	return len(c.reversalValues) >= c.cfg.MaxReversals
}

// CurrentValue returns the stimulus value for the next trial.
func (c *Controller) CurrentValue() float64 {
	return c.currentValue
}

// TrialCount returns the number of processed trials.
func (c *Controller) TrialCount() int {
	return c.trialNumber
}

// ReversalCount returns the number of recorded reversals.
func (c *Controller) ReversalCount() int {
	return len(c.reversalValues)
}

// ReversalValues returns a copy of the recorded reversal values in order.
func (c *Controller) ReversalValues() []float64 {
	return append([]float64(nil), c.reversalValues...)
}

// History returns a copy of the full trial log in order.
func (c *Controller) History() []TrialRecord {
	return append([]TrialRecord(nil), c.history...)
}

// Result summarizes the run so far. It is normally read after IsComplete
// reports true, but is also valid for aborted runs.
func (c *Controller) Result() Result {
	threshold, degraded := c.Threshold()

	return Result{
		TestType:      c.cfg.TestType,
		Threshold:     threshold,
		Unit:          c.cfg.Unit,
		TrialCount:    c.trialNumber,
		ReversalCount: len(c.reversalValues),
		Degraded:      degraded,
	}
}
