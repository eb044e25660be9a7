// Package session composes a staircase controller with the stimulus
// synthesizer into a full test run. Each trial it asks the controller for
// the current stimulus value, generates a two-interval pair with the
// target at a random interval, obtains a response from a Responder, and
// feeds correctness back into the controller until the staircase
// terminates.
//
// The package never touches audio devices: playing the intervals and
// collecting the keypress is the Responder implementation's concern.
package session

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/staircase"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/stimulus"
)

// defaultMaxTrials bounds a run that fails to converge (e.g. a responder
// that never errs produces no reversals).
const defaultMaxTrials = 500

// ErrTrialLimit reports that the trial cap was reached before the
// staircase completed. The partial run remains readable via Trials and
// the controller's accessors.
var ErrTrialLimit = errors.New("session: trial limit reached before staircase completed")

// Presentation is everything a Responder needs to run one trial.
// Implementations that present to a human must not reveal TargetInterval;
// it is carried for simulated listeners and for correctness scoring.
type Presentation struct {
	TestType       stimulus.TestType
	StimulusValue  float64
	TargetInterval int
	First, Second  []float64
}

// Responder obtains the chosen interval (1 or 2) for one trial.
type Responder interface {
	Respond(p Presentation) (int, error)
}

// Trial is one entry of the session's flat trial log.
type Trial struct {
	Session          string
	TestType         string
	Trial            int
	StimulusValue    float64
	TargetInterval   int
	ResponseInterval int
	Correct          bool
	Reversal         bool
	Timestamp        time.Time
}

// Option configures a Runner.
type Option func(*Runner)

// WithRand sets the random source used for target-interval assignment.
func WithRand(rng *rand.Rand) Option {
	return func(r *Runner) {
		if rng != nil {
			r.rng = rng
		}
	}
}

// WithMaxTrials caps the number of trials in one run.
func WithMaxTrials(n int) Option {
	return func(r *Runner) {
		if n > 0 {
			r.maxTrials = n
		}
	}
}

// Runner drives one test session. Sessions share no state; independent
// runs may execute in parallel, but a single Runner is strictly
// sequential.
type Runner struct {
	id        string
	testType  stimulus.TestType
	synth     *stimulus.Synthesizer
	ctrl      *staircase.Controller
	responder Responder
	rng       *rand.Rand
	maxTrials int
	trials    []Trial
}

// NewRunner creates a session runner over an existing controller and
// synthesizer.
func NewRunner(testType stimulus.TestType, synth *stimulus.Synthesizer, ctrl *staircase.Controller, responder Responder, opts ...Option) (*Runner, error) {
	if synth == nil || ctrl == nil || responder == nil {
		return nil, fmt.Errorf("session: synthesizer, controller and responder are required")
	}

	r := &Runner{
		id:        uuid.NewString(),
		testType:  testType,
		synth:     synth,
		ctrl:      ctrl,
		responder: responder,
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		maxTrials: defaultMaxTrials,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r, nil
}

// ID returns the unique session identifier.
func (r *Runner) ID() string {
	return r.id
}

// Trials returns a copy of the trial log so far.
func (r *Runner) Trials() []Trial {
	return append([]Trial(nil), r.trials...)
}

// Run executes trials until the staircase completes. On a responder error
// the run aborts with that error; state as of the last completed trial is
// preserved. If the trial cap is hit first, the partial result is returned
// together with ErrTrialLimit.
func (r *Runner) Run() (staircase.Result, error) {
	logrus.WithFields(logrus.Fields{
		"session":   r.id,
		"test_type": r.testType.String(),
	}).Info("Session started")

	for !r.ctrl.IsComplete() {
		if len(r.trials) >= r.maxTrials {
			logrus.WithFields(logrus.Fields{
				"session": r.id,
				"trials":  len(r.trials),
			}).Warn("Trial limit reached before convergence")
			return r.ctrl.Result(), ErrTrialLimit
		}

		value := r.ctrl.CurrentValue()
		target := 1 + r.rng.Intn(2)

		first, second, err := r.synth.TrialPair(r.testType, value, target)
		if err != nil {
			return r.ctrl.Result(), fmt.Errorf("session: synthesize trial %d: %w", len(r.trials)+1, err)
		}

		response, err := r.responder.Respond(Presentation{
			TestType:       r.testType,
			StimulusValue:  value,
			TargetInterval: target,
			First:          first,
			Second:         second,
		})
		if err != nil {
			return r.ctrl.Result(), fmt.Errorf("session: trial %d response: %w", len(r.trials)+1, err)
		}

		correct := response == target
		r.ctrl.ProcessResponse(correct)

		reversal := false
		if history := r.ctrl.History(); len(history) > 0 {
			reversal = history[len(history)-1].Reversal
		}

		r.trials = append(r.trials, Trial{
			Session:          r.id,
			TestType:         r.testType.String(),
			Trial:            r.ctrl.TrialCount(),
			StimulusValue:    value,
			TargetInterval:   target,
			ResponseInterval: response,
			Correct:          correct,
			Reversal:         reversal,
			Timestamp:        time.Now(),
		})
	}

	result := r.ctrl.Result()

	logrus.WithFields(logrus.Fields{
		"session":   r.id,
		"test_type": result.TestType,
		"threshold": result.Threshold,
		"unit":      result.Unit,
		"trials":    result.TrialCount,
		"reversals": result.ReversalCount,
	}).Info("Session complete")

	return result, nil
}
