// Package stimulus synthesizes the audio test signals for the two-interval
// forced-choice hearing tests: bandpass-filtered noise bursts with an
// optional temporal gap, and pure tones with a controlled frequency offset.
//
// All synthesis is deterministic for a given seed, so trial sequences can
// be reproduced exactly.
package stimulus

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	vecmath "github.com/cwbudde/algo-vecmath"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/dsp/biquad"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/dsp/core"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/dsp/pass"
)

// noiseFilterOrder is the order of the Butterworth bandpass applied to the
// noise before the zero-phase (forward-backward) pass.
const noiseFilterOrder = 4

// ErrUnknownTestType reports an unsupported test kind. It indicates a
// programming error in the caller and is never retried.
var ErrUnknownTestType = errors.New("stimulus: unknown test type")

// TestType selects which stimulus family a trial pair is drawn from.
type TestType int

const (
	// TestGap is the gap-in-noise detection test.
	TestGap TestType = iota
	// TestPitch is the pitch discrimination test.
	TestPitch
)

// String returns the test type label used in logs and records.
func (t TestType) String() string {
	switch t {
	case TestGap:
		return "gap"
	case TestPitch:
		return "pitch"
	default:
		return fmt.Sprintf("testtype(%d)", int(t))
	}
}

// ParseTestType converts a label ("gap" or "pitch") to a TestType.
func ParseTestType(s string) (TestType, error) {
	switch s {
	case "gap":
		return TestGap, nil
	case "pitch":
		return TestPitch, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownTestType, s)
	}
}

// Unit returns the stimulus unit for this test type.
func (t TestType) Unit() string {
	if t == TestGap {
		return "seconds"
	}
	return "Hz"
}

// Option configures a Synthesizer.
type Option func(*Synthesizer)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed int64) Option {
	return func(s *Synthesizer) {
		s.rng = rand.New(rand.NewSource(seed))
	}
}

// Synthesizer produces stimulus buffers from a fixed configuration.
// It is not safe for concurrent use; each test session owns one.
type Synthesizer struct {
	cfg      Config
	rng      *rand.Rand
	bandpass []biquad.Coefficients
}

// New creates a synthesizer for the given configuration. The bandpass
// cascade for the noise band is designed once up front.
func New(cfg Config, opts ...Option) (*Synthesizer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	s := &Synthesizer{
		cfg: cfg,
		rng: rand.New(rand.NewSource(1)),
		bandpass: pass.ButterworthBP(
			cfg.NoiseLowCut, cfg.NoiseHighCut, noiseFilterOrder, cfg.SampleRate),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s, nil
}

// Config returns the synthesizer configuration.
func (s *Synthesizer) Config() Config {
	return s.cfg
}

// GapStimulus generates one gap-test interval.
//
// With hasGap false the result is a continuous bandpass-filtered noise
// burst of NoiseBurstDuration seconds. With hasGap true it is two
// independently drawn half-bursts separated by exactly gapDuration seconds
// of silence, so the total duration is NoiseBurstDuration + gapDuration.
// The two intervals of a trial therefore differ in length by the gap
// duration; this asymmetry is part of the original study design and is
// kept deliberately (a possible duration cue for the listener).
func (s *Synthesizer) GapStimulus(gapDuration float64, hasGap bool) ([]float64, error) {
	if gapDuration < 0 {
		return nil, fmt.Errorf("stimulus: gap duration must be >= 0: %f", gapDuration)
	}

	var out []float64
	if hasGap {
		segSamples := core.SecondsToSamples(s.cfg.NoiseBurstDuration/2, s.cfg.SampleRate)
		gapSamples := core.SecondsToSamples(gapDuration, s.cfg.SampleRate)

		out = make([]float64, 0, 2*segSamples+gapSamples)
		out = append(out, s.bandpassNoise(segSamples)...)
		out = append(out, make([]float64, gapSamples)...)
		out = append(out, s.bandpassNoise(segSamples)...)
	} else {
		n := core.SecondsToSamples(s.cfg.NoiseBurstDuration, s.cfg.SampleRate)
		out = s.bandpassNoise(n)
	}

	vecmath.ScaleBlockInPlace(out, s.cfg.NoiseAmplitude)
	s.applyFade(out)

	return out, nil
}

// PitchStimulus generates a pure tone of the given frequency and duration,
// scaled by ToneAmplitude and edge-faded.
func (s *Synthesizer) PitchStimulus(frequency, duration float64) ([]float64, error) {
	if frequency <= 0 {
		return nil, fmt.Errorf("stimulus: tone frequency must be > 0: %f", frequency)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("stimulus: tone duration must be > 0: %f", duration)
	}

	n := core.SecondsToSamples(duration, s.cfg.SampleRate)
	out := make([]float64, n)

	step := 2 * math.Pi * frequency / s.cfg.SampleRate
	for i := range out {
		out[i] = s.cfg.ToneAmplitude * math.Sin(step*float64(i))
	}

	s.applyFade(out)

	return out, nil
}

// TrialPair generates both intervals of a two-interval forced-choice trial.
// The target stimulus (the one with the gap, or the higher tone) is placed
// in targetInterval (1 or 2).
func (s *Synthesizer) TrialPair(testType TestType, stimulusValue float64, targetInterval int) ([]float64, []float64, error) {
	if targetInterval != 1 && targetInterval != 2 {
		return nil, nil, fmt.Errorf("stimulus: target interval must be 1 or 2: %d", targetInterval)
	}

	switch testType {
	case TestGap:
		first, err := s.GapStimulus(stimulusValue, targetInterval == 1)
		if err != nil {
			return nil, nil, err
		}
		second, err := s.GapStimulus(stimulusValue, targetInterval == 2)
		if err != nil {
			return nil, nil, err
		}
		return first, second, nil

	case TestPitch:
		freq1 := s.cfg.ReferenceFrequency
		freq2 := s.cfg.ReferenceFrequency
		if targetInterval == 1 {
			freq1 += stimulusValue
		} else {
			freq2 += stimulusValue
		}

		first, err := s.PitchStimulus(freq1, s.cfg.ToneDuration)
		if err != nil {
			return nil, nil, err
		}
		second, err := s.PitchStimulus(freq2, s.cfg.ToneDuration)
		if err != nil {
			return nil, nil, err
		}
		return first, second, nil

	default:
		return nil, nil, fmt.Errorf("%w: %v", ErrUnknownTestType, testType)
	}
}

// bandpassNoise draws n samples of Gaussian white noise from a fresh,
// independently seeded stream, applies the zero-phase Butterworth bandpass
// and normalizes the peak to 1. Independent streams keep the two noise
// segments of a gap trial uncorrelated.
func (s *Synthesizer) bandpassNoise(n int) []float64 {
	if n <= 0 {
		return nil
	}

	rng := rand.New(rand.NewSource(s.rng.Int63()))

	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}

	biquad.ZeroPhase(biquad.NewChain(s.bandpass), out)

	if peak := vecmath.MaxAbs(out); peak > 0 {
		vecmath.ScaleBlockInPlace(out, 1/peak)
	}

	return out
}

// applyFade applies linear onset and offset ramps in place. The ramp
// length is min(FadeDuration*SampleRate, len/4) samples; ramp endpoints
// are exactly 0 and 1, and the middle of the buffer is untouched.
func (s *Synthesizer) applyFade(buf []float64) {
	fadeSamples := core.SecondsToSamples(s.cfg.FadeDuration, s.cfg.SampleRate)
	if fadeSamples > len(buf)/4 {
		fadeSamples = len(buf) / 4
	}
	if fadeSamples < 2 {
		return
	}

	denom := float64(fadeSamples - 1)
	for i := 0; i < fadeSamples; i++ {
		g := float64(i) / denom
		buf[i] *= g
		buf[len(buf)-1-i] *= g
	}
}
