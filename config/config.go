// Package config defines the experiment parameter set as an explicit
// immutable value, loadable from YAML. Components receive their parameters
// from here at construction, so independent sessions can run with
// different settings without shared state.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/staircase"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/stimulus"
)

// Staircase holds the adaptive-procedure parameters shared by both tests.
type Staircase struct {
	InitialValue          float64 `yaml:"initial_value"`
	StepFactor            float64 `yaml:"step_factor"`
	MaxReversals          int     `yaml:"max_reversals"`
	ReversalsForThreshold int     `yaml:"reversals_for_threshold"`
}

// GapTest parameterizes the gap-in-noise detection test.
type GapTest struct {
	Staircase          `yaml:",inline"`
	NoiseBurstDuration float64 `yaml:"noise_burst_duration"`
	NoiseLowCut        float64 `yaml:"noise_low_cut"`
	NoiseHighCut       float64 `yaml:"noise_high_cut"`
	NoiseAmplitude     float64 `yaml:"noise_amplitude"`
}

// PitchTest parameterizes the pitch discrimination test.
type PitchTest struct {
	Staircase          `yaml:",inline"`
	ToneDuration       float64 `yaml:"tone_duration"`
	ToneAmplitude      float64 `yaml:"tone_amplitude"`
	ReferenceFrequency float64 `yaml:"reference_frequency"`
}

// Experiment is the full parameter set for one experimental run.
type Experiment struct {
	SampleRate            float64 `yaml:"sample_rate"`
	FadeDuration          float64 `yaml:"fade_duration"`
	InterstimulusInterval float64 `yaml:"interstimulus_interval"`

	Gap   GapTest   `yaml:"gap"`
	Pitch PitchTest `yaml:"pitch"`
}

// Default returns the parameters of the hearing study: 44.1 kHz audio,
// a 300 ms noise burst bandpassed to 100-8000 Hz starting at a 50 ms gap,
// 250 ms tones at a 500 Hz reference starting at a 50 Hz offset, and a
// 12-reversal staircase averaging the final 6 reversals.
func Default() Experiment {
	return Experiment{
		SampleRate:            44100,
		FadeDuration:          0.010,
		InterstimulusInterval: 0.5,
		Gap: GapTest{
			Staircase: Staircase{
				InitialValue:          0.050,
				StepFactor:            1.5,
				MaxReversals:          12,
				ReversalsForThreshold: 6,
			},
			NoiseBurstDuration: 0.3,
			NoiseLowCut:        100,
			NoiseHighCut:       8000,
			NoiseAmplitude:     0.3,
		},
		Pitch: PitchTest{
			Staircase: Staircase{
				InitialValue:          50,
				StepFactor:            1.5,
				MaxReversals:          12,
				ReversalsForThreshold: 6,
			},
			ToneDuration:       0.25,
			ToneAmplitude:      0.3,
			ReferenceFrequency: 500,
		},
	}
}

// Load reads a YAML experiment file. Missing fields keep their defaults.
func Load(path string) (Experiment, error) {
	exp := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Experiment{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, &exp); err != nil {
		return Experiment{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	if err := exp.Validate(); err != nil {
		return Experiment{}, fmt.Errorf("config: %s: %w", path, err)
	}

	return exp, nil
}

// Validate checks that the parameter set can construct every component.
// Component constructors carry the detailed range checks; this only adds
// the checks no component sees.
func (e Experiment) Validate() error {
	if e.InterstimulusInterval < 0 {
		return fmt.Errorf("config: interstimulus interval must be >= 0: %f", e.InterstimulusInterval)
	}

	if _, err := stimulus.New(e.StimulusConfig()); err != nil {
		return err
	}

	for _, t := range []stimulus.TestType{stimulus.TestGap, stimulus.TestPitch} {
		if _, err := staircase.New(e.StaircaseConfig(t)); err != nil {
			return err
		}
	}

	return nil
}

// StimulusConfig derives the synthesizer configuration.
func (e Experiment) StimulusConfig() stimulus.Config {
	return stimulus.Config{
		SampleRate:         e.SampleRate,
		FadeDuration:       e.FadeDuration,
		NoiseBurstDuration: e.Gap.NoiseBurstDuration,
		NoiseLowCut:        e.Gap.NoiseLowCut,
		NoiseHighCut:       e.Gap.NoiseHighCut,
		NoiseAmplitude:     e.Gap.NoiseAmplitude,
		ToneDuration:       e.Pitch.ToneDuration,
		ToneAmplitude:      e.Pitch.ToneAmplitude,
		ReferenceFrequency: e.Pitch.ReferenceFrequency,
	}
}

// StaircaseConfig derives the controller configuration for a test type.
func (e Experiment) StaircaseConfig(t stimulus.TestType) staircase.Config {
	params := e.Gap.Staircase
	if t == stimulus.TestPitch {
		params = e.Pitch.Staircase
	}

	return staircase.Config{
		TestType:              t.String(),
		Unit:                  t.Unit(),
		InitialValue:          params.InitialValue,
		StepFactor:            params.StepFactor,
		MaxReversals:          params.MaxReversals,
		ReversalsForThreshold: params.ReversalsForThreshold,
	}
}
