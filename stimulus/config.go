package stimulus

import "fmt"

// Config holds the fixed synthesis parameters for one test session.
// All durations are in seconds, frequencies in Hz, amplitudes linear.
type Config struct {
	// SampleRate is the audio sampling rate.
	SampleRate float64
	// FadeDuration is the linear edge taper length applied to every
	// stimulus to eliminate onset/offset clicks.
	FadeDuration float64

	// NoiseBurstDuration is the total duration of the gap-test noise
	// burst, excluding any inserted gap.
	NoiseBurstDuration float64
	// NoiseLowCut and NoiseHighCut bound the bandpass applied to the
	// noise, matching the speech frequency range.
	NoiseLowCut  float64
	NoiseHighCut float64
	// NoiseAmplitude scales the unit-peak noise.
	NoiseAmplitude float64

	// ToneDuration is the length of each pitch-test tone.
	ToneDuration float64
	// ToneAmplitude scales the tone.
	ToneAmplitude float64
	// ReferenceFrequency is the pitch-test reference tone frequency.
	ReferenceFrequency float64
}

// DefaultConfig returns the stimulus parameters of the hearing study:
// 44.1 kHz, 300 ms noise burst bandpassed to 100-8000 Hz, 250 ms tones at
// a 500 Hz reference, 10 ms fades.
func DefaultConfig() Config {
	return Config{
		SampleRate:         44100,
		FadeDuration:       0.010,
		NoiseBurstDuration: 0.3,
		NoiseLowCut:        100,
		NoiseHighCut:       8000,
		NoiseAmplitude:     0.3,
		ToneDuration:       0.25,
		ToneAmplitude:      0.3,
		ReferenceFrequency: 500,
	}
}

func (cfg Config) validate() error {
	if cfg.SampleRate <= 0 {
		return fmt.Errorf("stimulus: sample rate must be > 0: %f", cfg.SampleRate)
	}
	if cfg.FadeDuration < 0 {
		return fmt.Errorf("stimulus: fade duration must be >= 0: %f", cfg.FadeDuration)
	}
	if cfg.NoiseBurstDuration <= 0 {
		return fmt.Errorf("stimulus: noise burst duration must be > 0: %f", cfg.NoiseBurstDuration)
	}
	nyquist := cfg.SampleRate / 2
	if cfg.NoiseLowCut <= 0 || cfg.NoiseHighCut <= cfg.NoiseLowCut || cfg.NoiseHighCut >= nyquist {
		return fmt.Errorf("stimulus: noise band must satisfy 0 < low < high < nyquist: [%f, %f] at fs=%f",
			cfg.NoiseLowCut, cfg.NoiseHighCut, cfg.SampleRate)
	}
	if cfg.NoiseAmplitude < 0 {
		return fmt.Errorf("stimulus: noise amplitude must be >= 0: %f", cfg.NoiseAmplitude)
	}
	if cfg.ToneDuration <= 0 {
		return fmt.Errorf("stimulus: tone duration must be > 0: %f", cfg.ToneDuration)
	}
	if cfg.ToneAmplitude < 0 {
		return fmt.Errorf("stimulus: tone amplitude must be >= 0: %f", cfg.ToneAmplitude)
	}
	if cfg.ReferenceFrequency <= 0 || cfg.ReferenceFrequency >= nyquist {
		return fmt.Errorf("stimulus: reference frequency must be in (0, nyquist): %f", cfg.ReferenceFrequency)
	}
	return nil
}
