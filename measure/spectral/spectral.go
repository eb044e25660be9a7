// Package spectral provides FFT-based checks on synthesized stimuli:
// where the signal energy sits and which frequency dominates. It is used
// to validate that generated test signals are physically well-formed, so
// that signal quality cannot confound a measured threshold.
package spectral

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/dsp/core"
)

// Result holds the spectral measurements of one signal.
type Result struct {
	// BinWidth is the frequency resolution in Hz.
	BinWidth float64
	// PeakFrequency is the frequency of the strongest bin.
	PeakFrequency float64
	// PeakLevel is the linear magnitude of the strongest bin.
	PeakLevel float64
	// TotalEnergy is the summed squared magnitude over all bins.
	TotalEnergy float64
}

// Analyze computes the spectral summary of a real-valued signal.
func Analyze(signal []float64, sampleRate float64) (Result, error) {
	magSquared, binHz, err := magnitudeSpectrum(signal, sampleRate)
	if err != nil {
		return Result{}, err
	}

	peakBin := 0
	peakVal := -1.0
	total := 0.0
	for i, v := range magSquared {
		total += v
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}

	return Result{
		BinWidth:      binHz,
		PeakFrequency: float64(peakBin) * binHz,
		PeakLevel:     math.Sqrt(peakVal),
		TotalEnergy:   total,
	}, nil
}

// DominantFrequency returns the frequency of the strongest spectral bin.
func DominantFrequency(signal []float64, sampleRate float64) (float64, error) {
	res, err := Analyze(signal, sampleRate)
	if err != nil {
		return 0, err
	}
	return res.PeakFrequency, nil
}

// BandEnergyRatio returns the fraction of total spectral energy that falls
// inside [lowHz, highHz]. A well-formed bandpassed noise burst should put
// nearly all of its energy inside its design band.
func BandEnergyRatio(signal []float64, sampleRate, lowHz, highHz float64) (float64, error) {
	if lowHz < 0 || highHz <= lowHz {
		return 0, fmt.Errorf("spectral: band must satisfy 0 <= low < high: [%f, %f]", lowHz, highHz)
	}

	magSquared, binHz, err := magnitudeSpectrum(signal, sampleRate)
	if err != nil {
		return 0, err
	}

	total := 0.0
	inBand := 0.0
	for i, v := range magSquared {
		total += v
		f := float64(i) * binHz
		if f >= lowHz && f <= highHz {
			inBand += v
		}
	}

	if total == 0 {
		return 0, nil
	}

	// Rounding in the bin sums can push the ratio a hair past 1.
	return core.Clamp(inBand/total, 0, 1), nil
}

// magnitudeSpectrum returns squared magnitudes for the non-negative
// frequency bins [0..Nyquist] and the bin width in Hz.
func magnitudeSpectrum(signal []float64, sampleRate float64) ([]float64, float64, error) {
	if len(signal) == 0 {
		return nil, 0, fmt.Errorf("spectral: signal must not be empty")
	}
	if sampleRate <= 0 {
		return nil, 0, fmt.Errorf("spectral: sample rate must be > 0: %f", sampleRate)
	}

	fftSize := nextPowerOf2(len(signal))

	inData := make([]complex128, fftSize)
	for i, v := range signal {
		inData[i] = complex(v, 0)
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, 0, fmt.Errorf("spectral: fft plan: %w", err)
	}

	out := make([]complex128, fftSize)
	if err := plan.Forward(out, inData); err != nil {
		return nil, 0, fmt.Errorf("spectral: fft forward: %w", err)
	}

	binCount := fftSize/2 + 1
	magSquared := make([]float64, binCount)
	for i := range magSquared {
		x := out[i]
		magSquared[i] = real(x)*real(x) + imag(x)*imag(x)
	}

	return magSquared, sampleRate / float64(fftSize), nil
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p <<= 1
	}

	return p
}
