package pass

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/dsp/biquad"
)

// magnitudeAt evaluates the cascade magnitude response at freq (Hz).
func magnitudeAt(sections []biquad.Coefficients, freq, sampleRate float64) float64 {
	w := 2 * math.Pi * freq / sampleRate
	z1 := cmplx.Exp(complex(0, -w))
	z2 := z1 * z1

	h := complex(1, 0)
	for _, c := range sections {
		num := complex(c.B0, 0) + complex(c.B1, 0)*z1 + complex(c.B2, 0)*z2
		den := complex(1, 0) + complex(c.A1, 0)*z1 + complex(c.A2, 0)*z2
		h *= num / den
	}

	return cmplx.Abs(h)
}

func TestButterworthLPResponse(t *testing.T) {
	const (
		fs     = 44100.0
		cutoff = 1000.0
	)

	sections := ButterworthLP(cutoff, 4, fs)
	if len(sections) != 2 {
		t.Fatalf("section count = %d, want 2", len(sections))
	}

	if g := magnitudeAt(sections, 10, fs); math.Abs(g-1) > 0.01 {
		t.Errorf("passband gain at 10 Hz = %v, want ~1", g)
	}

	// Butterworth cutoff sits at -3 dB.
	if g := magnitudeAt(sections, cutoff, fs); math.Abs(g-1/math.Sqrt2) > 0.01 {
		t.Errorf("cutoff gain = %v, want ~%v", g, 1/math.Sqrt2)
	}

	// 4th order rolls off 24 dB/octave.
	if g := magnitudeAt(sections, 4*cutoff, fs); g > 0.01 {
		t.Errorf("stopband gain at 4x cutoff = %v, want < 0.01", g)
	}
}

func TestButterworthHPResponse(t *testing.T) {
	const (
		fs     = 44100.0
		cutoff = 1000.0
	)

	sections := ButterworthHP(cutoff, 4, fs)

	if g := magnitudeAt(sections, 8000, fs); math.Abs(g-1) > 0.01 {
		t.Errorf("passband gain at 8 kHz = %v, want ~1", g)
	}
	if g := magnitudeAt(sections, cutoff, fs); math.Abs(g-1/math.Sqrt2) > 0.01 {
		t.Errorf("cutoff gain = %v, want ~%v", g, 1/math.Sqrt2)
	}
	if g := magnitudeAt(sections, cutoff/4, fs); g > 0.01 {
		t.Errorf("stopband gain at cutoff/4 = %v, want < 0.01", g)
	}
}

func TestButterworthBPResponse(t *testing.T) {
	const (
		fs   = 44100.0
		low  = 100.0
		high = 8000.0
	)

	sections := ButterworthBP(low, high, 4, fs)
	if len(sections) != 4 {
		t.Fatalf("section count = %d, want 4", len(sections))
	}

	// Mid-band is far from both edges, so gain should be near unity.
	if g := magnitudeAt(sections, 1000, fs); math.Abs(g-1) > 0.02 {
		t.Errorf("mid-band gain = %v, want ~1", g)
	}

	if g := magnitudeAt(sections, 20, fs); g > 0.01 {
		t.Errorf("below-band gain at 20 Hz = %v, want < 0.01", g)
	}
	if g := magnitudeAt(sections, 20000, fs); g > 0.05 {
		t.Errorf("above-band gain at 20 kHz = %v, want < 0.05", g)
	}
}

func TestButterworthOddOrder(t *testing.T) {
	sections := ButterworthLP(1000, 5, 44100)
	if len(sections) != 3 {
		t.Fatalf("section count = %d, want 3", len(sections))
	}

	last := sections[len(sections)-1]
	if last.B2 != 0 || last.A2 != 0 {
		t.Errorf("odd-order tail section should be first-order: %+v", last)
	}
}

func TestButterworthInvalidParams(t *testing.T) {
	if got := ButterworthLP(1000, 0, 44100); got != nil {
		t.Errorf("order 0 should return nil, got %v", got)
	}
	if got := ButterworthBP(8000, 100, 4, 44100); got != nil {
		t.Errorf("inverted band edges should return nil, got %v", got)
	}
}
