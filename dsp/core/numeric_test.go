package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		value, min, max, want float64
	}{
		{0.5, 0, 1, 0.5},
		{-0.5, 0, 1, 0},
		{1.5, 0, 1, 1},
		{0.5, 1, 0, 0.5}, // swapped bounds
	}

	for _, tt := range tests {
		if got := Clamp(tt.value, tt.min, tt.max); got != tt.want {
			t.Errorf("Clamp(%v, %v, %v) = %v, want %v", tt.value, tt.min, tt.max, got, tt.want)
		}
	}
}

func TestNearlyEqual(t *testing.T) {
	if !NearlyEqual(1.0, 1.0+1e-13, 1e-9) {
		t.Error("values within eps should compare equal")
	}
	if NearlyEqual(1.0, 1.1, 1e-9) {
		t.Error("values outside eps should not compare equal")
	}
	if !NearlyEqual(0, 0, 0) {
		t.Error("zero should equal zero with default eps")
	}
}

func TestDBRoundTrip(t *testing.T) {
	for _, db := range []float64{-60, -20, 0, 6} {
		lin := DBToLinear(db)
		back := LinearToDB(lin)
		if math.Abs(back-db) > 1e-9 {
			t.Errorf("round trip %v dB -> %v", db, back)
		}
	}

	if !math.IsInf(LinearToDB(0), -1) {
		t.Error("LinearToDB(0) should be -Inf")
	}
	if !math.IsNaN(LinearToDB(-1)) {
		t.Error("LinearToDB(-1) should be NaN")
	}
}

func TestSecondsToSamples(t *testing.T) {
	if got := SecondsToSamples(0.3, 44100); got != 13230 {
		t.Errorf("SecondsToSamples(0.3, 44100) = %d, want 13230", got)
	}
	if got := SecondsToSamples(0, 44100); got != 0 {
		t.Errorf("SecondsToSamples(0, 44100) = %d, want 0", got)
	}
	if got := SecondsToSamples(-1, 44100); got != 0 {
		t.Errorf("negative duration should yield 0, got %d", got)
	}
}
