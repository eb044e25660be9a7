package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jar-jar-binks-comits/bilingual-hearing-study/staircase"
	"github.com/jar-jar-binks-comits/bilingual-hearing-study/stimulus"
)

func TestDefaultIsInternallyConsistent(t *testing.T) {
	exp := Default()

	_, err := stimulus.New(exp.StimulusConfig())
	require.NoError(t, err, "default stimulus config should construct")

	for _, tt := range []stimulus.TestType{stimulus.TestGap, stimulus.TestPitch} {
		_, err := staircase.New(exp.StaircaseConfig(tt))
		require.NoError(t, err, "default %s staircase config should construct", tt)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiment.yaml")

	doc := `
sample_rate: 48000
gap:
  initial_value: 0.080
  noise_high_cut: 6000
pitch:
  reference_frequency: 1000
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	exp, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 48000.0, exp.SampleRate)
	assert.Equal(t, 0.080, exp.Gap.InitialValue)
	assert.Equal(t, 6000.0, exp.Gap.NoiseHighCut)
	assert.Equal(t, 1000.0, exp.Pitch.ReferenceFrequency)

	// Untouched fields keep their defaults.
	assert.Equal(t, 1.5, exp.Gap.StepFactor)
	assert.Equal(t, 12, exp.Pitch.MaxReversals)
	assert.Equal(t, 0.3, exp.Gap.NoiseBurstDuration)
}

func TestLoadRejectsInvalidParameters(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "experiment.yaml")

	doc := `
gap:
  step_factor: 0.5
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	assert.NoError(t, Default().Validate())

	exp := Default()
	exp.InterstimulusInterval = -1
	assert.Error(t, exp.Validate())

	exp = Default()
	exp.Pitch.ReferenceFrequency = -500
	assert.Error(t, exp.Validate())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sample_rate: [oops"), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestStaircaseConfigSelection(t *testing.T) {
	exp := Default()

	gap := exp.StaircaseConfig(stimulus.TestGap)
	assert.Equal(t, "gap", gap.TestType)
	assert.Equal(t, "seconds", gap.Unit)
	assert.Equal(t, 0.050, gap.InitialValue)

	pitch := exp.StaircaseConfig(stimulus.TestPitch)
	assert.Equal(t, "pitch", pitch.TestType)
	assert.Equal(t, "Hz", pitch.Unit)
	assert.Equal(t, 50.0, pitch.InitialValue)
}
