package main

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultTuning(t *testing.T) {
	tn := defaultTuning()
	assert.Equal(t, 0.5, tn.NoiseFloor)
	assert.Equal(t, 2.0, tn.LabelThreshold)
	assert.Equal(t, 50.0, tn.MarkerBase)
	assert.Equal(t, 400.0, tn.MarkerScale)
	assert.Equal(t, 0.75, tn.LeftFactor)
	assert.Equal(t, 1.25, tn.RightFactor)
	assert.Equal(t, 40, tn.NameMax)
	assert.Equal(t, 37, tn.NameKeep)
	assert.NoError(t, tn.validate())
}

func TestLoadTuningEmptyPath(t *testing.T) {
	tn, err := loadTuning("")
	require.NoError(t, err)
	assert.Equal(t, defaultTuning(), tn)
}

func TestLoadTuningOverrides(t *testing.T) {
	path := writeConfig(t, "noise_floor: 1.5\nlabel_threshold: 5\nmarker_scale: 200\n")
	tn, err := loadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 1.5, tn.NoiseFloor)
	assert.Equal(t, 5.0, tn.LabelThreshold)
	assert.Equal(t, 200.0, tn.MarkerScale)
	// untouched fields keep their defaults
	assert.Equal(t, 50.0, tn.MarkerBase)
	assert.Equal(t, 0.75, tn.LeftFactor)
}

func TestLoadTuningInvalid(t *testing.T) {
	tests := []string{
		"name_keep: 50\n",
		"left_factor: 0\n",
		"noise_floor: -1\n",
		"label_font_size: 0\n",
		"noise_floor: [1, 2]\n",
	}
	for _, body := range tests {
		_, err := loadTuning(writeConfig(t, body))
		assert.Error(t, err, body)
	}
}

func TestLoadTuningMissingFile(t *testing.T) {
	_, err := loadTuning(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestConfigRaisesNoiseFloor(t *testing.T) {
	report := writeReport(t, sampleReport)
	cfg := writeConfig(t, "noise_floor: 4\n")

	var code int
	out := captureOutput(func() { code = run([]string{"--config", cfg, "info", report}) })
	require.Equal(t, 0, code)
	assert.Contains(t, out, "functions                3")
}
