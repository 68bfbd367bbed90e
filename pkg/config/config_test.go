package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoLab/pkg/attack"
	"StegoLab/pkg/stego"
)

func TestDefault(t *testing.T) {
	c := Default()
	assert.Equal(t, []int{1, 2, 3}, c.Bits)
	assert.Equal(t, []string{"sequential", "interleaved"}, c.Methods)
	assert.Equal(t, 90, c.PreviewLimit)
	assert.Equal(t, attack.DefaultParams(), c.Attacks)
	assert.Equal(t, logrus.WarnLevel, c.Level())
	assert.NoError(t, c.Validate())
}

func TestLoad_MissingFile(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)

	c, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoad_PartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stegolab.yaml")
	data := []byte(`
bits: [1, 2]
methods: [interleaved]
workers: 4
logLevel: debug
attacks:
  jpegQuality: 50
  noiseSeed: 7
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, c.Bits)
	assert.Equal(t, 4, c.Workers)
	assert.Equal(t, logrus.DebugLevel, c.Level())
	assert.Equal(t, 50, c.Attacks.JPEGQuality)
	assert.Equal(t, int64(7), c.Attacks.NoiseSeed)
	assert.Equal(t, 0.7, c.Attacks.ResizeScale)
	assert.Equal(t, 24, c.Attacks.NoiseAmplitude)

	methods, err := c.ParsedMethods()
	require.NoError(t, err)
	assert.Equal(t, []stego.Method{stego.Interleaved}, methods)
}

func TestParse_Invalid(t *testing.T) {
	tests := map[string]string{
		"bad yaml":    "bits: [1, 2",
		"bad bits":    "bits: [4]",
		"bad method":  "methods: [diagonal]",
		"bad level":   "logLevel: loud",
		"bad quality": "attacks:\n  jpegQuality: 101",
		"bad scale":   "attacks:\n  resizeScale: 1.5",
		"bad workers": "workers: -1",
	}
	for name, in := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse([]byte(in))
			assert.Error(t, err)
		})
	}
}
