package attack

import (
	"fmt"
	"image"
	"math"
)

// Params configures the standard degradation battery
type Params struct {
	JPEGQuality    int     `yaml:"jpegQuality"`
	ResizeScale    float64 `yaml:"resizeScale"`
	NoiseAmount    float64 `yaml:"noiseAmount"`
	NoiseAmplitude int     `yaml:"noiseAmplitude"`
	NoiseSeed      int64   `yaml:"noiseSeed"`
	BlurRadius     float64 `yaml:"blurRadius"`
}

// DefaultParams returns the fixed battery: jpeg q=35, 70% resize, 12% noise of
// amplitude 24 with seed 123, gaussian blur of radius 1.
func DefaultParams() Params {
	return Params{
		JPEGQuality:    35,
		ResizeScale:    0.7,
		NoiseAmount:    0.12,
		NoiseAmplitude: 24,
		NoiseSeed:      123,
		BlurRadius:     1.0,
	}
}

// DefaultSuite registers baseline, jpeg, resize, noise and blur in that order
func DefaultSuite(p Params) *Registry {
	r := NewRegistry()
	pct := func(v float64) int { return int(math.Round(v * 100)) }

	attacks := []Attack{
		{
			ID:          "baseline",
			DisplayName: "No attack",
			Apply:       Baseline,
		},
		{
			ID:          fmt.Sprintf("jpeg_q%d", p.JPEGQuality),
			DisplayName: fmt.Sprintf("JPEG q=%d (lossy)", p.JPEGQuality),
			Apply: func(img *image.NRGBA) (*image.NRGBA, error) {
				return JPEGRoundTrip(img, p.JPEGQuality)
			},
		},
		{
			ID:          fmt.Sprintf("resize_%d", pct(p.ResizeScale)),
			DisplayName: fmt.Sprintf("Resize to %d%% and restore", pct(p.ResizeScale)),
			Apply: func(img *image.NRGBA) (*image.NRGBA, error) {
				return ResizeRoundTrip(img, p.ResizeScale), nil
			},
		},
		{
			ID:          fmt.Sprintf("noise_%d", pct(p.NoiseAmount)),
			DisplayName: fmt.Sprintf("Noise %d%%", pct(p.NoiseAmount)),
			Apply: func(img *image.NRGBA) (*image.NRGBA, error) {
				return AddNoise(img, p.NoiseAmount, p.NoiseAmplitude, p.NoiseSeed), nil
			},
		},
		{
			ID:          fmt.Sprintf("blur_%g", p.BlurRadius),
			DisplayName: fmt.Sprintf("Gaussian blur r=%g", p.BlurRadius),
			Apply: func(img *image.NRGBA) (*image.NRGBA, error) {
				return GaussianBlur(img, p.BlurRadius), nil
			},
		},
	}

	for _, a := range attacks {
		// ids are distinct by construction
		_ = r.Register(a)
	}
	return r
}
