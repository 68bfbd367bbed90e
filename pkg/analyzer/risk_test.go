package analyzer

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

func stats(zero, one int, chi2 float64, suspicious bool) models.RiskStats {
	return models.RiskStats{Chi2: chi2, ZeroBits: zero, OneBits: one, Suspicious: suspicious}
}

func TestEvaluateRisk_Rules(t *testing.T) {
	balanced := stats(50, 50, 20, false)

	for _, tc := range []struct {
		name     string
		usage    float64
		original models.RiskStats
		embedded models.RiskStats
		want     models.RiskLevel
	}{
		{"high boundary on imbalance", 0.40, balanced, stats(51, 49, 20, false), models.RiskHigh},
		{"just below high boundary", 0.39999, balanced, stats(51, 49, 20, false), models.RiskMedium},
		{"high on chi shift", 0.55, balanced, stats(50, 50, 25, false), models.RiskHigh},
		{"high usage without shift", 0.90, balanced, balanced, models.RiskMedium},
		{"medium by usage alone", 0.18, balanced, balanced, models.RiskMedium},
		{"medium by imbalance", 0.08, balanced, stats(101, 99, 20, false), models.RiskMedium},
		{"medium by chi shift", 0.08, balanced, stats(50, 50, 22, false), models.RiskMedium},
		{"medium by suspicious", 0.12, balanced, stats(50, 50, 20, true), models.RiskMedium},
		{"suspicious below usage", 0.11, balanced, stats(50, 50, 20, true), models.RiskLow},
		{"shift below usage", 0.07, balanced, stats(60, 40, 80, true), models.RiskLow},
		{"low", 0.01, balanced, balanced, models.RiskLow},
		{"usage clamped above", 7.5, balanced, stats(51, 49, 20, false), models.RiskHigh},
		{"usage clamped below", -3, balanced, stats(90, 10, 500, true), models.RiskLow},
	} {
		t.Run(tc.name, func(t *testing.T) {
			got := EvaluateRisk(tc.usage, tc.original, tc.embedded)
			assert.Equal(t, tc.want, got.Level)
		})
	}
}

func TestEvaluateRisk_ZeroOriginalChi(t *testing.T) {
	// any chi change against a zero baseline is a large relative shift
	got := EvaluateRisk(0.45, stats(50, 50, 0, false), stats(50, 50, 0.5, false))
	assert.Equal(t, models.RiskHigh, got.Level)
}

func TestEvaluateRisk_ReasonCarriesPercentage(t *testing.T) {
	got := EvaluateRisk(0.0123, stats(50, 50, 1, false), stats(50, 50, 1, false))
	assert.Contains(t, got.Reason, "1.2%")

	got = EvaluateRisk(2, stats(50, 50, 1, false), stats(70, 30, 1, false))
	assert.Contains(t, got.Reason, "100.0%")
}

func TestUsageRatio(t *testing.T) {
	assert.Equal(t, 0.0, UsageRatio(10, 0))
	assert.InDelta(t, 0.5, UsageRatio(10, 20), 1e-12)
}

func TestAssess_Scenario128(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 128, 128))
	for y := 0; y < 128; y++ {
		for x := 0; x < 128; x++ {
			img.SetNRGBA(x, y, color.NRGBA{uint8((x*2 + y) % 256), uint8((y*3 + 17) % 256), uint8(((x + y) * 5) % 256), 255})
		}
	}
	encoded, err := stego.EmbedText(img, "test", "", 1, stego.Sequential)
	require.NoError(t, err)

	capacity := stego.CapacityBytes(128, 128, 1)
	got := Assess(img, encoded, len("test"), capacity)

	assert.InDelta(t, 4.0/6140.0, got.UsageRatio, 1e-12)
	assert.Equal(t, models.RiskLow, got.Risk.Level)
	assert.Equal(t, 128*128*3, got.Original.Total())
	assert.Equal(t, 128*128*3, got.Embedded.Total())
}

func TestAssess_NilImagesAreNeutral(t *testing.T) {
	got := Assess(nil, nil, 0, 0)
	assert.Zero(t, got.Original.Chi2)
	assert.Equal(t, models.RiskLow, got.Risk.Level)
}
