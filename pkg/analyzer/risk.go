package analyzer

import (
	"fmt"
	"math"

	"StegoLab/pkg/models"
)

// Decision thresholds of the risk classifier. The values are empirical and are
// kept as-is for compatibility with previously generated reports.
const (
	highUsage      = 0.40
	highImbalance  = 0.02
	highChiShift   = 0.20
	mediumUsage    = 0.18
	shiftUsage     = 0.08
	mediumImbal    = 0.01
	mediumChiShift = 0.08
	suspectUsage   = 0.12
	chiEpsilon     = 1e-9
)

func imbalance(s models.RiskStats) float64 {
	total := math.Max(1, float64(s.Total()))
	return math.Abs(float64(s.ZeroBits-s.OneBits)) / total
}

// EvaluateRisk classifies detectability from the container usage ratio and the
// LSB statistics of the original and embedded images. First matching rule wins.
func EvaluateRisk(usageRatio float64, original, embedded models.RiskStats) models.RiskAssessment {
	usage := clamp01(usageRatio)

	deltaImbalance := math.Max(0, imbalance(embedded)-imbalance(original))
	chiShift := math.Abs(embedded.Chi2-original.Chi2) / math.Max(math.Abs(original.Chi2), chiEpsilon)
	pct := usage * 100

	if usage >= highUsage && (deltaImbalance >= highImbalance || chiShift >= highChiShift) {
		return models.RiskAssessment{
			Level:  models.RiskHigh,
			Reason: fmt.Sprintf("high container load (%.1f%%) and a noticeable LSB statistics shift", pct),
		}
	}
	if usage >= mediumUsage ||
		(usage >= shiftUsage && (deltaImbalance >= mediumImbal || chiShift >= mediumChiShift)) ||
		(usage >= suspectUsage && embedded.Suspicious) {
		return models.RiskAssessment{
			Level:  models.RiskMedium,
			Reason: fmt.Sprintf("moderate load (%.1f%%) or a moderate LSB distribution deviation", pct),
		}
	}
	return models.RiskAssessment{
		Level:  models.RiskLow,
		Reason: fmt.Sprintf("low load (%.1f%%) and minimal LSB statistics changes", pct),
	}
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
