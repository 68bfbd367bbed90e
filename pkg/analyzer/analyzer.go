package analyzer

/*
analyzer.go combines the chi-square LSB test with the risk classifier.
Assess runs the test on both images and classifies the pair in one call.
UsageRatio turns a payload size and a capacity into the classifier input.
*/

import (
	"image"

	"StegoLab/pkg/analyzer/image/lsb"
	"StegoLab/pkg/models"
)

// UsageRatio is payloadBytes / capacity, or 0 when the capacity is 0
func UsageRatio(payloadBytes, capacity int) float64 {
	if capacity <= 0 {
		return 0
	}
	return float64(payloadBytes) / float64(capacity)
}

// Assess computes LSB statistics of original and embedded and classifies the risk
func Assess(original, embedded image.Image, payloadBytes, capacity int) models.Assessment {
	statsOriginal := lsb.ChiSquareLSB(original)
	statsEmbedded := lsb.ChiSquareLSB(embedded)
	usage := UsageRatio(payloadBytes, capacity)

	return models.Assessment{
		Original:   statsOriginal,
		Embedded:   statsEmbedded,
		UsageRatio: usage,
		Risk:       EvaluateRisk(usage, statsOriginal, statsEmbedded),
	}
}
