package lsb

import (
	"image"

	"StegoLab/pkg/models"
)

// SuspiciousChi2 is the empirical chi-square value above which the LSB
// distribution is flagged. It is not calibrated against a p-value.
const SuspiciousChi2 = 10.0

var channelNames = [3]string{"R", "G", "B"}

// ChiSquareLSB counts zero and one LSBs over every R, G and B sample of img and
// computes the two-bin chi-square statistic against an even split.
// A nil or empty image yields zero statistics.
func ChiSquareLSB(img image.Image) models.RiskStats {
	if img == nil {
		return models.RiskStats{}
	}

	var zeros, ones [3]int
	bounds := img.Bounds()

	if n, ok := img.(*image.NRGBA); ok {
		w, h := bounds.Dx(), bounds.Dy()
		for y := 0; y < h; y++ {
			row := n.Pix[y*n.Stride : y*n.Stride+w*4]
			for x := 0; x < w*4; x += 4 {
				for c := 0; c < 3; c++ {
					if row[x+c]&1 == 0 {
						zeros[c]++
					} else {
						ones[c]++
					}
				}
			}
		}
	} else {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				r, g, b, _ := img.At(x, y).RGBA()

				// RGBA() is 16-bit; the top byte is the 8-bit sample
				for c, v := range [3]uint32{r, g, b} {
					if uint8(v>>8)&1 == 0 {
						zeros[c]++
					} else {
						ones[c]++
					}
				}
			}
		}
	}

	stats := models.RiskStats{Channels: make([]models.ChannelCounts, 3)}
	for c := 0; c < 3; c++ {
		stats.ZeroBits += zeros[c]
		stats.OneBits += ones[c]
		stats.Channels[c] = models.ChannelCounts{Channel: channelNames[c], ZeroBits: zeros[c], OneBits: ones[c]}
	}

	total := stats.Total()
	if total == 0 {
		return models.RiskStats{}
	}

	expected := float64(total) / 2.0
	dz := float64(stats.ZeroBits) - expected
	do := float64(stats.OneBits) - expected
	stats.Chi2 = dz*dz/expected + do*do/expected
	stats.Suspicious = stats.Chi2 > SuspiciousChi2
	return stats
}
