package visual

import (
	"image"
	"math"
)

// Heatmap renders a delta map with a blue-green-red ramp, scaled so the
// largest delta maps to the hot end.
func Heatmap(d *DeltaMap) *image.NRGBA {
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))
	norm := normalize(d)
	for i, v := range norm {
		t := float64(v) / 255
		r := clampUnit((t - 0.28) * 2.3)
		g := clampUnit(1 - math.Abs(t-0.55)*2)
		b := math.Max(0.12, math.Min(1, 1-t*1.15))
		px := out.Pix[i*4 : i*4+4]
		px[0] = uint8(r * 255)
		px[1] = uint8(g * 255)
		px[2] = uint8(b * 255)
		px[3] = 0xff
	}
	return out
}

// Amplified multiplies every delta by factor and maps the result onto a warm
// ramp so single-LSB changes become visible.
func Amplified(d *DeltaMap, factor int) *image.NRGBA {
	if factor < 1 {
		factor = 1
	}
	out := image.NewNRGBA(image.Rect(0, 0, d.Width, d.Height))

	maxAmp := 0.0
	amp := make([]float64, d.Size())
	for i, v := range d.Values {
		amp[i] = math.Min(255, float64(v)*float64(factor))
		maxAmp = math.Max(maxAmp, amp[i])
	}
	for i, a := range amp {
		if maxAmp > 0 {
			a = a / maxAmp * 255
		}
		mag := a / 255
		px := out.Pix[i*4 : i*4+4]
		px[0] = clampChannel(math.Pow(mag, 0.7) * 255)
		px[1] = clampChannel(mag*210 + 6)
		px[2] = clampChannel(math.Pow(mag, 1.6)*70 + 26)
		px[3] = 0xff
	}
	return out
}

func normalize(d *DeltaMap) []uint8 {
	out := make([]uint8, d.Size())
	var maxVal uint8
	for _, v := range d.Values {
		if v > maxVal {
			maxVal = v
		}
	}
	if maxVal == 0 {
		return out
	}
	for i, v := range d.Values {
		out[i] = clampChannel(float64(v) / float64(maxVal) * 255)
	}
	return out
}

func clampUnit(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}

func clampChannel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
