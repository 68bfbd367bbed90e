package visual

import (
	"errors"
	"fmt"
	"image"
	"math"

	"StegoLab/pkg/metrics"
	"StegoLab/pkg/stego"
)

// ChannelProbe describes one color channel of a probed pixel
type ChannelProbe struct {
	Name       string `json:"name"`
	Before     uint8  `json:"before"`
	After      uint8  `json:"after"`
	Delta      int    `json:"delta"`
	BeforeBits string `json:"beforeBits"`
	AfterBits  string `json:"afterBits"`
	BeforeLSB  uint8  `json:"beforeLsb"`
	AfterLSB   uint8  `json:"afterLsb"`
}

// PixelProbe compares a single pixel of two rasters
type PixelProbe struct {
	X         int            `json:"x"`
	Y         int            `json:"y"`
	Before    [3]uint8       `json:"before"`
	After     [3]uint8       `json:"after"`
	Delta     [3]int         `json:"delta"`
	Changed   bool           `json:"changed"`
	Intensity int            `json:"intensity"` // max delta as a percentage of 255
	Channels  []ChannelProbe `json:"channels"`
}

var channelNames = [3]string{"R", "G", "B"}

// ProbePixel inspects (x, y) in both images. Coordinates outside the raster are
// clamped to the nearest edge.
func ProbePixel(original, modified image.Image, x, y int) (*PixelProbe, error) {
	if original == nil || modified == nil {
		return nil, errors.New("nil image provided")
	}
	a, b := stego.AsNRGBA(original), stego.AsNRGBA(modified)
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w == 0 || h == 0 {
		return nil, errors.New("empty image")
	}
	if w != b.Rect.Dx() || h != b.Rect.Dy() {
		return nil, fmt.Errorf("%w: %v vs %v", metrics.ErrDimensionMismatch, a.Rect.Size(), b.Rect.Size())
	}

	p := &PixelProbe{X: clampInt(x, 0, w-1), Y: clampInt(y, 0, h-1)}
	ia := p.Y*a.Stride + p.X*4
	ib := p.Y*b.Stride + p.X*4
	maxDelta := 0
	for c := 0; c < 3; c++ {
		before, after := a.Pix[ia+c], b.Pix[ib+c]
		p.Before[c], p.After[c] = before, after
		p.Delta[c] = int(absDiff(before, after))
		if p.Delta[c] > maxDelta {
			maxDelta = p.Delta[c]
		}
		p.Channels = append(p.Channels, ChannelProbe{
			Name:       channelNames[c],
			Before:     before,
			After:      after,
			Delta:      int(after) - int(before),
			BeforeBits: fmt.Sprintf("%08b", before),
			AfterBits:  fmt.Sprintf("%08b", after),
			BeforeLSB:  before & 1,
			AfterLSB:   after & 1,
		})
	}
	p.Changed = maxDelta > 0
	p.Intensity = int(math.RoundToEven(float64(maxDelta) / 255 * 100))
	return p, nil
}
