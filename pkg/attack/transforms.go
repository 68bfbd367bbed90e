package attack

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"math"
	"math/rand"

	"github.com/nfnt/resize"

	"StegoLab/pkg/stego"
)

// Baseline returns an untouched copy
func Baseline(img *image.NRGBA) (*image.NRGBA, error) {
	return stego.ToNRGBA(img), nil
}

// JPEGRoundTrip encodes img as JPEG at quality and decodes it again
func JPEGRoundTrip(img *image.NRGBA, quality int) (*image.NRGBA, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode JPEG: %w", err)
	}
	decoded, err := jpeg.Decode(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to decode JPEG: %w", err)
	}
	return stego.ToNRGBA(decoded), nil
}

// ResizeRoundTrip scales img down by scale (never below 8 px a side) and back up, bicubic both ways
func ResizeRoundTrip(img *image.NRGBA, scale float64) *image.NRGBA {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	nw := int(float64(w) * scale)
	if nw < 8 {
		nw = 8
	}
	nh := int(float64(h) * scale)
	if nh < 8 {
		nh = 8
	}
	small := resize.Resize(uint(nw), uint(nh), img, resize.Bicubic)
	restored := resize.Resize(uint(w), uint(h), small, resize.Bicubic)
	return stego.ToNRGBA(restored)
}

// AddNoise adds uniform noise in [-amplitude, amplitude] to every channel of a
// pixel with probability amount. The same seed always produces the same image.
func AddNoise(img *image.NRGBA, amount float64, amplitude int, seed int64) *image.NRGBA {
	out := stego.ToNRGBA(img)
	rng := rand.New(rand.NewSource(seed))
	w, h := out.Rect.Dx(), out.Rect.Dy()

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			off := y*out.Stride + x*4
			hit := rng.Float64() < amount
			for c := 0; c < 3; c++ {
				n := rng.Intn(2*amplitude+1) - amplitude
				if hit {
					out.Pix[off+c] = clampByte(float64(int(out.Pix[off+c]) + n))
				}
			}
		}
	}
	return out
}

// GaussianBlur applies a separable gaussian with standard deviation radius.
// Edges are extended by clamping.
func GaussianBlur(img *image.NRGBA, radius float64) *image.NRGBA {
	out := stego.ToNRGBA(img)
	if radius <= 0 {
		return out
	}
	kernel := gaussianKernel(radius)
	half := len(kernel) / 2
	w, h := out.Rect.Dx(), out.Rect.Dy()
	tmp := make([]float64, w*h*3)

	// horizontal pass into tmp
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				var acc float64
				for k, weight := range kernel {
					sx := clampInt(x+k-half, 0, w-1)
					acc += weight * float64(out.Pix[y*out.Stride+sx*4+c])
				}
				tmp[(y*w+x)*3+c] = acc
			}
		}
	}

	// vertical pass back into out
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			for c := 0; c < 3; c++ {
				var acc float64
				for k, weight := range kernel {
					sy := clampInt(y+k-half, 0, h-1)
					acc += weight * tmp[(sy*w+x)*3+c]
				}
				out.Pix[y*out.Stride+x*4+c] = clampByte(acc)
			}
		}
	}
	return out
}

func gaussianKernel(sigma float64) []float64 {
	half := int(math.Ceil(3 * sigma))
	kernel := make([]float64, 2*half+1)
	var sum float64
	for i := range kernel {
		d := float64(i - half)
		kernel[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
		sum += kernel[i]
	}
	for i := range kernel {
		kernel[i] /= sum
	}
	return kernel
}

func clampByte(v float64) uint8 {
	v = math.Round(v)
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
