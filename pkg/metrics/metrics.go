// Package metrics measures how far an embedded raster drifted from its original.
package metrics

import (
	"errors"
	"fmt"
	"image"
	"math"

	"StegoLab/pkg/models"
	"StegoLab/pkg/stego"
)

const (
	dataRange = 255.0
	winSize   = 7
	k1        = 0.01
	k2        = 0.03
)

var (
	ErrDimensionMismatch = errors.New("images differ in size")
	ErrImageTooSmall     = errors.New("image smaller than the SSIM window")
)

// Compare returns PSNR, MSE and SSIM between a and b over the R, G and B channels.
// PSNR is +Inf when the images are identical.
func Compare(a, b image.Image) (models.QualityMetrics, error) {
	if a == nil || b == nil {
		return models.QualityMetrics{}, errors.New("nil image provided")
	}
	na, nb := stego.AsNRGBA(a), stego.AsNRGBA(b)
	if na.Rect.Dx() != nb.Rect.Dx() || na.Rect.Dy() != nb.Rect.Dy() {
		return models.QualityMetrics{}, fmt.Errorf("%w: %v vs %v", ErrDimensionMismatch, na.Rect.Size(), nb.Rect.Size())
	}

	mse := MSE(na, nb)
	ssim, err := SSIM(na, nb)
	if err != nil {
		return models.QualityMetrics{}, err
	}
	return models.QualityMetrics{PSNR: PSNR(mse), MSE: mse, SSIM: ssim}, nil
}

// MSE is the mean squared error over every color sample. Both images must share a size.
func MSE(a, b *image.NRGBA) float64 {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w == 0 || h == 0 {
		return 0
	}
	var sum float64
	for y := 0; y < h; y++ {
		ra := a.Pix[y*a.Stride : y*a.Stride+w*4]
		rb := b.Pix[y*b.Stride : y*b.Stride+w*4]
		for x := 0; x < w*4; x += 4 {
			for c := 0; c < 3; c++ {
				d := float64(ra[x+c]) - float64(rb[x+c])
				sum += d * d
			}
		}
	}
	return sum / float64(w*h*3)
}

// PSNR converts a mean squared error into decibels for 8-bit data
func PSNR(mse float64) float64 {
	if mse == 0 {
		return math.Inf(1)
	}
	return 10 * math.Log10(dataRange*dataRange/mse)
}

// SSIM is the mean structural similarity over 7x7 uniform windows that lie fully
// inside the image, using sample covariance, averaged over the three channels.
func SSIM(a, b *image.NRGBA) (float64, error) {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	if w < winSize || h < winSize {
		return 0, fmt.Errorf("%w: %dx%d < %dx%d", ErrImageTooSmall, w, h, winSize, winSize)
	}

	c1 := (k1 * dataRange) * (k1 * dataRange)
	c2 := (k2 * dataRange) * (k2 * dataRange)
	np := float64(winSize * winSize)
	covNorm := np / (np - 1)

	var total float64
	for c := 0; c < 3; c++ {
		t := newTables(a, b, c)
		var sum float64
		for y := 0; y+winSize <= h; y++ {
			for x := 0; x+winSize <= w; x++ {
				ux := t.sx.window(x, y) / np
				uy := t.sy.window(x, y) / np
				uxx := t.sxx.window(x, y) / np
				uyy := t.syy.window(x, y) / np
				uxy := t.sxy.window(x, y) / np

				vx := covNorm * (uxx - ux*ux)
				vy := covNorm * (uyy - uy*uy)
				vxy := covNorm * (uxy - ux*uy)

				num := (2*ux*uy + c1) * (2*vxy + c2)
				den := (ux*ux + uy*uy + c1) * (vx + vy + c2)
				sum += num / den
			}
		}
		total += sum / float64((w-winSize+1)*(h-winSize+1))
	}
	return total / 3, nil
}

// integral is a summed-area table with one row and column of zero padding
type integral struct {
	w    int
	vals []float64
}

func (s integral) at(x, y int) float64 {
	return s.vals[y*(s.w+1)+x]
}

func (s integral) window(x, y int) float64 {
	return s.at(x+winSize, y+winSize) - s.at(x, y+winSize) - s.at(x+winSize, y) + s.at(x, y)
}

type tables struct {
	sx, sy, sxx, syy, sxy integral
}

func newTables(a, b *image.NRGBA, channel int) tables {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	size := (w + 1) * (h + 1)
	t := tables{
		sx:  integral{w, make([]float64, size)},
		sy:  integral{w, make([]float64, size)},
		sxx: integral{w, make([]float64, size)},
		syy: integral{w, make([]float64, size)},
		sxy: integral{w, make([]float64, size)},
	}
	stride := w + 1
	for y := 0; y < h; y++ {
		var rx, ry, rxx, ryy, rxy float64
		for x := 0; x < w; x++ {
			xv := float64(a.Pix[y*a.Stride+x*4+channel])
			yv := float64(b.Pix[y*b.Stride+x*4+channel])
			rx += xv
			ry += yv
			rxx += xv * xv
			ryy += yv * yv
			rxy += xv * yv

			i := (y+1)*stride + x + 1
			up := y*stride + x + 1
			t.sx.vals[i] = t.sx.vals[up] + rx
			t.sy.vals[i] = t.sy.vals[up] + ry
			t.sxx.vals[i] = t.sxx.vals[up] + rxx
			t.syy.vals[i] = t.syy.vals[up] + ryy
			t.sxy.vals[i] = t.sxy.vals[up] + rxy
		}
	}
	return t
}
