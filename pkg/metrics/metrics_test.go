package metrics

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StegoLab/pkg/stego"
)

func makeTestImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x * 3) + y),
				G: uint8((y * 5) + 20),
				B: uint8((x + y) * 2),
				A: 255,
			})
		}
	}
	return img
}

func uniform(w, h int, v uint8) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := range img.Pix {
		img.Pix[i] = v
	}
	return img
}

func TestCompare_Identical(t *testing.T) {
	img := makeTestImage(32, 24)
	q, err := Compare(img, img)
	require.NoError(t, err)

	assert.Zero(t, q.MSE)
	assert.True(t, math.IsInf(q.PSNR, 1))
	assert.InDelta(t, 1.0, q.SSIM, 1e-12)
}

func TestMSEAndPSNR(t *testing.T) {
	a := uniform(10, 10, 0)
	b := uniform(10, 10, 1)

	assert.InDelta(t, 1.0, MSE(a, b), 1e-12)
	assert.InDelta(t, 48.1308, PSNR(1.0), 1e-4)
	assert.InDelta(t, 20*math.Log10(255/4.0), PSNR(16), 1e-9)
}

func TestSSIM_UniformShift(t *testing.T) {
	// zero variance windows reduce SSIM to the luminance term
	a := uniform(8, 8, 100)
	b := uniform(8, 8, 110)
	got, err := SSIM(a, b)
	require.NoError(t, err)

	c1 := (k1 * dataRange) * (k1 * dataRange)
	want := (2*100*110 + c1) / (100*100 + 110*110 + c1)
	assert.InDelta(t, want, got, 1e-9)
}

func TestCompare_EmbeddedIsClose(t *testing.T) {
	img := makeTestImage(96, 96)
	encoded, err := stego.EmbedText(img, "analysis-tools-demo", "pwd", 2, stego.Sequential)
	require.NoError(t, err)

	q, err := Compare(img, encoded)
	require.NoError(t, err)
	assert.Greater(t, q.MSE, 0.0)
	assert.Greater(t, q.PSNR, 40.0)
	assert.Less(t, q.SSIM, 1.0)
	assert.Greater(t, q.SSIM, 0.95)
}

func TestCompare_Errors(t *testing.T) {
	_, err := Compare(makeTestImage(6, 20), makeTestImage(6, 20))
	assert.ErrorIs(t, err, ErrImageTooSmall)

	_, err = Compare(makeTestImage(10, 10), makeTestImage(11, 10))
	assert.ErrorIs(t, err, ErrDimensionMismatch)

	_, err = Compare(nil, makeTestImage(10, 10))
	assert.Error(t, err)
}
