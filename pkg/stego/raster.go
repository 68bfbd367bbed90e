package stego

import (
	"image"

	"golang.org/x/image/draw"
)

// ToNRGBA copies img into a fresh opaque 8-bit RGB raster anchored at (0,0).
// Alpha is forced to 255; only the three color channels carry data.
func ToNRGBA(img image.Image) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	for i := 3; i < len(dst.Pix); i += 4 {
		dst.Pix[i] = 0xff
	}
	return dst
}

// AsNRGBA returns img as an NRGBA without copying when it already is one.
// The result must be treated as read-only.
func AsNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok {
		return n
	}
	return ToNRGBA(img)
}
