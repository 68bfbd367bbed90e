package filehandler

import (
	"image"
	"image/color"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

func makeImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x * 20), G: uint8(y * 20), B: 77, A: 255})
		}
	}
	return img
}

func TestSavePNG_LoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "out.png")
	src := makeImage(5, 4)
	require.NoError(t, SavePNG(src, path))

	img, format, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, src.Bounds(), img.Bounds())
	r, g, b, _ := img.At(3, 2).RGBA()
	assert.Equal(t, []uint32{60, 40, 77}, []uint32{r >> 8, g >> 8, b >> 8})
}

func TestLoadImage_BMP(t *testing.T) {
	path := filepath.Join(t.TempDir(), "in.bmp")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, bmp.Encode(f, makeImage(3, 3)))
	require.NoError(t, f.Close())

	_, format, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "bmp", format)
}

func TestLoadImage_URL(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, SavePNG(makeImage(2, 2), filepath.Join(dir, "a.png")))
	srv := httptest.NewServer(http.FileServer(http.Dir(dir)))
	defer srv.Close()

	img, format, err := LoadImage(srv.URL + "/a.png")
	require.NoError(t, err)
	assert.Equal(t, "png", format)
	assert.Equal(t, 2, img.Bounds().Dx())

	_, _, err = LoadImage(srv.URL + "/missing.png")
	assert.Error(t, err)
}

func TestLoadImage_Errors(t *testing.T) {
	_, _, err := LoadImage(filepath.Join(t.TempDir(), "none.png"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "junk.png")
	require.NoError(t, SaveFile([]byte("not an image"), path))
	_, _, err = LoadImage(path)
	assert.Error(t, err)
}

func TestDetectFileFormat(t *testing.T) {
	dir := t.TempDir()
	format, err := DetectFileFormat(filepath.Join(dir, "x.JPG"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg", format)

	noExt := filepath.Join(dir, "blob")
	require.NoError(t, SavePNG(makeImage(2, 2), noExt))
	format, err = DetectFileFormat(noExt)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	tiff := filepath.Join(dir, "tiffblob")
	require.NoError(t, SaveFile([]byte("II*\x00rest"), tiff))
	format, err = DetectFileFormat(tiff)
	require.NoError(t, err)
	assert.Equal(t, "tiff", format)

	text := filepath.Join(dir, "notes")
	require.NoError(t, SaveFile([]byte("hello"), text))
	_, err = DetectFileFormat(text)
	assert.Error(t, err)
}

func TestGatherImages(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.png", "a.bmp", "c.txt"} {
		require.NoError(t, SaveFile([]byte("x"), filepath.Join(dir, name)))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.png"), 0755))

	files, err := GatherImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "a.bmp"), filepath.Join(dir, "b.png")}, files)
	assert.True(t, IsURL("https://example.com/a.png"))
	assert.False(t, IsURL("/tmp/a.png"))
}
