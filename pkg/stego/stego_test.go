package stego

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeGradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{
				R: uint8((x*2 + y) % 256),
				G: uint8((y*3 + 17) % 256),
				B: uint8(((x + y) * 5) % 256),
				A: 255,
			})
		}
	}
	return img
}

func makeUniform(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func TestCarrierOrder_Layout(t *testing.T) {
	seq, err := CarrierOrder(2, Sequential)
	require.NoError(t, err)
	assert.Equal(t, []Slot{{0, 0}, {0, 1}, {1, 0}, {1, 1}, {2, 0}, {2, 1}}, seq)

	inter, err := CarrierOrder(2, Interleaved)
	require.NoError(t, err)
	assert.Equal(t, []Slot{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}, inter)
}

func TestCarrierOrder_SameSlotSet(t *testing.T) {
	for _, bits := range BitDepths {
		seq, err := CarrierOrder(bits, Sequential)
		require.NoError(t, err)
		inter, err := CarrierOrder(bits, Interleaved)
		require.NoError(t, err)

		assert.Len(t, seq, 3*bits)
		assert.ElementsMatch(t, seq, inter, "bits=%d", bits)
	}
}

func TestCarrierOrder_InvalidParameters(t *testing.T) {
	for _, tc := range []struct {
		name   string
		bits   int
		method Method
	}{
		{"zero bits", 0, Sequential},
		{"four bits", 4, Interleaved},
		{"unknown method", 1, Method("zigzag")},
		{"empty method", 2, Method("")},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := CarrierOrder(tc.bits, tc.method)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod(" Interleaved ")
	require.NoError(t, err)
	assert.Equal(t, Interleaved, m)

	_, err = ParseMethod("random")
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCapacityBytes(t *testing.T) {
	assert.Equal(t, 6140, CapacityBytes(128, 128, 1))
	assert.Equal(t, 20, CapacityBytes(8, 8, 1))
	assert.Equal(t, 0, CapacityBytes(1, 1, 3))
	assert.Equal(t, 0, CapacityBytes(0, 100, 2))

	prev := -1
	for side := 1; side <= 40; side++ {
		for _, bits := range BitDepths {
			c := CapacityBytes(side, side, bits)
			assert.GreaterOrEqual(t, c, 0)
			assert.GreaterOrEqual(t, c, CapacityBytes(side-1, side, bits))
			assert.GreaterOrEqual(t, c, CapacityBytes(side, side-1, bits))
			if bits > 1 {
				assert.GreaterOrEqual(t, c, CapacityBytes(side, side, bits-1))
			}
		}
		c := CapacityBytes(side, side, 1)
		assert.GreaterOrEqual(t, c, prev)
		prev = c
	}
}

func TestRoundTrip_AllModes(t *testing.T) {
	img := makeGradient(64, 48)
	message := "Привет! round-trip check ✓"
	for _, bits := range BitDepths {
		for _, method := range Methods {
			t.Run(fmt.Sprintf("%s/%d", method, bits), func(t *testing.T) {
				encoded, err := EmbedText(img, message, "demo-pass", bits, method)
				require.NoError(t, err)
				decoded, err := ExtractText(encoded, "demo-pass", bits, method)
				require.NoError(t, err)
				assert.Equal(t, message, decoded)
			})
		}
	}
}

func TestRoundTrip_Scenario128(t *testing.T) {
	img := makeUniform(128, 128, color.NRGBA{93, 127, 149, 255})
	require.Equal(t, 6140, CapacityBytes(128, 128, 1))

	encoded, err := EmbedText(img, "test", "", 1, Sequential)
	require.NoError(t, err)
	decoded, err := ExtractText(encoded, "", 1, Sequential)
	require.NoError(t, err)
	assert.Equal(t, "test", decoded)
}

func TestEmbed_CapacityBoundary(t *testing.T) {
	img := makeGradient(8, 8)
	capacity := CapacityBytes(8, 8, 1)

	exact := make([]byte, capacity)
	for i := range exact {
		exact[i] = 'x'
	}
	encoded, err := EmbedText(img, string(exact), "", 1, Sequential)
	require.NoError(t, err)
	decoded, err := ExtractText(encoded, "", 1, Sequential)
	require.NoError(t, err)
	assert.Equal(t, string(exact), decoded)

	_, err = EmbedText(img, string(exact)+"x", "", 1, Sequential)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)

	var capErr *CapacityError
	require.True(t, errors.As(err, &capErr))
	assert.Equal(t, (capacity+1+HeaderSize)*8, capErr.RequestedBits)
	assert.Equal(t, 8*8*3, capErr.AvailableBits)
}

func TestEmbed_InvalidParametersBeforeImage(t *testing.T) {
	_, err := Embed(nil, []byte{1}, 5, Sequential)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = Extract(nil, 1, Method("diagonal"))
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestEmbed_BitWriteOrder(t *testing.T) {
	zero := makeUniform(2, 1, color.NRGBA{0, 0, 0, 255})

	inter, err := Embed(zero, []byte{0xA0}, 2, Interleaved)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 0, 1}, inter.Pix[0:3])

	seq, err := Embed(zero, []byte{0xA0}, 2, Sequential)
	require.NoError(t, err)
	assert.Equal(t, []uint8{1, 1, 0}, seq.Pix[0:3])
}

func TestEmbed_SetAndClearWithEarlyExit(t *testing.T) {
	img := makeUniform(3, 1, color.NRGBA{3, 3, 3, 255})

	out, err := Embed(img, []byte{0x80}, 1, Sequential)
	require.NoError(t, err)

	assert.Equal(t, []uint8{3, 2, 2, 255}, out.Pix[0:4])
	assert.Equal(t, []uint8{2, 2, 2, 255}, out.Pix[4:8])
	// ninth slot is never written
	assert.Equal(t, []uint8{2, 2, 3, 255}, out.Pix[8:12])
}

func TestEmbed_DoesNotMutateInput(t *testing.T) {
	img := makeGradient(32, 32)
	before := append([]uint8(nil), img.Pix...)

	out, err := EmbedText(img, "leave the source alone", "pw", 3, Interleaved)
	require.NoError(t, err)

	assert.Equal(t, before, img.Pix)
	assert.Equal(t, img.Rect, out.Rect)
	out.Pix[0] ^= 0xff
	assert.Equal(t, before, img.Pix)
}

func TestEmbed_RemainderUntouched(t *testing.T) {
	img := makeGradient(128, 128)
	out, err := EmbedText(img, "test", "", 1, Sequential)
	require.NoError(t, err)

	// 8 payload bytes = 64 bits = 22 pixels at 3 slots per pixel
	assert.Equal(t, img.Pix[22*4:], out.Pix[22*4:])
}

func TestExtract_CleanImage(t *testing.T) {
	img := makeUniform(128, 128, color.NRGBA{93, 127, 149, 255})
	_, err := ExtractText(img, "", 1, Sequential)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestExtract_MissingHeader(t *testing.T) {
	img := makeGradient(2, 2)
	_, err := Extract(img, 1, Sequential)
	assert.ErrorIs(t, err, ErrMissingHeader)
}

func TestExtract_WrongModeIsRejectedOrGarbled(t *testing.T) {
	img := makeGradient(64, 64)
	message := "mode sensitive message"
	encoded, err := EmbedText(img, message, "", 2, Interleaved)
	require.NoError(t, err)

	decoded, err := ExtractText(encoded, "", 1, Sequential)
	if err == nil {
		assert.NotEqual(t, message, decoded)
	}
}

func TestExtract_AcceptsOtherImageTypes(t *testing.T) {
	src := makeGradient(40, 30)
	encoded, err := EmbedText(src, "rgba input", "k", 1, Interleaved)
	require.NoError(t, err)

	rgba := image.NewRGBA(encoded.Rect)
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			rgba.Set(x, y, encoded.At(x, y))
		}
	}
	decoded, err := ExtractText(rgba, "k", 1, Interleaved)
	require.NoError(t, err)
	assert.Equal(t, "rgba input", decoded)
}
