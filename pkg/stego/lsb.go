package stego

import (
	"encoding/binary"
	"fmt"
	"image"
)

// carrierWalker yields carrier bit addresses in raster order (y outer, x inner),
// consuming the carrier order once per pixel.
type carrierWalker struct {
	pix    []uint8
	stride int
	width  int
	order  []Slot
	pos    int
	total  int
}

func newCarrierWalker(img *image.NRGBA, order []Slot) *carrierWalker {
	w, h := img.Rect.Dx(), img.Rect.Dy()
	return &carrierWalker{
		pix:    img.Pix,
		stride: img.Stride,
		width:  w,
		order:  order,
		total:  w * h * len(order),
	}
}

func (c *carrierWalker) remaining() int {
	return c.total - c.pos
}

// next returns the Pix offset and bit mask of the next carrier slot
func (c *carrierWalker) next() (int, uint8) {
	pixel := c.pos / len(c.order)
	slot := c.order[c.pos%len(c.order)]
	c.pos++
	y, x := pixel/c.width, pixel%c.width
	return y*c.stride + x*4 + slot.Channel, uint8(1) << uint(slot.Bit)
}

// readBytes assembles n bytes MSB first. The caller checks remaining() beforehand.
func (c *carrierWalker) readBytes(n int) []byte {
	out := make([]byte, n)
	for i := range out {
		var b byte
		for k := 0; k < 8; k++ {
			off, mask := c.next()
			b <<= 1
			if c.pix[off]&mask != 0 {
				b |= 1
			}
		}
		out[i] = b
	}
	return out
}

// Embed writes payload into a copy of img, one bit per carrier slot, and stops as
// soon as the payload is exhausted. The input image is never modified.
func Embed(img image.Image, payload []byte, bitsPerChannel int, method Method) (*image.NRGBA, error) {
	order, err := CarrierOrder(bitsPerChannel, method)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image provided", ErrInvalidParameter)
	}

	out := ToNRGBA(img)
	walker := newCarrierWalker(out, order)
	requested := len(payload) * 8
	if requested > walker.total {
		return nil, &CapacityError{RequestedBits: requested, AvailableBits: walker.total}
	}

	for i := 0; i < requested; i++ {
		bit := (payload[i>>3] >> (7 - uint(i&7))) & 1
		off, mask := walker.next()
		if bit == 1 {
			out.Pix[off] |= mask
		} else {
			out.Pix[off] &^= mask
		}
	}
	return out, nil
}

// Extract reads the length header and the declared body back out of img.
// The returned slice includes the 4-byte header, ready for Unframe.
func Extract(img image.Image, bitsPerChannel int, method Method) ([]byte, error) {
	order, err := CarrierOrder(bitsPerChannel, method)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, fmt.Errorf("%w: nil image provided", ErrInvalidParameter)
	}

	src := AsNRGBA(img)
	walker := newCarrierWalker(src, order)
	if walker.remaining() < HeaderSize*8 {
		return nil, fmt.Errorf("%w: %d carrier bits available", ErrMissingHeader, walker.remaining())
	}

	header := walker.readBytes(HeaderSize)
	declared := binary.BigEndian.Uint32(header)
	capacity := CapacityBytes(src.Rect.Dx(), src.Rect.Dy(), bitsPerChannel)
	if uint64(declared) > uint64(capacity) {
		return nil, fmt.Errorf("%w: header declares %d bytes, capacity is %d", ErrInvalidLength, declared, capacity)
	}

	need := int(declared) * 8
	if walker.remaining() < need {
		return nil, fmt.Errorf("%w: need %d bits, %d left", ErrIncompletePayload, need, walker.remaining())
	}
	body := walker.readBytes(int(declared))
	return append(header, body...), nil
}

// EmbedText frames message with password and embeds it
func EmbedText(img image.Image, message, password string, bitsPerChannel int, method Method) (*image.NRGBA, error) {
	return Embed(img, Frame(message, password), bitsPerChannel, method)
}

// ExtractText extracts and unframes a message embedded by EmbedText
func ExtractText(img image.Image, password string, bitsPerChannel int, method Method) (string, error) {
	payload, err := Extract(img, bitsPerChannel, method)
	if err != nil {
		return "", err
	}
	return Unframe(payload, password)
}
