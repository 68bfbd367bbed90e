package stego

import (
	"fmt"
	"strings"
)

// Method selects the order in which (channel, bit) slots of a pixel are visited
type Method string

const (
	// Sequential visits every bit of R, then G, then B
	Sequential Method = "sequential"
	// Interleaved visits R, G, B for bit 0, then R, G, B for bit 1, ...
	Interleaved Method = "interleaved"
)

// Methods lists the supported traversal methods in sweep order
var Methods = []Method{Sequential, Interleaved}

// BitDepths lists the supported bits per channel
var BitDepths = []int{1, 2, 3}

// Slot addresses one carrier bit inside a pixel
type Slot struct {
	Channel int // 0=R, 1=G, 2=B
	Bit     int // 0 is the least significant bit
}

// ParseMethod converts a user supplied name into a Method
func ParseMethod(name string) (Method, error) {
	m := Method(strings.ToLower(strings.TrimSpace(name)))
	if m != Sequential && m != Interleaved {
		return "", fmt.Errorf("%w: unknown embedding method %q", ErrInvalidParameter, name)
	}
	return m, nil
}

// ValidateParams checks bits per channel and method before any pixel is touched
func ValidateParams(bitsPerChannel int, method Method) error {
	if bitsPerChannel < 1 || bitsPerChannel > 3 {
		return fmt.Errorf("%w: only 1, 2 or 3 bits per channel are supported, got %d", ErrInvalidParameter, bitsPerChannel)
	}
	if method != Sequential && method != Interleaved {
		return fmt.Errorf("%w: unknown embedding method %q", ErrInvalidParameter, method)
	}
	return nil
}

// CarrierOrder returns the 3*bitsPerChannel slots of a pixel in visiting order.
// Both methods yield permutations of the same slot set.
func CarrierOrder(bitsPerChannel int, method Method) ([]Slot, error) {
	if err := ValidateParams(bitsPerChannel, method); err != nil {
		return nil, err
	}

	order := make([]Slot, 0, 3*bitsPerChannel)
	if method == Interleaved {
		for bit := 0; bit < bitsPerChannel; bit++ {
			for channel := 0; channel < 3; channel++ {
				order = append(order, Slot{Channel: channel, Bit: bit})
			}
		}
		return order, nil
	}

	for channel := 0; channel < 3; channel++ {
		for bit := 0; bit < bitsPerChannel; bit++ {
			order = append(order, Slot{Channel: channel, Bit: bit})
		}
	}
	return order, nil
}

// CapacityBytes is the largest message body embeddable at the given depth:
// floor(w*h*3*bits/8) - 4, never negative.
func CapacityBytes(width, height, bitsPerChannel int) int {
	if width <= 0 || height <= 0 || bitsPerChannel <= 0 {
		return 0
	}
	total := (width * height * 3 * bitsPerChannel) / 8
	if total-HeaderSize < 0 {
		return 0
	}
	return total - HeaderSize
}
