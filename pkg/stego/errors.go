package stego

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter is returned for unsupported bit depths or traversal methods
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrCapacityExceeded is matched by *CapacityError
	ErrCapacityExceeded = errors.New("payload exceeds carrier capacity")

	// Extraction outcomes on clean or damaged carriers
	ErrMissingHeader     = errors.New("no length header")
	ErrInvalidLength     = errors.New("declared length exceeds capacity")
	ErrIncompletePayload = errors.New("incomplete payload")

	// ErrTruncatedPayload is returned by Unframe when the buffer is shorter than its header says
	ErrTruncatedPayload = errors.New("truncated payload")
)

// CapacityError reports how many bits were requested and how many the carrier offers
type CapacityError struct {
	RequestedBits int
	AvailableBits int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("message too large (%d bits > %d)", e.RequestedBits, e.AvailableBits)
}

// Is lets errors.Is(err, ErrCapacityExceeded) match
func (e *CapacityError) Is(target error) bool {
	return target == ErrCapacityExceeded
}
