// Package xorbyte holds the XOR primitive every analysis step composes.
package xorbyte

import (
	"errors"
	"fmt"
)

// ErrLengthMismatch is returned when the operands of an XOR do not have
// the same length. The engine refuses rather than truncates or pads.
var ErrLengthMismatch = errors.New("length mismatch")

// XOR returns the byte-wise XOR of two equal-length slices.
func XOR(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d vs %d bytes", ErrLengthMismatch, len(a), len(b))
	}
	dst := make([]byte, len(a))
	XORInto(dst, a, b)
	return dst, nil
}

// XORInto writes a[i]^b[i] into dst. All three slices must have the
// same length; the caller guarantees it. dst may alias a or b.
func XORInto(dst, a, b []byte) {
	for i := range a {
		dst[i] = a[i] ^ b[i]
	}
}
