// Package hexstr converts between the hex-line representation used by
// ciphertext files and raw byte slices.
package hexstr

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMalformedHex is returned when input is not a whole number of hex
// byte pairs or contains a character outside [0-9A-Fa-f].
var ErrMalformedHex = errors.New("malformed hex")

const upperHexDigits = "0123456789ABCDEF"

func nibble(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}

// Decode parses a hex string into bytes. Case-insensitive, no
// separators. Two hex characters per byte, most significant nibble
// first.
func Decode(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, fmt.Errorf("%w: odd length %d", ErrMalformedHex, len(s))
	}
	out := make([]byte, len(s)/2)
	for i := 0; i < len(s); i += 2 {
		hi, ok := nibble(s[i])
		if !ok {
			return nil, fmt.Errorf("%w: invalid character %q at position %d", ErrMalformedHex, s[i], i)
		}
		lo, ok := nibble(s[i+1])
		if !ok {
			return nil, fmt.Errorf("%w: invalid character %q at position %d", ErrMalformedHex, s[i+1], i+1)
		}
		out[i/2] = hi<<4 | lo
	}
	return out, nil
}

// Encode renders bytes as uppercase hex, two characters per byte.
// Decode(Encode(b)) round-trips for every b.
func Encode(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 2)
	for _, c := range b {
		sb.WriteByte(upperHexDigits[c>>4])
		sb.WriteByte(upperHexDigits[c&0x0f])
	}
	return sb.String()
}

// Valid reports whether s would decode without error.
func Valid(s string) bool {
	if len(s)%2 != 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if _, ok := nibble(s[i]); !ok {
			return false
		}
	}
	return true
}
