// Package otp is the lab-side encryptor: a plain one-time pad over
// printable ASCII, used to fabricate ciphertext sets for analysis
// exercises. It is not part of the analysis path.
package otp

import (
	"errors"
	"fmt"

	"github.com/jmallek/depad/pkg/xorbyte"
)

// ErrUnprintable is returned when plaintext or key contain bytes
// outside printable ASCII. Lab messages are English sentences; anything
// else is almost certainly an input mistake.
var ErrUnprintable = errors.New("unprintable byte")

func validatePrintable(name string, data []byte) error {
	for i, b := range data {
		if b < 32 || b > 126 {
			return fmt.Errorf("%s: %w 0x%02X at position %d", name, ErrUnprintable, b, i)
		}
	}
	return nil
}

// Encrypt XORs plaintext with an equal-length key. Fails with
// xorbyte.ErrLengthMismatch when lengths differ and with ErrUnprintable
// when either input leaves printable ASCII. Decryption is the same
// operation with ciphertext in place of plaintext.
func Encrypt(plaintext, key []byte) ([]byte, error) {
	if err := validatePrintable("plaintext", plaintext); err != nil {
		return nil, err
	}
	if err := validatePrintable("key", key); err != nil {
		return nil, err
	}
	if len(plaintext) != len(key) {
		return nil, fmt.Errorf("key %d bytes, plaintext %d bytes: %w",
			len(key), len(plaintext), xorbyte.ErrLengthMismatch)
	}
	out, err := xorbyte.XOR(plaintext, key)
	if err != nil {
		return nil, err
	}
	return out, nil
}
