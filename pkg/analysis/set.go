// Package analysis implements the pairwise-XOR crib-dragging attack on
// a set of ciphertexts that reused one pad key. XORing two such
// ciphertexts cancels the key and leaves the XOR of the two plaintexts;
// sliding a guessed fragment across that sequence exposes the matching
// fragment of the other message.
package analysis

import (
	"errors"
	"fmt"

	"github.com/jmallek/depad/pkg/xorbyte"
)

// ErrInsufficientCiphertexts is returned when fewer than two messages
// are supplied; the pairwise attack is undefined below that.
var ErrInsufficientCiphertexts = errors.New("need at least 2 ciphertexts")

// ErrCribTooLong is returned when a crib does not fit inside the
// sequence it is dragged across.
var ErrCribTooLong = errors.New("crib longer than target sequence")

// Set is an immutable collection of ciphertexts sharing one pad key.
// All entries have the same length; both invariants are checked at
// construction and can be relied on afterwards.
type Set struct {
	messages [][]byte
	length   int
}

// NewSet validates and copies the given ciphertexts. It fails with
// ErrInsufficientCiphertexts for fewer than two entries and with
// xorbyte.ErrLengthMismatch when entry lengths differ. The input slices
// are copied; later mutation of the caller's data does not leak in.
func NewSet(ciphertexts [][]byte) (Set, error) {
	if len(ciphertexts) < 2 {
		return Set{}, fmt.Errorf("%w: got %d", ErrInsufficientCiphertexts, len(ciphertexts))
	}
	length := len(ciphertexts[0])
	messages := make([][]byte, len(ciphertexts))
	for i, ct := range ciphertexts {
		if len(ct) != length {
			return Set{}, fmt.Errorf("ciphertext %d: %w: %d vs %d bytes",
				i, xorbyte.ErrLengthMismatch, len(ct), length)
		}
		messages[i] = append([]byte(nil), ct...)
	}
	return Set{messages: messages, length: length}, nil
}

// Len returns the number of ciphertexts.
func (s Set) Len() int { return len(s.messages) }

// MessageLen returns the common byte length of every ciphertext.
func (s Set) MessageLen() int { return s.length }

// Message returns a copy of ciphertext i.
func (s Set) Message(i int) []byte {
	return append([]byte(nil), s.messages[i]...)
}
