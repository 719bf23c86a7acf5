package analysis

import (
	"fmt"

	"github.com/jmallek/depad/pkg/score"
	"github.com/jmallek/depad/pkg/xorbyte"
)

// DragResult is the outcome of testing a crib at one offset of one
// pair: the fragment of the other plaintext that the crib would imply,
// and its plausibility verdict. The engine suppresses nothing;
// filtering by verdict is the caller's policy.
type DragResult struct {
	PairI, PairJ int
	Offset       int
	Fragment     []byte
	Verdict      score.Verdict
}

// StopFunc lets a caller end a drag sweep early, typically after the
// first sufficiently plausible hit. Returning true stops the sweep
// after the result it was called with.
type StopFunc func(DragResult) bool

// Drag slides crib across every byte offset of the pair's key-free
// sequence, recovering at each offset the complementary fragment
// xor(keyFree[o:o+L], crib). If the crib equals P_I[o:o+L] the fragment
// is exactly P_J[o:o+L], and symmetrically. Offsets ascend from 0 to
// len(keyFree)-len(crib); every offset produces one result.
func Drag(pair Pair, crib []byte, scorer score.Scorer) ([]DragResult, error) {
	return DragFunc(pair, crib, scorer, nil)
}

// DragFunc is Drag with an optional early-stop predicate. A nil stop
// scans all offsets.
func DragFunc(pair Pair, crib []byte, scorer score.Scorer, stop StopFunc) ([]DragResult, error) {
	if len(crib) > len(pair.KeyFree) {
		return nil, fmt.Errorf("%w: crib %d bytes, sequence %d bytes",
			ErrCribTooLong, len(crib), len(pair.KeyFree))
	}
	results := make([]DragResult, 0, len(pair.KeyFree)-len(crib)+1)
	for o := 0; o+len(crib) <= len(pair.KeyFree); o++ {
		fragment := make([]byte, len(crib))
		xorbyte.XORInto(fragment, pair.KeyFree[o:o+len(crib)], crib)
		r := DragResult{
			PairI:    pair.I,
			PairJ:    pair.J,
			Offset:   o,
			Fragment: fragment,
			Verdict:  scorer.Score(fragment),
		}
		results = append(results, r)
		if stop != nil && stop(r) {
			break
		}
	}
	return results, nil
}

// KeySpan is a recovered stretch of the shared pad key: the bytes of
// the key stream covering [Offset, Offset+len(Key)). Obtained from a
// confirmed crib, it decodes the same span of every other ciphertext.
type KeySpan struct {
	Offset int
	Key    []byte
}

// End returns the exclusive end offset of the span.
func (k KeySpan) End() int { return k.Offset + len(k.Key) }

// ConfirmKey turns a crib the analyst believes is correct at offset
// into key material, by XORing it against the original ciphertext (not
// a pair XOR): C = xor(P, K), so xor(C, P) = K.
func ConfirmKey(ciphertext, crib []byte, offset int) (KeySpan, error) {
	if offset < 0 {
		return KeySpan{}, fmt.Errorf("negative offset %d", offset)
	}
	if offset+len(crib) > len(ciphertext) {
		return KeySpan{}, fmt.Errorf("%w: offset %d + crib %d bytes exceeds %d-byte ciphertext",
			ErrCribTooLong, offset, len(crib), len(ciphertext))
	}
	key := make([]byte, len(crib))
	xorbyte.XORInto(key, ciphertext[offset:offset+len(crib)], crib)
	return KeySpan{Offset: offset, Key: key}, nil
}

// ApplySpan decodes the span's range of another ciphertext sharing the
// key, returning only the plaintext bytes the span covers.
func ApplySpan(span KeySpan, ciphertext []byte) ([]byte, error) {
	if span.Offset < 0 || span.End() > len(ciphertext) {
		return nil, fmt.Errorf("%w: span [%d,%d) outside %d-byte ciphertext",
			ErrCribTooLong, span.Offset, span.End(), len(ciphertext))
	}
	plain := make([]byte, len(span.Key))
	xorbyte.XORInto(plain, ciphertext[span.Offset:span.End()], span.Key)
	return plain, nil
}
