package analysis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/jmallek/depad/pkg/analysis"
	"github.com/jmallek/depad/pkg/score"
	"github.com/jmallek/depad/pkg/xorbyte"
)

func mustSet(t *testing.T, messages ...[]byte) analysis.Set {
	t.Helper()
	set, err := analysis.NewSet(messages)
	require.NoError(t, err)
	return set
}

func mustXOR(t *testing.T, a, b []byte) []byte {
	t.Helper()
	out, err := xorbyte.XOR(a, b)
	require.NoError(t, err)
	return out
}

func TestNewSetTooFew(t *testing.T) {
	_, err := analysis.NewSet([][]byte{[]byte("only one")})
	assert.ErrorIs(t, err, analysis.ErrInsufficientCiphertexts)

	_, err = analysis.NewSet(nil)
	assert.ErrorIs(t, err, analysis.ErrInsufficientCiphertexts)
}

func TestNewSetLengthMismatch(t *testing.T) {
	_, err := analysis.NewSet([][]byte{[]byte("abc"), []byte("abcd")})
	assert.ErrorIs(t, err, xorbyte.ErrLengthMismatch)
}

func TestNewSetCopiesInput(t *testing.T) {
	raw := [][]byte{[]byte("abc"), []byte("xyz")}
	set := mustSet(t, raw...)
	raw[0][0] = '!'
	assert.Equal(t, []byte("abc"), set.Message(0))
}

func TestBuildPairsCountAndOrder(t *testing.T) {
	set := mustSet(t, []byte("aaa"), []byte("bbb"), []byte("ccc"), []byte("ddd"))
	pairs := analysis.BuildPairs(set)

	require.Len(t, pairs, 6) // C(4,2)
	expected := [][2]int{{0, 1}, {0, 2}, {0, 3}, {1, 2}, {1, 3}, {2, 3}}
	for n, pair := range pairs {
		assert.Equal(t, expected[n][0], pair.I)
		assert.Equal(t, expected[n][1], pair.J)
		assert.Equal(t, mustXOR(t, set.Message(pair.I), set.Message(pair.J)), pair.KeyFree)
	}

	again := analysis.BuildPairs(set)
	assert.Equal(t, pairs, again)
}

// xor(C1,C2) == xor(P1,P2) regardless of the key.
func TestKeyElimination(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 64).Draw(t, "n")
		p1 := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "p1")
		p2 := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "p2")
		key := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "key")

		c1, _ := xorbyte.XOR(p1, key)
		c2, _ := xorbyte.XOR(p2, key)
		keyFree, _ := xorbyte.XOR(c1, c2)
		plainXOR, _ := xorbyte.XOR(p1, p2)
		if string(keyFree) != string(plainXOR) {
			t.Fatalf("key not cancelled: %x != %x", keyFree, plainXOR)
		}
	})
}

func TestDragRecoversOtherPlaintext(t *testing.T) {
	key := []byte("fifteen byte ky")
	p1 := []byte("HELLO WORLD!!!!")
	p2 := []byte("GOODBYE CRUEL X")

	c1, err := xorbyte.XOR(p1, key)
	require.NoError(t, err)
	c2, err := xorbyte.XOR(p2, key)
	require.NoError(t, err)

	set := mustSet(t, c1, c2)
	pairs := analysis.BuildPairs(set)
	require.Len(t, pairs, 1)

	results, err := analysis.Drag(pairs[0], []byte("HELLO"), score.NewRatioScorer())
	require.NoError(t, err)
	require.Len(t, results, 11) // offsets 0..10

	at0 := results[0]
	assert.Equal(t, 0, at0.Offset)
	assert.Equal(t, []byte("GOODB"), at0.Fragment)
	assert.True(t, at0.Verdict.Plausible)
	assert.Equal(t, 1.0, at0.Verdict.PrintableRatio)
}

func TestDragOffsetsAscendAndComplete(t *testing.T) {
	set := mustSet(t, []byte("0123456789"), []byte("abcdefghij"))
	pair := analysis.BuildPairs(set)[0]

	results, err := analysis.Drag(pair, []byte("abc"), score.NewRatioScorer())
	require.NoError(t, err)
	require.Len(t, results, 8)
	for n, r := range results {
		assert.Equal(t, n, r.Offset)
		assert.Len(t, r.Fragment, 3)
	}
}

func TestDragCribTooLong(t *testing.T) {
	set := mustSet(t, []byte("abc"), []byte("xyz"))
	pair := analysis.BuildPairs(set)[0]

	_, err := analysis.Drag(pair, []byte("too long crib"), score.NewRatioScorer())
	assert.ErrorIs(t, err, analysis.ErrCribTooLong)
}

func TestDragFuncEarlyStop(t *testing.T) {
	set := mustSet(t, []byte("0123456789"), []byte("abcdefghij"))
	pair := analysis.BuildPairs(set)[0]

	calls := 0
	stop := func(r analysis.DragResult) bool {
		calls++
		return r.Offset == 2
	}
	results, err := analysis.DragFunc(pair, []byte("ab"), score.NewRatioScorer(), stop)
	require.NoError(t, err)
	assert.Len(t, results, 3) // offsets 0, 1, 2
	assert.Equal(t, 3, calls)
}

func TestConfirmKeyRecoversKeySpan(t *testing.T) {
	key := []byte("fifteen byte ky")
	p1 := []byte("HELLO WORLD!!!!")
	c1, err := xorbyte.XOR(p1, key)
	require.NoError(t, err)

	span, err := analysis.ConfirmKey(c1, []byte("WORLD"), 6)
	require.NoError(t, err)
	assert.Equal(t, 6, span.Offset)
	assert.Equal(t, 11, span.End())
	assert.Equal(t, key[6:11], span.Key)
}

func TestConfirmKeyBounds(t *testing.T) {
	_, err := analysis.ConfirmKey([]byte("short"), []byte("crib"), 3)
	assert.ErrorIs(t, err, analysis.ErrCribTooLong)

	_, err = analysis.ConfirmKey([]byte("short"), []byte("ok"), -1)
	assert.Error(t, err)
}

func TestApplySpanDecodesOtherCiphertext(t *testing.T) {
	key := []byte("fifteen byte ky")
	p1 := []byte("HELLO WORLD!!!!")
	p2 := []byte("GOODBYE CRUEL X")
	c1, _ := xorbyte.XOR(p1, key)
	c2, _ := xorbyte.XOR(p2, key)

	// Confirming a crib of message 1 propagates to message 2.
	span, err := analysis.ConfirmKey(c1, []byte("HELLO"), 0)
	require.NoError(t, err)

	plain, err := analysis.ApplySpan(span, c2)
	require.NoError(t, err)
	assert.Equal(t, []byte("GOODB"), plain)
}

func TestApplySpanBounds(t *testing.T) {
	span := analysis.KeySpan{Offset: 3, Key: []byte("abcd")}
	_, err := analysis.ApplySpan(span, []byte("short"))
	assert.ErrorIs(t, err, analysis.ErrCribTooLong)
}

// A correct aligned crib always recovers the other plaintext exactly.
func TestDragCorrectnessProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(4, 48).Draw(t, "n")
		p1 := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "p1")
		p2 := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "p2")
		key := rapid.SliceOfN(rapid.Byte(), n, n).Draw(t, "key")
		cribLen := rapid.IntRange(1, n).Draw(t, "cribLen")
		offset := rapid.IntRange(0, n-cribLen).Draw(t, "offset")

		c1, _ := xorbyte.XOR(p1, key)
		c2, _ := xorbyte.XOR(p2, key)
		set, err := analysis.NewSet([][]byte{c1, c2})
		if err != nil {
			t.Fatalf("set: %v", err)
		}
		pair := analysis.BuildPairs(set)[0]

		crib := p1[offset : offset+cribLen]
		results, err := analysis.Drag(pair, crib, score.NewRatioScorer())
		if err != nil {
			t.Fatalf("drag: %v", err)
		}
		got := results[offset].Fragment
		want := p2[offset : offset+cribLen]
		if string(got) != string(want) {
			t.Fatalf("offset %d: recovered %x, want %x", offset, got, want)
		}
	})
}
