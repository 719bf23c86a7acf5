package analysis

import "github.com/jmallek/depad/pkg/xorbyte"

// Pair is one unordered ciphertext pair (I < J) together with the
// key-free sequence xor(C_I, C_J) = xor(P_I, P_J). Computed once when
// the pairs are built, immutable afterwards.
type Pair struct {
	I, J    int
	KeyFree []byte
}

// BuildPairs derives all C(N,2) pairs of the set, ascending I then
// ascending J, so repeated runs over the same set enumerate pairs in
// the same order. Set construction already guarantees equal lengths,
// so the per-pair XOR cannot fail.
func BuildPairs(set Set) []Pair {
	n := set.Len()
	pairs := make([]Pair, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			keyFree := make([]byte, set.length)
			xorbyte.XORInto(keyFree, set.messages[i], set.messages[j])
			pairs = append(pairs, Pair{I: i, J: j, KeyFree: keyFree})
		}
	}
	return pairs
}
