// Package score decides whether a recovered byte fragment looks like
// natural-language text. The exact heuristic is a policy, not a fixed
// algorithm: the drag engine only sees the Scorer interface, so a
// stronger classifier (n-gram frequencies, dictionary lookups) can be
// swapped in without touching it.
package score

// DefaultThreshold is the printable-ratio cutoff used when a Scorer is
// built without an explicit threshold. Exactly 0.70 for reproducible
// verdicts across runs.
const DefaultThreshold = 0.70

// Verdict is the scoring outcome for one fragment.
type Verdict struct {
	// Plausible is true when the fragment clears the scorer's cutoff.
	Plausible bool
	// PrintableRatio is the fraction of bytes in the printable ASCII
	// range [32,126], regardless of which scorer produced the verdict.
	PrintableRatio float64
}

// Scorer classifies a fragment of recovered plaintext.
type Scorer interface {
	Score(fragment []byte) Verdict
}

// printable reports whether b is in the printable ASCII range used by
// English prose: space (32) through tilde (126) inclusive.
func printable(b byte) bool {
	return b >= 32 && b <= 126
}

// PrintableRatio returns the fraction of printable bytes in fragment.
// An empty fragment has ratio 0.
func PrintableRatio(fragment []byte) float64 {
	if len(fragment) == 0 {
		return 0
	}
	n := 0
	for _, b := range fragment {
		if printable(b) {
			n++
		}
	}
	return float64(n) / float64(len(fragment))
}

// RatioScorer passes a fragment when its printable ratio exceeds
// Threshold. A stray unprintable byte lowers the ratio but does not
// disqualify on its own, since a correct crib misaligned by one
// position still produces mostly printable output.
type RatioScorer struct {
	Threshold float64
}

// NewRatioScorer returns a RatioScorer with DefaultThreshold.
func NewRatioScorer() RatioScorer {
	return RatioScorer{Threshold: DefaultThreshold}
}

func (s RatioScorer) Score(fragment []byte) Verdict {
	r := PrintableRatio(fragment)
	return Verdict{
		Plausible:      r > s.Threshold,
		PrintableRatio: r,
	}
}

// englishWeight assigns a per-byte likelihood weight for English text.
// Letters, space and common in-word punctuation weigh heavily, digits
// and newline lightly, everything else zero.
func englishWeight(b byte) int {
	switch {
	case b >= 'A' && b <= 'Z':
		return 10
	case b >= 'a' && b <= 'z':
		return 10
	case b == ' ' || b == '\'' || b == '/':
		return 10
	case b >= '0' && b <= '9':
		return 2
	case b == '\n':
		return 2
	}
	return 0
}

// WeightedScorer ranks fragments by an average per-byte English weight
// instead of a flat printable count. It is stricter than RatioScorer:
// punctuation-heavy noise that happens to be printable scores low.
type WeightedScorer struct {
	// MinAverage is the minimum mean weight per byte for a plausible
	// verdict. The maximum attainable mean is 10.
	MinAverage float64
}

// NewWeightedScorer returns a WeightedScorer tuned so that ordinary
// English sentences pass: mean weight 7 corresponds to roughly two
// letters out of three, with the rest digits or rare punctuation.
func NewWeightedScorer() WeightedScorer {
	return WeightedScorer{MinAverage: 7}
}

func (s WeightedScorer) Score(fragment []byte) Verdict {
	if len(fragment) == 0 {
		return Verdict{}
	}
	total := 0
	for _, b := range fragment {
		total += englishWeight(b)
	}
	mean := float64(total) / float64(len(fragment))
	return Verdict{
		Plausible:      mean >= s.MinAverage,
		PrintableRatio: PrintableRatio(fragment),
	}
}
