package score_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"

	"github.com/jmallek/depad/pkg/score"
)

func TestPrintableRatio(t *testing.T) {
	assert.Equal(t, 1.0, score.PrintableRatio([]byte("Hello world")))
	assert.Equal(t, 0.0, score.PrintableRatio([]byte{0x00, 0x01, 0x1f}))
	assert.Equal(t, 0.5, score.PrintableRatio([]byte{'a', 0x00}))
	assert.Equal(t, 0.0, score.PrintableRatio(nil))
}

func TestRatioScorerDefault(t *testing.T) {
	s := score.NewRatioScorer()
	assert.Equal(t, score.DefaultThreshold, s.Threshold)

	v := s.Score([]byte("GOODB"))
	assert.True(t, v.Plausible)
	assert.Equal(t, 1.0, v.PrintableRatio)
}

func TestRatioScorerRejectsBinaryNoise(t *testing.T) {
	s := score.NewRatioScorer()
	v := s.Score([]byte{0x03, 0x91, 'a', 0x02, 0xfe})
	assert.False(t, v.Plausible)
}

// A single out-of-range byte must not disqualify a mostly-printable
// fragment: 9 of 10 printable is ratio 0.9, above the cutoff.
func TestRatioScorerToleratesOneOutlier(t *testing.T) {
	s := score.NewRatioScorer()
	frag := append([]byte("wonderful"), 0x01)
	v := s.Score(frag)
	assert.True(t, v.Plausible)
	assert.InDelta(t, 0.9, v.PrintableRatio, 1e-9)
}

// Plausible under threshold t1 implies plausible under any t2 <= t1.
func TestThresholdMonotonicity(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		frag := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "fragment")
		t1 := rapid.Float64Range(0, 1).Draw(t, "t1")
		t2 := rapid.Float64Range(0, 1).Draw(t, "t2")
		if t2 > t1 {
			t1, t2 = t2, t1
		}
		strict := score.RatioScorer{Threshold: t1}.Score(frag)
		loose := score.RatioScorer{Threshold: t2}.Score(frag)
		if strict.Plausible && !loose.Plausible {
			t.Fatalf("fragment %x plausible at %v but not at %v", frag, t1, t2)
		}
	})
}

func TestWeightedScorer(t *testing.T) {
	s := score.NewWeightedScorer()

	v := s.Score([]byte("meet me at the harbor"))
	assert.True(t, v.Plausible)

	// Printable but punctuation-heavy noise passes the ratio scorer
	// yet fails the weighted one.
	noise := []byte("#$%^&*()_+=~#$%^&*()_")
	assert.True(t, score.NewRatioScorer().Score(noise).Plausible)
	assert.False(t, s.Score(noise).Plausible)
}

func TestWeightedScorerEmpty(t *testing.T) {
	v := score.NewWeightedScorer().Score(nil)
	assert.False(t, v.Plausible)
}
