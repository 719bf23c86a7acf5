// Package depad recovers plaintext from ciphertexts that were encrypted
// with the same one-time-pad key. It never learns the key up front:
// XORing two such ciphertexts cancels the key, and dragging guessed
// plaintext fragments across the result exposes fragments of the other
// message wherever the guess aligns.
package depad

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/jmallek/depad/pkg/analysis"
	"github.com/jmallek/depad/pkg/score"
	"github.com/jmallek/depad/pkg/workerpool"
)

// Analyzer is the stateless query engine over one immutable ciphertext
// set. All C(N,2) pair XORs are computed once at construction; every
// operation afterwards only reads them.
type Analyzer struct {
	set    analysis.Set
	pairs  []analysis.Pair
	scorer score.Scorer
	pool   *workerpool.Pool
	log    *logrus.Logger
	conf   Config
}

// PairSweep is the drag outcome for one pair, in the pair's own
// enumeration order.
type PairSweep struct {
	Pair    analysis.Pair
	Results []analysis.DragResult
}

// SpanDecode is the plaintext a confirmed key span reveals in one
// ciphertext of the set.
type SpanDecode struct {
	Index     int
	Offset    int
	Plaintext []byte
}

// New builds an Analyzer over the given set. The pair XORs are derived
// eagerly so repeated queries share them.
func New(set analysis.Set, conf Config) (*Analyzer, error) {
	if conf.Threshold < 0 || conf.Threshold > 1 {
		return nil, fmt.Errorf("threshold %v outside [0,1]", conf.Threshold)
	}
	if conf.Scorer == nil {
		t := conf.Threshold
		if t == 0 {
			t = score.DefaultThreshold
		}
		conf.Scorer = score.RatioScorer{Threshold: t}
	}
	if conf.Logger == nil {
		conf.Logger = defaultLogger()
	}

	a := &Analyzer{
		set:    set,
		pairs:  analysis.BuildPairs(set),
		scorer: conf.Scorer,
		pool:   workerpool.New(workerpool.Config{Workers: conf.Workers}),
		log:    conf.Logger,
		conf:   conf,
	}
	a.log.WithFields(logrus.Fields{
		"ciphertexts": set.Len(),
		"pairs":       len(a.pairs),
		"messageLen":  set.MessageLen(),
	}).Info("analyzer ready")
	return a, nil
}

// Close releases the worker pool. The Analyzer must not be used after.
func (a *Analyzer) Close() {
	a.pool.Close()
}

// Set returns the underlying ciphertext set.
func (a *Analyzer) Set() analysis.Set { return a.set }

// Pairs returns the precomputed pairs in their enumeration order
// (ascending i, then ascending j). Callers must not modify the key-free
// sequences.
func (a *Analyzer) Pairs() []analysis.Pair {
	return append([]analysis.Pair(nil), a.pairs...)
}

func (a *Analyzer) checkCrib(crib []byte) error {
	if len(crib) == 0 {
		return fmt.Errorf("empty crib")
	}
	if len(crib) > a.set.MessageLen() {
		return fmt.Errorf("%w: crib %d bytes, messages %d bytes",
			analysis.ErrCribTooLong, len(crib), a.set.MessageLen())
	}
	return nil
}

// Drag tests a crib at every offset of one pair.
func (a *Analyzer) Drag(pairIndex int, crib []byte) ([]analysis.DragResult, error) {
	if pairIndex < 0 || pairIndex >= len(a.pairs) {
		return nil, fmt.Errorf("pair index %d outside [0,%d)", pairIndex, len(a.pairs))
	}
	return analysis.Drag(a.pairs[pairIndex], crib, a.scorer)
}

// Sweep drags a crib across every pair concurrently. Results come back
// in pair enumeration order regardless of completion order, offsets
// ascending within each pair.
func (a *Analyzer) Sweep(crib []byte) ([]PairSweep, error) {
	if err := a.checkCrib(crib); err != nil {
		return nil, err
	}

	type tagged struct {
		index int
		sweep PairSweep
	}
	batch := a.pool.NewBatch(len(a.pairs))
	for i, pair := range a.pairs {
		i, pair := i, pair
		batch.Submit(func() interface{} {
			// checkCrib guarantees the crib fits every key-free sequence.
			results, _ := analysis.Drag(pair, crib, a.scorer)
			return tagged{index: i, sweep: PairSweep{Pair: pair, Results: results}}
		})
	}

	collected := batch.Collect()
	out := make([]PairSweep, len(collected))
	order := make([]int, len(collected))
	for n, c := range collected {
		t := c.(tagged)
		out[n] = t.sweep
		order[n] = t.index
	}
	sort.Sort(&bySweepIndex{order: order, sweeps: out})
	return out, nil
}

// SweepUntil drags a crib across pairs in enumeration order and stops
// the whole sweep as soon as stop returns true, returning everything
// scanned up to that point. The scan is sequential so "first hit" is
// deterministic.
func (a *Analyzer) SweepUntil(crib []byte, stop analysis.StopFunc) ([]PairSweep, error) {
	if err := a.checkCrib(crib); err != nil {
		return nil, err
	}
	var (
		out     []PairSweep
		stopped bool
	)
	wrapped := func(r analysis.DragResult) bool {
		if stop != nil && stop(r) {
			stopped = true
		}
		return stopped
	}
	for _, pair := range a.pairs {
		results, err := analysis.DragFunc(pair, crib, a.scorer, wrapped)
		if err != nil {
			return nil, err
		}
		out = append(out, PairSweep{Pair: pair, Results: results})
		if stopped {
			break
		}
	}
	return out, nil
}

// ConfirmKey converts a crib the analyst accepted at an offset of
// ciphertext index into pad key material for that span.
func (a *Analyzer) ConfirmKey(index int, crib []byte, offset int) (analysis.KeySpan, error) {
	if index < 0 || index >= a.set.Len() {
		return analysis.KeySpan{}, fmt.Errorf("ciphertext index %d outside [0,%d)", index, a.set.Len())
	}
	span, err := analysis.ConfirmKey(a.set.Message(index), crib, offset)
	if err != nil {
		return analysis.KeySpan{}, err
	}
	a.log.WithFields(logrus.Fields{
		"ciphertext": index,
		"offset":     span.Offset,
		"length":     len(span.Key),
	}).Info("key span confirmed")
	return span, nil
}

// DecodeAll applies a confirmed key span to every ciphertext in the
// set, revealing the covered plaintext span of each message.
func (a *Analyzer) DecodeAll(span analysis.KeySpan) ([]SpanDecode, error) {
	out := make([]SpanDecode, 0, a.set.Len())
	for i := 0; i < a.set.Len(); i++ {
		plain, err := analysis.ApplySpan(span, a.set.Message(i))
		if err != nil {
			return nil, fmt.Errorf("ciphertext %d: %w", i, err)
		}
		out = append(out, SpanDecode{Index: i, Offset: span.Offset, Plaintext: plain})
	}
	return out, nil
}

// bySweepIndex sorts sweeps by their pair enumeration index.
type bySweepIndex struct {
	order  []int
	sweeps []PairSweep
}

func (s *bySweepIndex) Len() int           { return len(s.order) }
func (s *bySweepIndex) Less(i, j int) bool { return s.order[i] < s.order[j] }
func (s *bySweepIndex) Swap(i, j int) {
	s.order[i], s.order[j] = s.order[j], s.order[i]
	s.sweeps[i], s.sweeps[j] = s.sweeps[j], s.sweeps[i]
}
