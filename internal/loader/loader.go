// Package loader reads ciphertext files: one hex-encoded message per
// line. It enforces the set preconditions before any analysis object
// exists, so the engine never sees mismatched or malformed input.
package loader

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/jmallek/depad/pkg/analysis"
	"github.com/jmallek/depad/pkg/hexstr"
)

// Options controls loading behavior.
type Options struct {
	// SkipInvalid drops malformed hex lines with a warning instead of
	// failing the load. Mismatched lengths always fail: silently
	// dropping those would change which pairs exist.
	SkipInvalid bool
	// Logger receives per-line warnings. If nil, a default stderr
	// logger is used.
	Logger *logrus.Logger
}

// ReadSet parses hex lines from r into a validated ciphertext set.
// Blank lines (after trimming) are ignored. Fails with
// hexstr.ErrMalformedHex, xorbyte.ErrLengthMismatch or
// analysis.ErrInsufficientCiphertexts as appropriate.
func ReadSet(r io.Reader, opts Options) (analysis.Set, error) {
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	var messages [][]byte
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		msg, err := hexstr.Decode(line)
		if err != nil {
			if opts.SkipInvalid {
				opts.Logger.WithField("line", lineNo).WithError(err).Warn("skipping invalid hex line")
				continue
			}
			return analysis.Set{}, fmt.Errorf("line %d: %w", lineNo, err)
		}
		messages = append(messages, msg)
	}
	if err := sc.Err(); err != nil {
		return analysis.Set{}, fmt.Errorf("reading ciphertexts: %w", err)
	}
	set, err := analysis.NewSet(messages)
	if err != nil {
		return analysis.Set{}, err
	}
	opts.Logger.WithFields(logrus.Fields{
		"ciphertexts": set.Len(),
		"messageLen":  set.MessageLen(),
	}).Info("ciphertexts loaded")
	return set, nil
}

// ReadSetFile opens path and loads it with ReadSet.
func ReadSetFile(path string, opts Options) (analysis.Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return analysis.Set{}, fmt.Errorf("opening ciphertext file: %w", err)
	}
	defer f.Close()
	set, err := ReadSet(f, opts)
	if err != nil {
		return analysis.Set{}, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}
