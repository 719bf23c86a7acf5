package depad

import (
	"github.com/sirupsen/logrus"

	"github.com/jmallek/depad/pkg/score"
)

// Config configures an Analyzer. Zero values pick defaults.
type Config struct {
	// Threshold is the printable-ratio cutoff for the default scorer.
	// If 0, score.DefaultThreshold (0.70) is used. Ignored when Scorer
	// is set.
	Threshold float64
	// Workers sizes the sweep worker pool. If 0, one worker per CPU.
	Workers int
	// Scorer overrides the plausibility policy. If nil, a RatioScorer
	// at Threshold is used.
	Scorer score.Scorer
	// Logger is an optional structured logger. If nil, a stderr logger
	// at Info level is used.
	Logger *logrus.Logger
}

func defaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.InfoLevel)
	return l
}
