package keyedhash

import (
	"math"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

const (
	minCapacity     = 8
	maxGrowAttempts = 4

	defaultChainingLoadFactor = 0.75
	defaultOpenLoadFactor     = 0.5
	defaultShrinkThreshold    = 0.25
)

type settings struct {
	logger          *zap.Logger
	shrinkThreshold float64
}

// Option configures a table at construction.
type Option func(*settings)

// WithLogger routes resize and failure events to l. Tables log nothing by
// default.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithShrinkThreshold sets the occupancy below which an insert rehashes the
// table into half the capacity. Zero disables shrinking.
func WithShrinkThreshold(f float64) Option {
	return func(s *settings) {
		s.shrinkThreshold = f
	}
}

func buildSettings(opts []Option) (settings, error) {
	s := settings{
		logger:          zap.NewNop(),
		shrinkThreshold: defaultShrinkThreshold,
	}
	for _, opt := range opts {
		opt(&s)
	}
	if math.IsNaN(s.shrinkThreshold) || s.shrinkThreshold < 0 {
		return s, errors.Wrapf(ErrInvalidShrinkThreshold, "got %v", s.shrinkThreshold)
	}
	return s, nil
}

func normalizeLoadFactor(f, def float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Wrapf(ErrInvalidLoadFactor, "got %v", f)
	}
	if f <= 0 {
		return def, nil
	}
	return f, nil
}

func nextCapacity(cur int) int {
	if cur <= 0 {
		return minCapacity
	}
	return cur << 1
}

func prevCapacity(cur int) int {
	if cur > minCapacity {
		return cur >> 1
	}
	return minCapacity
}
