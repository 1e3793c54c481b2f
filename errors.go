package keyedhash

import "github.com/cockroachdb/errors"

var (
	// ErrSecondaryHashRequired is returned when double hashing is requested
	// without a secondary hash function.
	ErrSecondaryHashRequired = errors.New("keyedhash: double hashing requires a secondary hash")
	// ErrInvalidProbe is returned for an unknown probe strategy.
	ErrInvalidProbe = errors.New("keyedhash: invalid probe strategy")
	// ErrInvalidLoadFactor is returned for a NaN or infinite load factor.
	ErrInvalidLoadFactor = errors.New("keyedhash: invalid max load factor")
	// ErrNilStrategy is returned by New for a nil strategy.
	ErrNilStrategy = errors.New("keyedhash: nil strategy")
	// ErrInvalidShrinkThreshold is returned for a negative or NaN shrink threshold.
	ErrInvalidShrinkThreshold = errors.New("keyedhash: invalid shrink threshold")
)
