package display

import "errors"

// Sentinel error kinds for this package.
var (
	ErrNonFiniteScore = errors.New("score is not a finite number")
	ErrInvalidRank    = errors.New("rank must not be negative")
)
