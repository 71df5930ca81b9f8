// Package display maps raw plan scores to the percentage badge shown to
// members. It never changes ranking order.
package display

import (
	"fmt"
	"math"
	"sort"
)

const (
	baselineFactor = 0.92
	ceiling        = 99
	minBoost       = 4
	boostStart     = 12
	boostStep      = 2
	defaultFloor   = 80
)

var (
	leadingBoosts = []float64{15, 10, 7}  //nolint:gochecknoglobals // rank schedule
	leadingFloors = []int{90, 86, 83, 82} //nolint:gochecknoglobals // rank schedule
)

// Boost returns the additive bonus for a zero-based rank.
func Boost(rank int) float64 {
	if rank < len(leadingBoosts) {
		return leadingBoosts[rank]
	}
	return math.Max(minBoost, float64(boostStart-boostStep*rank))
}

// Floor returns the minimum percentage shown at a zero-based rank.
func Floor(rank int) int {
	if rank < len(leadingFloors) {
		return leadingFloors[rank]
	}
	return defaultFloor
}

// Score converts the raw score of the plan at a zero-based rank.
func Score(rank int, raw float64) (int, error) {
	if rank < 0 {
		return 0, fmt.Errorf("%w: %d", ErrInvalidRank, rank)
	}
	if math.IsNaN(raw) || math.IsInf(raw, 0) {
		return 0, ErrNonFiniteScore
	}
	shown := math.Min(raw*baselineFactor+Boost(rank), ceiling)
	rounded := int(math.Round(shown))
	if floor := Floor(rank); rounded < floor {
		return floor, nil
	}
	return rounded, nil
}

// Scores ranks a copy of raws in descending order and converts each. The
// returned slice lines up with that order, not with the input.
func Scores(raws []float64) ([]int, error) {
	sorted := append([]float64(nil), raws...)
	for _, r := range sorted {
		if math.IsNaN(r) || math.IsInf(r, 0) {
			return nil, ErrNonFiniteScore
		}
	}
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i] > sorted[j] })

	out := make([]int, len(sorted))
	for i, r := range sorted {
		v, err := Score(i, r)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
