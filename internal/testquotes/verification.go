package testquotes

import (
	"errors"
	"fmt"

	model "github.com/okian/planmatch/internal/domain/model"
)

// Verification failures.
var (
	ErrRankOrder     = errors.New("ranks are not contiguous from 1")
	ErrScoreOrder    = errors.New("scores are not in descending order")
	ErrDisplayBounds = errors.New("display score out of bounds")
	ErrDisplayOrder  = errors.New("display scores are not in descending order")
	ErrTopReason     = errors.New("top reason missing from factors")
	ErrOverlap       = errors.New("plan both ranked and excluded")
)

// verifyResult checks the ordering and bounds every match result must hold.
// All violations are returned, not just the first.
func verifyResult(res model.MatchResult) []error {
	var errs []error
	excluded := make(map[string]struct{}, len(res.Excluded))
	for _, e := range res.Excluded {
		excluded[e.PlanID] = struct{}{}
	}

	for i, p := range res.Plans {
		if p.Rank != i+1 {
			errs = append(errs, fmt.Errorf("%w: position %d has rank %d", ErrRankOrder, i, p.Rank))
		}
		if p.DisplayScore < MinDisplayScore || p.DisplayScore > MaxDisplayScore {
			errs = append(errs, fmt.Errorf("%w: %s has %d", ErrDisplayBounds, p.Plan.ID, p.DisplayScore))
		}
		if _, ok := excluded[p.Plan.ID]; ok {
			errs = append(errs, fmt.Errorf("%w: %s", ErrOverlap, p.Plan.ID))
		}
		if p.TopReason != nil && !hasFactor(p.Factors, p.TopReason.Factor) {
			errs = append(errs, fmt.Errorf("%w: %s", ErrTopReason, p.TopReason.Factor))
		}
		if i == 0 {
			continue
		}
		prev := res.Plans[i-1]
		if p.Score > prev.Score {
			errs = append(errs, fmt.Errorf("%w: %s (%.3f) above %s (%.3f)", ErrScoreOrder, p.Plan.ID, p.Score, prev.Plan.ID, prev.Score))
		}
		if p.DisplayScore > prev.DisplayScore {
			errs = append(errs, fmt.Errorf("%w: rank %d shows %d after %d", ErrDisplayOrder, p.Rank, p.DisplayScore, prev.DisplayScore))
		}
	}
	return errs
}

func hasFactor(factors []model.Factor, name string) bool {
	for _, f := range factors {
		if f.Factor == name {
			return true
		}
	}
	return false
}
