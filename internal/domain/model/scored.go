package model

// Factor is one contribution to a plan's score. Impact is the score relative
// to the factor's neutral value, so unhelpful factors carry a negative impact.
type Factor struct {
	Factor string  `json:"factor"`
	Score  float64 `json:"score"`
	Impact float64 `json:"impact"`
}

// ScoredPlan is a plan with its suitability score and factor breakdown.
// Factors keep rule insertion order.
type ScoredPlan struct {
	Plan    Plan      `json:"plan"`
	Score   float64   `json:"score"`
	Factors []Factor  `json:"factors"`
	Tier    *CostTier `json:"tier,omitempty"`
}

// TopReason returns the factor with the greatest impact. Ties resolve to the
// earliest factor. The boolean is false when factors is empty.
func TopReason(factors []Factor) (Factor, bool) {
	if len(factors) == 0 {
		return Factor{}, false
	}
	best := factors[0]
	for _, f := range factors[1:] {
		if f.Impact > best.Impact {
			best = f
		}
	}
	return best, true
}
