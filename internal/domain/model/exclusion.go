package model

import (
	"strconv"
	"strings"
)

// Exclusion rule operators.
const (
	OpEquals   = "equals"
	OpIn       = "in"
	OpContains = "contains"
	OpGTE      = "gte"
	OpLTE      = "lte"
)

// ExclusionRule is a plan-declared predicate over answer fields. When the
// predicate holds for a response, the plan is not available to that member.
type ExclusionRule struct {
	Field    string   `json:"field"`
	Operator string   `json:"operator"`
	Values   []string `json:"values"`
	Reason   string   `json:"reason,omitempty"`
}

// Known reports whether the rule references a supported field and operator.
func (e ExclusionRule) Known() bool {
	if _, ok := (QuestionnaireResponse{}).Answer(e.Field); !ok {
		return false
	}
	switch e.Operator {
	case OpEquals, OpIn, OpContains, OpGTE, OpLTE:
		return len(e.Values) > 0
	default:
		return false
	}
}

// Matches evaluates the rule against r. Unknown fields or operators never match.
func (e ExclusionRule) Matches(r QuestionnaireResponse) bool {
	answers, ok := r.Answer(e.Field)
	if !ok || len(answers) == 0 || len(e.Values) == 0 {
		return false
	}
	switch e.Operator {
	case OpEquals:
		return anyEqual(answers, e.Values[:1])
	case OpIn, OpContains:
		return anyEqual(answers, e.Values)
	case OpGTE, OpLTE:
		have, err := strconv.ParseFloat(answers[0], 64)
		if err != nil {
			return false
		}
		want, err := strconv.ParseFloat(e.Values[0], 64)
		if err != nil {
			return false
		}
		if e.Operator == OpGTE {
			return have >= want
		}
		return have <= want
	default:
		return false
	}
}

func anyEqual(answers, values []string) bool {
	for _, a := range answers {
		for _, v := range values {
			if strings.EqualFold(a, strings.TrimSpace(v)) {
				return true
			}
		}
	}
	return false
}
