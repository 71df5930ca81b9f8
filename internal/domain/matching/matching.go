// Package matching reduces a plan catalog to the plans a member qualifies for.
package matching

import (
	"fmt"

	model "github.com/okian/planmatch/internal/domain/model"
)

// Exclusion reasons reported by Explain.
const (
	ReasonAgeBracket    = "age_bracket"
	ReasonHouseholdType = "household_type"
	ReasonNoCostTiers   = "no_cost_tiers"
	ReasonExclusionRule = "exclusion_rule"
)

// Catalog is the read side of the plan catalog the matcher needs.
type Catalog interface {
	Plans() []model.Plan
}

// Decision is the eligibility outcome for one plan.
type Decision struct {
	Plan     model.Plan `json:"-"`
	PlanID   string     `json:"planId"`
	Eligible bool       `json:"eligible"`
	Reason   string     `json:"reason,omitempty"`
	Detail   string     `json:"detail,omitempty"`
}

// Matcher evaluates hard eligibility constraints against an injected catalog.
type Matcher struct {
	catalog Catalog
}

// NewMatcher creates a matcher over c.
func NewMatcher(c Catalog) *Matcher {
	return &Matcher{catalog: c}
}

// FindEligiblePlans returns the catalog plans the response qualifies for, in
// catalog order. An invalid response yields a *model.ValidationError; no
// match yields an empty, non-nil slice.
func (m *Matcher) FindEligiblePlans(resp model.QuestionnaireResponse) ([]model.Plan, error) {
	decisions, err := m.Explain(resp)
	if err != nil {
		return nil, err
	}
	out := make([]model.Plan, 0, len(decisions))
	for _, d := range decisions {
		if d.Eligible {
			out = append(out, d.Plan)
		}
	}
	return out, nil
}

// Explain returns one decision per catalog plan with the first failed check.
func (m *Matcher) Explain(resp model.QuestionnaireResponse) ([]Decision, error) {
	if err := resp.Validate(); err != nil {
		return nil, err
	}
	household, _ := resp.CoverageType.Household()

	var plans []model.Plan
	if m.catalog != nil {
		plans = m.catalog.Plans()
	}
	out := make([]Decision, 0, len(plans))
	for _, p := range plans {
		out = append(out, decide(p, resp, household))
	}
	return out, nil
}

func decide(p model.Plan, resp model.QuestionnaireResponse, household string) Decision {
	d := Decision{Plan: p, PlanID: p.ID}

	bracket, ok := p.AgeRules.Resolve(resp.Age)
	if !ok {
		d.Reason = ReasonAgeBracket
		d.Detail = fmt.Sprintf("age %d is outside the plan's age brackets", resp.Age)
		return d
	}
	entry, ok := p.Entry(bracket, household)
	if !ok {
		d.Reason = ReasonHouseholdType
		if p.OffersHousehold(household) {
			d.Detail = fmt.Sprintf("%q is not offered for ages %s", household, bracket)
		} else {
			d.Detail = fmt.Sprintf("%q is not offered", household)
		}
		return d
	}
	if len(entry.Costs) == 0 {
		d.Reason = ReasonNoCostTiers
		d.Detail = fmt.Sprintf("no pricing for %s / %s", bracket, household)
		return d
	}
	for _, rule := range p.Exclusions {
		if rule.Matches(resp) {
			d.Reason = ReasonExclusionRule
			d.Detail = rule.Reason
			if d.Detail == "" {
				d.Detail = fmt.Sprintf("%s %s %v", rule.Field, rule.Operator, rule.Values)
			}
			return d
		}
	}
	d.Eligible = true
	return d
}
