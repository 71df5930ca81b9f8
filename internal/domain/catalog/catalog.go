// Package catalog holds the static, read-only set of healthshare plans.
package catalog

import (
	"sort"
	"strings"

	model "github.com/okian/planmatch/internal/domain/model"
)

// Catalog is an immutable plan collection in load order. It is safe for
// concurrent readers; callers receive copies of the plan slice.
type Catalog struct {
	plans []model.Plan
	index map[string]int
}

// New checks plans and builds a catalog. Cost tiers are sorted ascending by
// initial unshared amount; a duplicate amount within one matrix entry, a
// duplicate plan ID, an unknown exclusion rule or a custom age rule without
// ranges is rejected with ErrInvalidCatalog.
func New(plans []model.Plan) (*Catalog, error) {
	c := &Catalog{
		plans: make([]model.Plan, 0, len(plans)),
		index: make(map[string]int, len(plans)),
	}
	for _, p := range plans {
		p.ID = strings.TrimSpace(p.ID)
		if p.ID == "" {
			return nil, invalidf("plan %q has no id", p.DisplayName())
		}
		if _, dup := c.index[p.ID]; dup {
			return nil, invalidf("duplicate plan id %q", p.ID)
		}
		if err := checkAgeRules(p); err != nil {
			return nil, err
		}
		for _, rule := range p.Exclusions {
			if !rule.Known() {
				return nil, invalidf("plan %q: unsupported exclusion rule %s %s", p.ID, rule.Field, rule.Operator)
			}
		}
		matrix, err := normalizeMatrix(p)
		if err != nil {
			return nil, err
		}
		p.PlanMatrix = matrix
		c.index[p.ID] = len(c.plans)
		c.plans = append(c.plans, p)
	}
	return c, nil
}

func checkAgeRules(p model.Plan) error {
	switch p.AgeRules.Type {
	case model.AgeRulesStandard, "":
		return nil
	case model.AgeRulesCustom:
		if len(p.AgeRules.Ranges) == 0 {
			return invalidf("plan %q: custom age rules without ranges", p.ID)
		}
		for _, r := range p.AgeRules.Ranges {
			if r.Min > r.Max {
				return invalidf("plan %q: age range %d-%d is inverted", p.ID, r.Min, r.Max)
			}
		}
		return nil
	default:
		return invalidf("plan %q: unknown age rule type %q", p.ID, p.AgeRules.Type)
	}
}

// normalizeMatrix copies the matrix so the caller's slices are never aliased.
func normalizeMatrix(p model.Plan) ([]model.MatrixEntry, error) {
	out := make([]model.MatrixEntry, 0, len(p.PlanMatrix))
	for _, e := range p.PlanMatrix {
		costs := append([]model.CostTier(nil), e.Costs...)
		sort.SliceStable(costs, func(i, j int) bool {
			return costs[i].InitialUnsharedAmount.LessThan(costs[j].InitialUnsharedAmount)
		})
		for i := 1; i < len(costs); i++ {
			if costs[i].InitialUnsharedAmount.Equal(costs[i-1].InitialUnsharedAmount) {
				return nil, invalidf("plan %q: duplicate IUA %s for %s / %s",
					p.ID, costs[i].InitialUnsharedAmount, e.AgeBracket, e.HouseholdType)
			}
		}
		e.Costs = costs
		out = append(out, e)
	}
	return out, nil
}

// Plans returns every plan in catalog order.
func (c *Catalog) Plans() []model.Plan {
	if c == nil {
		return []model.Plan{}
	}
	out := make([]model.Plan, len(c.plans))
	copy(out, c.plans)
	return out
}

// Get returns the plan with id or ErrPlanNotFound.
func (c *Catalog) Get(id string) (model.Plan, error) {
	if c != nil {
		if i, ok := c.index[id]; ok {
			return c.plans[i], nil
		}
	}
	return model.Plan{}, ErrPlanNotFound
}

// Len returns the number of plans.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.plans)
}
