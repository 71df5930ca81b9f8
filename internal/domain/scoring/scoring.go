// Package scoring ranks eligible plans against a member's preferences.
package scoring

import (
	"math"
	"sort"

	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/shopspring/decimal"
)

// Factor names in evaluation order.
const (
	FactorIUAMatch          = "iua_match"
	FactorMonthlyCost       = "monthly_cost"
	FactorAnnualCap         = "annual_cap"
	FactorCoverageLimit     = "coverage_limit"
	FactorVisitFrequency    = "visit_frequency"
	FactorFinancialCapacity = "financial_capacity"
	FactorMaternity         = "maternity"
	FactorPreExisting       = "pre_existing"
	FactorMedicalConditions = "medical_conditions"
)

// Factor ceilings.
const (
	maxIUAMatch    = 25.0
	maxMonthlyCost = 30.0
	maxAnnualCap   = 15.0
	maxCoverage    = 20.0
	maxSmall       = 10.0
)

// Scoring constants.
const (
	defaultTargetIUA      = 2500
	iuaNormFloor          = 1000.0
	iuaNormSpan           = 4000.0
	maternityWaitUnit     = 12.0
	preExistingWaitSpan   = 36.0
	defaultFactorWeight   = 1.0
	lowPreferenceFraction = 0.5
	unsetFraction         = 0.75
)

// factorNames lists factors in insertion order.
var factorNames = []string{ //nolint:gochecknoglobals // fixed evaluation order
	FactorIUAMatch,
	FactorMonthlyCost,
	FactorAnnualCap,
	FactorCoverageLimit,
	FactorVisitFrequency,
	FactorFinancialCapacity,
	FactorMaternity,
	FactorPreExisting,
	FactorMedicalConditions,
}

// Factors returns the factor names in evaluation order.
func Factors() []string {
	return append([]string(nil), factorNames...)
}

// Neutral returns the score a factor takes when it does not apply. Impact is
// measured against it.
func Neutral(factor string) float64 {
	switch factor {
	case FactorIUAMatch:
		return maxIUAMatch / 2
	case FactorMonthlyCost:
		return maxMonthlyCost / 2
	case FactorAnnualCap:
		return maxAnnualCap / 2
	case FactorCoverageLimit:
		return maxCoverage / 2
	default:
		return maxSmall / 2
	}
}

// Scorer computes weighted multi-factor scores. It holds no mutable state
// after construction and is safe for concurrent use.
type Scorer struct {
	weights map[string]float64
}

// NewScorer creates a scorer with every factor weighted 1.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: make(map[string]float64, len(factorNames))}
	for _, name := range factorNames {
		s.weights[name] = defaultFactorWeight
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns a copy of the factor weights.
func (s *Scorer) Weights() map[string]float64 {
	out := make(map[string]float64, len(s.weights))
	for k, v := range s.weights {
		out[k] = v
	}
	return out
}

// ScorePlans scores every plan and returns them ordered by score descending.
// Equal scores keep the input order. The result is a pure function of its
// inputs.
func (s *Scorer) ScorePlans(plans []model.Plan, resp model.QuestionnaireResponse) []model.ScoredPlan {
	out := make([]model.ScoredPlan, 0, len(plans))
	if len(plans) == 0 {
		return out
	}

	tiers := make([]*model.CostTier, len(plans))
	for i, p := range plans {
		tiers[i] = SelectTier(p, resp)
	}
	n := newNorms(plans, tiers)

	for i, p := range plans {
		factors := evaluate(p, tiers[i], resp, n)
		total := 0.0
		for _, f := range factors {
			total += s.weights[f.Factor] * f.Score
		}
		out = append(out, model.ScoredPlan{Plan: p, Score: total, Factors: factors, Tier: tiers[i]})
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}

// SelectTier returns the cost tier closest to the preferred IUA for the
// member's age bracket and household, or nil when the plan prices neither.
// Ties resolve to the lower IUA. An unset preference targets 2500.
func SelectTier(p model.Plan, resp model.QuestionnaireResponse) *model.CostTier {
	bracket, ok := p.AgeRules.Resolve(resp.Age)
	if !ok {
		return nil
	}
	household, ok := resp.CoverageType.Household()
	if !ok {
		return nil
	}
	entry, ok := p.Entry(bracket, household)
	if !ok || len(entry.Costs) == 0 {
		return nil
	}
	target := decimal.NewFromInt(int64(targetIUA(resp)))
	best := 0
	bestDist := entry.Costs[0].InitialUnsharedAmount.Sub(target).Abs()
	for i := 1; i < len(entry.Costs); i++ {
		d := entry.Costs[i].InitialUnsharedAmount.Sub(target).Abs()
		if d.LessThan(bestDist) {
			best, bestDist = i, d
		}
	}
	t := entry.Costs[best]
	return &t
}

func targetIUA(resp model.QuestionnaireResponse) int {
	if resp.IUAPreference == model.IUAUnset {
		return defaultTargetIUA
	}
	return int(resp.IUAPreference)
}

type bounds struct {
	min, max float64
	ok       bool
}

func (b *bounds) add(v float64) {
	if !b.ok {
		b.min, b.max, b.ok = v, v, true
		return
	}
	b.min = math.Min(b.min, v)
	b.max = math.Max(b.max, v)
}

// lowerIsBetter maps v into [0,1] with the minimum scoring 1.
func (b bounds) lowerIsBetter(v float64) float64 {
	if !b.ok || b.max == b.min {
		return 1
	}
	return (b.max - v) / (b.max - b.min)
}

type norms struct {
	premium     bounds
	annualCap   bounds
	maxCoverage float64
}

func newNorms(plans []model.Plan, tiers []*model.CostTier) norms {
	var n norms
	for i, p := range plans {
		if tiers[i] != nil {
			n.premium.add(tiers[i].MonthlyPremium.InexactFloat64())
		}
		if p.AnnualUnsharedAmount != nil {
			n.annualCap.add(p.AnnualUnsharedAmount.InexactFloat64())
		}
		if !p.MaxCoverage.Unlimited {
			n.maxCoverage = math.Max(n.maxCoverage, p.MaxCoverage.Amount.InexactFloat64())
		}
	}
	return n
}

func evaluate(p model.Plan, tier *model.CostTier, resp model.QuestionnaireResponse, n norms) []model.Factor {
	scores := []float64{
		iuaMatch(tier, resp),
		monthlyCost(tier, resp, n),
		annualCap(p, resp, n),
		coverageLimit(p, resp, n),
		visitFrequency(tier, resp),
		financialCapacity(tier, resp),
		maternity(p, resp),
		preExisting(p, resp),
		medicalConditions(p, resp),
	}
	out := make([]model.Factor, len(factorNames))
	for i, name := range factorNames {
		score := math.Max(0, scores[i])
		out[i] = model.Factor{Factor: name, Score: score, Impact: score - Neutral(name)}
	}
	return out
}

func iuaMatch(tier *model.CostTier, resp model.QuestionnaireResponse) float64 {
	if tier == nil || resp.IUAPreference == model.IUAUnset {
		return Neutral(FactorIUAMatch)
	}
	pref := float64(resp.IUAPreference)
	iua := tier.InitialUnsharedAmount.InexactFloat64()
	if iua == pref {
		return maxIUAMatch
	}
	return maxIUAMatch * math.Max(0, 1-math.Abs(iua-pref)/pref)
}

func monthlyCost(tier *model.CostTier, resp model.QuestionnaireResponse, n norms) float64 {
	if tier == nil {
		return Neutral(FactorMonthlyCost)
	}
	w := maxMonthlyCost * unsetFraction
	switch resp.ExpensePreference {
	case model.ExpenseLowerMonthly:
		w = maxMonthlyCost
	case model.ExpenseHigherMonthly:
		w = maxMonthlyCost * lowPreferenceFraction
	}
	return w * n.premium.lowerIsBetter(tier.MonthlyPremium.InexactFloat64())
}

func annualCap(p model.Plan, resp model.QuestionnaireResponse, n norms) float64 {
	w := maxAnnualCap * unsetFraction
	switch resp.ExpensePreference {
	case model.ExpenseHigherMonthly:
		w = maxAnnualCap
	case model.ExpenseLowerMonthly:
		w = maxAnnualCap * lowPreferenceFraction
	}
	if p.AnnualUnsharedAmount == nil {
		return 0
	}
	return w * n.annualCap.lowerIsBetter(p.AnnualUnsharedAmount.InexactFloat64())
}

func coverageLimit(p model.Plan, resp model.QuestionnaireResponse, n norms) float64 {
	w := maxCoverage * unsetFraction
	switch resp.RiskPreference {
	case model.RiskLower:
		w = maxCoverage
	case model.RiskHigher:
		w = maxCoverage * lowPreferenceFraction
	}
	norm := 1.0
	if !p.MaxCoverage.Unlimited {
		norm = 0
		if n.maxCoverage > 0 {
			norm = p.MaxCoverage.Amount.InexactFloat64() / n.maxCoverage
		}
	}
	return w * norm
}

func iuaNorm(tier *model.CostTier) float64 {
	v := (tier.InitialUnsharedAmount.InexactFloat64() - iuaNormFloor) / iuaNormSpan
	return math.Max(0, math.Min(1, v))
}

func visitFrequency(tier *model.CostTier, resp model.QuestionnaireResponse) float64 {
	if tier == nil {
		return Neutral(FactorVisitFrequency)
	}
	switch resp.VisitFrequency {
	case model.VisitFrequently:
		return maxSmall * (1 - iuaNorm(tier))
	case model.VisitRarely:
		return maxSmall * iuaNorm(tier)
	default:
		return Neutral(FactorVisitFrequency)
	}
}

func financialCapacity(tier *model.CostTier, resp model.QuestionnaireResponse) float64 {
	affordable, ok := resp.FinancialCapacity.Affordable()
	if tier == nil || !ok {
		return Neutral(FactorFinancialCapacity)
	}
	iua := tier.InitialUnsharedAmount.InexactFloat64()
	if iua <= affordable {
		return maxSmall
	}
	return maxSmall * affordable / iua
}

func maternity(p model.Plan, resp model.QuestionnaireResponse) float64 {
	var full float64
	if p.Maternity.Covered {
		full = math.Max(0, maxSmall-float64(p.Maternity.WaitingPeriodMonths)/maternityWaitUnit*(maxSmall/2))
	}
	switch resp.PregnancyPlanning {
	case model.PregnancyPlanningYes:
		return full
	case model.PregnancyPlanningMaybe:
		return full * lowPreferenceFraction
	default:
		return Neutral(FactorMaternity)
	}
}

func preExisting(p model.Plan, resp model.QuestionnaireResponse) float64 {
	if !resp.PreExisting {
		return Neutral(FactorPreExisting)
	}
	return maxSmall * math.Max(0, 1-float64(p.PreExisting.WaitingPeriodMonths)/preExistingWaitSpan)
}

func medicalConditions(p model.Plan, resp model.QuestionnaireResponse) float64 {
	if len(resp.MedicalConditions) == 0 {
		return Neutral(FactorMedicalConditions)
	}
	limited := make(map[string]bool, len(p.LimitedConditions))
	for _, c := range p.LimitedConditions {
		limited[model.NormalizeCondition(c)] = true
	}
	hits := 0
	for _, c := range resp.MedicalConditions {
		if limited[model.NormalizeCondition(c)] {
			hits++
		}
	}
	return maxSmall * (1 - float64(hits)/float64(len(resp.MedicalConditions)))
}
