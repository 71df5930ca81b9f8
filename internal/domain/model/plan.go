// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Household types as they appear in provider plan matrices.
const (
	HouseholdMemberOnly     = "Member Only"
	HouseholdMemberSpouse   = "Member & Spouse"
	HouseholdMemberChildren = "Member & Children"
	HouseholdMemberFamily   = "Member & Family"
)

// Age rule kinds.
const (
	AgeRulesStandard = "standard"
	AgeRulesCustom   = "custom"
)

// Minimum and maximum ages covered by the shared bracket table.
const (
	minStandardAge = 18
	maxStandardAge = 64
)

// StandardBrackets is the shared age-bracket table used by plans whose age
// rules are "standard".
var StandardBrackets = []AgeRange{ //nolint:gochecknoglobals // read-only lookup table
	{Min: minStandardAge, Max: 29, Bracket: "18-29"},
	{Min: 30, Max: 39, Bracket: "30-39"},
	{Min: 40, Max: 49, Bracket: "40-49"},
	{Min: 50, Max: 59, Bracket: "50-59"},
	{Min: 60, Max: maxStandardAge, Bracket: "60-64"},
}

// Plan is a provider's healthshare offering.
type Plan struct {
	ID                   string           `json:"id"`
	ProviderName         string           `json:"providerName"`
	PlanName             string           `json:"planName"`
	MaxCoverage          Coverage         `json:"maxCoverage"`
	AnnualUnsharedAmount *decimal.Decimal `json:"annualUnsharedAmount,omitempty"`
	AgeRules             AgeRules         `json:"ageRules"`
	PlanMatrix           []MatrixEntry    `json:"planMatrix"`
	Exclusions           []ExclusionRule  `json:"exclusions,omitempty"`
	Maternity            Maternity        `json:"maternity"`
	PreExisting          PreExisting      `json:"preExisting"`
	LimitedConditions    []string         `json:"limitedConditions,omitempty"`
}

// DisplayName joins provider and plan name, omitting an empty plan name.
func (p Plan) DisplayName() string {
	if strings.TrimSpace(p.PlanName) == "" {
		return p.ProviderName
	}
	return p.ProviderName + " " + p.PlanName
}

// Entry returns the matrix entry for an age bracket and household type.
func (p Plan) Entry(bracket, household string) (MatrixEntry, bool) {
	for _, e := range p.PlanMatrix {
		if e.AgeBracket == bracket && e.HouseholdType == household {
			return e, true
		}
	}
	return MatrixEntry{}, false
}

// OffersHousehold reports whether any matrix entry covers household.
func (p Plan) OffersHousehold(household string) bool {
	for _, e := range p.PlanMatrix {
		if e.HouseholdType == household {
			return true
		}
	}
	return false
}

// MatrixEntry lists the cost tiers for one (age bracket, household type) pair.
// Costs are unique by InitialUnsharedAmount and sorted ascending by it.
type MatrixEntry struct {
	AgeBracket    string     `json:"ageBracket"`
	HouseholdType string     `json:"householdType"`
	Costs         []CostTier `json:"costs"`
}

// CostTier is one monthly premium / initial unshared amount (IUA) pairing.
type CostTier struct {
	MonthlyPremium        decimal.Decimal `json:"monthlyPremium"`
	InitialUnsharedAmount decimal.Decimal `json:"initialUnsharedAmount"`
}

// AgeRules selects how a member's age maps to a matrix bracket.
type AgeRules struct {
	Type   string     `json:"type"`
	Ranges []AgeRange `json:"ranges,omitempty"`
}

// AgeRange maps an inclusive age range to a bracket label.
type AgeRange struct {
	Min     int    `json:"min"`
	Max     int    `json:"max"`
	Bracket string `json:"bracket"`
}

// Resolve returns the bracket label for age, or false when no range holds it.
func (r AgeRules) Resolve(age int) (string, bool) {
	ranges := StandardBrackets
	if r.Type == AgeRulesCustom {
		ranges = r.Ranges
	}
	for _, rng := range ranges {
		if age >= rng.Min && age <= rng.Max {
			return rng.Bracket, true
		}
	}
	return "", false
}

// Maternity describes how a plan shares pregnancy costs.
type Maternity struct {
	Covered             bool `json:"covered"`
	WaitingPeriodMonths int  `json:"waitingPeriodMonths"`
}

// PreExisting describes the waiting period for pre-existing conditions.
type PreExisting struct {
	WaitingPeriodMonths int `json:"waitingPeriodMonths"`
}

// Coverage is a plan's maximum sharing ceiling. Unlimited plans have no
// ceiling and Amount is zero.
type Coverage struct {
	Unlimited bool
	Amount    decimal.Decimal
}

// UnlimitedCoverage is the "no limit" sentinel.
func UnlimitedCoverage() Coverage { return Coverage{Unlimited: true} }

// CoverageOf returns a finite ceiling.
func CoverageOf(amount int64) Coverage { return Coverage{Amount: decimal.NewFromInt(amount)} }

// String renders the ceiling for display.
func (c Coverage) String() string {
	if c.Unlimited {
		return "unlimited"
	}
	return c.Amount.String()
}

// MarshalJSON encodes unlimited coverage as the "unlimited" sentinel and a
// finite ceiling as a decimal string.
func (c Coverage) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

// UnmarshalJSON accepts a number, a numeric string or a "no limit" sentinel.
func (c *Coverage) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*c = UnlimitedCoverage()
		return nil
	}
	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "unlimited", "no limit", "none", "":
		*c = UnlimitedCoverage()
		return nil
	}
	amount, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return fmt.Errorf("invalid coverage %q: %w", raw, err)
	}
	*c = Coverage{Amount: amount}
	return nil
}
