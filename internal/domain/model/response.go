package model

import (
	"strconv"
	"strings"
)

// CoverageType is who the member wants covered.
type CoverageType string

// Coverage types offered by the questionnaire.
const (
	CoverageJustMe   CoverageType = "just_me"
	CoverageMeSpouse CoverageType = "me_spouse"
	CoverageMeKids   CoverageType = "me_kids"
	CoverageFamily   CoverageType = "family"
)

// Household maps a coverage type to the plan-matrix household vocabulary.
func (c CoverageType) Household() (string, bool) {
	switch c {
	case CoverageJustMe:
		return HouseholdMemberOnly, true
	case CoverageMeSpouse:
		return HouseholdMemberSpouse, true
	case CoverageMeKids:
		return HouseholdMemberChildren, true
	case CoverageFamily:
		return HouseholdMemberFamily, true
	default:
		return "", false
	}
}

// PregnancyPlanning answers "are you planning a pregnancy?".
type PregnancyPlanning string

// Pregnancy planning answers. The empty value means unanswered.
const (
	PregnancyPlanningUnset PregnancyPlanning = ""
	PregnancyPlanningYes   PregnancyPlanning = "yes"
	PregnancyPlanningNo    PregnancyPlanning = "no"
	PregnancyPlanningMaybe PregnancyPlanning = "maybe"
)

// IUAPreference is the preferred initial unshared amount tier in dollars.
// Zero means unanswered.
type IUAPreference int

// IUA tiers offered by the questionnaire.
const (
	IUAUnset IUAPreference = 0
	IUA1000  IUAPreference = 1000
	IUA2500  IUAPreference = 2500
	IUA5000  IUAPreference = 5000
)

// ExpensePreference trades monthly premium against out-of-pocket cost.
type ExpensePreference string

// Expense preferences. The empty value means unanswered.
const (
	ExpenseUnset         ExpensePreference = ""
	ExpenseLowerMonthly  ExpensePreference = "lower_monthly"
	ExpenseHigherMonthly ExpensePreference = "higher_monthly"
)

// RiskPreference describes appetite for coverage ceilings.
type RiskPreference string

// Risk preferences. The empty value means unanswered.
const (
	RiskUnset  RiskPreference = ""
	RiskLower  RiskPreference = "lower_risk"
	RiskHigher RiskPreference = "higher_risk"
)

// VisitFrequency is how often the member expects to see a provider.
type VisitFrequency string

// Visit frequencies. The empty value means unanswered.
const (
	VisitUnset        VisitFrequency = ""
	VisitRarely       VisitFrequency = "rarely"
	VisitOccasionally VisitFrequency = "occasionally"
	VisitFrequently   VisitFrequency = "frequently"
)

// FinancialCapacity is how large a one-time expense the member can absorb.
type FinancialCapacity string

// Financial capacities. The empty value means unanswered.
const (
	CapacityUnset  FinancialCapacity = ""
	CapacityLow    FinancialCapacity = "low"
	CapacityMedium FinancialCapacity = "medium"
	CapacityHigh   FinancialCapacity = "high"
)

// Affordable returns the largest IUA in dollars the capacity absorbs.
func (c FinancialCapacity) Affordable() (float64, bool) {
	switch c {
	case CapacityLow:
		return 1000, true
	case CapacityMedium:
		return 2500, true
	case CapacityHigh:
		return 5000, true
	default:
		return 0, false
	}
}

// Answer field names, shared by validation errors and exclusion rules.
const (
	FieldAge               = "age"
	FieldCoverageType      = "coverage_type"
	FieldZipCode           = "zip_code"
	FieldState             = "state"
	FieldPregnancy         = "pregnancy"
	FieldPreExisting       = "pre_existing"
	FieldPregnancyPlanning = "pregnancy_planning"
	FieldIUAPreference     = "iua_preference"
	FieldExpensePreference = "expense_preference"
	FieldRiskPreference    = "risk_preference"
	FieldVisitFrequency    = "visit_frequency"
	FieldFinancialCapacity = "financial_capacity"
	FieldMedicalConditions = "medical_conditions"
)

// maxAge bounds the accepted age answer.
const maxAge = 120

// QuestionnaireResponse is the normalized answer set the matching core consumes.
type QuestionnaireResponse struct {
	Age               int               `json:"age"`
	CoverageType      CoverageType      `json:"coverage_type"`
	ZipCode           string            `json:"zip_code,omitempty"`
	State             string            `json:"state,omitempty"`
	Pregnant          bool              `json:"pregnancy"`
	PreExisting       bool              `json:"pre_existing"`
	PregnancyPlanning PregnancyPlanning `json:"pregnancy_planning,omitempty"`
	IUAPreference     IUAPreference     `json:"iua_preference,omitempty"`
	ExpensePreference ExpensePreference `json:"expense_preference,omitempty"`
	RiskPreference    RiskPreference    `json:"risk_preference,omitempty"`
	VisitFrequency    VisitFrequency    `json:"visit_frequency,omitempty"`
	FinancialCapacity FinancialCapacity `json:"financial_capacity,omitempty"`
	MedicalConditions []string          `json:"medical_conditions,omitempty"`
}

// Validate checks required fields and that every enum holds a value from its
// closed set. The first failing field is reported.
func (r QuestionnaireResponse) Validate() error {
	if r.Age <= 0 || r.Age > maxAge {
		return NewValidationError(FieldAge, "range")
	}
	if r.CoverageType == "" {
		return NewValidationError(FieldCoverageType, "required")
	}
	if _, ok := r.CoverageType.Household(); !ok {
		return NewValidationError(FieldCoverageType, "oneof")
	}
	switch r.PregnancyPlanning {
	case PregnancyPlanningUnset, PregnancyPlanningYes, PregnancyPlanningNo, PregnancyPlanningMaybe:
	default:
		return NewValidationError(FieldPregnancyPlanning, "oneof")
	}
	switch r.IUAPreference {
	case IUAUnset, IUA1000, IUA2500, IUA5000:
	default:
		return NewValidationError(FieldIUAPreference, "oneof")
	}
	switch r.ExpensePreference {
	case ExpenseUnset, ExpenseLowerMonthly, ExpenseHigherMonthly:
	default:
		return NewValidationError(FieldExpensePreference, "oneof")
	}
	switch r.RiskPreference {
	case RiskUnset, RiskLower, RiskHigher:
	default:
		return NewValidationError(FieldRiskPreference, "oneof")
	}
	switch r.VisitFrequency {
	case VisitUnset, VisitRarely, VisitOccasionally, VisitFrequently:
	default:
		return NewValidationError(FieldVisitFrequency, "oneof")
	}
	switch r.FinancialCapacity {
	case CapacityUnset, CapacityLow, CapacityMedium, CapacityHigh:
	default:
		return NewValidationError(FieldFinancialCapacity, "oneof")
	}
	return nil
}

// Answer returns the string form of an answer field for rule evaluation.
// List fields yield one value per entry; unanswered optional fields yield none.
func (r QuestionnaireResponse) Answer(field string) ([]string, bool) {
	switch field {
	case FieldAge:
		return []string{strconv.Itoa(r.Age)}, true
	case FieldCoverageType:
		return single(string(r.CoverageType)), true
	case FieldZipCode:
		return single(r.ZipCode), true
	case FieldState:
		return single(strings.ToUpper(r.State)), true
	case FieldPregnancy:
		return []string{strconv.FormatBool(r.Pregnant)}, true
	case FieldPreExisting:
		return []string{strconv.FormatBool(r.PreExisting)}, true
	case FieldPregnancyPlanning:
		return single(string(r.PregnancyPlanning)), true
	case FieldMedicalConditions:
		out := make([]string, 0, len(r.MedicalConditions))
		for _, c := range r.MedicalConditions {
			out = append(out, NormalizeCondition(c))
		}
		return out, true
	default:
		return nil, false
	}
}

// NormalizeCondition lowercases and trims a condition name for comparison.
func NormalizeCondition(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}

func single(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}
