// Package questionnaire adapts the serialized multi-step form into the typed
// answer model used by matching and scoring.
package questionnaire

import (
	"errors"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	model "github.com/okian/planmatch/internal/domain/model"
)

// Form mirrors the answer object the questionnaire client posts. Health flags
// arrive as "true"/"false" strings and preferences as plain strings.
type Form struct {
	Age               *int     `json:"age" validate:"required,min=1,max=120"`
	CoverageType      string   `json:"coverage_type" validate:"required,oneof=just_me me_spouse me_kids family"`
	ZipCode           string   `json:"zip_code,omitempty" validate:"omitempty,numeric,len=5"`
	State             string   `json:"state,omitempty" validate:"omitempty,alpha,len=2"`
	Pregnancy         string   `json:"pregnancy,omitempty" validate:"omitempty,oneof=true false"`
	PreExisting       string   `json:"pre_existing,omitempty" validate:"omitempty,oneof=true false"`
	PregnancyPlanning string   `json:"pregnancy_planning,omitempty" validate:"omitempty,oneof=yes no maybe"`
	IUAPreference     string   `json:"iua_preference,omitempty" validate:"omitempty,oneof=1000 2500 5000"`
	ExpensePreference string   `json:"expense_preference,omitempty" validate:"omitempty,oneof=lower_monthly higher_monthly"`
	RiskPreference    string   `json:"risk_preference,omitempty" validate:"omitempty,oneof=lower_risk higher_risk"`
	VisitFrequency    string   `json:"visit_frequency,omitempty" validate:"omitempty,oneof=rarely occasionally frequently"`
	FinancialCapacity string   `json:"financial_capacity,omitempty" validate:"omitempty,oneof=low medium high"`
	MedicalConditions []string `json:"medical_conditions,omitempty" validate:"omitempty,max=50,dive,required,max=100"`
}

var validate = newValidator() //nolint:gochecknoglobals // validator caches struct metadata

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Parse validates f and converts it to a QuestionnaireResponse. The first
// failing field is reported as a *model.ValidationError.
func Parse(f Form) (model.QuestionnaireResponse, error) {
	if err := validate.Struct(f); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			fe := fieldErrs[0]
			return model.QuestionnaireResponse{}, model.NewValidationError(fieldName(fe), fe.Tag())
		}
		return model.QuestionnaireResponse{}, err
	}

	resp := model.QuestionnaireResponse{
		Age:               *f.Age,
		CoverageType:      model.CoverageType(f.CoverageType),
		ZipCode:           f.ZipCode,
		State:             strings.ToUpper(f.State),
		Pregnant:          f.Pregnancy == "true",
		PreExisting:       f.PreExisting == "true",
		PregnancyPlanning: model.PregnancyPlanning(f.PregnancyPlanning),
		ExpensePreference: model.ExpensePreference(f.ExpensePreference),
		RiskPreference:    model.RiskPreference(f.RiskPreference),
		VisitFrequency:    model.VisitFrequency(f.VisitFrequency),
		FinancialCapacity: model.FinancialCapacity(f.FinancialCapacity),
	}
	if f.IUAPreference != "" {
		iua, err := strconv.Atoi(f.IUAPreference)
		if err != nil {
			return model.QuestionnaireResponse{}, model.NewValidationError(model.FieldIUAPreference, "oneof")
		}
		resp.IUAPreference = model.IUAPreference(iua)
	}
	for _, c := range f.MedicalConditions {
		if c = model.NormalizeCondition(c); c != "" {
			resp.MedicalConditions = append(resp.MedicalConditions, c)
		}
	}
	return resp, resp.Validate()
}

// FromResponse renders a typed response back into its form shape.
func FromResponse(r model.QuestionnaireResponse) Form {
	age := r.Age
	f := Form{
		Age:               &age,
		CoverageType:      string(r.CoverageType),
		ZipCode:           r.ZipCode,
		State:             r.State,
		Pregnancy:         strconv.FormatBool(r.Pregnant),
		PreExisting:       strconv.FormatBool(r.PreExisting),
		PregnancyPlanning: string(r.PregnancyPlanning),
		ExpensePreference: string(r.ExpensePreference),
		RiskPreference:    string(r.RiskPreference),
		VisitFrequency:    string(r.VisitFrequency),
		FinancialCapacity: string(r.FinancialCapacity),
		MedicalConditions: append([]string(nil), r.MedicalConditions...),
	}
	if r.IUAPreference != model.IUAUnset {
		f.IUAPreference = strconv.Itoa(int(r.IUAPreference))
	}
	return f
}

// fieldName strips dive indices so list elements report the list field.
func fieldName(fe validator.FieldError) string {
	name := fe.Field()
	if i := strings.IndexByte(name, '['); i >= 0 {
		name = name[:i]
	}
	return name
}
