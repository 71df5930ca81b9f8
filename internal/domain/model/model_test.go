package model_test

import (
	"encoding/json"
	"errors"
	"testing"

	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAgeRules_Resolve(t *testing.T) {
	convey.Convey("Given standard age rules", t, func() {
		rules := model.AgeRules{Type: model.AgeRulesStandard}

		convey.Convey("Then ages resolve to the shared bracket table", func() {
			for age, want := range map[int]string{18: "18-29", 29: "18-29", 30: "30-39", 45: "40-49", 59: "50-59", 60: "60-64", 64: "60-64"} {
				got, ok := rules.Resolve(age)
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got, convey.ShouldEqual, want)
			}
		})

		convey.Convey("Then ages outside the table do not resolve", func() {
			for _, age := range []int{0, 17, 65, 90} {
				_, ok := rules.Resolve(age)
				convey.So(ok, convey.ShouldBeFalse)
			}
		})
	})

	convey.Convey("Given custom age rules split at 55", t, func() {
		rules := model.AgeRules{
			Type: model.AgeRulesCustom,
			Ranges: []model.AgeRange{
				{Min: 18, Max: 54, Bracket: "18-54"},
				{Min: 55, Max: 64, Bracket: "55-64"},
			},
		}

		convey.Convey("When resolving age 60", func() {
			got, ok := rules.Resolve(60)

			convey.Convey("Then the plan's own bracket is used", func() {
				convey.So(ok, convey.ShouldBeTrue)
				convey.So(got, convey.ShouldEqual, "55-64")
			})
		})

		convey.Convey("When resolving age 30", func() {
			got, _ := rules.Resolve(30)
			convey.So(got, convey.ShouldEqual, "18-54")
		})
	})
}

func TestCoverageType_Household(t *testing.T) {
	convey.Convey("Given every coverage type", t, func() {
		cases := map[model.CoverageType]string{
			model.CoverageJustMe:   model.HouseholdMemberOnly,
			model.CoverageMeSpouse: model.HouseholdMemberSpouse,
			model.CoverageMeKids:   model.HouseholdMemberChildren,
			model.CoverageFamily:   model.HouseholdMemberFamily,
		}
		for ct, want := range cases {
			got, ok := ct.Household()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(got, convey.ShouldEqual, want)
		}

		convey.Convey("Then an unknown coverage type has no household", func() {
			_, ok := model.CoverageType("roommates").Household()
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestQuestionnaireResponse_Validate(t *testing.T) {
	convey.Convey("Given a questionnaire response", t, func() {
		resp := model.QuestionnaireResponse{Age: 35, CoverageType: model.CoverageJustMe}

		convey.Convey("When only required fields are set", func() {
			convey.So(resp.Validate(), convey.ShouldBeNil)
		})

		convey.Convey("When coverage type is missing", func() {
			resp.CoverageType = ""
			err := resp.Validate()

			convey.Convey("Then the error names the field", func() {
				var vErr *model.ValidationError
				convey.So(errors.As(err, &vErr), convey.ShouldBeTrue)
				convey.So(vErr.Field, convey.ShouldEqual, model.FieldCoverageType)
				convey.So(errors.Is(err, model.ErrInvalidResponse), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "missing coverage_type")
			})
		})

		convey.Convey("When an enum holds a value outside its set", func() {
			resp.RiskPreference = "yolo"
			var vErr *model.ValidationError
			convey.So(errors.As(resp.Validate(), &vErr), convey.ShouldBeTrue)
			convey.So(vErr.Field, convey.ShouldEqual, model.FieldRiskPreference)
		})

		convey.Convey("When the IUA preference is not an offered tier", func() {
			resp.IUAPreference = 3000
			var vErr *model.ValidationError
			convey.So(errors.As(resp.Validate(), &vErr), convey.ShouldBeTrue)
			convey.So(vErr.Field, convey.ShouldEqual, model.FieldIUAPreference)
		})

		convey.Convey("When age is zero", func() {
			resp.Age = 0
			var vErr *model.ValidationError
			convey.So(errors.As(resp.Validate(), &vErr), convey.ShouldBeTrue)
			convey.So(vErr.Field, convey.ShouldEqual, model.FieldAge)
		})
	})
}

func TestExclusionRule_Matches(t *testing.T) {
	convey.Convey("Given exclusion rules", t, func() {
		resp := model.QuestionnaireResponse{
			Age:               58,
			CoverageType:      model.CoverageFamily,
			State:             "wa",
			Pregnant:          true,
			MedicalConditions: []string{" Diabetes ", "asthma"},
		}

		convey.Convey("Then a pregnancy equals rule trips on an active pregnancy", func() {
			rule := model.ExclusionRule{Field: model.FieldPregnancy, Operator: model.OpEquals, Values: []string{"true"}}
			convey.So(rule.Matches(resp), convey.ShouldBeTrue)
			resp.Pregnant = false
			convey.So(rule.Matches(resp), convey.ShouldBeFalse)
		})

		convey.Convey("Then an in rule on state is case-insensitive", func() {
			rule := model.ExclusionRule{Field: model.FieldState, Operator: model.OpIn, Values: []string{"MD", "WA"}}
			convey.So(rule.Matches(resp), convey.ShouldBeTrue)
		})

		convey.Convey("Then a contains rule matches normalized conditions", func() {
			rule := model.ExclusionRule{Field: model.FieldMedicalConditions, Operator: model.OpContains, Values: []string{"diabetes"}}
			convey.So(rule.Matches(resp), convey.ShouldBeTrue)
		})

		convey.Convey("Then numeric rules compare the age answer", func() {
			convey.So(model.ExclusionRule{Field: model.FieldAge, Operator: model.OpGTE, Values: []string{"55"}}.Matches(resp), convey.ShouldBeTrue)
			convey.So(model.ExclusionRule{Field: model.FieldAge, Operator: model.OpLTE, Values: []string{"55"}}.Matches(resp), convey.ShouldBeFalse)
		})

		convey.Convey("Then unanswered optional fields never match", func() {
			rule := model.ExclusionRule{Field: model.FieldPregnancyPlanning, Operator: model.OpEquals, Values: []string{"yes"}}
			convey.So(rule.Matches(resp), convey.ShouldBeFalse)
		})

		convey.Convey("Then unknown fields and operators are not known", func() {
			convey.So(model.ExclusionRule{Field: "shoe_size", Operator: model.OpEquals, Values: []string{"9"}}.Known(), convey.ShouldBeFalse)
			convey.So(model.ExclusionRule{Field: model.FieldAge, Operator: "between", Values: []string{"9"}}.Known(), convey.ShouldBeFalse)
			convey.So(model.ExclusionRule{Field: model.FieldAge, Operator: model.OpGTE}.Known(), convey.ShouldBeFalse)
			convey.So(model.ExclusionRule{Field: model.FieldAge, Operator: model.OpGTE, Values: []string{"60"}}.Known(), convey.ShouldBeTrue)
		})
	})
}

func TestCoverage_JSON(t *testing.T) {
	convey.Convey("Given coverage ceilings in catalog JSON", t, func() {
		convey.Convey("When the value is a no-limit sentinel", func() {
			for _, raw := range []string{`"unlimited"`, `"No Limit"`, `null`} {
				var c model.Coverage
				convey.So(json.Unmarshal([]byte(raw), &c), convey.ShouldBeNil)
				convey.So(c.Unlimited, convey.ShouldBeTrue)
			}
		})

		convey.Convey("When the value is numeric or a numeric string", func() {
			for _, raw := range []string{`1000000`, `"1000000"`, `"1,000,000"`} {
				var c model.Coverage
				convey.So(json.Unmarshal([]byte(raw), &c), convey.ShouldBeNil)
				convey.So(c.Unlimited, convey.ShouldBeFalse)
				convey.So(c.Amount.IntPart(), convey.ShouldEqual, 1000000)
			}
		})

		convey.Convey("When the value is garbage", func() {
			var c model.Coverage
			convey.So(json.Unmarshal([]byte(`"lots"`), &c), convey.ShouldNotBeNil)
		})

		convey.Convey("Then encoding round trips the sentinel", func() {
			data, err := json.Marshal(model.UnlimitedCoverage())
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(data), convey.ShouldEqual, `"unlimited"`)
		})
	})
}

func TestTopReason(t *testing.T) {
	convey.Convey("Given a factor breakdown", t, func() {
		factors := []model.Factor{
			{Factor: "iua_match", Score: 25, Impact: 12.5},
			{Factor: "monthly_cost", Score: 30, Impact: 7.5},
			{Factor: "coverage_limit", Score: 20, Impact: 12.5},
		}

		convey.Convey("Then the top reason is the greatest impact with ties going to the first", func() {
			top, ok := model.TopReason(factors)
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(top.Factor, convey.ShouldEqual, "iua_match")
		})

		convey.Convey("Then repeated calls agree", func() {
			a, _ := model.TopReason(factors)
			b, _ := model.TopReason(factors)
			convey.So(a, convey.ShouldResemble, b)
		})

		convey.Convey("Then an empty breakdown has no top reason", func() {
			_, ok := model.TopReason(nil)
			convey.So(ok, convey.ShouldBeFalse)
		})
	})
}

func TestPlan_DisplayName(t *testing.T) {
	convey.Convey("Given plans with and without a tier name", t, func() {
		convey.So(model.Plan{ProviderName: "CrowdHealth"}.DisplayName(), convey.ShouldEqual, "CrowdHealth")
		convey.So(model.Plan{ProviderName: "Zion HealthShare", PlanName: "Essential"}.DisplayName(), convey.ShouldEqual, "Zion HealthShare Essential")
	})
}
