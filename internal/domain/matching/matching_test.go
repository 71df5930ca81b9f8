package matching_test

import (
	"errors"
	"testing"

	catalog "github.com/okian/planmatch/internal/domain/catalog"
	matching "github.com/okian/planmatch/internal/domain/matching"
	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/shopspring/decimal"
	. "github.com/smartystreets/goconvey/convey"
)

func tiers(iuas ...int64) []model.CostTier {
	out := make([]model.CostTier, 0, len(iuas))
	for _, iua := range iuas {
		out = append(out, model.CostTier{MonthlyPremium: decimal.NewFromInt(200), InitialUnsharedAmount: decimal.NewFromInt(iua)})
	}
	return out
}

func entries(brackets []string, households []string, costs []model.CostTier) []model.MatrixEntry {
	var out []model.MatrixEntry
	for _, b := range brackets {
		for _, h := range households {
			out = append(out, model.MatrixEntry{AgeBracket: b, HouseholdType: h, Costs: costs})
		}
	}
	return out
}

var standard = []string{"18-29", "30-39", "40-49", "50-59", "60-64"}

func fixture() *catalog.Catalog {
	all := []string{model.HouseholdMemberOnly, model.HouseholdMemberSpouse, model.HouseholdMemberChildren, model.HouseholdMemberFamily}
	c, err := catalog.New([]model.Plan{
		{
			ID: "full", ProviderName: "Full Share",
			AgeRules:   model.AgeRules{Type: model.AgeRulesStandard},
			PlanMatrix: entries(standard, all, tiers(1000, 2500)),
		},
		{
			ID: "no-family", ProviderName: "Small Share",
			AgeRules:   model.AgeRules{Type: model.AgeRulesStandard},
			PlanMatrix: entries(standard, all[:3], tiers(1000)),
		},
		{
			ID: "custom", ProviderName: "CrowdHealth",
			AgeRules: model.AgeRules{Type: model.AgeRulesCustom, Ranges: []model.AgeRange{
				{Min: 18, Max: 54, Bracket: "18-54"},
				{Min: 55, Max: 64, Bracket: "55-64"},
			}},
			PlanMatrix: entries([]string{"18-54", "55-64"}, all, tiers(500)),
		},
		{
			ID: "no-pregnancy", ProviderName: "Strict Share",
			AgeRules:   model.AgeRules{Type: model.AgeRulesStandard},
			PlanMatrix: entries(standard, all, tiers(2500)),
			Exclusions: []model.ExclusionRule{{Field: model.FieldPregnancy, Operator: model.OpEquals, Values: []string{"true"}, Reason: "existing pregnancy"}},
		},
		{
			ID: "gap", ProviderName: "Gap Share",
			AgeRules:   model.AgeRules{Type: model.AgeRulesStandard},
			PlanMatrix: entries(standard, all, nil),
		},
	})
	So(err, ShouldBeNil)
	return c
}

func ids(plans []model.Plan) []string {
	out := make([]string, 0, len(plans))
	for _, p := range plans {
		out = append(out, p.ID)
	}
	return out
}

func TestMatcher_FindEligiblePlans(t *testing.T) {
	Convey("Given a matcher over a mixed catalog", t, func() {
		c := fixture()
		m := matching.NewMatcher(c)

		Convey("When the member wants family coverage", func() {
			plans, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: 40, CoverageType: model.CoverageFamily})

			Convey("Then plans without a Member & Family entry are excluded", func() {
				So(err, ShouldBeNil)
				So(ids(plans), ShouldResemble, []string{"full", "custom", "no-pregnancy"})
			})
		})

		Convey("When the member is pregnant", func() {
			plans, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: 30, CoverageType: model.CoverageJustMe, Pregnant: true})

			Convey("Then exclusion rules drop the plan", func() {
				So(err, ShouldBeNil)
				So(ids(plans), ShouldResemble, []string{"full", "no-family", "custom"})
			})
		})

		Convey("When the member is 60", func() {
			decisions, err := m.Explain(model.QuestionnaireResponse{Age: 60, CoverageType: model.CoverageJustMe})
			So(err, ShouldBeNil)

			Convey("Then the custom plan resolves its own bracket", func() {
				So(decisions[2].PlanID, ShouldEqual, "custom")
				So(decisions[2].Eligible, ShouldBeTrue)
			})

			Convey("Then a plan with an empty cost list degrades to excluded", func() {
				So(decisions[4].Eligible, ShouldBeFalse)
				So(decisions[4].Reason, ShouldEqual, matching.ReasonNoCostTiers)
			})
		})

		Convey("When the member is older than every bracket", func() {
			decisions, err := m.Explain(model.QuestionnaireResponse{Age: 70, CoverageType: model.CoverageJustMe})
			So(err, ShouldBeNil)

			Convey("Then every plan fails on the age bracket", func() {
				for _, d := range decisions {
					So(d.Eligible, ShouldBeFalse)
					So(d.Reason, ShouldEqual, matching.ReasonAgeBracket)
				}
			})

			Convey("Then the eligible list is empty but not nil", func() {
				plans, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: 70, CoverageType: model.CoverageJustMe})
				So(err, ShouldBeNil)
				So(plans, ShouldNotBeNil)
				So(plans, ShouldBeEmpty)
			})
		})

		Convey("When the response is invalid", func() {
			_, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: 30})

			Convey("Then a validation error is returned instead of an empty list", func() {
				var vErr *model.ValidationError
				So(errors.As(err, &vErr), ShouldBeTrue)
				So(vErr.Field, ShouldEqual, model.FieldCoverageType)
			})
		})

		Convey("Then the result is always a subset of the catalog in catalog order", func() {
			for _, ct := range []model.CoverageType{model.CoverageJustMe, model.CoverageMeSpouse, model.CoverageMeKids, model.CoverageFamily} {
				for age := 18; age <= 64; age += 7 {
					plans, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: age, CoverageType: ct})
					So(err, ShouldBeNil)
					last := -1
					for _, p := range plans {
						idx := -1
						for i, cp := range c.Plans() {
							if cp.ID == p.ID {
								idx = i
							}
						}
						So(idx, ShouldBeGreaterThan, last)
						last = idx
					}
				}
			}
		})

		Convey("Then repeated calls are deterministic", func() {
			resp := model.QuestionnaireResponse{Age: 45, CoverageType: model.CoverageMeKids, State: "TX"}
			a, _ := m.FindEligiblePlans(resp)
			b, _ := m.FindEligiblePlans(resp)
			So(ids(a), ShouldResemble, ids(b))
		})
	})

	Convey("Given a matcher over an empty catalog", t, func() {
		empty, err := catalog.New(nil)
		So(err, ShouldBeNil)
		plans, err := matching.NewMatcher(empty).FindEligiblePlans(model.QuestionnaireResponse{Age: 30, CoverageType: model.CoverageJustMe})

		Convey("Then nothing matches and nothing fails", func() {
			So(err, ShouldBeNil)
			So(plans, ShouldNotBeNil)
			So(plans, ShouldBeEmpty)
		})
	})
}

func TestMatcher_DefaultCatalog(t *testing.T) {
	Convey("Given the bundled catalog", t, func() {
		c, err := catalog.Default()
		So(err, ShouldBeNil)
		m := matching.NewMatcher(c)

		Convey("When a family asks for coverage", func() {
			plans, err := m.FindEligiblePlans(model.QuestionnaireResponse{Age: 38, CoverageType: model.CoverageFamily})
			So(err, ShouldBeNil)

			Convey("Then Knew Health is excluded for lacking a family tier", func() {
				So(ids(plans), ShouldNotContain, "knew-health-standard")
				So(ids(plans), ShouldContain, "sedera-select")
			})
		})
	})
}
