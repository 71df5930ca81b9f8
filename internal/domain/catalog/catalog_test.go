package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	catalog "github.com/okian/planmatch/internal/domain/catalog"
	model "github.com/okian/planmatch/internal/domain/model"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tier(premium, iua int64) model.CostTier {
	return model.CostTier{MonthlyPremium: decimal.NewFromInt(premium), InitialUnsharedAmount: decimal.NewFromInt(iua)}
}

func TestDefault(t *testing.T) {
	c, err := catalog.Default()
	require.NoError(t, err)
	require.Greater(t, c.Len(), 0)

	ids := map[string]bool{}
	for _, p := range c.Plans() {
		assert.False(t, ids[p.ID], "duplicate id %s", p.ID)
		ids[p.ID] = true
		for _, e := range p.PlanMatrix {
			for i := 1; i < len(e.Costs); i++ {
				assert.True(t, e.Costs[i-1].InitialUnsharedAmount.LessThan(e.Costs[i].InitialUnsharedAmount),
					"%s %s/%s costs not ascending", p.ID, e.AgeBracket, e.HouseholdType)
			}
		}
	}

	crowd, err := c.Get("crowdhealth")
	require.NoError(t, err)
	bracket, ok := crowd.AgeRules.Resolve(60)
	require.True(t, ok)
	assert.Equal(t, "55-64", bracket)
	assert.True(t, crowd.MaxCoverage.Unlimited)

	again, err := catalog.Default()
	require.NoError(t, err)
	assert.Same(t, c, again)
}

func TestNew_SortsCosts(t *testing.T) {
	in := []model.Plan{{
		ID:           "p1",
		ProviderName: "Provider",
		AgeRules:     model.AgeRules{Type: model.AgeRulesStandard},
		PlanMatrix: []model.MatrixEntry{{
			AgeBracket:    "18-29",
			HouseholdType: model.HouseholdMemberOnly,
			Costs:         []model.CostTier{tier(100, 5000), tier(200, 1000), tier(150, 2500)},
		}},
	}}
	c, err := catalog.New(in)
	require.NoError(t, err)

	p, err := c.Get("p1")
	require.NoError(t, err)
	costs := p.PlanMatrix[0].Costs
	require.Len(t, costs, 3)
	assert.Equal(t, int64(1000), costs[0].InitialUnsharedAmount.IntPart())
	assert.Equal(t, int64(2500), costs[1].InitialUnsharedAmount.IntPart())
	assert.Equal(t, int64(5000), costs[2].InitialUnsharedAmount.IntPart())

	// The input slice is left untouched.
	assert.Equal(t, int64(5000), in[0].PlanMatrix[0].Costs[0].InitialUnsharedAmount.IntPart())
}

func TestNew_Rejects(t *testing.T) {
	base := func() model.Plan {
		return model.Plan{
			ID:           "p1",
			ProviderName: "Provider",
			AgeRules:     model.AgeRules{Type: model.AgeRulesStandard},
			PlanMatrix: []model.MatrixEntry{{
				AgeBracket:    "18-29",
				HouseholdType: model.HouseholdMemberOnly,
				Costs:         []model.CostTier{tier(100, 1000)},
			}},
		}
	}

	cases := map[string]func() []model.Plan{
		"duplicate iua": func() []model.Plan {
			p := base()
			p.PlanMatrix[0].Costs = append(p.PlanMatrix[0].Costs, tier(90, 1000))
			return []model.Plan{p}
		},
		"duplicate id": func() []model.Plan { return []model.Plan{base(), base()} },
		"missing id": func() []model.Plan {
			p := base()
			p.ID = " "
			return []model.Plan{p}
		},
		"unknown exclusion field": func() []model.Plan {
			p := base()
			p.Exclusions = []model.ExclusionRule{{Field: "shoe_size", Operator: model.OpEquals, Values: []string{"9"}}}
			return []model.Plan{p}
		},
		"custom rules without ranges": func() []model.Plan {
			p := base()
			p.AgeRules = model.AgeRules{Type: model.AgeRulesCustom}
			return []model.Plan{p}
		},
		"unknown age rule type": func() []model.Plan {
			p := base()
			p.AgeRules = model.AgeRules{Type: "lunar"}
			return []model.Plan{p}
		},
	}
	for name, build := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := catalog.New(build())
			require.Error(t, err)
			assert.True(t, errors.Is(err, catalog.ErrInvalidCatalog))
		})
	}
}

func TestGet_NotFound(t *testing.T) {
	c, err := catalog.New(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Len())
	assert.NotNil(t, c.Plans())

	_, err = c.Get("nope")
	assert.ErrorIs(t, err, catalog.ErrPlanNotFound)
}

func TestParse_SchemaViolations(t *testing.T) {
	_, err := catalog.Parse([]byte(`{"plans":[{"id":"x","providerName":"P","maxCoverage":"unlimited","ageRules":{"type":"weekly"},"planMatrix":[]}]}`))
	require.Error(t, err)

	var se *catalog.SchemaError
	require.True(t, errors.As(err, &se))
	assert.NotEmpty(t, se.Errors)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)

	_, err = catalog.Parse([]byte(`{}`))
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestLoad(t *testing.T) {
	doc := `{"plans":[{
		"id":"solo","providerName":"Solo Share","planName":"",
		"maxCoverage":"1,000,000","annualUnsharedAmount":null,
		"ageRules":{"type":"standard"},
		"planMatrix":[{"ageBracket":"30-39","householdType":"Member Only",
			"costs":[{"monthlyPremium":"210.50","initialUnsharedAmount":2500},{"monthlyPremium":250,"initialUnsharedAmount":1000}]}]
	}]}`

	c, err := catalog.Load(strings.NewReader(doc))
	require.NoError(t, err)
	p, err := c.Get("solo")
	require.NoError(t, err)
	assert.Nil(t, p.AnnualUnsharedAmount)
	assert.False(t, p.MaxCoverage.Unlimited)
	assert.Equal(t, "Solo Share", p.DisplayName())
	assert.Equal(t, "250", p.PlanMatrix[0].Costs[0].MonthlyPremium.String())

	path := filepath.Join(t.TempDir(), "plans.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o600))
	fromFile, err := catalog.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 1, fromFile.Len())

	_, err = catalog.LoadFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
