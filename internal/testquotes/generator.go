package testquotes

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/google/uuid"
	"github.com/okian/planmatch/internal/domain/questionnaire"
	"github.com/okian/planmatch/pkg/logger"
)

// Age range sampled for generated members.
const (
	minAge = 18
	maxAge = 70
)

// answerChance is the percentage of optional answers that get filled in.
const answerChance = 70

var (
	coverageTypes = []string{"just_me", "me_spouse", "me_kids", "family"}
	states        = []string{"TX", "CA", "FL", "NY", "MD", "WA", "OH", "CO"}
	boolAnswers   = []string{"true", "false"}
	planning      = []string{"yes", "no", "maybe"}
	iuaTiers      = []string{"1000", "2500", "5000"}
	expenses      = []string{"lower_monthly", "higher_monthly"}
	risks         = []string{"lower_risk", "higher_risk"}
	visits        = []string{"rarely", "occasionally", "frequently"}
	capacities    = []string{"low", "medium", "high"}
	conditions    = []string{"diabetes", "asthma", "hypertension", "cancer", "arthritis"}
)

// Quote is a generated questionnaire with the correlation ID sent as X-Request-ID.
type Quote struct {
	ID   string             `json:"id"`
	Form questionnaire.Form `json:"form"`
}

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0
	}
	return int(v.Int64())
}

func pick(values []string) string {
	return values[randomInt(len(values))]
}

// maybe returns a random value from values or the empty answer.
func maybe(values []string) string {
	if randomInt(PercentageMultiplier) >= answerChance {
		return ""
	}
	return pick(values)
}

// generateQuotes creates n random questionnaires that pass form validation.
func generateQuotes(ctx context.Context, log logger.Logger, n int, stats *Stats) []Quote {
	log.Info(ctx, "generating questionnaires", logger.Int("numQuotes", n))

	quotes := make([]Quote, n)
	for i := range quotes {
		quotes[i] = Quote{ID: uuid.NewString(), Form: generateForm()}
	}

	stats.QuotesGenerated = len(quotes)
	return quotes
}

// generateForm builds one valid questionnaire with a random subset of optional answers.
func generateForm() questionnaire.Form {
	age := minAge + randomInt(maxAge-minAge+1)
	f := questionnaire.Form{
		Age:               &age,
		CoverageType:      pick(coverageTypes),
		State:             maybe(states),
		Pregnancy:         maybe(boolAnswers),
		PreExisting:       maybe(boolAnswers),
		PregnancyPlanning: maybe(planning),
		IUAPreference:     maybe(iuaTiers),
		ExpensePreference: maybe(expenses),
		RiskPreference:    maybe(risks),
		VisitFrequency:    maybe(visits),
		FinancialCapacity: maybe(capacities),
	}
	if randomInt(2) == 0 {
		f.ZipCode = strconv.Itoa(10000 + randomInt(90000))
	}
	if f.PreExisting == "true" {
		f.MedicalConditions = []string{pick(conditions)}
	}
	return f
}
