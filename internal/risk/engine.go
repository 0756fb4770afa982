// Package risk classifies cash-flow risk with additive factor scoring.
package risk

import (
	"CashSentinel/internal/aggregate"
	"CashSentinel/internal/model"
)

// Tiers maps a minimum score to a risk level, highest first.
var Tiers = []struct {
	MinScore float64
	Level    model.RiskLevel
}{
	{60, model.RiskHigh},
	{30, model.RiskMedium},
}

// DefaultLevel applies below the lowest tier.
const DefaultLevel = model.RiskLow

// insufficientDataScore is reported when there is no history at all.
const insufficientDataScore = 100

func mapLevel(score float64) model.RiskLevel {
	for _, t := range Tiers {
		if score >= t.MinScore {
			return t.Level
		}
	}
	return DefaultLevel
}

// Assess scores the latest month against the whole history. No history at all is treated as
// high risk with zero runway.
func Assess(aggs []model.MonthlyAggregate) model.RiskAssessment {
	if len(aggs) == 0 {
		return model.RiskAssessment{
			Level: model.RiskHigh,
			Score: insufficientDataScore,
			Factors: []model.RiskFactor{{
				Name:       ReasonInsufficientData,
				Points:     insufficientDataScore,
				Commentary: "no transactions in the analyzed period",
			}},
		}
	}

	current := aggs[len(aggs)-1]
	_, meanExpenses, _ := aggregate.Averages(aggs)
	runway, unbounded := Runway(current, meanExpenses)

	factors := []model.RiskFactor{}
	add := func(f model.RiskFactor, ok bool) {
		if ok {
			factors = append(factors, f)
		}
	}
	add(scoreBalance(current))
	add(scoreDecline(aggs))
	add(scoreIncomeVolatility(aggregate.Incomes(aggs)))
	add(scoreRunway(runway))

	var score float64
	for _, f := range factors {
		score += f.Points
	}

	return model.RiskAssessment{
		Level:            mapLevel(score),
		Score:            score,
		Factors:          factors,
		CashRunwayMonths: runway,
		RunwayUnbounded:  unbounded,
	}
}
