// Package trend fits a linear trend to the monthly balance series and measures its stability.
package trend

import (
	"math"

	"CashSentinel/internal/aggregate"
	"CashSentinel/internal/calculator"
	"CashSentinel/internal/model"
)

const (
	// MinMonths is the shortest history that yields a fitted trend.
	MinMonths = 3
	// NeutralScore is the sustainability score used when history is too short.
	NeutralScore = 50.0
	// ConsistencyRatio: below this share of negative-balance months the business is consistent.
	ConsistencyRatio = 0.3
	// StableVolatility: below this volatility the sustainability score gets its bonus.
	StableVolatility = 0.3
)

// Analyze computes TrendStats over chronologically ordered aggregates.
func Analyze(aggs []model.MonthlyAggregate) model.TrendStats {
	if len(aggs) < MinMonths {
		return model.TrendStats{SustainabilityScore: NeutralScore}
	}

	balances := aggregate.Balances(aggs)
	slope, r2 := calculator.LinearRegression(balances)
	volatility := calculator.StdDev(calculator.RelativeChanges(balances))

	negative := 0
	for _, b := range balances {
		if b < 0 {
			negative++
		}
	}
	consistent := float64(negative)/float64(len(balances)) < ConsistencyRatio

	score := NeutralScore
	if slope > 0 {
		score += 20
	}
	if consistent {
		score += 15
	}
	if volatility < StableVolatility {
		score += 15
	}

	meanIncome := calculator.Mean(aggregate.Incomes(aggs))
	return model.TrendStats{
		SlopePerMonth:       slope,
		RSquared:            r2,
		GrowthRate:          slope / calculator.Floor1(meanIncome),
		Volatility:          volatility,
		Consistent:          consistent,
		SustainabilityScore: calculator.Clamp(score, 0, 100),
	}
}

// Stage classifies the business lifecycle from history length and trend.
func Stage(aggs []model.MonthlyAggregate, ts model.TrendStats) model.BusinessStage {
	if len(aggs) < 6 {
		return model.StageStartup
	}
	growthPct := ts.GrowthRate * 100
	switch {
	case !ts.Consistent && growthPct < -5:
		return model.StageStruggling
	case growthPct > 5 && ts.SustainabilityScore > 70:
		return model.StageGrowing
	case ts.Consistent && math.Abs(growthPct) < 5:
		return model.StageStable
	default:
		return model.StageStartup
	}
}
