package trend

import (
	"math"
	"testing"

	"CashSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func series(balances ...float64) []model.MonthlyAggregate {
	out := make([]model.MonthlyAggregate, len(balances))
	for i, b := range balances {
		income := 10000.0
		out[i] = model.MonthlyAggregate{Income: income, Expenses: income - b, Balance: b}
	}
	return out
}

func TestAnalyze_InsufficientHistory(t *testing.T) {
	for _, aggs := range [][]model.MonthlyAggregate{nil, series(100), series(100, -50)} {
		ts := Analyze(aggs)
		assert.Equal(t, model.TrendStats{SustainabilityScore: 50}, ts)
	}
}

func TestAnalyze_SteadyGrowth(t *testing.T) {
	ts := Analyze(series(1000, 2000, 3000, 4000, 5000, 6000))

	assert.InDelta(t, 1000.0, ts.SlopePerMonth, 1e-9)
	assert.InDelta(t, 1.0, ts.RSquared, 1e-9)
	assert.InDelta(t, 0.1, ts.GrowthRate, 1e-12)
	assert.True(t, ts.Consistent)
	// changes 1, 1/2, 1/3, 1/4, 1/5
	assert.Less(t, ts.Volatility, 0.3)
	assert.GreaterOrEqual(t, ts.SustainabilityScore, 80.0)
	assert.Equal(t, 100.0, ts.SustainabilityScore)
}

func TestAnalyze_NegativeMonthsBreakConsistency(t *testing.T) {
	// 2 of 6 months negative: 33% >= 30%
	ts := Analyze(series(500, -100, 400, -200, 300, 100))
	assert.False(t, ts.Consistent)
	assert.Less(t, ts.SlopePerMonth, 0.0)
	assert.Greater(t, ts.Volatility, 0.3)
	assert.Equal(t, 50.0, ts.SustainabilityScore)
}

func TestAnalyze_ZeroPreviousBalanceIsGuarded(t *testing.T) {
	ts := Analyze(series(0, 0, 0, 10))
	// last change is (10-0)/max(0,1) = 10
	assert.False(t, math.IsNaN(ts.Volatility))
	assert.Greater(t, ts.Volatility, 4.0)
}

func TestStage(t *testing.T) {
	short := series(1, 2, 3)
	assert.Equal(t, model.StageStartup, Stage(short, Analyze(short)))

	growing := series(1000, 2000, 3000, 4000, 5000, 6000)
	assert.Equal(t, model.StageGrowing, Stage(growing, Analyze(growing)))

	flat := series(2000, 2000, 2000, 2000, 2000, 2000)
	assert.Equal(t, model.StageStable, Stage(flat, Analyze(flat)))

	falling := series(-1000, -2000, -3000, -4000, -5000, -6000)
	assert.Equal(t, model.StageStruggling, Stage(falling, Analyze(falling)))
}
