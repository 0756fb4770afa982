// Package analytics runs the full pipeline from transactions to BusinessMetrics.
package analytics

import (
	"time"

	"CashSentinel/internal/aggregate"
	"CashSentinel/internal/forecast"
	"CashSentinel/internal/insight"
	"CashSentinel/internal/model"
	"CashSentinel/internal/risk"
	"CashSentinel/internal/seasonality"
	"CashSentinel/internal/trend"
)

// Analyze is total over any list of valid transactions: it never fails and never shares state
// between calls. asOf selects the forecast horizons and seasonal lookups, and its location
// decides which calendar month each transaction belongs to.
func Analyze(txs []model.Transaction, asOf time.Time) *model.BusinessMetrics {
	txs = inLocation(txs, asOf.Location())
	aggs := aggregate.Monthly(txs)
	totals := aggregate.Summarize(txs)

	profile := seasonality.Detect(aggs)
	ts := trend.Analyze(aggs)
	ra := risk.Assess(aggs)

	avgIncome, avgExpenses, avgBalance := aggregate.Averages(aggs)
	fc := forecast.Forecast(forecast.Input{
		Profile:     profile,
		Trend:       ts,
		AvgIncome:   avgIncome,
		AvgExpenses: avgExpenses,
		Month:       asOf.Month(),
	})

	signals := insight.Signals{
		Aggregates:   aggs,
		Trend:        ts,
		Risk:         ra,
		ExpenseRatio: aggregate.ExpenseRatio(aggs),
	}

	return &model.BusinessMetrics{
		AsOf:          asOf,
		TotalIncome:   totals.Income,
		TotalExpenses: totals.Expenses,
		NetBalance:    totals.Net,
		ProfitMargin:  totals.ProfitMargin,

		IncomeByCategory:  aggregate.ByCategory(txs, model.TxIncome),
		ExpenseByCategory: aggregate.ByCategory(txs, model.TxExpense),
		MonthlyTrend:      aggs,

		MonthlyRevenue:  avgIncome,
		MonthlyExpenses: avgExpenses,
		NetCashFlow:     avgBalance,
		GrowthTrend:     ts.GrowthRate * 100,
		Stage:           trend.Stage(aggs, ts),

		Seasonality: profile,
		Trend:       ts,
		Risk:        ra,
		Forecast:    fc,

		Insights: insight.Insights(signals),
		Alerts:   insight.Alerts(signals),
	}
}

// inLocation returns a copy of txs with timestamps moved to loc, matching the month
// boundaries of source.LastMonths. The input slice is not modified.
func inLocation(txs []model.Transaction, loc *time.Location) []model.Transaction {
	out := make([]model.Transaction, len(txs))
	for i, t := range txs {
		t.Timestamp = t.Timestamp.In(loc)
		out[i] = t
	}
	return out
}
