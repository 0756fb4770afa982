// Package forecast projects short-horizon balances and the next seasonal peak and trough.
// Every projected value is bounded to base ± ClampFactor×|base|.
package forecast

import (
	"math"
	"time"

	"CashSentinel/internal/calculator"
	"CashSentinel/internal/model"
	"CashSentinel/internal/seasonality"
)

const (
	// MaxGrowth bounds the monthly growth rate in both directions.
	MaxGrowth = 0.5
	// ExpenseStickiness scales growth for expenses, which move slower than revenue.
	ExpenseStickiness = 0.7
	// SeasonalBand bounds the seasonal adjustment to ±20% of the unadjusted revenue.
	SeasonalBand = 0.2
	// ClampFactor is k in [base - k|base|, base + k|base|].
	ClampFactor = 5.0
	// PeakMultiplier scales projected revenue in the next peak month.
	PeakMultiplier = 1.2
	// TroughMultiplier scales projected revenue in the next trough month.
	TroughMultiplier = 0.8
)

// Horizons are the projected months ahead, reported as 30/60/90 days.
var Horizons = [3]int{1, 2, 3}

// Input is everything the forecaster needs from upstream stages.
type Input struct {
	Profile     model.SeasonalProfile
	Trend       model.TrendStats
	AvgIncome   float64
	AvgExpenses float64
	Month       time.Month // calendar month of the as-of date
}

// GrowthRate returns the bounded monthly growth rate derived from the trend.
func GrowthRate(ts model.TrendStats) float64 {
	if !calculator.IsFinite(ts.GrowthRate) {
		return 0
	}
	return calculator.Clamp(ts.GrowthRate, -MaxGrowth, MaxGrowth)
}

// Forecast is deterministic: identical input always produces identical output.
func Forecast(in Input) model.ForecastResult {
	g := GrowthRate(in.Trend)
	res := model.ForecastResult{GrowthRate: g}

	base := in.AvgIncome - in.AvgExpenses
	balances := [3]*float64{&res.Balance30, &res.Balance60, &res.Balance90}
	names := [3]string{"balance_30_days", "balance_60_days", "balance_90_days"}
	for i, h := range Horizons {
		target := addMonths(in.Month, h)
		idx := calculator.Clamp(seasonality.IndexOf(in.Profile, target), 1-SeasonalBand, 1+SeasonalBand)

		revenue := in.AvgIncome * math.Pow(1+g, float64(h)) * idx
		expenses := in.AvgExpenses * math.Pow(1+g*ExpenseStickiness, float64(h))

		v, clamped := calculator.ClampAround(revenue-expenses, base, ClampFactor)
		*balances[i] = v
		if clamped {
			res.Clamped = append(res.Clamped, names[i])
		}
	}

	var clamped bool
	if res.NextPeak, clamped = nextPoint(in, g, in.Profile.PeakMonths, PeakMultiplier); clamped {
		res.Clamped = append(res.Clamped, "next_peak")
	}
	if res.NextTrough, clamped = nextPoint(in, g, in.Profile.TroughMonths, TroughMultiplier); clamped {
		res.Clamped = append(res.Clamped, "next_trough")
	}
	return res
}

// nextPoint finds the first month of set strictly after in.Month, wrapping into next year.
func nextPoint(in Input, g float64, set []time.Month, multiplier float64) (*model.SeasonalPoint, bool) {
	if len(set) == 0 {
		return nil, false
	}
	member := make(map[time.Month]bool, len(set))
	for _, m := range set {
		member[m] = true
	}
	for ahead := 1; ahead <= 12; ahead++ {
		m := addMonths(in.Month, ahead)
		if !member[m] {
			continue
		}
		raw := in.AvgIncome * math.Pow(1+g, float64(ahead)) * multiplier
		v, clamped := calculator.ClampAround(raw, in.AvgIncome, ClampFactor)
		return &model.SeasonalPoint{
			Month:           m.String(),
			MonthsAhead:     ahead,
			ExpectedRevenue: v,
		}, clamped
	}
	return nil, false
}

func addMonths(m time.Month, n int) time.Month {
	return time.Month((int(m)-1+n)%12 + 1)
}
