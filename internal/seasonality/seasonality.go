// Package seasonality derives a per-calendar-month revenue index from monthly history.
package seasonality

import (
	"math"
	"time"

	"CashSentinel/internal/calculator"
	"CashSentinel/internal/model"
)

const (
	// PeakThreshold: a month whose index exceeds this is a seasonal peak.
	PeakThreshold = 1.15
	// TroughThreshold: a month whose index is below this is a seasonal trough.
	TroughThreshold = 0.85
	// MinIndex keeps computed indices strictly positive when a month had no income.
	MinIndex = 0.05
)

// FallbackIndex is the prior used when history covers fewer than 12 calendar months.
// It follows a retail/food-service year: slow January, February and August; strong May,
// November and December.
var FallbackIndex = map[time.Month]float64{
	time.January:   0.65,
	time.February:  0.75,
	time.March:     0.85,
	time.April:     0.95,
	time.May:       1.35,
	time.June:      1.05,
	time.July:      0.85,
	time.August:    0.80,
	time.September: 1.15,
	time.October:   1.10,
	time.November:  1.45,
	time.December:  1.70,
}

// Detect builds a SeasonalProfile. With at least 12 distinct calendar months of history the
// index of month m is mean(income of m) / mean of the 12 per-month means; otherwise, or when
// every month had zero income, the fallback prior is returned.
func Detect(aggs []model.MonthlyAggregate) model.SeasonalProfile {
	byMonth := make(map[time.Month][]float64)
	for _, a := range aggs {
		byMonth[a.Period.Month] = append(byMonth[a.Period.Month], a.Income)
	}
	if len(byMonth) < 12 {
		return Fallback()
	}

	means := make(map[time.Month]float64, 12)
	perMonth := make([]float64, 0, 12)
	for m := time.January; m <= time.December; m++ {
		means[m] = calculator.Mean(byMonth[m])
		perMonth = append(perMonth, means[m])
	}
	grand := calculator.Mean(perMonth)
	if grand <= 0 {
		return Fallback()
	}

	index := make(map[time.Month]float64, 12)
	for m, v := range means {
		index[m] = math.Max(v/grand, MinIndex)
	}
	return build(index, false)
}

// Fallback returns a fresh copy of the prior profile.
func Fallback() model.SeasonalProfile {
	index := make(map[time.Month]float64, len(FallbackIndex))
	for m, v := range FallbackIndex {
		index[m] = v
	}
	return build(index, true)
}

func build(index map[time.Month]float64, fallback bool) model.SeasonalProfile {
	p := model.SeasonalProfile{
		Index:        index,
		PeakMonths:   []time.Month{},
		TroughMonths: []time.Month{},
		Fallback:     fallback,
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for m := time.January; m <= time.December; m++ {
		v := index[m]
		if v > PeakThreshold {
			p.PeakMonths = append(p.PeakMonths, m)
		}
		if v < TroughThreshold {
			p.TroughMonths = append(p.TroughMonths, m)
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > 0 {
		p.Factor = hi / lo
	}
	return p
}

// IndexOf returns the index for month m, or 1 when the profile has no entry.
func IndexOf(p model.SeasonalProfile, m time.Month) float64 {
	if v, ok := p.Index[m]; ok {
		return v
	}
	return 1
}
