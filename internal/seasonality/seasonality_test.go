package seasonality

import (
	"testing"
	"time"

	"CashSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func agg(y int, m time.Month, income float64) model.MonthlyAggregate {
	ym := model.YearMonth{Year: y, Month: m}
	return model.MonthlyAggregate{Period: ym, Label: ym.String(), Income: income, Balance: income}
}

func TestDetect_FallbackExactValues(t *testing.T) {
	// 11 distinct calendar months is not enough
	var aggs []model.MonthlyAggregate
	for m := time.January; m <= time.November; m++ {
		aggs = append(aggs, agg(2024, m, 1000))
	}

	for _, in := range [][]model.MonthlyAggregate{nil, aggs} {
		p := Detect(in)
		assert.True(t, p.Fallback)
		assert.Equal(t, 0.65, p.Index[time.January])
		assert.Equal(t, 1.35, p.Index[time.May])
		assert.Equal(t, 1.45, p.Index[time.November])
		assert.Equal(t, 1.70, p.Index[time.December])
		assert.Len(t, p.Index, 12)
		assert.Equal(t, []time.Month{time.May, time.November, time.December}, p.PeakMonths)
		assert.Equal(t, []time.Month{time.January, time.February, time.August}, p.TroughMonths)
		assert.InDelta(t, 1.70/0.65, p.Factor, 1e-12)
	}
}

func TestDetect_FallbackIsACopy(t *testing.T) {
	p := Fallback()
	p.Index[time.January] = 99
	assert.Equal(t, 0.65, Fallback().Index[time.January])
}

func TestDetect_ComputedFromFullYear(t *testing.T) {
	// two years; December doubles, January halves, everything else flat
	var aggs []model.MonthlyAggregate
	for _, y := range []int{2023, 2024} {
		for m := time.January; m <= time.December; m++ {
			income := 1000.0
			switch m {
			case time.January:
				income = 500
			case time.December:
				income = 1500
			}
			aggs = append(aggs, agg(y, m, income))
		}
	}

	p := Detect(aggs)
	require.False(t, p.Fallback)
	// grand mean is 1000
	assert.InDelta(t, 0.5, p.Index[time.January], 1e-12)
	assert.InDelta(t, 1.5, p.Index[time.December], 1e-12)
	assert.InDelta(t, 1.0, p.Index[time.June], 1e-12)
	assert.Equal(t, []time.Month{time.December}, p.PeakMonths)
	assert.Equal(t, []time.Month{time.January}, p.TroughMonths)
	assert.InDelta(t, 3.0, p.Factor, 1e-12)
}

func TestDetect_AveragesAcrossYears(t *testing.T) {
	var aggs []model.MonthlyAggregate
	for m := time.January; m <= time.December; m++ {
		aggs = append(aggs, agg(2023, m, 1000))
	}
	// a second March pulls the March mean to 1600
	aggs = append(aggs, agg(2024, time.March, 2200))

	p := Detect(aggs)
	require.False(t, p.Fallback)
	grand := (11*1000.0 + 1600) / 12
	assert.InDelta(t, 1600/grand, p.Index[time.March], 1e-12)
	assert.Contains(t, p.PeakMonths, time.March)
}

func TestDetect_ZeroIncomeMonthStaysPositive(t *testing.T) {
	var aggs []model.MonthlyAggregate
	for m := time.January; m <= time.December; m++ {
		income := 1200.0
		if m == time.August {
			income = 0
		}
		aggs = append(aggs, agg(2024, m, income))
	}
	p := Detect(aggs)
	assert.Equal(t, MinIndex, p.Index[time.August])
	for m, v := range p.Index {
		assert.Greater(t, v, 0.0, "index for %s", m)
	}
}

func TestDetect_AllZeroIncomeFallsBack(t *testing.T) {
	var aggs []model.MonthlyAggregate
	for m := time.January; m <= time.December; m++ {
		aggs = append(aggs, agg(2024, m, 0))
	}
	assert.True(t, Detect(aggs).Fallback)
}

func TestIndexOf(t *testing.T) {
	assert.Equal(t, 1.70, IndexOf(Fallback(), time.December))
	assert.Equal(t, 1.0, IndexOf(model.SeasonalProfile{}, time.December))
}
