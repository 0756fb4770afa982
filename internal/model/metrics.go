package model

import "time"

// MonthlyAggregate holds one calendar month's summed income and expenses.
// Balance is always Income - Expenses.
type MonthlyAggregate struct {
	Period   YearMonth `json:"-"`
	Label    string    `json:"month"`
	Income   float64   `json:"income"`
	Expenses float64   `json:"expenses"`
	Balance  float64   `json:"balance"`
}

// SeasonalProfile maps calendar months to multiplicative revenue factors.
type SeasonalProfile struct {
	Index        map[time.Month]float64 `json:"index"`
	PeakMonths   []time.Month           `json:"peak_months"`
	TroughMonths []time.Month           `json:"trough_months"`
	Factor       float64                `json:"factor"`   // max index / min index
	Fallback     bool                   `json:"fallback"` // true when the documented prior was used
}

// TrendStats summarizes the direction and stability of the monthly balance series.
type TrendStats struct {
	SlopePerMonth       float64 `json:"slope_per_month"`
	RSquared            float64 `json:"r_squared"`
	GrowthRate          float64 `json:"growth_rate"` // slope relative to mean monthly income
	Volatility          float64 `json:"volatility"`
	Consistent          bool    `json:"consistent"`
	SustainabilityScore float64 `json:"sustainability_score"`
}

// BusinessStage is a coarse lifecycle label derived from history length and trend.
type BusinessStage string

const (
	StageStartup    BusinessStage = "startup"
	StageGrowing    BusinessStage = "growing"
	StageStable     BusinessStage = "stable"
	StageStruggling BusinessStage = "struggling"
)

// SeasonalPoint is a forecast for the next occurrence of a seasonal peak or trough.
type SeasonalPoint struct {
	Month           string  `json:"month"`
	MonthsAhead     int     `json:"months_ahead"`
	ExpectedRevenue float64 `json:"expected_revenue"`
}

// ForecastResult holds short-horizon balance projections.
type ForecastResult struct {
	Balance30  float64        `json:"balance_30_days"`
	Balance60  float64        `json:"balance_60_days"`
	Balance90  float64        `json:"balance_90_days"`
	GrowthRate float64        `json:"growth_rate"`
	NextPeak   *SeasonalPoint `json:"next_peak,omitempty"`
	NextTrough *SeasonalPoint `json:"next_trough,omitempty"`
	Clamped    []string       `json:"clamped,omitempty"` // names of values pulled back into bounds
}

// CategoryShare is one category's total and its share of its type's total.
type CategoryShare struct {
	Category   string  `json:"category"`
	Amount     float64 `json:"amount"`
	Percentage float64 `json:"percentage"`
}

// BusinessMetrics is the complete analytics result handed to the presentation layer.
// It is built fresh for every request.
type BusinessMetrics struct {
	AsOf          time.Time `json:"as_of"`
	TotalIncome   float64   `json:"total_income"`
	TotalExpenses float64   `json:"total_expenses"`
	NetBalance    float64   `json:"net_balance"`
	ProfitMargin  float64   `json:"profit_margin"`

	IncomeByCategory  []CategoryShare    `json:"income_by_category"`
	ExpenseByCategory []CategoryShare    `json:"expenses_by_category"`
	MonthlyTrend      []MonthlyAggregate `json:"monthly_trend"`

	MonthlyRevenue  float64       `json:"monthly_revenue"`
	MonthlyExpenses float64       `json:"monthly_expenses"`
	NetCashFlow     float64       `json:"net_cash_flow"`
	GrowthTrend     float64       `json:"growth_trend"` // percent per month
	Stage           BusinessStage `json:"business_stage"`

	Seasonality SeasonalProfile `json:"seasonality"`
	Trend       TrendStats      `json:"trend"`
	Risk        RiskAssessment  `json:"risk"`
	Forecast    ForecastResult  `json:"forecast"`

	Insights []Insight `json:"actionable_insights"`
	Alerts   []Alert   `json:"emergency_alerts"`
}
