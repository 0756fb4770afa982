package model

// RiskLevel is the discrete cash-flow risk classification.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// RiskFactor is a single triggered scoring rule.
type RiskFactor struct {
	Name       string  `json:"name"`
	Points     float64 `json:"points"`
	Commentary string  `json:"commentary"`
}

// RiskAssessment is the output of the risk assessor.
type RiskAssessment struct {
	Level            RiskLevel    `json:"level"`
	Score            float64      `json:"score"`
	Factors          []RiskFactor `json:"factors"`
	CashRunwayMonths float64      `json:"cash_runway_months"`
	RunwayUnbounded  bool         `json:"runway_unbounded"` // burn rate was zero; runway is the ceiling
}

// Reasons lists the triggered factor names in evaluation order.
func (r RiskAssessment) Reasons() []string {
	out := make([]string, len(r.Factors))
	for i, f := range r.Factors {
		out[i] = f.Name
	}
	return out
}

// InsightCategory groups insights by the area of the business they address.
type InsightCategory string

const (
	CategoryCashFlow InsightCategory = "cashflow"
	CategoryGrowth   InsightCategory = "growth"
	CategoryRevenue  InsightCategory = "revenue"
	CategoryExpenses InsightCategory = "expenses"
	CategoryRisk     InsightCategory = "risk"
)

// Priority ranks insights.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Insight is an actionable recommendation.
type Insight struct {
	Category        InsightCategory `json:"category"`
	Priority        Priority        `json:"priority"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	ActionSteps     []string        `json:"action_steps"`
	PotentialImpact string          `json:"potential_impact"`
	Timeframe       string          `json:"timeframe"`
}

// Severity ranks emergency alerts.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// AlertKind identifies which rule raised an alert. It is stable across runs.
type AlertKind string

const (
	AlertNoCash          AlertKind = "no_cash"
	AlertSustainedLosses AlertKind = "sustained_negative_trend"
)

// Alert is an emergency notice that bypasses the insight cap.
type Alert struct {
	Kind             AlertKind `json:"kind"`
	Severity         Severity  `json:"severity"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	ImmediateActions []string  `json:"immediate_actions"`
	Deadline         string    `json:"deadline"`
}
