// Package insight turns analytics signals into ranked recommendations and emergency alerts.
package insight

import (
	"fmt"

	"CashSentinel/internal/model"
)

// MaxInsights caps the recommendation list. Alerts are never capped.
const MaxInsights = 3

const (
	cashflowRunwayMonths = 6.0
	growthMinScore       = 70.0
	revenueVolatility    = 0.3
	expenseRatioLimit    = 0.8
	noCashRunwayMonths   = 1.0
	lossStreakMonths     = 3
)

// Signals are the upstream results the rules read.
type Signals struct {
	Aggregates   []model.MonthlyAggregate
	Trend        model.TrendStats
	Risk         model.RiskAssessment
	ExpenseRatio float64 // mean expenses/income over months with income
}

type rule func(Signals) (model.Insight, bool)

// rules are evaluated in priority order.
var rules = []rule{
	cashflowRule,
	growthRule,
	revenueRule,
	expensesRule,
}

// Insights evaluates every rule and returns at most MaxInsights in priority order. When no rule
// fires, a single low-priority insight recommending the current course is returned.
func Insights(s Signals) []model.Insight {
	out := make([]model.Insight, 0, MaxInsights)
	for _, r := range rules {
		if ins, ok := r(s); ok {
			out = append(out, ins)
		}
	}
	if len(out) == 0 {
		return []model.Insight{steadyCourse()}
	}
	if len(out) > MaxInsights {
		out = out[:MaxInsights]
	}
	return out
}

// Alerts returns emergency alerts, critical first.
func Alerts(s Signals) []model.Alert {
	out := []model.Alert{}
	if s.Risk.CashRunwayMonths < noCashRunwayMonths {
		out = append(out, model.Alert{
			Kind:     model.AlertNoCash,
			Severity: model.SeverityCritical,
			Title:    "EMERGENCY: No cash available",
			Message:  "Your business cannot operate next month without cash injection.",
			ImmediateActions: []string{
				"Contact bank for emergency credit line",
				"Collect ALL accounts receivable TODAY",
				"Sell inventory with aggressive discounts",
				"Seek investor or family loan",
			},
			Deadline: "This week",
		})
	}
	if lossStreak(s.Aggregates) {
		out = append(out, model.Alert{
			Kind:     model.AlertSustainedLosses,
			Severity: model.SeverityWarning,
			Title:    "Sustained negative trend",
			Message:  fmt.Sprintf("You have had losses for %d consecutive months. The business needs structural changes.", lossStreakMonths),
			ImmediateActions: []string{
				"Review complete business model",
				"Analyze competition and market prices",
				"Consider pivot or strategy change",
				"Seek business advisory",
			},
			Deadline: "2 weeks",
		})
	}
	return out
}

func lossStreak(aggs []model.MonthlyAggregate) bool {
	if len(aggs) < lossStreakMonths {
		return false
	}
	for _, a := range aggs[len(aggs)-lossStreakMonths:] {
		if a.Balance >= 0 {
			return false
		}
	}
	return true
}

func cashflowRule(s Signals) (model.Insight, bool) {
	if s.Risk.CashRunwayMonths >= cashflowRunwayMonths {
		return model.Insight{}, false
	}
	return model.Insight{
		Category:    model.CategoryCashFlow,
		Priority:    model.PriorityHigh,
		Title:       "Improve cash flow urgently",
		Description: fmt.Sprintf("You only have %.1f months of cash. It's critical to act now.", s.Risk.CashRunwayMonths),
		ActionSteps: []string{
			"Collect all pending accounts this week",
			"Negotiate payment terms with suppliers",
			"Offer early payment discounts to customers",
			"Reduce non-essential expenses immediately",
		},
		PotentialImpact: "Extend runway to 3-6 months",
		Timeframe:       "1-2 weeks",
	}, true
}

func growthRule(s Signals) (model.Insight, bool) {
	if s.Trend.SlopePerMonth <= 0 || s.Trend.SustainabilityScore <= growthMinScore {
		return model.Insight{}, false
	}
	return model.Insight{
		Category:    model.CategoryGrowth,
		Priority:    model.PriorityMedium,
		Title:       "Capitalize on growth momentum",
		Description: fmt.Sprintf("Your business is growing %.1f%% per month. It's the right time to invest in expansion.", s.Trend.GrowthRate*100),
		ActionSteps: []string{
			"Reinvest 20% of profits in marketing",
			"Extend operating hours on high-sales days",
			"Train staff to improve customer service",
			"Explore new complementary products/services",
		},
		PotentialImpact: "Accelerate growth 15-25%",
		Timeframe:       "1-3 months",
	}, true
}

func revenueRule(s Signals) (model.Insight, bool) {
	if s.Trend.Volatility <= revenueVolatility {
		return model.Insight{}, false
	}
	return model.Insight{
		Category:    model.CategoryRevenue,
		Priority:    model.PriorityMedium,
		Title:       "Stabilize monthly income",
		Description: "Your income varies greatly month to month. This creates financial uncertainty.",
		ActionSteps: []string{
			"Create recurring service packages",
			"Implement layaway/pre-sale system",
			"Diversify products for different seasons",
			"Seek medium-term contracts with frequent customers",
		},
		PotentialImpact: "Reduce income variation 30-40%",
		Timeframe:       "2-4 months",
	}, true
}

func expensesRule(s Signals) (model.Insight, bool) {
	if s.ExpenseRatio <= expenseRatioLimit {
		return model.Insight{}, false
	}
	return model.Insight{
		Category:    model.CategoryExpenses,
		Priority:    model.PriorityHigh,
		Title:       "Reduce operating costs",
		Description: fmt.Sprintf("Your expenses represent %.0f%% of income. Ideal would be 70-75%%.", s.ExpenseRatio*100),
		ActionSteps: []string{
			"Review all monthly fixed expenses",
			"Negotiate better prices with main suppliers",
			"Eliminate non-essential subscriptions and services",
			"Optimize delivery or distribution routes",
		},
		PotentialImpact: "Improve margin 5-15%",
		Timeframe:       "2-6 weeks",
	}, true
}

func steadyCourse() model.Insight {
	return model.Insight{
		Category:    model.CategoryGrowth,
		Priority:    model.PriorityLow,
		Title:       "Keep current strategy",
		Description: "Your indicators are within healthy ranges. Keep tracking them every month.",
		ActionSteps: []string{
			"Review this report at the start of each month",
			"Keep a cash reserve of at least 3 months of expenses",
			"Record every transaction the day it happens",
		},
		PotentialImpact: "Sustain current performance",
		Timeframe:       "Ongoing",
	}
}
