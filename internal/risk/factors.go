package risk

import (
	"fmt"

	"CashSentinel/internal/calculator"
	"CashSentinel/internal/model"
)

// Factor names reported in RiskAssessment.Factors.
const (
	ReasonNegativeBalance  = "negative balance"
	ReasonThinMargin       = "thin margin"
	ReasonDecliningTrend   = "declining trend"
	ReasonUnstableIncome   = "unstable income"
	ReasonLowRunway        = "low cash runway"
	ReasonInsufficientData = "insufficient data"
)

const (
	thinMarginRatio    = 0.10
	unstableIncomeCV   = 0.4
	lowRunwayMonths    = 2.0
	decliningWindow    = 3
	runwayCeilingMonth = 12.0
)

// scoreBalance: negative balance +40, otherwise a balance under 10% of income +20.
func scoreBalance(current model.MonthlyAggregate) (model.RiskFactor, bool) {
	switch {
	case current.Balance < 0:
		return model.RiskFactor{
			Name:       ReasonNegativeBalance,
			Points:     40,
			Commentary: fmt.Sprintf("current month balance %.2f", current.Balance),
		}, true
	case current.Balance < current.Income*thinMarginRatio:
		return model.RiskFactor{
			Name:       ReasonThinMargin,
			Points:     20,
			Commentary: fmt.Sprintf("balance is %.1f%% of income, under 10%%", current.Balance/calculator.Floor1(current.Income)*100),
		}, true
	}
	return model.RiskFactor{}, false
}

// scoreDecline: the last three balances never increase.
func scoreDecline(aggs []model.MonthlyAggregate) (model.RiskFactor, bool) {
	if len(aggs) < decliningWindow {
		return model.RiskFactor{}, false
	}
	recent := aggs[len(aggs)-decliningWindow:]
	for i := 1; i < len(recent); i++ {
		if recent[i].Balance > recent[i-1].Balance {
			return model.RiskFactor{}, false
		}
	}
	return model.RiskFactor{
		Name:       ReasonDecliningTrend,
		Points:     25,
		Commentary: fmt.Sprintf("balance has not increased over the last %d months", decliningWindow),
	}, true
}

// scoreIncomeVolatility: coefficient of variation of monthly income above 0.4.
func scoreIncomeVolatility(incomes []float64) (model.RiskFactor, bool) {
	cv := calculator.CoefficientOfVariation(incomes)
	if cv <= unstableIncomeCV {
		return model.RiskFactor{}, false
	}
	return model.RiskFactor{
		Name:       ReasonUnstableIncome,
		Points:     15,
		Commentary: fmt.Sprintf("income varies %.0f%% around its mean", cv*100),
	}, true
}

// scoreRunway: fewer than two months of cash at the average burn rate.
func scoreRunway(runway float64) (model.RiskFactor, bool) {
	if runway >= lowRunwayMonths {
		return model.RiskFactor{}, false
	}
	return model.RiskFactor{
		Name:       ReasonLowRunway,
		Points:     30,
		Commentary: fmt.Sprintf("only %.1f months of cash available", runway),
	}, true
}

// Runway returns months of cash left: max(current balance, 0) / mean monthly expenses.
// With no burn the runway is the 12-month ceiling and unbounded is true.
func Runway(current model.MonthlyAggregate, meanExpenses float64) (months float64, unbounded bool) {
	if meanExpenses <= 0 {
		return runwayCeilingMonth, true
	}
	cash := current.Balance
	if cash < 0 {
		cash = 0
	}
	return cash / meanExpenses, false
}
