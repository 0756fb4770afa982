// Package aggregate groups raw transactions into monthly and per-category totals.
package aggregate

import (
	"sort"

	"CashSentinel/internal/model"

	"github.com/shopspring/decimal"
)

type monthSums struct {
	income   decimal.Decimal
	expenses decimal.Decimal
}

// Monthly groups transactions by calendar month of their timestamp and returns one aggregate per
// month that has at least one transaction, in ascending chronological order.
// Sums are exact; floats are produced only at the end, and Balance is derived from the
// converted values so Balance == Income - Expenses holds bit-for-bit.
func Monthly(txs []model.Transaction) []model.MonthlyAggregate {
	groups := make(map[model.YearMonth]*monthSums)
	for _, t := range txs {
		key := model.YearMonthOf(t.Timestamp)
		g, ok := groups[key]
		if !ok {
			g = &monthSums{}
			groups[key] = g
		}
		switch t.Type {
		case model.TxIncome:
			g.income = g.income.Add(t.Amount)
		case model.TxExpense:
			g.expenses = g.expenses.Add(t.Amount)
		}
	}

	keys := make([]model.YearMonth, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Before(keys[j]) })

	out := make([]model.MonthlyAggregate, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		income := g.income.InexactFloat64()
		expenses := g.expenses.InexactFloat64()
		out = append(out, model.MonthlyAggregate{
			Period:   k,
			Label:    k.String(),
			Income:   income,
			Expenses: expenses,
			Balance:  income - expenses,
		})
	}
	return out
}

// Totals holds whole-snapshot sums.
type Totals struct {
	Income       float64
	Expenses     float64
	Net          float64
	ProfitMargin float64 // percent of income; 0 when there is no income
}

// Summarize sums every transaction in the snapshot.
func Summarize(txs []model.Transaction) Totals {
	var income, expenses decimal.Decimal
	for _, t := range txs {
		switch t.Type {
		case model.TxIncome:
			income = income.Add(t.Amount)
		case model.TxExpense:
			expenses = expenses.Add(t.Amount)
		}
	}
	tot := Totals{
		Income:   income.InexactFloat64(),
		Expenses: expenses.InexactFloat64(),
	}
	tot.Net = tot.Income - tot.Expenses
	if tot.Income > 0 {
		tot.ProfitMargin = tot.Net / tot.Income * 100
	}
	return tot
}

// ByCategory returns per-category totals for transactions of type typ, sorted by amount
// descending (ties by category name). Percentages are shares of the type's total.
func ByCategory(txs []model.Transaction, typ model.TxType) []model.CategoryShare {
	sums := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, t := range txs {
		if t.Type != typ {
			continue
		}
		sums[t.Category] = sums[t.Category].Add(t.Amount)
		total = total.Add(t.Amount)
	}

	out := make([]model.CategoryShare, 0, len(sums))
	for cat, amt := range sums {
		share := model.CategoryShare{Category: cat, Amount: amt.InexactFloat64()}
		if total.IsPositive() {
			share.Percentage = amt.Div(total).Mul(decimal.NewFromInt(100)).InexactFloat64()
		}
		out = append(out, share)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Amount != out[j].Amount {
			return out[i].Amount > out[j].Amount
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// Averages returns mean monthly income, expenses and balance across aggregates.
func Averages(aggs []model.MonthlyAggregate) (income, expenses, balance float64) {
	if len(aggs) == 0 {
		return 0, 0, 0
	}
	for _, a := range aggs {
		income += a.Income
		expenses += a.Expenses
		balance += a.Balance
	}
	n := float64(len(aggs))
	return income / n, expenses / n, balance / n
}

// Incomes extracts the income series.
func Incomes(aggs []model.MonthlyAggregate) []float64 {
	out := make([]float64, len(aggs))
	for i, a := range aggs {
		out[i] = a.Income
	}
	return out
}

// Balances extracts the balance series.
func Balances(aggs []model.MonthlyAggregate) []float64 {
	out := make([]float64, len(aggs))
	for i, a := range aggs {
		out[i] = a.Balance
	}
	return out
}

// ExpenseRatio is the mean of expenses/income over months that had income; 0 if none did.
func ExpenseRatio(aggs []model.MonthlyAggregate) float64 {
	var sum float64
	var n int
	for _, a := range aggs {
		if a.Income > 0 {
			sum += a.Expenses / a.Income
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}
