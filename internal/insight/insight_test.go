package insight

import (
	"testing"

	"CashSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func categories(ins []model.Insight) []model.InsightCategory {
	out := make([]model.InsightCategory, len(ins))
	for i, in := range ins {
		out[i] = in.Category
	}
	return out
}

func TestInsights_AllRulesFireCappedInPriorityOrder(t *testing.T) {
	s := Signals{
		Risk:         model.RiskAssessment{CashRunwayMonths: 2},
		Trend:        model.TrendStats{SlopePerMonth: 100, SustainabilityScore: 85, Volatility: 0.9},
		ExpenseRatio: 0.95,
	}
	got := Insights(s)
	require.Len(t, got, MaxInsights)
	assert.Equal(t, []model.InsightCategory{model.CategoryCashFlow, model.CategoryGrowth, model.CategoryRevenue}, categories(got))
	assert.Equal(t, model.PriorityHigh, got[0].Priority)
	assert.Equal(t, "You only have 2.0 months of cash. It's critical to act now.", got[0].Description)
}

func TestInsights_EachRule(t *testing.T) {
	healthy := Signals{Risk: model.RiskAssessment{CashRunwayMonths: 8}}

	tests := []struct {
		name   string
		mutate func(*Signals)
		want   model.InsightCategory
	}{
		{"short runway", func(s *Signals) { s.Risk.CashRunwayMonths = 5.9 }, model.CategoryCashFlow},
		{"growth", func(s *Signals) { s.Trend = model.TrendStats{SlopePerMonth: 1, SustainabilityScore: 71} }, model.CategoryGrowth},
		{"volatile revenue", func(s *Signals) { s.Trend.Volatility = 0.31 }, model.CategoryRevenue},
		{"expense ratio", func(s *Signals) { s.ExpenseRatio = 0.81 }, model.CategoryExpenses},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := healthy
			tt.mutate(&s)
			got := Insights(s)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0].Category)
			assert.Len(t, got[0].ActionSteps, 4)
		})
	}
}

func TestInsights_ThresholdsAreStrict(t *testing.T) {
	s := Signals{
		Risk:         model.RiskAssessment{CashRunwayMonths: 6},
		Trend:        model.TrendStats{SlopePerMonth: 10, SustainabilityScore: 70, Volatility: 0.3},
		ExpenseRatio: 0.8,
	}
	got := Insights(s)
	require.Len(t, got, 1)
	assert.Equal(t, model.PriorityLow, got[0].Priority)
}

func TestInsights_ExpenseDescription(t *testing.T) {
	got := Insights(Signals{Risk: model.RiskAssessment{CashRunwayMonths: 12}, ExpenseRatio: 0.92})
	require.Len(t, got, 1)
	assert.Equal(t, "Your expenses represent 92% of income. Ideal would be 70-75%.", got[0].Description)
}

func TestAlerts(t *testing.T) {
	neg := model.MonthlyAggregate{Income: 100, Expenses: 200, Balance: -100}
	pos := model.MonthlyAggregate{Income: 200, Expenses: 100, Balance: 100}

	tests := []struct {
		name  string
		s     Signals
		kinds []model.AlertKind
	}{
		{"healthy", Signals{Risk: model.RiskAssessment{CashRunwayMonths: 3}, Aggregates: []model.MonthlyAggregate{pos, pos, pos}}, nil},
		{"no cash", Signals{Risk: model.RiskAssessment{CashRunwayMonths: 0.5}}, []model.AlertKind{model.AlertNoCash}},
		{"two losses only", Signals{Risk: model.RiskAssessment{CashRunwayMonths: 3}, Aggregates: []model.MonthlyAggregate{neg, neg}}, nil},
		{"recovery breaks streak", Signals{Risk: model.RiskAssessment{CashRunwayMonths: 3}, Aggregates: []model.MonthlyAggregate{neg, neg, pos}}, nil},
		{
			"both",
			Signals{Risk: model.RiskAssessment{}, Aggregates: []model.MonthlyAggregate{pos, neg, neg, neg}},
			[]model.AlertKind{model.AlertNoCash, model.AlertSustainedLosses},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Alerts(tt.s)
			var kinds []model.AlertKind
			for _, a := range got {
				kinds = append(kinds, a.Kind)
			}
			assert.Equal(t, tt.kinds, kinds)
		})
	}
}

func TestAlerts_Severity(t *testing.T) {
	neg := model.MonthlyAggregate{Balance: -1}
	got := Alerts(Signals{Aggregates: []model.MonthlyAggregate{neg, neg, neg}})
	require.Len(t, got, 2)
	assert.Equal(t, model.SeverityCritical, got[0].Severity)
	assert.Equal(t, "This week", got[0].Deadline)
	assert.Equal(t, model.SeverityWarning, got[1].Severity)
	assert.Equal(t, "You have had losses for 3 consecutive months. The business needs structural changes.", got[1].Message)
}

func TestInsights_EmptyHistoryStillAdvises(t *testing.T) {
	s := Signals{Risk: model.RiskAssessment{Level: model.RiskHigh}}
	assert.NotEmpty(t, Insights(s))
	assert.Len(t, Alerts(s), 1)
}
