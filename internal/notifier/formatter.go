package notifier

import (
	"fmt"
	"html"
	"strings"

	"CashSentinel/internal/model"
	"CashSentinel/internal/recorder"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	printer = message.NewPrinter(language.English)
	title   = cases.Title(language.English)
)

// Money formats v with thousands separators and two decimals.
func Money(v float64) string {
	return printer.Sprintf("%.2f", v)
}

func riskIcon(l model.RiskLevel) string {
	switch l {
	case model.RiskHigh:
		return "🔴"
	case model.RiskMedium:
		return "🟡"
	default:
		return "🟢"
	}
}

func runwayText(r model.RiskAssessment) string {
	if r.RunwayUnbounded {
		return fmt.Sprintf("%.0f+ months (no burn)", r.CashRunwayMonths)
	}
	return fmt.Sprintf("%.1f months", r.CashRunwayMonths)
}

// FormatReport formats the full analytics result into a Telegram message.
func FormatReport(business string, m *model.BusinessMetrics) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>CashSentinel report</b> | %s | %s\n\n", html.EscapeString(business), m.AsOf.Format("2006-01-02")))

	b.WriteString(fmt.Sprintf("Income: %s\n", Money(m.TotalIncome)))
	b.WriteString(fmt.Sprintf("Expenses: %s\n", Money(m.TotalExpenses)))
	b.WriteString(fmt.Sprintf("Net: %s (margin %.1f%%)\n", Money(m.NetBalance), m.ProfitMargin))
	b.WriteString(fmt.Sprintf("Monthly avg: in %s | out %s\n", Money(m.MonthlyRevenue), Money(m.MonthlyExpenses)))
	b.WriteString(fmt.Sprintf("Stage: %s | growth %+.1f%%/month | sustainability %.0f/100\n\n",
		title.String(string(m.Stage)), m.GrowthTrend, m.Trend.SustainabilityScore))

	b.WriteString(fmt.Sprintf("%s <b>Risk: %s</b> (score %.0f)\n", riskIcon(m.Risk.Level), strings.ToUpper(string(m.Risk.Level)), m.Risk.Score))
	b.WriteString(fmt.Sprintf("   Cash runway: %s\n", runwayText(m.Risk)))
	for _, f := range m.Risk.Factors {
		b.WriteString(fmt.Sprintf("   • %s: %s\n", f.Name, html.EscapeString(f.Commentary)))
	}

	b.WriteString("\n📈 <b>Forecast</b>\n")
	b.WriteString(fmt.Sprintf("   30 days: %s\n", Money(m.Forecast.Balance30)))
	b.WriteString(fmt.Sprintf("   60 days: %s\n", Money(m.Forecast.Balance60)))
	b.WriteString(fmt.Sprintf("   90 days: %s\n", Money(m.Forecast.Balance90)))
	if p := m.Forecast.NextPeak; p != nil {
		b.WriteString(fmt.Sprintf("   Next peak: %s (in %d mo) ~%s\n", p.Month, p.MonthsAhead, Money(p.ExpectedRevenue)))
	}
	if p := m.Forecast.NextTrough; p != nil {
		b.WriteString(fmt.Sprintf("   Next slow month: %s (in %d mo) ~%s\n", p.Month, p.MonthsAhead, Money(p.ExpectedRevenue)))
	}
	if m.Seasonality.Fallback {
		b.WriteString("   <i>Seasonality uses a typical retail year until 12 months of history exist.</i>\n")
	}

	writeCategories(&b, "Top income", m.IncomeByCategory)
	writeCategories(&b, "Top expenses", m.ExpenseByCategory)

	if len(m.Insights) > 0 {
		b.WriteString("\n💡 <b>Recommendations</b>\n")
		for i, in := range m.Insights {
			b.WriteString(fmt.Sprintf("%d. <b>%s</b> [%s]\n", i+1, html.EscapeString(in.Title), in.Priority))
			b.WriteString(fmt.Sprintf("   %s\n", html.EscapeString(in.Description)))
			for _, s := range in.ActionSteps {
				b.WriteString(fmt.Sprintf("   - %s\n", html.EscapeString(s)))
			}
			b.WriteString(fmt.Sprintf("   Impact: %s | %s\n", in.PotentialImpact, in.Timeframe))
		}
	}

	for _, a := range m.Alerts {
		b.WriteString("\n")
		b.WriteString(FormatAlert(business, a))
	}
	return b.String()
}

func writeCategories(b *strings.Builder, heading string, shares []model.CategoryShare) {
	if len(shares) == 0 {
		return
	}
	b.WriteString(fmt.Sprintf("\n<b>%s</b>\n", heading))
	for i, c := range shares {
		if i == 3 {
			break
		}
		b.WriteString(fmt.Sprintf("   %s: %s (%.1f%%)\n", html.EscapeString(c.Category), Money(c.Amount), c.Percentage))
	}
}

// FormatAlert formats one emergency alert.
func FormatAlert(business string, a model.Alert) string {
	icon := "⚠️"
	if a.Severity == model.SeverityCritical {
		icon = "🚨"
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s <b>%s</b> | %s\n", icon, html.EscapeString(a.Title), html.EscapeString(business)))
	b.WriteString(html.EscapeString(a.Message) + "\n")
	for _, s := range a.ImmediateActions {
		b.WriteString(fmt.Sprintf("   - %s\n", html.EscapeString(s)))
	}
	b.WriteString(fmt.Sprintf("Deadline: %s\n", a.Deadline))
	return b.String()
}

// FormatAlertsSummary lists current alerts, or says there are none.
func FormatAlertsSummary(business string, alerts []model.Alert) string {
	if len(alerts) == 0 {
		return fmt.Sprintf("✅ No emergency alerts for %s.", html.EscapeString(business))
	}
	parts := make([]string, len(alerts))
	for i, a := range alerts {
		parts[i] = FormatAlert(business, a)
	}
	return strings.Join(parts, "\n")
}

// FormatHistory formats recent recorded runs, newest first.
func FormatHistory(business string, runs []recorder.RunSnapshot) string {
	if len(runs) == 0 {
		return fmt.Sprintf("No recorded runs for %s yet.", html.EscapeString(business))
	}
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🗂 <b>Recent runs</b> | %s\n\n", html.EscapeString(business)))
	for _, r := range runs {
		b.WriteString(fmt.Sprintf("%s %s %s | net %s | runway %.1f mo | 30d %s\n",
			r.At.Format("2006-01-02"), riskIcon(r.RiskLevel), r.RiskLevel,
			Money(r.NetBalance), r.RunwayMonths, Money(r.Balance30)))
	}
	return b.String()
}
