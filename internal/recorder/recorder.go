// Package recorder keeps a history of analyzer runs and delivered alerts.
package recorder

import (
	"time"

	"CashSentinel/internal/analytics"
	"CashSentinel/internal/model"
)

// RunSnapshot is the persisted summary of one analyzer run.
type RunSnapshot struct {
	RunID          string
	BusinessID     string
	At             time.Time
	Transactions   int
	Skipped        int
	TotalIncome    float64
	TotalExpenses  float64
	NetBalance     float64
	RiskLevel      model.RiskLevel
	RiskScore      float64
	RunwayMonths   float64
	Balance30      float64
	Balance60      float64
	Balance90      float64
	Sustainability float64
	Stage          model.BusinessStage
	Alerts         int
}

// SnapshotOf flattens an analyzer report.
func SnapshotOf(rep *analytics.Report) *RunSnapshot {
	m := rep.Metrics
	return &RunSnapshot{
		RunID:          rep.RunID,
		BusinessID:     rep.BusinessID,
		At:             m.AsOf,
		Transactions:   rep.Read - rep.Skipped,
		Skipped:        rep.Skipped,
		TotalIncome:    m.TotalIncome,
		TotalExpenses:  m.TotalExpenses,
		NetBalance:     m.NetBalance,
		RiskLevel:      m.Risk.Level,
		RiskScore:      m.Risk.Score,
		RunwayMonths:   m.Risk.CashRunwayMonths,
		Balance30:      m.Forecast.Balance30,
		Balance60:      m.Forecast.Balance60,
		Balance90:      m.Forecast.Balance90,
		Sustainability: m.Trend.SustainabilityScore,
		Stage:          m.Stage,
		Alerts:         len(m.Alerts),
	}
}

// AlertEvent records one alert delivery attempt.
type AlertEvent struct {
	RunID      string
	BusinessID string
	Kind       model.AlertKind
	Severity   model.Severity
	Delivered  bool
	Note       string
}

// Recorder persists run history.
type Recorder interface {
	RecordRun(snap *RunSnapshot) error
	RecordAlert(evt *AlertEvent) error
	RecentRuns(businessID string, limit int) ([]RunSnapshot, error)
	Close() error
}
