package analytics

import (
	"context"
	"fmt"
	"time"

	"CashSentinel/internal/model"
	"CashSentinel/internal/source"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// DefaultHistoryMonths is the window read from the source when none is configured.
const DefaultHistoryMonths = 24

// Report is one analyzer run over one business.
type Report struct {
	RunID      string
	BusinessID string
	Source     string
	Metrics    *model.BusinessMetrics
	Read       int // transactions returned by the source
	Skipped    int // transactions rejected by validation
}

// Analyzer reads a business's transactions and runs Analyze over them.
type Analyzer struct {
	Source        source.Source
	Clock         func() time.Time
	Logger        *logrus.Logger
	HistoryMonths int
}

// NewAnalyzer creates an Analyzer using the wall clock.
func NewAnalyzer(src source.Source, logger *logrus.Logger) *Analyzer {
	return &Analyzer{
		Source:        src,
		Clock:         time.Now,
		Logger:        logger,
		HistoryMonths: DefaultHistoryMonths,
	}
}

// Run analyzes the last HistoryMonths calendar months of businessID as of the current clock.
func (a *Analyzer) Run(ctx context.Context, businessID string) (*Report, error) {
	months := a.HistoryMonths
	if months <= 0 {
		months = DefaultHistoryMonths
	}
	return a.RunQuery(ctx, source.LastMonths(businessID, a.now(), months))
}

// RunQuery analyzes the transactions selected by q. Invalid records are logged and skipped.
func (a *Analyzer) RunQuery(ctx context.Context, q source.Query) (*Report, error) {
	asOf := a.now()
	rep := &Report{
		RunID:      uuid.NewString(),
		BusinessID: q.BusinessID,
		Source:     a.Source.Name(),
	}
	log := a.logger().WithFields(logrus.Fields{
		"business_id": q.BusinessID,
		"run_id":      rep.RunID,
	})

	txs, err := a.Source.Transactions(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("read transactions for %s: %w", q.BusinessID, err)
	}
	rep.Read = len(txs)

	valid := make([]model.Transaction, 0, len(txs))
	for _, t := range txs {
		if err := t.Validate(); err != nil {
			rep.Skipped++
			log.WithField("tx_id", t.ID).WithError(err).Warn("skipping transaction")
			continue
		}
		valid = append(valid, t)
	}

	rep.Metrics = Analyze(valid, asOf)
	m := rep.Metrics

	if len(m.MonthlyTrend) < 3 {
		log.WithField("months", len(m.MonthlyTrend)).Debug("insufficient history, using neutral trend")
	}
	if m.Seasonality.Fallback {
		log.Debug("seasonality fallback profile in use")
	}
	if len(m.Forecast.Clamped) > 0 {
		log.WithField("clamped", m.Forecast.Clamped).Warn("forecast values clamped")
	}
	log.WithFields(logrus.Fields{
		"transactions": len(valid),
		"skipped":      rep.Skipped,
		"risk_level":   m.Risk.Level,
		"runway":       m.Risk.CashRunwayMonths,
		"alerts":       len(m.Alerts),
	}).Info("analysis complete")

	return rep, nil
}

func (a *Analyzer) now() time.Time {
	if a.Clock == nil {
		return time.Now()
	}
	return a.Clock()
}

func (a *Analyzer) logger() *logrus.Logger {
	if a.Logger == nil {
		return logrus.StandardLogger()
	}
	return a.Logger
}
