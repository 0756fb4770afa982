package recorder

import (
	"path/filepath"
	"testing"
	"time"

	"CashSentinel/internal/analytics"
	"CashSentinel/internal/model"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRecorder(t *testing.T) *SQLiteRecorder {
	t.Helper()
	logger, _ := logtest.NewNullLogger()
	r, err := NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestSQLiteRecorder_RunsRoundTrip(t *testing.T) {
	r := newTestRecorder(t)

	base := time.Date(2024, time.May, 1, 9, 0, 0, 0, time.UTC)
	for i, level := range []model.RiskLevel{model.RiskLow, model.RiskMedium, model.RiskHigh} {
		require.NoError(t, r.RecordRun(&RunSnapshot{
			RunID:        string(rune('a' + i)),
			BusinessID:   "bakery",
			At:           base.AddDate(0, 0, i),
			Transactions: 10 + i,
			RiskLevel:    level,
			RunwayMonths: float64(3 - i),
			Stage:        model.StageStable,
		}))
	}
	require.NoError(t, r.RecordRun(&RunSnapshot{RunID: "other", BusinessID: "florist", At: base}))

	runs, err := r.RecentRuns("bakery", 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, "c", runs[0].RunID)
	assert.Equal(t, model.RiskHigh, runs[0].RiskLevel)
	assert.Equal(t, 12, runs[0].Transactions)
	assert.True(t, base.AddDate(0, 0, 2).Equal(runs[0].At))
	assert.Equal(t, model.StageStable, runs[0].Stage)
	assert.Equal(t, "b", runs[1].RunID)
}

func TestSQLiteRecorder_DuplicateRunID(t *testing.T) {
	r := newTestRecorder(t)
	snap := &RunSnapshot{RunID: "same", BusinessID: "bakery"}
	require.NoError(t, r.RecordRun(snap))
	assert.Error(t, r.RecordRun(snap))
}

func TestSQLiteRecorder_RecordAlert(t *testing.T) {
	r := newTestRecorder(t)
	require.NoError(t, r.RecordAlert(&AlertEvent{
		RunID:      "run-1",
		BusinessID: "bakery",
		Kind:       model.AlertNoCash,
		Severity:   model.SeverityCritical,
		Delivered:  true,
	}))

	var n int
	require.NoError(t, r.db.QueryRow(`SELECT COUNT(*) FROM alert_deliveries WHERE kind = ? AND delivered = 1`, "no_cash").Scan(&n))
	assert.Equal(t, 1, n)
}

func TestSnapshotOf(t *testing.T) {
	at := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)
	rep := &analytics.Report{
		RunID:      "r1",
		BusinessID: "bakery",
		Read:       12,
		Skipped:    2,
		Metrics:    analytics.Analyze(nil, at),
	}
	snap := SnapshotOf(rep)
	assert.Equal(t, "r1", snap.RunID)
	assert.Equal(t, 10, snap.Transactions)
	assert.Equal(t, at, snap.At)
	assert.Equal(t, model.RiskHigh, snap.RiskLevel)
	assert.Equal(t, 1, snap.Alerts)
}

func TestNoopRecorder(t *testing.T) {
	var r Recorder = NewNoopRecorder()
	assert.NoError(t, r.RecordRun(&RunSnapshot{}))
	runs, err := r.RecentRuns("x", 5)
	assert.NoError(t, err)
	assert.Empty(t, runs)
	assert.NoError(t, r.Close())
}
