package recorder

import (
	"database/sql"
	"fmt"
	"sync"
	"time"

	"CashSentinel/internal/model"

	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"
)

// SQLiteRecorder persists run history to a SQLite database.
type SQLiteRecorder struct {
	db  *sql.DB
	mu  sync.Mutex
	log *logrus.Logger
}

// NewSQLiteRecorder opens (or creates) the SQLite database and runs migrations.
func NewSQLiteRecorder(dbPath string, logger *logrus.Logger) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so dashboards can read while the scheduler writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db, log: logger}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	logger.WithField("path", dbPath).Info("sqlite recorder opened")
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS analytics_runs (
			id              INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id          TEXT NOT NULL UNIQUE,
			business_id     TEXT NOT NULL,
			timestamp       INTEGER NOT NULL,
			transactions    INTEGER,
			skipped         INTEGER,
			total_income    REAL,
			total_expenses  REAL,
			net_balance     REAL,
			risk_level      TEXT,
			risk_score      REAL,
			runway_months   REAL,
			balance_30      REAL,
			balance_60      REAL,
			balance_90      REAL,
			sustainability  REAL,
			stage           TEXT,
			alerts          INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_business_ts ON analytics_runs(business_id, timestamp)`,

		`CREATE TABLE IF NOT EXISTS alert_deliveries (
			id          INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp   INTEGER NOT NULL,
			run_id      TEXT,
			business_id TEXT NOT NULL,
			kind        TEXT NOT NULL,
			severity    TEXT,
			delivered   INTEGER NOT NULL,
			note        TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alerts_business_ts ON alert_deliveries(business_id, timestamp)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

func (r *SQLiteRecorder) RecordRun(snap *RunSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	at := snap.At
	if at.IsZero() {
		at = time.Now()
	}
	_, err := r.db.Exec(`INSERT INTO analytics_runs
		(run_id, business_id, timestamp, transactions, skipped,
		 total_income, total_expenses, net_balance,
		 risk_level, risk_score, runway_months,
		 balance_30, balance_60, balance_90,
		 sustainability, stage, alerts)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		snap.RunID, snap.BusinessID, at.Unix(), snap.Transactions, snap.Skipped,
		snap.TotalIncome, snap.TotalExpenses, snap.NetBalance,
		string(snap.RiskLevel), snap.RiskScore, snap.RunwayMonths,
		snap.Balance30, snap.Balance60, snap.Balance90,
		snap.Sustainability, string(snap.Stage), snap.Alerts,
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", snap.RunID, err)
	}
	return nil
}

func (r *SQLiteRecorder) RecordAlert(evt *AlertEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, err := r.db.Exec(`INSERT INTO alert_deliveries
		(timestamp, run_id, business_id, kind, severity, delivered, note)
		VALUES (?,?,?,?,?,?,?)`,
		time.Now().Unix(), evt.RunID, evt.BusinessID,
		string(evt.Kind), string(evt.Severity), evt.Delivered, evt.Note,
	)
	if err != nil {
		return fmt.Errorf("insert alert %s/%s: %w", evt.BusinessID, evt.Kind, err)
	}
	return nil
}

// RecentRuns returns up to limit runs for businessID, newest first.
func (r *SQLiteRecorder) RecentRuns(businessID string, limit int) ([]RunSnapshot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rows, err := r.db.Query(`SELECT run_id, business_id, timestamp, transactions, skipped,
		total_income, total_expenses, net_balance, risk_level, risk_score, runway_months,
		balance_30, balance_60, balance_90, sustainability, stage, alerts
		FROM analytics_runs WHERE business_id = ? ORDER BY timestamp DESC, id DESC LIMIT ?`,
		businessID, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSnapshot
	for rows.Next() {
		var (
			s            RunSnapshot
			ts           int64
			level, stage string
		)
		if err := rows.Scan(&s.RunID, &s.BusinessID, &ts, &s.Transactions, &s.Skipped,
			&s.TotalIncome, &s.TotalExpenses, &s.NetBalance, &level, &s.RiskScore, &s.RunwayMonths,
			&s.Balance30, &s.Balance60, &s.Balance90, &s.Sustainability, &stage, &s.Alerts); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		s.At = time.Unix(ts, 0).UTC()
		s.RiskLevel = model.RiskLevel(level)
		s.Stage = model.BusinessStage(stage)
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *SQLiteRecorder) Close() error {
	r.log.Info("closing sqlite recorder")
	return r.db.Close()
}
