package source

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"time"

	"CashSentinel/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"

	DefaultTable = "transactions"
)

// ErrUnsupportedDriver is returned for drivers other than sqlite and postgres.
var ErrUnsupportedDriver = errors.New("unsupported source driver")

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// OpenSQL opens a database handle for driver and pings it.
func OpenSQL(ctx context.Context, driver, dsn string) (*sql.DB, error) {
	var db *sql.DB
	switch driver {
	case DriverSQLite:
		var err error
		db, err = sql.Open("sqlite", dsn)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	case DriverPostgres:
		cfg, err := pgx.ParseConfig(dsn)
		if err != nil {
			return nil, fmt.Errorf("parse postgres dsn: %w", err)
		}
		db = stdlib.OpenDB(*cfg)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping %s: %w", driver, err)
	}
	return db, nil
}

// SQLSource reads transactions from a table with columns
// id, business_id, type, category, amount, occurred_at.
type SQLSource struct {
	db     *sql.DB
	driver string
	query  string
}

// NewSQLSource builds a source over an open handle. The table name must be a plain
// (optionally schema-qualified) identifier.
func NewSQLSource(db *sql.DB, driver, table string) (*SQLSource, error) {
	if table == "" {
		table = DefaultTable
	}
	if !tableName.MatchString(table) {
		return nil, fmt.Errorf("invalid table name %q", table)
	}
	var placeholder string
	switch driver {
	case DriverSQLite:
		placeholder = "?"
	case DriverPostgres:
		placeholder = "$1"
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedDriver, driver)
	}
	return &SQLSource{
		db:     db,
		driver: driver,
		query: fmt.Sprintf(
			`SELECT id, business_id, type, category, amount, occurred_at FROM %s WHERE business_id = %s ORDER BY occurred_at, id`,
			table, placeholder),
	}, nil
}

func (s *SQLSource) Name() string { return s.driver }

// Transactions loads the business's rows and keeps those inside the query range.
// Timestamp filtering happens after the scan so text-encoded SQLite timestamps compare correctly.
func (s *SQLSource) Transactions(ctx context.Context, q Query) ([]model.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, s.query, q.BusinessID)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	out := []model.Transaction{}
	for rows.Next() {
		var (
			t      model.Transaction
			typ    string
			amount decimal.Decimal
			when   any
		)
		if err := rows.Scan(&t.ID, &t.BusinessID, &typ, &t.Category, &amount, &when); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		ts, err := parseTime(when)
		if err != nil {
			return nil, fmt.Errorf("transaction %s: %w", t.ID, err)
		}
		if !q.Contains(ts) {
			continue
		}
		t.Type = model.TxType(typ)
		t.Amount = amount
		t.Timestamp = ts
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return out, nil
}

var timeLayouts = []string{
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts driver-native times, text timestamps and unix seconds.
func parseTime(v any) (time.Time, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case int64:
		return time.Unix(x, 0).UTC(), nil
	case []byte:
		return parseTime(string(x))
	case string:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, x); err == nil {
				return t, nil
			}
		}
		if n, err := strconv.ParseInt(x, 10, 64); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		return time.Time{}, fmt.Errorf("unparseable timestamp %q", x)
	case nil:
		return time.Time{}, nil
	default:
		return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
	}
}
