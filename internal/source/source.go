// Package source reads transactions from the external transaction store.
package source

import (
	"context"
	"time"

	"CashSentinel/internal/model"
)

//go:generate mockgen -source=source.go -destination=source_mock.go -package=source

// Source defines the interface for reading a business's transactions.
type Source interface {
	Transactions(ctx context.Context, q Query) ([]model.Transaction, error)
	Name() string
}

// Query selects one business's transactions. A zero From or To leaves that side open.
// To is exclusive.
type Query struct {
	BusinessID string
	From       time.Time
	To         time.Time
}

// Contains reports whether t falls inside the query's time range.
func (q Query) Contains(t time.Time) bool {
	if !q.From.IsZero() && t.Before(q.From) {
		return false
	}
	if !q.To.IsZero() && !t.Before(q.To) {
		return false
	}
	return true
}

// LastMonths returns a query covering the n calendar months ending with the month of asOf.
func LastMonths(businessID string, asOf time.Time, n int) Query {
	start := time.Date(asOf.Year(), asOf.Month(), 1, 0, 0, 0, 0, asOf.Location())
	return Query{
		BusinessID: businessID,
		From:       start.AddDate(0, -(n - 1), 0),
		To:         start.AddDate(0, 1, 0),
	}
}
