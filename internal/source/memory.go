package source

import (
	"context"
	"sort"
	"sync"

	"CashSentinel/internal/model"
)

// MemorySource serves a fixed transaction set. Used for development and tests.
type MemorySource struct {
	mu  sync.RWMutex
	txs []model.Transaction
}

// NewMemorySource creates a MemorySource holding a copy of txs.
func NewMemorySource(txs ...model.Transaction) *MemorySource {
	m := &MemorySource{}
	m.Add(txs...)
	return m
}

func (m *MemorySource) Name() string { return "memory" }

// Add appends transactions.
func (m *MemorySource) Add(txs ...model.Transaction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.txs = append(m.txs, txs...)
}

// Transactions returns a fresh slice, ordered by timestamp, of the matching records.
func (m *MemorySource) Transactions(ctx context.Context, q Query) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := []model.Transaction{}
	for _, t := range m.txs {
		if q.BusinessID != "" && t.BusinessID != q.BusinessID {
			continue
		}
		if !q.Contains(t.Timestamp) {
			continue
		}
		out = append(out, t)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}
