package dedupe

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// FileDeduper keeps claims in a JSON file. It serves single-process deployments without Redis.
type FileDeduper struct {
	mu       sync.Mutex
	state    *State
	filePath string
	ttl      time.Duration
	now      func() time.Time
}

// NewFileDeduper loads existing claims from filePath.
func NewFileDeduper(filePath string, ttl time.Duration) (*FileDeduper, error) {
	state, err := LoadState(filePath)
	if err != nil {
		return nil, fmt.Errorf("load dedupe state: %w", err)
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &FileDeduper{state: state, filePath: filePath, ttl: ttl, now: time.Now}, nil
}

func (d *FileDeduper) Claim(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()
	if exp, ok := d.state.Expires[key]; ok && now.Before(exp) {
		return false, nil
	}
	d.prune(now)
	d.state.Expires[key] = now.Add(d.ttl)
	if err := d.save(now); err != nil {
		return true, err
	}
	return true, nil
}

func (d *FileDeduper) Release(_ context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.state.Expires, key)
	return d.save(d.now())
}

// prune drops expired claims so the file does not grow without bound.
func (d *FileDeduper) prune(now time.Time) {
	for k, exp := range d.state.Expires {
		if !now.Before(exp) {
			delete(d.state.Expires, k)
		}
	}
}

func (d *FileDeduper) save(now time.Time) error {
	if err := SaveState(d.filePath, d.state, now); err != nil {
		return fmt.Errorf("save dedupe state: %w", err)
	}
	return nil
}
