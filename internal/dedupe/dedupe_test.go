package dedupe

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"CashSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertKey(t *testing.T) {
	assert.Equal(t, "bakery:no_cash", AlertKey("bakery", model.AlertNoCash))
}

func TestFileDeduper_ClaimWithinWindow(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dedupe.json")
	d, err := NewFileDeduper(path, time.Hour)
	require.NoError(t, err)

	clock := time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return clock }

	ok, err := d.Claim(ctx, "bakery:no_cash")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.Claim(ctx, "bakery:no_cash")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = d.Claim(ctx, "florist:no_cash")
	require.NoError(t, err)
	assert.True(t, ok)

	clock = clock.Add(time.Hour)
	ok, err = d.Claim(ctx, "bakery:no_cash")
	require.NoError(t, err)
	assert.True(t, ok, "claim expires after the window")
}

func TestFileDeduper_Release(t *testing.T) {
	ctx := context.Background()
	d, err := NewFileDeduper(filepath.Join(t.TempDir(), "dedupe.json"), 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTTL, d.ttl)

	ok, _ := d.Claim(ctx, "k")
	require.True(t, ok)
	require.NoError(t, d.Release(ctx, "k"))
	ok, _ = d.Claim(ctx, "k")
	assert.True(t, ok)
}

func TestFileDeduper_PersistsAcrossRestarts(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "dedupe.json")

	first, err := NewFileDeduper(path, time.Hour)
	require.NoError(t, err)
	ok, err := first.Claim(ctx, "bakery:sustained_negative_trend")
	require.NoError(t, err)
	require.True(t, ok)

	second, err := NewFileDeduper(path, time.Hour)
	require.NoError(t, err)
	ok, err = second.Claim(ctx, "bakery:sustained_negative_trend")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseRedisURL(t *testing.T) {
	opt, err := ParseRedisURL("localhost:6379")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opt.Addr)

	opt, err = ParseRedisURL("redis://:secret@cache:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opt.Addr)
	assert.Equal(t, "secret", opt.Password)
	assert.Equal(t, 2, opt.DB)

	_, err = ParseRedisURL("")
	assert.Error(t, err)

	_, err = ParseRedisURL("http://cache:6379")
	assert.Error(t, err)
}
