// Package dedupe suppresses repeat deliveries of the same alert within a time window.
package dedupe

import (
	"context"
	"time"

	"CashSentinel/internal/model"
)

// DefaultTTL is the window used when none is configured.
const DefaultTTL = 24 * time.Hour

// Deduper claims alert keys. Claim returns true when key has not been claimed within the
// window, and records the claim. Release drops a claim so a failed delivery can be retried.
type Deduper interface {
	Claim(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// AlertKey identifies one alert kind for one business.
func AlertKey(businessID string, kind model.AlertKind) string {
	return businessID + ":" + string(kind)
}
