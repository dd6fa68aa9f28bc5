package common

import "time"

// Freshness TTLs for data components
const (
	// FreshnessMarketSnapshot is twice the default poll interval: one missed
	// tick is tolerated before the snapshot is reported stale.
	FreshnessMarketSnapshot = 2 * time.Minute
	FreshnessCoinDetail     = 5 * time.Minute
)

// IsFresh returns true if the given timestamp is within the TTL
func IsFresh(updated time.Time, ttl time.Duration) bool {
	if updated.IsZero() {
		return false
	}
	return time.Since(updated) < ttl
}
