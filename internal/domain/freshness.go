package domain

import "time"

type Freshness struct {
	AsOf time.Time
}

func (f Freshness) IsStale(now time.Time, maxAge time.Duration) bool {
	if f.AsOf.IsZero() {
		return true
	}

	if maxAge <= 0 {
		return false
	}

	return now.Sub(f.AsOf) > maxAge
}
