package fetch

import (
	"math"
	"time"
)

// backoffDelay computes the wait before retrying the given 0-based attempt:
// base doubled per attempt, capped at the profile's ceiling.
func backoffDelay(attempt int, p Profile) time.Duration {
	delay := float64(p.BackoffBase) * math.Pow(2, float64(attempt))
	if delay > float64(p.BackoffCap) {
		delay = float64(p.BackoffCap)
	}
	return time.Duration(delay)
}
