package catalog

import "time"

// Defaults for the retry budget and backoff schedule.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 200 * time.Millisecond
	DefaultMaxDelay    = 10 * time.Second
)

// BackoffPolicy computes the wait before a retry attempt. It is a pure
// function of its inputs: no jitter, so tests can assert exact delays.
type BackoffPolicy struct {
	// Base is the delay before the first retry; each subsequent retry
	// doubles it.
	Base time.Duration
	// Max caps the computed delay. A server-supplied hint is never
	// capped: the upstream knows its own rate-limit window.
	Max time.Duration
}

// Delay returns the wait before retrying after the given zero-based
// attempt. When the upstream supplied a non-negative hint it is returned
// verbatim; otherwise the delay grows as Base * 2^attempt up to Max.
func (p BackoffPolicy) Delay(attempt int, hint time.Duration, hasHint bool) time.Duration {
	if hasHint && hint >= 0 {
		return hint
	}

	base := p.Base
	if base <= 0 {
		base = DefaultBaseDelay
	}
	max := p.Max
	if max <= 0 {
		max = DefaultMaxDelay
	}

	d := base
	for i := 0; i < attempt; i++ {
		d *= 2
		if d >= max || d <= 0 { // d <= 0 guards shift past the duration range
			return max
		}
	}
	if d > max {
		return max
	}
	return d
}
