package catalog

import (
	"errors"
	"fmt"
	"time"
)

// ErrNotFound is returned by single-exercise lookups when the catalog
// reports the identifier does not exist. Batch lookups never return it;
// absent identifiers surface through the result's missing list instead.
var ErrNotFound = errors.New("catalog: exercise not found")

// RateLimitedError is the transport's classification of an upstream 429.
// Hint carries the server-suggested wait when the response included a
// Retry-After header.
type RateLimitedError struct {
	Hint    time.Duration
	HasHint bool
}

func (e *RateLimitedError) Error() string {
	if e.HasHint {
		return fmt.Sprintf("catalog: rate limited, retry after %s", e.Hint)
	}
	return "catalog: rate limited"
}

// UpstreamError is a non-retryable upstream failure: an unexpected
// status, or a 200 whose body could not be decoded.
type UpstreamError struct {
	Status int
	Msg    string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("catalog: upstream request failed with status %d: %s", e.Status, e.Msg)
}

// RetriesExhaustedError is returned when the catalog kept throttling past
// the configured attempt budget. The upstream was reachable the whole
// time; callers may choose to retry the surrounding operation later.
type RetriesExhaustedError struct {
	// Attempts is the total number of upstream calls made.
	Attempts int
}

func (e *RetriesExhaustedError) Error() string {
	return fmt.Sprintf("catalog: retries exhausted after %d attempts, upstream still throttling", e.Attempts)
}

// IsRetriesExhausted reports whether err means the catalog was reachable
// but throttled every attempt.
func IsRetriesExhausted(err error) bool {
	var re *RetriesExhaustedError
	return errors.As(err, &re)
}

// IsRateLimited reports whether err is a single-attempt throttle
// classification.
func IsRateLimited(err error) bool {
	var rl *RateLimitedError
	return errors.As(err, &rl)
}
