// Package catalog resolves exercise references owned by the exercise
// catalog service. Routine and workout services hand it the external
// exercise identifiers they hold, and get back which of those exist and
// their display data, with bounded retry against catalog rate limiting.
//
// Every call is independent: the client holds no cross-call state beyond
// the outbound connection pool, so concurrent resolutions are safe.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/reptrack/service_layer/internal/httputil"
)

// Config holds client configuration. BaseURL is required; everything
// else has a usable default.
type Config struct {
	// BaseURL is the catalog service root, e.g. "http://catalog:8084".
	BaseURL string
	// APIKey, when set, is sent as X-API-Key on every request.
	APIKey string
	// MaxAttempts bounds the retry budget: attempts 0..MaxAttempts run
	// before a persistently throttling upstream is given up on.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff schedule.
	BaseDelay time.Duration
	// MaxDelay caps computed backoff delays.
	MaxDelay time.Duration
	// Timeout applies per HTTP request when HTTPClient is not supplied.
	Timeout time.Duration
	// HTTPClient overrides the pooled default client.
	HTTPClient *http.Client
	// Logger receives per-call resolution logs.
	Logger zerolog.Logger
	// Metrics, when set, records resolution telemetry.
	Metrics *Metrics
}

// Client is the resolution entry point used by request handlers.
type Client struct {
	resolver *resolver
	metrics  *Metrics
	log      zerolog.Logger
}

// New creates a catalog client.
func New(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("catalog: BaseURL is required")
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = DefaultMaxAttempts
	}
	if cfg.MaxAttempts < 0 {
		return nil, fmt.Errorf("catalog: MaxAttempts must be positive")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = httputil.NewPooledClient(cfg.Timeout)
	}

	transport := newHTTPTransport(cfg.BaseURL, cfg.APIKey, httpClient)
	backoff := BackoffPolicy{Base: cfg.BaseDelay, Max: cfg.MaxDelay}

	return &Client{
		resolver: newResolver(transport, backoff, cfg.MaxAttempts, cfg.Logger, cfg.Metrics),
		metrics:  cfg.Metrics,
		log:      cfg.Logger,
	}, nil
}

// VerifyResult reports an existence check over a set of references.
type VerifyResult struct {
	// AllValid is true iff Invalid is empty.
	AllValid bool
	// Invalid lists requested identifiers the catalog does not know,
	// deduplicated, first-seen order.
	Invalid []ExerciseID
}

// FetchResult carries resolved display data for a set of references.
type FetchResult struct {
	// Exercises holds the resolved entities in the same order as the
	// deduplicated input.
	Exercises []Exercise
	// Missing lists requested identifiers that did not resolve,
	// deduplicated, first-seen order.
	Missing []ExerciseID
}

// VerifyAll confirms which of the given exercise references exist.
// Duplicates are collapsed before anything goes over the wire, and an
// empty input returns immediately with no upstream call.
func (c *Client) VerifyAll(ctx context.Context, ids []ExerciseID) (VerifyResult, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return VerifyResult{AllValid: true}, nil
	}

	res, err := c.resolver.resolveBatch(ctx, unique)
	if err != nil {
		return VerifyResult{}, err
	}

	out := c.reconcileLogged(unique, res)
	return VerifyResult{AllValid: len(out.Missing) == 0, Invalid: out.Missing}, nil
}

// FetchAll resolves the given references and returns their display data.
// Missing identifiers are a normal outcome, not an error: the caller
// decides whether to reject the operation or proceed without them.
func (c *Client) FetchAll(ctx context.Context, ids []ExerciseID) (FetchResult, error) {
	unique := dedupe(ids)
	if len(unique) == 0 {
		return FetchResult{}, nil
	}

	res, err := c.resolver.resolveBatch(ctx, unique)
	if err != nil {
		return FetchResult{}, err
	}

	out := c.reconcileLogged(unique, res)
	exercises := make([]Exercise, 0, len(out.Resolved))
	for _, id := range unique {
		if e, ok := out.Resolved[id]; ok {
			exercises = append(exercises, e)
		}
	}
	return FetchResult{Exercises: exercises, Missing: out.Missing}, nil
}

// Get resolves a single exercise, with the same retry behavior as the
// batch shapes. A nonexistent identifier returns ErrNotFound.
func (c *Client) Get(ctx context.Context, id ExerciseID) (*Exercise, error) {
	return c.resolver.resolveOne(ctx, id)
}

func (c *Client) reconcileLogged(requested []ExerciseID, res *BatchResult) Outcome {
	out := reconcile(requested, res)
	c.metrics.addMissing(len(out.Missing))
	// The upstream's own missing list is advisory; log when it diverges
	// from what the returned entities actually cover.
	if len(res.Missing) != len(out.Missing) {
		c.log.Debug().
			Ints64("upstream_missing", toInt64s(res.Missing)).
			Ints64("recomputed_missing", toInt64s(out.Missing)).
			Msg("catalog missing list diverged from returned entities")
	}
	return out
}

// ExpandOrdered re-expands a fetch result to the caller's original
// identifier sequence, duplicates and ordering included. Identifiers
// that did not resolve are skipped.
func (r FetchResult) ExpandOrdered(requested []ExerciseID) []Exercise {
	byID := make(map[ExerciseID]Exercise, len(r.Exercises))
	for _, e := range r.Exercises {
		byID[e.ID] = e
	}
	out := make([]Exercise, 0, len(requested))
	for _, id := range requested {
		if e, ok := byID[id]; ok {
			out = append(out, e)
		}
	}
	return out
}

func toInt64s(ids []ExerciseID) []int64 {
	out := make([]int64, len(ids))
	for i, id := range ids {
		out[i] = int64(id)
	}
	return out
}
