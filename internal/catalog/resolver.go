package catalog

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// resolver owns the retry loop over the transport. Retries happen only
// on rate-limit classifications; any other failure propagates
// immediately. All state is scoped to one call, so concurrent
// resolutions never interact.
type resolver struct {
	transport   Transport
	backoff     BackoffPolicy
	maxAttempts int
	log         zerolog.Logger
	metrics     *Metrics

	// sleep is the suspension between attempts; swapped out in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

func newResolver(transport Transport, backoff BackoffPolicy, maxAttempts int, log zerolog.Logger, metrics *Metrics) *resolver {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	return &resolver{
		transport:   transport,
		backoff:     backoff,
		maxAttempts: maxAttempts,
		log:         log,
		metrics:     metrics,
		sleep:       waitContext,
	}
}

// resolveBatch runs one bounded-retry batch lookup.
func (r *resolver) resolveBatch(ctx context.Context, ids []ExerciseID) (*BatchResult, error) {
	var result *BatchResult
	err := r.run(ctx, len(ids), func(ctx context.Context) error {
		res, err := r.transport.LookupBatch(ctx, ids)
		if err != nil {
			return err
		}
		result = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// resolveOne runs one bounded-retry single lookup.
func (r *resolver) resolveOne(ctx context.Context, id ExerciseID) (*Exercise, error) {
	var result *Exercise
	err := r.run(ctx, 1, func(ctx context.Context) error {
		e, err := r.transport.LookupOne(ctx, id)
		if err != nil {
			return err
		}
		result = e
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// run executes attempt 0..maxAttempts inclusive. Success returns
// immediately. A rate-limit classification waits per the backoff policy
// and retries; exhaustion of the budget yields RetriesExhaustedError.
// Anything else, including the caller's own cancellation firing during
// the wait, propagates as-is with no further attempts.
func (r *resolver) run(ctx context.Context, batchSize int, attemptFn func(context.Context) error) error {
	callID := uuid.NewString()
	log := r.log.With().Str("call_id", callID).Int("batch_size", batchSize).Logger()
	started := time.Now()

	for attempt := 0; ; attempt++ {
		err := attemptFn(ctx)
		if err == nil {
			r.metrics.observeLookup(outcomeOK, time.Since(started))
			return nil
		}

		var rl *RateLimitedError
		if !errors.As(err, &rl) {
			switch {
			case errors.Is(err, ErrNotFound):
				// A single-lookup miss is a normal outcome, not a failure.
				r.metrics.observeLookup(outcomeOK, time.Since(started))
			case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
				r.metrics.observeLookup(outcomeCancelled, time.Since(started))
			default:
				r.metrics.observeLookup(outcomeFatal, time.Since(started))
				log.Error().Err(err).Int("attempt", attempt).Msg("catalog lookup failed")
			}
			return err
		}

		if attempt >= r.maxAttempts {
			r.metrics.observeLookup(outcomeExhausted, time.Since(started))
			log.Warn().Int("attempts", attempt+1).Msg("catalog retry budget exhausted")
			return &RetriesExhaustedError{Attempts: attempt + 1}
		}

		delay := r.backoff.Delay(attempt, rl.Hint, rl.HasHint)
		log.Debug().
			Int("attempt", attempt).
			Dur("delay", delay).
			Bool("server_hint", rl.HasHint).
			Msg("catalog throttling, backing off")

		r.metrics.incRetry()
		if err := r.sleep(ctx, delay); err != nil {
			r.metrics.observeLookup(outcomeCancelled, time.Since(started))
			return err
		}
	}
}

// waitContext suspends for d without busy-waiting, abandoning the wait
// as soon as the caller's context is done.
func waitContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
