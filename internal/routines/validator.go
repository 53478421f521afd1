// Package routines validates routine content against the exercise
// catalog before it is persisted or rendered.
package routines

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/reptrack/service_layer/internal/catalog"
)

// UnknownExercisesError reports exercise references the catalog does not
// know. It is a caller-policy signal, not an upstream failure.
type UnknownExercisesError struct {
	IDs []catalog.ExerciseID
}

func (e *UnknownExercisesError) Error() string {
	return fmt.Sprintf("routine references %d unknown exercises: %v", len(e.IDs), e.IDs)
}

// Validator checks routine exercise references through the catalog
// client. It holds no state of its own; the client may be shared.
type Validator struct {
	catalog *catalog.Client
	log     zerolog.Logger
}

// NewValidator creates a validator over the given catalog client.
func NewValidator(c *catalog.Client, log zerolog.Logger) *Validator {
	return &Validator{catalog: c, log: log}
}

// ValidateExerciseRefs confirms every referenced exercise exists.
// Unknown references come back as *UnknownExercisesError; upstream
// failures (exhausted retries, outage, cancellation) pass through
// unchanged so handlers can map them separately.
func (v *Validator) ValidateExerciseRefs(ctx context.Context, ids []catalog.ExerciseID) error {
	res, err := v.catalog.VerifyAll(ctx, ids)
	if err != nil {
		return fmt.Errorf("verify exercise refs: %w", err)
	}
	if !res.AllValid {
		v.log.Info().
			Int("invalid_count", len(res.Invalid)).
			Msg("routine referenced unknown exercises")
		return &UnknownExercisesError{IDs: res.Invalid}
	}
	return nil
}

// BuildExerciseList fetches display data for a routine's exercise
// sequence, preserving the caller's ordering and any legitimate
// repetitions. Any unknown reference fails the whole build.
func (v *Validator) BuildExerciseList(ctx context.Context, ids []catalog.ExerciseID) ([]catalog.Exercise, error) {
	res, err := v.catalog.FetchAll(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("fetch exercises: %w", err)
	}
	if len(res.Missing) > 0 {
		return nil, &UnknownExercisesError{IDs: res.Missing}
	}
	return res.ExpandOrdered(ids), nil
}
