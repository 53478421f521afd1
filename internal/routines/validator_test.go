package routines

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reptrack/service_layer/internal/catalog"
	"github.com/reptrack/service_layer/internal/catalog/catalogtest"
)

func newValidator(t *testing.T) (*Validator, *catalogtest.Server) {
	t.Helper()
	srv := catalogtest.NewServer(
		catalog.Exercise{ID: 3, Name: "Squat"},
		catalog.Exercise{ID: 5, Name: "Deadlift"},
	)
	t.Cleanup(srv.Close)

	client, err := catalog.New(catalog.Config{
		BaseURL:   srv.URL(),
		BaseDelay: time.Millisecond,
		Logger:    zerolog.Nop(),
	})
	require.NoError(t, err)
	return NewValidator(client, zerolog.Nop()), srv
}

func TestValidateExerciseRefs_OK(t *testing.T) {
	v, _ := newValidator(t)

	err := v.ValidateExerciseRefs(context.Background(), []catalog.ExerciseID{3, 5, 3})
	assert.NoError(t, err)
}

func TestValidateExerciseRefs_Unknown(t *testing.T) {
	v, _ := newValidator(t)

	err := v.ValidateExerciseRefs(context.Background(), []catalog.ExerciseID{3, 9})

	var unknown *UnknownExercisesError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []catalog.ExerciseID{9}, unknown.IDs)
}

func TestValidateExerciseRefs_UpstreamFailurePassesThrough(t *testing.T) {
	v, srv := newValidator(t)
	srv.FailNext(http.StatusInternalServerError, 1)

	err := v.ValidateExerciseRefs(context.Background(), []catalog.ExerciseID{3})

	require.Error(t, err)
	var unknown *UnknownExercisesError
	assert.False(t, errors.As(err, &unknown), "upstream outage must not look like unknown refs")
}

func TestBuildExerciseList_PreservesOrderAndDuplicates(t *testing.T) {
	v, _ := newValidator(t)

	got, err := v.BuildExerciseList(context.Background(), []catalog.ExerciseID{5, 3, 5})
	require.NoError(t, err)

	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"Deadlift", "Squat", "Deadlift"}, names)
}

func TestBuildExerciseList_UnknownRefFailsWhole(t *testing.T) {
	v, _ := newValidator(t)

	_, err := v.BuildExerciseList(context.Background(), []catalog.ExerciseID{3, 9})

	var unknown *UnknownExercisesError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, []catalog.ExerciseID{9}, unknown.IDs)
}
