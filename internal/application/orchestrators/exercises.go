package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"gymdesk/internal/domain/exercise"

	"github.com/google/uuid"
)

// ExerciseStore persists the exercise catalogue.
type ExerciseStore interface {
	GetByID(ctx context.Context, id string) (exercise.Exercise, error)
	Save(ctx context.Context, e exercise.Exercise) error
	Delete(ctx context.Context, id string) error
}

// SaveExerciseInput creates an exercise (empty ID) or replaces one.
type SaveExerciseInput struct {
	ID          string
	Name        string
	MuscleGroup string
	VideoURL    string
}

// SaveExerciseDeps holds dependencies for SaveExercise.
type SaveExerciseDeps struct {
	ExerciseStore ExerciseStore
	GenerateID    func() string
}

// ExecuteSaveExercise creates or updates a catalogue entry.
// PRE: Name non-empty; VideoURL empty or an absolute http(s) link
// POST: Exercise persisted; updating a missing id returns exercise.ErrNotFound
func ExecuteSaveExercise(ctx context.Context, input SaveExerciseInput, deps SaveExerciseDeps) (exercise.Exercise, error) {
	e := exercise.Exercise{
		ID:          input.ID,
		Name:        strings.TrimSpace(input.Name),
		MuscleGroup: strings.TrimSpace(input.MuscleGroup),
		VideoURL:    strings.TrimSpace(input.VideoURL),
	}
	if err := e.Validate(); err != nil {
		return exercise.Exercise{}, err
	}

	event := "exercise_updated"
	if e.ID == "" {
		event = "exercise_created"
		e.ID = uuid.New().String()
		if deps.GenerateID != nil {
			e.ID = deps.GenerateID()
		}
	} else if _, err := deps.ExerciseStore.GetByID(ctx, e.ID); err != nil {
		return exercise.Exercise{}, err
	}

	if err := deps.ExerciseStore.Save(ctx, e); err != nil {
		return exercise.Exercise{}, err
	}
	slog.Info("workout_event", "event", event, "exercise_id", e.ID, "name", e.Name)
	return e, nil
}

// DeleteExerciseDeps holds dependencies for DeleteExercise.
type DeleteExerciseDeps struct {
	ExerciseStore ExerciseStore
}

// ExecuteDeleteExercise removes an exercise that no plan uses.
// POST: exercise.ErrInUse when a plan still lists it
func ExecuteDeleteExercise(ctx context.Context, id string, deps DeleteExerciseDeps) error {
	if err := deps.ExerciseStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("workout_event", "event", "exercise_deleted", "exercise_id", id)
	return nil
}
