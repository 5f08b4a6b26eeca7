package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/workout"

	"github.com/google/uuid"
)

// WorkoutStore persists workout plans.
type WorkoutStore interface {
	GetByID(ctx context.Context, id string) (workout.Plan, error)
	Save(ctx context.Context, p workout.Plan) error
	Delete(ctx context.Context, id string) error
}

// WorkoutLookup reads workout plans.
type WorkoutLookup interface {
	GetByID(ctx context.Context, id string) (workout.Plan, error)
}

// ExerciseLookup reads catalogue entries.
type ExerciseLookup interface {
	GetByID(ctx context.Context, id string) (exercise.Exercise, error)
}

// SaveWorkoutPlanInput creates a plan (empty ID) or replaces one, exercise
// list included.
type SaveWorkoutPlanInput struct {
	ID          string
	Name        string
	Duration    string
	Level       string
	Description string
	Items       []workout.Item
}

// SaveWorkoutPlanDeps holds dependencies for SaveWorkoutPlan.
type SaveWorkoutPlanDeps struct {
	WorkoutStore  WorkoutStore
	ExerciseStore ExerciseLookup
	GenerateID    func() string
}

// ExecuteSaveWorkoutPlan creates or updates a plan.
// PRE: Items reference catalogue exercises, each at most once
// POST: Plan persisted with Items in the given order and exercise names filled in
// INVARIANT: An unknown exercise fails the save with workout.ErrUnknownExercise
func ExecuteSaveWorkoutPlan(ctx context.Context, input SaveWorkoutPlanInput, deps SaveWorkoutPlanDeps) (workout.Plan, error) {
	p := workout.Plan{
		ID:          input.ID,
		Name:        input.Name,
		Duration:    input.Duration,
		Level:       input.Level,
		Description: input.Description,
		Items:       append([]workout.Item(nil), input.Items...),
	}
	p.Normalize()
	if err := p.Validate(); err != nil {
		return workout.Plan{}, err
	}

	for i := range p.Items {
		e, err := deps.ExerciseStore.GetByID(ctx, p.Items[i].ExerciseID)
		if errors.Is(err, exercise.ErrNotFound) {
			return workout.Plan{}, fmt.Errorf("%w: %s", workout.ErrUnknownExercise, p.Items[i].ExerciseID)
		}
		if err != nil {
			return workout.Plan{}, err
		}
		p.Items[i].ExerciseName = e.Name
		p.Items[i].MuscleGroup = e.MuscleGroup
	}
	p.ExerciseCount = len(p.Items)

	event := "workout_plan_updated"
	if p.ID == "" {
		event = "workout_plan_created"
		p.ID = uuid.New().String()
		if deps.GenerateID != nil {
			p.ID = deps.GenerateID()
		}
	} else if _, err := deps.WorkoutStore.GetByID(ctx, p.ID); err != nil {
		return workout.Plan{}, err
	}

	if err := deps.WorkoutStore.Save(ctx, p); err != nil {
		return workout.Plan{}, err
	}
	slog.Info("workout_event", "event", event, "plan_id", p.ID, "name", p.Name, "exercises", len(p.Items))
	return p, nil
}

// DeleteWorkoutPlanDeps holds dependencies for DeleteWorkoutPlan.
type DeleteWorkoutPlanDeps struct {
	WorkoutStore WorkoutStore
}

// ExecuteDeleteWorkoutPlan removes a plan. Clients following it are left
// without a plan.
func ExecuteDeleteWorkoutPlan(ctx context.Context, id string, deps DeleteWorkoutPlanDeps) error {
	if err := deps.WorkoutStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("workout_event", "event", "workout_plan_deleted", "plan_id", id)
	return nil
}

// AssignWorkoutPlanInput sets or clears a client's plan. An empty PlanID clears it.
type AssignWorkoutPlanInput struct {
	ClientID string
	PlanID   string
}

// AssignWorkoutPlanDeps holds dependencies for AssignWorkoutPlan.
type AssignWorkoutPlanDeps struct {
	ClientStore  ClientStore
	WorkoutStore WorkoutLookup
}

// ExecuteAssignWorkoutPlan points a client at a workout plan.
// PRE: ClientID refers to an existing client; PlanID is empty or an existing plan
// POST: Client saved with WorkoutPlanID set; the assigned plan is returned
// (zero Plan when cleared)
func ExecuteAssignWorkoutPlan(ctx context.Context, input AssignWorkoutPlanInput, deps AssignWorkoutPlanDeps) (client.Client, workout.Plan, error) {
	if strings.TrimSpace(input.ClientID) == "" {
		return client.Client{}, workout.Plan{}, ErrMissingClientID
	}
	c, err := deps.ClientStore.GetByID(ctx, input.ClientID)
	if err != nil {
		return client.Client{}, workout.Plan{}, err
	}

	var plan workout.Plan
	planID := strings.TrimSpace(input.PlanID)
	if planID != "" {
		if plan, err = deps.WorkoutStore.GetByID(ctx, planID); err != nil {
			return client.Client{}, workout.Plan{}, err
		}
	}

	previous := c.WorkoutPlanID
	c.WorkoutPlanID = planID
	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return client.Client{}, workout.Plan{}, err
	}
	slog.Info("client_event", "event", "workout_plan_assigned", "client_id", c.ID, "from", previous, "to", planID)
	return c, plan, nil
}
