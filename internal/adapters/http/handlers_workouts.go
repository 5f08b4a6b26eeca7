package web

import (
	"net/http"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/workout"
)

type exerciseJSON struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup,omitempty"`
	VideoURL    string `json:"videoUrl,omitempty"`
}

func toExerciseJSON(e exercise.Exercise) exerciseJSON {
	return exerciseJSON{ID: e.ID, Name: e.Name, MuscleGroup: e.MuscleGroup, VideoURL: e.VideoURL}
}

type exerciseRequest struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscleGroup"`
	VideoURL    string `json:"videoUrl"`
}

// handleListExercises handles GET /api/exercises
func (a *app) handleListExercises(w http.ResponseWriter, r *http.Request) {
	list, err := a.stores.ExerciseStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]exerciseJSON, 0, len(list))
	for _, e := range list {
		out = append(out, toExerciseJSON(e))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleCreateExercise handles POST /api/exercises
func (a *app) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	a.saveExercise(w, r, "", http.StatusCreated)
}

// handleUpdateExercise handles PUT /api/exercises/{id}
func (a *app) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	a.saveExercise(w, r, r.PathValue("id"), http.StatusOK)
}

func (a *app) saveExercise(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req exerciseRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	e, err := orchestrators.ExecuteSaveExercise(r.Context(), orchestrators.SaveExerciseInput{
		ID:          id,
		Name:        req.Name,
		MuscleGroup: req.MuscleGroup,
		VideoURL:    req.VideoURL,
	}, orchestrators.SaveExerciseDeps{ExerciseStore: a.stores.ExerciseStore, GenerateID: a.generateID})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, toExerciseJSON(e))
}

// handleDeleteExercise handles DELETE /api/exercises/{id}
func (a *app) handleDeleteExercise(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteExercise(r.Context(), r.PathValue("id"),
		orchestrators.DeleteExerciseDeps{ExerciseStore: a.stores.ExerciseStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type workoutItemJSON struct {
	ExerciseID   string `json:"exerciseId"`
	ExerciseName string `json:"exerciseName,omitempty"`
	MuscleGroup  string `json:"muscleGroup,omitempty"`
	Sets         int    `json:"sets"`
	Reps         string `json:"reps,omitempty"`
	Weight       string `json:"weight,omitempty"`
	RestTime     string `json:"restTime,omitempty"`
	Notes        string `json:"notes,omitempty"`
}

type workoutPlanJSON struct {
	ID            string            `json:"id"`
	Name          string            `json:"name"`
	Duration      string            `json:"duration,omitempty"`
	Level         string            `json:"level"`
	Description   string            `json:"description,omitempty"`
	ExerciseCount int               `json:"exerciseCount"`
	Exercises     []workoutItemJSON `json:"exercises,omitempty"`
}

// toWorkoutPlanJSON renders a plan; list reads carry no items, only the count.
func toWorkoutPlanJSON(p workout.Plan) workoutPlanJSON {
	out := workoutPlanJSON{
		ID:            p.ID,
		Name:          p.Name,
		Duration:      p.Duration,
		Level:         p.Level,
		Description:   p.Description,
		ExerciseCount: p.ExerciseCount,
	}
	if len(p.Items) > 0 {
		out.ExerciseCount = len(p.Items)
		out.Exercises = make([]workoutItemJSON, 0, len(p.Items))
	}
	for _, it := range p.Items {
		out.Exercises = append(out.Exercises, workoutItemJSON{
			ExerciseID:   it.ExerciseID,
			ExerciseName: it.ExerciseName,
			MuscleGroup:  it.MuscleGroup,
			Sets:         it.Sets,
			Reps:         it.Reps,
			Weight:       it.Weight,
			RestTime:     it.RestTime,
			Notes:        it.Notes,
		})
	}
	return out
}

type workoutItemRequest struct {
	ExerciseID string `json:"exerciseId"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps"`
	Weight     string `json:"weight"`
	RestTime   string `json:"restTime"`
	Notes      string `json:"notes"`
}

type workoutPlanRequest struct {
	Name        string               `json:"name"`
	Duration    string               `json:"duration"`
	Level       string               `json:"level"`
	Description string               `json:"description"`
	Exercises   []workoutItemRequest `json:"exercises"`
}

// handleListWorkouts handles GET /api/workouts
func (a *app) handleListWorkouts(w http.ResponseWriter, r *http.Request) {
	plans, err := a.stores.WorkoutStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]workoutPlanJSON, 0, len(plans))
	for _, p := range plans {
		out = append(out, toWorkoutPlanJSON(p))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleGetWorkout handles GET /api/workouts/{id}
func (a *app) handleGetWorkout(w http.ResponseWriter, r *http.Request) {
	p, err := a.stores.WorkoutStore.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutPlanJSON(p))
}

// handleCreateWorkout handles POST /api/workouts
func (a *app) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	a.saveWorkout(w, r, "", http.StatusCreated)
}

// handleUpdateWorkout handles PUT /api/workouts/{id}
func (a *app) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	a.saveWorkout(w, r, r.PathValue("id"), http.StatusOK)
}

func (a *app) saveWorkout(w http.ResponseWriter, r *http.Request, id string, status int) {
	var req workoutPlanRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	items := make([]workout.Item, 0, len(req.Exercises))
	for _, it := range req.Exercises {
		items = append(items, workout.Item{
			ExerciseID: it.ExerciseID,
			Sets:       it.Sets,
			Reps:       it.Reps,
			Weight:     it.Weight,
			RestTime:   it.RestTime,
			Notes:      it.Notes,
		})
	}
	p, err := orchestrators.ExecuteSaveWorkoutPlan(r.Context(), orchestrators.SaveWorkoutPlanInput{
		ID:          id,
		Name:        req.Name,
		Duration:    req.Duration,
		Level:       req.Level,
		Description: req.Description,
		Items:       items,
	}, orchestrators.SaveWorkoutPlanDeps{
		WorkoutStore:  a.stores.WorkoutStore,
		ExerciseStore: a.stores.ExerciseStore,
		GenerateID:    a.generateID,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, status, toWorkoutPlanJSON(p))
}

// handleDeleteWorkout handles DELETE /api/workouts/{id}
func (a *app) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	err := orchestrators.ExecuteDeleteWorkoutPlan(r.Context(), r.PathValue("id"),
		orchestrators.DeleteWorkoutPlanDeps{WorkoutStore: a.stores.WorkoutStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type assignPlanRequest struct {
	PlanID string `json:"planId"`
}

type assignPlanResponse struct {
	Client      clientJSON       `json:"client"`
	WorkoutPlan *workoutPlanJSON `json:"workoutPlan"`
}

// handleAssignWorkoutPlan handles PUT /api/clients/{id}/plan
func (a *app) handleAssignWorkoutPlan(w http.ResponseWriter, r *http.Request) {
	var req assignPlanRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	c, p, err := orchestrators.ExecuteAssignWorkoutPlan(r.Context(), orchestrators.AssignWorkoutPlanInput{
		ClientID: r.PathValue("id"),
		PlanID:   req.PlanID,
	}, orchestrators.AssignWorkoutPlanDeps{ClientStore: a.stores.ClientStore, WorkoutStore: a.stores.WorkoutStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	resp := assignPlanResponse{Client: toClientJSON(c)}
	if c.WorkoutPlanID != "" {
		plan := toWorkoutPlanJSON(p)
		resp.WorkoutPlan = &plan
	}
	writeJSON(w, http.StatusOK, resp)
}
