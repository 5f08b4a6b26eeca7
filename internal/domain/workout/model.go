// Package workout models training plans: an ordered list of exercises with
// sets and reps that staff assign to clients.
package workout

import (
	"errors"
	"strings"
)

// Training levels.
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// MaxNameLength bounds plan names.
const MaxNameLength = 100

// MaxItems bounds how many exercises one plan holds.
const MaxItems = 50

// Domain errors
var (
	ErrNotFound          = errors.New("workout plan not found")
	ErrEmptyName         = errors.New("workout plan name cannot be empty")
	ErrNameTooLong       = errors.New("workout plan name cannot exceed 100 characters")
	ErrInvalidLevel      = errors.New("level must be 'beginner', 'intermediate', or 'advanced'")
	ErrTooManyItems      = errors.New("workout plan cannot hold more than 50 exercises")
	ErrMissingExercise   = errors.New("every plan entry needs an exercise")
	ErrDuplicateExercise = errors.New("an exercise appears twice in the plan")
	ErrNegativeSets      = errors.New("sets cannot be negative")
	ErrUnknownExercise   = errors.New("workout plan references an unknown exercise")
)

// Item is one exercise in a plan. Sets 0 means "not prescribed"; reps,
// weight and rest are free text ("8-12", "20 kg", "90s").
type Item struct {
	ExerciseID string
	Sets       int
	Reps       string
	Weight     string
	RestTime   string
	Notes      string

	// Filled on read from the exercise catalogue.
	ExerciseName string
	MuscleGroup  string
}

// Plan is a named, ordered workout.
type Plan struct {
	ID          string
	Name        string
	Duration    string // free text, e.g. "8 weeks"
	Level       string
	Description string
	Items       []Item

	// ExerciseCount is set by list reads, which skip Items.
	ExerciseCount int
}

// ValidLevel reports whether s is a known level.
func ValidLevel(s string) bool {
	switch s {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

// Normalize trims text fields and defaults an empty level to beginner.
// POST: Level is non-empty
func (p *Plan) Normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Duration = strings.TrimSpace(p.Duration)
	p.Description = strings.TrimSpace(p.Description)
	p.Level = strings.ToLower(strings.TrimSpace(p.Level))
	if p.Level == "" {
		p.Level = LevelBeginner
	}
	for i := range p.Items {
		it := &p.Items[i]
		it.ExerciseID = strings.TrimSpace(it.ExerciseID)
		it.Reps = strings.TrimSpace(it.Reps)
		it.Weight = strings.TrimSpace(it.Weight)
		it.RestTime = strings.TrimSpace(it.RestTime)
		it.Notes = strings.TrimSpace(it.Notes)
	}
}

// Validate checks if the Plan has valid data.
// PRE: Normalize has run
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Each exercise appears at most once; order is Items order
func (p *Plan) Validate() error {
	if p.Name == "" {
		return ErrEmptyName
	}
	if len(p.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if !ValidLevel(p.Level) {
		return ErrInvalidLevel
	}
	if len(p.Items) > MaxItems {
		return ErrTooManyItems
	}
	seen := make(map[string]bool, len(p.Items))
	for _, it := range p.Items {
		if it.ExerciseID == "" {
			return ErrMissingExercise
		}
		if seen[it.ExerciseID] {
			return ErrDuplicateExercise
		}
		seen[it.ExerciseID] = true
		if it.Sets < 0 {
			return ErrNegativeSets
		}
	}
	return nil
}
