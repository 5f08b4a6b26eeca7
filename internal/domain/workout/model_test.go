package workout

import (
	"errors"
	"testing"
)

func TestPlan_NormalizeDefaultsLevel(t *testing.T) {
	p := Plan{Name: "  Full body ", Level: " ", Items: []Item{{ExerciseID: " e1 ", Reps: " 8-12 "}}}
	p.Normalize()
	if p.Name != "Full body" || p.Level != LevelBeginner {
		t.Errorf("plan = %+v", p)
	}
	if p.Items[0].ExerciseID != "e1" || p.Items[0].Reps != "8-12" {
		t.Errorf("item = %+v", p.Items[0])
	}
}

func TestPlan_Validate(t *testing.T) {
	many := make([]Item, MaxItems+1)
	for i := range many {
		many[i] = Item{ExerciseID: string(rune('a' + i%26)) + string(rune('a'+i/26))}
	}
	tests := []struct {
		name string
		p    Plan
		want error
	}{
		{name: "valid", p: Plan{Name: "Legs", Level: LevelAdvanced, Items: []Item{{ExerciseID: "e1", Sets: 4}, {ExerciseID: "e2"}}}},
		{name: "no exercises", p: Plan{Name: "Rest week", Level: LevelBeginner}},
		{name: "blank name", p: Plan{Level: LevelBeginner}, want: ErrEmptyName},
		{name: "unknown level", p: Plan{Name: "Legs", Level: "elite"}, want: ErrInvalidLevel},
		{name: "missing exercise", p: Plan{Name: "Legs", Level: LevelBeginner, Items: []Item{{Sets: 3}}}, want: ErrMissingExercise},
		{name: "duplicate exercise", p: Plan{Name: "Legs", Level: LevelBeginner, Items: []Item{{ExerciseID: "e1"}, {ExerciseID: "e1"}}}, want: ErrDuplicateExercise},
		{name: "negative sets", p: Plan{Name: "Legs", Level: LevelBeginner, Items: []Item{{ExerciseID: "e1", Sets: -1}}}, want: ErrNegativeSets},
		{name: "too many", p: Plan{Name: "Everything", Level: LevelBeginner, Items: many}, want: ErrTooManyItems},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.p.Validate(); !errors.Is(err, tt.want) {
				t.Errorf("Validate() = %v, want %v", err, tt.want)
			}
		})
	}
}
