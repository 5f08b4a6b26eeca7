// Package export shapes a full gym backup: every client, plan, payment,
// check-in, setting and workout in one document.
package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/membership"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/setting"
	"gymdesk/internal/domain/workout"
)

// Format constants for export file format.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

// Version is bumped when the backup layout changes.
const Version = "2"

// ErrInvalidFormat is returned for formats other than json and csv.
var ErrInvalidFormat = errors.New("invalid format: must be 'json' or 'csv'")

// Backup is the complete export payload.
type Backup struct {
	Metadata    Metadata           `json:"export_metadata"`
	Clients     []ClientRecord     `json:"clients"`
	Memberships []MembershipRecord `json:"memberships"`
	Payments    []PaymentRecord    `json:"payments"`
	Attendance  []AttendanceRecord `json:"attendance"`
	Settings    []SettingRecord    `json:"settings"`

	// JSON only, like Settings.
	Exercises    []ExerciseRecord    `json:"exercises"`
	WorkoutPlans []WorkoutPlanRecord `json:"workout_plans"`
}

// ClientRecord is one client row.
type ClientRecord struct {
	ID             string    `json:"id"`
	FirstName      string    `json:"first_name"`
	LastName       string    `json:"last_name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone"`
	Cedula         string    `json:"cedula"`
	FingerprintID  string    `json:"fingerprint_id,omitempty"`
	MembershipType string    `json:"membership_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	Status         string    `json:"status"`
	Debt           float64   `json:"debt"`
	MedicalNotes   string    `json:"medical_notes,omitempty"`
	WorkoutPlanID  string    `json:"workout_plan_id,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// MembershipRecord is one plan.
type MembershipRecord struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days"`
}

// PaymentRecord is one payment.
type PaymentRecord struct {
	ID       string    `json:"id"`
	ClientID string    `json:"client_id"`
	Amount   float64   `json:"amount"`
	Concept  string    `json:"concept"`
	Date     time.Time `json:"date"`
}

// AttendanceRecord is one check-in attempt.
type AttendanceRecord struct {
	ID            string    `json:"id"`
	ClientID      string    `json:"client_id"`
	AccessGranted bool      `json:"access_granted"`
	Timestamp     time.Time `json:"timestamp"`
}

// SettingRecord is one key/value setting.
type SettingRecord struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// ExerciseRecord is one catalogue exercise.
type ExerciseRecord struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group,omitempty"`
	VideoURL    string `json:"video_url,omitempty"`
}

// WorkoutPlanRecord is one workout plan with its exercises in order.
type WorkoutPlanRecord struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Duration    string              `json:"duration,omitempty"`
	Level       string              `json:"level"`
	Description string              `json:"description,omitempty"`
	Exercises   []WorkoutItemRecord `json:"exercises"`
}

// WorkoutItemRecord is one plan entry.
type WorkoutItemRecord struct {
	ExerciseID string `json:"exercise_id"`
	Sets       int    `json:"sets"`
	Reps       string `json:"reps,omitempty"`
	Weight     string `json:"weight,omitempty"`
	RestTime   string `json:"rest_time,omitempty"`
	Notes      string `json:"notes,omitempty"`
}

// Metadata contains information about the export itself.
type Metadata struct {
	ExportDate  time.Time `json:"export_date"`
	Format      string    `json:"format"`
	Version     string    `json:"version"`
	RecordCount int       `json:"record_count"`
}

// NewBackup assembles a backup from domain values.
// PRE: none (nil slices export as empty arrays)
// POST: Metadata.RecordCount is the number of rows across all sections
func NewBackup(
	exportedAt time.Time,
	clients []client.Client,
	plans []membership.Membership,
	payments []payment.Payment,
	events []attendance.Event,
	settings []setting.Setting,
) Backup {
	b := Backup{
		Clients:     make([]ClientRecord, 0, len(clients)),
		Memberships: make([]MembershipRecord, 0, len(plans)),
		Payments:    make([]PaymentRecord, 0, len(payments)),
		Attendance:  make([]AttendanceRecord, 0, len(events)),
		Settings:    make([]SettingRecord, 0, len(settings)),

		Exercises:    []ExerciseRecord{},
		WorkoutPlans: []WorkoutPlanRecord{},
	}
	for _, c := range clients {
		b.Clients = append(b.Clients, ClientRecord{
			ID:             c.ID,
			FirstName:      c.FirstName,
			LastName:       c.LastName,
			Email:          c.Email,
			Phone:          c.Phone,
			Cedula:         c.Cedula,
			FingerprintID:  c.FingerprintID,
			MembershipType: c.MembershipType,
			StartDate:      c.StartDate,
			EndDate:        c.EndDate,
			Status:         c.Status,
			Debt:           c.Debt,
			MedicalNotes:   c.MedicalNotes,
			WorkoutPlanID:  c.WorkoutPlanID,
			CreatedAt:      c.CreatedAt,
		})
	}
	for _, m := range plans {
		b.Memberships = append(b.Memberships, MembershipRecord{ID: m.ID, Name: m.Name, Price: m.Price, DurationDays: m.DurationDays})
	}
	for _, p := range payments {
		b.Payments = append(b.Payments, PaymentRecord{ID: p.ID, ClientID: p.ClientID, Amount: p.Amount, Concept: p.Concept, Date: p.Date})
	}
	for _, e := range events {
		b.Attendance = append(b.Attendance, AttendanceRecord{ID: e.ID, ClientID: e.ClientID, AccessGranted: e.AccessGranted, Timestamp: e.Timestamp})
	}
	for _, s := range settings {
		b.Settings = append(b.Settings, SettingRecord{Key: s.Key, Value: s.Value})
	}
	b.Metadata = Metadata{
		ExportDate:  exportedAt,
		Format:      FormatJSON,
		Version:     Version,
		RecordCount: len(b.Clients) + len(b.Memberships) + len(b.Payments) + len(b.Attendance) + len(b.Settings),
	}
	return b
}

// WithWorkouts adds the exercise catalogue and workout plans to b.
// POST: RecordCount also counts exercises and plans (plan entries are not rows)
func (b *Backup) WithWorkouts(exercises []exercise.Exercise, plans []workout.Plan) {
	for _, e := range exercises {
		b.Exercises = append(b.Exercises, ExerciseRecord{ID: e.ID, Name: e.Name, MuscleGroup: e.MuscleGroup, VideoURL: e.VideoURL})
	}
	for _, p := range plans {
		rec := WorkoutPlanRecord{
			ID:          p.ID,
			Name:        p.Name,
			Duration:    p.Duration,
			Level:       p.Level,
			Description: p.Description,
			Exercises:   make([]WorkoutItemRecord, 0, len(p.Items)),
		}
		for _, it := range p.Items {
			rec.Exercises = append(rec.Exercises, WorkoutItemRecord{
				ExerciseID: it.ExerciseID,
				Sets:       it.Sets,
				Reps:       it.Reps,
				Weight:     it.Weight,
				RestTime:   it.RestTime,
				Notes:      it.Notes,
			})
		}
		b.WorkoutPlans = append(b.WorkoutPlans, rec)
	}
	b.Metadata.RecordCount += len(exercises) + len(plans)
}

// ValidFormat reports whether f is a supported export format.
func ValidFormat(f string) bool {
	return f == FormatJSON || f == FormatCSV
}

// ToJSON serializes the Backup to indented JSON.
func (b *Backup) ToJSON() ([]byte, error) {
	return json.MarshalIndent(b, "", "  ")
}

// ToCSV serializes each section to its own CSV document, keyed by section
// name. Settings and workouts are omitted; they only make sense in the JSON
// backup.
// POST: Every document starts with a header row
func (b *Backup) ToCSV() (map[string][]byte, error) {
	out := make(map[string][]byte, 4)

	clients := [][]string{{"id", "first_name", "last_name", "email", "phone", "cedula", "fingerprint_id", "membership_type", "start_date", "end_date", "status", "debt"}}
	for _, c := range b.Clients {
		clients = append(clients, []string{c.ID, c.FirstName, c.LastName, c.Email, c.Phone, c.Cedula, c.FingerprintID, c.MembershipType, c.StartDate, c.EndDate, c.Status, money(c.Debt)})
	}
	plans := [][]string{{"id", "name", "price", "duration_days"}}
	for _, m := range b.Memberships {
		plans = append(plans, []string{m.ID, m.Name, money(m.Price), strconv.Itoa(m.DurationDays)})
	}
	payments := [][]string{{"id", "client_id", "amount", "concept", "date"}}
	for _, p := range b.Payments {
		payments = append(payments, []string{p.ID, p.ClientID, money(p.Amount), p.Concept, p.Date.UTC().Format(time.RFC3339)})
	}
	events := [][]string{{"id", "client_id", "access_granted", "timestamp"}}
	for _, e := range b.Attendance {
		events = append(events, []string{e.ID, e.ClientID, strconv.FormatBool(e.AccessGranted), e.Timestamp.UTC().Format(time.RFC3339)})
	}

	sections := map[string][][]string{
		"clients":     clients,
		"memberships": plans,
		"payments":    payments,
		"attendance":  events,
	}
	for name, rows := range sections {
		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.WriteAll(rows); err != nil {
			return nil, err
		}
		out[name] = buf.Bytes()
	}
	return out, nil
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
