package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/membership"
	"gymdesk/internal/domain/workout"

	"github.com/google/uuid"
)

// ClientStore defines the client persistence needed by the write orchestrators.
type ClientStore interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
	GetByCedula(ctx context.Context, cedula string) (client.Client, error)
	GetByFingerprintID(ctx context.Context, fingerprintID string) (client.Client, error)
	Save(ctx context.Context, c client.Client) error
}

// MembershipLookup reads membership plans.
type MembershipLookup interface {
	GetByID(ctx context.Context, id string) (membership.Membership, error)
}

// RegisterClientInput carries the registration form.
type RegisterClientInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	Cedula        string
	FingerprintID string
	MembershipID  string // optional; empty registers a one-month custom membership
	StartDate     string // optional YYYY-MM-DD; defaults to today
	MedicalNotes  string
	WorkoutPlanID string // optional; needs WorkoutStore
}

// RegisterClientDeps holds dependencies for RegisterClient.
type RegisterClientDeps struct {
	ClientStore     ClientStore
	MembershipStore MembershipLookup
	WorkoutStore    WorkoutLookup // optional unless WorkoutPlanID is set
	GenerateID      func() string
	Now             func() time.Time
}

// ExecuteRegisterClient creates a client with an initial membership period.
// PRE: Required fields present; cedula and fingerprint id unused
// POST: Client saved as active; EndDate = start + plan duration (one month
// without a plan); Debt = plan price
// INVARIANT: Cedula and fingerprint id stay unique
func ExecuteRegisterClient(ctx context.Context, input RegisterClientInput, deps RegisterClientDeps) (client.Client, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	genID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		genID = deps.GenerateID
	}

	start := now()
	if s := strings.TrimSpace(input.StartDate); s != "" {
		parsed, err := access.ParseDate(s, start.Location())
		if err != nil {
			return client.Client{}, fmt.Errorf("start date %q: %w", s, access.ErrInvalidDate)
		}
		start = parsed
	}

	c := client.Client{
		ID:             genID(),
		FirstName:      strings.TrimSpace(input.FirstName),
		LastName:       strings.TrimSpace(input.LastName),
		Email:          strings.TrimSpace(input.Email),
		Phone:          strings.TrimSpace(input.Phone),
		Cedula:         strings.TrimSpace(input.Cedula),
		FingerprintID:  strings.TrimSpace(input.FingerprintID),
		MembershipType: client.MembershipCustom,
		StartDate:      start.Format(client.DateLayout),
		EndDate:        start.AddDate(0, 1, 0).Format(client.DateLayout),
		Status:         client.StatusActive,
		MedicalNotes:   strings.TrimSpace(input.MedicalNotes),
		CreatedAt:      now(),
	}

	if input.MembershipID != "" {
		plan, err := deps.MembershipStore.GetByID(ctx, input.MembershipID)
		if err != nil {
			return client.Client{}, err
		}
		c.MembershipType = plan.Name
		c.EndDate = plan.EndDateFrom(start).Format(client.DateLayout)
		c.Debt = plan.Price
	}

	if planID := strings.TrimSpace(input.WorkoutPlanID); planID != "" {
		if deps.WorkoutStore == nil {
			return client.Client{}, fmt.Errorf("workout plan %s: %w", planID, workout.ErrNotFound)
		}
		if _, err := deps.WorkoutStore.GetByID(ctx, planID); err != nil {
			return client.Client{}, err
		}
		c.WorkoutPlanID = planID
	}

	if err := c.Validate(); err != nil {
		return client.Client{}, err
	}
	if err := ensureUnique(ctx, deps.ClientStore, c); err != nil {
		return client.Client{}, err
	}
	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return client.Client{}, err
	}

	slog.Info("client_event", "event", "client_registered", "client_id", c.ID, "membership", c.MembershipType, "end_date", c.EndDate)
	return c, nil
}

// ensureUnique rejects a cedula or fingerprint id held by another client.
func ensureUnique(ctx context.Context, store ClientStore, c client.Client) error {
	if other, err := store.GetByCedula(ctx, c.Cedula); err == nil && other.ID != c.ID {
		return client.ErrDuplicateCedula
	} else if err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	if c.FingerprintID == "" {
		return nil
	}
	if other, err := store.GetByFingerprintID(ctx, c.FingerprintID); err == nil && other.ID != c.ID {
		return client.ErrDuplicateFinger
	} else if err != nil && !errors.Is(err, client.ErrNotFound) {
		return err
	}
	return nil
}
