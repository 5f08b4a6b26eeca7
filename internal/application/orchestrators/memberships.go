package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"gymdesk/internal/domain/membership"

	"github.com/google/uuid"
)

// MembershipStore persists membership plans.
type MembershipStore interface {
	GetByID(ctx context.Context, id string) (membership.Membership, error)
	Save(ctx context.Context, m membership.Membership) error
	Delete(ctx context.Context, id string) error
}

// SaveMembershipInput creates a plan (empty ID) or replaces one.
type SaveMembershipInput struct {
	ID           string
	Name         string
	Price        float64
	DurationDays int
}

// SaveMembershipDeps holds dependencies for SaveMembership.
type SaveMembershipDeps struct {
	MembershipStore MembershipStore
	GenerateID      func() string
}

// ExecuteSaveMembership creates or updates a plan.
// PRE: Name non-empty, Price and DurationDays non-negative
// POST: Plan persisted; DurationDays 0 is stored as the 30-day default
func ExecuteSaveMembership(ctx context.Context, input SaveMembershipInput, deps SaveMembershipDeps) (membership.Membership, error) {
	m := membership.Membership{
		ID:           input.ID,
		Name:         strings.TrimSpace(input.Name),
		Price:        input.Price,
		DurationDays: input.DurationDays,
	}
	if err := m.Validate(); err != nil {
		return membership.Membership{}, err
	}
	if m.DurationDays == 0 {
		m.DurationDays = membership.DefaultDurationDays
	}

	event := "membership_updated"
	if m.ID == "" {
		event = "membership_created"
		m.ID = uuid.New().String()
		if deps.GenerateID != nil {
			m.ID = deps.GenerateID()
		}
	} else if _, err := deps.MembershipStore.GetByID(ctx, m.ID); err != nil {
		return membership.Membership{}, err
	}

	if err := deps.MembershipStore.Save(ctx, m); err != nil {
		return membership.Membership{}, err
	}
	slog.Info("membership_event", "event", event, "membership_id", m.ID, "name", m.Name, "price", m.Price)
	return m, nil
}

// DeleteMembershipDeps holds dependencies for DeleteMembership.
type DeleteMembershipDeps struct {
	MembershipStore MembershipStore
}

// ExecuteDeleteMembership removes a plan. Clients keep the plan name they
// were sold.
func ExecuteDeleteMembership(ctx context.Context, id string, deps DeleteMembershipDeps) error {
	if err := deps.MembershipStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("membership_event", "event", "membership_deleted", "membership_id", id)
	return nil
}
