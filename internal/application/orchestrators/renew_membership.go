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
	"gymdesk/internal/domain/payment"

	"github.com/google/uuid"
)

// ErrMissingMembership is returned when a renewal names no plan.
var ErrMissingMembership = errors.New("membership plan is required")

// PaymentStore records payments.
type PaymentStore interface {
	Save(ctx context.Context, p payment.Payment) error
}

// RenewMembershipInput carries a renewal.
type RenewMembershipInput struct {
	ClientID     string
	MembershipID string
	StartDate    string // optional YYYY-MM-DD
	PaymentDate  string // optional YYYY-MM-DD, recorded at noon; defaults to now
}

// RenewMembershipDeps holds dependencies for RenewMembership.
type RenewMembershipDeps struct {
	ClientStore     ClientStore
	MembershipStore MembershipLookup
	PaymentStore    PaymentStore
	GenerateID      func() string
	Now             func() time.Time
}

// RenewMembershipResult carries the renewed client and the payment taken.
type RenewMembershipResult struct {
	Client  client.Client
	Payment payment.Payment
}

// ExecuteRenewMembership records a paid renewal.
// PRE: ClientID and MembershipID refer to existing records
// POST: A payment of the plan price exists; the client is active, owes
// nothing, and EndDate = start + plan duration
// INVARIANT: Without StartDate, start is the later of the current EndDate and today
// INVARIANT: A given PaymentDate is stored at 12:00 local time on that day
func ExecuteRenewMembership(ctx context.Context, input RenewMembershipInput, deps RenewMembershipDeps) (RenewMembershipResult, error) {
	if input.ClientID == "" {
		return RenewMembershipResult{}, ErrMissingClientID
	}
	if input.MembershipID == "" {
		return RenewMembershipResult{}, ErrMissingMembership
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	genID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		genID = deps.GenerateID
	}

	c, err := deps.ClientStore.GetByID(ctx, input.ClientID)
	if err != nil {
		return RenewMembershipResult{}, err
	}
	plan, err := deps.MembershipStore.GetByID(ctx, input.MembershipID)
	if err != nil {
		return RenewMembershipResult{}, err
	}

	today := now()
	start, err := renewalStart(c, input.StartDate, today)
	if err != nil {
		return RenewMembershipResult{}, err
	}
	paidAt, err := paymentDate(input.PaymentDate, today)
	if err != nil {
		return RenewMembershipResult{}, err
	}

	p := payment.Payment{
		ID:       genID(),
		ClientID: c.ID,
		Amount:   plan.Price,
		Concept:  payment.RenewalConcept(plan.Name),
		Date:     paidAt,
	}
	if err := p.Validate(); err != nil {
		return RenewMembershipResult{}, err
	}
	if err := deps.PaymentStore.Save(ctx, p); err != nil {
		return RenewMembershipResult{}, fmt.Errorf("record renewal payment: %w", err)
	}

	c.Renew(plan.EndDateFrom(start).Format(client.DateLayout), plan.Name)
	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return RenewMembershipResult{}, fmt.Errorf("payment %s recorded but client update failed: %w", p.ID, err)
	}

	slog.Info("client_event", "event", "membership_renewed", "client_id", c.ID, "membership", plan.Name, "amount", p.Amount, "end_date", c.EndDate)
	return RenewMembershipResult{Client: c, Payment: p}, nil
}

func renewalStart(c client.Client, explicit string, today time.Time) (time.Time, error) {
	if s := strings.TrimSpace(explicit); s != "" {
		start, err := access.ParseDate(s, today.Location())
		if err != nil {
			return time.Time{}, fmt.Errorf("start date %q: %w", s, access.ErrInvalidDate)
		}
		return start, nil
	}
	y, m, d := today.Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, today.Location())
	if end, err := access.ParseDate(c.EndDate, today.Location()); err == nil {
		ey, em, ed := end.Date()
		endDay := time.Date(ey, em, ed, 0, 0, 0, 0, today.Location())
		if endDay.After(start) {
			start = endDay
		}
	}
	return start, nil
}

func paymentDate(explicit string, now time.Time) (time.Time, error) {
	s := strings.TrimSpace(explicit)
	if s == "" {
		return now, nil
	}
	day, err := access.ParseDate(s, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("payment date %q: %w", s, access.ErrInvalidDate)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, now.Location()), nil
}
