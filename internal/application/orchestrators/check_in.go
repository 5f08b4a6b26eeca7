package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/client"

	"github.com/google/uuid"
)

// NotFoundAnnouncement is spoken when no client matches the identifier.
const NotFoundAnnouncement = "Client not found"

// ErrEmptyIdentifier is returned when the scanned or typed identifier is blank.
var ErrEmptyIdentifier = errors.New("identifier is required")

// ErrClientNotFound is matched by every ClientNotFoundError via errors.Is.
var ErrClientNotFound = errors.New("client not found")

// ClientNotFoundError reports that no matcher resolved the identifier.
type ClientNotFoundError struct {
	Identifier string
}

func (e *ClientNotFoundError) Error() string {
	return fmt.Sprintf("no client matches identifier %q", e.Identifier)
}

// Is lets errors.Is(err, ErrClientNotFound) match.
func (e *ClientNotFoundError) Is(target error) bool {
	return target == ErrClientNotFound
}

// ClientLookupStore resolves a client from any of its identifiers.
type ClientLookupStore interface {
	GetByID(ctx context.Context, id string) (client.Client, error)
	GetByEmail(ctx context.Context, email string) (client.Client, error)
	GetByCedula(ctx context.Context, cedula string) (client.Client, error)
	GetByFingerprintID(ctx context.Context, fingerprintID string) (client.Client, error)
}

// AttendanceAppender records check-in events.
type AttendanceAppender interface {
	Append(ctx context.Context, event attendance.Event) error
}

// GraceDaysProvider supplies the configured grace period. Implementations
// must read the current value on every call.
type GraceDaysProvider interface {
	GraceDays(ctx context.Context) (int, error)
}

// Announcer delivers the spoken/displayed check-in message.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

type matcher struct {
	name   string
	lookup func(ctx context.Context, store ClientLookupStore, identifier string) (client.Client, error)
}

// matchers are tried in order; the first hit wins.
var matchers = []matcher{
	{name: "id", lookup: func(ctx context.Context, s ClientLookupStore, v string) (client.Client, error) { return s.GetByID(ctx, v) }},
	{name: "email", lookup: func(ctx context.Context, s ClientLookupStore, v string) (client.Client, error) { return s.GetByEmail(ctx, v) }},
	{name: "cedula", lookup: func(ctx context.Context, s ClientLookupStore, v string) (client.Client, error) { return s.GetByCedula(ctx, v) }},
	{name: "fingerprint", lookup: func(ctx context.Context, s ClientLookupStore, v string) (client.Client, error) {
		return s.GetByFingerprintID(ctx, v)
	}},
}

// ResolveClient finds the client an identifier refers to.
// PRE: identifier is trimmed and non-empty
// POST: Returns the first matching client, *ClientNotFoundError when none
// match, or the first lookup error that is not a not-found
func ResolveClient(ctx context.Context, store ClientLookupStore, identifier string) (client.Client, string, error) {
	for _, m := range matchers {
		c, err := m.lookup(ctx, store, identifier)
		if err == nil {
			return c, m.name, nil
		}
		if !errors.Is(err, client.ErrNotFound) {
			return client.Client{}, "", fmt.Errorf("lookup by %s: %w", m.name, err)
		}
	}
	return client.Client{}, "", &ClientNotFoundError{Identifier: identifier}
}

// CheckInInput carries the raw identifier from the kiosk or front desk.
type CheckInInput struct {
	Identifier string
}

// CheckInResult is what the operator sees after a check-in.
type CheckInResult struct {
	Client       client.Client
	MatchedBy    string
	Decision     access.Decision
	Event        attendance.Event
	Announcement string
}

// CheckInDeps holds dependencies for CheckIn.
type CheckInDeps struct {
	ClientStore     ClientLookupStore
	AttendanceStore AttendanceAppender
	GraceDays       GraceDaysProvider
	Announcer       Announcer        // optional
	GenerateID      func() string    // optional, defaults to uuid
	Now             func() time.Time // optional, defaults to time.Now
}

// ExecuteCheckIn resolves a client, decides access, records the attempt and
// announces the outcome.
// PRE: Identifier is an id, email, cedula, or fingerprint id
// POST: On success one attendance event exists with the decision's AccessGranted
// INVARIANT: Nothing is recorded when the client is unknown or the end date is unreadable
func ExecuteCheckIn(ctx context.Context, input CheckInInput, deps CheckInDeps) (CheckInResult, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return CheckInResult{}, ErrEmptyIdentifier
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	genID := func() string { return uuid.New().String() }
	if deps.GenerateID != nil {
		genID = deps.GenerateID
	}

	c, matchedBy, err := ResolveClient(ctx, deps.ClientStore, identifier)
	if err != nil {
		if errors.Is(err, ErrClientNotFound) {
			slog.Info("checkin_event", "event", "client_not_found", "identifier", identifier)
			announce(ctx, deps.Announcer, NotFoundAnnouncement)
		}
		return CheckInResult{}, err
	}

	graceDays, err := deps.GraceDays.GraceDays(ctx)
	if err != nil {
		return CheckInResult{}, fmt.Errorf("read grace days: %w", err)
	}

	today := now()
	decision, err := access.Evaluate(c, graceDays, today)
	if err != nil {
		slog.Warn("checkin_event", "event", "invalid_end_date", "client_id", c.ID, "end_date", c.EndDate)
		return CheckInResult{}, err
	}

	event := attendance.Event{
		ID:            genID(),
		ClientID:      c.ID,
		AccessGranted: decision.AccessGranted,
		Timestamp:     today,
	}
	if err := event.Validate(); err != nil {
		return CheckInResult{}, err
	}
	if err := deps.AttendanceStore.Append(ctx, event); err != nil {
		return CheckInResult{}, fmt.Errorf("record attendance for client %s: %w", c.ID, err)
	}

	text := decision.Announcement(c.FirstName)
	announce(ctx, deps.Announcer, text)

	slog.Info("checkin_event", "event", "client_checked_in",
		"client_id", c.ID, "matched_by", matchedBy, "label", decision.Label,
		"granted", decision.AccessGranted, "days_past_due", decision.DaysPastDue)

	return CheckInResult{
		Client:       c,
		MatchedBy:    matchedBy,
		Decision:     decision,
		Event:        event,
		Announcement: text,
	}, nil
}

// EvaluateClientInput identifies a client to evaluate without recording.
type EvaluateClientInput struct {
	Identifier string
}

// EvaluateClientDeps holds dependencies for EvaluateClient.
type EvaluateClientDeps struct {
	ClientStore ClientLookupStore
	GraceDays   GraceDaysProvider
	Now         func() time.Time
}

// ExecuteEvaluateClient answers "would this client get in today?" without
// touching attendance.
// POST: No state is written
func ExecuteEvaluateClient(ctx context.Context, input EvaluateClientInput, deps EvaluateClientDeps) (client.Client, access.Decision, error) {
	identifier := strings.TrimSpace(input.Identifier)
	if identifier == "" {
		return client.Client{}, access.Decision{}, ErrEmptyIdentifier
	}
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	c, _, err := ResolveClient(ctx, deps.ClientStore, identifier)
	if err != nil {
		return client.Client{}, access.Decision{}, err
	}
	graceDays, err := deps.GraceDays.GraceDays(ctx)
	if err != nil {
		return client.Client{}, access.Decision{}, fmt.Errorf("read grace days: %w", err)
	}
	decision, err := access.Evaluate(c, graceDays, now())
	return c, decision, err
}

// announce is best-effort: a failed or panicking announcer never fails the
// check-in, which is already recorded when this runs.
func announce(ctx context.Context, a Announcer, text string) {
	if a == nil || text == "" {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			slog.Error("checkin_event", "event", "announce_panic", "panic", fmt.Sprint(r))
		}
	}()
	if err := a.Announce(ctx, text); err != nil {
		slog.Warn("checkin_event", "event", "announce_failed", "error", err)
	}
}
