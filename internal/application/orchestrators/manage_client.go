package orchestrators

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/client"
)

// ErrMissingClientID is returned when an operation needs a client id.
var ErrMissingClientID = errors.New("client id is required")

// UpdateClientInput replaces a client's editable fields.
type UpdateClientInput struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Cedula         string
	FingerprintID  string
	MembershipType string
	StartDate      string
	EndDate        string
	Status         string
	Debt           float64
	MedicalNotes   string
}

// UpdateClientDeps holds dependencies for UpdateClient.
type UpdateClientDeps struct {
	ClientStore ClientStore
}

// ExecuteUpdateClient edits an existing client. Status and EndDate are set
// independently; neither is derived from the other.
// PRE: ID refers to an existing client
// POST: Client saved with the new values
// INVARIANT: A stored EndDate is always a readable calendar date
func ExecuteUpdateClient(ctx context.Context, input UpdateClientInput, deps UpdateClientDeps) (client.Client, error) {
	c, err := deps.ClientStore.GetByID(ctx, input.ID)
	if err != nil {
		return client.Client{}, err
	}

	end, err := access.ParseDate(input.EndDate, time.UTC)
	if err != nil {
		return client.Client{}, &access.InvalidDateError{ClientID: c.ID, Value: input.EndDate}
	}

	c.FirstName = strings.TrimSpace(input.FirstName)
	c.LastName = strings.TrimSpace(input.LastName)
	c.Email = strings.TrimSpace(input.Email)
	c.Phone = strings.TrimSpace(input.Phone)
	c.Cedula = strings.TrimSpace(input.Cedula)
	c.FingerprintID = strings.TrimSpace(input.FingerprintID)
	if mt := strings.TrimSpace(input.MembershipType); mt != "" {
		c.MembershipType = mt
	}
	if sd := strings.TrimSpace(input.StartDate); sd != "" {
		c.StartDate = sd
	}
	c.EndDate = end.Format(client.DateLayout)
	c.Status = input.Status
	c.Debt = input.Debt
	c.MedicalNotes = strings.TrimSpace(input.MedicalNotes)

	if err := c.Validate(); err != nil {
		return client.Client{}, err
	}
	if err := ensureUnique(ctx, deps.ClientStore, c); err != nil {
		return client.Client{}, err
	}
	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return client.Client{}, err
	}
	slog.Info("client_event", "event", "client_updated", "client_id", c.ID, "status", c.Status, "end_date", c.EndDate)
	return c, nil
}

// SetClientStatusInput carries a manual status change.
type SetClientStatusInput struct {
	ID     string
	Status string
}

// SetClientStatusDeps holds dependencies for SetClientStatus.
type SetClientStatusDeps struct {
	ClientStore ClientStore
}

// ExecuteSetClientStatus changes only the administrative status.
// PRE: Status is active, debtor, or inactive
// POST: Status updated; EndDate and Debt untouched
func ExecuteSetClientStatus(ctx context.Context, input SetClientStatusInput, deps SetClientStatusDeps) (client.Client, error) {
	if !client.ValidStatus(input.Status) {
		return client.Client{}, client.ErrInvalidStatus
	}
	c, err := deps.ClientStore.GetByID(ctx, input.ID)
	if err != nil {
		return client.Client{}, err
	}
	previous := c.Status
	if err := c.SetStatus(input.Status); err != nil {
		return client.Client{}, err
	}
	if err := deps.ClientStore.Save(ctx, c); err != nil {
		return client.Client{}, err
	}
	slog.Info("client_event", "event", "status_changed", "client_id", c.ID, "from", previous, "to", c.Status)
	return c, nil
}

// ClientDeleter removes clients together with their history.
type ClientDeleter interface {
	Delete(ctx context.Context, id string) error
}

// DeleteClientDeps holds dependencies for DeleteClient.
type DeleteClientDeps struct {
	ClientStore ClientDeleter
}

// ExecuteDeleteClient removes a client, its payments and its attendance.
// PRE: id is non-empty
// POST: No rows reference the client
func ExecuteDeleteClient(ctx context.Context, id string, deps DeleteClientDeps) error {
	if strings.TrimSpace(id) == "" {
		return ErrMissingClientID
	}
	if err := deps.ClientStore.Delete(ctx, id); err != nil {
		return err
	}
	slog.Info("client_event", "event", "client_deleted", "client_id", id)
	return nil
}
