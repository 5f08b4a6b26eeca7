package client

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxNameLength = 100
)

// Administrative status values. Status is set by staff and is independent
// of the membership end date.
const (
	StatusActive   = "active"
	StatusDebtor   = "debtor"
	StatusInactive = "inactive"
)

// MembershipCustom is recorded when a client is registered without a plan.
const MembershipCustom = "Custom"

// DateLayout is the storage layout for calendar dates.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrNotFound        = errors.New("client not found")
	ErrEmptyFirstName  = errors.New("client first name cannot be empty")
	ErrEmptyLastName   = errors.New("client last name cannot be empty")
	ErrNameTooLong     = errors.New("client name cannot exceed 100 characters")
	ErrEmptyPhone      = errors.New("client phone is required")
	ErrEmptyCedula     = errors.New("client cedula is required")
	ErrInvalidEmail    = errors.New("client email must be valid")
	ErrInvalidStatus   = errors.New("status must be 'active', 'debtor', or 'inactive'")
	ErrNegativeDebt    = errors.New("client debt cannot be negative")
	ErrDuplicateCedula = errors.New("a client with this cedula already exists")
	ErrDuplicateFinger = errors.New("a client with this fingerprint id already exists")
)

// Client is a gym member record.
type Client struct {
	ID             string
	FirstName      string
	LastName       string
	Email          string
	Phone          string
	Cedula         string
	FingerprintID  string
	MembershipType string
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD; RFC3339 tolerated on read
	Status         string
	Debt           float64
	MedicalNotes   string
	WorkoutPlanID  string // empty when no plan is assigned
	CreatedAt      time.Time
}

// Validate checks if the Client has valid data.
// PRE: Client struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: EndDate is not checked here; the access evaluator reports bad dates
func (c *Client) Validate() error {
	if strings.TrimSpace(c.FirstName) == "" {
		return ErrEmptyFirstName
	}
	if strings.TrimSpace(c.LastName) == "" {
		return ErrEmptyLastName
	}
	if len(c.FirstName) > MaxNameLength || len(c.LastName) > MaxNameLength {
		return ErrNameTooLong
	}
	if strings.TrimSpace(c.Phone) == "" {
		return ErrEmptyPhone
	}
	if strings.TrimSpace(c.Cedula) == "" {
		return ErrEmptyCedula
	}
	if c.Email != "" && !validEmail(c.Email) {
		return ErrInvalidEmail
	}
	if !ValidStatus(c.Status) {
		return ErrInvalidStatus
	}
	if c.Debt < 0 {
		return ErrNegativeDebt
	}
	return nil
}

// ValidStatus reports whether s is one of the administrative statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusActive, StatusDebtor, StatusInactive:
		return true
	}
	return false
}

// FullName returns "First Last".
func (c Client) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// IsDebtor returns true if staff flagged the client as owing money.
// INVARIANT: Status field is not mutated
func (c Client) IsDebtor() bool {
	return c.Status == StatusDebtor
}

// SetStatus changes the administrative status.
// PRE: status is one of the Status constants
// POST: Status is updated
func (c *Client) SetStatus(status string) error {
	if !ValidStatus(status) {
		return ErrInvalidStatus
	}
	c.Status = status
	return nil
}

// Renew applies a paid renewal: the client becomes active until endDate and
// owes nothing.
// PRE: endDate is a YYYY-MM-DD date, membershipName is non-empty
// POST: Status active, Debt 0, EndDate and MembershipType updated
func (c *Client) Renew(endDate, membershipName string) {
	c.Status = StatusActive
	c.Debt = 0
	c.EndDate = endDate
	c.MembershipType = membershipName
}

// validEmail mirrors the \S+@\S+\.\S+ check used on the registration form.
func validEmail(email string) bool {
	if strings.ContainsAny(email, " \t\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 {
		return false
	}
	domain := email[at+1:]
	dot := strings.LastIndex(domain, ".")
	return dot > 0 && dot < len(domain)-1
}
