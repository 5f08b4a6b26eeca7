package membership

import (
	"errors"
	"strings"
	"time"
)

// DefaultDurationDays applies when a plan has no duration configured.
const DefaultDurationDays = 30

// Domain errors
var (
	ErrNotFound         = errors.New("membership not found")
	ErrEmptyName        = errors.New("membership name cannot be empty")
	ErrNegativePrice    = errors.New("membership price cannot be negative")
	ErrNegativeDuration = errors.New("membership duration cannot be negative")
)

// Membership is a sellable plan: a price for a number of days of access.
type Membership struct {
	ID           string
	Name         string
	Price        float64
	DurationDays int
}

// Validate checks if the Membership has valid data.
// PRE: Membership struct is initialized
// POST: Returns error if validation fails, nil otherwise
func (m *Membership) Validate() error {
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyName
	}
	if m.Price < 0 {
		return ErrNegativePrice
	}
	if m.DurationDays < 0 {
		return ErrNegativeDuration
	}
	return nil
}

// EndDateFrom returns the last paid day for a membership starting on start.
// PRE: start is a calendar date (time of day ignored)
// POST: Returns start + DurationDays, or start + DefaultDurationDays when unset
func (m Membership) EndDateFrom(start time.Time) time.Time {
	days := m.DurationDays
	if days <= 0 {
		days = DefaultDurationDays
	}
	y, mo, d := start.Date()
	return time.Date(y, mo, d+days, 0, 0, 0, 0, start.Location())
}
