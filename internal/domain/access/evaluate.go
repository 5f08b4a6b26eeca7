// Package access decides whether a client may enter the facility today.
//
// Evaluate is the only place membership expiry and grace-period rules live.
// Check-in, the client list badge, and the client detail view all call it.
package access

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"gymdesk/internal/domain/client"
)

// Label identifies which rule produced a Decision.
type Label string

const (
	LabelActiveOK      Label = "ACTIVE_OK"
	LabelGracePeriod   Label = "GRACE_PERIOD"
	LabelDeniedExpired Label = "DENIED_EXPIRED"
	LabelDeniedDebtor  Label = "DENIED_DEBTOR"
	LabelFallbackOK    Label = "FALLBACK_OK"
)

const msPerDay = 86_400_000

// ErrInvalidDate is matched by every InvalidDateError via errors.Is.
var ErrInvalidDate = errors.New("invalid membership end date")

// InvalidDateError reports a client end date that cannot be read as a
// calendar date.
type InvalidDateError struct {
	ClientID string
	Value    string
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("client %s: invalid membership end date %q", e.ClientID, e.Value)
}

// Is lets errors.Is(err, ErrInvalidDate) match.
func (e *InvalidDateError) Is(target error) bool {
	return target == ErrInvalidDate
}

// Decision is the outcome of one evaluation. It is not persisted.
type Decision struct {
	AccessGranted bool  `json:"accessGranted"`
	Label         Label `json:"label"`
	DaysPastDue   int   `json:"daysPastDue"`
}

// Evaluate decides access for c on the calendar day of today.
//
// PRE: graceDays >= 0 (negative values are treated as 0)
// POST: Returns a Decision, or *InvalidDateError when EndDate is unreadable
// INVARIANT: c is not mutated; no I/O; same inputs give the same Decision
func Evaluate(c client.Client, graceDays int, today time.Time) (Decision, error) {
	end, err := ParseDate(c.EndDate, today.Location())
	if err != nil {
		return Decision{}, &InvalidDateError{ClientID: c.ID, Value: c.EndDate}
	}
	if graceDays < 0 {
		graceDays = 0
	}

	daysPastDue := DaysPastDue(today, end)

	switch {
	case c.Status == client.StatusActive && daysPastDue <= 0:
		return Decision{AccessGranted: true, Label: LabelActiveOK, DaysPastDue: daysPastDue}, nil
	case daysPastDue > 0 && daysPastDue <= graceDays:
		return Decision{AccessGranted: true, Label: LabelGracePeriod, DaysPastDue: daysPastDue}, nil
	case daysPastDue > graceDays:
		return Decision{AccessGranted: false, Label: LabelDeniedExpired, DaysPastDue: daysPastDue}, nil
	case c.Status == client.StatusDebtor:
		return Decision{AccessGranted: false, Label: LabelDeniedDebtor, DaysPastDue: daysPastDue}, nil
	default:
		// Reached only by inactive clients whose membership has not expired.
		// Granting here matches the long-standing check-in behaviour; pending
		// product-owner confirmation before it becomes a denial.
		return Decision{AccessGranted: true, Label: LabelFallbackOK, DaysPastDue: daysPastDue}, nil
	}
}

// DaysPastDue returns how many calendar days today is after end.
// Zero or negative means the membership has not expired.
// Both instants are reduced to their calendar date before comparison, so
// the result does not depend on time of day or DST transitions.
func DaysPastDue(today, end time.Time) int {
	t := midnightUTC(today)
	e := midnightUTC(end)
	diffMs := t.Sub(e).Milliseconds()
	return int(math.Ceil(float64(diffMs) / msPerDay))
}

// ParseDate reads a calendar date. Accepts YYYY-MM-DD and RFC3339
// timestamps; timestamps are converted to loc before taking the date.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, ErrInvalidDate
	}
	if loc == nil {
		loc = time.UTC
	}
	if t, err := time.ParseInLocation(client.DateLayout, value, loc); err == nil {
		return t, nil
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

func midnightUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
