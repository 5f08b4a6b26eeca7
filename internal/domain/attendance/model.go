package attendance

import (
	"errors"
	"time"
)

// DateLayout is the YYYY-MM-DD layout used for day buckets.
const DateLayout = "2006-01-02"

// Domain errors
var (
	ErrEmptyClientID = errors.New("attendance must be associated with a client")
	ErrZeroTimestamp = errors.New("attendance timestamp must be set")
)

// Event records one check-in attempt and whether the door opened.
// Events are append-only: never updated or deleted individually.
type Event struct {
	ID            string
	ClientID      string
	AccessGranted bool
	Timestamp     time.Time
}

// Validate checks if the Event has valid data.
// PRE: Event struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: ClientID must not be empty, Timestamp must be set
func (e *Event) Validate() error {
	if e.ClientID == "" {
		return ErrEmptyClientID
	}
	if e.Timestamp.IsZero() {
		return ErrZeroTimestamp
	}
	return nil
}

// Day returns the calendar day the event falls on, in the event's location.
func (e Event) Day() string {
	return e.Timestamp.Format(DateLayout)
}

// DailyCount is the number of check-ins on one calendar day.
type DailyCount struct {
	Date  string // YYYY-MM-DD
	Count int
}

// LastNDays returns n consecutive day buckets ending on today, oldest first,
// filled from counts. Days absent from counts are zero.
// PRE: n > 0
// POST: len(result) == n
func LastNDays(counts map[string]int, today time.Time, n int) []DailyCount {
	out := make([]DailyCount, n)
	y, m, d := today.Date()
	for i := 0; i < n; i++ {
		day := time.Date(y, m, d-(n-1-i), 0, 0, 0, 0, today.Location()).Format(DateLayout)
		out[i] = DailyCount{Date: day, Count: counts[day]}
	}
	return out
}
