package kiosk

import (
	"errors"
	"strings"
	"time"
)

// MaxAnnouncementLength bounds the text shown and spoken at the kiosk.
const MaxAnnouncementLength = 200

// Domain errors
var (
	ErrEmptyText   = errors.New("announcement text cannot be empty")
	ErrTextTooLong = errors.New("announcement text cannot exceed 200 characters")
	ErrZeroTime    = errors.New("announcement time must be set")
)

// Announcement is one message delivered at the check-in kiosk.
// The kiosk screen shows the newest announcements; a speaker may read them aloud.
type Announcement struct {
	Seq  uint64
	Text string
	At   time.Time
}

// Validate checks if the Announcement has valid data.
// PRE: Announcement struct is populated
// POST: Returns nil if valid, error otherwise
func (a *Announcement) Validate() error {
	if strings.TrimSpace(a.Text) == "" {
		return ErrEmptyText
	}
	if len(a.Text) > MaxAnnouncementLength {
		return ErrTextTooLong
	}
	if a.At.IsZero() {
		return ErrZeroTime
	}
	return nil
}

// IsStale reports whether the announcement is older than ttl at now.
// INVARIANT: Announcement fields are not mutated
func (a Announcement) IsStale(now time.Time, ttl time.Duration) bool {
	return now.Sub(a.At) > ttl
}
