// Package announce delivers check-in announcements to the kiosk.
package announce

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"gymdesk/internal/domain/kiosk"
)

// DefaultFeedSize is how many announcements a Feed keeps.
const DefaultFeedSize = 20

// Announcer delivers a line of text to whoever is at the door.
type Announcer interface {
	Announce(ctx context.Context, text string) error
}

// Log writes announcements to the structured log. It never fails.
type Log struct{}

// Announce logs text as a kiosk event.
func (Log) Announce(_ context.Context, text string) error {
	slog.Info("kiosk_event", "event", "announcement", "text", text)
	return nil
}

// Feed keeps the most recent announcements in memory for the kiosk page to poll.
// Safe for concurrent use.
type Feed struct {
	mu   sync.Mutex
	buf  []kiosk.Announcement
	size int
	seq  uint64
	now  func() time.Time
}

// NewFeed creates a Feed holding at most size announcements.
// PRE: none (size <= 0 uses DefaultFeedSize)
// POST: Returns an empty Feed
func NewFeed(size int) *Feed {
	if size <= 0 {
		size = DefaultFeedSize
	}
	return &Feed{size: size, now: time.Now}
}

// Announce appends text to the feed, dropping the oldest entry when full.
// PRE: text is non-empty
// POST: The announcement has the next sequence number
func (f *Feed) Announce(_ context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	a := kiosk.Announcement{Seq: f.seq + 1, Text: text, At: f.now()}
	if err := a.Validate(); err != nil {
		return err
	}
	f.seq = a.Seq
	if len(f.buf) == f.size {
		copy(f.buf, f.buf[1:])
		f.buf = f.buf[:f.size-1]
	}
	f.buf = append(f.buf, a)
	return nil
}

// Since returns announcements with a sequence number greater than seq, oldest first.
func (f *Feed) Since(seq uint64) []kiosk.Announcement {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []kiosk.Announcement
	for _, a := range f.buf {
		if a.Seq > seq {
			out = append(out, a)
		}
	}
	return out
}

// Latest returns the newest announcement, if any.
func (f *Feed) Latest() (kiosk.Announcement, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.buf) == 0 {
		return kiosk.Announcement{}, false
	}
	return f.buf[len(f.buf)-1], true
}

// Multi fans an announcement out to every announcer and joins their errors.
type Multi []Announcer

// Announce delivers text to each announcer in order.
func (m Multi) Announce(ctx context.Context, text string) error {
	var errs []error
	for _, a := range m {
		if err := a.Announce(ctx, text); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
