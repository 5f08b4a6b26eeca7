package email

import (
	"context"
	"log/slog"
	"strconv"
	"sync/atomic"
	"time"
)

// NoopSender logs reminders instead of delivering them. Used when no
// provider key is configured.
type NoopSender struct {
	seq atomic.Uint64
}

// NewNoopSender creates a NoopSender.
func NewNoopSender() *NoopSender {
	return &NoopSender{}
}

// Send logs req and reports it as delivered.
func (s *NoopSender) Send(_ context.Context, req SendRequest) (SendResult, error) {
	n := s.seq.Add(1)
	slog.Info("reminder_event", "event", "email_not_sent", "provider", "noop",
		"client_id", req.ClientID, "kind", req.Kind, "subject", req.Subject)
	return SendResult{MessageID: "noop-" + strconv.FormatUint(n, 10), SentAt: time.Now()}, nil
}

// SendBatch calls Send for each request in order.
// POST: len(results) == len(reqs)
func (s *NoopSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for _, req := range reqs {
		r, _ := s.Send(ctx, req)
		results = append(results, r)
	}
	return results, nil
}
