package email

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/resend/resend-go/v2"
)

// resendBatchLimit is the most emails Resend accepts in one batch call.
const resendBatchLimit = 100

// ResendSender delivers reminders through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates a sender using apiKey, with from as the default sender address.
// PRE: apiKey is a valid Resend API key
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// params maps req to the provider request, tagging it with the reminder kind.
func (s *ResendSender) params(req SendRequest) *resend.SendEmailRequest {
	p := &resend.SendEmailRequest{
		From:    req.From,
		To:      req.To,
		Subject: req.Subject,
		Html:    req.HTML,
		ReplyTo: req.ReplyTo,
	}
	if p.From == "" {
		p.From = s.from
	}
	if req.Kind != "" {
		p.Tags = []resend.Tag{{Name: "reminder_kind", Value: req.Kind}}
	}
	return p
}

// Send delivers one email.
// POST: The email is queued with Resend; MessageID is Resend's id
func (s *ResendSender) Send(ctx context.Context, req SendRequest) (SendResult, error) {
	sent, err := s.client.Emails.SendWithContext(ctx, s.params(req))
	if err != nil {
		slog.Error("reminder_event", "event", "email_failed", "provider", "resend", "client_id", req.ClientID, "error", err)
		return SendResult{}, fmt.Errorf("resend send to client %s: %w", req.ClientID, err)
	}
	slog.Info("reminder_event", "event", "email_sent", "provider", "resend", "client_id", req.ClientID, "message_id", sent.Id)
	return SendResult{MessageID: sent.Id, SentAt: time.Now()}, nil
}

// SendBatch delivers reqs in chunks of resendBatchLimit.
// POST: Results are in request order; on error, results cover the chunks already sent
func (s *ResendSender) SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error) {
	results := make([]SendResult, 0, len(reqs))
	for chunk := range slices.Chunk(reqs, resendBatchLimit) {
		batch := make([]*resend.SendEmailRequest, 0, len(chunk))
		for _, req := range chunk {
			batch = append(batch, s.params(req))
		}
		resp, err := s.client.Batch.SendWithContext(ctx, batch)
		if err != nil {
			slog.Error("reminder_event", "event", "email_batch_failed", "provider", "resend", "size", len(chunk), "error", err)
			return results, fmt.Errorf("resend batch of %d: %w", len(chunk), err)
		}
		now := time.Now()
		for _, item := range resp.Data {
			results = append(results, SendResult{MessageID: item.Id, SentAt: now})
		}
		slog.Info("reminder_event", "event", "email_batch_sent", "provider", "resend", "size", len(chunk))
	}
	return results, nil
}
