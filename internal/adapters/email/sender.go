package email

import (
	"context"
	"time"
)

// SendRequest is one outgoing reminder email.
type SendRequest struct {
	To      []string
	From    string // empty uses the sender default
	Subject string
	HTML    string
	ReplyTo string

	// ClientID and Kind identify the reminder in logs and provider tags.
	ClientID string
	Kind     string
}

// SendResult is the provider's acknowledgement of one email.
type SendResult struct {
	MessageID string
	SentAt    time.Time
}

// Sender delivers reminder emails.
type Sender interface {
	Send(ctx context.Context, req SendRequest) (SendResult, error)
	SendBatch(ctx context.Context, reqs []SendRequest) ([]SendResult, error)
}
