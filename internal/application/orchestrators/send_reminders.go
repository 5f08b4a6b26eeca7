package orchestrators

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	emailAdapter "gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/reminder"
	"gymdesk/internal/domain/setting"
)

// ClientLister pages through clients.
type ClientLister interface {
	ListAll(ctx context.Context) ([]client.Client, error)
}

// SendRemindersDeps holds dependencies for SendReminders.
type SendRemindersDeps struct {
	Clients   ClientLister
	Sender    emailAdapter.Sender
	GraceDays GraceDaysProvider // optional, defaults to setting.DefaultGraceDays
	GymName   string
	From      string
	ReplyTo   string
	Now       func() time.Time
}

// SendRemindersResult summarises one sweep.
type SendRemindersResult struct {
	Considered int
	Sent       int
	NoEmail    int
}

// ExecuteSendReminders emails every client who owes money or whose
// membership ends soon or ended within the grace period.
// PRE: Sender is configured
// POST: One email per client needing follow-up who has an address
// INVARIANT: Inactive clients are never contacted; clients without an email
// are counted, never contacted
func ExecuteSendReminders(ctx context.Context, deps SendRemindersDeps) (SendRemindersResult, error) {
	now := time.Now
	if deps.Now != nil {
		now = deps.Now
	}
	clients, err := deps.Clients.ListAll(ctx)
	if err != nil {
		return SendRemindersResult{}, fmt.Errorf("list clients: %w", err)
	}

	graceDays := setting.DefaultGraceDays
	if deps.GraceDays != nil {
		if graceDays, err = deps.GraceDays.GraceDays(ctx); err != nil {
			return SendRemindersResult{}, fmt.Errorf("read grace days: %w", err)
		}
	}

	today := now()
	var result SendRemindersResult
	var reqs []emailAdapter.SendRequest
	for _, c := range clients {
		if c.Status == client.StatusInactive {
			continue
		}
		r := reminder.Build(c, deps.GymName, today)
		if !r.DueForSweep(graceDays) {
			continue
		}
		result.Considered++
		if strings.TrimSpace(c.Email) == "" {
			result.NoEmail++
			continue
		}
		html, err := emailAdapter.RenderMarkdown(reminderMarkdown(c, r, deps.GymName))
		if err != nil {
			return result, err
		}
		reqs = append(reqs, emailAdapter.SendRequest{
			To:      []string{c.Email},
			From:    deps.From,
			Subject: reminderSubject(r, deps.GymName),
			HTML:    html,
			ReplyTo: deps.ReplyTo,

			ClientID: c.ID,
			Kind:     string(r.Kind),
		})
	}

	if len(reqs) > 0 {
		sent, err := deps.Sender.SendBatch(ctx, reqs)
		result.Sent = len(sent)
		if err != nil {
			return result, fmt.Errorf("send reminders: %w", err)
		}
	}

	slog.Info("reminder_event", "event", "reminders_sent", "considered", result.Considered, "sent", result.Sent, "no_email", result.NoEmail)
	return result, nil
}

func reminderSubject(r reminder.Reminder, gymName string) string {
	switch {
	case r.Kind == reminder.KindDebt:
		return gymName + ": outstanding balance"
	case r.DaysPastDue > 0:
		return gymName + ": your membership has ended"
	default:
		return gymName + ": your membership is ending"
	}
}

func reminderMarkdown(c client.Client, r reminder.Reminder, gymName string) string {
	var b strings.Builder
	b.WriteString(r.Text)
	b.WriteString("\n\n")
	if c.MembershipType != "" {
		fmt.Fprintf(&b, "**Plan:** %s\n", c.MembershipType)
	}
	if c.EndDate != "" {
		fmt.Fprintf(&b, "**Valid until:** %s\n", c.EndDate)
	}
	fmt.Fprintf(&b, "\n%s", gymName)
	return b.String()
}
