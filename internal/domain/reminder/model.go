// Package reminder builds the follow-up message staff send to clients who
// owe money or whose membership is about to run out.
package reminder

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/client"
)

// ExpiringWindowDays is how close to EndDate a client gets a renewal nudge.
const ExpiringWindowDays = 3

// Kind classifies the reminder text.
type Kind string

const (
	KindDebt     Kind = "debt"
	KindExpiring Kind = "expiring"
	KindGeneral  Kind = "general"
)

// Reminder is a rendered message for one client.
type Reminder struct {
	ClientID string
	Kind     Kind
	Text     string
	// DaysPastDue is meaningful only when HasEndDate is set.
	DaysPastDue int
	HasEndDate  bool
}

// Build picks the reminder for c on today.
// PRE: gymName is non-empty
// POST: Debtors get a balance reminder; memberships ending within
// ExpiringWindowDays (or already ended) get a renewal reminder; otherwise a greeting
func Build(c client.Client, gymName string, today time.Time) Reminder {
	r := Reminder{ClientID: c.ID, Kind: KindGeneral}
	if end, err := access.ParseDate(c.EndDate, today.Location()); err == nil {
		r.HasEndDate = true
		r.DaysPastDue = access.DaysPastDue(today, end)
	}

	text := fmt.Sprintf("Hi %s, this is %s.", c.FirstName, gymName)
	switch {
	case c.IsDebtor():
		r.Kind = KindDebt
		text += fmt.Sprintf(" A friendly reminder that you have an outstanding balance of $%s. Please settle it at your earliest convenience.", formatAmount(c.Debt))
	case r.HasEndDate && r.DaysPastDue >= -ExpiringWindowDays:
		r.Kind = KindExpiring
		text += fmt.Sprintf(" A friendly reminder that your membership ends on %s. We look forward to seeing you renew!", c.EndDate)
	default:
		text += " How can we help you today?"
	}
	r.Text = text
	return r
}

// NeedsFollowUp reports whether a reminder is worth sending unprompted.
func (r Reminder) NeedsFollowUp() bool {
	return r.Kind == KindDebt || r.Kind == KindExpiring
}

// DueForSweep reports whether the unattended sweep should email r.
// POST: Debt reminders are always due; expiry reminders only from
// ExpiringWindowDays before the end date until graceDays after it
func (r Reminder) DueForSweep(graceDays int) bool {
	switch r.Kind {
	case KindDebt:
		return true
	case KindExpiring:
		return r.HasEndDate && r.DaysPastDue >= -ExpiringWindowDays && r.DaysPastDue <= graceDays
	default:
		return false
	}
}

// NormalizePhone reduces a phone number to digits with countryCode prefixed.
// A local mobile number written with a leading 0 (e.g. 099123456) drops the
// 0 before the country code is added.
func NormalizePhone(phone, countryCode string) string {
	var b strings.Builder
	for _, r := range phone {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if digits == "" || countryCode == "" || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	if strings.HasPrefix(digits, "09") {
		return countryCode + digits[1:]
	}
	return countryCode + digits
}

// WhatsAppURL returns the click-to-chat link for the reminder.
func WhatsAppURL(phone, countryCode, text string) string {
	q := url.Values{}
	q.Set("phone", NormalizePhone(phone, countryCode))
	q.Set("text", text)
	return "https://api.whatsapp.com/send?" + q.Encode()
}

func formatAmount(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}
