package access

import "fmt"

// Badge keys shown on the client list and detail views.
const (
	BadgeActive  = "active"
	BadgeGrace   = "grace"
	BadgeExpired = "expired"
	BadgeDebtor  = "debtor"
	BadgeReview  = "review"
	BadgeUnknown = "unknown"
)

// IsGracePeriod returns true when entry was granted only because of the
// grace period.
func (d Decision) IsGracePeriod() bool {
	return d.Label == LabelGracePeriod
}

// Badge maps the decision to the computed status badge, which may differ
// from the client's stored status.
func (d Decision) Badge() string {
	switch d.Label {
	case LabelActiveOK:
		return BadgeActive
	case LabelGracePeriod:
		return BadgeGrace
	case LabelDeniedExpired:
		return BadgeExpired
	case LabelDeniedDebtor:
		return BadgeDebtor
	case LabelFallbackOK:
		return BadgeReview
	default:
		return BadgeUnknown
	}
}

// Message is the operator-facing status line.
func (d Decision) Message() string {
	switch d.Label {
	case LabelActiveOK, LabelFallbackOK:
		return "Welcome"
	case LabelGracePeriod:
		return fmt.Sprintf("GRACE PERIOD (expired %s ago)", days(d.DaysPastDue))
	case LabelDeniedExpired:
		return fmt.Sprintf("EXPIRED (%s ago)", days(d.DaysPastDue))
	case LabelDeniedDebtor:
		return "REGISTERED DEBTOR"
	default:
		return string(d.Label)
	}
}

// Announcement is the text spoken at the kiosk.
func (d Decision) Announcement(firstName string) string {
	switch d.Label {
	case LabelActiveOK, LabelFallbackOK:
		return fmt.Sprintf("Welcome, %s", firstName)
	case LabelGracePeriod:
		return fmt.Sprintf("Attention %s, your membership has expired. Please renew.", firstName)
	case LabelDeniedExpired:
		return "Access denied. Membership expired."
	case LabelDeniedDebtor:
		return "Access denied. Please settle your balance."
	default:
		return ""
	}
}

func days(n int) string {
	if n == 1 {
		return "1 day"
	}
	return fmt.Sprintf("%d days", n)
}
