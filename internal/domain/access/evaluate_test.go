package access_test

import (
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/access"
	"gymdesk/internal/domain/client"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

// TestEvaluate_Scenarios covers the reference scenarios with graceDays=5 and today=2025-06-10.
func TestEvaluate_Scenarios(t *testing.T) {
	today := day("2025-06-10")
	const grace = 5

	tests := []struct {
		name        string
		status      string
		endDate     string
		wantGranted bool
		wantLabel   access.Label
		wantDays    int
	}{
		{name: "A active expires tomorrow", status: client.StatusActive, endDate: "2025-06-11", wantGranted: true, wantLabel: access.LabelActiveOK, wantDays: -1},
		{name: "B active expired yesterday", status: client.StatusActive, endDate: "2025-06-09", wantGranted: true, wantLabel: access.LabelGracePeriod, wantDays: 1},
		{name: "C last day of grace", status: client.StatusActive, endDate: "2025-06-05", wantGranted: true, wantLabel: access.LabelGracePeriod, wantDays: 5},
		{name: "D one day past grace", status: client.StatusActive, endDate: "2025-06-04", wantGranted: false, wantLabel: access.LabelDeniedExpired, wantDays: 6},
		{name: "E debtor not expired", status: client.StatusDebtor, endDate: "2025-06-11", wantGranted: false, wantLabel: access.LabelDeniedDebtor, wantDays: -1},
		{name: "active expires today", status: client.StatusActive, endDate: "2025-06-10", wantGranted: true, wantLabel: access.LabelActiveOK, wantDays: 0},
		{name: "debtor within grace", status: client.StatusDebtor, endDate: "2025-06-08", wantGranted: true, wantLabel: access.LabelGracePeriod, wantDays: 2},
		{name: "debtor past grace", status: client.StatusDebtor, endDate: "2025-05-01", wantGranted: false, wantLabel: access.LabelDeniedExpired, wantDays: 40},
		{name: "inactive past grace", status: client.StatusInactive, endDate: "2025-06-01", wantGranted: false, wantLabel: access.LabelDeniedExpired, wantDays: 9},
		{name: "debtor expires today", status: client.StatusDebtor, endDate: "2025-06-10", wantGranted: false, wantLabel: access.LabelDeniedDebtor, wantDays: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := client.Client{ID: "c-1", Status: tt.status, EndDate: tt.endDate}
			got, err := access.Evaluate(c, grace, today)
			if err != nil {
				t.Fatalf("Evaluate() unexpected error: %v", err)
			}
			if got.AccessGranted != tt.wantGranted {
				t.Errorf("AccessGranted = %v, want %v", got.AccessGranted, tt.wantGranted)
			}
			if got.Label != tt.wantLabel {
				t.Errorf("Label = %s, want %s", got.Label, tt.wantLabel)
			}
			if got.DaysPastDue != tt.wantDays {
				t.Errorf("DaysPastDue = %d, want %d", got.DaysPastDue, tt.wantDays)
			}
		})
	}
}

// TestEvaluate_InactiveNotExpiredFallsBackToGranted pins the current
// behaviour for inactive clients with a valid membership. Awaiting
// product-owner confirmation on whether this should deny instead.
func TestEvaluate_InactiveNotExpiredFallsBackToGranted(t *testing.T) {
	c := client.Client{ID: "c-1", Status: client.StatusInactive, EndDate: "2025-07-01"}
	got, err := access.Evaluate(c, 5, day("2025-06-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got.AccessGranted || got.Label != access.LabelFallbackOK {
		t.Errorf("got %+v, want granted FALLBACK_OK", got)
	}
}

// TestEvaluate_GraceBoundary checks that graceDays past due is granted and graceDays+1 is denied.
func TestEvaluate_GraceBoundary(t *testing.T) {
	today := day("2025-03-31")
	for _, grace := range []int{0, 1, 5, 30} {
		atBoundary := today.AddDate(0, 0, -grace).Format(client.DateLayout)
		pastBoundary := today.AddDate(0, 0, -(grace + 1)).Format(client.DateLayout)

		got, err := access.Evaluate(client.Client{Status: client.StatusActive, EndDate: atBoundary}, grace, today)
		if err != nil {
			t.Fatalf("grace=%d: unexpected error: %v", grace, err)
		}
		if !got.AccessGranted {
			t.Errorf("grace=%d: daysPastDue=%d should be granted, got %+v", grace, grace, got)
		}

		got, err = access.Evaluate(client.Client{Status: client.StatusActive, EndDate: pastBoundary}, grace, today)
		if err != nil {
			t.Fatalf("grace=%d: unexpected error: %v", grace, err)
		}
		if got.AccessGranted || got.Label != access.LabelDeniedExpired {
			t.Errorf("grace=%d: daysPastDue=%d should be DENIED_EXPIRED, got %+v", grace, grace+1, got)
		}
		if got.DaysPastDue != grace+1 {
			t.Errorf("grace=%d: DaysPastDue = %d, want %d", grace, got.DaysPastDue, grace+1)
		}
	}
}

// TestEvaluate_ZeroGraceDeniesDayAfterExpiry checks a gym configured with no grace period.
func TestEvaluate_ZeroGraceDeniesDayAfterExpiry(t *testing.T) {
	got, err := access.Evaluate(client.Client{Status: client.StatusActive, EndDate: "2025-06-09"}, 0, day("2025-06-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.AccessGranted || got.Label != access.LabelDeniedExpired || got.DaysPastDue != 1 {
		t.Errorf("got %+v, want denied expired 1 day", got)
	}
}

// TestEvaluate_NegativeGraceTreatedAsZero guards against a bad setting widening access.
func TestEvaluate_NegativeGraceTreatedAsZero(t *testing.T) {
	got, err := access.Evaluate(client.Client{Status: client.StatusActive, EndDate: "2025-06-09"}, -3, day("2025-06-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Label != access.LabelDeniedExpired {
		t.Errorf("Label = %s, want DENIED_EXPIRED", got.Label)
	}
}

// TestEvaluate_TimeOfDayIgnored checks that decisions are per calendar day.
func TestEvaluate_TimeOfDayIgnored(t *testing.T) {
	c := client.Client{Status: client.StatusActive, EndDate: "2025-06-10"}
	early := time.Date(2025, 6, 10, 0, 0, 1, 0, time.UTC)
	late := time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)

	for _, now := range []time.Time{early, late} {
		got, err := access.Evaluate(c, 5, now)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.Label != access.LabelActiveOK || got.DaysPastDue != 0 {
			t.Errorf("at %s: got %+v, want ACTIVE_OK with 0 days", now, got)
		}
	}
}

// TestEvaluate_LocalZoneAcrossDST checks day counting stays exact across a DST change.
func TestEvaluate_LocalZoneAcrossDST(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// DST started 2025-03-09 in New York.
	today := time.Date(2025, 3, 12, 9, 30, 0, 0, loc)
	got, err := access.Evaluate(client.Client{Status: client.StatusActive, EndDate: "2025-03-07"}, 5, today)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DaysPastDue != 5 || got.Label != access.LabelGracePeriod {
		t.Errorf("got %+v, want GRACE_PERIOD with 5 days", got)
	}
}

// TestEvaluate_TimestampEndDate accepts RFC3339 end dates stored by older imports.
func TestEvaluate_TimestampEndDate(t *testing.T) {
	c := client.Client{Status: client.StatusActive, EndDate: "2025-06-09T18:45:00Z"}
	got, err := access.Evaluate(c, 5, day("2025-06-10"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.DaysPastDue != 1 || got.Label != access.LabelGracePeriod {
		t.Errorf("got %+v, want GRACE_PERIOD with 1 day", got)
	}
}

// TestEvaluate_Idempotent checks identical inputs give identical output and the client is untouched.
func TestEvaluate_Idempotent(t *testing.T) {
	c := client.Client{ID: "c-9", Status: client.StatusDebtor, EndDate: "2025-06-08", Debt: 120}
	before := c
	today := day("2025-06-10")

	first, err1 := access.Evaluate(c, 5, today)
	second, err2 := access.Evaluate(c, 5, today)
	if err1 != nil || err2 != nil {
		t.Fatalf("unexpected errors: %v, %v", err1, err2)
	}
	if first != second {
		t.Errorf("first = %+v, second = %+v", first, second)
	}
	if c != before {
		t.Errorf("client mutated: %+v", c)
	}
}

// TestEvaluate_InvalidEndDate covers scenario F and other unreadable dates.
func TestEvaluate_InvalidEndDate(t *testing.T) {
	for _, v := range []string{"", "   ", "not-a-date", "2025-13-01", "10/06/2025"} {
		t.Run(v, func(t *testing.T) {
			got, err := access.Evaluate(client.Client{ID: "c-bad", Status: client.StatusActive, EndDate: v}, 5, day("2025-06-10"))
			if err == nil {
				t.Fatalf("expected error, got decision %+v", got)
			}
			if !errors.Is(err, access.ErrInvalidDate) {
				t.Errorf("errors.Is(err, ErrInvalidDate) = false for %v", err)
			}
			var dateErr *access.InvalidDateError
			if !errors.As(err, &dateErr) {
				t.Fatalf("expected *InvalidDateError, got %T", err)
			}
			if dateErr.ClientID != "c-bad" || dateErr.Value != v {
				t.Errorf("dateErr = %+v", dateErr)
			}
			if got != (access.Decision{}) {
				t.Errorf("expected zero decision, got %+v", got)
			}
		})
	}
}

// TestDecision_Presentation checks badge and message text derived from each label.
func TestDecision_Presentation(t *testing.T) {
	tests := []struct {
		decision     access.Decision
		badge        string
		message      string
		announcement string
	}{
		{access.Decision{AccessGranted: true, Label: access.LabelActiveOK, DaysPastDue: -3}, access.BadgeActive, "Welcome", "Welcome, Ana"},
		{access.Decision{AccessGranted: true, Label: access.LabelGracePeriod, DaysPastDue: 1}, access.BadgeGrace, "GRACE PERIOD (expired 1 day ago)", "Attention Ana, your membership has expired. Please renew."},
		{access.Decision{AccessGranted: false, Label: access.LabelDeniedExpired, DaysPastDue: 9}, access.BadgeExpired, "EXPIRED (9 days ago)", "Access denied. Membership expired."},
		{access.Decision{AccessGranted: false, Label: access.LabelDeniedDebtor}, access.BadgeDebtor, "REGISTERED DEBTOR", "Access denied. Please settle your balance."},
		{access.Decision{AccessGranted: true, Label: access.LabelFallbackOK}, access.BadgeReview, "Welcome", "Welcome, Ana"},
	}
	for _, tt := range tests {
		t.Run(string(tt.decision.Label), func(t *testing.T) {
			if got := tt.decision.Badge(); got != tt.badge {
				t.Errorf("Badge() = %q, want %q", got, tt.badge)
			}
			if got := tt.decision.Message(); got != tt.message {
				t.Errorf("Message() = %q, want %q", got, tt.message)
			}
			if got := tt.decision.Announcement("Ana"); got != tt.announcement {
				t.Errorf("Announcement() = %q, want %q", got, tt.announcement)
			}
		})
	}
}
