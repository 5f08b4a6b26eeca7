package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	domainAttendance "gymdesk/internal/domain/attendance"
	domainPayment "gymdesk/internal/domain/payment"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// TestQueryGetMonthlyReport verifies twelve buckets, the total and formatting.
func TestQueryGetMonthlyReport(t *testing.T) {
	store := &mockPaymentStore{payments: []domainPayment.Payment{
		{ID: "p-1", Amount: 30, Date: time.Date(2025, 1, 15, 10, 0, 0, 0, time.UTC)},
		{ID: "p-2", Amount: 1200, Date: time.Date(2025, 1, 31, 10, 0, 0, 0, time.UTC)},
		{ID: "p-3", Amount: 45.5, Date: time.Date(2025, 6, 9, 10, 0, 0, 0, time.UTC)},
		{ID: "p-4", Amount: 500, Date: time.Date(2024, 12, 31, 10, 0, 0, 0, time.UTC)},
	}}
	result, err := QueryGetMonthlyReport(context.Background(), GetMonthlyReportQuery{}, GetMonthlyReportDeps{
		PaymentStore: store,
		Now:          fixedNow,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Year != 2025 {
		t.Errorf("Year = %d, want current year 2025", result.Year)
	}
	if len(result.Months) != 12 {
		t.Fatalf("expected 12 months, got %d", len(result.Months))
	}
	if jan := result.Months[0]; jan.Name != "January" || jan.Total != 1230 || jan.Formatted != "$1,230.00" {
		t.Errorf("January = %+v", jan)
	}
	if jun := result.Months[5]; jun.Total != 45.5 || jun.Formatted != "$45.50" {
		t.Errorf("June = %+v", jun)
	}
	if dec := result.Months[11]; dec.Total != 0 || dec.Formatted != "$0.00" {
		t.Errorf("December = %+v", dec)
	}
	if result.Total != 1275.5 || result.FormattedTotal != "$1,275.50" {
		t.Errorf("total = %v %q", result.Total, result.FormattedTotal)
	}
	if !store.from.Equal(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)) || !store.to.Equal(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("range = [%v, %v)", store.from, store.to)
	}
}

// TestQueryGetMonthlyReport_LocalBuckets verifies payments are bucketed in the report's zone.
func TestQueryGetMonthlyReport_LocalBuckets(t *testing.T) {
	loc := time.FixedZone("ECT", -5*60*60)
	// 03:00 UTC on Feb 1 is still Jan 31 in UTC-5.
	store := &mockPaymentStore{payments: []domainPayment.Payment{
		{ID: "p-1", Amount: 10, Date: time.Date(2025, 2, 1, 3, 0, 0, 0, time.UTC)},
	}}
	result, err := QueryGetMonthlyReport(context.Background(), GetMonthlyReportQuery{Year: 2025}, GetMonthlyReportDeps{
		PaymentStore: store,
		Now:          func() time.Time { return time.Date(2025, 6, 10, 9, 0, 0, 0, loc) },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Months[0].Total != 10 || result.Months[1].Total != 0 {
		t.Errorf("January = %v, February = %v", result.Months[0].Total, result.Months[1].Total)
	}
}

// TestQueryGetMonthlyReport_Errors verifies bad years and store failures.
func TestQueryGetMonthlyReport_Errors(t *testing.T) {
	_, err := QueryGetMonthlyReport(context.Background(), GetMonthlyReportQuery{Year: 1999}, GetMonthlyReportDeps{PaymentStore: &mockPaymentStore{}})
	if !errors.Is(err, ErrInvalidYear) {
		t.Errorf("expected ErrInvalidYear, got %v", err)
	}
	_, err = QueryGetMonthlyReport(context.Background(), GetMonthlyReportQuery{Year: 2025}, GetMonthlyReportDeps{PaymentStore: &mockPaymentStore{fail: true}})
	if !errors.Is(err, errStore) {
		t.Errorf("expected store error, got %v", err)
	}
}

// TestFormatCurrency verifies locale grouping.
func TestFormatCurrency(t *testing.T) {
	p := message.NewPrinter(language.English)
	if got := FormatCurrency(p, 1234567.891); got != "$1,234,567.89" {
		t.Errorf("FormatCurrency = %q", got)
	}
}

// TestQueryGetRecentAttendance verifies limit clamping.
func TestQueryGetRecentAttendance(t *testing.T) {
	store := &mockAttendanceStore{events: []domainAttendance.Event{
		{ID: "a-1", ClientID: "c-1", Timestamp: fixedTime},
	}}
	tests := []struct {
		limit int
		want  int
	}{
		{0, DefaultRecentAttendance},
		{10, 10},
		{100000, MaxRecentAttendance},
	}
	for _, tt := range tests {
		result, err := QueryGetRecentAttendance(context.Background(), GetRecentAttendanceQuery{Limit: tt.limit}, GetRecentAttendanceDeps{AttendanceStore: store})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if store.lastLimit != tt.want {
			t.Errorf("limit %d: store saw %d, want %d", tt.limit, store.lastLimit, tt.want)
		}
		if len(result.Entries) != 1 {
			t.Errorf("entries = %d", len(result.Entries))
		}
	}
}
