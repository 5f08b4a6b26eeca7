package membership_test

import (
	"testing"
	"time"

	"gymdesk/internal/domain/membership"
)

// TestMembership_Validate tests validation of Membership.
func TestMembership_Validate(t *testing.T) {
	tests := []struct {
		name    string
		m       membership.Membership
		wantErr error
	}{
		{name: "valid monthly", m: membership.Membership{Name: "Monthly", Price: 1500, DurationDays: 30}},
		{name: "free trial", m: membership.Membership{Name: "Trial", Price: 0, DurationDays: 7}},
		{name: "empty name", m: membership.Membership{Name: "  ", Price: 100, DurationDays: 30}, wantErr: membership.ErrEmptyName},
		{name: "negative price", m: membership.Membership{Name: "Bad", Price: -1, DurationDays: 30}, wantErr: membership.ErrNegativePrice},
		{name: "negative duration", m: membership.Membership{Name: "Bad", Price: 1, DurationDays: -30}, wantErr: membership.ErrNegativeDuration},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.m.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestMembership_EndDateFrom checks duration arithmetic, including the 30-day default.
func TestMembership_EndDateFrom(t *testing.T) {
	start := time.Date(2025, 1, 20, 15, 0, 0, 0, time.UTC)

	got := membership.Membership{DurationDays: 15}.EndDateFrom(start)
	if want := time.Date(2025, 2, 4, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("15 days: got %s, want %s", got, want)
	}

	got = membership.Membership{}.EndDateFrom(start)
	if want := time.Date(2025, 2, 19, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("default: got %s, want %s", got, want)
	}
}
