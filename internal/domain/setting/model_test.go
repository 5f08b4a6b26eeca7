package setting_test

import (
	"errors"
	"testing"

	"gymdesk/internal/domain/setting"
)

// TestParseGraceDays covers accepted and rejected grace-day values.
func TestParseGraceDays(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "5", want: 5},
		{in: " 0 ", want: 0},
		{in: "30", want: 30},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "five", wantErr: true},
		{in: "2.5", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := setting.ParseGraceDays(tt.in)
			if tt.wantErr {
				if !errors.Is(err, setting.ErrInvalidGraceDays) {
					t.Fatalf("ParseGraceDays(%q) error = %v, want ErrInvalidGraceDays", tt.in, err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseGraceDays(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
			}
		})
	}
}

// TestSetting_Validate checks that only the grace-days key has value rules.
func TestSetting_Validate(t *testing.T) {
	if err := (&setting.Setting{Key: ""}).Validate(); !errors.Is(err, setting.ErrMissingKey) {
		t.Errorf("empty key: %v", err)
	}
	if err := (&setting.Setting{Key: setting.KeyGraceDays, Value: "-2"}).Validate(); !errors.Is(err, setting.ErrInvalidGraceDays) {
		t.Errorf("negative grace: %v", err)
	}
	if err := (&setting.Setting{Key: "gym_name", Value: "anything"}).Validate(); err != nil {
		t.Errorf("free-form key: %v", err)
	}
}
