package orchestrators

import (
	"context"
	"errors"
	"log/slog"

	"gymdesk/internal/domain/setting"
)

// SettingReader reads a single system setting.
type SettingReader interface {
	Get(ctx context.Context, key string) (setting.Setting, error)
}

// SettingsGraceDays reads inactive_grace_days from the settings store on
// every call.
type SettingsGraceDays struct {
	Store SettingReader
}

// GraceDays returns the configured grace period.
// POST: A missing or unreadable value yields setting.DefaultGraceDays; store
// failures are returned
func (p SettingsGraceDays) GraceDays(ctx context.Context) (int, error) {
	s, err := p.Store.Get(ctx, setting.KeyGraceDays)
	if errors.Is(err, setting.ErrNotFound) {
		return setting.DefaultGraceDays, nil
	}
	if err != nil {
		return 0, err
	}
	n, err := setting.ParseGraceDays(s.Value)
	if err != nil {
		slog.Warn("settings_event", "event", "invalid_grace_days", "value", s.Value, "default", setting.DefaultGraceDays)
		return setting.DefaultGraceDays, nil
	}
	return n, nil
}
