package orchestrators

import (
	"context"
	"log/slog"
	"strings"

	"gymdesk/internal/domain/setting"
)

// SettingStore persists system settings.
type SettingStore interface {
	Save(ctx context.Context, s setting.Setting) error
}

// SaveSettingDeps holds dependencies for SaveSetting.
type SaveSettingDeps struct {
	SettingStore SettingStore
}

// ExecuteSaveSetting validates and upserts a setting.
// PRE: Key non-empty
// POST: Setting persisted; grace days are rejected unless a non-negative integer
func ExecuteSaveSetting(ctx context.Context, input setting.Setting, deps SaveSettingDeps) (setting.Setting, error) {
	s := setting.Setting{Key: strings.TrimSpace(input.Key), Value: strings.TrimSpace(input.Value)}
	if err := s.Validate(); err != nil {
		return setting.Setting{}, err
	}
	if err := deps.SettingStore.Save(ctx, s); err != nil {
		return setting.Setting{}, err
	}
	slog.Info("settings_event", "event", "setting_saved", "key", s.Key, "value", s.Value)
	return s, nil
}
