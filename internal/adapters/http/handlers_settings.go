package web

import (
	"net/http"
	"strconv"

	"gymdesk/internal/application/orchestrators"
	"gymdesk/internal/domain/setting"
)

type settingJSON struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

type settingRequest struct {
	Value string `json:"value"`
}

// handleListSettings handles GET /api/settings.
// Grace days is always listed; the default is shown until one is saved.
func (a *app) handleListSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := a.stores.SettingStore.List(r.Context())
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]settingJSON, 0, len(settings)+1)
	hasGrace := false
	for _, s := range settings {
		if s.Key == setting.KeyGraceDays {
			hasGrace = true
		}
		out = append(out, settingJSON{Key: s.Key, Value: s.Value})
	}
	if !hasGrace {
		grace, err := a.graceDays.GraceDays(r.Context())
		if err != nil {
			internalError(w, err)
			return
		}
		out = append(out, settingJSON{Key: setting.KeyGraceDays, Value: strconv.Itoa(grace)})
	}
	writeJSON(w, http.StatusOK, out)
}

// handleSaveSetting handles PUT /api/settings/{key}
func (a *app) handleSaveSetting(w http.ResponseWriter, r *http.Request) {
	var req settingRequest
	if err := strictDecode(w, r, &req); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}
	s, err := orchestrators.ExecuteSaveSetting(r.Context(),
		setting.Setting{Key: r.PathValue("key"), Value: req.Value},
		orchestrators.SaveSettingDeps{SettingStore: a.stores.SettingStore})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settingJSON{Key: s.Key, Value: s.Value})
}
