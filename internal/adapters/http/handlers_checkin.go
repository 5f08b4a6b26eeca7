package web

import (
	"embed"
	"errors"
	"html/template"
	"net/http"
	"strconv"
	"strings"
	"time"

	"gymdesk/internal/application/orchestrators"
)

//go:embed templates/*.html
var templatesFS embed.FS

var kioskTemplate = template.Must(template.ParseFS(templatesFS, "templates/kiosk.html"))

// labelNotFound is the operator decision label for an unknown identifier.
const labelNotFound = "NOT_FOUND"

type checkInRequest struct {
	Identifier string `json:"identifier"`
}

// checkInResponse is the decision shown to the operator and on the kiosk.
type checkInResponse struct {
	AccessGranted bool       `json:"accessGranted"`
	Label         string     `json:"label"`
	DaysPastDue   int        `json:"daysPastDue"`
	Message       string     `json:"message"`
	Announcement  string     `json:"announcement"`
	Badge         string     `json:"badge,omitempty"`
	ClientID      string     `json:"clientId,omitempty"`
	ClientName    string     `json:"clientName,omitempty"`
	MatchedBy     string     `json:"matchedBy,omitempty"`
	AttendanceID  string     `json:"attendanceId,omitempty"`
	Timestamp     *time.Time `json:"timestamp,omitempty"`
}

// handleCheckIn handles POST /api/checkin.
// Accepts JSON {"identifier": "..."} or a form field named identifier.
func (a *app) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var input checkInRequest
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			badRequest(w, r, "invalid form submission")
			return
		}
		input.Identifier = r.FormValue("identifier")
	} else if err := strictDecode(w, r, &input); err != nil {
		badRequest(w, r, "invalid request body")
		return
	}

	deps := orchestrators.CheckInDeps{
		ClientStore:     a.stores.ClientStore,
		AttendanceStore: a.stores.AttendanceStore,
		GraceDays:       a.graceDays,
		Announcer:       a.announcer,
		GenerateID:      a.generateID,
		Now:             a.now,
	}
	result, err := orchestrators.ExecuteCheckIn(r.Context(), orchestrators.CheckInInput{Identifier: input.Identifier}, deps)
	if errors.Is(err, orchestrators.ErrClientNotFound) {
		writeJSON(w, http.StatusNotFound, checkInResponse{
			Label:        labelNotFound,
			Message:      orchestrators.NotFoundAnnouncement,
			Announcement: orchestrators.NotFoundAnnouncement,
		})
		return
	}
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	ts := result.Event.Timestamp
	writeJSON(w, http.StatusOK, checkInResponse{
		AccessGranted: result.Decision.AccessGranted,
		Label:         string(result.Decision.Label),
		DaysPastDue:   result.Decision.DaysPastDue,
		Message:       result.Decision.Message(),
		Announcement:  result.Announcement,
		Badge:         result.Decision.Badge(),
		ClientID:      result.Client.ID,
		ClientName:    result.Client.FullName(),
		MatchedBy:     result.MatchedBy,
		AttendanceID:  result.Event.ID,
		Timestamp:     &ts,
	})
}

// kioskPageData feeds the kiosk template. The page only posts JSON, which
// the CSRF middleware exempts, so it carries no token.
type kioskPageData struct {
	GymName string
}

// handleKioskPage handles GET /kiosk, the standalone check-in screen.
func (a *app) handleKioskPage(w http.ResponseWriter, r *http.Request) {
	data := kioskPageData{GymName: a.opts.GymName}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := kioskTemplate.Execute(w, data); err != nil {
		internalError(w, err)
	}
}

type announcementJSON struct {
	Seq  uint64    `json:"seq"`
	Text string    `json:"text"`
	At   time.Time `json:"at"`
}

type announcementsResponse struct {
	Announcements []announcementJSON `json:"announcements"`
	Latest        uint64             `json:"latest"`
}

// handleKioskAnnouncements handles GET /api/kiosk/announcements?since=N.
// The kiosk polls it and speaks every announcement newer than since.
func (a *app) handleKioskAnnouncements(w http.ResponseWriter, r *http.Request) {
	var since uint64
	if v := r.URL.Query().Get("since"); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			badRequest(w, r, "since must be a non-negative integer")
			return
		}
		since = n
	}

	resp := announcementsResponse{Announcements: []announcementJSON{}, Latest: since}
	for _, ann := range a.feed.Since(since) {
		resp.Announcements = append(resp.Announcements, announcementJSON{Seq: ann.Seq, Text: ann.Text, At: ann.At})
	}
	if latest, ok := a.feed.Latest(); ok && latest.Seq > resp.Latest {
		resp.Latest = latest.Seq
	}
	writeJSON(w, http.StatusOK, resp)
}
