package web

import (
	"context"
	"net/http"
	"time"

	"gymdesk/internal/adapters/announce"
	"gymdesk/internal/adapters/http/middleware"
	"gymdesk/internal/adapters/http/perf"
	attendanceStore "gymdesk/internal/adapters/storage/attendance"
	clientStore "gymdesk/internal/adapters/storage/client"
	exerciseStore "gymdesk/internal/adapters/storage/exercise"
	membershipStore "gymdesk/internal/adapters/storage/membership"
	paymentStore "gymdesk/internal/adapters/storage/payment"
	settingStore "gymdesk/internal/adapters/storage/setting"
	workoutStore "gymdesk/internal/adapters/storage/workout"
	"gymdesk/internal/application/orchestrators"

	"github.com/google/uuid"
)

// Stores holds all storage dependencies.
type Stores struct {
	ClientStore     clientStore.Store
	MembershipStore membershipStore.Store
	PaymentStore    paymentStore.Store
	AttendanceStore attendanceStore.Store
	SettingStore    settingStore.Store
	ExerciseStore   exerciseStore.Store
	WorkoutStore    workoutStore.Store
}

// Options configures the handler tree. Zero values disable the optional parts.
type Options struct {
	Collector        *perf.Collector         // nil disables request timing records and /api/perf data
	Feed             *announce.Feed          // kiosk announcement feed; nil creates one
	Announcer        announce.Announcer      // extra announcer besides Feed, e.g. announce.Log
	CSRFKey          []byte                  // 32 bytes; nil disables CSRF protection
	SecureCookies    bool                    // CSRF cookie Secure flag
	TrustedOrigins   []string                // CSRF trusted origins
	RateLimiter      *middleware.RateLimiter // nil disables rate limiting
	SlowRequestMs    int
	GymName          string
	PhoneCountryCode string
	Ping             func(ctx context.Context) error // optional readiness check for /healthz
	Now              func() time.Time
	GenerateID       func() string
}

// app carries the dependencies every handler shares.
type app struct {
	stores    *Stores
	opts      Options
	feed      *announce.Feed
	announcer announce.Announcer
	graceDays orchestrators.SettingsGraceDays
}

func (a *app) now() time.Time {
	if a.opts.Now != nil {
		return a.opts.Now()
	}
	return time.Now()
}

func (a *app) generateID() string {
	if a.opts.GenerateID != nil {
		return a.opts.GenerateID()
	}
	return uuid.New().String()
}

// NewMux wires HTTP handlers for the app.
// PRE: s has every store set
// POST: Returns the handler wrapped in the middleware chain; CSRF and rate
// limiting only when configured
func NewMux(s *Stores, opts Options) http.Handler {
	a := &app{
		stores:    s,
		opts:      opts,
		feed:      opts.Feed,
		graceDays: orchestrators.SettingsGraceDays{Store: s.SettingStore},
	}
	if a.feed == nil {
		a.feed = announce.NewFeed(announce.DefaultFeedSize)
	}
	a.announcer = a.feed
	if opts.Announcer != nil {
		a.announcer = announce.Multi{a.feed, opts.Announcer}
	}
	if a.opts.GymName == "" {
		a.opts.GymName = "Gym"
	}

	mux := http.NewServeMux()
	registerRoutes(mux, a)

	// Chain wraps inside out. Timing sits directly outside Recover so it
	// sees the mux-set r.Pattern and the 500 written for a panic.
	mws := []func(http.Handler) http.Handler{
		middleware.Recover,
		middleware.Timing(opts.Collector, opts.SlowRequestMs),
	}
	if opts.CSRFKey != nil {
		mws = append(mws, middleware.CSRF(opts.CSRFKey, opts.SecureCookies, opts.TrustedOrigins))
	}
	if opts.RateLimiter != nil {
		mws = append(mws, middleware.RateLimit(opts.RateLimiter))
	}
	mws = append(mws, middleware.SecurityHeaders)
	return middleware.Chain(mux, mws...)
}

func registerRoutes(mux *http.ServeMux, a *app) {
	mux.HandleFunc("GET /healthz", a.handleHealthz)

	mux.HandleFunc("GET /kiosk", a.handleKioskPage)
	mux.HandleFunc("GET /api/kiosk/announcements", a.handleKioskAnnouncements)
	mux.HandleFunc("POST /api/checkin", a.handleCheckIn)

	mux.HandleFunc("GET /api/clients", a.handleListClients)
	mux.HandleFunc("POST /api/clients", a.handleRegisterClient)
	mux.HandleFunc("GET /api/clients/{id}", a.handleGetClient)
	mux.HandleFunc("PUT /api/clients/{id}", a.handleUpdateClient)
	mux.HandleFunc("DELETE /api/clients/{id}", a.handleDeleteClient)
	mux.HandleFunc("PUT /api/clients/{id}/status", a.handleSetClientStatus)
	mux.HandleFunc("POST /api/clients/{id}/renew", a.handleRenewMembership)
	mux.HandleFunc("GET /api/clients/{id}/reminder", a.handleClientReminder)
	mux.HandleFunc("PUT /api/clients/{id}/plan", a.handleAssignWorkoutPlan)

	mux.HandleFunc("GET /api/memberships", a.handleListMemberships)
	mux.HandleFunc("POST /api/memberships", a.handleCreateMembership)
	mux.HandleFunc("PUT /api/memberships/{id}", a.handleUpdateMembership)
	mux.HandleFunc("DELETE /api/memberships/{id}", a.handleDeleteMembership)

	mux.HandleFunc("GET /api/exercises", a.handleListExercises)
	mux.HandleFunc("POST /api/exercises", a.handleCreateExercise)
	mux.HandleFunc("PUT /api/exercises/{id}", a.handleUpdateExercise)
	mux.HandleFunc("DELETE /api/exercises/{id}", a.handleDeleteExercise)

	mux.HandleFunc("GET /api/workouts", a.handleListWorkouts)
	mux.HandleFunc("POST /api/workouts", a.handleCreateWorkout)
	mux.HandleFunc("GET /api/workouts/{id}", a.handleGetWorkout)
	mux.HandleFunc("PUT /api/workouts/{id}", a.handleUpdateWorkout)
	mux.HandleFunc("DELETE /api/workouts/{id}", a.handleDeleteWorkout)

	mux.HandleFunc("GET /api/settings", a.handleListSettings)
	mux.HandleFunc("PUT /api/settings/{key}", a.handleSaveSetting)

	mux.HandleFunc("GET /api/dashboard", a.handleDashboard)
	mux.HandleFunc("GET /api/reports/monthly", a.handleMonthlyReport)
	mux.HandleFunc("GET /api/attendance", a.handleRecentAttendance)
	mux.HandleFunc("GET /api/export", a.handleExport)
	mux.HandleFunc("GET /api/perf", a.handlePerf)
}
