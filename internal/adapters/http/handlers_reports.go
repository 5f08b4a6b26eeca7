package web

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"gymdesk/internal/application/projections"
	"gymdesk/internal/domain/export"
)

// perfTopN is how many routes and queries /api/perf ranks.
const perfTopN = 10

type dailyCountJSON struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type dashboardResponse struct {
	ActiveClients    int              `json:"activeClients"`
	Debtors          int              `json:"debtors"`
	TodayAttendance  int              `json:"todayAttendance"`
	MonthRevenue     float64          `json:"monthRevenue"`
	RecentCheckIns   []attendanceJSON `json:"recentCheckIns"`
	WeeklyAttendance []dailyCountJSON `json:"weeklyAttendance"`
}

// handleDashboard handles GET /api/dashboard
func (a *app) handleDashboard(w http.ResponseWriter, r *http.Request) {
	deps := projections.GetDashboardDeps{
		ClientStore:     a.stores.ClientStore,
		PaymentStore:    a.stores.PaymentStore,
		AttendanceStore: a.stores.AttendanceStore,
		Now:             a.now,
	}
	result, err := projections.QueryGetDashboard(r.Context(), projections.GetDashboardQuery{}, deps)
	if err != nil {
		internalError(w, err)
		return
	}

	resp := dashboardResponse{
		ActiveClients:    result.ActiveClients,
		Debtors:          result.Debtors,
		TodayAttendance:  result.TodayAttendance,
		MonthRevenue:     result.MonthRevenue,
		RecentCheckIns:   make([]attendanceJSON, 0, len(result.RecentCheckIns)),
		WeeklyAttendance: make([]dailyCountJSON, 0, len(result.WeeklyAttendance)),
	}
	for _, e := range result.RecentCheckIns {
		resp.RecentCheckIns = append(resp.RecentCheckIns, toAttendanceJSON(e.Event, e.ClientName))
	}
	for _, d := range result.WeeklyAttendance {
		resp.WeeklyAttendance = append(resp.WeeklyAttendance, dailyCountJSON{Date: d.Date, Count: d.Count})
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleMonthlyReport handles GET /api/reports/monthly?year=YYYY
func (a *app) handleMonthlyReport(w http.ResponseWriter, r *http.Request) {
	var query projections.GetMonthlyReportQuery
	if v := r.URL.Query().Get("year"); v != "" {
		year, err := strconv.Atoi(v)
		if err != nil {
			badRequest(w, r, projections.ErrInvalidYear.Error())
			return
		}
		query.Year = year
	}
	result, err := projections.QueryGetMonthlyReport(r.Context(), query, projections.GetMonthlyReportDeps{
		PaymentStore: a.stores.PaymentStore,
		Now:          a.now,
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleRecentAttendance handles GET /api/attendance?limit=N
func (a *app) handleRecentAttendance(w http.ResponseWriter, r *http.Request) {
	var query projections.GetRecentAttendanceQuery
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			badRequest(w, r, "limit must be a non-negative integer")
			return
		}
		query.Limit = n
	}
	result, err := projections.QueryGetRecentAttendance(r.Context(), query, projections.GetRecentAttendanceDeps{
		AttendanceStore: a.stores.AttendanceStore,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	out := make([]attendanceJSON, 0, len(result.Entries))
	for _, e := range result.Entries {
		out = append(out, toAttendanceJSON(e.Event, e.ClientName))
	}
	writeJSON(w, http.StatusOK, out)
}

// handleExport handles GET /api/export?format=json|csv&section=clients.
// JSON returns the whole backup; CSV returns one section.
func (a *app) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = export.FormatJSON
	}
	if !export.ValidFormat(format) {
		badRequest(w, r, export.ErrInvalidFormat.Error())
		return
	}

	backup, err := projections.QueryGetBackup(r.Context(), projections.GetBackupQuery{}, projections.GetBackupDeps{
		Clients:     a.stores.ClientStore,
		Memberships: a.stores.MembershipStore,
		Payments:    a.stores.PaymentStore,
		Attendance:  a.stores.AttendanceStore,
		Settings:    a.stores.SettingStore,

		Exercises:    a.stores.ExerciseStore,
		WorkoutPlans: a.stores.WorkoutStore,

		Now: a.now,
	})
	if err != nil {
		internalError(w, err)
		return
	}
	stamp := backup.Metadata.ExportDate.Format("20060102-150405")

	if format == export.FormatJSON {
		data, err := backup.ToJSON()
		if err != nil {
			internalError(w, err)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gymdesk-%s.json"`, stamp))
		_, _ = w.Write(data)
		slog.Info("export_event", "event", "backup_downloaded", "format", format, "records", backup.Metadata.RecordCount)
		return
	}

	section := r.URL.Query().Get("section")
	if section == "" {
		section = "clients"
	}
	sections, err := backup.ToCSV()
	if err != nil {
		internalError(w, err)
		return
	}
	data, ok := sections[section]
	if !ok {
		badRequest(w, r, "unknown export section")
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="gymdesk-%s-%s.csv"`, section, stamp))
	_, _ = w.Write(data)
	slog.Info("export_event", "event", "backup_downloaded", "format", format, "section", section)
}

// handlePerf handles GET /api/perf?minutes=N (default 60).
func (a *app) handlePerf(w http.ResponseWriter, r *http.Request) {
	if a.opts.Collector == nil {
		writeError(w, r, http.StatusServiceUnavailable, "PERF_DISABLED", "performance collection is disabled")
		return
	}
	minutes := 60
	if v := r.URL.Query().Get("minutes"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			badRequest(w, r, "minutes must be a positive integer")
			return
		}
		minutes = n
	}
	since := time.Now().Add(-time.Duration(minutes) * time.Minute)
	writeJSON(w, http.StatusOK, a.opts.Collector.Snapshot(since, perfTopN))
}

// handleHealthz handles GET /healthz
func (a *app) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if a.opts.Ping != nil {
		if err := a.opts.Ping(r.Context()); err != nil {
			slog.Error("health_check_failed", "error", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
