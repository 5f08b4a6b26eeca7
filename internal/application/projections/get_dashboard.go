package projections

import (
	"context"
	"fmt"
	"time"

	"gymdesk/internal/adapters/storage/attendance"
	"gymdesk/internal/adapters/storage/client"
	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"

	"golang.org/x/sync/errgroup"
)

// Dashboard sizing.
const (
	DashboardRecentLimit = 5
	DashboardWeekDays    = 7
)

// GetDashboardQuery carries input for the dashboard projection.
type GetDashboardQuery struct{}

// GetDashboardDeps holds dependencies for the dashboard projection.
type GetDashboardDeps struct {
	ClientStore     ClientStore
	PaymentStore    PaymentStore
	AttendanceStore AttendanceStore
	Now             func() time.Time // optional, defaults to time.Now
}

// DashboardResult carries the output of the dashboard projection.
type DashboardResult struct {
	ActiveClients    int
	Debtors          int
	TodayAttendance  int
	MonthRevenue     float64
	RecentCheckIns   []attendance.Entry
	WeeklyAttendance []domainAttendance.DailyCount
}

// QueryGetDashboard gathers the front-desk overview.
// PRE: none
// POST: WeeklyAttendance has exactly DashboardWeekDays entries ending today
// INVARIANT: Counts use stored status, not the computed badge; revenue counts from the 1st of the current month
func QueryGetDashboard(ctx context.Context, _ GetDashboardQuery, deps GetDashboardDeps) (DashboardResult, error) {
	now := nowFunc(deps.Now)()
	today := startOfDay(now)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	weekStart := today.AddDate(0, 0, -(DashboardWeekDays - 1))

	var (
		result DashboardResult
		counts map[string]int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		n, err := deps.ClientStore.Count(gctx, client.ListFilter{Status: domainClient.StatusActive})
		if err != nil {
			return fmt.Errorf("count active clients: %w", err)
		}
		result.ActiveClients = n
		return nil
	})
	g.Go(func() error {
		n, err := deps.ClientStore.Count(gctx, client.ListFilter{Status: domainClient.StatusDebtor})
		if err != nil {
			return fmt.Errorf("count debtors: %w", err)
		}
		result.Debtors = n
		return nil
	})
	g.Go(func() error {
		n, err := deps.AttendanceStore.CountSince(gctx, today)
		if err != nil {
			return fmt.Errorf("count today's attendance: %w", err)
		}
		result.TodayAttendance = n
		return nil
	})
	g.Go(func() error {
		sum, err := deps.PaymentStore.SumSince(gctx, monthStart)
		if err != nil {
			return fmt.Errorf("sum month revenue: %w", err)
		}
		result.MonthRevenue = sum
		return nil
	})
	g.Go(func() error {
		recent, err := deps.AttendanceStore.ListRecent(gctx, DashboardRecentLimit)
		if err != nil {
			return fmt.Errorf("list recent check-ins: %w", err)
		}
		result.RecentCheckIns = recent
		return nil
	})
	g.Go(func() error {
		var err error
		counts, err = deps.AttendanceStore.CountsByDay(gctx, weekStart)
		if err != nil {
			return fmt.Errorf("count weekly attendance: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return DashboardResult{}, err
	}

	result.WeeklyAttendance = domainAttendance.LastNDays(counts, today, DashboardWeekDays)
	return result, nil
}
