package projections

import (
	"context"

	"gymdesk/internal/adapters/storage/attendance"
)

// Recent attendance limits.
const (
	DefaultRecentAttendance = 50
	MaxRecentAttendance     = 500
)

// GetRecentAttendanceQuery carries query parameters.
type GetRecentAttendanceQuery struct {
	Limit int
}

// GetRecentAttendanceResult carries the query result.
type GetRecentAttendanceResult struct {
	Entries []attendance.Entry
}

// GetRecentAttendanceDeps holds dependencies for GetRecentAttendance.
type GetRecentAttendanceDeps struct {
	AttendanceStore AttendanceStore
}

// QueryGetRecentAttendance lists the newest check-in attempts, granted or not.
// PRE: none
// POST: At most MaxRecentAttendance entries, newest first
func QueryGetRecentAttendance(ctx context.Context, query GetRecentAttendanceQuery, deps GetRecentAttendanceDeps) (GetRecentAttendanceResult, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = DefaultRecentAttendance
	}
	if limit > MaxRecentAttendance {
		limit = MaxRecentAttendance
	}
	entries, err := deps.AttendanceStore.ListRecent(ctx, limit)
	if err != nil {
		return GetRecentAttendanceResult{}, err
	}
	return GetRecentAttendanceResult{Entries: entries}, nil
}
