package projections

import (
	"context"
	"errors"
	"testing"
	"time"

	"gymdesk/internal/domain/access"
	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"
	domainPayment "gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/workout"
)

func detailDeps(clients []domainClient.Client) (GetClientDetailDeps, *mockPaymentStore, *mockAttendanceStore) {
	payments := &mockPaymentStore{payments: []domainPayment.Payment{
		{ID: "p-1", ClientID: "c-2", Amount: 30, Concept: "Renewal: Monthly", Date: fixedTime.AddDate(0, -1, 0)},
		{ID: "p-2", ClientID: "c-3", Amount: 30, Concept: "Renewal: Monthly", Date: fixedTime},
	}}
	events := &mockAttendanceStore{events: []domainAttendance.Event{
		{ID: "a-1", ClientID: "c-2", AccessGranted: true, Timestamp: fixedTime.Add(-time.Hour)},
		{ID: "a-2", ClientID: "c-1", AccessGranted: true, Timestamp: fixedTime},
	}}
	return GetClientDetailDeps{
		ClientStore:     &mockClientStore{clients: clients},
		PaymentStore:    payments,
		AttendanceStore: events,
		GraceDays:       fixedGraceDays{days: 5},
		Now:             fixedNow,
	}, payments, events
}

// TestQueryGetClientDetail_Success verifies the decision and history are assembled.
func TestQueryGetClientDetail_Success(t *testing.T) {
	deps, _, events := detailDeps(seededClients())
	result, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-2"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision == nil {
		t.Fatal("expected a decision")
	}
	if result.Decision.Label != access.LabelGracePeriod || result.Decision.DaysPastDue != 2 {
		t.Errorf("decision = %+v, want GRACE_PERIOD 2 days", *result.Decision)
	}
	if result.Badge != access.BadgeGrace {
		t.Errorf("badge = %q", result.Badge)
	}
	if len(result.Payments) != 1 || result.Payments[0].ID != "p-1" {
		t.Errorf("payments = %+v", result.Payments)
	}
	if len(result.Attendance) != 1 || result.Attendance[0].ID != "a-1" {
		t.Errorf("attendance = %+v", result.Attendance)
	}
	if events.lastLimit != ClientDetailAttendanceLimit {
		t.Errorf("attendance limit = %d", events.lastLimit)
	}
	if result.GraceDays != 5 {
		t.Errorf("GraceDays = %d", result.GraceDays)
	}
}

// TestQueryGetClientDetail_InvalidEndDate verifies unreadable dates are flagged, not decided.
func TestQueryGetClientDetail_InvalidEndDate(t *testing.T) {
	deps, _, _ := detailDeps(seededClients())
	result, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-5"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Decision != nil {
		t.Errorf("expected no decision, got %+v", *result.Decision)
	}
	if !result.InvalidEndDate || result.Badge != access.BadgeUnknown {
		t.Errorf("result = %+v", result)
	}
}

// TestQueryGetClientDetail_NotFound verifies the store's not-found error is returned.
func TestQueryGetClientDetail_NotFound(t *testing.T) {
	deps, _, _ := detailDeps(seededClients())
	_, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "missing"}, deps)
	if !errors.Is(err, domainClient.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// TestQueryGetClientDetail_StoreFailure verifies a failing history load fails the query.
func TestQueryGetClientDetail_StoreFailure(t *testing.T) {
	deps, payments, _ := detailDeps(seededClients())
	payments.fail = true
	_, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-2"}, deps)
	if !errors.Is(err, errStore) {
		t.Errorf("expected store error, got %v", err)
	}
}

// TestQueryGetClientDetail_WorkoutPlan verifies the assigned plan is loaded and a
// dangling assignment is dropped.
func TestQueryGetClientDetail_WorkoutPlan(t *testing.T) {
	clients := seededClients()
	clients[0].WorkoutPlanID = "w-1"
	clients[1].WorkoutPlanID = "w-gone"
	deps, _, _ := detailDeps(clients)
	deps.WorkoutStore = &mockWorkoutReader{plans: map[string]workout.Plan{
		"w-1": {ID: "w-1", Name: "Full body", Level: workout.LevelBeginner, Items: []workout.Item{{ExerciseID: "e-1", Sets: 3, Reps: "12"}}},
	}}

	result, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-1"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WorkoutPlan == nil || result.WorkoutPlan.Name != "Full body" || len(result.WorkoutPlan.Items) != 1 {
		t.Fatalf("expected the assigned plan, got %+v", result.WorkoutPlan)
	}

	result, err = QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-2"}, deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.WorkoutPlan != nil {
		t.Errorf("expected no plan for a deleted assignment, got %+v", result.WorkoutPlan)
	}

	deps.WorkoutStore = &mockWorkoutReader{fail: true}
	if _, err := QueryGetClientDetail(context.Background(), GetClientDetailQuery{ClientID: "c-1"}, deps); !errors.Is(err, errStore) {
		t.Errorf("expected the store failure, got %v", err)
	}
}
