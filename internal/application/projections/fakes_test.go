package projections

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"gymdesk/internal/adapters/storage/attendance"
	"gymdesk/internal/adapters/storage/client"
	domainAttendance "gymdesk/internal/domain/attendance"
	domainClient "gymdesk/internal/domain/client"
	domainPayment "gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/workout"
)

var fixedTime = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

var errStore = errors.New("store unavailable")

type mockClientStore struct {
	clients   []domainClient.Client
	lastList  client.ListFilter
	listCalls int
	failList  bool
}

// GetByID returns a seeded client by ID.
// PRE: id is non-empty
// POST: Returns the seeded client or a wrapped ErrNotFound
func (m *mockClientStore) GetByID(_ context.Context, id string) (domainClient.Client, error) {
	for _, c := range m.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return domainClient.Client{}, fmt.Errorf("%w: %s", domainClient.ErrNotFound, id)
}

// List returns seeded clients matching the status filter, honouring limit and offset.
func (m *mockClientStore) List(_ context.Context, filter client.ListFilter) ([]domainClient.Client, error) {
	m.listCalls++
	m.lastList = filter
	if m.failList {
		return nil, errStore
	}
	out := m.filtered(filter.Status)
	if filter.Offset > len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(out) {
		out = out[:filter.Limit]
	}
	return out, nil
}

// Count returns the number of seeded clients matching the status filter.
func (m *mockClientStore) Count(_ context.Context, filter client.ListFilter) (int, error) {
	return len(m.filtered(filter.Status)), nil
}

func (m *mockClientStore) filtered(status string) []domainClient.Client {
	var out []domainClient.Client
	for _, c := range m.clients {
		if status == "" || c.Status == status {
			out = append(out, c)
		}
	}
	return out
}

type mockPaymentStore struct {
	payments []domainPayment.Payment
	from, to time.Time
	since    time.Time
	fail     bool
}

// ListByClientID returns seeded payments for the client.
func (m *mockPaymentStore) ListByClientID(_ context.Context, clientID string) ([]domainPayment.Payment, error) {
	if m.fail {
		return nil, errStore
	}
	var out []domainPayment.Payment
	for _, p := range m.payments {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

// ListBetween returns seeded payments in [from, to).
func (m *mockPaymentStore) ListBetween(_ context.Context, from, to time.Time) ([]domainPayment.Payment, error) {
	m.from, m.to = from, to
	if m.fail {
		return nil, errStore
	}
	var out []domainPayment.Payment
	for _, p := range m.payments {
		if !p.Date.Before(from) && p.Date.Before(to) {
			out = append(out, p)
		}
	}
	return out, nil
}

// SumSince totals seeded payments on or after since.
func (m *mockPaymentStore) SumSince(_ context.Context, since time.Time) (float64, error) {
	m.since = since
	if m.fail {
		return 0, errStore
	}
	var sum float64
	for _, p := range m.payments {
		if !p.Date.Before(since) {
			sum += p.Amount
		}
	}
	return sum, nil
}

type mockAttendanceStore struct {
	events     []domainAttendance.Event
	names      map[string]string
	since      time.Time
	dayFrom    time.Time
	lastLimit  int
	failCounts bool
}

// ListRecent returns the newest seeded events first.
func (m *mockAttendanceStore) ListRecent(_ context.Context, limit int) ([]attendance.Entry, error) {
	m.lastLimit = limit
	sorted := append([]domainAttendance.Event(nil), m.events...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Timestamp.After(sorted[j].Timestamp) })
	var out []attendance.Entry
	for i, e := range sorted {
		if i == limit {
			break
		}
		out = append(out, attendance.Entry{Event: e, ClientName: m.names[e.ClientID]})
	}
	return out, nil
}

// ListByClientID returns seeded events for the client.
func (m *mockAttendanceStore) ListByClientID(_ context.Context, clientID string, limit int) ([]domainAttendance.Event, error) {
	m.lastLimit = limit
	var out []domainAttendance.Event
	for _, e := range m.events {
		if e.ClientID == clientID {
			out = append(out, e)
		}
	}
	return out, nil
}

// CountSince counts seeded events at or after since.
func (m *mockAttendanceStore) CountSince(_ context.Context, since time.Time) (int, error) {
	m.since = since
	n := 0
	for _, e := range m.events {
		if !e.Timestamp.Before(since) {
			n++
		}
	}
	return n, nil
}

// CountsByDay buckets seeded events by day from the given date.
func (m *mockAttendanceStore) CountsByDay(_ context.Context, from time.Time) (map[string]int, error) {
	m.dayFrom = from
	if m.failCounts {
		return nil, errStore
	}
	out := make(map[string]int)
	for _, e := range m.events {
		if !e.Timestamp.Before(from) {
			out[e.Day()]++
		}
	}
	return out, nil
}

type fixedGraceDays struct {
	days int
	err  error
}

// GraceDays returns the configured value.
func (f fixedGraceDays) GraceDays(context.Context) (int, error) {
	return f.days, f.err
}

// ListAll returns every seeded client.
func (m *mockClientStore) ListAll(context.Context) ([]domainClient.Client, error) {
	if m.failList {
		return nil, errStore
	}
	return m.clients, nil
}

// ListAll returns every seeded payment.
func (m *mockPaymentStore) ListAll(context.Context) ([]domainPayment.Payment, error) {
	if m.fail {
		return nil, errStore
	}
	return m.payments, nil
}

// ListAll returns every seeded event.
func (m *mockAttendanceStore) ListAll(context.Context) ([]domainAttendance.Event, error) {
	return m.events, nil
}

type mockWorkoutReader struct {
	plans map[string]workout.Plan
	fail  bool
}

// GetByID returns a seeded plan or a wrapped ErrNotFound.
func (m *mockWorkoutReader) GetByID(_ context.Context, id string) (workout.Plan, error) {
	if m.fail {
		return workout.Plan{}, errStore
	}
	p, ok := m.plans[id]
	if !ok {
		return workout.Plan{}, fmt.Errorf("%w: %s", workout.ErrNotFound, id)
	}
	return p, nil
}
