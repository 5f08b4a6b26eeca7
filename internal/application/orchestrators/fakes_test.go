package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	emailAdapter "gymdesk/internal/adapters/email"
	"gymdesk/internal/domain/attendance"
	"gymdesk/internal/domain/client"
	"gymdesk/internal/domain/exercise"
	"gymdesk/internal/domain/membership"
	"gymdesk/internal/domain/payment"
	"gymdesk/internal/domain/setting"
	"gymdesk/internal/domain/workout"
)

var fixedTime = time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

func fixedNow() time.Time { return fixedTime }

func fixedID() string { return "test-id-001" }

func notFound(kind string) error {
	return fmt.Errorf("%s: %w", kind, client.ErrNotFound)
}

// mockClientStore is an in-memory client store that records lookup order.
type mockClientStore struct {
	clients map[string]client.Client
	lookups []string
	failOn  string // matcher name whose lookup returns a store error
	saveErr error
	saved   []client.Client
	deleted []string
}

func newMockClientStore(cs ...client.Client) *mockClientStore {
	m := &mockClientStore{clients: make(map[string]client.Client)}
	for _, c := range cs {
		m.clients[c.ID] = c
	}
	return m
}

func (m *mockClientStore) find(kind string, match func(client.Client) bool) (client.Client, error) {
	m.lookups = append(m.lookups, kind)
	if m.failOn == kind {
		return client.Client{}, errors.New("database is locked")
	}
	for _, c := range m.clients {
		if match(c) {
			return c, nil
		}
	}
	return client.Client{}, notFound(kind)
}

func (m *mockClientStore) GetByID(_ context.Context, id string) (client.Client, error) {
	return m.find("id", func(c client.Client) bool { return c.ID == id })
}

func (m *mockClientStore) GetByEmail(_ context.Context, email string) (client.Client, error) {
	return m.find("email", func(c client.Client) bool { return c.Email != "" && strings.EqualFold(c.Email, email) })
}

func (m *mockClientStore) GetByCedula(_ context.Context, cedula string) (client.Client, error) {
	return m.find("cedula", func(c client.Client) bool { return c.Cedula == cedula })
}

func (m *mockClientStore) GetByFingerprintID(_ context.Context, fp string) (client.Client, error) {
	return m.find("fingerprint", func(c client.Client) bool { return c.FingerprintID != "" && c.FingerprintID == fp })
}

func (m *mockClientStore) Save(_ context.Context, c client.Client) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.clients[c.ID] = c
	m.saved = append(m.saved, c)
	return nil
}

func (m *mockClientStore) Delete(_ context.Context, id string) error {
	if _, ok := m.clients[id]; !ok {
		return notFound("id")
	}
	delete(m.clients, id)
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockClientStore) ListAll(_ context.Context) ([]client.Client, error) {
	var out []client.Client
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

// mockAttendanceStore records appended events.
type mockAttendanceStore struct {
	events []attendance.Event
	err    error
}

func (m *mockAttendanceStore) Append(_ context.Context, e attendance.Event) error {
	if m.err != nil {
		return m.err
	}
	m.events = append(m.events, e)
	return nil
}

// fixedGraceDays returns a constant and counts reads.
type fixedGraceDays struct {
	days  int
	err   error
	reads int
}

func (f *fixedGraceDays) GraceDays(_ context.Context) (int, error) {
	f.reads++
	return f.days, f.err
}

// recordingAnnouncer keeps announced texts.
type recordingAnnouncer struct {
	texts []string
	err   error
}

func (r *recordingAnnouncer) Announce(_ context.Context, text string) error {
	r.texts = append(r.texts, text)
	return r.err
}

// mockMembershipStore is an in-memory plan store.
type mockMembershipStore struct {
	plans map[string]membership.Membership
}

func newMockMembershipStore(ps ...membership.Membership) *mockMembershipStore {
	m := &mockMembershipStore{plans: make(map[string]membership.Membership)}
	for _, p := range ps {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockMembershipStore) GetByID(_ context.Context, id string) (membership.Membership, error) {
	p, ok := m.plans[id]
	if !ok {
		return membership.Membership{}, membership.ErrNotFound
	}
	return p, nil
}

func (m *mockMembershipStore) Save(_ context.Context, p membership.Membership) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockMembershipStore) Delete(_ context.Context, id string) error {
	if _, ok := m.plans[id]; !ok {
		return membership.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}

// mockPaymentStore records saved payments.
type mockPaymentStore struct {
	payments []payment.Payment
	err      error
}

func (m *mockPaymentStore) Save(_ context.Context, p payment.Payment) error {
	if m.err != nil {
		return m.err
	}
	m.payments = append(m.payments, p)
	return nil
}

// mockSettingStore is an in-memory settings store.
type mockSettingStore struct {
	values map[string]string
	err    error
}

func (m *mockSettingStore) Get(_ context.Context, key string) (setting.Setting, error) {
	if m.err != nil {
		return setting.Setting{}, m.err
	}
	v, ok := m.values[key]
	if !ok {
		return setting.Setting{}, setting.ErrNotFound
	}
	return setting.Setting{Key: key, Value: v}, nil
}

func (m *mockSettingStore) Save(_ context.Context, s setting.Setting) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[s.Key] = s.Value
	return nil
}

// mockSender records batches instead of sending.
type mockSender struct {
	sent []emailAdapter.SendRequest
	err  error
}

func (m *mockSender) Send(_ context.Context, req emailAdapter.SendRequest) (emailAdapter.SendResult, error) {
	m.sent = append(m.sent, req)
	return emailAdapter.SendResult{MessageID: "m", SentAt: fixedTime}, m.err
}

func (m *mockSender) SendBatch(_ context.Context, reqs []emailAdapter.SendRequest) ([]emailAdapter.SendResult, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, reqs...)
	out := make([]emailAdapter.SendResult, len(reqs))
	return out, nil
}

// mockExerciseStore is an in-memory exercise catalogue.
type mockExerciseStore struct {
	exercises map[string]exercise.Exercise
	inUse     map[string]bool
}

func newMockExerciseStore(es ...exercise.Exercise) *mockExerciseStore {
	m := &mockExerciseStore{exercises: make(map[string]exercise.Exercise), inUse: make(map[string]bool)}
	for _, e := range es {
		m.exercises[e.ID] = e
	}
	return m
}

func (m *mockExerciseStore) GetByID(_ context.Context, id string) (exercise.Exercise, error) {
	e, ok := m.exercises[id]
	if !ok {
		return exercise.Exercise{}, fmt.Errorf("%s: %w", id, exercise.ErrNotFound)
	}
	return e, nil
}

func (m *mockExerciseStore) Save(_ context.Context, e exercise.Exercise) error {
	m.exercises[e.ID] = e
	return nil
}

func (m *mockExerciseStore) Delete(_ context.Context, id string) error {
	if _, ok := m.exercises[id]; !ok {
		return exercise.ErrNotFound
	}
	if m.inUse[id] {
		return exercise.ErrInUse
	}
	delete(m.exercises, id)
	return nil
}

// mockWorkoutStore is an in-memory workout plan store.
type mockWorkoutStore struct {
	plans map[string]workout.Plan
}

func newMockWorkoutStore(ps ...workout.Plan) *mockWorkoutStore {
	m := &mockWorkoutStore{plans: make(map[string]workout.Plan)}
	for _, p := range ps {
		m.plans[p.ID] = p
	}
	return m
}

func (m *mockWorkoutStore) GetByID(_ context.Context, id string) (workout.Plan, error) {
	p, ok := m.plans[id]
	if !ok {
		return workout.Plan{}, fmt.Errorf("%s: %w", id, workout.ErrNotFound)
	}
	return p, nil
}

func (m *mockWorkoutStore) Save(_ context.Context, p workout.Plan) error {
	m.plans[p.ID] = p
	return nil
}

func (m *mockWorkoutStore) Delete(_ context.Context, id string) error {
	if _, ok := m.plans[id]; !ok {
		return workout.ErrNotFound
	}
	delete(m.plans, id)
	return nil
}
