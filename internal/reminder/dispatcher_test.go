package reminder

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
)

// memStore mimics the real store's window and claim semantics in memory.
type memStore struct {
	mu      sync.Mutex
	rows    map[uuid.UUID]*appointment.Appointment
	listErr error
}

func newMemStore(appts ...*appointment.Appointment) *memStore {
	s := &memStore{rows: make(map[uuid.UUID]*appointment.Appointment)}
	for _, a := range appts {
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		s.rows[a.ID] = a
	}
	return s
}

func (s *memStore) ListDueForReminder(_ context.Context, from, to time.Time) ([]appointment.Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	var due []appointment.Appointment
	for _, a := range s.rows {
		if a.ReminderSentAt == nil && a.ScheduledAt.After(from) && !a.ScheduledAt.After(to) {
			due = append(due, *a)
		}
	}
	return due, nil
}

func (s *memStore) MarkReminderSent(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.rows[id]
	if !ok || a.ReminderSentAt != nil {
		return errors.New("no unreminded appointment")
	}
	now := time.Now().UTC()
	a.ReminderSentAt = &now
	return nil
}

type recordingSender struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (r *recordingSender) Send(_ context.Context, to, body string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to+"|"+body)
	return nil
}

func (r *recordingSender) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sent)
}

func at(hour, minute int) time.Time {
	return time.Date(2025, 8, 12, hour, minute, 0, 0, time.UTC)
}

func TestSweepSendsExactlyOnceAcrossTicks(t *testing.T) {
	appt := &appointment.Appointment{
		Name:        "Maria Silva",
		Phone:       "11987654321",
		ScheduledAt: at(15, 0),
	}
	store := newMemStore(appt)
	sender := &recordingSender{}

	clock := at(12, 59)
	d := NewDispatcher(store, sender, nil, nil).
		WithLead(2 * time.Hour).
		WithClock(func() time.Time { return clock })

	// One minute early: 15:00 is outside (12:59, 14:59].
	sent, err := d.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)

	// On the boundary tick the appointment enters the window.
	clock = at(13, 0)
	sent, err = d.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)
	require.Equal(t, 1, sender.count())
	require.Contains(t, sender.sent[0], "11987654321@c.us|")
	require.Contains(t, sender.sent[0], "Maria Silva")
	require.Contains(t, sender.sent[0], "15:00")

	// The next tick still covers 15:00, but the claim blocks a duplicate.
	clock = at(13, 1)
	sent, err = d.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Equal(t, 1, sender.count())
}

func TestSweepCatchesUpAfterDowntime(t *testing.T) {
	// Process was down when the appointment crossed the 2h boundary; the
	// next sweep still finds it because the query keys on the flag, not on
	// an exact minute.
	appt := &appointment.Appointment{Name: "Ana", Phone: "11912345678", ScheduledAt: at(15, 0)}
	store := newMemStore(appt)
	sender := &recordingSender{}

	clock := at(14, 17)
	d := NewDispatcher(store, sender, nil, nil).WithClock(func() time.Time { return clock })

	sent, err := d.Sweep(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, sent)
}

func TestSweepSkipsPastAppointments(t *testing.T) {
	appt := &appointment.Appointment{Name: "Ana", Phone: "11912345678", ScheduledAt: at(10, 0)}
	store := newMemStore(appt)
	sender := &recordingSender{}

	clock := at(13, 0)
	d := NewDispatcher(store, sender, nil, nil).WithClock(func() time.Time { return clock })

	sent, err := d.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Zero(t, sender.count())
}

func TestSweepSendFailureKeepsClaim(t *testing.T) {
	appt := &appointment.Appointment{Name: "Ana", Phone: "11912345678", ScheduledAt: at(14, 30)}
	store := newMemStore(appt)
	sender := &recordingSender{err: errors.New("gateway down")}

	clock := at(13, 0)
	d := NewDispatcher(store, sender, nil, nil).WithClock(func() time.Time { return clock })

	sent, err := d.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)

	// Delivery is at-most-once: the claim holds, no retry on the next tick.
	sender.err = nil
	sent, err = d.Sweep(context.Background())
	require.NoError(t, err)
	require.Zero(t, sent)
	require.Zero(t, sender.count())
}

func TestSweepListErrorAbortsTick(t *testing.T) {
	store := newMemStore()
	store.listErr = errors.New("connection refused")
	d := NewDispatcher(store, &recordingSender{}, nil, nil)

	_, err := d.Sweep(context.Background())
	require.Error(t, err)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	store := newMemStore()
	d := NewDispatcher(store, &recordingSender{}, nil, nil).WithInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		d.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop after cancel")
	}
}

func TestMessageFormat(t *testing.T) {
	a := &appointment.Appointment{Name: "Maria Silva", ScheduledAt: at(15, 0)}
	msg := Message(a)
	require.Contains(t, msg, "Maria Silva")
	require.Contains(t, msg, "15:00")
}
