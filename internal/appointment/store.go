package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides persistence for confirmed appointments.
type Store struct {
	db DB
}

// NewStore creates a new appointment store.
func NewStore(db DB) *Store {
	return &Store{db: db}
}

// Create inserts a confirmed appointment.
func (s *Store) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now().UTC()
	a.CreatedAt = now
	a.UpdatedAt = now

	_, err := s.db.Exec(ctx, `
		INSERT INTO appointments (id, name, phone, shift, time_slot, scheduled_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		a.ID, a.Name, a.Phone, string(a.Shift), a.TimeSlot, a.ScheduledAt, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("appointment: create: %w", err)
	}
	return nil
}

// ListDueForReminder returns appointments scheduled inside (from, to] that
// have not been reminded yet. The half-open window lets consecutive sweeps
// tile the timeline without gaps or overlap even when ticks drift.
func (s *Store) ListDueForReminder(ctx context.Context, from, to time.Time) ([]Appointment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, shift, time_slot, scheduled_at, reminder_sent_at, created_at, updated_at
		FROM appointments
		WHERE reminder_sent_at IS NULL AND scheduled_at > $1 AND scheduled_at <= $2
		ORDER BY scheduled_at ASC`, from, to)
	if err != nil {
		return nil, fmt.Errorf("appointment: list due: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

// MarkReminderSent records that the reminder for an appointment went out.
// The guard on reminder_sent_at makes the transition at-most-once: a second
// caller sees zero affected rows and must not send again.
func (s *Store) MarkReminderSent(ctx context.Context, id uuid.UUID) error {
	now := time.Now().UTC()
	tag, err := s.db.Exec(ctx, `
		UPDATE appointments SET reminder_sent_at = $1, updated_at = $1
		WHERE id = $2 AND reminder_sent_at IS NULL`, now, id)
	if err != nil {
		return fmt.Errorf("appointment: mark reminder sent: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("appointment: mark reminder sent: no unreminded appointment with id %s", id)
	}
	return nil
}

// ListUpcoming returns confirmed appointments scheduled after the given time.
func (s *Store) ListUpcoming(ctx context.Context, after time.Time, limit int) ([]Appointment, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(ctx, `
		SELECT id, name, phone, shift, time_slot, scheduled_at, reminder_sent_at, created_at, updated_at
		FROM appointments
		WHERE scheduled_at > $1
		ORDER BY scheduled_at ASC LIMIT $2`, after, limit)
	if err != nil {
		return nil, fmt.Errorf("appointment: list upcoming: %w", err)
	}
	defer rows.Close()
	return scanAppointments(rows)
}

func scanAppointments(rows pgx.Rows) ([]Appointment, error) {
	var result []Appointment
	for rows.Next() {
		var a Appointment
		var shift string
		err := rows.Scan(
			&a.ID, &a.Name, &a.Phone, &shift, &a.TimeSlot,
			&a.ScheduledAt, &a.ReminderSentAt,
			&a.CreatedAt, &a.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("appointment: scan: %w", err)
		}
		a.Shift = Shift(shift)
		result = append(result, a)
	}
	return result, rows.Err()
}
