package appointment

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

func TestStoreCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	scheduled := time.Date(2025, 8, 12, 15, 0, 0, 0, time.UTC)

	mock.ExpectExec("INSERT INTO appointments").
		WithArgs(pgxmock.AnyArg(), "Maria Silva", "11987654321", "tarde", "15:00", scheduled, pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	a := &Appointment{
		Name:        "Maria Silva",
		Phone:       "11987654321",
		Shift:       ShiftAfternoon,
		TimeSlot:    "15:00",
		ScheduledAt: scheduled,
	}
	if err := store.Create(context.Background(), a); err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.ID == uuid.Nil {
		t.Fatal("expected generated id")
	}
	if a.CreatedAt.IsZero() || a.UpdatedAt.IsZero() {
		t.Fatal("expected timestamps set")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestStoreListDueForReminder(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	from := time.Date(2025, 8, 12, 14, 59, 0, 0, time.UTC)
	to := time.Date(2025, 8, 12, 15, 0, 0, 0, time.UTC)
	id := uuid.New()
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(from, to).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "phone", "shift", "time_slot", "scheduled_at", "reminder_sent_at", "created_at", "updated_at",
		}).AddRow(id, "Maria Silva", "11987654321", "tarde", "15:00", to, (*time.Time)(nil), now, now))

	due, err := store.ListDueForReminder(context.Background(), from, to)
	if err != nil {
		t.Fatalf("list due: %v", err)
	}
	if len(due) != 1 {
		t.Fatalf("expected one due appointment, got %d", len(due))
	}
	if due[0].Shift != ShiftAfternoon || due[0].Name != "Maria Silva" {
		t.Fatalf("unexpected row: %+v", due[0])
	}
	if due[0].ReminderSentAt != nil {
		t.Fatal("expected unreminded row")
	}
}

func TestStoreMarkReminderSent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	id := uuid.New()

	mock.ExpectExec("UPDATE appointments").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	if err := store.MarkReminderSent(context.Background(), id); err != nil {
		t.Fatalf("mark sent: %v", err)
	}

	// A second mark hits zero rows and must error so the caller never
	// treats it as a fresh send.
	mock.ExpectExec("UPDATE appointments").
		WithArgs(pgxmock.AnyArg(), id).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	if err := store.MarkReminderSent(context.Background(), id); err == nil {
		t.Fatal("expected error for already-reminded appointment")
	}
}

func TestStoreListUpcoming(t *testing.T) {
	mock, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("pgxmock: %v", err)
	}
	defer mock.Close()

	store := NewStore(mock)
	after := time.Date(2025, 8, 12, 13, 0, 0, 0, time.UTC)
	now := time.Now().UTC()

	mock.ExpectQuery("SELECT (.+) FROM appointments").
		WithArgs(after, 10).
		WillReturnRows(pgxmock.NewRows([]string{
			"id", "name", "phone", "shift", "time_slot", "scheduled_at", "reminder_sent_at", "created_at", "updated_at",
		}).AddRow(uuid.New(), "Ana", "11912345678", "", "15:00", after.Add(2*time.Hour), (*time.Time)(nil), now, now))

	list, err := store.ListUpcoming(context.Background(), after, 10)
	if err != nil {
		t.Fatalf("list upcoming: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected one appointment, got %d", len(list))
	}
	if list[0].Shift != "" {
		t.Fatalf("expected direct-command row without shift, got %q", list[0].Shift)
	}
}
