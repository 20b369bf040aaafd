package appointment

import (
	"time"

	"github.com/google/uuid"
)

// Shift is the coarse time-of-day bucket offered by the guided flow.
type Shift string

const (
	ShiftMorning   Shift = "manha"
	ShiftAfternoon Shift = "tarde"
	ShiftEvening   Shift = "noite"
)

// Appointment is a confirmed booking. Rows only exist after the sender
// explicitly confirmed the draft; there are no partial appointments.
//
// The guided flow fills Shift and TimeSlot; the direct command flow leaves
// Shift empty and supplies ScheduledAt straight from the parsed datetime.
type Appointment struct {
	ID             uuid.UUID  `json:"id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Shift          Shift      `json:"shift,omitempty"`
	TimeSlot       string     `json:"time_slot"`
	ScheduledAt    time.Time  `json:"scheduled_at"`
	ReminderSentAt *time.Time `json:"reminder_sent_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}
