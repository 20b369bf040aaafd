// Package session holds per-sender dialogue state while a booking is in
// progress. Sessions are ephemeral: confirming, cancelling or a channel
// reconnect all destroy them.
package session

import (
	"time"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
)

// State is the current step of the booking dialogue.
type State string

const (
	StateName    State = "name"
	StatePhone   State = "phone"
	StateShift   State = "shift"
	StateTime    State = "time"
	StateConfirm State = "confirm"
)

// Draft accumulates appointment fields across dialogue steps.
type Draft struct {
	Name     string            `json:"name,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Shift    appointment.Shift `json:"shift,omitempty"`
	TimeSlot string            `json:"time_slot,omitempty"`
}

// Session is one sender's in-progress booking. At most one exists per sender;
// a new booking intent replaces any prior session wholesale.
type Session struct {
	State     State     `json:"state"`
	Draft     Draft     `json:"draft"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns a fresh session positioned at the first dialogue step.
func New() *Session {
	return &Session{State: StateName, UpdatedAt: time.Now().UTC()}
}
