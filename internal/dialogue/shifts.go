package dialogue

import (
	"time"

	"github.com/KevinCFreitas/controle-bot/internal/appointment"
)

// shiftSlots is the fixed list of bookable time slots per shift.
var shiftSlots = map[appointment.Shift][]string{
	appointment.ShiftMorning:   {"08:00", "09:00", "10:00", "11:00"},
	appointment.ShiftAfternoon: {"13:00", "14:00", "15:00", "16:00", "17:00"},
	appointment.ShiftEvening:   {"18:00", "19:00", "20:00", "21:00"},
}

// shiftLabels maps shifts to their display names.
var shiftLabels = map[appointment.Shift]string{
	appointment.ShiftMorning:   "manhã",
	appointment.ShiftAfternoon: "tarde",
	appointment.ShiftEvening:   "noite",
}

// ParseShift resolves numeric and textual aliases to a shift.
func ParseShift(input string) (appointment.Shift, bool) {
	switch input {
	case "1", "manha", "manhã":
		return appointment.ShiftMorning, true
	case "2", "tarde":
		return appointment.ShiftAfternoon, true
	case "3", "noite":
		return appointment.ShiftEvening, true
	}
	return "", false
}

// Slots returns the bookable time slots for a shift.
func Slots(shift appointment.Shift) []string {
	return shiftSlots[shift]
}

// ValidSlot reports whether the input exactly matches a slot of the shift.
func ValidSlot(shift appointment.Shift, input string) bool {
	for _, s := range shiftSlots[shift] {
		if s == input {
			return true
		}
	}
	return false
}

// NextSlot resolves a shift time slot to its next concrete occurrence: today
// when the slot is still ahead of now, otherwise tomorrow. Minute precision,
// host clock location.
func NextSlot(slot string, now time.Time) (time.Time, error) {
	parsed, err := time.ParseInLocation("15:04", slot, now.Location())
	if err != nil {
		return time.Time{}, err
	}
	candidate := time.Date(now.Year(), now.Month(), now.Day(), parsed.Hour(), parsed.Minute(), 0, 0, now.Location())
	if !candidate.After(now) {
		candidate = candidate.AddDate(0, 0, 1)
	}
	return candidate, nil
}
