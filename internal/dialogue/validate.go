package dialogue

import (
	"errors"
	"strings"
	"time"
	"unicode"
)

const (
	minNameLen  = 3
	minPhoneLen = 10
	maxPhoneLen = 13
)

// datetimeLayout is the accepted format of the direct command datetime field.
const datetimeLayout = "2006-01-02 15:04"

var (
	errNameTooShort  = errors.New("dialogue: name too short")
	errPhoneInvalid  = errors.New("dialogue: phone outside 10-13 digits")
	errDatetimeBad   = errors.New("dialogue: datetime not in YYYY-MM-DD HH:MM format")
	errDatetimePast  = errors.New("dialogue: datetime not in the future")
	errDirectBadForm = errors.New("dialogue: direct command needs name|phone|datetime")
)

// SanitizePhone strips every non-digit rune.
func SanitizePhone(value string) string {
	var b strings.Builder
	for _, r := range value {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func validateName(raw string) (string, error) {
	name := strings.TrimSpace(raw)
	if len(name) < minNameLen {
		return "", errNameTooShort
	}
	return name, nil
}

func validatePhone(raw string) (string, error) {
	digits := SanitizePhone(raw)
	if len(digits) < minPhoneLen || len(digits) > maxPhoneLen {
		return "", errPhoneInvalid
	}
	return digits, nil
}

func validateDatetime(raw string, now time.Time) (time.Time, error) {
	parsed, err := time.ParseInLocation(datetimeLayout, strings.TrimSpace(raw), now.Location())
	if err != nil {
		return time.Time{}, errDatetimeBad
	}
	if !parsed.After(now) {
		return time.Time{}, errDatetimePast
	}
	return parsed, nil
}
