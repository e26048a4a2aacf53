// Package datepkg holds the date formats used for birthdates and ledger timestamps.
package datepkg

import (
	"time"

	"github.com/go-playground/validator/v10"
)

// Layouts in the dd-mm-yyyy family.
const (
	DateLayout      = "02-01-2006"
	TimestampLayout = "02-01-2006 15:04:05"
)

// FormatTimestamp renders t as dd-mm-yyyy HH:MM:SS in local time.
func FormatTimestamp(t time.Time) string {
	return t.Local().Format(TimestampLayout)
}

// ParseTimestamp parses a dd-mm-yyyy HH:MM:SS timestamp in local time.
func ParseTimestamp(s string) (time.Time, error) {
	return time.ParseInLocation(TimestampLayout, s, time.Local)
}

// IsValidDate reports whether s is a real calendar date in dd-mm-yyyy form.
func IsValidDate(s string) bool {
	_, err := time.ParseInLocation(DateLayout, s, time.Local)
	return err == nil
}

// SameDay reports whether a and b fall on the same calendar day in local time.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Local().Date()
	by, bm, bd := b.Local().Date()

	return ay == by && am == bm && ad == bd
}

// ValidBirthdate validates that the field holds a dd-mm-yyyy date.
var ValidBirthdate validator.Func = func(fl validator.FieldLevel) bool {
	if s, ok := fl.Field().Interface().(string); ok {
		return IsValidDate(s)
	}
	return false
}
