// Package taxidpkg provides validation of customer tax identifiers.
package taxidpkg

import "github.com/go-playground/validator/v10"

// Length is the number of digits in a tax ID.
const Length = 11

// IsValid returns true if id is exactly Length ASCII digits.
func IsValid(id string) bool {
	if len(id) != Length {
		return false
	}

	for i := 0; i < len(id); i++ {
		if id[i] < '0' || id[i] > '9' {
			return false
		}
	}

	return true
}

// ValidTaxID validates whether the field holds a well formed tax ID.
var ValidTaxID validator.Func = func(fl validator.FieldLevel) bool {
	if id, ok := fl.Field().Interface().(string); ok {
		return IsValid(id)
	}
	return false
}
