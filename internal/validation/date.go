package validation

import (
	"errors"
	"time"
)

// ValidateDateString checks that a date is in the stored "YYYY-MM-DD"
// form and is a real calendar day.
func ValidateDateString(value string) error {
	if value == "" {
		return errors.New("date is required")
	}
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New("date must be in YYYY-MM-DD format")
	}
	return nil
}
