package services

import (
	"time"

	"wasteflow-backend/internal/apperr"
	"wasteflow-backend/internal/models"
)

// ValidatePickupDate parses and validates a pickup date against the calendar
// rules: weekdays only, today or later. now supplies the current time so the
// rules are testable.
func ValidatePickupDate(date string, now time.Time) (string, error) {
	parsed, err := time.Parse(models.PickupDateLayout, date)
	if err != nil {
		return "", apperr.Validation("Enter a valid date (YYYY-MM-DD)")
	}

	if parsed.Weekday() == time.Saturday || parsed.Weekday() == time.Sunday {
		return "", apperr.Validation("Selected date is a weekend. Please choose a weekday.")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if parsed.Before(today) {
		return "", apperr.Validation("Selected date is in the past. Please choose a future date.")
	}

	return parsed.Format(models.PickupDateLayout), nil
}
