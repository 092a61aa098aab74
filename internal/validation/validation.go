package validation

import (
	"errors"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// ValidateRequired checks that a field is not empty
func ValidateRequired(value, fieldName string) error {
	if strings.TrimSpace(value) == "" {
		return errors.New(fieldName + " is required")
	}
	return nil
}

// ValidateMinLength checks the minimum length of a string
func ValidateMinLength(value string, minLength int, fieldName string) error {
	if utf8.RuneCountInString(value) < minLength {
		return errors.New(fieldName + " must be at least " + strconv.Itoa(minLength) + " characters long")
	}
	return nil
}

// ValidateMaxLength checks the maximum length of a string
func ValidateMaxLength(value string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(value) > maxLength {
		return errors.New(fieldName + " must be at most " + strconv.Itoa(maxLength) + " characters long")
	}
	return nil
}

// ValidateUUID checks that a string is a valid UUID
func ValidateUUID(value, fieldName string) error {
	if _, err := uuid.Parse(value); err != nil {
		return errors.New(fieldName + " must be a valid UUID")
	}
	return nil
}

// ValidateDate checks that a string is a YYYY-MM-DD date
func ValidateDate(value, fieldName string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return errors.New(fieldName + " must be a date in YYYY-MM-DD format")
	}
	return nil
}

// ValidateClock checks that a string is an HH:MM time of day
func ValidateClock(value, fieldName string) error {
	if _, err := time.Parse("15:04", value); err != nil {
		return errors.New(fieldName + " must be a time in HH:MM format")
	}
	return nil
}

// EventValidation contains event-specific validations
type EventValidation struct{}

// ValidateEventName validates an event name
func (v EventValidation) ValidateEventName(name string) error {
	if err := ValidateRequired(name, "name"); err != nil {
		return err
	}
	if err := ValidateMinLength(name, 3, "name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 100, "name"); err != nil {
		return err
	}
	return nil
}

// ValidateLocation validates an event location
func (v EventValidation) ValidateLocation(location string) error {
	return ValidateMaxLength(location, 200, "location")
}

// RegistrationValidation contains registration-specific validations
type RegistrationValidation struct{}

// ValidateDisplayName validates the name shown on rosters and announcements
func (v RegistrationValidation) ValidateDisplayName(name string) error {
	if err := ValidateRequired(name, "display_name"); err != nil {
		return err
	}
	if err := ValidateMaxLength(name, 80, "display_name"); err != nil {
		return err
	}
	return nil
}
