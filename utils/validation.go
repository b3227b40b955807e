package utils

import (
	"fmt"
	"regexp"
	"strings"
)

// FieldValidationError represents a validation error for a specific field
type FieldValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// FieldValidationErrors represents multiple field validation errors
type FieldValidationErrors []FieldValidationError

// Error implements the error interface
func (e FieldValidationErrors) Error() string {
	var messages []string
	for _, err := range e {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

var (
	emailRegex    = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	nameCharRegex = regexp.MustCompile(`[0-9!@#$%^&*(),.?":{}|<>]`)
)

// ValidateEmail checks if the email is well formed
func ValidateEmail(email string) (bool, string) {
	if !emailRegex.MatchString(email) {
		return false, "Invalid email format. Please enter a valid email address"
	}
	return true, ""
}

// FormatPhoneNumber formats and validates an Indian phone number
func FormatPhoneNumber(phone string) (string, error) {
	phone = strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)

	// Remove leading '0' or '91' if present
	if len(phone) == 11 && strings.HasPrefix(phone, "0") {
		phone = phone[1:]
	}
	if len(phone) == 12 && strings.HasPrefix(phone, "91") {
		phone = phone[2:]
	}

	if len(phone) != 10 {
		return "", fmt.Errorf("phone number must be exactly 10 digits")
	}
	if phone[0] < '6' || phone[0] > '9' {
		return "", fmt.Errorf("phone number must start with 6, 7, 8, or 9")
	}
	return phone, nil
}

// ValidateName checks a display name
func ValidateName(name string) (bool, string) {
	if len(strings.TrimSpace(name)) < 2 {
		return false, "Name must be at least 2 characters long"
	}
	if nameCharRegex.MatchString(name) {
		return false, "Name cannot contain numbers or special characters"
	}
	return true, ""
}

// ValidatePrefill checks the donor details shown pre-filled in the checkout
// widget. Empty fields are skipped.
func ValidatePrefill(name, email, contact string) error {
	var errs FieldValidationErrors
	if name != "" {
		if ok, msg := ValidateName(name); !ok {
			errs = append(errs, FieldValidationError{Field: "name", Message: msg})
		}
	}
	if email != "" {
		if ok, msg := ValidateEmail(email); !ok {
			errs = append(errs, FieldValidationError{Field: "email", Message: msg})
		}
	}
	if contact != "" {
		if _, err := FormatPhoneNumber(contact); err != nil {
			errs = append(errs, FieldValidationError{Field: "contact", Message: err.Error()})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}
