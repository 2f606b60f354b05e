package utils

import (
	"fmt"
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

// FormatPhoneNumber formats and validates an Indian phone number
func FormatPhoneNumber(phone string) (string, error) {
	// Remove all non-digit characters
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
