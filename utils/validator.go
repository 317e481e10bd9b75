// utils/validator.go - Input validation
package utils

import (
	"regexp"
	"strings"
)

// ValidateEmail checks if email is valid
func ValidateEmail(email string) bool {
	emailRegex := regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	return emailRegex.MatchString(email)
}

// ValidateRollNumber checks the roll-number shape used as the canonical
// student key: alphanumeric, 4 to 20 characters.
func ValidateRollNumber(rollNumber string) bool {
	rollRegex := regexp.MustCompile(`^[a-zA-Z0-9]{4,20}$`)
	return rollRegex.MatchString(rollNumber)
}

// SanitizeInput removes potentially harmful characters
func SanitizeInput(input string) string {
	// Remove leading/trailing spaces
	input = strings.TrimSpace(input)

	// Remove null bytes
	input = strings.ReplaceAll(input, "\x00", "")

	return input
}
