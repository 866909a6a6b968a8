// utils/validation.go
package utils

import (
	"regexp"
	"strings"
)

var phonePattern = regexp.MustCompile(`^\+?[1-9]\d{1,14}$`)

// CleanPhone strips the separators people type into phone numbers.
func CleanPhone(phone string) string {
	cleaned := strings.TrimSpace(phone)
	for _, sep := range []string{" ", "-", "(", ")"} {
		cleaned = strings.ReplaceAll(cleaned, sep, "")
	}
	return cleaned
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	return phonePattern.MatchString(CleanPhone(phone))
}
