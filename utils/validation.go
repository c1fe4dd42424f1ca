// utils/validation.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"regexp"
	"strings"
)

var clientIDPattern = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)

// ValidateClientID checks the legacy directory id format: 24 hexadecimal
// characters. Existence of the client is not verified here.
func ValidateClientID(id string) bool {
	return clientIDPattern.MatchString(id)
}

// NewObjectID mints a fresh 24-character hex identifier in the same format.
func NewObjectID() string {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		panic("failed to generate object id")
	}
	return hex.EncodeToString(buf)
}

// ValidatePhone checks if a phone number is in a valid international format
func ValidatePhone(phone string) bool {
	// Clean the phone number
	cleaned := strings.ReplaceAll(phone, " ", "")
	cleaned = strings.ReplaceAll(cleaned, "-", "")
	cleaned = strings.ReplaceAll(cleaned, "(", "")
	cleaned = strings.ReplaceAll(cleaned, ")", "")

	// Allows + prefix followed by 7-15 digits
	regex := `^\+?[1-9]\d{1,14}$`
	match, _ := regexp.MatchString(regex, cleaned)
	return match
}
