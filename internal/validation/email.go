package validation

import (
	"errors"
	"net/mail"
	"strings"
)

// ValidateEmail validates an email address format
func ValidateEmail(email string) error {
	trimmed := strings.TrimSpace(email)

	if trimmed == "" {
		return errors.New("email is required")
	}

	if len(trimmed) > 254 {
		return errors.New("email is too long")
	}

	_, err := mail.ParseAddress(trimmed)
	if err != nil {
		return errors.New("invalid email address")
	}

	return nil
}
