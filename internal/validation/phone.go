package validation

import (
	"errors"
	"strings"
)

// ValidatePhone validates a 10-digit phone number without country code,
// e.g. "2165554433". Empty values are allowed; not everyone has a landline.
func ValidatePhone(phone string) error {
	trimmed := strings.TrimSpace(phone)
	if trimmed == "" {
		return nil
	}

	if len(trimmed) != 10 {
		return errors.New("phone number must be 10 digits (e.g. 2165554433)")
	}

	for _, r := range trimmed {
		if r < '0' || r > '9' {
			return errors.New("phone number must contain only digits")
		}
	}

	return nil
}
