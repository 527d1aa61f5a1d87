package validation

import "errors"

// commonPasswords are rejected regardless of length
var commonPasswords = map[string]bool{
	"password":     true,
	"123456789012": true,
	"qwertyuiop12": true,
	"password1234": true,
}

// ValidatePassword validates password strength
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return errors.New("password must be at least 12 characters")
	}

	if len(password) > 128 {
		return errors.New("password is too long (max 128 characters)")
	}

	if commonPasswords[password] {
		return errors.New("password is too common, please choose a stronger one")
	}

	return nil
}
