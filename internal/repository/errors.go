package repository

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrProfileNotFound      = errors.New("profile not found")
	ErrEventNotFound        = errors.New("event not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrDuplicateApplication = errors.New("application already exists for this event")
	ErrPermitNotFound       = errors.New("permit not found")
)

// isUniqueViolation reports whether err is a unique constraint violation,
// for both the sqlite and pgx drivers.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
