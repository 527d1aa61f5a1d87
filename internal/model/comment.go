package model

import "time"

// UserComment is a free-text note an administrator attaches to a user.
type UserComment struct {
	ID      string    `db:"id"`
	UserID  string    `db:"user_id"`
	AdminID string    `db:"admin_id"`
	Comment string    `db:"comment"`
	Date    time.Time `db:"date"`
}
