package model

import "time"

// ActionLog is an append-only audit record written by workflow mutations.
type ActionLog struct {
	ID      string    `db:"id"`
	Date    time.Time `db:"date"`
	Message string    `db:"message"`
}
