package model

import "time"

type Course struct {
	ID                string    `db:"id"`
	EventID           string    `db:"event_id"`
	DisplayName       string    `db:"display_name"`
	Description       string    `db:"description"`
	IsOpen            bool      `db:"is_open"`
	ChangeAllowedDate time.Time `db:"change_allowed_date"`
	Agreement         string    `db:"agreement"`
	StartDate         time.Time `db:"start_date"`
	EndDate           time.Time `db:"end_date"`
	CreatedAt         time.Time `db:"created_at"`
	UpdatedAt         time.Time `db:"updated_at"`
}

// CanBeApplied reports whether the course accepts applications and choice
// changes at the given time.
func (c *Course) CanBeApplied(now time.Time) bool {
	return c.IsOpen && !now.After(c.ChangeAllowedDate)
}
