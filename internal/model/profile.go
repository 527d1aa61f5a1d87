package model

import "time"

// Profile holds the contact details collected at registration time, one per
// user. Mobile and Phone are 10-digit numbers without country code.
type Profile struct {
	ID             string    `db:"id"`
	UserID         string    `db:"user_id"`
	Name           string    `db:"name"`
	Company        string    `db:"company"`
	ContactAddress string    `db:"contact_address"`
	Mobile         string    `db:"mobile"`
	Phone          string    `db:"phone"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
}
