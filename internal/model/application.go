package model

import "time"

// Application is a user's claim to attend one course within an event.
// EventID is denormalized from the course so the one-application-per-event
// rule can be enforced with a unique index instead of a check-then-insert.
type Application struct {
	ID              string     `db:"id"`
	PersonID        string     `db:"person_id"`
	CourseID        string     `db:"course_id"`
	EventID         string     `db:"event_id"`
	ApplicationDate time.Time  `db:"application_date"`
	Approved        bool       `db:"approved"`
	ApprovedBy      *string    `db:"approved_by"`
	ApproveDate     *time.Time `db:"approve_date"`
}
