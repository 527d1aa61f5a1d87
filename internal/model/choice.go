package model

import "time"

// Choice is a ranked fallback course a user would accept if not admitted to
// their primary application. ChoiceNumber is 1-based; all choices written in
// one edit share the same LastUpdate timestamp.
type Choice struct {
	ID           string    `db:"id"`
	PersonID     string    `db:"person_id"`
	EventID      string    `db:"event_id"`
	ChoiceNumber int       `db:"choice_number"`
	CourseID     string    `db:"course_id"`
	LastUpdate   time.Time `db:"last_update"`
}
