package model

import "time"

// Event is a top-level gathering with several courses. AllowedChoiceNum caps
// how many ranked fallback choices a user may make within the event.
type Event struct {
	ID               string    `db:"id"`
	DisplayName      string    `db:"display_name"`
	Venue            string    `db:"venue"`
	AllowedChoiceNum int       `db:"allowed_choice_num"`
	CreatedAt        time.Time `db:"created_at"`
	UpdatedAt        time.Time `db:"updated_at"`
}
