package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type ChoiceRepository interface {
	ByPersonAndEvent(personID, eventID string) ([]*model.Choice, error)
	ReplaceForEvent(personID, eventID string, courseIDs []string, now time.Time) ([]*model.Choice, error)
}

type choiceRepository struct {
	db *sqlx.DB
}

func NewChoiceRepository(db *sqlx.DB) ChoiceRepository {
	return &choiceRepository{db: db}
}

func (r *choiceRepository) ByPersonAndEvent(personID, eventID string) ([]*model.Choice, error) {
	var choices []*model.Choice
	query := `SELECT * FROM application_choices WHERE person_id = $1 AND event_id = $2 ORDER BY choice_number ASC`

	err := r.db.Select(&choices, query, personID, eventID)
	if err != nil {
		return nil, err
	}

	return choices, nil
}

// ReplaceForEvent deletes all choices of the person for the event and inserts
// the new ordered list in one transaction. choice_number is the 1-based
// position; every inserted row shares the same last_update timestamp.
func (r *choiceRepository) ReplaceForEvent(personID, eventID string, courseIDs []string, now time.Time) ([]*model.Choice, error) {
	tx, err := r.db.Beginx()
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`DELETE FROM application_choices WHERE person_id = $1 AND event_id = $2`, personID, eventID)
	if err != nil {
		return nil, err
	}

	inserted := make([]*model.Choice, 0, len(courseIDs))
	for i, courseID := range courseIDs {
		choice := &model.Choice{
			ID:           uuid.New().String(),
			PersonID:     personID,
			EventID:      eventID,
			ChoiceNumber: i + 1,
			CourseID:     courseID,
			LastUpdate:   now,
		}

		_, err = tx.Exec(`INSERT INTO application_choices (id, person_id, event_id, choice_number, course_id, last_update)
		                  VALUES ($1, $2, $3, $4, $5, $6)`,
			choice.ID, choice.PersonID, choice.EventID, choice.ChoiceNumber, choice.CourseID, choice.LastUpdate)
		if err != nil {
			return nil, err
		}

		inserted = append(inserted, choice)
	}

	err = tx.Commit()
	if err != nil {
		return nil, err
	}

	return inserted, nil
}
