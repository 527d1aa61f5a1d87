package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type EventRepository interface {
	Create(event *model.Event) error
	ByID(id string) (*model.Event, error)
	Events() ([]*model.Event, error)
	Update(event *model.Event) error
	Delete(id string) error
}

type eventRepository struct {
	db *sqlx.DB
}

func NewEventRepository(db *sqlx.DB) EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(event *model.Event) error {
	query := `INSERT INTO events (id, display_name, venue, allowed_choice_num, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.Exec(query,
		event.ID,
		event.DisplayName,
		event.Venue,
		event.AllowedChoiceNum,
		event.CreatedAt,
		event.UpdatedAt,
	)

	return err
}

func (r *eventRepository) ByID(id string) (*model.Event, error) {
	event := &model.Event{}
	query := `SELECT * FROM events WHERE id = $1`

	err := r.db.Get(event, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrEventNotFound
	}

	return event, err
}

func (r *eventRepository) Events() ([]*model.Event, error) {
	var events []*model.Event
	query := `SELECT * FROM events ORDER BY created_at DESC`

	err := r.db.Select(&events, query)
	if err != nil {
		return nil, err
	}

	return events, nil
}

func (r *eventRepository) Update(event *model.Event) error {
	query := `UPDATE events
	          SET display_name = $1, venue = $2, allowed_choice_num = $3, updated_at = $4
	          WHERE id = $5`

	result, err := r.db.Exec(query,
		event.DisplayName,
		event.Venue,
		event.AllowedChoiceNum,
		time.Now(),
		event.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}

// Delete removes the event; courses cascade via the schema.
func (r *eventRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrEventNotFound
	}

	return nil
}
