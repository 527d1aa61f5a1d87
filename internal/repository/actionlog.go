package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type ActionLogRepository interface {
	Create(entry *model.ActionLog) error
	Recent(limit int) ([]*model.ActionLog, error)
}

type actionLogRepository struct {
	db *sqlx.DB
}

func NewActionLogRepository(db *sqlx.DB) ActionLogRepository {
	return &actionLogRepository{db: db}
}

func (r *actionLogRepository) Create(entry *model.ActionLog) error {
	query := `INSERT INTO action_logs (id, date, message) VALUES ($1, $2, $3)`

	_, err := r.db.Exec(query, entry.ID, entry.Date, entry.Message)
	return err
}

func (r *actionLogRepository) Recent(limit int) ([]*model.ActionLog, error) {
	var entries []*model.ActionLog
	query := `SELECT * FROM action_logs ORDER BY date DESC LIMIT $1`

	err := r.db.Select(&entries, query, limit)
	if err != nil {
		return nil, err
	}

	return entries, nil
}
