package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type UserCommentRepository interface {
	Create(comment *model.UserComment) error
	ByUser(userID string) ([]*model.UserComment, error)
}

type userCommentRepository struct {
	db *sqlx.DB
}

func NewUserCommentRepository(db *sqlx.DB) UserCommentRepository {
	return &userCommentRepository{db: db}
}

func (r *userCommentRepository) Create(comment *model.UserComment) error {
	query := `INSERT INTO user_comments (id, user_id, admin_id, comment, date) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.Exec(query, comment.ID, comment.UserID, comment.AdminID, comment.Comment, comment.Date)
	return err
}

func (r *userCommentRepository) ByUser(userID string) ([]*model.UserComment, error) {
	var comments []*model.UserComment
	query := `SELECT * FROM user_comments WHERE user_id = $1 ORDER BY date DESC`

	err := r.db.Select(&comments, query, userID)
	if err != nil {
		return nil, err
	}

	return comments, nil
}
