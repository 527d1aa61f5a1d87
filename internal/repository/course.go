package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type CourseRepository interface {
	Create(course *model.Course) error
	ByID(id string) (*model.Course, error)
	ByEvent(eventID string) ([]*model.Course, error)
	ByIDs(ids []string) ([]*model.Course, error)
	Update(course *model.Course) error
	Delete(id string) error
	SetOpen(ids []string, isOpen bool) (int64, error)
}

type courseRepository struct {
	db *sqlx.DB
}

func NewCourseRepository(db *sqlx.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) Create(course *model.Course) error {
	query := `INSERT INTO courses (id, event_id, display_name, description, is_open, change_allowed_date, agreement, start_date, end_date, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.Exec(query,
		course.ID,
		course.EventID,
		course.DisplayName,
		course.Description,
		course.IsOpen,
		course.ChangeAllowedDate,
		course.Agreement,
		course.StartDate,
		course.EndDate,
		course.CreatedAt,
		course.UpdatedAt,
	)

	return err
}

func (r *courseRepository) ByID(id string) (*model.Course, error) {
	course := &model.Course{}
	query := `SELECT * FROM courses WHERE id = $1`

	err := r.db.Get(course, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrCourseNotFound
	}

	return course, err
}

func (r *courseRepository) ByEvent(eventID string) ([]*model.Course, error) {
	var courses []*model.Course
	query := `SELECT * FROM courses WHERE event_id = $1 ORDER BY start_date ASC, display_name ASC`

	err := r.db.Select(&courses, query, eventID)
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) ByIDs(ids []string) ([]*model.Course, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`SELECT * FROM courses WHERE id IN (?) ORDER BY display_name ASC`, ids)
	if err != nil {
		return nil, err
	}

	var courses []*model.Course
	err = r.db.Select(&courses, r.db.Rebind(query), args...)
	if err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) Update(course *model.Course) error {
	query := `UPDATE courses
	          SET display_name = $1, description = $2, is_open = $3, change_allowed_date = $4,
	              agreement = $5, start_date = $6, end_date = $7, updated_at = $8
	          WHERE id = $9`

	result, err := r.db.Exec(query,
		course.DisplayName,
		course.Description,
		course.IsOpen,
		course.ChangeAllowedDate,
		course.Agreement,
		course.StartDate,
		course.EndDate,
		time.Now(),
		course.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCourseNotFound
	}

	return nil
}

func (r *courseRepository) Delete(id string) error {
	result, err := r.db.Exec(`DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrCourseNotFound
	}

	return nil
}

// SetOpen flips the is_open flag on all given courses and returns how many
// rows changed.
func (r *courseRepository) SetOpen(ids []string, isOpen bool) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	query, args, err := sqlx.In(`UPDATE courses SET is_open = ?, updated_at = ? WHERE id IN (?)`, isOpen, time.Now(), ids)
	if err != nil {
		return 0, err
	}

	result, err := r.db.Exec(r.db.Rebind(query), args...)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}
