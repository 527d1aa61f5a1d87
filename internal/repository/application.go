package repository

import (
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

// ApplicationFilter narrows admin application listings. Nil fields match
// everything.
type ApplicationFilter struct {
	EventID   string
	Approved  *bool
	HasPermit *bool
}

type ApplicationRepository interface {
	Create(app *model.Application) error
	ByID(id string) (*model.Application, error)
	ByIDForPerson(personID, id string) (*model.Application, error)
	ByPersonAndEvent(personID, eventID string) (*model.Application, error)
	CountByPersonAndEvent(personID, eventID string) (int, error)
	CountByPersonAndCourse(personID, courseID string) (int, error)
	ListByPerson(personID string) ([]*model.Application, error)
	List(filter ApplicationFilter) ([]*model.Application, error)
	Update(app *model.Application) error
	DeleteCascade(personID, id, eventID string) error
}

type applicationRepository struct {
	db *sqlx.DB
}

func NewApplicationRepository(db *sqlx.DB) ApplicationRepository {
	return &applicationRepository{db: db}
}

func (r *applicationRepository) Create(app *model.Application) error {
	query := `INSERT INTO applications (id, person_id, course_id, event_id, application_date, approved, approved_by, approve_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		app.ID,
		app.PersonID,
		app.CourseID,
		app.EventID,
		app.ApplicationDate,
		app.Approved,
		app.ApprovedBy,
		app.ApproveDate,
	)
	if err != nil {
		// UNIQUE(person_id, event_id) closes the check-then-insert race:
		// two concurrent applies in one event cannot both commit.
		if isUniqueViolation(err) {
			return ErrDuplicateApplication
		}
		return err
	}

	return nil
}

func (r *applicationRepository) ByID(id string) (*model.Application, error) {
	app := &model.Application{}
	query := `SELECT * FROM applications WHERE id = $1`

	err := r.db.Get(app, query, id)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}

	return app, err
}

func (r *applicationRepository) ByIDForPerson(personID, id string) (*model.Application, error) {
	app := &model.Application{}
	query := `SELECT * FROM applications WHERE id = $1 AND person_id = $2`

	err := r.db.Get(app, query, id, personID)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}

	return app, err
}

func (r *applicationRepository) ByPersonAndEvent(personID, eventID string) (*model.Application, error) {
	app := &model.Application{}
	query := `SELECT * FROM applications WHERE person_id = $1 AND event_id = $2`

	err := r.db.Get(app, query, personID, eventID)
	if err == sql.ErrNoRows {
		return nil, ErrApplicationNotFound
	}

	return app, err
}

func (r *applicationRepository) CountByPersonAndEvent(personID, eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM applications WHERE person_id = $1 AND event_id = $2`
	err := r.db.QueryRow(query, personID, eventID).Scan(&count)
	return count, err
}

func (r *applicationRepository) CountByPersonAndCourse(personID, courseID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM applications WHERE person_id = $1 AND course_id = $2`
	err := r.db.QueryRow(query, personID, courseID).Scan(&count)
	return count, err
}

func (r *applicationRepository) ListByPerson(personID string) ([]*model.Application, error) {
	var apps []*model.Application
	query := `SELECT * FROM applications WHERE person_id = $1 ORDER BY application_date DESC`

	err := r.db.Select(&apps, query, personID)
	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *applicationRepository) List(filter ApplicationFilter) ([]*model.Application, error) {
	query := `SELECT a.* FROM applications a`
	var clauses []string
	var args []interface{}
	n := 1

	if filter.HasPermit != nil {
		query += ` LEFT JOIN application_permits p ON p.application_id = a.id`
		if *filter.HasPermit {
			clauses = append(clauses, `p.id IS NOT NULL`)
		} else {
			clauses = append(clauses, `p.id IS NULL`)
		}
	}
	if filter.EventID != "" {
		clauses = append(clauses, fmt.Sprintf(`a.event_id = $%d`, n))
		args = append(args, filter.EventID)
		n++
	}
	if filter.Approved != nil {
		clauses = append(clauses, fmt.Sprintf(`a.approved = $%d`, n))
		args = append(args, *filter.Approved)
		n++
	}

	for i, clause := range clauses {
		if i == 0 {
			query += ` WHERE ` + clause
		} else {
			query += ` AND ` + clause
		}
	}
	query += ` ORDER BY a.application_date DESC`

	var apps []*model.Application
	err := r.db.Select(&apps, query, args...)
	if err != nil {
		return nil, err
	}

	return apps, nil
}

func (r *applicationRepository) Update(app *model.Application) error {
	query := `UPDATE applications
	          SET approved = $1, approved_by = $2, approve_date = $3
	          WHERE id = $4`

	result, err := r.db.Exec(query, app.Approved, app.ApprovedBy, app.ApproveDate, app.ID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrApplicationNotFound
	}

	return nil
}

// DeleteCascade removes the application together with the person's ranked
// choices for the event and the permit row, in one transaction. Partial
// deletion (permit gone but application kept) must not be observable.
func (r *applicationRepository) DeleteCascade(personID, id, eventID string) error {
	tx, err := r.db.Beginx()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.Exec(`DELETE FROM application_choices WHERE person_id = $1 AND event_id = $2`, personID, eventID)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`DELETE FROM application_permits WHERE application_id = $1`, id)
	if err != nil {
		return err
	}

	result, err := tx.Exec(`DELETE FROM applications WHERE id = $1 AND person_id = $2`, id, personID)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrApplicationNotFound
	}

	return tx.Commit()
}
