package repository

import (
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/lkd-web/kurs/internal/model"
)

type PermitRepository interface {
	Create(permit *model.Permit) error
	ByApplicationID(applicationID string) (*model.Permit, error)
	Update(permit *model.Permit) error
}

type permitRepository struct {
	db *sqlx.DB
}

func NewPermitRepository(db *sqlx.DB) PermitRepository {
	return &permitRepository{db: db}
}

func (r *permitRepository) Create(permit *model.Permit) error {
	query := `INSERT INTO application_permits (id, application_id, filename, original_name, mime_type, size, storage_path, upload_date)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.Exec(query,
		permit.ID,
		permit.ApplicationID,
		permit.Filename,
		permit.OriginalName,
		permit.MimeType,
		permit.Size,
		permit.StoragePath,
		permit.UploadDate,
	)

	return err
}

func (r *permitRepository) ByApplicationID(applicationID string) (*model.Permit, error) {
	permit := &model.Permit{}
	query := `SELECT * FROM application_permits WHERE application_id = $1`

	err := r.db.Get(permit, query, applicationID)
	if err == sql.ErrNoRows {
		return nil, ErrPermitNotFound
	}

	return permit, err
}

func (r *permitRepository) Update(permit *model.Permit) error {
	query := `UPDATE application_permits
	          SET filename = $1, original_name = $2, mime_type = $3, size = $4, storage_path = $5, upload_date = $6
	          WHERE id = $7`

	result, err := r.db.Exec(query,
		permit.Filename,
		permit.OriginalName,
		permit.MimeType,
		permit.Size,
		permit.StoragePath,
		permit.UploadDate,
		permit.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrPermitNotFound
	}

	return nil
}
