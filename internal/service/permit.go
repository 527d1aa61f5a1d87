package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/storage"
	"github.com/lkd-web/kurs/internal/validation"
)

var (
	ErrPermitNotFound = errors.New("permit not found")
	ErrInvalidFile    = errors.New("invalid permit file")
)

// PermitService attaches one uploaded document to an application. Uploading
// again replaces the previous file.
type PermitService struct {
	permitRepo repository.PermitRepository
	appRepo    repository.ApplicationRepository
	storage    storage.Storage
	audit      *AuditService
	maxSize    int64
}

func NewPermitService(
	permitRepo repository.PermitRepository,
	appRepo repository.ApplicationRepository,
	storage storage.Storage,
	audit *AuditService,
	maxSize int64,
) *PermitService {
	return &PermitService{
		permitRepo: permitRepo,
		appRepo:    appRepo,
		storage:    storage,
		audit:      audit,
		maxSize:    maxSize,
	}
}

// Upload validates and stores a permit file for the person's application.
// An existing permit is replaced: new file first, row update second, old
// file deleted last, so a failure never loses the only copy.
func (s *PermitService) Upload(userID, applicationID string, file multipart.File, header *multipart.FileHeader, remoteAddr string) (*model.Permit, error) {
	app, err := s.appRepo.ByIDForPerson(userID, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	err = validation.ValidateFile(header, validation.PermitConstraints(s.maxSize))
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidFile, err.Error())
	}

	now := time.Now()
	ext := strings.ToLower(filepath.Ext(header.Filename))
	filename := uuid.New().String() + ext
	// Date-partitioned path, e.g. permits/2026/09/01/<uuid>.pdf
	storagePath := fmt.Sprintf("permits/%s/%s", now.Format("2006/01/02"), filename)

	err = s.storage.Save(storagePath, file)
	if err != nil {
		return nil, fmt.Errorf("failed to save permit file: %w", err)
	}

	existing, err := s.permitRepo.ByApplicationID(app.ID)
	if err != nil && !errors.Is(err, repository.ErrPermitNotFound) {
		s.cleanupUpload(storagePath)
		return nil, err
	}

	if existing != nil {
		oldPath := existing.StoragePath

		existing.Filename = filename
		existing.OriginalName = header.Filename
		existing.MimeType = header.Header.Get("Content-Type")
		existing.Size = header.Size
		existing.StoragePath = storagePath
		existing.UploadDate = now

		err = s.permitRepo.Update(existing)
		if err != nil {
			s.cleanupUpload(storagePath)
			return nil, fmt.Errorf("failed to update permit record: %w", err)
		}

		delErr := s.storage.Delete(oldPath)
		if delErr != nil {
			slog.Warn("failed to delete replaced permit file", "error", delErr, "path", oldPath)
		}

		s.audit.Record(fmt.Sprintf("permit replaced: application %s file %s", app.ID, header.Filename), userID, remoteAddr)
		return existing, nil
	}

	permit := &model.Permit{
		ID:            uuid.New().String(),
		ApplicationID: app.ID,
		Filename:      filename,
		OriginalName:  header.Filename,
		MimeType:      header.Header.Get("Content-Type"),
		Size:          header.Size,
		StoragePath:   storagePath,
		UploadDate:    now,
	}

	err = s.permitRepo.Create(permit)
	if err != nil {
		s.cleanupUpload(storagePath)
		return nil, fmt.Errorf("failed to create permit record: %w", err)
	}

	s.audit.Record(fmt.Sprintf("permit uploaded: application %s file %s", app.ID, header.Filename), userID, remoteAddr)
	return permit, nil
}

// Permit returns the permit for the person's application.
func (s *PermitService) Permit(userID, applicationID string) (*model.Permit, error) {
	_, err := s.appRepo.ByIDForPerson(userID, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}

	permit, err := s.permitRepo.ByApplicationID(applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrPermitNotFound) {
			return nil, ErrPermitNotFound
		}
		return nil, err
	}

	return permit, nil
}

// URL returns a download URL for the permit file.
func (s *PermitService) URL(permit *model.Permit) string {
	if permit == nil {
		return ""
	}
	return s.storage.URL(permit.StoragePath)
}

func (s *PermitService) cleanupUpload(path string) {
	err := s.storage.Delete(path)
	if err != nil {
		slog.Error("failed to delete permit file during cleanup", "error", err, "path", path)
	}
}
