package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/storage"
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrCourseNotFound       = errors.New("course not found")
	ErrApplicationNotFound  = errors.New("application not found")
	ErrCourseClosed         = errors.New("course is not open for application")
	ErrDuplicateApplication = errors.New("you can only apply to one course per event")
	ErrApplicationApproved  = errors.New("an approved application cannot be cancelled")
)

// ApplicationService implements the apply/cancel workflow: one application
// per event, cancellation cascades to ranked choices and the permit.
type ApplicationService struct {
	appRepo    repository.ApplicationRepository
	courseRepo repository.CourseRepository
	choiceRepo repository.ChoiceRepository
	permitRepo repository.PermitRepository
	storage    storage.Storage
	audit      *AuditService
}

func NewApplicationService(
	appRepo repository.ApplicationRepository,
	courseRepo repository.CourseRepository,
	choiceRepo repository.ChoiceRepository,
	permitRepo repository.PermitRepository,
	storage storage.Storage,
	audit *AuditService,
) *ApplicationService {
	return &ApplicationService{
		appRepo:    appRepo,
		courseRepo: courseRepo,
		choiceRepo: choiceRepo,
		permitRepo: permitRepo,
		storage:    storage,
		audit:      audit,
	}
}

// Apply creates an application for the course. The application deadline is
// always enforced, and a person can hold only one application per event.
func (s *ApplicationService) Apply(userID, courseID, remoteAddr string) (*model.Application, error) {
	course, err := s.courseRepo.ByID(courseID)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}

	if !course.CanBeApplied(time.Now()) {
		return nil, ErrCourseClosed
	}

	// Friendly pre-check; the UNIQUE(person_id, event_id) index is what
	// actually guarantees the invariant under concurrent requests.
	count, err := s.appRepo.CountByPersonAndEvent(userID, course.EventID)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateApplication
	}

	app := &model.Application{
		ID:              uuid.New().String(),
		PersonID:        userID,
		CourseID:        course.ID,
		EventID:         course.EventID,
		ApplicationDate: time.Now(),
		Approved:        false,
	}

	err = s.appRepo.Create(app)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateApplication) {
			return nil, ErrDuplicateApplication
		}
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	s.audit.Record(fmt.Sprintf("application created: %s -> %s", userID, course.DisplayName), userID, remoteAddr)

	return app, nil
}

// Cancel deletes an unapproved application together with the person's ranked
// choices for the event and the permit. The rows go in one transaction; the
// stored permit file is removed after commit, best effort.
func (s *ApplicationService) Cancel(userID, applicationID, remoteAddr string) error {
	app, err := s.appRepo.ByIDForPerson(userID, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return err
	}

	if app.Approved {
		return ErrApplicationApproved
	}

	// Fetched up front so each deletion can be audit-logged afterwards.
	choices, err := s.choiceRepo.ByPersonAndEvent(userID, app.EventID)
	if err != nil {
		return err
	}

	permit, err := s.permitRepo.ByApplicationID(app.ID)
	if err != nil && !errors.Is(err, repository.ErrPermitNotFound) {
		return err
	}

	err = s.appRepo.DeleteCascade(userID, app.ID, app.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrApplicationNotFound
		}
		return fmt.Errorf("failed to cancel application: %w", err)
	}

	if permit != nil {
		delErr := s.storage.Delete(permit.StoragePath)
		if delErr != nil {
			slog.Warn("failed to delete permit file from storage", "error", delErr, "path", permit.StoragePath)
		}
		s.audit.Record(fmt.Sprintf("permit deleted: application %s", app.ID), userID, remoteAddr)
	}

	for _, choice := range choices {
		s.audit.Record(fmt.Sprintf("choice deleted: event %s #%d -> course %s", choice.EventID, choice.ChoiceNumber, choice.CourseID), userID, remoteAddr)
	}

	s.audit.Record(fmt.Sprintf("application deleted: %s -> course %s", userID, app.CourseID), userID, remoteAddr)

	return nil
}

// Applications lists the person's applications, newest first.
func (s *ApplicationService) Applications(userID string) ([]*model.Application, error) {
	return s.appRepo.ListByPerson(userID)
}

// Application returns one application owned by the person.
func (s *ApplicationService) Application(userID, applicationID string) (*model.Application, error) {
	app, err := s.appRepo.ByIDForPerson(userID, applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return app, nil
}
