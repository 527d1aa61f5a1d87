package service

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
)

var (
	ErrAlreadyApproved = errors.New("application already approved")
	ErrNotApproved     = errors.New("application not approved")
	ErrNoCoursesMatch  = errors.New("no courses match the given ids")
)

// CourseStatusPreview summarizes a pending bulk open or close so the
// operator can confirm before anything changes.
type CourseStatusPreview struct {
	Courses []*model.Course
	Total   int
}

// AdminService covers the back office: catalog management, bulk course
// status flips, application approval and per-user comments. Every mutation
// is recorded in the audit log.
type AdminService struct {
	eventRepo   repository.EventRepository
	courseRepo  repository.CourseRepository
	appRepo     repository.ApplicationRepository
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	commentRepo repository.UserCommentRepository
	audit       *AuditService
	email       *EmailService
}

func NewAdminService(
	eventRepo repository.EventRepository,
	courseRepo repository.CourseRepository,
	appRepo repository.ApplicationRepository,
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	commentRepo repository.UserCommentRepository,
	audit *AuditService,
	email *EmailService,
) *AdminService {
	return &AdminService{
		eventRepo:   eventRepo,
		courseRepo:  courseRepo,
		appRepo:     appRepo,
		userRepo:    userRepo,
		profileRepo: profileRepo,
		commentRepo: commentRepo,
		audit:       audit,
		email:       email,
	}
}

func (s *AdminService) CreateEvent(displayName, venue string, allowedChoiceNum int, actor, remoteAddr string) (*model.Event, error) {
	if allowedChoiceNum < 0 {
		return nil, fmt.Errorf("allowed choice num must not be negative")
	}

	now := time.Now()
	event := &model.Event{
		ID:               uuid.New().String(),
		DisplayName:      displayName,
		Venue:            venue,
		AllowedChoiceNum: allowedChoiceNum,
		CreatedAt:        now,
		UpdatedAt:        now,
	}

	err := s.eventRepo.Create(event)
	if err != nil {
		return nil, err
	}

	s.audit.Record(fmt.Sprintf("event created: %s (%s)", event.DisplayName, event.ID), actor, remoteAddr)
	return event, nil
}

func (s *AdminService) UpdateEvent(event *model.Event, actor, remoteAddr string) error {
	if event.AllowedChoiceNum < 0 {
		return fmt.Errorf("allowed choice num must not be negative")
	}

	event.UpdatedAt = time.Now()
	err := s.eventRepo.Update(event)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	s.audit.Record(fmt.Sprintf("event updated: %s (%s)", event.DisplayName, event.ID), actor, remoteAddr)
	return nil
}

// DeleteEvent removes an event and, through the schema, its courses,
// applications and choices.
func (s *AdminService) DeleteEvent(id, actor, remoteAddr string) error {
	event, err := s.eventRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	err = s.eventRepo.Delete(id)
	if err != nil {
		return err
	}

	s.audit.Record(fmt.Sprintf("event deleted: %s (%s)", event.DisplayName, event.ID), actor, remoteAddr)
	return nil
}

func (s *AdminService) CreateCourse(course *model.Course, actor, remoteAddr string) error {
	_, err := s.eventRepo.ByID(course.EventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	now := time.Now()
	if course.ID == "" {
		course.ID = uuid.New().String()
	}
	course.CreatedAt = now
	course.UpdatedAt = now

	err = s.courseRepo.Create(course)
	if err != nil {
		return err
	}

	s.audit.Record(fmt.Sprintf("course created: %s (%s)", course.DisplayName, course.ID), actor, remoteAddr)
	return nil
}

func (s *AdminService) UpdateCourse(course *model.Course, actor, remoteAddr string) error {
	course.UpdatedAt = time.Now()
	err := s.courseRepo.Update(course)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	s.audit.Record(fmt.Sprintf("course updated: %s (%s)", course.DisplayName, course.ID), actor, remoteAddr)
	return nil
}

func (s *AdminService) DeleteCourse(id, actor, remoteAddr string) error {
	course, err := s.courseRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	err = s.courseRepo.Delete(id)
	if err != nil {
		return err
	}

	s.audit.Record(fmt.Sprintf("course deleted: %s (%s)", course.DisplayName, course.ID), actor, remoteAddr)
	return nil
}

// PreviewCoursesStatus resolves the ids to courses without changing
// anything. This is the first half of the confirm flow.
func (s *AdminService) PreviewCoursesStatus(ids []string) (*CourseStatusPreview, error) {
	courses, err := s.courseRepo.ByIDs(ids)
	if err != nil {
		return nil, err
	}
	if len(courses) == 0 {
		return nil, ErrNoCoursesMatch
	}

	return &CourseStatusPreview{
		Courses: courses,
		Total:   len(courses),
	}, nil
}

// SetCoursesOpen flips is_open on every matching course and returns how
// many rows changed.
func (s *AdminService) SetCoursesOpen(ids []string, isOpen bool, actor, remoteAddr string) (int64, error) {
	count, err := s.courseRepo.SetOpen(ids, isOpen)
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, ErrNoCoursesMatch
	}

	verb := "closed"
	if isOpen {
		verb = "opened"
	}
	s.audit.Record(fmt.Sprintf("%d courses %s for application", count, verb), actor, remoteAddr)
	return count, nil
}

func (s *AdminService) ListApplications(filter repository.ApplicationFilter) ([]*model.Application, error) {
	return s.appRepo.List(filter)
}

// Approve marks the application approved by the given admin and notifies
// the applicant. A second approval is rejected.
func (s *AdminService) Approve(applicationID, adminID, remoteAddr string) (*model.Application, error) {
	app, err := s.appRepo.ByID(applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if app.Approved {
		return nil, ErrAlreadyApproved
	}

	now := time.Now()
	app.Approved = true
	app.ApprovedBy = &adminID
	app.ApproveDate = &now

	err = s.appRepo.Update(app)
	if err != nil {
		return nil, err
	}

	s.audit.Record(fmt.Sprintf("application approved: %s person %s", app.ID, app.PersonID), adminID, remoteAddr)
	s.sendApprovalEmail(app)
	return app, nil
}

// Unapprove clears the approval fields so the applicant may cancel again.
func (s *AdminService) Unapprove(applicationID, adminID, remoteAddr string) (*model.Application, error) {
	app, err := s.appRepo.ByID(applicationID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !app.Approved {
		return nil, ErrNotApproved
	}

	app.Approved = false
	app.ApprovedBy = nil
	app.ApproveDate = nil

	err = s.appRepo.Update(app)
	if err != nil {
		return nil, err
	}

	s.audit.Record(fmt.Sprintf("application unapproved: %s person %s", app.ID, app.PersonID), adminID, remoteAddr)
	return app, nil
}

func (s *AdminService) AddUserComment(userID, adminID, comment, remoteAddr string) (*model.UserComment, error) {
	_, err := s.userRepo.ByID(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	entry := &model.UserComment{
		ID:      uuid.New().String(),
		UserID:  userID,
		AdminID: adminID,
		Comment: comment,
		Date:    time.Now(),
	}

	err = s.commentRepo.Create(entry)
	if err != nil {
		return nil, err
	}

	s.audit.Record(fmt.Sprintf("comment added for user %s", userID), adminID, remoteAddr)
	return entry, nil
}

func (s *AdminService) UserComments(userID string) ([]*model.UserComment, error) {
	return s.commentRepo.ByUser(userID)
}

func (s *AdminService) RecentLogs(limit int) ([]*model.ActionLog, error) {
	return s.audit.Recent(limit)
}

func (s *AdminService) sendApprovalEmail(app *model.Application) {
	user, err := s.userRepo.ByID(app.PersonID)
	if err != nil {
		slog.Warn("failed to load user for approval email", "error", err, "user_id", app.PersonID)
		return
	}

	name := user.Email
	profile, err := s.profileRepo.ByUserID(user.ID)
	if err == nil {
		name = profile.Name
	}

	courseName := ""
	eventName := ""
	course, err := s.courseRepo.ByID(app.CourseID)
	if err == nil {
		courseName = course.DisplayName
		event, err := s.eventRepo.ByID(course.EventID)
		if err == nil {
			eventName = event.DisplayName
		}
	}

	err = s.email.SendApplicationApprovedEmail(user.Email, name, courseName, eventName)
	if err != nil {
		slog.Warn("failed to send approval email", "error", err, "user_id", user.ID)
	}
}
