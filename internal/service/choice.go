package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
)

var (
	ErrNoApplication   = errors.New("you have not applied to any course in this event")
	ErrTooManyChoices  = errors.New("too many choices for this event")
	ErrDuplicateChoice = errors.New("the same course cannot be chosen twice")
	ErrInvalidChoice   = errors.New("invalid course choice")
	ErrChoiceNotOpen   = errors.New("chosen course is not open for application")
)

// ChoiceService maintains a person's ranked fallback choices within an event.
type ChoiceService struct {
	eventRepo  repository.EventRepository
	courseRepo repository.CourseRepository
	appRepo    repository.ApplicationRepository
	choiceRepo repository.ChoiceRepository
	audit      *AuditService
}

func NewChoiceService(
	eventRepo repository.EventRepository,
	courseRepo repository.CourseRepository,
	appRepo repository.ApplicationRepository,
	choiceRepo repository.ChoiceRepository,
	audit *AuditService,
) *ChoiceService {
	return &ChoiceService{
		eventRepo:  eventRepo,
		courseRepo: courseRepo,
		appRepo:    appRepo,
		choiceRepo: choiceRepo,
		audit:      audit,
	}
}

// EditChoices replaces the person's ranked choices for the event with the
// given ordered course list. This is a full replace, not an incremental
// edit: all prior choices are deleted and the new list inserted with
// choice_number 1..N sharing one timestamp. Submitting the same list twice
// leaves the same rows but writes fresh audit entries.
func (s *ChoiceService) EditChoices(userID, eventID string, orderedCourseIDs []string, remoteAddr string) error {
	event, err := s.eventRepo.ByID(eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return ErrEventNotFound
		}
		return err
	}

	app, err := s.appRepo.ByPersonAndEvent(userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrApplicationNotFound) {
			return ErrNoApplication
		}
		return err
	}

	if len(orderedCourseIDs) > event.AllowedChoiceNum {
		return fmt.Errorf("%w: at most %d allowed", ErrTooManyChoices, event.AllowedChoiceNum)
	}

	seen := make(map[string]bool, len(orderedCourseIDs))
	now := time.Now()
	for _, courseID := range orderedCourseIDs {
		if seen[courseID] {
			return ErrDuplicateChoice
		}
		seen[courseID] = true

		// The applied-to course is excluded from the candidate set.
		if courseID == app.CourseID {
			return fmt.Errorf("%w: %s is the course you applied to", ErrInvalidChoice, courseID)
		}

		course, err := s.courseRepo.ByID(courseID)
		if err != nil {
			if errors.Is(err, repository.ErrCourseNotFound) {
				return fmt.Errorf("%w: %s", ErrInvalidChoice, courseID)
			}
			return err
		}
		if course.EventID != eventID {
			return fmt.Errorf("%w: %s belongs to another event", ErrInvalidChoice, courseID)
		}
		if !course.CanBeApplied(now) {
			return fmt.Errorf("%w: %s", ErrChoiceNotOpen, course.DisplayName)
		}
	}

	previous, err := s.choiceRepo.ByPersonAndEvent(userID, eventID)
	if err != nil {
		return err
	}

	inserted, err := s.choiceRepo.ReplaceForEvent(userID, eventID, orderedCourseIDs, now)
	if err != nil {
		return fmt.Errorf("failed to save choices: %w", err)
	}

	for _, choice := range previous {
		s.audit.Record(fmt.Sprintf("choice deleted: event %s #%d -> course %s", choice.EventID, choice.ChoiceNumber, choice.CourseID), userID, remoteAddr)
	}
	for _, choice := range inserted {
		s.audit.Record(fmt.Sprintf("choice made: event %s #%d -> course %s", choice.EventID, choice.ChoiceNumber, choice.CourseID), userID, remoteAddr)
	}

	return nil
}

// Choices lists the person's ranked choices for the event in rank order.
func (s *ChoiceService) Choices(userID, eventID string) ([]*model.Choice, error) {
	return s.choiceRepo.ByPersonAndEvent(userID, eventID)
}
