package service

import (
	"errors"
	"strings"
	"time"

	"github.com/lkd-web/kurs/internal/markdown"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// CatalogService serves the public event and course listings.
type CatalogService struct {
	eventRepo  repository.EventRepository
	courseRepo repository.CourseRepository
	appRepo    repository.ApplicationRepository
	parser     *markdown.Parser
	lowerer    cases.Caser
}

// CourseDetail is a course with its rendered text and the viewer's
// application state.
type CourseDetail struct {
	Course               *model.Course
	DescriptionHTML      string
	AgreementHTML        string
	CanBeApplied         bool
	HasApplied           bool
	PreviousApplications int
}

func NewCatalogService(
	eventRepo repository.EventRepository,
	courseRepo repository.CourseRepository,
	appRepo repository.ApplicationRepository,
	parser *markdown.Parser,
) *CatalogService {
	return &CatalogService{
		eventRepo:  eventRepo,
		courseRepo: courseRepo,
		appRepo:    appRepo,
		parser:     parser,
		lowerer:    cases.Lower(language.Turkish),
	}
}

func (s *CatalogService) Events() ([]*model.Event, error) {
	return s.eventRepo.Events()
}

func (s *CatalogService) Event(id string) (*model.Event, error) {
	event, err := s.eventRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}
	return event, nil
}

// CoursesByEvent lists an event's courses, optionally filtered by a
// case-insensitive name search. Lowercasing is locale-aware so dotted and
// dotless I match what Turkish users type.
func (s *CatalogService) CoursesByEvent(eventID, search string) ([]*model.Course, error) {
	_, err := s.eventRepo.ByID(eventID)
	if err != nil {
		if errors.Is(err, repository.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, err
	}

	courses, err := s.courseRepo.ByEvent(eventID)
	if err != nil {
		return nil, err
	}

	search = strings.TrimSpace(search)
	if search == "" {
		return courses, nil
	}

	needle := s.lowerer.String(search)
	filtered := make([]*model.Course, 0, len(courses))
	for _, course := range courses {
		if strings.Contains(s.lowerer.String(course.DisplayName), needle) {
			filtered = append(filtered, course)
		}
	}
	return filtered, nil
}

func (s *CatalogService) Course(id string) (*model.Course, error) {
	course, err := s.courseRepo.ByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrCourseNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, err
	}
	return course, nil
}

// CourseDetail renders the course text and, when userID is non-empty,
// reports whether the viewer already applied to this course or to another
// course in the same event.
func (s *CatalogService) CourseDetail(id, userID string) (*CourseDetail, error) {
	course, err := s.Course(id)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		Course:       course,
		CanBeApplied: course.CanBeApplied(time.Now()),
	}

	if course.Description != "" {
		html, err := s.parser.Parse([]byte(course.Description))
		if err == nil {
			detail.DescriptionHTML = string(html)
		}
	}
	if course.Agreement != "" {
		html, err := s.parser.Parse([]byte(course.Agreement))
		if err == nil {
			detail.AgreementHTML = string(html)
		}
	}

	if userID != "" {
		applied, err := s.appRepo.CountByPersonAndCourse(userID, course.ID)
		if err != nil {
			return nil, err
		}
		detail.HasApplied = applied > 0

		previous, err := s.appRepo.CountByPersonAndEvent(userID, course.EventID)
		if err != nil {
			return nil, err
		}
		detail.PreviousApplications = previous
	}

	return detail, nil
}
