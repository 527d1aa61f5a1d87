package service

import (
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
)

// In-memory repository fakes backed by maps. They mirror the SQL layer's
// error mapping so the services see the same sentinels.

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string]*model.Event
}

func newFakeEventRepo() *fakeEventRepo {
	return &fakeEventRepo{events: make(map[string]*model.Event)}
}

func (r *fakeEventRepo) Create(event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) ByID(id string) (*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	event, ok := r.events[id]
	if !ok {
		return nil, repository.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (r *fakeEventRepo) Events() ([]*model.Event, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make([]*model.Event, 0, len(r.events))
	for _, event := range r.events {
		copied := *event
		events = append(events, &copied)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].ID < events[j].ID })
	return events, nil
}

func (r *fakeEventRepo) Update(event *model.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[event.ID]; !ok {
		return repository.ErrEventNotFound
	}
	r.events[event.ID] = event
	return nil
}

func (r *fakeEventRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.events[id]; !ok {
		return repository.ErrEventNotFound
	}
	delete(r.events, id)
	return nil
}

type fakeCourseRepo struct {
	mu      sync.Mutex
	courses map[string]*model.Course
}

func newFakeCourseRepo() *fakeCourseRepo {
	return &fakeCourseRepo{courses: make(map[string]*model.Course)}
}

func (r *fakeCourseRepo) Create(course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) ByID(id string) (*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	course, ok := r.courses[id]
	if !ok {
		return nil, repository.ErrCourseNotFound
	}
	copied := *course
	return &copied, nil
}

func (r *fakeCourseRepo) ByEvent(eventID string) ([]*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	courses := []*model.Course{}
	for _, course := range r.courses {
		if course.EventID == eventID {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].StartDate.Before(courses[j].StartDate) })
	return courses, nil
}

func (r *fakeCourseRepo) ByIDs(ids []string) ([]*model.Course, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	courses := []*model.Course{}
	for _, id := range ids {
		if course, ok := r.courses[id]; ok {
			copied := *course
			courses = append(courses, &copied)
		}
	}
	return courses, nil
}

func (r *fakeCourseRepo) Update(course *model.Course) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[course.ID]; !ok {
		return repository.ErrCourseNotFound
	}
	r.courses[course.ID] = course
	return nil
}

func (r *fakeCourseRepo) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.courses[id]; !ok {
		return repository.ErrCourseNotFound
	}
	delete(r.courses, id)
	return nil
}

func (r *fakeCourseRepo) SetOpen(ids []string, isOpen bool) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var count int64
	for _, id := range ids {
		if course, ok := r.courses[id]; ok {
			course.IsOpen = isOpen
			count++
		}
	}
	return count, nil
}

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*model.Application

	choiceRepo *fakeChoiceRepo
	permitRepo *fakePermitRepo
}

func newFakeApplicationRepo(choiceRepo *fakeChoiceRepo, permitRepo *fakePermitRepo) *fakeApplicationRepo {
	return &fakeApplicationRepo{
		apps:       make(map[string]*model.Application),
		choiceRepo: choiceRepo,
		permitRepo: permitRepo,
	}
}

func (r *fakeApplicationRepo) Create(app *model.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.PersonID == app.PersonID && existing.EventID == app.EventID {
			return repository.ErrDuplicateApplication
		}
	}
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) ByID(id string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repository.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) ByIDForPerson(personID, id string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.PersonID != personID {
		return nil, repository.ErrApplicationNotFound
	}
	copied := *app
	return &copied, nil
}

func (r *fakeApplicationRepo) ByPersonAndEvent(personID, eventID string) (*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.PersonID == personID && app.EventID == eventID {
			copied := *app
			return &copied, nil
		}
	}
	return nil, repository.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) CountByPersonAndEvent(personID, eventID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, app := range r.apps {
		if app.PersonID == personID && app.EventID == eventID {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) CountByPersonAndCourse(personID, courseID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, app := range r.apps {
		if app.PersonID == personID && app.CourseID == courseID {
			count++
		}
	}
	return count, nil
}

func (r *fakeApplicationRepo) ListByPerson(personID string) ([]*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := []*model.Application{}
	for _, app := range r.apps {
		if app.PersonID == personID {
			copied := *app
			apps = append(apps, &copied)
		}
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ApplicationDate.Before(apps[j].ApplicationDate) })
	return apps, nil
}

func (r *fakeApplicationRepo) List(filter repository.ApplicationFilter) ([]*model.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	apps := []*model.Application{}
	for _, app := range r.apps {
		if filter.EventID != "" && app.EventID != filter.EventID {
			continue
		}
		if filter.Approved != nil && app.Approved != *filter.Approved {
			continue
		}
		if filter.HasPermit != nil {
			_, err := r.permitRepo.ByApplicationID(app.ID)
			hasPermit := err == nil
			if hasPermit != *filter.HasPermit {
				continue
			}
		}
		copied := *app
		apps = append(apps, &copied)
	}
	sort.Slice(apps, func(i, j int) bool { return apps[i].ID < apps[j].ID })
	return apps, nil
}

func (r *fakeApplicationRepo) Update(app *model.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return repository.ErrApplicationNotFound
	}
	r.apps[app.ID] = app
	return nil
}

func (r *fakeApplicationRepo) DeleteCascade(personID, id, eventID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok || app.PersonID != personID {
		return repository.ErrApplicationNotFound
	}
	r.choiceRepo.deleteForEvent(personID, eventID)
	r.permitRepo.deleteForApplication(id)
	delete(r.apps, id)
	return nil
}

type fakeChoiceRepo struct {
	mu      sync.Mutex
	choices []*model.Choice
}

func newFakeChoiceRepo() *fakeChoiceRepo {
	return &fakeChoiceRepo{}
}

func (r *fakeChoiceRepo) ByPersonAndEvent(personID, eventID string) ([]*model.Choice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	choices := []*model.Choice{}
	for _, choice := range r.choices {
		if choice.PersonID == personID && choice.EventID == eventID {
			copied := *choice
			choices = append(choices, &copied)
		}
	}
	sort.Slice(choices, func(i, j int) bool { return choices[i].ChoiceNumber < choices[j].ChoiceNumber })
	return choices, nil
}

func (r *fakeChoiceRepo) ReplaceForEvent(personID, eventID string, courseIDs []string, now time.Time) ([]*model.Choice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.choices[:0]
	for _, choice := range r.choices {
		if choice.PersonID != personID || choice.EventID != eventID {
			kept = append(kept, choice)
		}
	}
	r.choices = kept

	inserted := []*model.Choice{}
	for i, courseID := range courseIDs {
		choice := &model.Choice{
			ID:           uuid.New().String(),
			PersonID:     personID,
			EventID:      eventID,
			ChoiceNumber: i + 1,
			CourseID:     courseID,
			LastUpdate:   now,
		}
		r.choices = append(r.choices, choice)
		inserted = append(inserted, choice)
	}
	return inserted, nil
}

func (r *fakeChoiceRepo) deleteForEvent(personID, eventID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.choices[:0]
	for _, choice := range r.choices {
		if choice.PersonID != personID || choice.EventID != eventID {
			kept = append(kept, choice)
		}
	}
	r.choices = kept
}

type fakePermitRepo struct {
	mu      sync.Mutex
	permits map[string]*model.Permit // keyed by application id
}

func newFakePermitRepo() *fakePermitRepo {
	return &fakePermitRepo{permits: make(map[string]*model.Permit)}
}

func (r *fakePermitRepo) Create(permit *model.Permit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.permits[permit.ApplicationID] = permit
	return nil
}

func (r *fakePermitRepo) ByApplicationID(applicationID string) (*model.Permit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	permit, ok := r.permits[applicationID]
	if !ok {
		return nil, repository.ErrPermitNotFound
	}
	copied := *permit
	return &copied, nil
}

func (r *fakePermitRepo) Update(permit *model.Permit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.permits[permit.ApplicationID]; !ok {
		return repository.ErrPermitNotFound
	}
	r.permits[permit.ApplicationID] = permit
	return nil
}

func (r *fakePermitRepo) deleteForApplication(applicationID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.permits, applicationID)
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (r *fakeUserRepo) Create(user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) ByID(id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) ByEmail(email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (r *fakeUserRepo) SetAdmin(id string, isAdmin bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return repository.ErrUserNotFound
	}
	user.IsAdmin = isAdmin
	return nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]*model.Profile // keyed by user id
}

func newFakeProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{profiles: make(map[string]*model.Profile)}
}

func (r *fakeProfileRepo) ByUserID(userID string) (*model.Profile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[userID]
	if !ok {
		return nil, repository.ErrProfileNotFound
	}
	copied := *profile
	return &copied, nil
}

func (r *fakeProfileRepo) Create(profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	r.profiles[profile.UserID] = profile
	return nil
}

func (r *fakeProfileRepo) Update(profile *model.Profile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; !ok {
		return repository.ErrProfileNotFound
	}
	r.profiles[profile.UserID] = profile
	return nil
}

type fakeActionLogRepo struct {
	mu      sync.Mutex
	entries []*model.ActionLog
}

func newFakeActionLogRepo() *fakeActionLogRepo {
	return &fakeActionLogRepo{}
}

func (r *fakeActionLogRepo) Create(entry *model.ActionLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

func (r *fakeActionLogRepo) Recent(limit int) ([]*model.ActionLog, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	entries := make([]*model.ActionLog, 0, len(r.entries))
	for i := len(r.entries) - 1; i >= 0 && len(entries) < limit; i-- {
		copied := *r.entries[i]
		entries = append(entries, &copied)
	}
	return entries, nil
}

func (r *fakeActionLogRepo) messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	messages := make([]string, 0, len(r.entries))
	for _, entry := range r.entries {
		messages = append(messages, entry.Message)
	}
	return messages
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	comments []*model.UserComment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (r *fakeCommentRepo) Create(comment *model.UserComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.comments = append(r.comments, comment)
	return nil
}

func (r *fakeCommentRepo) ByUser(userID string) ([]*model.UserComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	comments := []*model.UserComment{}
	for _, comment := range r.comments {
		if comment.UserID == userID {
			copied := *comment
			comments = append(comments, &copied)
		}
	}
	return comments, nil
}

// fakeStorage records saved and deleted paths.
type fakeStorage struct {
	mu    sync.Mutex
	files map[string][]byte
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{files: make(map[string][]byte)}
}

func (s *fakeStorage) Save(path string, file io.Reader) error {
	data, err := io.ReadAll(file)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[path] = data
	return nil
}

func (s *fakeStorage) Delete(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.files, path)
	return nil
}

func (s *fakeStorage) URL(path string) string {
	return "https://files.example.com/" + path
}

func (s *fakeStorage) has(path string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[path]
	return ok
}

func (s *fakeStorage) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.files)
}
