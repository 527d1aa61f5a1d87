package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lkd-web/kurs/internal/model"
)

type appFixture struct {
	eventRepo  *fakeEventRepo
	courseRepo *fakeCourseRepo
	appRepo    *fakeApplicationRepo
	choiceRepo *fakeChoiceRepo
	permitRepo *fakePermitRepo
	storage    *fakeStorage
	logs       *fakeActionLogRepo
	service    *ApplicationService
}

func newAppFixture() *appFixture {
	eventRepo := newFakeEventRepo()
	courseRepo := newFakeCourseRepo()
	choiceRepo := newFakeChoiceRepo()
	permitRepo := newFakePermitRepo()
	appRepo := newFakeApplicationRepo(choiceRepo, permitRepo)
	storage := newFakeStorage()
	logs := newFakeActionLogRepo()
	audit := NewAuditService(logs)

	return &appFixture{
		eventRepo:  eventRepo,
		courseRepo: courseRepo,
		appRepo:    appRepo,
		choiceRepo: choiceRepo,
		permitRepo: permitRepo,
		storage:    storage,
		logs:       logs,
		service:    NewApplicationService(appRepo, courseRepo, choiceRepo, permitRepo, storage, audit),
	}
}

func (f *appFixture) addEvent(allowedChoices int) *model.Event {
	event := &model.Event{
		ID:               uuid.New().String(),
		DisplayName:      "Linux Summer Camp",
		Venue:            "Ankara",
		AllowedChoiceNum: allowedChoices,
	}
	f.eventRepo.Create(event)
	return event
}

func (f *appFixture) addCourse(eventID string, isOpen bool, deadline time.Time) *model.Course {
	course := &model.Course{
		ID:                uuid.New().String(),
		EventID:           eventID,
		DisplayName:       "System Administration",
		IsOpen:            isOpen,
		ChangeAllowedDate: deadline,
		StartDate:         deadline.Add(48 * time.Hour),
		EndDate:           deadline.Add(96 * time.Hour),
	}
	f.courseRepo.Create(course)
	return course
}

func TestApplyCreatesApplication(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	app, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	if app.CourseID != course.ID {
		t.Errorf("course id = %s, want %s", app.CourseID, course.ID)
	}
	if app.EventID != event.ID {
		t.Errorf("event id = %s, want %s", app.EventID, event.ID)
	}
	if app.Approved {
		t.Error("new application must not be approved")
	}
	if len(f.logs.messages()) == 0 {
		t.Error("expected an audit entry for the application")
	}
}

func TestApplyUnknownCourse(t *testing.T) {
	f := newAppFixture()

	_, err := f.service.Apply("person-1", "missing", "10.0.0.1")
	if !errors.Is(err, ErrCourseNotFound) {
		t.Errorf("err = %v, want ErrCourseNotFound", err)
	}
}

func TestApplyClosedCourse(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, false, time.Now().Add(24*time.Hour))

	_, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if !errors.Is(err, ErrCourseClosed) {
		t.Errorf("err = %v, want ErrCourseClosed", err)
	}
}

func TestApplyPastDeadline(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, true, time.Now().Add(-time.Hour))

	_, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if !errors.Is(err, ErrCourseClosed) {
		t.Errorf("err = %v, want ErrCourseClosed", err)
	}
}

func TestApplySecondCourseSameEvent(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	first := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))
	second := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	_, err := f.service.Apply("person-1", first.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("first Apply failed: %v", err)
	}

	_, err = f.service.Apply("person-1", second.ID, "10.0.0.1")
	if !errors.Is(err, ErrDuplicateApplication) {
		t.Errorf("err = %v, want ErrDuplicateApplication", err)
	}
}

func TestApplyDifferentEventsAllowed(t *testing.T) {
	f := newAppFixture()
	eventA := f.addEvent(3)
	eventB := f.addEvent(3)
	courseA := f.addCourse(eventA.ID, true, time.Now().Add(24*time.Hour))
	courseB := f.addCourse(eventB.ID, true, time.Now().Add(24*time.Hour))

	_, err := f.service.Apply("person-1", courseA.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply to first event failed: %v", err)
	}
	_, err = f.service.Apply("person-1", courseB.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply to second event failed: %v", err)
	}
}

func TestCancelRemovesEverything(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))
	fallback := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	app, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	_, err = f.choiceRepo.ReplaceForEvent("person-1", event.ID, []string{fallback.ID}, time.Now())
	if err != nil {
		t.Fatalf("seeding choices failed: %v", err)
	}

	path := "permits/2026/01/01/test.pdf"
	f.storage.files[path] = []byte("%PDF-1.4")
	f.permitRepo.Create(&model.Permit{
		ID:            uuid.New().String(),
		ApplicationID: app.ID,
		StoragePath:   path,
		UploadDate:    time.Now(),
	})

	err = f.service.Cancel("person-1", app.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}

	_, err = f.service.Application("person-1", app.ID)
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("application still present after cancel: %v", err)
	}

	choices, _ := f.choiceRepo.ByPersonAndEvent("person-1", event.ID)
	if len(choices) != 0 {
		t.Errorf("choices remaining after cancel: %d", len(choices))
	}

	if f.storage.has(path) {
		t.Error("permit file still in storage after cancel")
	}
}

func TestCancelApprovedRejected(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	app, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	adminID := "admin-1"
	now := time.Now()
	app.Approved = true
	app.ApprovedBy = &adminID
	app.ApproveDate = &now
	f.appRepo.Update(app)

	err = f.service.Cancel("person-1", app.ID, "10.0.0.1")
	if !errors.Is(err, ErrApplicationApproved) {
		t.Errorf("err = %v, want ErrApplicationApproved", err)
	}
}

func TestCancelNotOwned(t *testing.T) {
	f := newAppFixture()
	event := f.addEvent(3)
	course := f.addCourse(event.ID, true, time.Now().Add(24*time.Hour))

	app, err := f.service.Apply("person-1", course.ID, "10.0.0.1")
	if err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	err = f.service.Cancel("person-2", app.ID, "10.0.0.1")
	if !errors.Is(err, ErrApplicationNotFound) {
		t.Errorf("err = %v, want ErrApplicationNotFound", err)
	}
}
