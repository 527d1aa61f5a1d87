package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/service"
)

type eventHandler struct {
	catalogService *service.CatalogService
}

func NewEventHandler(catalogService *service.CatalogService) *eventHandler {
	return &eventHandler{catalogService: catalogService}
}

type eventResponse struct {
	ID               string `json:"id"`
	DisplayName      string `json:"display_name"`
	Venue            string `json:"venue"`
	AllowedChoiceNum int    `json:"allowed_choice_num"`
}

func toEventResponse(event *model.Event) eventResponse {
	return eventResponse{
		ID:               event.ID,
		DisplayName:      event.DisplayName,
		Venue:            event.Venue,
		AllowedChoiceNum: event.AllowedChoiceNum,
	}
}

type courseResponse struct {
	ID                string `json:"id"`
	EventID           string `json:"event_id"`
	DisplayName       string `json:"display_name"`
	IsOpen            bool   `json:"is_open"`
	ChangeAllowedDate string `json:"change_allowed_date"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
}

func toCourseResponse(course *model.Course) courseResponse {
	return courseResponse{
		ID:                course.ID,
		EventID:           course.EventID,
		DisplayName:       course.DisplayName,
		IsOpen:            course.IsOpen,
		ChangeAllowedDate: course.ChangeAllowedDate.Format("2006-01-02T15:04:05Z07:00"),
		StartDate:         course.StartDate.Format("2006-01-02"),
		EndDate:           course.EndDate.Format("2006-01-02"),
	}
}

func (h *eventHandler) List(w http.ResponseWriter, r *http.Request) {
	events, err := h.catalogService.Events()
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, event := range events {
		resp = append(resp, toEventResponse(event))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *eventHandler) Get(w http.ResponseWriter, r *http.Request) {
	event, err := h.catalogService.Event(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toEventResponse(event))
}

// Courses lists an event's courses, filtered by the optional "q" query.
func (h *eventHandler) Courses(w http.ResponseWriter, r *http.Request) {
	courses, err := h.catalogService.CoursesByEvent(r.PathValue("id"), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		resp = append(resp, toCourseResponse(course))
	}
	writeJSON(w, http.StatusOK, resp)
}

// Course returns the full course detail including rendered description and
// agreement, plus the viewer's application state when signed in.
func (h *eventHandler) Course(w http.ResponseWriter, r *http.Request) {
	userID := ""
	if user := ctxkeys.User(r.Context()); user != nil {
		userID = user.ID
	}

	detail, err := h.catalogService.CourseDetail(r.PathValue("id"), userID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"course":                toCourseResponse(detail.Course),
		"description_html":      detail.DescriptionHTML,
		"agreement_html":        detail.AgreementHTML,
		"can_be_applied":        detail.CanBeApplied,
		"has_applied":           detail.HasApplied,
		"previous_applications": detail.PreviousApplications,
	})
}
