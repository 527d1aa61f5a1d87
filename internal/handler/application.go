package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/middleware"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/service"
)

type applicationHandler struct {
	applicationService *service.ApplicationService
}

func NewApplicationHandler(applicationService *service.ApplicationService) *applicationHandler {
	return &applicationHandler{applicationService: applicationService}
}

type applicationResponse struct {
	ID              string  `json:"id"`
	CourseID        string  `json:"course_id"`
	EventID         string  `json:"event_id"`
	ApplicationDate string  `json:"application_date"`
	Approved        bool    `json:"approved"`
	ApproveDate     *string `json:"approve_date,omitempty"`
}

func toApplicationResponse(app *model.Application) applicationResponse {
	resp := applicationResponse{
		ID:              app.ID,
		CourseID:        app.CourseID,
		EventID:         app.EventID,
		ApplicationDate: app.ApplicationDate.Format("2006-01-02T15:04:05Z07:00"),
		Approved:        app.Approved,
	}
	if app.ApproveDate != nil {
		date := app.ApproveDate.Format("2006-01-02T15:04:05Z07:00")
		resp.ApproveDate = &date
	}
	return resp
}

// Apply creates an application for the course in the URL.
func (h *applicationHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	app, err := h.applicationService.Apply(user.ID, r.PathValue("id"), middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toApplicationResponse(app))
}

func (h *applicationHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	apps, err := h.applicationService.Applications(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]applicationResponse, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, toApplicationResponse(app))
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *applicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	app, err := h.applicationService.Application(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

// Cancel removes the application together with its choices and permit.
func (h *applicationHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.applicationService.Cancel(user.ID, r.PathValue("id"), middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}
