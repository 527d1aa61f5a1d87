package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/middleware"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/repository"
	"github.com/lkd-web/kurs/internal/service"
)

type adminHandler struct {
	adminService *service.AdminService
}

func NewAdminHandler(adminService *service.AdminService) *adminHandler {
	return &adminHandler{adminService: adminService}
}

type eventRequest struct {
	DisplayName      string `json:"display_name"`
	Venue            string `json:"venue"`
	AllowedChoiceNum int    `json:"allowed_choice_num"`
}

func (h *adminHandler) CreateEvent(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req eventRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "display_name is required")
		return
	}

	event, err := h.adminService.CreateEvent(req.DisplayName, req.Venue, req.AllowedChoiceNum, admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toEventResponse(event))
}

func (h *adminHandler) UpdateEvent(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req eventRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	event := &model.Event{
		ID:               r.PathValue("id"),
		DisplayName:      req.DisplayName,
		Venue:            req.Venue,
		AllowedChoiceNum: req.AllowedChoiceNum,
	}

	err = h.adminService.UpdateEvent(event, admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toEventResponse(event))
}

func (h *adminHandler) DeleteEvent(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	err := h.adminService.DeleteEvent(r.PathValue("id"), admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type courseRequest struct {
	EventID           string `json:"event_id"`
	DisplayName       string `json:"display_name"`
	Description       string `json:"description"`
	IsOpen            bool   `json:"is_open"`
	ChangeAllowedDate string `json:"change_allowed_date"`
	Agreement         string `json:"agreement"`
	StartDate         string `json:"start_date"`
	EndDate           string `json:"end_date"`
}

func (req *courseRequest) toModel(id string) (*model.Course, error) {
	changeAllowed, err := time.Parse(time.RFC3339, req.ChangeAllowedDate)
	if err != nil {
		return nil, err
	}
	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse("2006-01-02", req.EndDate)
	if err != nil {
		return nil, err
	}

	return &model.Course{
		ID:                id,
		EventID:           req.EventID,
		DisplayName:       req.DisplayName,
		Description:       req.Description,
		IsOpen:            req.IsOpen,
		ChangeAllowedDate: changeAllowed,
		Agreement:         req.Agreement,
		StartDate:         startDate,
		EndDate:           endDate,
	}, nil
}

func (h *adminHandler) CreateCourse(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req courseRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.DisplayName == "" || req.EventID == "" {
		writeError(w, http.StatusBadRequest, "display_name and event_id are required")
		return
	}

	course, err := req.toModel("")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	err = h.adminService.CreateCourse(course, admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toCourseResponse(course))
}

func (h *adminHandler) UpdateCourse(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req courseRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	course, err := req.toModel(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid date format")
		return
	}

	err = h.adminService.UpdateCourse(course, admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toCourseResponse(course))
}

func (h *adminHandler) DeleteCourse(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	err := h.adminService.DeleteCourse(r.PathValue("id"), admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

type courseStatusRequest struct {
	CourseIDs []string `json:"course_ids"`
	IsOpen    bool     `json:"is_open"`
	Confirm   bool     `json:"confirm"`
}

// PreviewCoursesStatus resolves the submitted ids so the operator can see
// exactly which courses a bulk flip would touch.
func (h *adminHandler) PreviewCoursesStatus(w http.ResponseWriter, r *http.Request) {
	var req courseStatusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.CourseIDs) == 0 {
		writeError(w, http.StatusBadRequest, "course_ids is required")
		return
	}

	preview, err := h.adminService.PreviewCoursesStatus(req.CourseIDs)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	courses := make([]courseResponse, 0, len(preview.Courses))
	for _, course := range preview.Courses {
		courses = append(courses, toCourseResponse(course))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"courses": courses,
		"total":   preview.Total,
	})
}

// SetCoursesStatus flips is_open on the submitted courses. The request must
// carry confirm=true; without it nothing changes and the caller is pointed
// at the preview endpoint.
func (h *adminHandler) SetCoursesStatus(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req courseStatusRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.CourseIDs) == 0 {
		writeError(w, http.StatusBadRequest, "course_ids is required")
		return
	}
	if !req.Confirm {
		writeError(w, http.StatusBadRequest, "confirm must be true; preview the change first")
		return
	}

	count, err := h.adminService.SetCoursesOpen(req.CourseIDs, req.IsOpen, admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"updated": count,
		"is_open": req.IsOpen,
	})
}

// ListApplications supports filtering by event, approval state and permit
// presence via query parameters.
func (h *adminHandler) ListApplications(w http.ResponseWriter, r *http.Request) {
	filter := repository.ApplicationFilter{
		EventID: r.URL.Query().Get("event_id"),
	}
	if v := r.URL.Query().Get("approved"); v != "" {
		approved, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid approved filter")
			return
		}
		filter.Approved = &approved
	}
	if v := r.URL.Query().Get("has_permit"); v != "" {
		hasPermit, err := strconv.ParseBool(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid has_permit filter")
			return
		}
		filter.HasPermit = &hasPermit
	}

	apps, err := h.adminService.ListApplications(filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(apps))
	for _, app := range apps {
		entry := map[string]any{
			"id":               app.ID,
			"person_id":        app.PersonID,
			"course_id":        app.CourseID,
			"event_id":         app.EventID,
			"application_date": app.ApplicationDate.Format("2006-01-02T15:04:05Z07:00"),
			"approved":         app.Approved,
		}
		if app.ApprovedBy != nil {
			entry["approved_by"] = *app.ApprovedBy
		}
		if app.ApproveDate != nil {
			entry["approve_date"] = app.ApproveDate.Format("2006-01-02T15:04:05Z07:00")
		}
		resp = append(resp, entry)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *adminHandler) ApproveApplication(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	app, err := h.adminService.Approve(r.PathValue("id"), admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *adminHandler) UnapproveApplication(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	app, err := h.adminService.Unapprove(r.PathValue("id"), admin.ID, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toApplicationResponse(app))
}

func (h *adminHandler) Logs(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	logs, err := h.adminService.RecentLogs(limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(logs))
	for _, entry := range logs {
		resp = append(resp, map[string]any{
			"id":      entry.ID,
			"date":    entry.Date.Format("2006-01-02T15:04:05Z07:00"),
			"message": entry.Message,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

type commentRequest struct {
	Comment string `json:"comment"`
}

func (h *adminHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	admin := ctxkeys.User(r.Context())

	var req commentRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Comment == "" {
		writeError(w, http.StatusBadRequest, "comment is required")
		return
	}

	comment, err := h.adminService.AddUserComment(r.PathValue("id"), admin.ID, req.Comment, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      comment.ID,
		"comment": comment.Comment,
		"date":    comment.Date.Format("2006-01-02T15:04:05Z07:00"),
	})
}

func (h *adminHandler) ListComments(w http.ResponseWriter, r *http.Request) {
	comments, err := h.adminService.UserComments(r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]map[string]any, 0, len(comments))
	for _, comment := range comments {
		resp = append(resp, map[string]any{
			"id":       comment.ID,
			"admin_id": comment.AdminID,
			"comment":  comment.Comment,
			"date":     comment.Date.Format("2006-01-02T15:04:05Z07:00"),
		})
	}
	writeJSON(w, http.StatusOK, resp)
}
