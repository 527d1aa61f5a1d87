package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/middleware"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/service"
)

type permitHandler struct {
	permitService *service.PermitService
	maxSize       int64
}

func NewPermitHandler(permitService *service.PermitService, maxSize int64) *permitHandler {
	return &permitHandler{
		permitService: permitService,
		maxSize:       maxSize,
	}
}

type permitResponse struct {
	ID           string `json:"id"`
	OriginalName string `json:"original_name"`
	MimeType     string `json:"mime_type"`
	Size         int64  `json:"size"`
	UploadDate   string `json:"upload_date"`
	URL          string `json:"url,omitempty"`
}

func (h *permitHandler) toResponse(permit *model.Permit) permitResponse {
	return permitResponse{
		ID:           permit.ID,
		OriginalName: permit.OriginalName,
		MimeType:     permit.MimeType,
		Size:         permit.Size,
		UploadDate:   permit.UploadDate.Format("2006-01-02T15:04:05Z07:00"),
		URL:          h.permitService.URL(permit),
	}
}

// Upload accepts a multipart form with a "permit" file field and attaches
// it to the application. A previous upload is replaced.
func (h *permitHandler) Upload(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// The body cap leaves headroom over the file limit for the form framing.
	r.Body = http.MaxBytesReader(w, r.Body, h.maxSize+1<<20)
	err := r.ParseMultipartForm(h.maxSize)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form or file too large")
		return
	}

	file, header, err := r.FormFile("permit")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing permit file field")
		return
	}
	defer file.Close()

	permit, err := h.permitService.Upload(user.ID, r.PathValue("id"), file, header, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, h.toResponse(permit))
}

func (h *permitHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	permit, err := h.permitService.Permit(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, h.toResponse(permit))
}
