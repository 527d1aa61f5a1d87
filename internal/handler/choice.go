package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/middleware"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/service"
)

type choiceHandler struct {
	choiceService *service.ChoiceService
}

func NewChoiceHandler(choiceService *service.ChoiceService) *choiceHandler {
	return &choiceHandler{choiceService: choiceService}
}

type choiceResponse struct {
	ChoiceNumber int    `json:"choice_number"`
	CourseID     string `json:"course_id"`
	LastUpdate   string `json:"last_update"`
}

func toChoiceResponse(choice *model.Choice) choiceResponse {
	return choiceResponse{
		ChoiceNumber: choice.ChoiceNumber,
		CourseID:     choice.CourseID,
		LastUpdate:   choice.LastUpdate.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func (h *choiceHandler) List(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	choices, err := h.choiceService.Choices(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]choiceResponse, 0, len(choices))
	for _, choice := range choices {
		resp = append(resp, toChoiceResponse(choice))
	}
	writeJSON(w, http.StatusOK, resp)
}

type editChoicesRequest struct {
	CourseIDs []string `json:"course_ids"`
}

// Edit replaces the person's ranked choices for the event with the
// submitted list, in order.
func (h *choiceHandler) Edit(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req editChoicesRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	err = h.choiceService.EditChoices(user.ID, r.PathValue("id"), req.CourseIDs, middleware.ClientIP(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	choices, err := h.choiceService.Choices(user.ID, r.PathValue("id"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	resp := make([]choiceResponse, 0, len(choices))
	for _, choice := range choices {
		resp = append(resp, toChoiceResponse(choice))
	}
	writeJSON(w, http.StatusOK, resp)
}
