package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/ctxkeys"
	"github.com/lkd-web/kurs/internal/model"
	"github.com/lkd-web/kurs/internal/service"
)

type profileHandler struct {
	profileService *service.ProfileService
}

func NewProfileHandler(profileService *service.ProfileService) *profileHandler {
	return &profileHandler{profileService: profileService}
}

type profileResponse struct {
	Name           string `json:"name"`
	Company        string `json:"company"`
	ContactAddress string `json:"contact_address"`
	Mobile         string `json:"mobile"`
	Phone          string `json:"phone"`
}

func toProfileResponse(profile *model.Profile) profileResponse {
	return profileResponse{
		Name:           profile.Name,
		Company:        profile.Company,
		ContactAddress: profile.ContactAddress,
		Mobile:         profile.Mobile,
		Phone:          profile.Phone,
	}
}

func (h *profileHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	profile, err := h.profileService.ByUserID(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}

func (h *profileHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	var req profileResponse
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	profile, err := h.profileService.Update(user.ID, service.ProfileUpdate{
		Name:           req.Name,
		Company:        req.Company,
		ContactAddress: req.ContactAddress,
		Mobile:         req.Mobile,
		Phone:          req.Phone,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileResponse(profile))
}
