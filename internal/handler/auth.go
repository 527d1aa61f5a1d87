package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/service"
)

type authHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *authHandler {
	return &authHandler{authService: authService}
}

type registerRequest struct {
	Email          string `json:"email"`
	Password       string `json:"password"`
	Name           string `json:"name"`
	Company        string `json:"company"`
	ContactAddress string `json:"contact_address"`
	Mobile         string `json:"mobile"`
	Phone          string `json:"phone"`
}

func (h *authHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Register(service.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
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

	token, err := h.authService.GenerateJWT(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"email": user.Email,
		"token": token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *authHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	err := decodeJSON(r, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	token, err := h.authService.GenerateJWT(user.ID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	h.authService.SetJWTCookie(w, token)

	writeJSON(w, http.StatusOK, map[string]any{
		"id":       user.ID,
		"email":    user.Email,
		"is_admin": user.IsAdmin,
		"token":    token,
	})
}

func (h *authHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authService.ClearJWTCookie(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
