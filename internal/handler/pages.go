package handler

import (
	"net/http"

	"github.com/lkd-web/kurs/internal/service"
)

type pageHandler struct {
	pageService *service.PageService
}

func NewPageHandler(pageService *service.PageService) *pageHandler {
	return &pageHandler{pageService: pageService}
}

func (h *pageHandler) List(w http.ResponseWriter, r *http.Request) {
	slugs, err := h.pageService.Pages()
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pages": slugs})
}

func (h *pageHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.pageService.Page(r.PathValue("slug"))
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"slug":  page.Slug,
		"title": page.Title,
		"html":  page.HTML,
	})
}
