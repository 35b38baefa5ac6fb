package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencivic/data-request-backend/internal/service"
)

// CategoryHandler handles category endpoints
type CategoryHandler struct {
	categories *service.CategoryService
}

// NewCategoryHandler creates a new CategoryHandler
func NewCategoryHandler(categories *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// List handles GET /data-requests/categories/
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categories.List(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch categories", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Categories retrieved successfully", categories)
}

// GetByID handles GET /data-requests/categories/{id}
func (h *CategoryHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	category, err := h.categories.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Category not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch category", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Category retrieved successfully", category)
}
