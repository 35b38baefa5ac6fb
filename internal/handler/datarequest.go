package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/opencivic/data-request-backend/internal/middleware"
	"github.com/opencivic/data-request-backend/internal/model"
	"github.com/opencivic/data-request-backend/internal/service"
)

// DataRequestHandler handles data-request endpoints
type DataRequestHandler struct {
	requests *service.DataRequestService
}

// NewDataRequestHandler creates a new DataRequestHandler
func NewDataRequestHandler(requests *service.DataRequestService) *DataRequestHandler {
	return &DataRequestHandler{requests: requests}
}

// Create handles POST /data-requests/
func (h *DataRequestHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CreateDataRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	request, err := h.requests.Create(r.Context(), userID, req)
	if err != nil {
		if errors.Is(err, service.ErrUnknownCategory) {
			respondError(w, http.StatusBadRequest, err.Error(), nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to create data request", nil)
		return
	}

	respondSuccess(w, http.StatusCreated, "Data request created successfully", request.ToResponse())
}

// List handles GET /data-requests/
func (h *DataRequestHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ParseListParams(r)

	result, err := h.requests.List(r.Context(), params.Filter, params.Sort, params.Pagination)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch data requests", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Data requests retrieved successfully", map[string]any{
		"items":      result.Items,
		"pagination": result.Meta(),
	})
}

// Popular handles GET /data-requests/popular
func (h *DataRequestHandler) Popular(w http.ResponseWriter, r *http.Request) {
	limit := parseLimit(r, "limit", 10, maxPopular)

	requests, err := h.requests.Popular(r.Context(), limit)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch popular requests", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Popular requests retrieved successfully", requests)
}

// Stats handles GET /data-requests/stats
func (h *DataRequestHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.requests.Stats(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch statistics", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Statistics retrieved successfully", stats)
}

// GetByID handles GET /data-requests/{id}
func (h *DataRequestHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	response, err := h.requests.Get(r.Context(), id, userID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Data request not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to fetch data request", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "Data request retrieved successfully", response)
}

// Update handles PUT /data-requests/{id}
func (h *DataRequestHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateDataRequestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	response, err := h.requests.Update(r.Context(), id, userID, req)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update data request")
		return
	}

	respondSuccess(w, http.StatusOK, "Data request updated successfully", response)
}

// Delete handles DELETE /data-requests/{id}
func (h *DataRequestHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	if err := h.requests.Delete(r.Context(), id, userID); err != nil {
		h.respondServiceError(w, err, "Failed to delete data request")
		return
	}

	respondSuccess(w, http.StatusOK, "Data request deleted successfully", nil)
}

// Vote handles POST /data-requests/{id}/vote
func (h *DataRequestHandler) Vote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.VoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	userID := middleware.GetUserID(r.Context())
	response, err := h.requests.Vote(r.Context(), id, userID, req.Type)
	if err != nil {
		if errors.Is(err, service.ErrVoteConflict) {
			respondError(w, http.StatusConflict, "Vote already recorded", nil)
			return
		}
		h.respondServiceError(w, err, "Failed to record vote")
		return
	}

	respondSuccess(w, http.StatusOK, "Vote recorded successfully", response)
}

// Unvote handles DELETE /data-requests/{id}/vote
func (h *DataRequestHandler) Unvote(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	userID := middleware.GetUserID(r.Context())

	response, err := h.requests.Unvote(r.Context(), id, userID)
	if err != nil {
		h.respondServiceError(w, err, "Failed to remove vote")
		return
	}

	respondSuccess(w, http.StatusOK, "Vote removed successfully", response)
}

// UserRequests handles GET /data-requests/user/{userID}
func (h *DataRequestHandler) UserRequests(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")

	requests, err := h.requests.UserRequests(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to fetch user requests", nil)
		return
	}

	respondSuccess(w, http.StatusOK, "User requests retrieved successfully", requests)
}

// UpdateStatus handles PUT /data-requests/{id}/status
func (h *DataRequestHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req model.UpdateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	if validationErrors := req.Validate(); len(validationErrors) > 0 {
		respondError(w, http.StatusBadRequest, "Validation failed", validationErrors)
		return
	}

	response, err := h.requests.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		h.respondServiceError(w, err, "Failed to update status")
		return
	}

	respondSuccess(w, http.StatusOK, "Status updated successfully", response)
}

// respondServiceError maps service errors onto the HTTP surface. Ownership
// failures are reported as 400, matching the existing API contract.
func (h *DataRequestHandler) respondServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(w, http.StatusNotFound, "Data request not found", nil)
	case errors.Is(err, service.ErrForbidden):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	case errors.Is(err, service.ErrUnknownCategory):
		respondError(w, http.StatusBadRequest, err.Error(), nil)
	default:
		respondError(w, http.StatusInternalServerError, fallback, nil)
	}
}
