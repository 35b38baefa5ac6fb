package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/opencivic/data-request-backend/internal/classification"
)

const maxSearchLimit = 100

// ClassificationHandler handles classification-code endpoints
type ClassificationHandler struct {
	service *classification.Service
}

// NewClassificationHandler creates a new ClassificationHandler
func NewClassificationHandler(service *classification.Service) *ClassificationHandler {
	return &ClassificationHandler{service: service}
}

// Routes mounts every classification endpoint on a chi router.
func (h *ClassificationHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/health", h.Health)
	r.Get("/business-categories", h.BusinessCategories)
	r.Get("/business-categories/{code}", h.CategoryDetail)
	r.Get("/content-categories", h.ContentCategories)
	r.Get("/content-categories/{code}", h.CategoryDetail)
	r.Post("/validate", h.Validate)
	r.Post("/validate-batch", h.ValidateBatch)
	r.Get("/detect-type/{code}", h.DetectType)
	r.Get("/search", h.Search)
	r.Get("/codes", h.Codes)
	r.Post("/recommendations", h.Recommendations)
	r.Get("/statistics", h.Statistics)
	r.Post("/cache/clear", h.ClearCache)
	r.Get("/reference/common-codes", h.ReferenceCommonCodes)
	r.Get("/reference/code-types", h.ReferenceCodeTypes)

	return r
}

// Health handles GET /classification/health
func (h *ClassificationHandler) Health(w http.ResponseWriter, r *http.Request) {
	codes := h.service.AllCodes()
	respondSuccess(w, http.StatusOK, "Classification service is healthy", map[string]any{
		"status":         "ok",
		"business_codes": len(codes[classification.CodeTypeBusiness]),
		"content_codes":  len(codes[classification.CodeTypeContent]),
		"cache_entries":  h.service.CacheEntries(),
	})
}

// BusinessCategories handles GET /classification/business-categories
func (h *ClassificationHandler) BusinessCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly, includeDetails := parseCategoryFlags(r)
	categories := h.service.BusinessCategories(activeOnly, includeDetails)
	respondSuccess(w, http.StatusOK, "Business categories retrieved successfully", categories)
}

// ContentCategories handles GET /classification/content-categories
func (h *ClassificationHandler) ContentCategories(w http.ResponseWriter, r *http.Request) {
	activeOnly, includeDetails := parseCategoryFlags(r)
	categories := h.service.ContentCategories(activeOnly, includeDetails)
	respondSuccess(w, http.StatusOK, "Content categories retrieved successfully", categories)
}

// CategoryDetail handles GET for a single code of either family
func (h *ClassificationHandler) CategoryDetail(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	detail, ok := h.service.CategoryDetail(code)
	if !ok {
		respondError(w, http.StatusNotFound, "Classification code not found", nil)
		return
	}
	respondSuccess(w, http.StatusOK, "Classification code retrieved successfully", detail)
}

// Validate handles POST /classification/validate
func (h *ClassificationHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Code string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	result := h.service.Validator().Validate(req.Code)
	respondSuccess(w, http.StatusOK, "Validation completed", result)
}

// ValidateBatch handles POST /classification/validate-batch
func (h *ClassificationHandler) ValidateBatch(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Codes []string `json:"codes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if len(req.Codes) == 0 {
		respondError(w, http.StatusBadRequest, "codes must not be empty", nil)
		return
	}

	results := h.service.Validator().ValidateBatch(req.Codes)
	respondSuccess(w, http.StatusOK, "Batch validation completed", results)
}

// DetectType handles GET /classification/detect-type/{code}
func (h *ClassificationHandler) DetectType(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	codeType := h.service.Validator().DetectCodeType(code)
	respondSuccess(w, http.StatusOK, "Code type detection completed", map[string]any{
		"code":      code,
		"code_type": codeType,
		"detected":  codeType != "",
	})
}

// Search handles GET /classification/search
func (h *ClassificationHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	q := query.Get("q")
	if strings.TrimSpace(q) == "" {
		respondError(w, http.StatusBadRequest, "q parameter is required", nil)
		return
	}

	var fields []string
	if raw := query.Get("fields"); raw != "" {
		for _, f := range strings.Split(raw, ",") {
			if f = strings.TrimSpace(f); f != "" {
				fields = append(fields, f)
			}
		}
	}

	req := classification.SearchAllRequest{
		Query:    q,
		CodeType: query.Get("code_type"),
		Fields:   fields,
		Offset:   parseOffset(query.Get("offset")),
		Limit:    parseLimit(r, "limit", 20, maxSearchLimit),
	}

	respondSuccess(w, http.StatusOK, "Search completed", h.service.SearchAll(req))
}

// Codes handles GET /classification/codes
func (h *ClassificationHandler) Codes(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Codes retrieved successfully", h.service.AllCodes())
}

// Recommendations handles POST /classification/recommendations
func (h *ClassificationHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Context  string `json:"context"`
		CodeType string `json:"code_type"`
		Limit    int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.Context) == "" {
		respondError(w, http.StatusBadRequest, "context is required", nil)
		return
	}
	if req.Limit <= 0 {
		req.Limit = 5
	}

	recommendations := h.service.Recommend(req.Context, req.CodeType, req.Limit)
	respondSuccess(w, http.StatusOK, "Recommendations generated successfully", recommendations)
}

// Statistics handles GET /classification/statistics
func (h *ClassificationHandler) Statistics(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Statistics retrieved successfully", h.service.Stats())
}

// ClearCache handles POST /classification/cache/clear
func (h *ClassificationHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.service.ClearCache()
	respondSuccess(w, http.StatusOK, "Cache cleared successfully", nil)
}

// ReferenceCommonCodes handles GET /classification/reference/common-codes
func (h *ClassificationHandler) ReferenceCommonCodes(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Common codes retrieved successfully", map[string]any{
		"business_category": classification.CommonBusinessCodes(),
		"content_category":  classification.ContentRegistry().AllCodes(),
	})
}

// ReferenceCodeTypes handles GET /classification/reference/code-types
func (h *ClassificationHandler) ReferenceCodeTypes(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, http.StatusOK, "Code types retrieved successfully", []string{
		classification.CodeTypeBusiness,
		classification.CodeTypeContent,
	})
}

func parseCategoryFlags(r *http.Request) (activeOnly, includeDetails bool) {
	query := r.URL.Query()
	activeOnly = query.Get("active_only") != "false"
	includeDetails = query.Get("include_details") != "false"
	return activeOnly, includeDetails
}

func parseOffset(value string) int {
	if value == "" {
		return 0
	}
	if parsed, err := strconv.Atoi(value); err == nil && parsed >= 0 {
		return parsed
	}
	return 0
}
