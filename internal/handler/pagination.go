package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/opencivic/data-request-backend/internal/model"
	"github.com/opencivic/data-request-backend/internal/repository"
)

const (
	defaultLimit = 20
	maxPopular   = 50
)

// ListParams bundles everything the list endpoint accepts.
type ListParams struct {
	Filter     model.FilterParams
	Sort       string
	Pagination model.PaginationParams
}

// ParseListParams parses query parameters for the paginated request listing.
// Page and limit are clamped into range; unknown sort options fall back to
// newest.
func ParseListParams(r *http.Request) ListParams {
	query := r.URL.Query()

	page := 1
	if pageStr := query.Get("page"); pageStr != "" {
		if parsed, err := strconv.Atoi(pageStr); err == nil {
			page = parsed
		}
	}

	limit := defaultLimit
	if limitStr := query.Get("limit"); limitStr != "" {
		if parsed, err := strconv.Atoi(limitStr); err == nil {
			limit = parsed
		}
	}

	sort := strings.ToLower(strings.TrimSpace(query.Get("sort")))
	if !repository.IsValidRequestSort(sort) {
		sort = "newest"
	}

	filter := model.FilterParams{
		Search:   strings.TrimSpace(query.Get("search")),
		Status:   strings.TrimSpace(query.Get("status")),
		Category: strings.TrimSpace(query.Get("category")),
		Priority: strings.TrimSpace(query.Get("priority")),
		DateFrom: strings.TrimSpace(query.Get("date_from")),
		DateTo:   strings.TrimSpace(query.Get("date_to")),
	}
	if tags := query.Get("tags"); tags != "" {
		for _, tag := range strings.Split(tags, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	return ListParams{
		Filter:     filter,
		Sort:       sort,
		Pagination: model.ClampedPaginationParams(page, limit, "", ""),
	}
}

// parseLimit parses a bounded positive limit parameter with a default.
func parseLimit(r *http.Request, name string, def, max int) int {
	value := r.URL.Query().Get(name)
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 1 {
		return def
	}
	if parsed > max {
		return max
	}
	return parsed
}
