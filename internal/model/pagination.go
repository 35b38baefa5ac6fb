package model

import (
	"fmt"
	"strings"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxPage     = 1000
	MaxSize     = 100
	DefaultSort = "_id"
	OrderAsc    = "asc"
	OrderDesc   = "desc"
)

// PaginationParams carries normalized page/size/sort/order values.
// Construct via NewPaginationParams (rejecting) or ClampedPaginationParams
// (clamping); the two policies are intentionally distinct.
type PaginationParams struct {
	Page  int
	Size  int
	Sort  string
	Order string
}

// NewPaginationParams validates raw values and returns an error for
// out-of-range page or size rather than silently adjusting them.
func NewPaginationParams(page, size int, sort, order string) (PaginationParams, error) {
	if page < 1 || page > MaxPage {
		return PaginationParams{}, fmt.Errorf("page must be between 1 and %d, got %d", MaxPage, page)
	}
	if size < 1 || size > MaxSize {
		return PaginationParams{}, fmt.Errorf("size must be between 1 and %d, got %d", MaxSize, size)
	}
	return PaginationParams{
		Page:  page,
		Size:  size,
		Sort:  SanitizeSortField(sort),
		Order: NormalizeOrder(order),
	}, nil
}

// ClampedPaginationParams forces raw values into range instead of rejecting.
func ClampedPaginationParams(page, size int, sort, order string) PaginationParams {
	if page < 1 {
		page = DefaultPage
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}
	return PaginationParams{
		Page:  page,
		Size:  size,
		Sort:  SanitizeSortField(sort),
		Order: NormalizeOrder(order),
	}
}

// Skip returns the number of documents to discard before the current page.
func (p PaginationParams) Skip() int {
	return (p.Page - 1) * p.Size
}

// SortDirection maps the normalized order onto MongoDB sort direction.
func (p PaginationParams) SortDirection() int {
	if p.Order == OrderAsc {
		return 1
	}
	return -1
}

// SanitizeSortField strips Mongo operator sigils, maps path separators to
// underscores, and lower-cases the field. Empty input falls back to _id.
// The function is idempotent.
func SanitizeSortField(field string) string {
	field = strings.TrimSpace(field)
	if field == "" {
		return DefaultSort
	}
	field = strings.ReplaceAll(field, "$", "")
	field = strings.ReplaceAll(field, ".", "_")
	field = strings.ToLower(field)
	if field == "" {
		return DefaultSort
	}
	return field
}

// NormalizeOrder maps common spellings onto asc/desc. Unrecognized values
// pass through unchanged.
func NormalizeOrder(order string) string {
	switch strings.ToLower(strings.TrimSpace(order)) {
	case "asc", "ascending", "1", "up":
		return OrderAsc
	case "desc", "descending", "-1", "down":
		return OrderDesc
	}
	return order
}

// SortPair is one entry of a multi-field sort specification.
type SortPair struct {
	Field     string
	Direction int
}

// SortParams holds a multi-field sort request. Field order is the tie-break
// priority: the first field is the primary sort key.
type SortParams struct {
	Fields []string
	Orders []string
}

// NewSortParams sanitizes every field and reconciles the orders list: a
// missing tail is padded with desc, extras are truncated.
func NewSortParams(fields, orders []string) SortParams {
	sanitized := make([]string, len(fields))
	for i, f := range fields {
		sanitized[i] = SanitizeSortField(f)
	}
	reconciled := make([]string, len(fields))
	for i := range fields {
		if i < len(orders) {
			reconciled[i] = NormalizeOrder(orders[i])
		} else {
			reconciled[i] = OrderDesc
		}
	}
	return SortParams{Fields: sanitized, Orders: reconciled}
}

// Pairs returns the (field, direction) list preserving field order.
func (s SortParams) Pairs() []SortPair {
	pairs := make([]SortPair, len(s.Fields))
	for i, f := range s.Fields {
		dir := -1
		if s.Orders[i] == OrderAsc {
			dir = 1
		}
		pairs[i] = SortPair{Field: f, Direction: dir}
	}
	return pairs
}

// FilterParams carries optional list filters. Zero-valued fields contribute
// no query clause.
type FilterParams struct {
	Search   string
	Status   string
	Category string
	Priority string
	DateFrom string
	DateTo   string
	Tags     []string
}

// PaginatedResult is one page of items plus the metadata derived from the
// total count. The caller supplies items already sliced to the page.
type PaginatedResult[T any] struct {
	Items []T   `json:"items"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Size  int   `json:"size"`
}

// Paginate assembles a PaginatedResult; it never slices items.
func Paginate[T any](items []T, total int64, params PaginationParams) PaginatedResult[T] {
	return PaginatedResult[T]{
		Items: items,
		Total: total,
		Page:  params.Page,
		Size:  params.Size,
	}
}

// TotalPages is ceil(total/size), or 0 when size is 0.
func (r PaginatedResult[T]) TotalPages() int {
	if r.Size <= 0 {
		return 0
	}
	pages := int(r.Total) / r.Size
	if int(r.Total)%r.Size > 0 {
		pages++
	}
	return pages
}

func (r PaginatedResult[T]) HasNext() bool {
	return r.Page < r.TotalPages()
}

func (r PaginatedResult[T]) HasPrevious() bool {
	return r.Page > 1
}

// IsFirstPage and IsLastPage derive from the page number alone: with zero
// total pages a request for page 1 reports both true, but page 2 of an empty
// result still reports IsFirstPage false.
func (r PaginatedResult[T]) IsFirstPage() bool {
	return r.Page == 1
}

func (r PaginatedResult[T]) IsLastPage() bool {
	return r.Page >= r.TotalPages()
}

// NextPage returns page+1 or nil when there is no next page.
func (r PaginatedResult[T]) NextPage() *int {
	if !r.HasNext() {
		return nil
	}
	next := r.Page + 1
	return &next
}

// PreviousPage returns page-1 or nil when there is no previous page.
func (r PaginatedResult[T]) PreviousPage() *int {
	if !r.HasPrevious() {
		return nil
	}
	prev := r.Page - 1
	return &prev
}

// Meta flattens the derived fields for JSON responses.
func (r PaginatedResult[T]) Meta() PaginationMeta {
	return PaginationMeta{
		CurrentPage: r.Page,
		PerPage:     r.Size,
		TotalItems:  r.Total,
		TotalPages:  r.TotalPages(),
		HasNext:     r.HasNext(),
		HasPrevious: r.HasPrevious(),
	}
}

// PaginationMeta contains pagination metadata for paginated responses
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrevious bool  `json:"has_previous"`
}
