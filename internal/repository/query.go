package repository

import (
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/opencivic/data-request-backend/internal/model"
)

// activeFilter wraps extra clauses with the soft-delete invariant. Every
// read in this package goes through it so an inactive document can never
// leak out of a forgotten filter.
func activeFilter(extra bson.M) bson.M {
	filter := bson.M{"is_active": true}
	for k, v := range extra {
		filter[k] = v
	}
	return filter
}

// BuildFilter translates FilterParams into a Mongo filter fragment. Empty
// fields contribute no clause; the caller combines everything with AND.
func BuildFilter(params model.FilterParams) bson.M {
	filter := bson.M{}

	if params.Search != "" {
		filter["$text"] = bson.M{"$search": params.Search}
	}
	if params.Status != "" {
		filter["data.status"] = exactInsensitive(params.Status)
	}
	if params.Category != "" {
		filter["data.category_id"] = exactInsensitive(params.Category)
	}
	if params.Priority != "" {
		filter["data.priority"] = exactInsensitive(params.Priority)
	}

	dateRange := bson.M{}
	if from, ok := parseDate(params.DateFrom); ok {
		dateRange["$gte"] = from
	}
	if to, ok := parseDate(params.DateTo); ok {
		dateRange["$lte"] = to
	}
	if len(dateRange) > 0 {
		filter["created_at"] = dateRange
	}

	if len(params.Tags) > 0 {
		filter["data.tags"] = bson.M{"$in": params.Tags}
	}

	return filter
}

// exactInsensitive builds a case-insensitive exact-match clause; the value
// is quoted so it cannot act as a pattern.
func exactInsensitive(value string) bson.M {
	return bson.M{
		"$regex":   "^" + regexp.QuoteMeta(value) + "$",
		"$options": "i",
	}
}

// parseDate accepts RFC3339 or date-only bounds; anything else drops the
// bound rather than failing the query.
func parseDate(value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, true
	}
	return time.Time{}, false
}

// BuildSort translates sanitized sort pairs into a Mongo sort document,
// preserving tie-break priority order.
func BuildSort(pairs []model.SortPair) bson.D {
	sort := make(bson.D, len(pairs))
	for i, p := range pairs {
		sort[i] = bson.E{Key: p.Field, Value: p.Direction}
	}
	return sort
}

// requestSortSpecs maps the public sort options of the list endpoint onto
// document sort specifications.
var requestSortSpecs = map[string]bson.D{
	"likes":    {{Key: "data.likes_count", Value: -1}, {Key: "created_at", Value: -1}},
	"newest":   {{Key: "created_at", Value: -1}},
	"oldest":   {{Key: "created_at", Value: 1}},
	"priority": {{Key: "data.priority_weight", Value: -1}, {Key: "created_at", Value: -1}},
}

// RequestSort resolves a public sort option, defaulting to newest.
func RequestSort(option string) bson.D {
	if spec, ok := requestSortSpecs[option]; ok {
		return spec
	}
	return requestSortSpecs["newest"]
}

// IsValidRequestSort reports whether option names a supported sort.
func IsValidRequestSort(option string) bool {
	_, ok := requestSortSpecs[option]
	return ok
}
