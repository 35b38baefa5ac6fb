package model

import (
	"fmt"
	"sort"
	"strings"
)

// PageLinks holds sibling page URLs for a paginated result.
type PageLinks struct {
	Self     string  `json:"self"`
	First    *string `json:"first"`
	Last     *string `json:"last"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
}

// BuildPageLinks constructs self/first/last/next/previous URLs by injecting
// the page parameter into baseURL alongside the extra query parameters.
// First and last are omitted when the result is empty. Values are joined
// naively as key=value pairs without URL encoding.
func BuildPageLinks[T any](baseURL string, result PaginatedResult[T], extra map[string]string) PageLinks {
	links := PageLinks{
		Self: pageURL(baseURL, result.Page, extra),
	}

	totalPages := result.TotalPages()
	if result.Total > 0 {
		first := pageURL(baseURL, 1, extra)
		last := pageURL(baseURL, totalPages, extra)
		links.First = &first
		links.Last = &last
	}

	if next := result.NextPage(); next != nil {
		u := pageURL(baseURL, *next, extra)
		links.Next = &u
	}
	if prev := result.PreviousPage(); prev != nil {
		u := pageURL(baseURL, *prev, extra)
		links.Previous = &u
	}

	return links
}

func pageURL(baseURL string, page int, extra map[string]string) string {
	params := []string{fmt.Sprintf("page=%d", page)}

	// Sorted for deterministic output.
	keys := make([]string, 0, len(extra))
	for k := range extra {
		if k == "page" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		params = append(params, k+"="+extra[k])
	}

	sep := "?"
	if strings.Contains(baseURL, "?") {
		sep = "&"
	}
	return baseURL + sep + strings.Join(params, "&")
}
