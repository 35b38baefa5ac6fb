package classification

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// DefaultCacheTTL bounds how long a cached registry projection is served
// before being recomputed.
const DefaultCacheTTL = time.Hour

// recommendationKeywords associates each code with the context keywords
// (English and Korean) that make it a relevant recommendation. This table is
// separate from the suggestion keyword table used by the validators.
var recommendationKeywords = map[string][]string{
	"cmrczn_tab1": {"fund", "loan", "money", "capital", "자금", "대출", "융자"},
	"cmrczn_tab2": {"technology", "research", "patent", "develop", "기술", "연구", "특허"},
	"cmrczn_tab3": {"mentor", "consult", "advice", "멘토", "컨설팅", "자문"},
	"cmrczn_tab4": {"office", "space", "facility", "equipment", "사무실", "공간", "시설"},
	"cmrczn_tab5": {"market", "product", "launch", "sales", "판로", "마케팅", "사업화"},
	"cmrczn_tab6": {"export", "global", "overseas", "수출", "해외", "글로벌"},
	"cmrczn_tab7": {"network", "fair", "demo", "meetup", "행사", "네트워킹", "박람회"},
	"cmrczn_tab8": {"hire", "talent", "employ", "recruit", "채용", "인력", "고용"},
	"cmrczn_tab9": {"education", "training", "course", "learn", "교육", "훈련", "강좌"},
	"notice_matr": {"notice", "announcement", "deadline", "공지", "공고", "마감"},
	"event_matr":  {"event", "competition", "exhibition", "행사", "대회", "전시"},
	"edu_matr":    {"lecture", "guide", "tutorial", "강의", "가이드", "학습"},
}

// Search scoring weights.
const (
	scoreNameMatch        = 10
	scoreDescriptionMatch = 5
	scoreFeatureMatch     = 3
)

// Cache is a TTL-bounded in-memory cache over values derived from the fixed
// registries. Concurrent refreshes of the same key may both compute; the
// values are deterministic so the last write winning is harmless.
type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cacheEntry
}

type cacheEntry struct {
	value    any
	storedAt time.Time
}

// NewCache creates a cache with the given TTL. now is injectable so tests
// control expiry without sleeping; pass nil for time.Now.
func NewCache(ttl time.Duration, now func() time.Time) *Cache {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if now == nil {
		now = time.Now
	}
	return &Cache{ttl: ttl, now: now, entries: make(map[string]cacheEntry)}
}

// Get returns the cached value for key when it exists and is younger than
// the TTL.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().Sub(entry.storedAt) > c.ttl {
		return nil, false
	}
	return entry.value, true
}

// Set stores value under key with a fresh timestamp.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cacheEntry{value: value, storedAt: c.now()}
}

// Clear drops every entry unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]cacheEntry)
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// SearchResult is one scored hit of a registry search.
type SearchResult struct {
	Code        string `json:"code"`
	Name        string `json:"name"`
	Description string `json:"description"`
	CodeType    string `json:"code_type"`
	Score       int    `json:"score"`
}

// Recommendation is one scored hit of a context-based recommendation.
type Recommendation struct {
	Code            string   `json:"code"`
	Name            string   `json:"name"`
	CodeType        string   `json:"code_type"`
	Score           int      `json:"score"`
	MatchedKeywords []string `json:"matched_keywords"`
}

// SearchAllRequest drives a combined search across both code families.
type SearchAllRequest struct {
	Query    string   `json:"query"`
	CodeType string   `json:"code_type,omitempty"`
	Fields   []string `json:"fields,omitempty"`
	Offset   int      `json:"offset"`
	Limit    int      `json:"limit"`
}

// SearchAllResponse carries the combined, windowed results. TotalCount is
// the pre-offset concatenated length.
type SearchAllResponse struct {
	Results    []SearchResult `json:"results"`
	TotalCount int            `json:"total_count"`
	Offset     int            `json:"offset"`
	Limit      int            `json:"limit"`
	ElapsedMS  int64          `json:"elapsed_ms"`
}

// Statistics summarizes the fixed registries and the cache state.
type Statistics struct {
	BusinessCodes   int            `json:"business_codes"`
	ContentCodes    int            `json:"content_codes"`
	TotalCodes      int            `json:"total_codes"`
	FeaturesByType  map[string]int `json:"features_by_type"`
	CacheEntries    int            `json:"cache_entries"`
	RecommendedKeys int            `json:"recommendation_keywords"`
}

// Service wraps the registries and validators with caching, search, and
// recommendation logic.
type Service struct {
	business *Registry
	content  *Registry
	unified  *UnifiedValidator
	cache    *Cache
	now      func() time.Time
}

// NewService creates a classification service. now is injectable for tests;
// pass nil for time.Now.
func NewService(ttl time.Duration, now func() time.Time) *Service {
	if now == nil {
		now = time.Now
	}
	return &Service{
		business: BusinessRegistry(),
		content:  ContentRegistry(),
		unified:  NewUnifiedValidator(),
		cache:    NewCache(ttl, now),
		now:      now,
	}
}

// Validator exposes the unified validator for the HTTP layer.
func (s *Service) Validator() *UnifiedValidator {
	return s.unified
}

// BusinessCategories returns code details for the business family. The
// projection is cached per (activeOnly, includeDetails) flag combination.
func (s *Service) BusinessCategories(activeOnly, includeDetails bool) []CodeDetail {
	return s.categories(s.business, activeOnly, includeDetails)
}

// ContentCategories returns code details for the content family.
func (s *Service) ContentCategories(activeOnly, includeDetails bool) []CodeDetail {
	return s.categories(s.content, activeOnly, includeDetails)
}

func (s *Service) categories(registry *Registry, activeOnly, includeDetails bool) []CodeDetail {
	key := fmt.Sprintf("%s:active=%t:details=%t", registry.CodeType(), activeOnly, includeDetails)
	if cached, ok := s.cache.Get(key); ok {
		return cached.([]CodeDetail)
	}

	now := s.now()
	details := make([]CodeDetail, 0, len(registry.Entries()))
	for _, code := range registry.AllCodes() {
		detail, _ := registry.Detail(code, now)
		if !activeOnly || detail.IsActive {
			if !includeDetails {
				detail.Description = ""
				detail.Features = nil
				detail.Metadata = nil
			}
			details = append(details, detail)
		}
	}

	s.cache.Set(key, details)
	return details
}

// CategoryDetail returns the detail for a single code of either family.
func (s *Service) CategoryDetail(code string) (CodeDetail, bool) {
	if detail, ok := s.business.Detail(code, s.now()); ok {
		return detail, true
	}
	return s.content.Detail(code, s.now())
}

// AllCodes returns every known code grouped by family.
func (s *Service) AllCodes() map[string][]string {
	return map[string][]string{
		CodeTypeBusiness: s.business.AllCodes(),
		CodeTypeContent:  s.content.AllCodes(),
	}
}

// Search scores registry entries against a case-insensitive substring query.
// A name match weighs 10, a description match 5, and the first matching
// feature 3. Ties keep enumeration order; results are truncated to limit.
func (s *Service) Search(query string, fields []string, limit int, codeType string) []SearchResult {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return []SearchResult{}
	}

	searchField := func(name string) bool {
		if len(fields) == 0 {
			return true
		}
		for _, f := range fields {
			if strings.EqualFold(f, name) {
				return true
			}
		}
		return false
	}

	var results []SearchResult
	for _, registry := range s.registriesFor(codeType) {
		for _, entry := range registry.Entries() {
			score := 0
			if searchField("name") && strings.Contains(strings.ToLower(entry.Name), query) {
				score += scoreNameMatch
			}
			if searchField("description") && strings.Contains(strings.ToLower(entry.Description), query) {
				score += scoreDescriptionMatch
			}
			if searchField("features") {
				for _, feature := range entry.Features {
					if strings.Contains(strings.ToLower(feature), query) {
						score += scoreFeatureMatch
						break
					}
				}
			}
			if score > 0 {
				results = append(results, SearchResult{
					Code:        entry.Code,
					Name:        entry.Name,
					Description: entry.Description,
					CodeType:    registry.CodeType(),
					Score:       score,
				})
			}
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	if results == nil {
		results = []SearchResult{}
	}
	return results
}

// Recommend scores every known code by how many of its associated keywords
// appear in the lower-cased context. Only codes with a positive score are
// returned, sorted descending and truncated to limit.
func (s *Service) Recommend(context string, codeType string, limit int) []Recommendation {
	context = strings.ToLower(context)
	if strings.TrimSpace(context) == "" {
		return []Recommendation{}
	}

	var recommendations []Recommendation
	for _, registry := range s.registriesFor(codeType) {
		for _, entry := range registry.Entries() {
			keywords := recommendationKeywords[entry.Code]
			var matched []string
			for _, kw := range keywords {
				if strings.Contains(context, kw) {
					matched = append(matched, kw)
				}
			}
			if len(matched) > 0 {
				recommendations = append(recommendations, Recommendation{
					Code:            entry.Code,
					Name:            entry.Name,
					CodeType:        registry.CodeType(),
					Score:           len(matched),
					MatchedKeywords: matched,
				})
			}
		}
	}

	sort.SliceStable(recommendations, func(i, j int) bool {
		return recommendations[i].Score > recommendations[j].Score
	})
	if limit > 0 && len(recommendations) > limit {
		recommendations = recommendations[:limit]
	}
	if recommendations == nil {
		recommendations = []Recommendation{}
	}
	return recommendations
}

// SearchAll runs the search across both families (honoring an optional
// family filter), windows the concatenated results with offset/limit, and
// reports the elapsed wall-clock time.
func (s *Service) SearchAll(req SearchAllRequest) SearchAllResponse {
	start := time.Now()

	results := s.Search(req.Query, req.Fields, 0, req.CodeType)
	total := len(results)

	offset := req.Offset
	if offset < 0 {
		offset = 0
	}
	if offset > len(results) {
		offset = len(results)
	}
	results = results[offset:]
	if req.Limit > 0 && len(results) > req.Limit {
		results = results[:req.Limit]
	}

	return SearchAllResponse{
		Results:    results,
		TotalCount: total,
		Offset:     offset,
		Limit:      req.Limit,
		ElapsedMS:  time.Since(start).Milliseconds(),
	}
}

// Stats returns aggregate statistics over the registries and cache.
func (s *Service) Stats() Statistics {
	features := map[string]int{}
	for _, entry := range s.business.Entries() {
		features[CodeTypeBusiness] += len(entry.Features)
	}
	for _, entry := range s.content.Entries() {
		features[CodeTypeContent] += len(entry.Features)
	}

	return Statistics{
		BusinessCodes:   len(s.business.Entries()),
		ContentCodes:    len(s.content.Entries()),
		TotalCodes:      len(s.business.Entries()) + len(s.content.Entries()),
		FeaturesByType:  features,
		CacheEntries:    s.cache.Len(),
		RecommendedKeys: len(recommendationKeywords),
	}
}

// ClearCache empties the cache unconditionally.
func (s *Service) ClearCache() {
	s.cache.Clear()
}

// CacheEntries reports the current cache size for health output.
func (s *Service) CacheEntries() int {
	return s.cache.Len()
}

func (s *Service) registriesFor(codeType string) []*Registry {
	switch codeType {
	case CodeTypeBusiness:
		return []*Registry{s.business}
	case CodeTypeContent:
		return []*Registry{s.content}
	default:
		return []*Registry{s.business, s.content}
	}
}
