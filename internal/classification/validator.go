package classification

import (
	"fmt"
	"strings"
)

const (
	maxBusinessSuggestions = 5
	maxContentSuggestions  = 3
)

// commonBusinessCodes is the fallback suggestion list when no heuristic
// produces a candidate.
var commonBusinessCodes = []string{"cmrczn_tab1", "cmrczn_tab5", "cmrczn_tab9"}

// CommonBusinessCodes returns the fixed fallback list of frequently used
// business codes.
func CommonBusinessCodes() []string {
	return append([]string{}, commonBusinessCodes...)
}

// contentKeywords maps search keywords (English and Korean) onto content
// codes, used for substring-based suggestions. Order matters: earlier
// entries rank first.
var contentKeywords = []struct {
	Keyword string
	Code    string
}{
	{"notice", "notice_matr"},
	{"announce", "notice_matr"},
	{"공지", "notice_matr"},
	{"알림", "notice_matr"},
	{"event", "event_matr"},
	{"fair", "event_matr"},
	{"행사", "event_matr"},
	{"대회", "event_matr"},
	{"edu", "edu_matr"},
	{"course", "edu_matr"},
	{"교육", "edu_matr"},
	{"강의", "edu_matr"},
}

// ValidationResult is the outcome of validating a single candidate code.
// IsValid is false exactly when Errors is non-empty; validation itself never
// returns a Go error.
type ValidationResult struct {
	Code        string   `json:"code"`
	IsValid     bool     `json:"is_valid"`
	Errors      []string `json:"errors"`
	Suggestions []string `json:"suggestions"`
	CodeType    string   `json:"code_type,omitempty"`
}

func newValidationResult(code, codeType string) *ValidationResult {
	return &ValidationResult{
		Code:        code,
		IsValid:     true,
		Errors:      []string{},
		Suggestions: []string{},
		CodeType:    codeType,
	}
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
	r.IsValid = false
}

func (r *ValidationResult) addSuggestion(code string) {
	for _, s := range r.Suggestions {
		if s == code {
			return
		}
	}
	r.Suggestions = append(r.Suggestions, code)
}

// BusinessValidator validates business-category codes against the fixed
// registry plus the structural prefix/suffix pattern.
type BusinessValidator struct {
	registry *Registry
}

// NewBusinessValidator creates a validator over the business registry.
func NewBusinessValidator() *BusinessValidator {
	return &BusinessValidator{registry: BusinessRegistry()}
}

// Validate checks a candidate business code. Invalid input yields a
// populated result, never an error.
func (v *BusinessValidator) Validate(code string) ValidationResult {
	result := newValidationResult(code, CodeTypeBusiness)

	if strings.TrimSpace(code) == "" {
		result.addError("code is empty")
		return *result
	}

	lower := strings.ToLower(code)
	if code != lower {
		result.addError("code must be lower-case")
		result.addSuggestion(lower)
	}

	if !strings.HasPrefix(lower, BusinessCodePrefix) {
		result.addError(fmt.Sprintf("code must start with %q", BusinessCodePrefix))
	} else {
		suffix := lower[len(BusinessCodePrefix):]
		switch {
		case suffix == "":
			result.addError("code is missing its numeric suffix")
		case len(suffix) > 1 || suffix[0] < '0' || suffix[0] > '9':
			result.addError("code must end with a single digit")
		case suffix == "0":
			result.addError("code suffix must be between 1 and 9")
		}
	}

	if !v.registry.IsValid(code) {
		result.addError(fmt.Sprintf("%q is not a recognized business category code", code))
		for _, s := range v.Suggestions(code) {
			result.addSuggestion(s)
		}
	}

	return *result
}

// Suggestions returns ranked valid codes for an invalid candidate, capped at
// five. A fixed list of common codes is returned when every heuristic comes
// up empty.
func (v *BusinessValidator) Suggestions(code string) []string {
	lower := strings.ToLower(strings.TrimSpace(code))
	suggestions := []string{}
	seen := map[string]bool{}
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			suggestions = append(suggestions, c)
		}
	}

	// Case-insensitive exact match first.
	if v.registry.IsValid(lower) {
		add(lower)
	}

	// Substring overlap in either direction.
	if lower != "" {
		for _, valid := range v.registry.AllCodes() {
			if strings.Contains(valid, lower) || strings.Contains(lower, valid) {
				add(valid)
			}
		}
	}

	// Correct prefix and length: offer every sibling numeric variant.
	if strings.HasPrefix(lower, BusinessCodePrefix) && len(lower) == len(BusinessCodePrefix)+1 {
		for _, valid := range v.registry.AllCodes() {
			add(valid)
		}
	}

	if len(suggestions) == 0 {
		return append([]string{}, commonBusinessCodes...)
	}
	if len(suggestions) > maxBusinessSuggestions {
		suggestions = suggestions[:maxBusinessSuggestions]
	}
	return suggestions
}

// ContentValidator validates content-category codes against the fixed
// three-code registry. There is no structural pattern beyond membership.
type ContentValidator struct {
	registry *Registry
}

// NewContentValidator creates a validator over the content registry.
func NewContentValidator() *ContentValidator {
	return &ContentValidator{registry: ContentRegistry()}
}

// Validate checks a candidate content code. Invalid input yields a populated
// result, never an error.
func (v *ContentValidator) Validate(code string) ValidationResult {
	result := newValidationResult(code, CodeTypeContent)

	if strings.TrimSpace(code) == "" {
		result.addError("code is empty")
		return *result
	}

	lower := strings.ToLower(code)
	if code != lower {
		result.addError("code must be lower-case")
		result.addSuggestion(lower)
	}

	if !v.registry.IsValid(code) {
		result.addError(fmt.Sprintf("%q is not a recognized content category code", code))
		for _, s := range v.Suggestions(code) {
			result.addSuggestion(s)
		}
	}

	return *result
}

// Suggestions returns ranked valid codes for an invalid candidate, capped at
// three. All valid codes are returned when no heuristic matches.
func (v *ContentValidator) Suggestions(code string) []string {
	lower := strings.ToLower(strings.TrimSpace(code))
	suggestions := []string{}
	seen := map[string]bool{}
	add := func(c string) {
		if !seen[c] {
			seen[c] = true
			suggestions = append(suggestions, c)
		}
	}

	// Case-insensitive exact match first.
	if v.registry.IsValid(lower) {
		add(lower)
	}

	// Keyword table lookup.
	if lower != "" {
		for _, kw := range contentKeywords {
			if strings.Contains(lower, kw.Keyword) {
				add(kw.Code)
			}
		}
	}

	// Fuzzy match within edit distance 2.
	for _, valid := range v.registry.AllCodes() {
		if levenshtein(lower, valid) <= 2 {
			add(valid)
		}
	}

	if len(suggestions) == 0 {
		suggestions = v.registry.AllCodes()
	}
	if len(suggestions) > maxContentSuggestions {
		suggestions = suggestions[:maxContentSuggestions]
	}
	return suggestions
}

// levenshtein computes the edit distance between a and b using a single
// rolling row. The longer string is always treated as the outer loop so the
// result is independent of argument order.
func levenshtein(a, b string) int {
	if len(b) > len(a) {
		a, b = b, a
	}
	if len(b) == 0 {
		return len(a)
	}

	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}

	for i := 1; i <= len(a); i++ {
		prev := row[0]
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			current := row[j]
			row[j] = minInt(row[j]+1, row[j-1]+1, prev+cost)
			prev = current
		}
	}

	return row[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
