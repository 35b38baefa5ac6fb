package classification

import "strings"

// contentIndicators are substrings that suggest a code belongs to the
// content family when neither validator accepts it.
var contentIndicators = []string{"matr", "notice", "event", "edu"}

// UnifiedValidator validates codes of either family, auto-detecting which
// one a candidate belongs to.
type UnifiedValidator struct {
	business *BusinessValidator
	content  *ContentValidator
}

// NewUnifiedValidator creates a validator spanning both code families.
func NewUnifiedValidator() *UnifiedValidator {
	return &UnifiedValidator{
		business: NewBusinessValidator(),
		content:  NewContentValidator(),
	}
}

// Validate tries the business validator first, then the content validator,
// and returns the first valid result. When both reject the code, the
// combined result carries both error lists and both suggestion lists, each
// entry prefixed with its family name.
func (v *UnifiedValidator) Validate(code string) ValidationResult {
	business := v.business.Validate(code)
	if business.IsValid {
		return business
	}

	content := v.content.Validate(code)
	if content.IsValid {
		return content
	}

	combined := newValidationResult(code, "")
	for _, e := range business.Errors {
		combined.addError(CodeTypeBusiness + ": " + e)
	}
	for _, e := range content.Errors {
		combined.addError(CodeTypeContent + ": " + e)
	}
	for _, s := range business.Suggestions {
		combined.addSuggestion(CodeTypeBusiness + ": " + s)
	}
	for _, s := range content.Suggestions {
		combined.addSuggestion(CodeTypeContent + ": " + s)
	}
	return *combined
}

// DetectCodeType returns the family a code belongs to. For codes neither
// validator accepts, a heuristic falls back to the business prefix and a
// fixed set of content-indicative substrings. An empty string means the
// family is undetectable; that is not an error.
func (v *UnifiedValidator) DetectCodeType(code string) string {
	if v.business.Validate(code).IsValid {
		return CodeTypeBusiness
	}
	if v.content.Validate(code).IsValid {
		return CodeTypeContent
	}

	lower := strings.ToLower(strings.TrimSpace(code))
	if strings.HasPrefix(lower, BusinessCodePrefix) {
		return CodeTypeBusiness
	}
	for _, indicator := range contentIndicators {
		if strings.Contains(lower, indicator) {
			return CodeTypeContent
		}
	}
	return ""
}

// ValidateBatch validates every code independently, in input order, and
// returns a code-to-result mapping. Duplicate codes resolve to the result
// of the last occurrence.
func (v *UnifiedValidator) ValidateBatch(codes []string) map[string]ValidationResult {
	results := make(map[string]ValidationResult, len(codes))
	for _, code := range codes {
		results[code] = v.Validate(code)
	}
	return results
}
