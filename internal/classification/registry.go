package classification

import "time"

// Code family names used across validation results and API responses.
const (
	CodeTypeBusiness = "business_category"
	CodeTypeContent  = "content_category"
)

// BusinessCodePrefix is the fixed 10-character prefix of every business
// category code; a single digit 1-9 follows it.
const BusinessCodePrefix = "cmrczn_tab"

// CodeInfo is one entry of a fixed classification registry.
type CodeInfo struct {
	Code        string   `json:"code"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
}

// CodeDetail is a full classification code instance constructed on demand
// from the registry tables. Instances are never persisted; mutations touch
// only the in-memory copy.
type CodeDetail struct {
	Code        string            `json:"code"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Features    []string          `json:"features"`
	IsActive    bool              `json:"is_active"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	Metadata    map[string]string `json:"metadata"`
}

// AddFeature appends a feature to this instance and bumps its timestamp.
// The registry itself is never written back.
func (d *CodeDetail) AddFeature(feature string, now time.Time) {
	for _, f := range d.Features {
		if f == feature {
			return
		}
	}
	d.Features = append(d.Features, feature)
	d.UpdatedAt = now
}

// RemoveFeature removes a feature from this instance and bumps its timestamp.
func (d *CodeDetail) RemoveFeature(feature string, now time.Time) {
	for i, f := range d.Features {
		if f == feature {
			d.Features = append(d.Features[:i], d.Features[i+1:]...)
			d.UpdatedAt = now
			return
		}
	}
}

// businessCodes is the closed business-category registry, in declaration
// order. Codes mirror the tab identifiers of the external public-data API.
var businessCodes = []CodeInfo{
	{
		Code:        "cmrczn_tab1",
		Name:        "Funding",
		Description: "Policy funds, loans, and financial guarantees for small businesses",
		Features:    []string{"loans", "guarantees", "subsidies"},
	},
	{
		Code:        "cmrczn_tab2",
		Name:        "Technology & R&D",
		Description: "Research, development, and technology transfer support programs",
		Features:    []string{"rnd_grants", "patents", "tech_transfer"},
	},
	{
		Code:        "cmrczn_tab3",
		Name:        "Mentoring & Consulting",
		Description: "Expert mentoring and management consulting services",
		Features:    []string{"mentoring", "consulting", "diagnosis"},
	},
	{
		Code:        "cmrczn_tab4",
		Name:        "Facilities & Space",
		Description: "Incubator offices, shared workspaces, and equipment rental",
		Features:    []string{"incubator", "coworking", "equipment"},
	},
	{
		Code:        "cmrczn_tab5",
		Name:        "Commercialization",
		Description: "Product launch, marketing, and sales channel support",
		Features:    []string{"marketing", "distribution", "branding"},
	},
	{
		Code:        "cmrczn_tab6",
		Name:        "Global Expansion",
		Description: "Export assistance and overseas market entry programs",
		Features:    []string{"export", "trade_missions", "localization"},
	},
	{
		Code:        "cmrczn_tab7",
		Name:        "Events & Networking",
		Description: "Demo days, fairs, and business networking events",
		Features:    []string{"demo_day", "fairs", "meetups"},
	},
	{
		Code:        "cmrczn_tab8",
		Name:        "Talent & HR",
		Description: "Recruitment support and workforce subsidy programs",
		Features:    []string{"recruitment", "wage_subsidy", "internships"},
	},
	{
		Code:        "cmrczn_tab9",
		Name:        "Education & Training",
		Description: "Entrepreneurship courses and vocational training",
		Features:    []string{"courses", "workshops", "certification"},
	},
}

// contentCodes is the closed content-category registry, in declaration order.
var contentCodes = []CodeInfo{
	{
		Code:        "notice_matr",
		Name:        "Notices",
		Description: "Official announcements and program notices",
		Features:    []string{"announcement", "deadline", "result"},
	},
	{
		Code:        "event_matr",
		Name:        "Events",
		Description: "Scheduled events, fairs, and competitions",
		Features:    []string{"schedule", "registration", "venue"},
	},
	{
		Code:        "edu_matr",
		Name:        "Education Materials",
		Description: "Lectures, guides, and training materials",
		Features:    []string{"lecture", "guide", "video"},
	},
}

// Registry is a closed, ordered set of classification codes.
type Registry struct {
	codeType string
	entries  []CodeInfo
	index    map[string]CodeInfo
}

func newRegistry(codeType string, entries []CodeInfo) *Registry {
	index := make(map[string]CodeInfo, len(entries))
	for _, e := range entries {
		index[e.Code] = e
	}
	return &Registry{codeType: codeType, entries: entries, index: index}
}

// BusinessRegistry returns the fixed business-category registry.
func BusinessRegistry() *Registry {
	return newRegistry(CodeTypeBusiness, businessCodes)
}

// ContentRegistry returns the fixed content-category registry.
func ContentRegistry() *Registry {
	return newRegistry(CodeTypeContent, contentCodes)
}

// CodeType returns the family name of this registry.
func (r *Registry) CodeType() string {
	return r.codeType
}

// AllCodes returns every code in declaration order.
func (r *Registry) AllCodes() []string {
	codes := make([]string, len(r.entries))
	for i, e := range r.entries {
		codes[i] = e.Code
	}
	return codes
}

// Entries returns the registry entries in declaration order.
func (r *Registry) Entries() []CodeInfo {
	return r.entries
}

// IsValid reports membership of code in the registry.
func (r *Registry) IsValid(code string) bool {
	_, ok := r.index[code]
	return ok
}

// Name returns the display name for code, or "unknown" for codes outside
// the registry.
func (r *Registry) Name(code string) string {
	if e, ok := r.index[code]; ok {
		return e.Name
	}
	return "unknown"
}

// Description returns the description for code, or "unknown code" when the
// code is outside the registry.
func (r *Registry) Description(code string) string {
	if e, ok := r.index[code]; ok {
		return e.Description
	}
	return "unknown code"
}

// DetailedDescription returns "name: description" for code, with the same
// fallback behavior as Description.
func (r *Registry) DetailedDescription(code string) string {
	if e, ok := r.index[code]; ok {
		return e.Name + ": " + e.Description
	}
	return "unknown code"
}

// Features returns the feature list for code, or an empty list for codes
// outside the registry.
func (r *Registry) Features(code string) []string {
	if e, ok := r.index[code]; ok {
		return e.Features
	}
	return []string{}
}

// Detail constructs a fresh CodeDetail for code. The second return value is
// false when the code is outside the registry.
func (r *Registry) Detail(code string, now time.Time) (CodeDetail, bool) {
	e, ok := r.index[code]
	if !ok {
		return CodeDetail{}, false
	}
	features := make([]string, len(e.Features))
	copy(features, e.Features)
	return CodeDetail{
		Code:        e.Code,
		Name:        e.Name,
		Description: e.Description,
		Features:    features,
		IsActive:    true,
		CreatedAt:   now,
		UpdatedAt:   now,
		Metadata:    map[string]string{"code_type": r.codeType},
	}, true
}
