package model

import (
	"testing"
)

func TestNewPaginationParams_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		page    int
		size    int
		wantErr bool
	}{
		{name: "valid", page: 1, size: 10, wantErr: false},
		{name: "max bounds", page: 1000, size: 100, wantErr: false},
		{name: "page zero", page: 0, size: 10, wantErr: true},
		{name: "page too large", page: 1001, size: 10, wantErr: true},
		{name: "size zero", page: 1, size: 0, wantErr: true},
		{name: "size too large", page: 1, size: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPaginationParams(tt.page, tt.size, "", "")
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPaginationParams(%d, %d) error = %v, wantErr %v", tt.page, tt.size, err, tt.wantErr)
			}
		})
	}
}

func TestClampedPaginationParams_Clamps(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		size     int
		wantPage int
		wantSize int
	}{
		{name: "in range", page: 3, size: 25, wantPage: 3, wantSize: 25},
		{name: "page below", page: -5, size: 10, wantPage: 1, wantSize: 10},
		{name: "page above", page: 5000, size: 10, wantPage: 1000, wantSize: 10},
		{name: "size below", page: 1, size: 0, wantPage: 1, wantSize: 10},
		{name: "size above", page: 1, size: 999, wantPage: 1, wantSize: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := ClampedPaginationParams(tt.page, tt.size, "", "")
			if params.Page != tt.wantPage {
				t.Errorf("expected page %d, got %d", tt.wantPage, params.Page)
			}
			if params.Size != tt.wantSize {
				t.Errorf("expected size %d, got %d", tt.wantSize, params.Size)
			}
		})
	}
}

func TestPaginationParams_Skip(t *testing.T) {
	tests := []struct {
		page int
		size int
		want int
	}{
		{page: 1, size: 10, want: 0},
		{page: 2, size: 10, want: 10},
		{page: 8, size: 20, want: 140},
		{page: 100, size: 7, want: 693},
	}

	for _, tt := range tests {
		params, err := NewPaginationParams(tt.page, tt.size, "", "")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := params.Skip(); got != tt.want {
			t.Errorf("Skip() for page=%d size=%d = %d, want %d", tt.page, tt.size, got, tt.want)
		}
	}
}

func TestSanitizeSortField(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{input: "", want: "_id"},
		{input: "   ", want: "_id"},
		{input: "created_at", want: "created_at"},
		{input: "$where", want: "where"},
		{input: "data.title", want: "data_title"},
		{input: "Data.Vote$Count", want: "data_votecount"},
		{input: "$$$", want: "_id"},
	}

	for _, tt := range tests {
		if got := SanitizeSortField(tt.input); got != tt.want {
			t.Errorf("SanitizeSortField(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSanitizeSortField_Idempotent(t *testing.T) {
	inputs := []string{"", "$meta.score", "data.title", "CREATED_AT", "a$b.c"}
	for _, input := range inputs {
		once := SanitizeSortField(input)
		twice := SanitizeSortField(once)
		if once != twice {
			t.Errorf("sanitize not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}

func TestNormalizeOrder(t *testing.T) {
	ascending := []string{"asc", "ascending", "1", "up", "ASC", "Ascending", "UP"}
	for _, input := range ascending {
		if got := NormalizeOrder(input); got != OrderAsc {
			t.Errorf("NormalizeOrder(%q) = %q, want %q", input, got, OrderAsc)
		}
	}

	descending := []string{"desc", "descending", "-1", "down", "DESC", "Descending", "DOWN"}
	for _, input := range descending {
		if got := NormalizeOrder(input); got != OrderDesc {
			t.Errorf("NormalizeOrder(%q) = %q, want %q", input, got, OrderDesc)
		}
	}

	// Unrecognized values pass through unchanged.
	for _, input := range []string{"sideways", "2", ""} {
		if got := NormalizeOrder(input); got != input {
			t.Errorf("NormalizeOrder(%q) = %q, want passthrough", input, got)
		}
	}
}

func TestNewSortParams_ReconcilesLengths(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		orders []string
		want   []SortPair
	}{
		{
			name:   "matching lengths",
			fields: []string{"title", "created_at"},
			orders: []string{"asc", "desc"},
			want:   []SortPair{{Field: "title", Direction: 1}, {Field: "created_at", Direction: -1}},
		},
		{
			name:   "missing orders padded with desc",
			fields: []string{"title", "created_at", "votes"},
			orders: []string{"asc"},
			want:   []SortPair{{Field: "title", Direction: 1}, {Field: "created_at", Direction: -1}, {Field: "votes", Direction: -1}},
		},
		{
			name:   "extra orders truncated",
			fields: []string{"title"},
			orders: []string{"desc", "asc", "asc"},
			want:   []SortPair{{Field: "title", Direction: -1}},
		},
		{
			name:   "fields sanitized",
			fields: []string{"data.title", "$score"},
			orders: []string{},
			want:   []SortPair{{Field: "data_title", Direction: -1}, {Field: "score", Direction: -1}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := NewSortParams(tt.fields, tt.orders)
			if len(params.Orders) != len(params.Fields) {
				t.Fatalf("orders length %d != fields length %d", len(params.Orders), len(params.Fields))
			}
			pairs := params.Pairs()
			if len(pairs) != len(tt.want) {
				t.Fatalf("expected %d pairs, got %d", len(tt.want), len(pairs))
			}
			for i, want := range tt.want {
				if pairs[i] != want {
					t.Errorf("pair %d = %+v, want %+v", i, pairs[i], want)
				}
			}
		})
	}
}

func TestPaginatedResult_Derived(t *testing.T) {
	params := ClampedPaginationParams(8, 20, "", "")
	result := Paginate([]string{"i1", "i2", "i3"}, 145, params)

	if got := result.TotalPages(); got != 8 {
		t.Errorf("TotalPages() = %d, want 8", got)
	}
	if result.HasNext() {
		t.Error("expected HasNext() = false on the last page")
	}
	if !result.HasPrevious() {
		t.Error("expected HasPrevious() = true on page 8")
	}
	if result.IsFirstPage() {
		t.Error("expected IsFirstPage() = false on page 8")
	}
	if !result.IsLastPage() {
		t.Error("expected IsLastPage() = true on page 8")
	}
	if result.NextPage() != nil {
		t.Error("expected NextPage() = nil on the last page")
	}
	if prev := result.PreviousPage(); prev == nil || *prev != 7 {
		t.Errorf("expected PreviousPage() = 7, got %v", prev)
	}
}

func TestPaginatedResult_MiddlePage(t *testing.T) {
	params := ClampedPaginationParams(3, 10, "", "")
	result := Paginate([]int{1, 2, 3}, 100, params)

	if got := result.TotalPages(); got != 10 {
		t.Errorf("TotalPages() = %d, want 10", got)
	}
	if !result.HasNext() {
		t.Error("expected HasNext() = true on page 3 of 10")
	}
	if next := result.NextPage(); next == nil || *next != 4 {
		t.Errorf("expected NextPage() = 4, got %v", next)
	}
}

func TestPaginatedResult_EmptyTotal(t *testing.T) {
	// Page 1 of an empty result: first and last both true.
	result := Paginate([]string{}, 0, ClampedPaginationParams(1, 10, "", ""))
	if got := result.TotalPages(); got != 0 {
		t.Errorf("TotalPages() = %d, want 0", got)
	}
	if result.HasNext() {
		t.Error("expected HasNext() = false with total 0")
	}
	if result.HasPrevious() {
		t.Error("expected HasPrevious() = false on page 1")
	}
	if !result.IsFirstPage() {
		t.Error("expected IsFirstPage() = true on page 1")
	}
	if !result.IsLastPage() {
		t.Error("expected IsLastPage() = true with zero pages")
	}

	// Page 2 of an empty result: page-number rule wins, so IsFirstPage
	// is false and HasPrevious is true even though no pages exist.
	beyond := Paginate([]string{}, 0, ClampedPaginationParams(2, 10, "", ""))
	if beyond.IsFirstPage() {
		t.Error("expected IsFirstPage() = false on page 2")
	}
	if !beyond.HasPrevious() {
		t.Error("expected HasPrevious() = true on page 2")
	}
	if beyond.HasNext() {
		t.Error("expected HasNext() = false with total 0")
	}
	if !beyond.IsLastPage() {
		t.Error("expected IsLastPage() = true with zero pages")
	}
}

func TestPaginatedResult_ExactDivision(t *testing.T) {
	result := Paginate([]int{1}, 100, ClampedPaginationParams(10, 10, "", ""))
	if got := result.TotalPages(); got != 10 {
		t.Errorf("TotalPages() = %d, want 10", got)
	}
	if result.HasNext() {
		t.Error("expected HasNext() = false on the final exact page")
	}
}
