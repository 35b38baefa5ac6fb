package model

import (
	"strings"
	"time"
)

// Data-request lifecycle statuses.
const (
	StatusPending   = "pending"
	StatusInReview  = "in_review"
	StatusApproved  = "approved"
	StatusRejected  = "rejected"
	StatusCompleted = "completed"
)

// Priorities in ascending weight order.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

var validStatuses = map[string]bool{
	StatusPending:   true,
	StatusInReview:  true,
	StatusApproved:  true,
	StatusRejected:  true,
	StatusCompleted: true,
}

var priorityWeights = map[string]int{
	PriorityLow:    1,
	PriorityMedium: 2,
	PriorityHigh:   3,
}

// PriorityWeight maps a priority name to its sortable weight; unknown
// priorities weigh 0.
func PriorityWeight(priority string) int {
	return priorityWeights[priority]
}

// IsValidStatus reports whether status is a known lifecycle status.
func IsValidStatus(status string) bool {
	return validStatuses[status]
}

// DataRequestData is the payload sub-object of a data_requests document.
type DataRequestData struct {
	Title          string   `bson:"title" json:"title"`
	Description    string   `bson:"description" json:"description"`
	CategoryID     string   `bson:"category_id" json:"category_id"`
	Status         string   `bson:"status" json:"status"`
	Priority       string   `bson:"priority" json:"priority"`
	PriorityWeight int      `bson:"priority_weight" json:"-"`
	RequesterID    string   `bson:"requester_id" json:"requester_id"`
	ReferenceCode  string   `bson:"reference_code" json:"reference_code"`
	LikesCount     int      `bson:"likes_count" json:"likes_count"`
	DislikesCount  int      `bson:"dislikes_count" json:"dislikes_count"`
	VoteCount      int      `bson:"vote_count" json:"vote_count"`
	Tags           []string `bson:"tags" json:"tags"`
}

// DataRequest is a data_requests document.
type DataRequest struct {
	ID        string          `bson:"_id" json:"id"`
	Data      DataRequestData `bson:"data" json:"data"`
	IsActive  bool            `bson:"is_active" json:"is_active"`
	CreatedAt time.Time       `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time       `bson:"updated_at" json:"updated_at"`
}

// DataRequestResponse is the API representation of a data request.
type DataRequestResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	CategoryID    string    `json:"category_id"`
	Status        string    `json:"status"`
	Priority      string    `json:"priority"`
	RequesterID   string    `json:"requester_id"`
	ReferenceCode string    `json:"reference_code"`
	LikesCount    int       `json:"likes_count"`
	DislikesCount int       `json:"dislikes_count"`
	VoteCount     int       `json:"vote_count"`
	Tags          []string  `json:"tags"`
	UserVoted     bool      `json:"user_voted"`
	UserVoteType  string    `json:"user_vote_type,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ToResponse flattens the document for API output.
func (d DataRequest) ToResponse() DataRequestResponse {
	tags := d.Data.Tags
	if tags == nil {
		tags = []string{}
	}
	return DataRequestResponse{
		ID:            d.ID,
		Title:         d.Data.Title,
		Description:   d.Data.Description,
		CategoryID:    d.Data.CategoryID,
		Status:        d.Data.Status,
		Priority:      d.Data.Priority,
		RequesterID:   d.Data.RequesterID,
		ReferenceCode: d.Data.ReferenceCode,
		LikesCount:    d.Data.LikesCount,
		DislikesCount: d.Data.DislikesCount,
		VoteCount:     d.Data.VoteCount,
		Tags:          tags,
		CreatedAt:     d.CreatedAt,
		UpdatedAt:     d.UpdatedAt,
	}
}

// CreateDataRequestRequest represents the request body for a new data request
type CreateDataRequestRequest struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Priority    string   `json:"priority"`
	Tags        []string `json:"tags"`
}

// Validate validates the create request
func (r *CreateDataRequestRequest) Validate() map[string]string {
	errors := make(map[string]string)

	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
	r.Category = strings.TrimSpace(r.Category)

	if r.Title == "" {
		errors["title"] = "title is required"
	} else if len(r.Title) > 200 {
		errors["title"] = "title must be 200 characters or less"
	}

	if r.Category == "" {
		errors["category"] = "category is required"
	}

	if r.Priority == "" {
		r.Priority = PriorityMedium
	} else if PriorityWeight(r.Priority) == 0 {
		errors["priority"] = "priority must be one of: low, medium, high"
	}

	return errors
}

// UpdateDataRequestRequest represents the request body for updating a data request
// All fields are optional - only provided fields will be updated
type UpdateDataRequestRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Priority    *string   `json:"priority"`
	Tags        *[]string `json:"tags"`
}

// Validate validates the update request
func (r *UpdateDataRequestRequest) Validate() map[string]string {
	errors := make(map[string]string)

	if r.Title != nil {
		title := strings.TrimSpace(*r.Title)
		if title == "" {
			errors["title"] = "title cannot be empty"
		} else if len(title) > 200 {
			errors["title"] = "title must be 200 characters or less"
		}
	}

	if r.Priority != nil && PriorityWeight(*r.Priority) == 0 {
		errors["priority"] = "priority must be one of: low, medium, high"
	}

	return errors
}

// UpdateStatusRequest represents the request body for the admin status update
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate validates the status update request
func (r *UpdateStatusRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if !IsValidStatus(r.Status) {
		errors["status"] = "status must be one of: pending, in_review, approved, rejected, completed"
	}
	return errors
}

// DataRequestStats aggregates request counts for the stats endpoint.
type DataRequestStats struct {
	Total         int64            `json:"total"`
	ByStatus      map[string]int64 `json:"by_status"`
	TotalVotes    int64            `json:"total_votes"`
	TopCategories []CategoryCount  `json:"top_categories"`
}

// CategoryCount pairs a category id with its request count.
type CategoryCount struct {
	CategoryID string `bson:"_id" json:"category_id"`
	Count      int64  `bson:"count" json:"count"`
}
