package model

import "time"

// Vote types.
const (
	VoteLike    = "like"
	VoteDislike = "dislike"
)

// VoteData is the payload sub-object of a votes document.
type VoteData struct {
	RequestID string `bson:"request_id" json:"request_id"`
	UserID    string `bson:"user_id" json:"user_id"`
	Type      string `bson:"type" json:"type"`
}

// Vote is a votes document. At most one active vote may exist per
// (request, user) pair; deactivated votes are kept for audit.
type Vote struct {
	ID        string    `bson:"_id" json:"id"`
	Data      VoteData  `bson:"data" json:"data"`
	IsActive  bool      `bson:"is_active" json:"is_active"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// VoteRequest represents the request body for casting a vote
type VoteRequest struct {
	Type string `json:"type"`
}

// Validate validates the vote request
func (r *VoteRequest) Validate() map[string]string {
	errors := make(map[string]string)
	if r.Type != VoteLike && r.Type != VoteDislike {
		errors["type"] = "type must be either like or dislike"
	}
	return errors
}
