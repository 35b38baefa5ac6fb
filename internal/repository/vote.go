package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/opencivic/data-request-backend/internal/model"
)

// VoteRepository persists votes documents. A partial unique index on
// (data.request_id, data.user_id) over active documents backs the
// one-active-vote invariant; Create surfaces the duplicate-key error so the
// service can treat a lost race as a conflict instead of double-counting.
type VoteRepository struct {
	collection *mongo.Collection
}

// ErrDuplicateVote is returned when an insert collides with an existing
// active vote for the same (request, user) pair.
var ErrDuplicateVote = errors.New("active vote already exists")

// NewVoteRepository creates a repository over the votes collection.
func NewVoteRepository(db *mongo.Database) *VoteRepository {
	return &VoteRepository{collection: db.Collection("votes")}
}

// FindActive returns the active vote of userID on requestID, if any.
func (r *VoteRepository) FindActive(ctx context.Context, requestID, userID string) (model.Vote, error) {
	var vote model.Vote
	err := r.collection.FindOne(ctx, activeFilter(bson.M{
		"data.request_id": requestID,
		"data.user_id":    userID,
	})).Decode(&vote)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Vote{}, ErrNotFound
		}
		return model.Vote{}, err
	}
	return vote, nil
}

// Create inserts a new active vote.
func (r *VoteRepository) Create(ctx context.Context, vote model.Vote) error {
	_, err := r.collection.InsertOne(ctx, vote)
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicateVote
	}
	return err
}

// Deactivate soft-deletes the vote with the given id.
func (r *VoteRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.collection.UpdateOne(ctx, activeFilter(bson.M{"_id": id}), bson.M{"$set": bson.M{
		"is_active":  false,
		"updated_at": time.Now().UTC(),
	}})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// CountByType returns the number of active votes of the given type on a
// request. Store failures degrade to zero after logging.
func (r *VoteRepository) CountByType(ctx context.Context, requestID, voteType string) int64 {
	count, err := r.collection.CountDocuments(ctx, activeFilter(bson.M{
		"data.request_id": requestID,
		"data.type":       voteType,
	}))
	if err != nil {
		log.Printf("votes count failed, degrading to zero: %v", err)
		return 0
	}
	return count
}

// CleanupExpired is a documented maintenance hook that currently does
// nothing; votes never expire today.
func (r *VoteRepository) CleanupExpired(ctx context.Context) error {
	return nil
}
