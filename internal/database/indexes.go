package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the indexes the application relies on. All calls are
// idempotent: CreateMany is a no-op for indexes that already exist.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	// Text index backing $text search over request titles and descriptions.
	_, err := db.Collection("data_requests").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "data.title", Value: "text"},
				{Key: "data.description", Value: "text"},
			},
			Options: options.Index().SetName("data_requests_text"),
		},
		{
			Keys:    bson.D{{Key: "data.category_id", Value: 1}, {Key: "is_active", Value: 1}},
			Options: options.Index().SetName("data_requests_category"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create data_requests indexes: %w", err)
	}

	// At most one active vote per (request, user). The partial filter keeps
	// deactivated votes out of the uniqueness constraint so a user can vote
	// again after cancelling.
	_, err = db.Collection("votes").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "data.request_id", Value: 1},
			{Key: "data.user_id", Value: 1},
		},
		Options: options.Index().
			SetName("votes_active_unique").
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"is_active": true}),
	})
	if err != nil {
		return fmt.Errorf("failed to create votes index: %w", err)
	}

	_, err = db.Collection("categories").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "data.name", Value: 1}},
		Options: options.Index().SetName("categories_name").SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create categories index: %w", err)
	}

	return nil
}
