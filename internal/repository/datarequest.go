package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/opencivic/data-request-backend/internal/model"
)

// ErrNotFound is returned when an id does not resolve to an active document.
var ErrNotFound = errors.New("document not found")

// DataRequestRepository persists data_requests documents.
type DataRequestRepository struct {
	collection *mongo.Collection
}

// NewDataRequestRepository creates a repository over the data_requests
// collection.
func NewDataRequestRepository(db *mongo.Database) *DataRequestRepository {
	return &DataRequestRepository{collection: db.Collection("data_requests")}
}

// Create inserts a new data request document.
func (r *DataRequestRepository) Create(ctx context.Context, request model.DataRequest) error {
	_, err := r.collection.InsertOne(ctx, request)
	return err
}

// GetByID returns the active document with the given id.
func (r *DataRequestRepository) GetByID(ctx context.Context, id string) (model.DataRequest, error) {
	var request model.DataRequest
	err := r.collection.FindOne(ctx, activeFilter(bson.M{"_id": id})).Decode(&request)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.DataRequest{}, ErrNotFound
		}
		return model.DataRequest{}, err
	}
	return request, nil
}

// List returns one page of active requests matching the filter, plus the
// total match count. Store failures on this read path degrade to an empty
// result after logging; callers cannot distinguish them from no data.
func (r *DataRequestRepository) List(ctx context.Context, filter model.FilterParams, sortOption string, pagination model.PaginationParams) ([]model.DataRequest, int64, error) {
	query := activeFilter(BuildFilter(filter))

	total, err := r.collection.CountDocuments(ctx, query)
	if err != nil {
		log.Printf("data_requests count failed, degrading to empty result: %v", err)
		return []model.DataRequest{}, 0, nil
	}
	if total == 0 {
		return []model.DataRequest{}, 0, nil
	}

	opts := options.Find().
		SetSort(RequestSort(sortOption)).
		SetSkip(int64(pagination.Skip())).
		SetLimit(int64(pagination.Size))

	// Text searches rank by relevance instead of the requested sort.
	if filter.Search != "" {
		opts.SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}})
		opts.SetSort(bson.D{{Key: "score", Value: bson.M{"$meta": "textScore"}}})
	}

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		log.Printf("data_requests find failed, degrading to empty result: %v", err)
		return []model.DataRequest{}, 0, nil
	}
	defer cursor.Close(ctx)

	return decodeRequests(ctx, cursor), total, nil
}

// ListByUser returns every active request created by userID, newest first.
func (r *DataRequestRepository) ListByUser(ctx context.Context, userID string) ([]model.DataRequest, error) {
	query := activeFilter(bson.M{"data.requester_id": userID})
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		log.Printf("data_requests find by user failed, degrading to empty result: %v", err)
		return []model.DataRequest{}, nil
	}
	defer cursor.Close(ctx)

	return decodeRequests(ctx, cursor), nil
}

// Popular returns the most-liked active requests.
func (r *DataRequestRepository) Popular(ctx context.Context, limit int) ([]model.DataRequest, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter(nil)}},
		{{Key: "$sort", Value: bson.D{
			{Key: "data.likes_count", Value: -1},
			{Key: "data.vote_count", Value: -1},
			{Key: "created_at", Value: -1},
		}}},
		{{Key: "$limit", Value: limit}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("data_requests popular aggregation failed, degrading to empty result: %v", err)
		return []model.DataRequest{}, nil
	}
	defer cursor.Close(ctx)

	return decodeRequests(ctx, cursor), nil
}

// Stats aggregates request counts by status plus vote and category totals.
func (r *DataRequestRepository) Stats(ctx context.Context) (model.DataRequestStats, error) {
	stats := model.DataRequestStats{ByStatus: map[string]int64{}, TopCategories: []model.CategoryCount{}}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter(nil)}},
		{{Key: "$group", Value: bson.M{
			"_id":   "$data.status",
			"count": bson.M{"$sum": 1},
			"votes": bson.M{"$sum": "$data.vote_count"},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		log.Printf("data_requests stats aggregation failed, degrading to zero result: %v", err)
		return stats, nil
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var row struct {
			Status string `bson:"_id"`
			Count  int64  `bson:"count"`
			Votes  int64  `bson:"votes"`
		}
		if err := cursor.Decode(&row); err != nil {
			log.Printf("skipping malformed stats row: %v", err)
			continue
		}
		stats.ByStatus[row.Status] = row.Count
		stats.Total += row.Count
		stats.TotalVotes += row.Votes
	}

	categories := mongo.Pipeline{
		{{Key: "$match", Value: activeFilter(nil)}},
		{{Key: "$group", Value: bson.M{"_id": "$data.category_id", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}}}},
		{{Key: "$limit", Value: 5}},
	}

	catCursor, err := r.collection.Aggregate(ctx, categories)
	if err != nil {
		log.Printf("data_requests category aggregation failed, degrading to empty result: %v", err)
		return stats, nil
	}
	defer catCursor.Close(ctx)

	for catCursor.Next(ctx) {
		var row model.CategoryCount
		if err := catCursor.Decode(&row); err != nil {
			log.Printf("skipping malformed category row: %v", err)
			continue
		}
		stats.TopCategories = append(stats.TopCategories, row)
	}

	return stats, nil
}

// Update applies a partial $set on the data sub-object and bumps updated_at.
// Keys are document paths such as "data.title".
func (r *DataRequestRepository) Update(ctx context.Context, id string, set map[string]any) error {
	fields := bson.M{"updated_at": time.Now().UTC()}
	for k, v := range set {
		fields[k] = v
	}
	result, err := r.collection.UpdateOne(ctx, activeFilter(bson.M{"_id": id}), bson.M{"$set": fields})
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks the document inactive; it is never physically removed.
func (r *DataRequestRepository) SoftDelete(ctx context.Context, id string) error {
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

// IncVotes adjusts the vote tallies atomically with $inc.
func (r *DataRequestRepository) IncVotes(ctx context.Context, id string, likes, dislikes int) error {
	update := bson.M{
		"$inc": bson.M{
			"data.likes_count":    likes,
			"data.dislikes_count": dislikes,
			"data.vote_count":     likes + dislikes,
		},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	}
	result, err := r.collection.UpdateOne(ctx, activeFilter(bson.M{"_id": id}), update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// decodeRequests drains a cursor, skipping documents that fail to decode.
// A malformed record is logged and dropped rather than failing the page.
func decodeRequests(ctx context.Context, cursor *mongo.Cursor) []model.DataRequest {
	requests := []model.DataRequest{}
	for cursor.Next(ctx) {
		var request model.DataRequest
		if err := cursor.Decode(&request); err != nil {
			log.Printf("skipping malformed data_requests document: %v", err)
			continue
		}
		requests = append(requests, request)
	}
	if err := cursor.Err(); err != nil {
		log.Printf("data_requests cursor error: %v", err)
	}
	return requests
}
