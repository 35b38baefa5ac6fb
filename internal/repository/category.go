package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/google/uuid"

	"github.com/opencivic/data-request-backend/internal/model"
)

// CategoryRepository persists categories documents.
type CategoryRepository struct {
	collection *mongo.Collection
}

// NewCategoryRepository creates a repository over the categories collection.
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{collection: db.Collection("categories")}
}

// GetByID returns the active category with the given id.
func (r *CategoryRepository) GetByID(ctx context.Context, id string) (model.Category, error) {
	var category model.Category
	err := r.collection.FindOne(ctx, activeFilter(bson.M{"_id": id})).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, err
	}
	return category, nil
}

// GetByName returns the active category with the given machine name.
func (r *CategoryRepository) GetByName(ctx context.Context, name string) (model.Category, error) {
	var category model.Category
	err := r.collection.FindOne(ctx, activeFilter(bson.M{"data.name": name})).Decode(&category)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return model.Category{}, ErrNotFound
		}
		return model.Category{}, err
	}
	return category, nil
}

// List returns every active category ordered by name. Store failures on
// this read path degrade to an empty result after logging.
func (r *CategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	opts := options.Find().SetSort(bson.D{{Key: "data.name", Value: 1}})
	cursor, err := r.collection.Find(ctx, activeFilter(nil), opts)
	if err != nil {
		log.Printf("categories find failed, degrading to empty result: %v", err)
		return []model.Category{}, nil
	}
	defer cursor.Close(ctx)

	categories := []model.Category{}
	for cursor.Next(ctx) {
		var category model.Category
		if err := cursor.Decode(&category); err != nil {
			log.Printf("skipping malformed categories document: %v", err)
			continue
		}
		categories = append(categories, category)
	}
	if err := cursor.Err(); err != nil {
		log.Printf("categories cursor error: %v", err)
	}
	return categories, nil
}

// SeedDefaults inserts the default categories that are not present yet.
// The call is idempotent and safe to run on every startup.
func (r *CategoryRepository) SeedDefaults(ctx context.Context) error {
	now := time.Now().UTC()
	for _, data := range model.DefaultCategories {
		count, err := r.collection.CountDocuments(ctx, bson.M{"data.name": data.Name})
		if err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		category := model.Category{
			ID:        uuid.NewString(),
			Data:      data,
			IsActive:  true,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if _, err := r.collection.InsertOne(ctx, category); err != nil {
			return err
		}
	}
	return nil
}
