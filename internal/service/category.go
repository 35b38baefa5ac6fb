package service

import (
	"context"
	"errors"

	"github.com/opencivic/data-request-backend/internal/model"
	"github.com/opencivic/data-request-backend/internal/repository"
)

// CategoryService exposes read access to request categories.
type CategoryService struct {
	categories CategoryStore
}

// NewCategoryService creates the service.
func NewCategoryService(categories CategoryStore) *CategoryService {
	return &CategoryService{categories: categories}
}

// List returns every active category.
func (s *CategoryService) List(ctx context.Context) ([]model.CategoryResponse, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]model.CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = c.ToResponse()
	}
	return responses, nil
}

// Get returns one category by id.
func (s *CategoryService) Get(ctx context.Context, id string) (model.CategoryResponse, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.CategoryResponse{}, ErrNotFound
		}
		return model.CategoryResponse{}, err
	}
	return category.ToResponse(), nil
}

// Seed populates the default categories when missing. Safe to call on
// every startup.
func (s *CategoryService) Seed(ctx context.Context) error {
	return s.categories.SeedDefaults(ctx)
}
