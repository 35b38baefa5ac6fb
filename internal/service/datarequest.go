package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/opencivic/data-request-backend/internal/model"
	"github.com/opencivic/data-request-backend/internal/repository"
	"github.com/opencivic/data-request-backend/internal/util"
)

var (
	// ErrNotFound means an id did not resolve to an active document.
	ErrNotFound = errors.New("not found")
	// ErrForbidden means the caller does not own the request.
	ErrForbidden = errors.New("only the request owner may modify it")
	// ErrUnknownCategory means the referenced category does not exist.
	ErrUnknownCategory = errors.New("unknown category")
	// ErrVoteConflict means a concurrent vote won the toggle race.
	ErrVoteConflict = errors.New("vote already recorded")
)

// DataRequestStore is the persistence surface the service needs.
type DataRequestStore interface {
	Create(ctx context.Context, request model.DataRequest) error
	GetByID(ctx context.Context, id string) (model.DataRequest, error)
	List(ctx context.Context, filter model.FilterParams, sortOption string, pagination model.PaginationParams) ([]model.DataRequest, int64, error)
	ListByUser(ctx context.Context, userID string) ([]model.DataRequest, error)
	Popular(ctx context.Context, limit int) ([]model.DataRequest, error)
	Stats(ctx context.Context) (model.DataRequestStats, error)
	Update(ctx context.Context, id string, set map[string]any) error
	SoftDelete(ctx context.Context, id string) error
	IncVotes(ctx context.Context, id string, likes, dislikes int) error
}

// VoteStore is the vote persistence surface the service needs.
type VoteStore interface {
	FindActive(ctx context.Context, requestID, userID string) (model.Vote, error)
	Create(ctx context.Context, vote model.Vote) error
	Deactivate(ctx context.Context, id string) error
	CleanupExpired(ctx context.Context) error
}

// CategoryStore is the category persistence surface the service needs.
type CategoryStore interface {
	GetByID(ctx context.Context, id string) (model.Category, error)
	GetByName(ctx context.Context, name string) (model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	SeedDefaults(ctx context.Context) error
}

// DataRequestService applies the business rules on top of the stores.
type DataRequestService struct {
	requests   DataRequestStore
	votes      VoteStore
	categories CategoryStore
}

// NewDataRequestService creates the service.
func NewDataRequestService(requests DataRequestStore, votes VoteStore, categories CategoryStore) *DataRequestService {
	return &DataRequestService{requests: requests, votes: votes, categories: categories}
}

// Create validates the category reference and inserts a new request in
// pending status.
func (s *DataRequestService) Create(ctx context.Context, userID string, req model.CreateDataRequestRequest) (model.DataRequest, error) {
	category, err := s.categories.GetByName(ctx, req.Category)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DataRequest{}, fmt.Errorf("%w: %s", ErrUnknownCategory, req.Category)
		}
		return model.DataRequest{}, err
	}

	now := time.Now().UTC()
	request := model.DataRequest{
		ID: uuid.NewString(),
		Data: model.DataRequestData{
			Title:          req.Title,
			Description:    req.Description,
			CategoryID:     category.ID,
			Status:         model.StatusPending,
			Priority:       req.Priority,
			PriorityWeight: model.PriorityWeight(req.Priority),
			RequesterID:    userID,
			ReferenceCode:  util.GenerateReferenceCode(),
			Tags:           req.Tags,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.requests.Create(ctx, request); err != nil {
		return model.DataRequest{}, err
	}
	return request, nil
}

// Get returns one request plus the caller's active vote, if any.
func (s *DataRequestService) Get(ctx context.Context, id, userID string) (model.DataRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DataRequestResponse{}, ErrNotFound
		}
		return model.DataRequestResponse{}, err
	}

	response := request.ToResponse()
	if userID != "" {
		if vote, err := s.votes.FindActive(ctx, id, userID); err == nil {
			response.UserVoted = true
			response.UserVoteType = vote.Data.Type
		}
	}
	return response, nil
}

// List returns a filtered, sorted page of requests.
func (s *DataRequestService) List(ctx context.Context, filter model.FilterParams, sortOption string, pagination model.PaginationParams) (model.PaginatedResult[model.DataRequestResponse], error) {
	requests, total, err := s.requests.List(ctx, filter, sortOption, pagination)
	if err != nil {
		return model.PaginatedResult[model.DataRequestResponse]{}, err
	}
	return model.Paginate(toResponses(requests), total, pagination), nil
}

// Popular returns the most-liked requests.
func (s *DataRequestService) Popular(ctx context.Context, limit int) ([]model.DataRequestResponse, error) {
	requests, err := s.requests.Popular(ctx, limit)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Stats returns aggregate request statistics.
func (s *DataRequestService) Stats(ctx context.Context) (model.DataRequestStats, error) {
	return s.requests.Stats(ctx)
}

// UserRequests returns every request created by userID.
func (s *DataRequestService) UserRequests(ctx context.Context, userID string) ([]model.DataRequestResponse, error) {
	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(requests), nil
}

// Update applies a partial update. Only the owner may update a request.
func (s *DataRequestService) Update(ctx context.Context, id, userID string, req model.UpdateDataRequestRequest) (model.DataRequestResponse, error) {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DataRequestResponse{}, ErrNotFound
		}
		return model.DataRequestResponse{}, err
	}
	if request.Data.RequesterID != userID {
		return model.DataRequestResponse{}, ErrForbidden
	}

	set := map[string]any{}
	if req.Title != nil {
		set["data.title"] = *req.Title
	}
	if req.Description != nil {
		set["data.description"] = *req.Description
	}
	if req.Category != nil {
		category, err := s.categories.GetByName(ctx, *req.Category)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return model.DataRequestResponse{}, fmt.Errorf("%w: %s", ErrUnknownCategory, *req.Category)
			}
			return model.DataRequestResponse{}, err
		}
		set["data.category_id"] = category.ID
	}
	if req.Priority != nil {
		set["data.priority"] = *req.Priority
		set["data.priority_weight"] = model.PriorityWeight(*req.Priority)
	}
	if req.Tags != nil {
		set["data.tags"] = *req.Tags
	}

	if len(set) > 0 {
		if err := s.requests.Update(ctx, id, set); err != nil {
			return model.DataRequestResponse{}, err
		}
	}

	updated, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return model.DataRequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

// Delete soft-deletes a request. Only the owner may delete it.
func (s *DataRequestService) Delete(ctx context.Context, id, userID string) error {
	request, err := s.requests.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if request.Data.RequesterID != userID {
		return ErrForbidden
	}
	return s.requests.SoftDelete(ctx, id)
}

// UpdateStatus is the admin triage path; no ownership check applies.
func (s *DataRequestService) UpdateStatus(ctx context.Context, id, status string) (model.DataRequestResponse, error) {
	if err := s.requests.Update(ctx, id, map[string]any{"data.status": status}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DataRequestResponse{}, ErrNotFound
		}
		return model.DataRequestResponse{}, err
	}
	updated, err := s.requests.GetByID(ctx, id)
	if err != nil {
		return model.DataRequestResponse{}, err
	}
	return updated.ToResponse(), nil
}

// Vote toggles the caller's vote on a request. Voting the same type again
// switches the vote off; voting the other type flips it. Tallies on the
// request document are adjusted to match.
func (s *DataRequestService) Vote(ctx context.Context, requestID, userID, voteType string) (model.DataRequestResponse, error) {
	if _, err := s.requests.GetByID(ctx, requestID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.DataRequestResponse{}, ErrNotFound
		}
		return model.DataRequestResponse{}, err
	}

	existing, err := s.votes.FindActive(ctx, requestID, userID)
	switch {
	case err == nil && existing.Data.Type == voteType:
		// Same vote again: toggle off.
		if err := s.votes.Deactivate(ctx, existing.ID); err != nil {
			return model.DataRequestResponse{}, err
		}
		if err := s.applyVoteDelta(ctx, requestID, voteType, -1); err != nil {
			return model.DataRequestResponse{}, err
		}
	case err == nil:
		// Different type: flip the vote.
		if err := s.votes.Deactivate(ctx, existing.ID); err != nil {
			return model.DataRequestResponse{}, err
		}
		if err := s.applyVoteDelta(ctx, requestID, existing.Data.Type, -1); err != nil {
			return model.DataRequestResponse{}, err
		}
		if err := s.castVote(ctx, requestID, userID, voteType); err != nil {
			return model.DataRequestResponse{}, err
		}
	case errors.Is(err, repository.ErrNotFound):
		if err := s.castVote(ctx, requestID, userID, voteType); err != nil {
			return model.DataRequestResponse{}, err
		}
	default:
		return model.DataRequestResponse{}, err
	}

	return s.Get(ctx, requestID, userID)
}

// Unvote removes the caller's active vote, if any.
func (s *DataRequestService) Unvote(ctx context.Context, requestID, userID string) (model.DataRequestResponse, error) {
	existing, err := s.votes.FindActive(ctx, requestID, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.Get(ctx, requestID, userID)
		}
		return model.DataRequestResponse{}, err
	}
	if err := s.votes.Deactivate(ctx, existing.ID); err != nil {
		return model.DataRequestResponse{}, err
	}
	if err := s.applyVoteDelta(ctx, requestID, existing.Data.Type, -1); err != nil {
		return model.DataRequestResponse{}, err
	}
	return s.Get(ctx, requestID, userID)
}

// CleanupExpiredVotes is the scheduled maintenance hook; currently a no-op
// at the store layer.
func (s *DataRequestService) CleanupExpiredVotes(ctx context.Context) error {
	return s.votes.CleanupExpired(ctx)
}

func (s *DataRequestService) castVote(ctx context.Context, requestID, userID, voteType string) error {
	now := time.Now().UTC()
	vote := model.Vote{
		ID: uuid.NewString(),
		Data: model.VoteData{
			RequestID: requestID,
			UserID:    userID,
			Type:      voteType,
		},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if errors.Is(err, repository.ErrDuplicateVote) {
			return ErrVoteConflict
		}
		return err
	}
	return s.applyVoteDelta(ctx, requestID, voteType, 1)
}

func (s *DataRequestService) applyVoteDelta(ctx context.Context, requestID, voteType string, delta int) error {
	if voteType == model.VoteLike {
		return s.requests.IncVotes(ctx, requestID, delta, 0)
	}
	return s.requests.IncVotes(ctx, requestID, 0, delta)
}

func toResponses(requests []model.DataRequest) []model.DataRequestResponse {
	responses := make([]model.DataRequestResponse, len(requests))
	for i, r := range requests {
		responses[i] = r.ToResponse()
	}
	return responses
}
