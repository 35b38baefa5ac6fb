package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opencivic/data-request-backend/internal/model"
	"github.com/opencivic/data-request-backend/internal/repository"
)

// fakeRequestStore keeps documents in memory and mirrors the tally updates
// the real store applies with $inc.
type fakeRequestStore struct {
	requests map[string]model.DataRequest
}

func newFakeRequestStore() *fakeRequestStore {
	return &fakeRequestStore{requests: make(map[string]model.DataRequest)}
}

func (s *fakeRequestStore) Create(_ context.Context, request model.DataRequest) error {
	s.requests[request.ID] = request
	return nil
}

func (s *fakeRequestStore) GetByID(_ context.Context, id string) (model.DataRequest, error) {
	request, ok := s.requests[id]
	if !ok || !request.IsActive {
		return model.DataRequest{}, repository.ErrNotFound
	}
	return request, nil
}

func (s *fakeRequestStore) List(_ context.Context, _ model.FilterParams, _ string, pagination model.PaginationParams) ([]model.DataRequest, int64, error) {
	var active []model.DataRequest
	for _, r := range s.requests {
		if r.IsActive {
			active = append(active, r)
		}
	}
	total := int64(len(active))
	start := pagination.Skip()
	if start > len(active) {
		return nil, total, nil
	}
	end := start + pagination.Size
	if end > len(active) {
		end = len(active)
	}
	return active[start:end], total, nil
}

func (s *fakeRequestStore) ListByUser(_ context.Context, userID string) ([]model.DataRequest, error) {
	var out []model.DataRequest
	for _, r := range s.requests {
		if r.IsActive && r.Data.RequesterID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *fakeRequestStore) Popular(_ context.Context, limit int) ([]model.DataRequest, error) {
	requests, _, err := s.List(context.Background(), model.FilterParams{}, "likes", model.PaginationParams{Page: 1, Size: limit})
	return requests, err
}

func (s *fakeRequestStore) Stats(_ context.Context) (model.DataRequestStats, error) {
	stats := model.DataRequestStats{ByStatus: map[string]int64{}}
	for _, r := range s.requests {
		if !r.IsActive {
			continue
		}
		stats.Total++
		stats.ByStatus[r.Data.Status]++
		stats.TotalVotes += int64(r.Data.VoteCount)
	}
	return stats, nil
}

func (s *fakeRequestStore) Update(_ context.Context, id string, set map[string]any) error {
	request, ok := s.requests[id]
	if !ok || !request.IsActive {
		return repository.ErrNotFound
	}
	for path, value := range set {
		switch path {
		case "data.title":
			request.Data.Title = value.(string)
		case "data.description":
			request.Data.Description = value.(string)
		case "data.category_id":
			request.Data.CategoryID = value.(string)
		case "data.status":
			request.Data.Status = value.(string)
		case "data.priority":
			request.Data.Priority = value.(string)
		case "data.priority_weight":
			request.Data.PriorityWeight = value.(int)
		case "data.tags":
			request.Data.Tags = value.([]string)
		}
	}
	s.requests[id] = request
	return nil
}

func (s *fakeRequestStore) SoftDelete(_ context.Context, id string) error {
	request, ok := s.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	request.IsActive = false
	s.requests[id] = request
	return nil
}

func (s *fakeRequestStore) IncVotes(_ context.Context, id string, likes, dislikes int) error {
	request, ok := s.requests[id]
	if !ok {
		return repository.ErrNotFound
	}
	request.Data.LikesCount += likes
	request.Data.DislikesCount += dislikes
	request.Data.VoteCount += likes + dislikes
	s.requests[id] = request
	return nil
}

// fakeVoteStore keeps votes in memory. failNextCreate simulates losing a
// race against the unique index.
type fakeVoteStore struct {
	votes          []model.Vote
	failNextCreate bool
}

func (s *fakeVoteStore) FindActive(_ context.Context, requestID, userID string) (model.Vote, error) {
	for _, v := range s.votes {
		if v.IsActive && v.Data.RequestID == requestID && v.Data.UserID == userID {
			return v, nil
		}
	}
	return model.Vote{}, repository.ErrNotFound
}

func (s *fakeVoteStore) Create(_ context.Context, vote model.Vote) error {
	if s.failNextCreate {
		s.failNextCreate = false
		return repository.ErrDuplicateVote
	}
	s.votes = append(s.votes, vote)
	return nil
}

func (s *fakeVoteStore) Deactivate(_ context.Context, id string) error {
	for i, v := range s.votes {
		if v.ID == id {
			s.votes[i].IsActive = false
			return nil
		}
	}
	return repository.ErrNotFound
}

func (s *fakeVoteStore) CleanupExpired(_ context.Context) error {
	return nil
}

type fakeCategoryStore struct {
	categories map[string]model.Category
}

func newFakeCategoryStore(names ...string) *fakeCategoryStore {
	store := &fakeCategoryStore{categories: make(map[string]model.Category)}
	for _, name := range names {
		store.categories[name] = model.Category{
			ID:       "cat-" + name,
			Data:     model.CategoryData{Name: name},
			IsActive: true,
		}
	}
	return store
}

func (s *fakeCategoryStore) GetByID(_ context.Context, id string) (model.Category, error) {
	for _, c := range s.categories {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Category{}, repository.ErrNotFound
}

func (s *fakeCategoryStore) GetByName(_ context.Context, name string) (model.Category, error) {
	c, ok := s.categories[name]
	if !ok {
		return model.Category{}, repository.ErrNotFound
	}
	return c, nil
}

func (s *fakeCategoryStore) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range s.categories {
		out = append(out, c)
	}
	return out, nil
}

func (s *fakeCategoryStore) SeedDefaults(_ context.Context) error {
	return nil
}

func newTestService() (*DataRequestService, *fakeRequestStore, *fakeVoteStore) {
	requests := newFakeRequestStore()
	votes := &fakeVoteStore{}
	categories := newFakeCategoryStore("transport", "environment")
	return NewDataRequestService(requests, votes, categories), requests, votes
}

func TestDataRequestService_Create(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "user-1", model.CreateDataRequestRequest{
		Title:       "Bus arrival times",
		Description: "Realtime arrival data for all routes",
		Category:    "transport",
		Priority:    model.PriorityHigh,
		Tags:        []string{"transit"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if created.Data.Status != model.StatusPending {
		t.Errorf("status = %q, want %q", created.Data.Status, model.StatusPending)
	}
	if created.Data.VoteCount != 0 || created.Data.LikesCount != 0 {
		t.Errorf("new request must start with zero votes, got %+v", created.Data)
	}
	if created.Data.CategoryID != "cat-transport" {
		t.Errorf("category_id = %q, want cat-transport", created.Data.CategoryID)
	}
	if created.Data.PriorityWeight != 3 {
		t.Errorf("priority_weight = %d, want 3", created.Data.PriorityWeight)
	}
	if !strings.HasPrefix(created.Data.ReferenceCode, "REQ-") {
		t.Errorf("reference code %q missing REQ- prefix", created.Data.ReferenceCode)
	}
	if created.Data.RequesterID != "user-1" {
		t.Errorf("requester_id = %q, want user-1", created.Data.RequesterID)
	}
}

func TestDataRequestService_CreateUnknownCategory(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Create(context.Background(), "user-1", model.CreateDataRequestRequest{
		Title:    "Anything",
		Category: "astrology",
	})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestDataRequestService_VoteToggle(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Air quality sensors",
		Category: "environment",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// First like.
	response, err := service.Vote(ctx, created.ID, "user-a", model.VoteLike)
	if err != nil {
		t.Fatalf("Vote: %v", err)
	}
	if response.VoteCount != 1 || response.LikesCount != 1 {
		t.Errorf("after like: vote_count=%d likes=%d, want 1/1", response.VoteCount, response.LikesCount)
	}
	if !response.UserVoted || response.UserVoteType != model.VoteLike {
		t.Errorf("after like: user_voted=%v type=%q", response.UserVoted, response.UserVoteType)
	}

	// Same vote again toggles it off.
	response, err = service.Vote(ctx, created.ID, "user-a", model.VoteLike)
	if err != nil {
		t.Fatalf("Vote toggle: %v", err)
	}
	if response.VoteCount != 0 || response.LikesCount != 0 {
		t.Errorf("after toggle off: vote_count=%d likes=%d, want 0/0", response.VoteCount, response.LikesCount)
	}
	if response.UserVoted {
		t.Error("after toggle off: user_voted must be false")
	}

	// A dislike now records fresh.
	response, err = service.Vote(ctx, created.ID, "user-a", model.VoteDislike)
	if err != nil {
		t.Fatalf("Vote dislike: %v", err)
	}
	if response.VoteCount != 1 || response.DislikesCount != 1 || response.LikesCount != 0 {
		t.Errorf("after dislike: vote_count=%d likes=%d dislikes=%d, want 1/0/1",
			response.VoteCount, response.LikesCount, response.DislikesCount)
	}
	if response.UserVoteType != model.VoteDislike {
		t.Errorf("user_vote_type = %q, want %q", response.UserVoteType, model.VoteDislike)
	}

	// Voting the other type flips rather than stacking.
	response, err = service.Vote(ctx, created.ID, "user-a", model.VoteLike)
	if err != nil {
		t.Fatalf("Vote flip: %v", err)
	}
	if response.VoteCount != 1 || response.LikesCount != 1 || response.DislikesCount != 0 {
		t.Errorf("after flip: vote_count=%d likes=%d dislikes=%d, want 1/1/0",
			response.VoteCount, response.LikesCount, response.DislikesCount)
	}

	// A second user's vote is independent.
	response, err = service.Vote(ctx, created.ID, "user-b", model.VoteLike)
	if err != nil {
		t.Fatalf("Vote second user: %v", err)
	}
	if response.VoteCount != 2 || response.LikesCount != 2 {
		t.Errorf("after second user: vote_count=%d likes=%d, want 2/2", response.VoteCount, response.LikesCount)
	}
}

func TestDataRequestService_VoteMissingRequest(t *testing.T) {
	service, _, _ := newTestService()

	_, err := service.Vote(context.Background(), "nope", "user-a", model.VoteLike)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDataRequestService_VoteConflict(t *testing.T) {
	service, _, votes := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Budget breakdown",
		Category: "transport",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	votes.failNextCreate = true
	_, err = service.Vote(ctx, created.ID, "user-a", model.VoteLike)
	if !errors.Is(err, ErrVoteConflict) {
		t.Fatalf("expected ErrVoteConflict, got %v", err)
	}
}

func TestDataRequestService_Unvote(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Noise complaints map",
		Category: "environment",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := service.Vote(ctx, created.ID, "user-a", model.VoteDislike); err != nil {
		t.Fatalf("Vote: %v", err)
	}

	response, err := service.Unvote(ctx, created.ID, "user-a")
	if err != nil {
		t.Fatalf("Unvote: %v", err)
	}
	if response.VoteCount != 0 || response.DislikesCount != 0 || response.UserVoted {
		t.Errorf("after unvote: %+v", response)
	}

	// Unvote with no active vote is a no-op, not an error.
	if _, err := service.Unvote(ctx, created.ID, "user-a"); err != nil {
		t.Errorf("repeat Unvote: %v", err)
	}
}

func TestDataRequestService_UpdateOwnership(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "School locations",
		Category: "transport",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	newTitle := "School locations and capacity"
	if _, err := service.Update(ctx, created.ID, "intruder", model.UpdateDataRequestRequest{Title: &newTitle}); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	newPriority := model.PriorityHigh
	updated, err := service.Update(ctx, created.ID, "owner", model.UpdateDataRequestRequest{
		Title:    &newTitle,
		Priority: &newPriority,
	})
	if err != nil {
		t.Fatalf("Update as owner: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Priority != model.PriorityHigh {
		t.Errorf("priority = %q, want high", updated.Priority)
	}
}

func TestDataRequestService_UpdateUnknownCategory(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Park maintenance schedule",
		Category: "environment",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	bogus := "astrology"
	_, err = service.Update(ctx, created.ID, "owner", model.UpdateDataRequestRequest{Category: &bogus})
	if !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestDataRequestService_DeleteOwnership(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Streetlight outages",
		Category: "transport",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := service.Delete(ctx, created.ID, "intruder"); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-owner, got %v", err)
	}

	if err := service.Delete(ctx, created.ID, "owner"); err != nil {
		t.Fatalf("Delete as owner: %v", err)
	}

	// Soft-deleted requests disappear from reads.
	if _, err := service.Get(ctx, created.ID, ""); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestDataRequestService_UpdateStatus(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	created, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
		Title:    "Hospital wait times",
		Category: "environment",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Triage runs without an ownership check.
	updated, err := service.UpdateStatus(ctx, created.ID, model.StatusInReview)
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Status != model.StatusInReview {
		t.Errorf("status = %q, want %q", updated.Status, model.StatusInReview)
	}

	if _, err := service.UpdateStatus(ctx, "missing", model.StatusApproved); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for missing id, got %v", err)
	}
}

func TestDataRequestService_List(t *testing.T) {
	service, _, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := service.Create(ctx, "owner", model.CreateDataRequestRequest{
			Title:    "Request",
			Category: "transport",
		}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	page, err := service.List(ctx, model.FilterParams{}, "newest", model.PaginationParams{Page: 1, Size: 2})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if page.Total != 5 {
		t.Errorf("total = %d, want 5", page.Total)
	}
	if len(page.Items) != 2 {
		t.Errorf("items = %d, want 2", len(page.Items))
	}
	if page.TotalPages() != 3 {
		t.Errorf("total pages = %d, want 3", page.TotalPages())
	}
	if !page.HasNext() {
		t.Error("expected HasNext on page 1 of 3")
	}
}
