// internal/services/content.go
package services

import (
	"context"

	"go.uber.org/zap"

	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

// ContentService serves the read side of every content surface: listings and
// detail pages, all through the cache. Content writes happen on the backend's
// own authoring flows; this gateway only moderates them (see AdminService).
type ContentService struct {
	store  *query.Store
	api    *upstream.Client
	logger *zap.Logger
}

// NewContentService creates a content service.
func NewContentService(store *query.Store, api *upstream.Client, logger *zap.Logger) *ContentService {
	return &ContentService{store: store, api: api, logger: logger}
}

func (s *ContentService) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := s.store.GetOrFetch(ctx, query.ListKey("books"), &books,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListBooks(ctx)
		})
	return books, err
}

func (s *ContentService) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	err := s.store.GetOrFetch(ctx, query.ResourceKey("books", id), &book,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetBook(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return &book, nil
}

func (s *ContentService) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	var competitions []models.Competition
	err := s.store.GetOrFetch(ctx, query.ListKey("competitions"), &competitions,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListCompetitions(ctx)
		})
	return competitions, err
}

func (s *ContentService) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	err := s.store.GetOrFetch(ctx, query.ResourceKey("competitions", id), &competition,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetCompetition(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return &competition, nil
}

func (s *ContentService) ListResearch(ctx context.Context) ([]models.Research, error) {
	var research []models.Research
	err := s.store.GetOrFetch(ctx, query.ListKey("research"), &research,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListResearch(ctx)
		})
	return research, err
}

func (s *ContentService) GetResearch(ctx context.Context, id string) (*models.Research, error) {
	var research models.Research
	err := s.store.GetOrFetch(ctx, query.ResourceKey("research", id), &research,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetResearch(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return &research, nil
}

func (s *ContentService) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := s.store.GetOrFetch(ctx, query.ListKey("jobs"), &jobs,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListJobs(ctx)
		})
	return jobs, err
}

// Feed returns the post stream the home page renders.
func (s *ContentService) Feed(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := s.store.GetOrFetch(ctx, query.ListKey("posts"), &posts,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListPosts(ctx)
		})
	return posts, err
}

// GetUser returns a public profile.
func (s *ContentService) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.store.GetOrFetch(ctx, query.ResourceKey("users", id), &user,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetUser(ctx, id)
		})
	if err != nil {
		return nil, err
	}
	return &user, nil
}
