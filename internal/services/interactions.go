// internal/services/interactions.go
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/social"
	"archnet/internal/upstream"
)

// InteractionsService serves per-content interaction summaries and drives the
// like/save toggle mutations with their cache-invalidation contract.
type InteractionsService struct {
	store     *query.Store
	api       *upstream.Client
	mutations *MutationTracker
	logger    *zap.Logger
}

// NewInteractionsService creates an interactions service.
func NewInteractionsService(store *query.Store, api *upstream.Client, mutations *MutationTracker, logger *zap.Logger) *InteractionsService {
	return &InteractionsService{store: store, api: api, mutations: mutations, logger: logger}
}

// GetSummary aggregates like count, viewer like/save membership and comment
// count for one content item. Each input is fetched through its own cache
// key; a failed membership fetch degrades to empty rather than failing the
// whole summary, and guests always read false membership with no per-user
// fetch issued.
func (s *InteractionsService) GetSummary(ctx context.Context, targetType models.ContentType, targetID string) (*social.InteractionSummary, error) {
	if !targetType.Valid() {
		return nil, apperrors.NewValidationError("unknown content type", nil)
	}

	var count models.LikeCount
	if err := s.store.GetOrFetch(ctx, query.LikesKey(string(targetType), targetID), &count,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetLikeCount(ctx, string(targetType), targetID)
		}); err != nil {
		return nil, err
	}

	var comments []models.Comment
	if err := s.store.GetOrFetch(ctx, query.CommentsKey(string(targetType), targetID), &comments,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListComments(ctx, string(targetType), targetID)
		}); err != nil {
		return nil, err
	}

	var userLikes []models.LikeRecord
	var saved []models.SavedItem
	if userID, ok := contextutils.UserID(ctx); ok {
		if err := s.store.GetOrFetch(ctx, query.UserLikesKey(userID), &userLikes,
			func(ctx context.Context) (interface{}, error) {
				return s.api.ListUserLikes(ctx, userID)
			}); err != nil {
			s.logger.Warn("Failed to load user likes, defaulting to empty",
				zap.String("user_id", userID), zap.Error(err))
			userLikes = nil
		}
		if err := s.store.GetOrFetch(ctx, savedKeyFor(userID), &saved,
			func(ctx context.Context) (interface{}, error) {
				return s.api.ListSaved(ctx)
			}); err != nil {
			s.logger.Warn("Failed to load saved items, defaulting to empty",
				zap.String("user_id", userID), zap.Error(err))
			saved = nil
		}
	}

	summary := social.Aggregate(targetType, targetID, &count, userLikes, saved, len(comments))
	return &summary, nil
}

// ToggleLike flips the viewer's like on a content item, then invalidates
// every key that embeds a derived view of it: the item's like count, the
// viewer's like list, and the listing queries that render aggregate counts.
// Guests are rejected before any network call is made.
func (s *InteractionsService) ToggleLike(ctx context.Context, targetType models.ContentType, targetID string) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("like content")
	}
	if !targetType.Valid() {
		return apperrors.NewValidationError("unknown content type", nil)
	}

	key := fmt.Sprintf("like:%s:%s:%s", userID, targetType, targetID)
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.ToggleLike(ctx, string(targetType), targetID); err != nil {
			return apperrors.NewMutationFailedError("Could not update like", err)
		}

		s.invalidateAfterLike(ctx, targetType, targetID, userID)
		return nil
	})
}

// ToggleSave follows the identical pattern against the saved-items key space.
func (s *InteractionsService) ToggleSave(ctx context.Context, targetType models.ContentType, targetID string) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("save content")
	}
	if !targetType.Valid() {
		return apperrors.NewValidationError("unknown content type", nil)
	}

	key := fmt.Sprintf("save:%s:%s:%s", userID, targetType, targetID)
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.ToggleSaved(ctx, string(targetType), targetID); err != nil {
			return apperrors.NewMutationFailedError("Could not update saved items", err)
		}

		if err := s.store.Invalidate(ctx, savedKeyFor(userID)); err != nil {
			s.logger.Warn("Saved-items invalidation failed", zap.Error(err))
		}
		invalidateListings(ctx, s.store, s.logger, targetType)
		return nil
	})
}

// ListSaved returns the viewer's saved items for the library view.
func (s *InteractionsService) ListSaved(ctx context.Context) ([]models.SavedItem, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("view your library")
	}

	var saved []models.SavedItem
	err := s.store.GetOrFetch(ctx, savedKeyFor(userID), &saved,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListSaved(ctx)
		})
	return saved, err
}

// ListUserLikes returns a user's like list for the activity view.
func (s *InteractionsService) ListUserLikes(ctx context.Context, userID string) ([]models.LikeRecord, error) {
	var likes []models.LikeRecord
	err := s.store.GetOrFetch(ctx, query.UserLikesKey(userID), &likes,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListUserLikes(ctx, userID)
		})
	return likes, err
}

func (s *InteractionsService) invalidateAfterLike(ctx context.Context, targetType models.ContentType, targetID, userID string) {
	keys := []query.Key{
		query.LikesKey(string(targetType), targetID),
		query.UserLikesKey(userID),
	}
	for _, key := range keys {
		if err := s.store.Invalidate(ctx, key); err != nil {
			s.logger.Warn("Cache invalidation failed",
				zap.String("key", key.String()), zap.Error(err))
		}
	}

	if targetType == models.ContentComment {
		// A comment's like count lives inside cached threads, and the toggle
		// does not carry the parent content ref. Drop the whole thread space.
		if err := s.store.InvalidatePrefix(ctx, query.Key{"comments"}); err != nil {
			s.logger.Warn("Thread invalidation failed", zap.Error(err))
		}
		return
	}
	invalidateListings(ctx, s.store, s.logger, targetType)
}

// invalidateListings drops the list-level queries that may embed a content
// item's aggregate counts, so every rendered copy converges after a mutation.
func invalidateListings(ctx context.Context, store *query.Store, logger *zap.Logger, targetType models.ContentType) {
	prefixes := []query.Key{
		query.ListKey(collectionFor(targetType)),
		query.ListKey("posts"),
		query.ListKey("projects"),
	}
	for _, prefix := range prefixes {
		if err := store.InvalidatePrefix(ctx, prefix); err != nil {
			logger.Warn("Listing invalidation failed",
				zap.String("prefix", prefix.String()), zap.Error(err))
		}
	}
}

// savedKeyFor scopes the saved-items collection per viewer. The upstream
// endpoint is viewer-implicit, the cache key cannot be.
func savedKeyFor(userID string) query.Key {
	return append(query.SavedKey(), userID)
}

// collectionFor maps a content type to its listing collection name.
func collectionFor(targetType models.ContentType) string {
	switch targetType {
	case models.ContentResearch:
		return "research"
	default:
		return string(targetType) + "s"
	}
}
