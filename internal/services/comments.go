// internal/services/comments.go
package services

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/social"
	"archnet/internal/upstream"
	"archnet/internal/utils"
)

// CommentsService serves built comment threads and drives the comment write
// path: create, edit, delete, report.
type CommentsService struct {
	store     *query.Store
	api       *upstream.Client
	mutations *MutationTracker
	validate  *validator.Validate
	logger    *zap.Logger
}

// NewCommentsService creates a comments service.
func NewCommentsService(store *query.Store, api *upstream.Client, mutations *MutationTracker, logger *zap.Logger) *CommentsService {
	return &CommentsService{
		store:     store,
		api:       api,
		mutations: mutations,
		validate:  validator.New(),
		logger:    logger,
	}
}

// GetThread returns the comment forest for one content item, stamped with
// per-viewer ownership flags and human-readable ages. The flat list is what
// gets cached; the thread is rebuilt per request because ownership depends
// on who is asking.
func (s *CommentsService) GetThread(ctx context.Context, targetType models.ContentType, targetID string) ([]*models.Comment, error) {
	if !targetType.Valid() {
		return nil, apperrors.NewValidationError("unknown content type", nil)
	}

	var comments []models.Comment
	if err := s.store.GetOrFetch(ctx, query.CommentsKey(string(targetType), targetID), &comments,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListComments(ctx, string(targetType), targetID)
		}); err != nil {
		return nil, err
	}

	thread := social.BuildThread(comments)
	viewerID, _ := contextutils.UserID(ctx)
	stampThread(thread, viewerID)
	return thread, nil
}

func stampThread(thread []*models.Comment, viewerID string) {
	for _, c := range thread {
		c.IsOwner = viewerID != "" && c.IsOwnedBy(viewerID)
		c.CreatedAtHuman = utils.TimeAgo(c.CreatedAt)
		stampThread(c.Replies, viewerID)
	}
}

// CreateCommentInput carries a new comment or reply.
type CreateCommentInput struct {
	TargetType models.ContentType `validate:"required"`
	TargetID   string             `validate:"required"`
	Content    string             `validate:"required,min=1,max=10000"`
	ParentID   *string
}

// Create posts a comment, then invalidates the thread key so every open view
// of this content refetches. Guests are rejected locally.
func (s *CommentsService) Create(ctx context.Context, input CreateCommentInput) (*models.Comment, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("comment")
	}
	if !input.TargetType.Valid() {
		return nil, apperrors.NewValidationError("unknown content type", nil)
	}
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.NewValidationError("invalid comment", err)
	}

	var created *models.Comment
	key := fmt.Sprintf("comment:%s:%s:%s", userID, input.TargetType, input.TargetID)
	err := s.mutations.Run(ctx, key, func(ctx context.Context) error {
		comment, err := s.api.CreateComment(ctx, upstream.CreateCommentRequest{
			TargetType: string(input.TargetType),
			TargetID:   input.TargetID,
			Content:    utils.SanitizeString(input.Content),
			ParentID:   input.ParentID,
		})
		if err != nil {
			return apperrors.NewMutationFailedError("Could not post comment", err)
		}
		created = comment

		s.invalidateThread(ctx, input.TargetType, input.TargetID)
		return nil
	})
	return created, err
}

// Update edits a comment's body. Ownership is enforced upstream as well, but
// rejecting here avoids a doomed round trip.
func (s *CommentsService) Update(ctx context.Context, targetType models.ContentType, targetID, commentID, content string) (*models.Comment, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("edit comments")
	}
	comment, err := s.findComment(ctx, targetType, targetID, commentID)
	if err != nil {
		return nil, err
	}
	if !comment.IsOwnedBy(userID) {
		return nil, apperrors.NewForbiddenError("You can only edit your own comments")
	}
	if content == "" {
		return nil, apperrors.NewValidationError("comment cannot be empty", nil)
	}

	var updated *models.Comment
	key := "comment-edit:" + commentID
	err = s.mutations.Run(ctx, key, func(ctx context.Context) error {
		result, err := s.api.UpdateComment(ctx, commentID, utils.SanitizeString(content))
		if err != nil {
			return apperrors.NewMutationFailedError("Could not update comment", err)
		}
		updated = result

		s.invalidateThread(ctx, targetType, targetID)
		return nil
	})
	return updated, err
}

// Delete removes an owned comment. Replies referencing it become orphans the
// thread builder silently drops on the next read.
func (s *CommentsService) Delete(ctx context.Context, targetType models.ContentType, targetID, commentID string) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("delete comments")
	}
	comment, err := s.findComment(ctx, targetType, targetID, commentID)
	if err != nil {
		return err
	}
	if !comment.IsOwnedBy(userID) {
		return apperrors.NewForbiddenError("You can only delete your own comments")
	}

	key := "comment-delete:" + commentID
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.DeleteComment(ctx, commentID); err != nil {
			return apperrors.NewMutationFailedError("Could not delete comment", err)
		}

		s.invalidateThread(ctx, targetType, targetID)
		return nil
	})
}

// findComment locates a comment in the cached flat list for its content item.
func (s *CommentsService) findComment(ctx context.Context, targetType models.ContentType, targetID, commentID string) (*models.Comment, error) {
	if !targetType.Valid() {
		return nil, apperrors.NewValidationError("unknown content type", nil)
	}

	var comments []models.Comment
	if err := s.store.GetOrFetch(ctx, query.CommentsKey(string(targetType), targetID), &comments,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListComments(ctx, string(targetType), targetID)
		}); err != nil {
		return nil, err
	}
	for i := range comments {
		if comments[i].ID == commentID {
			return &comments[i], nil
		}
	}
	return nil, apperrors.NewNotFoundError("Comment not found")
}

// Report files a moderation report against any content item on behalf of the
// signed-in viewer. Guests are rejected before any network call is made.
func (s *CommentsService) Report(ctx context.Context, targetType models.ContentType, targetID, reason string) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("report content")
	}
	if !targetType.Valid() {
		return apperrors.NewValidationError("unknown content type", nil)
	}
	if reason == "" {
		return apperrors.NewValidationError("a report needs a reason", nil)
	}

	key := fmt.Sprintf("report:%s:%s:%s", userID, targetType, targetID)
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		err := s.api.CreateReport(ctx, upstream.CreateReportRequest{
			TargetType: string(targetType),
			TargetID:   targetID,
			Reason:     utils.SanitizeString(reason),
		})
		if err != nil {
			return apperrors.NewMutationFailedError("Could not submit report", err)
		}
		return nil
	})
}

func (s *CommentsService) invalidateThread(ctx context.Context, targetType models.ContentType, targetID string) {
	if err := s.store.Invalidate(ctx, query.CommentsKey(string(targetType), targetID)); err != nil {
		s.logger.Warn("Thread invalidation failed",
			zap.String("target_type", string(targetType)),
			zap.String("target_id", targetID),
			zap.Error(err))
	}
	// Listing queries embed per-item comment counts.
	invalidateListings(ctx, s.store, s.logger, targetType)
}
