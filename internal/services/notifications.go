// internal/services/notifications.go
package services

import (
	"context"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/models"
	"archnet/internal/notify"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

// NotificationsService serves the notification panel: transformed display
// records, the unread badge, and the mark-read write path. Notifications are
// created by backend events and never deleted here.
type NotificationsService struct {
	store     *query.Store
	api       *upstream.Client
	mutations *MutationTracker
	logger    *zap.Logger
}

// NewNotificationsService creates a notifications service.
func NewNotificationsService(store *query.Store, api *upstream.Client, mutations *MutationTracker, logger *zap.Logger) *NotificationsService {
	return &NotificationsService{store: store, api: api, mutations: mutations, logger: logger}
}

// List returns the viewer's notifications in display form plus the unread
// count, newest first as the upstream orders them.
func (s *NotificationsService) List(ctx context.Context) ([]notify.Display, int, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, 0, apperrors.NewAuthRequiredError("view notifications")
	}

	raw, err := s.fetch(ctx, userID)
	if err != nil {
		return nil, 0, err
	}
	return notify.TransformAll(raw), notify.UnreadCount(raw), nil
}

// UnreadCount returns just the badge number.
func (s *NotificationsService) UnreadCount(ctx context.Context) (int, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return 0, nil
	}

	raw, err := s.fetch(ctx, userID)
	if err != nil {
		return 0, err
	}
	return notify.UnreadCount(raw), nil
}

// MarkRead marks one notification read and invalidates the viewer's list so
// the badge converges on the next read.
func (s *NotificationsService) MarkRead(ctx context.Context, notificationID string) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("manage notifications")
	}

	key := "notification-read:" + notificationID
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.MarkNotificationRead(ctx, notificationID); err != nil {
			return apperrors.NewMutationFailedError("Could not mark notification read", err)
		}
		s.invalidate(ctx, userID)
		return nil
	})
}

// MarkAllRead clears the viewer's whole unread set in one write.
func (s *NotificationsService) MarkAllRead(ctx context.Context) error {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return apperrors.NewAuthRequiredError("manage notifications")
	}

	key := "notification-read-all:" + userID
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.MarkAllNotificationsRead(ctx); err != nil {
			return apperrors.NewMutationFailedError("Could not mark notifications read", err)
		}
		s.invalidate(ctx, userID)
		return nil
	})
}

func (s *NotificationsService) fetch(ctx context.Context, userID string) ([]models.Notification, error) {
	var raw []models.Notification
	err := s.store.GetOrFetch(ctx, query.NotificationsKey(userID), &raw,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListNotifications(ctx)
		})
	return raw, err
}

func (s *NotificationsService) invalidate(ctx context.Context, userID string) {
	if err := s.store.Invalidate(ctx, query.NotificationsKey(userID)); err != nil {
		s.logger.Warn("Notification invalidation failed",
			zap.String("user_id", userID), zap.Error(err))
	}
}
