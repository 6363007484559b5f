// internal/services/messaging.go
package services

import (
	"context"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/messaging"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/upstream"
	"archnet/internal/utils"
)

// MessagingService serves the inbox and conversation views and the send
// path, pushing live events to the receiver through the websocket hub.
type MessagingService struct {
	store     *query.Store
	api       *upstream.Client
	hub       *messaging.Hub
	mutations *MutationTracker
	logger    *zap.Logger
}

// NewMessagingService creates a messaging service.
func NewMessagingService(store *query.Store, api *upstream.Client, hub *messaging.Hub, mutations *MutationTracker, logger *zap.Logger) *MessagingService {
	return &MessagingService{store: store, api: api, hub: hub, mutations: mutations, logger: logger}
}

// Inbox returns the viewer's conversation list projection. The total unread
// badge is recomputed from the list on every call, never maintained apart.
func (s *MessagingService) Inbox(ctx context.Context) (*messaging.Inbox, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("view messages")
	}

	var conversations []models.ConversationSummary
	if err := s.store.GetOrFetch(ctx, query.ConversationsKey(userID), &conversations,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListConversations(ctx)
		}); err != nil {
		return nil, err
	}

	inbox := messaging.ProjectInbox(conversations)
	return &inbox, nil
}

// Conversation returns the message history with one counterpart, classified
// from the viewer's perspective.
func (s *MessagingService) Conversation(ctx context.Context, counterpartID string) ([]messaging.MessageView, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("view messages")
	}
	if counterpartID == "" {
		return nil, apperrors.NewValidationError("missing counterpart id", nil)
	}

	var msgs []models.Message
	if err := s.store.GetOrFetch(ctx, conversationKey(userID, counterpartID), &msgs,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListMessages(ctx, counterpartID)
		}); err != nil {
		return nil, err
	}
	return messaging.ProjectMessages(msgs, userID), nil
}

// Send delivers a message, invalidates both parties' conversation caches and
// notifies the receiver's open sockets.
func (s *MessagingService) Send(ctx context.Context, receiverID, content string) (*models.Message, error) {
	userID, ok := contextutils.UserID(ctx)
	if !ok {
		return nil, apperrors.NewAuthRequiredError("send messages")
	}
	if receiverID == "" || receiverID == userID {
		return nil, apperrors.NewValidationError("invalid receiver", nil)
	}
	if content == "" {
		return nil, apperrors.NewValidationError("message cannot be empty", nil)
	}

	var sent *models.Message
	key := "message:" + userID + ":" + receiverID
	err := s.mutations.Run(ctx, key, func(ctx context.Context) error {
		message, err := s.api.SendMessage(ctx, receiverID, utils.SanitizeString(content))
		if err != nil {
			return apperrors.NewMutationFailedError("Could not send message", err)
		}
		sent = message

		for _, k := range []query.Key{
			conversationKey(userID, receiverID),
			conversationKey(receiverID, userID),
			query.ConversationsKey(userID),
			query.ConversationsKey(receiverID),
		} {
			if err := s.store.Invalidate(ctx, k); err != nil {
				s.logger.Warn("Conversation invalidation failed",
					zap.String("key", k.String()), zap.Error(err))
			}
		}

		s.hub.NotifyMessage(message)
		s.hub.NotifyConversationsChanged(receiverID)
		return nil
	})
	return sent, err
}

// conversationKey addresses one user's view of a message history. Both sides
// cache the same messages under their own key, so a send invalidates both.
func conversationKey(viewerID, counterpartID string) query.Key {
	return query.MessagesKey(viewerID + ":" + counterpartID)
}
