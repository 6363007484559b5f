// internal/services/collection.go
package services

import (
	"go.uber.org/zap"

	"archnet/internal/messaging"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

// ===============================
// SERVICE COLLECTION
// ===============================

// Collection wires every service over the shared query store, upstream
// client and mutation tracker. One instance serves the whole process.
type Collection struct {
	Content       *ContentService
	Interactions  *InteractionsService
	Comments      *CommentsService
	Notifications *NotificationsService
	Messaging     *MessagingService
	Admin         *AdminService

	Hub       *messaging.Hub
	Mutations *MutationTracker
}

// NewCollection constructs the full service collection.
func NewCollection(store *query.Store, api *upstream.Client, hub *messaging.Hub, logger *zap.Logger) *Collection {
	mutations := NewMutationTracker(logger)

	return &Collection{
		Content:       NewContentService(store, api, logger),
		Interactions:  NewInteractionsService(store, api, mutations, logger),
		Comments:      NewCommentsService(store, api, mutations, logger),
		Notifications: NewNotificationsService(store, api, mutations, logger),
		Messaging:     NewMessagingService(store, api, hub, mutations, logger),
		Admin:         NewAdminService(store, api, mutations, logger),
		Hub:           hub,
		Mutations:     mutations,
	}
}
