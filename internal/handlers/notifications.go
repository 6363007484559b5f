// internal/handlers/notifications.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// ListNotifications serves the viewer's notification panel.
func (h *Handler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	displays, unread, err := h.services.Notifications.List(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, map[string]interface{}{
		"notifications": displays,
		"unread_count":  unread,
	})
}

// UnreadCount serves just the badge number.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.services.Notifications.UnreadCount(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, map[string]int{"unread_count": count})
}

// MarkNotificationRead marks one notification read.
func (h *Handler) MarkNotificationRead(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Notifications.MarkRead(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}

// MarkAllNotificationsRead clears the viewer's unread set.
func (h *Handler) MarkAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	if err := h.services.Notifications.MarkAllRead(r.Context()); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}
