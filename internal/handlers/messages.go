// internal/handlers/messages.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"archnet/internal/contextutils"
)

// Inbox serves the conversation list with its total unread badge.
func (h *Handler) Inbox(w http.ResponseWriter, r *http.Request) {
	inbox, err := h.services.Messaging.Inbox(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, inbox)
}

// Conversation serves the message history with one counterpart.
func (h *Handler) Conversation(w http.ResponseWriter, r *http.Request) {
	messages, err := h.services.Messaging.Conversation(r.Context(), chi.URLParam(r, "counterpartID"))
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, messages)
}

type sendMessageBody struct {
	ReceiverID string `json:"receiver_id"`
	Content    string `json:"content"`
}

// SendMessage delivers a direct message.
func (h *Handler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body sendMessageBody
	if err := h.decode(r, &body); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	message, err := h.services.Messaging.Send(r.Context(), body.ReceiverID, body.Content)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusCreated, message)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origin is enforced by the CORS layer in front of the router.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// MessagesSocket upgrades to a websocket and streams live message events to
// the authenticated viewer until the connection closes.
func (h *Handler) MessagesSocket(w http.ResponseWriter, r *http.Request) {
	userID, ok := contextutils.UserID(r.Context())
	if !ok {
		http.Error(w, "authentication required", http.StatusUnauthorized)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	h.services.Hub.HandleConnection(r.Context(), userID, conn)
}
