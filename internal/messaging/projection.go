// internal/messaging/projection.go

// Package messaging projects raw messages and conversation summaries into the
// inbox view and pushes live message events over websockets.
package messaging

import (
	"archnet/internal/models"
	"archnet/internal/utils"
)

// Direction classifies a message bubble relative to the viewer.
type Direction string

const (
	DirectionMe   Direction = "me"
	DirectionThem Direction = "them"
)

// MessageView is one rendered message bubble.
type MessageView struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Direction Direction `json:"direction"`
	SentAt    string    `json:"sent_at"`
}

// ConversationView is one row in the inbox list. LastMessageAge uses the
// terse bucket style ("now", "5m", "3h", "2d") rather than the feed's
// "ago" suffix.
type ConversationView struct {
	ID              string  `json:"id"`
	CounterpartID   string  `json:"counterpart_id"`
	CounterpartName string  `json:"counterpart_name"`
	AvatarURL       *string `json:"avatar_url,omitempty"`
	LastMessage     string  `json:"last_message"`
	LastMessageAge  string  `json:"last_message_age"`
	UnreadCount     int     `json:"unread_count"`
}

// Inbox is the full conversation-list projection.
type Inbox struct {
	Conversations []ConversationView `json:"conversations"`
	TotalUnread   int                `json:"total_unread"`
}

// ProjectInbox stamps each conversation with a relative age and recomputes
// the total unread badge from scratch. There is no separately maintained
// counter; the badge is always derived from the latest conversation list.
func ProjectInbox(conversations []models.ConversationSummary) Inbox {
	inbox := Inbox{Conversations: make([]ConversationView, 0, len(conversations))}
	for _, c := range conversations {
		inbox.Conversations = append(inbox.Conversations, ConversationView{
			ID:              c.ID,
			CounterpartID:   c.CounterpartID,
			CounterpartName: c.CounterpartName,
			AvatarURL:       c.AvatarURL,
			LastMessage:     c.LastMessage,
			LastMessageAge:  utils.TimeAgoShort(c.LastMessageAt),
			UnreadCount:     c.UnreadCount,
		})
		inbox.TotalUnread += c.UnreadCount
	}
	return inbox
}

// ProjectMessages classifies each message as sent or received by comparing
// its sender to the viewer, preserving fetch order.
func ProjectMessages(messages []models.Message, viewerID string) []MessageView {
	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		direction := DirectionThem
		if m.SenderID == viewerID {
			direction = DirectionMe
		}
		views = append(views, MessageView{
			ID:        m.ID,
			Content:   m.Content,
			Direction: direction,
			SentAt:    utils.TimeAgoShort(m.CreatedAt),
		})
	}
	return views
}
