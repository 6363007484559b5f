package messaging

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"archnet/internal/models"
)

func TestProjectInbox(t *testing.T) {
	conversations := []models.ConversationSummary{
		{ID: "c1", CounterpartID: "u2", CounterpartName: "Sara", LastMessage: "hey",
			LastMessageAt: time.Now().Add(-5 * time.Minute), UnreadCount: 2},
		{ID: "c2", CounterpartID: "u3", CounterpartName: "Omar", LastMessage: "ok",
			LastMessageAt: time.Now().Add(-3 * time.Hour), UnreadCount: 0},
		{ID: "c3", CounterpartID: "u4", CounterpartName: "Lina", LastMessage: "plans?",
			LastMessageAt: time.Now().Add(-2 * 24 * time.Hour), UnreadCount: 1},
	}

	inbox := ProjectInbox(conversations)

	require.Len(t, inbox.Conversations, 3)
	assert.Equal(t, 3, inbox.TotalUnread)

	// Terse ages, no "ago" suffix.
	assert.Equal(t, "5m", inbox.Conversations[0].LastMessageAge)
	assert.Equal(t, "3h", inbox.Conversations[1].LastMessageAge)
	assert.Equal(t, "2d", inbox.Conversations[2].LastMessageAge)
}

func TestProjectInboxEmpty(t *testing.T) {
	inbox := ProjectInbox(nil)
	assert.Empty(t, inbox.Conversations)
	assert.Zero(t, inbox.TotalUnread)
}

func TestProjectMessages(t *testing.T) {
	messages := []models.Message{
		{ID: "m1", SenderID: "me", ReceiverID: "them", Content: "hi"},
		{ID: "m2", SenderID: "them", ReceiverID: "me", Content: "hello"},
		{ID: "m3", SenderID: "me", ReceiverID: "them", Content: "how are you"},
	}

	views := ProjectMessages(messages, "me")

	require.Len(t, views, 3)
	assert.Equal(t, DirectionMe, views[0].Direction)
	assert.Equal(t, DirectionThem, views[1].Direction)
	assert.Equal(t, DirectionMe, views[2].Direction)

	// Fetch order preserved.
	assert.Equal(t, []string{"m1", "m2", "m3"},
		[]string{views[0].ID, views[1].ID, views[2].ID})
}
