// internal/notify/transform.go

// Package notify reshapes raw notification records into the display form the
// notifications panel renders.
package notify

import (
	"archnet/internal/models"
	"archnet/internal/utils"
)

// Icon is the closed set of notification icon categories the UI ships.
type Icon string

const (
	IconLike        Icon = "like"
	IconComment     Icon = "comment"
	IconFollow      Icon = "follow"
	IconCompetition Icon = "competition"
	IconJob         Icon = "job"
	IconBook        Icon = "book"
	IconSystem      Icon = "system"

	// IconBell is the fallback for types the backend emits that the UI does
	// not know. The backend's type set is open; ours is not, and unknown
	// types degrade to a generic bell instead of breaking the panel.
	IconBell Icon = "bell"
)

// Display is a notification shaped for rendering.
type Display struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	Icon      Icon   `json:"icon"`
	Read      bool   `json:"read"`
	Link      string `json:"link,omitempty"`
	Timestamp string `json:"timestamp"`
}

// Transform maps a raw notification to its display record. Message takes
// precedence over title for the body; an absent read flag means unread.
func Transform(n models.Notification) Display {
	content := n.Title
	if n.Message != nil && *n.Message != "" {
		content = *n.Message
	}

	return Display{
		ID:        n.ID,
		Content:   content,
		Icon:      resolveIcon(n.Type),
		Read:      !n.Unread(),
		Link:      n.Link,
		Timestamp: utils.TimeAgo(n.CreatedAt),
	}
}

// TransformAll maps a notification list, preserving order.
func TransformAll(notifications []models.Notification) []Display {
	displays := make([]Display, 0, len(notifications))
	for _, n := range notifications {
		displays = append(displays, Transform(n))
	}
	return displays
}

// UnreadCount counts unread notifications for the badge.
func UnreadCount(notifications []models.Notification) int {
	count := 0
	for i := range notifications {
		if notifications[i].Unread() {
			count++
		}
	}
	return count
}

// resolveIcon maps a backend notification type onto the icon enum.
func resolveIcon(notificationType string) Icon {
	switch notificationType {
	case "like":
		return IconLike
	case "comment", "reply":
		return IconComment
	case "follow":
		return IconFollow
	case "competition":
		return IconCompetition
	case "job":
		return IconJob
	case "book":
		return IconBook
	case "system":
		return IconSystem
	default:
		return IconBell
	}
}
