// internal/query/key.go
package query

import "strings"

// Key identifies one cached query as an ordered list of segments. Two keys
// compare equal exactly when their segments compare equal, so a key doubles
// as both cache address and invalidation target.
type Key []string

// String renders the key in redis key style with ":" separators.
func (k Key) String() string {
	return strings.Join(k, ":")
}

// HasPrefix reports whether the key starts with the given segments.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, seg := range prefix {
		if k[i] != seg {
			return false
		}
	}
	return true
}

// ===============================
// KEY CONSTRUCTORS
// ===============================
//
// Every cached query in the system addresses the cache through one of these
// constructors so readers and invalidators can never disagree on shape.

// CommentsKey addresses the comment thread of one content item.
func CommentsKey(targetType, targetID string) Key {
	return Key{"comments", targetType, targetID}
}

// LikesKey addresses the like state (count + viewer flag) of one content item.
func LikesKey(targetType, targetID string) Key {
	return Key{"likes", targetType, targetID}
}

// UserLikesKey addresses the full like list of one user.
func UserLikesKey(userID string) Key {
	return Key{"users", userID, "likes"}
}

// SavedKey addresses the viewer's saved-items collection.
func SavedKey() Key {
	return Key{"saved"}
}

// NotificationsKey addresses one user's notification list.
func NotificationsKey(userID string) Key {
	return Key{"notifications", userID}
}

// ConversationsKey addresses one user's conversation list.
func ConversationsKey(userID string) Key {
	return Key{"conversations", userID}
}

// MessagesKey addresses the message history of one conversation.
func MessagesKey(conversationID string) Key {
	return Key{"messages", conversationID}
}

// ResourceKey addresses a single upstream resource by collection and id.
func ResourceKey(collection, id string) Key {
	return Key{collection, id}
}

// ListKey addresses an upstream collection listing.
func ListKey(collection string) Key {
	return Key{collection, "list"}
}
