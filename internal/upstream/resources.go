// internal/upstream/resources.go
package upstream

import (
	"context"
	"fmt"
	"net/url"

	"archnet/internal/models"
)

// Typed wrappers over the backend's REST resources. Every read the gateway
// caches and every write it forwards goes through one of these.

// ===============================
// CONTENT LISTINGS
// ===============================

func (c *Client) ListBooks(ctx context.Context) ([]models.Book, error) {
	var books []models.Book
	err := c.Get(ctx, "/api/books", nil, &books)
	return books, err
}

func (c *Client) GetBook(ctx context.Context, id string) (*models.Book, error) {
	var book models.Book
	if err := c.Get(ctx, "/api/books/"+url.PathEscape(id), nil, &book); err != nil {
		return nil, err
	}
	return &book, nil
}

func (c *Client) ListCompetitions(ctx context.Context) ([]models.Competition, error) {
	var competitions []models.Competition
	err := c.Get(ctx, "/api/competitions", nil, &competitions)
	return competitions, err
}

func (c *Client) GetCompetition(ctx context.Context, id string) (*models.Competition, error) {
	var competition models.Competition
	if err := c.Get(ctx, "/api/competitions/"+url.PathEscape(id), nil, &competition); err != nil {
		return nil, err
	}
	return &competition, nil
}

func (c *Client) ListResearch(ctx context.Context) ([]models.Research, error) {
	var research []models.Research
	err := c.Get(ctx, "/api/research", nil, &research)
	return research, err
}

func (c *Client) GetResearch(ctx context.Context, id string) (*models.Research, error) {
	var research models.Research
	if err := c.Get(ctx, "/api/research/"+url.PathEscape(id), nil, &research); err != nil {
		return nil, err
	}
	return &research, nil
}

func (c *Client) ListJobs(ctx context.Context) ([]models.Job, error) {
	var jobs []models.Job
	err := c.Get(ctx, "/api/jobs", nil, &jobs)
	return jobs, err
}

func (c *Client) ListPosts(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	err := c.Get(ctx, "/api/posts", nil, &posts)
	return posts, err
}

// ===============================
// COMMENTS
// ===============================

func (c *Client) ListComments(ctx context.Context, targetType, targetID string) ([]models.Comment, error) {
	query := url.Values{}
	query.Set("targetType", targetType)
	query.Set("targetId", targetID)

	var comments []models.Comment
	err := c.Get(ctx, "/api/comments", query, &comments)
	return comments, err
}

// CreateCommentRequest is the write payload for a new comment or reply.
type CreateCommentRequest struct {
	TargetType string  `json:"targetType"`
	TargetID   string  `json:"targetId"`
	Content    string  `json:"content"`
	ParentID   *string `json:"parentId,omitempty"`
}

func (c *Client) CreateComment(ctx context.Context, req CreateCommentRequest) (*models.Comment, error) {
	var comment models.Comment
	if err := c.Post(ctx, "/api/comments", req, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) UpdateComment(ctx context.Context, id, content string) (*models.Comment, error) {
	var comment models.Comment
	body := map[string]string{"content": content}
	if err := c.Patch(ctx, "/api/comments/"+url.PathEscape(id), body, &comment); err != nil {
		return nil, err
	}
	return &comment, nil
}

func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.Delete(ctx, "/api/comments/"+url.PathEscape(id))
}

// ===============================
// LIKES & SAVED ITEMS
// ===============================

// ToggleLike flips like membership for (targetType, targetId). The backend
// owns toggle semantics: one POST inserts when absent and removes when
// present, so the at-most-one-record invariant is enforced server side.
func (c *Client) ToggleLike(ctx context.Context, targetType, targetID string) error {
	body := map[string]string{"targetType": targetType, "targetId": targetID}
	return c.Post(ctx, "/api/likes", body, nil)
}

func (c *Client) GetLikeCount(ctx context.Context, targetType, targetID string) (*models.LikeCount, error) {
	query := url.Values{}
	query.Set("targetType", targetType)
	query.Set("targetId", targetID)

	var count models.LikeCount
	if err := c.Get(ctx, "/api/likes", query, &count); err != nil {
		return nil, err
	}
	return &count, nil
}

func (c *Client) ListUserLikes(ctx context.Context, userID string) ([]models.LikeRecord, error) {
	var likes []models.LikeRecord
	err := c.Get(ctx, "/api/users/"+url.PathEscape(userID)+"/likes", nil, &likes)
	return likes, err
}

// ToggleSaved flips saved membership, same contract as ToggleLike.
func (c *Client) ToggleSaved(ctx context.Context, targetType, targetID string) error {
	body := map[string]string{"targetType": targetType, "targetId": targetID}
	return c.Post(ctx, "/api/saved", body, nil)
}

func (c *Client) ListSaved(ctx context.Context) ([]models.SavedItem, error) {
	var saved []models.SavedItem
	err := c.Get(ctx, "/api/saved", nil, &saved)
	return saved, err
}

// ===============================
// NOTIFICATIONS
// ===============================

func (c *Client) ListNotifications(ctx context.Context) ([]models.Notification, error) {
	var notifications []models.Notification
	err := c.Get(ctx, "/api/notifications", nil, &notifications)
	return notifications, err
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.Post(ctx, "/api/notifications/"+url.PathEscape(id)+"/read", nil, nil)
}

func (c *Client) MarkAllNotificationsRead(ctx context.Context) error {
	return c.Post(ctx, "/api/notifications/read-all", nil, nil)
}

// ===============================
// MESSAGING
// ===============================

func (c *Client) ListConversations(ctx context.Context) ([]models.ConversationSummary, error) {
	var conversations []models.ConversationSummary
	err := c.Get(ctx, "/api/messages/conversations", nil, &conversations)
	return conversations, err
}

func (c *Client) ListMessages(ctx context.Context, counterpartID string) ([]models.Message, error) {
	query := url.Values{}
	query.Set("with", counterpartID)

	var messages []models.Message
	err := c.Get(ctx, "/api/messages", query, &messages)
	return messages, err
}

func (c *Client) SendMessage(ctx context.Context, receiverID, content string) (*models.Message, error) {
	var message models.Message
	body := map[string]string{"receiverId": receiverID, "content": content}
	if err := c.Post(ctx, "/api/messages", body, &message); err != nil {
		return nil, err
	}
	return &message, nil
}

// ===============================
// REPORTS & ADMIN
// ===============================

// CreateReportRequest is the write payload for reporting content.
type CreateReportRequest struct {
	TargetType string `json:"targetType"`
	TargetID   string `json:"targetId"`
	Reason     string `json:"reason"`
}

func (c *Client) CreateReport(ctx context.Context, req CreateReportRequest) error {
	return c.Post(ctx, "/api/reports", req, nil)
}

func (c *Client) GetAdminStats(ctx context.Context) (*models.AdminStats, error) {
	var stats models.AdminStats
	if err := c.Get(ctx, "/api/admin/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) ListAdminUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := c.Get(ctx, "/api/admin/users", nil, &users)
	return users, err
}

func (c *Client) UpdateUserRole(ctx context.Context, userID string, role models.Role) error {
	body := map[string]string{"role": string(role)}
	return c.Patch(ctx, "/api/admin/users/"+url.PathEscape(userID)+"/role", body, nil)
}

// ModerateContent approves or rejects a piece of pending content.
func (c *Client) ModerateContent(ctx context.Context, contentType, contentID string, decision models.ModerationDecision) error {
	path := fmt.Sprintf("/api/admin/content/%s/%s/%s",
		url.PathEscape(contentType), url.PathEscape(contentID), string(decision))
	return c.Post(ctx, path, nil, nil)
}

func (c *Client) GetUser(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := c.Get(ctx, "/api/users/"+url.PathEscape(id), nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
