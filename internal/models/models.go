// file: internal/models/models.go
package models

import (
	"time"
)

// ===============================
// CONTENT IDENTITY
// ===============================

// ContentType identifies the namespace a content id lives in. The same id
// can exist in different namespaces, so identity is always the (type, id)
// pair, never the id alone.
type ContentType string

const (
	ContentBook        ContentType = "book"
	ContentCompetition ContentType = "competition"
	ContentResearch    ContentType = "research"
	ContentProject     ContentType = "project"
	ContentPost        ContentType = "post"
	ContentComment     ContentType = "comment"
)

// Valid reports whether t is one of the known content namespaces.
func (t ContentType) Valid() bool {
	switch t {
	case ContentBook, ContentCompetition, ContentResearch, ContentProject, ContentPost, ContentComment:
		return true
	}
	return false
}

// ContentRef is the identity of a likable/savable/commentable entity.
type ContentRef struct {
	Type ContentType `json:"type" validate:"required"`
	ID   string      `json:"id" validate:"required"`
}

// Matches reports whether a (targetType, targetId) pair refers to this content.
func (r ContentRef) Matches(targetType ContentType, targetID string) bool {
	return r.Type == targetType && r.ID == targetID
}

// ===============================
// SOCIAL GRAPH RECORDS
// ===============================

// LikeRecord encodes "user liked target" by existence. At most one record per
// (user, targetType, targetId); the upstream API enforces uniqueness and
// toggles membership on repeated POSTs.
type LikeRecord struct {
	UserID     string      `json:"user_id"`
	TargetType ContentType `json:"target_type"`
	TargetID   string      `json:"target_id"`
}

// SavedItem is a membership record like LikeRecord, plus the timestamp the
// library view renders as "saved N ago".
type SavedItem struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	TargetType ContentType `json:"target_type"`
	TargetID   string      `json:"target_id"`
	CreatedAt  time.Time   `json:"created_at"`
}

// LikeCount is the aggregate count for one content item.
type LikeCount struct {
	Count int `json:"count"`
}

// Comment represents a comment with one optional level of parent reference.
// A nil ParentID means top-level; otherwise ParentID names another comment.
type Comment struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	TargetType ContentType `json:"target_type"`
	TargetID   string      `json:"target_id"`
	Content    string      `json:"content" validate:"required,min=1,max=10000"`
	ParentID   *string     `json:"parent_id,omitempty"`
	LikesCount int         `json:"likes_count"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Author information (joined upstream)
	Username        string  `json:"username,omitempty"`
	AuthorAvatarURL *string `json:"author_avatar_url,omitempty"`

	// Thread display helpers (never sent upstream)
	Replies        []*Comment `json:"replies,omitempty"`
	IsOwner        bool       `json:"is_owner"`
	CreatedAtHuman string     `json:"created_at_human,omitempty"`
}

// IsReply reports whether the comment references a parent.
func (c *Comment) IsReply() bool { return c.ParentID != nil }

// IsOwnedBy checks comment ownership; edit and delete are owner-only.
func (c *Comment) IsOwnedBy(userID string) bool { return c.UserID == userID }

// ===============================
// NOTIFICATIONS
// ===============================

// Notification is the raw record the upstream notifications feed emits.
// Message may be absent; IsRead may be absent (treated as unread).
type Notification struct {
	ID        string     `json:"id"`
	Type      string     `json:"type"`
	Title     string     `json:"title"`
	Message   *string    `json:"message,omitempty"`
	IsRead    *bool      `json:"is_read,omitempty"`
	Link      string     `json:"link,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	ReadAt    *time.Time `json:"read_at,omitempty"`
}

// Unread treats an absent read flag as unread, the conservative choice for
// a notification badge.
func (n *Notification) Unread() bool {
	return n.IsRead == nil || !*n.IsRead
}

// ===============================
// MESSAGING
// ===============================

// Message is a direct message between two users.
type Message struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"sender_id"`
	ReceiverID string    `json:"receiver_id"`
	Content    string    `json:"content" validate:"required,min=1,max=10000"`
	CreatedAt  time.Time `json:"created_at"`
}

// ConversationSummary is the upstream's per-counterpart rollup: last message,
// its timestamp and the unread count. Conversations are derived upstream, not
// stored; this is the shape the inbox list is built from.
type ConversationSummary struct {
	ID              string    `json:"id"`
	CounterpartID   string    `json:"counterpart_id"`
	CounterpartName string    `json:"counterpart_name"`
	AvatarURL       *string   `json:"avatar_url,omitempty"`
	LastMessage     string    `json:"last_message"`
	LastMessageAt   time.Time `json:"last_message_at"`
	UnreadCount     int       `json:"unread_count"`
}

// ===============================
// CONTENT ENTITIES
// ===============================

// Book is a library entry. Most descriptive fields are optional and rendered
// conditionally.
type Book struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=255"`
	Author      *string   `json:"author,omitempty"`
	Description *string   `json:"description,omitempty"`
	CoverURL    *string   `json:"cover_url,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	Publisher   *string   `json:"publisher,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Pages       *int      `json:"pages,omitempty"`
	Language    *string   `json:"language,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Status      string    `json:"status,omitempty"`
	UploadedBy  string    `json:"uploaded_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Competition is an architecture competition listing.
type Competition struct {
	ID          string     `json:"id"`
	Title       string     `json:"title" validate:"required,max=255"`
	Organizer   *string    `json:"organizer,omitempty"`
	Description *string    `json:"description,omitempty"`
	ImageURL    *string    `json:"image_url,omitempty"`
	Prize       *string    `json:"prize,omitempty"`
	EntryFee    *string    `json:"entry_fee,omitempty"`
	Eligibility *string    `json:"eligibility,omitempty"`
	WebsiteURL  *string    `json:"website_url,omitempty"`
	Deadline    *time.Time `json:"deadline,omitempty"`
	ResultsDate *time.Time `json:"results_date,omitempty"`
	Status      string     `json:"status,omitempty"`
	SubmittedBy string     `json:"submitted_by,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOpen reports whether submissions are still accepted.
func (c *Competition) IsOpen() bool {
	return c.Deadline == nil || time.Now().Before(*c.Deadline)
}

// Research is a research listing (paper, thesis, study).
type Research struct {
	ID          string    `json:"id"`
	Title       string    `json:"title" validate:"required,max=255"`
	Abstract    *string   `json:"abstract,omitempty"`
	AuthorName  *string   `json:"author_name,omitempty"`
	Institution *string   `json:"institution,omitempty"`
	FileURL     *string   `json:"file_url,omitempty"`
	Field       *string   `json:"field,omitempty"`
	Year        *int      `json:"year,omitempty"`
	Status      string    `json:"status,omitempty"`
	SubmittedBy string    `json:"submitted_by,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Job is an employment listing.
type Job struct {
	ID             string     `json:"id"`
	Title          string     `json:"title" validate:"required,max=255"`
	Company        *string    `json:"company,omitempty"`
	Location       *string    `json:"location,omitempty"`
	Description    *string    `json:"description,omitempty"`
	Requirements   *string    `json:"requirements,omitempty"`
	SalaryRange    *string    `json:"salary_range,omitempty"`
	EmploymentType *string    `json:"employment_type,omitempty"`
	ApplyURL       *string    `json:"apply_url,omitempty"`
	ContactEmail   *string    `json:"contact_email,omitempty" validate:"omitempty,email"`
	Deadline       *time.Time `json:"deadline,omitempty"`
	PostedBy       string     `json:"posted_by,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// Post is a feed entry (status update or project share).
type Post struct {
	ID        string      `json:"id"`
	UserID    string      `json:"user_id"`
	Type      ContentType `json:"type"` // post or project
	Content   string      `json:"content"`
	ImageURL  *string     `json:"image_url,omitempty"`
	CreatedAt time.Time   `json:"created_at"`

	// Author information (joined upstream)
	Username  string  `json:"username,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// ===============================
// USERS, REPORTS, ADMIN
// ===============================

// Role is the user's permission tier.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// ValidRole reports whether r is an assignable role.
func ValidRole(r Role) bool {
	return r == RoleUser || r == RoleModerator || r == RoleAdmin
}

// User is the profile shape the upstream exposes.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username" validate:"required,min=3,max=50"`
	Email      string    `json:"email" validate:"required,email"`
	Role       Role      `json:"role"`
	AvatarURL  *string   `json:"avatar_url,omitempty"`
	Bio        *string   `json:"bio,omitempty"`
	Profession *string   `json:"profession,omitempty"`
	City       *string   `json:"city,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// IsAdmin reports whether the user may reach the moderation dashboard.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Report is a moderation report filed against a content item.
type Report struct {
	ID         string      `json:"id,omitempty"`
	ReporterID string      `json:"reporter_id"`
	TargetType ContentType `json:"target_type" validate:"required"`
	TargetID   string      `json:"target_id" validate:"required"`
	Reason     string      `json:"reason" validate:"required,max=1000"`
	CreatedAt  time.Time   `json:"created_at"`
}

// AdminStats is the dashboard headline rollup.
type AdminStats struct {
	TotalUsers      int `json:"total_users"`
	TotalBooks      int `json:"total_books"`
	TotalJobs       int `json:"total_jobs"`
	TotalResearch   int `json:"total_research"`
	PendingContent  int `json:"pending_content"`
	OpenReports     int `json:"open_reports"`
	NewUsersWeek    int `json:"new_users_week"`
	ActiveUsersWeek int `json:"active_users_week"`
}

// ModerationDecision is the admin approve/reject verdict for pending content.
type ModerationDecision string

const (
	DecisionApprove ModerationDecision = "approve"
	DecisionReject  ModerationDecision = "reject"
)
