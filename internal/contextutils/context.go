// internal/contextutils/context.go
package contextutils

import (
	"context"

	"archnet/internal/models"
)

type contextKey string

const (
	// UserIDKey holds the authenticated user's id, when any.
	UserIDKey contextKey = "user_id"
	// UserRoleKey holds the authenticated user's role.
	UserRoleKey contextKey = "user_role"
	// RequestIDKey holds the per-request correlation id.
	RequestIDKey contextKey = "request_id"
)

// WithUser attaches the authenticated user's identity to the context.
func WithUser(ctx context.Context, userID string, role models.Role) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, userID)
	return context.WithValue(ctx, UserRoleKey, role)
}

// UserID extracts the authenticated user's id. The second return is false for
// guest requests, which is the signal mutation guards key off.
func UserID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(UserIDKey).(string)
	return id, ok && id != ""
}

// UserRole extracts the authenticated user's role, defaulting to RoleUser.
func UserRole(ctx context.Context) models.Role {
	if role, ok := ctx.Value(UserRoleKey).(models.Role); ok {
		return role
	}
	return models.RoleUser
}

// IsAuthenticated reports whether the request carries a signed-in user.
func IsAuthenticated(ctx context.Context) bool {
	_, ok := UserID(ctx)
	return ok
}

// IsAdmin reports whether the request carries an admin user.
func IsAdmin(ctx context.Context) bool {
	return UserRole(ctx) == models.RoleAdmin
}

// WithRequestID attaches a correlation id to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// RequestID extracts the correlation id, empty when absent.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
