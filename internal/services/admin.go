// internal/services/admin.go
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

// AdminService backs the moderation dashboard: stats, the user table with
// role management, and pending-content decisions. Every operation requires
// the admin role; the router guards the routes and the service re-checks.
type AdminService struct {
	store     *query.Store
	api       *upstream.Client
	mutations *MutationTracker
	logger    *zap.Logger
}

// NewAdminService creates an admin service.
func NewAdminService(store *query.Store, api *upstream.Client, mutations *MutationTracker, logger *zap.Logger) *AdminService {
	return &AdminService{store: store, api: api, mutations: mutations, logger: logger}
}

// AdminUserRow is one row of the dashboard user table. CanChangeRole is false
// for the acting admin's own row; an admin must not be able to demote
// themselves and lock everyone out.
type AdminUserRow struct {
	models.User
	CanChangeRole bool `json:"can_change_role"`
}

// Stats returns the dashboard headline numbers.
func (s *AdminService) Stats(ctx context.Context) (*models.AdminStats, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}

	var stats models.AdminStats
	err := s.store.GetOrFetch(ctx, query.Key{"admin", "stats"}, &stats,
		func(ctx context.Context) (interface{}, error) {
			return s.api.GetAdminStats(ctx)
		})
	if err != nil {
		return nil, err
	}
	return &stats, nil
}

// Users returns the user table with per-row role-change permission resolved
// against the acting admin.
func (s *AdminService) Users(ctx context.Context) ([]AdminUserRow, error) {
	if err := s.requireAdmin(ctx); err != nil {
		return nil, err
	}
	actingID, _ := contextutils.UserID(ctx)

	var users []models.User
	if err := s.store.GetOrFetch(ctx, query.Key{"admin", "users"}, &users,
		func(ctx context.Context) (interface{}, error) {
			return s.api.ListAdminUsers(ctx)
		}); err != nil {
		return nil, err
	}

	rows := make([]AdminUserRow, 0, len(users))
	for _, u := range users {
		rows = append(rows, AdminUserRow{
			User:          u,
			CanChangeRole: u.ID != actingID,
		})
	}
	return rows, nil
}

// ChangeRole assigns a new role to a user. Self-demotion is rejected before
// any upstream call.
func (s *AdminService) ChangeRole(ctx context.Context, targetUserID string, role models.Role) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	actingID, _ := contextutils.UserID(ctx)
	if targetUserID == actingID {
		return apperrors.NewForbiddenError("You cannot change your own role")
	}
	if !models.ValidRole(role) {
		return apperrors.NewValidationError("unknown role", nil)
	}

	key := "role-change:" + targetUserID
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.UpdateUserRole(ctx, targetUserID, role); err != nil {
			return apperrors.NewMutationFailedError("Could not change role", err)
		}

		s.invalidateAdmin(ctx)
		if err := s.store.Invalidate(ctx, query.ResourceKey("users", targetUserID)); err != nil {
			s.logger.Warn("User invalidation failed", zap.Error(err))
		}
		return nil
	})
}

// Moderate approves or rejects a pending content item, then invalidates the
// dashboard and the affected listing so the decision shows everywhere.
func (s *AdminService) Moderate(ctx context.Context, targetType models.ContentType, targetID string, decision models.ModerationDecision) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	if !targetType.Valid() {
		return apperrors.NewValidationError("unknown content type", nil)
	}
	if decision != models.DecisionApprove && decision != models.DecisionReject {
		return apperrors.NewValidationError("unknown decision", nil)
	}

	key := fmt.Sprintf("moderate:%s:%s", targetType, targetID)
	return s.mutations.Run(ctx, key, func(ctx context.Context) error {
		if err := s.api.ModerateContent(ctx, string(targetType), targetID, decision); err != nil {
			return apperrors.NewMutationFailedError("Could not apply moderation decision", err)
		}

		s.invalidateAdmin(ctx)
		if err := s.store.InvalidatePrefix(ctx, query.Key{collectionFor(targetType)}); err != nil {
			s.logger.Warn("Listing invalidation failed", zap.Error(err))
		}
		return nil
	})
}

func (s *AdminService) requireAdmin(ctx context.Context) error {
	if !contextutils.IsAuthenticated(ctx) {
		return apperrors.NewAuthRequiredError("access the admin dashboard")
	}
	if !contextutils.IsAdmin(ctx) {
		return apperrors.NewForbiddenError("Admin access required")
	}
	return nil
}

func (s *AdminService) invalidateAdmin(ctx context.Context) {
	if err := s.store.InvalidatePrefix(ctx, query.Key{"admin"}); err != nil {
		s.logger.Warn("Admin invalidation failed", zap.Error(err))
	}
}
