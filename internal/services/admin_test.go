package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/cache"
	"archnet/internal/contextutils"
	"archnet/internal/messaging"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

func newAdminEnv(t *testing.T) (*Collection, *int64) {
	t.Helper()

	var roleChanges int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/admin/users", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.User{
			{ID: "admin-1", Username: "lead", Role: models.RoleAdmin},
			{ID: "u2", Username: "sara", Role: models.RoleUser},
			{ID: "u3", Username: "omar", Role: models.RoleModerator},
		})
	})
	mux.HandleFunc("/api/admin/stats", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(models.AdminStats{TotalUsers: 3, OpenReports: 1})
	})
	mux.HandleFunc("/api/admin/users/", func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&roleChanges, 1)
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	memCache := cache.NewMemoryCache(&cache.Config{
		MaxKeys:         1000,
		CleanupInterval: time.Hour,
	}, zap.NewNop())
	t.Cleanup(func() { memCache.Close() })

	store := query.NewStore(memCache, &query.Config{TTL: time.Minute}, zap.NewNop())
	api := upstream.NewClient(&upstream.Config{
		BaseURL: server.URL,
		Timeout: 5 * time.Second,
	}, zap.NewNop())
	hub := messaging.NewHub(zap.NewNop())

	return NewCollection(store, api, hub, zap.NewNop()), &roleChanges
}

func adminCtx(userID string) context.Context {
	return contextutils.WithUser(context.Background(), userID, models.RoleAdmin)
}

func TestAdminUsersSelfRowCannotChangeRole(t *testing.T) {
	collection, _ := newAdminEnv(t)

	rows, err := collection.Admin.Users(adminCtx("admin-1"))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	byID := make(map[string]AdminUserRow)
	for _, row := range rows {
		byID[row.ID] = row
	}
	assert.False(t, byID["admin-1"].CanChangeRole, "acting admin's own row must be locked")
	assert.True(t, byID["u2"].CanChangeRole)
	assert.True(t, byID["u3"].CanChangeRole)
}

func TestAdminSelfDemotionRejected(t *testing.T) {
	collection, roleChanges := newAdminEnv(t)

	err := collection.Admin.ChangeRole(adminCtx("admin-1"), "admin-1", models.RoleUser)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.AsServiceError(err).Type)
	assert.Zero(t, atomic.LoadInt64(roleChanges), "self-demotion must not reach the backend")
}

func TestAdminChangeRole(t *testing.T) {
	collection, roleChanges := newAdminEnv(t)

	require.NoError(t, collection.Admin.ChangeRole(adminCtx("admin-1"), "u2", models.RoleModerator))
	assert.Equal(t, int64(1), atomic.LoadInt64(roleChanges))

	err := collection.Admin.ChangeRole(adminCtx("admin-1"), "u2", models.Role("owner"))
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperrors.AsServiceError(err).Type)
}

func TestAdminGuards(t *testing.T) {
	collection, _ := newAdminEnv(t)

	_, err := collection.Admin.Stats(context.Background())
	assert.True(t, apperrors.IsAuthRequired(err))

	userCtx := contextutils.WithUser(context.Background(), "u2", models.RoleUser)
	_, err = collection.Admin.Stats(userCtx)
	assert.Equal(t, "FORBIDDEN", apperrors.AsServiceError(err).Type)

	stats, err := collection.Admin.Stats(adminCtx("admin-1"))
	require.NoError(t, err)
	assert.Equal(t, 3, stats.TotalUsers)
}
