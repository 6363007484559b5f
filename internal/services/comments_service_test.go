package services

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/cache"
	"archnet/internal/messaging"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/upstream"
)

// commentBackend stores a flat comment list and supports create and delete.
type commentBackend struct {
	mu       sync.Mutex
	comments []models.Comment
	nextID   int
}

func newCommentEnv(t *testing.T, seed []models.Comment) (*Collection, *commentBackend, *query.Store) {
	t.Helper()

	backend := &commentBackend{comments: seed, nextID: 100}
	mux := http.NewServeMux()
	mux.HandleFunc("/api/comments", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()

		if r.Method == http.MethodPost {
			var req upstream.CreateCommentRequest
			json.NewDecoder(r.Body).Decode(&req)
			comment := models.Comment{
				ID:         fmt.Sprintf("c%d", backend.nextID),
				UserID:     r.Header.Get("X-User-ID"),
				TargetType: models.ContentType(req.TargetType),
				TargetID:   req.TargetID,
				Content:    req.Content,
				ParentID:   req.ParentID,
				CreatedAt:  time.Now(),
			}
			backend.nextID++
			backend.comments = append(backend.comments, comment)
			json.NewEncoder(w).Encode(comment)
			return
		}
		json.NewEncoder(w).Encode(backend.comments)
	})
	mux.HandleFunc("/api/comments/", func(w http.ResponseWriter, r *http.Request) {
		backend.mu.Lock()
		defer backend.mu.Unlock()

		id := r.URL.Path[len("/api/comments/"):]
		if r.Method == http.MethodDelete {
			kept := backend.comments[:0]
			for _, c := range backend.comments {
				if c.ID != id {
					kept = append(kept, c)
				}
			}
			backend.comments = kept
			w.WriteHeader(http.StatusNoContent)
			return
		}
		http.NotFound(w, r)
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

	return NewCollection(store, api, hub, zap.NewNop()), backend, store
}

func parentRef(id string) *string { return &id }

func TestGetThreadBuildsForestWithOwnershipStamps(t *testing.T) {
	seed := []models.Comment{
		{ID: "c1", UserID: "u1", TargetType: models.ContentBook, TargetID: "b1", CreatedAt: time.Now().Add(-3 * time.Hour)},
		{ID: "c2", UserID: "u2", TargetType: models.ContentBook, TargetID: "b1", ParentID: parentRef("c1"), CreatedAt: time.Now().Add(-time.Hour)},
		{ID: "c3", UserID: "u2", TargetType: models.ContentBook, TargetID: "b1", ParentID: parentRef("zzz"), CreatedAt: time.Now()},
	}
	collection, _, _ := newCommentEnv(t, seed)

	thread, err := collection.Comments.GetThread(authedCtx("u1"), models.ContentBook, "b1")
	require.NoError(t, err)

	// One top-level node with one reply; the orphan is gone.
	require.Len(t, thread, 1)
	assert.Equal(t, "c1", thread[0].ID)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "c2", thread[0].Replies[0].ID)

	assert.True(t, thread[0].IsOwner)
	assert.False(t, thread[0].Replies[0].IsOwner)
	assert.Equal(t, "3h ago", thread[0].CreatedAtHuman)
	assert.Equal(t, "1h ago", thread[0].Replies[0].CreatedAtHuman)
}

func TestCreateCommentInvalidatesThread(t *testing.T) {
	collection, _, _ := newCommentEnv(t, nil)
	ctx := authedCtx("u1")

	thread, err := collection.Comments.GetThread(ctx, models.ContentBook, "b1")
	require.NoError(t, err)
	assert.Empty(t, thread)

	created, err := collection.Comments.Create(ctx, CreateCommentInput{
		TargetType: models.ContentBook,
		TargetID:   "b1",
		Content:    "great read",
	})
	require.NoError(t, err)
	require.NotNil(t, created)

	// The cached thread was invalidated, so the reread sees the new comment.
	thread, err = collection.Comments.GetThread(ctx, models.ContentBook, "b1")
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "great read", thread[0].Content)
}

func TestCreateCommentInvalidatesCountListings(t *testing.T) {
	collection, _, store := newCommentEnv(t, nil)
	ctx := authedCtx("u1")

	require.NoError(t, store.Prime(ctx, query.ListKey("books"), []models.Book{{ID: "b1", Title: "Shelter"}}))
	require.NoError(t, store.Prime(ctx, query.ListKey("posts"), []models.Post{{ID: "p1"}}))
	require.NoError(t, store.Prime(ctx, query.ConversationsKey("u1"), []models.ConversationSummary{}))

	_, err := collection.Comments.Create(ctx, CreateCommentInput{
		TargetType: models.ContentBook,
		TargetID:   "b1",
		Content:    "great read",
	})
	require.NoError(t, err)

	// Listings embed per-item comment counts, so both cached lists are gone.
	var books []models.Book
	assert.False(t, store.Peek(ctx, query.ListKey("books"), &books))
	var posts []models.Post
	assert.False(t, store.Peek(ctx, query.ListKey("posts"), &posts))

	// Unrelated keys survive.
	var convos []models.ConversationSummary
	assert.True(t, store.Peek(ctx, query.ConversationsKey("u1"), &convos))
}

func TestCommentOwnershipGuards(t *testing.T) {
	seed := []models.Comment{
		{ID: "c1", UserID: "owner", TargetType: models.ContentBook, TargetID: "b1"},
	}
	collection, backend, _ := newCommentEnv(t, seed)

	err := collection.Comments.Delete(authedCtx("intruder"), models.ContentBook, "b1", "c1")
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.AsServiceError(err).Type)

	backend.mu.Lock()
	remaining := len(backend.comments)
	backend.mu.Unlock()
	assert.Equal(t, 1, remaining, "non-owner delete must not reach the backend")

	require.NoError(t, collection.Comments.Delete(authedCtx("owner"), models.ContentBook, "b1", "c1"))

	thread, err := collection.Comments.GetThread(authedCtx("owner"), models.ContentBook, "b1")
	require.NoError(t, err)
	assert.Empty(t, thread)
}

func TestDeleteUnknownComment(t *testing.T) {
	collection, _, _ := newCommentEnv(t, nil)

	err := collection.Comments.Delete(authedCtx("u1"), models.ContentBook, "b1", "ghost")
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateCommentValidation(t *testing.T) {
	collection, _, _ := newCommentEnv(t, nil)

	_, err := collection.Comments.Create(authedCtx("u1"), CreateCommentInput{
		TargetType: models.ContentBook,
		TargetID:   "b1",
		Content:    "",
	})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", apperrors.AsServiceError(err).Type)
}
