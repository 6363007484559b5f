package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"archnet/internal/cache"
	"archnet/internal/config"
	"archnet/internal/handlers"
	"archnet/internal/messaging"
	"archnet/internal/middleware"
	"archnet/internal/models"
	"archnet/internal/query"
	"archnet/internal/response"
	"archnet/internal/router"
	"archnet/internal/services"
	"archnet/internal/upstream"
)

const testSecret = "test-secret"

type testApp struct {
	router   http.Handler
	upstream *int64
}

// newTestApp wires the full gateway over a minimal fake backend.
func newTestApp(t *testing.T) *testApp {
	t.Helper()

	var upstreamCalls int64
	mux := http.NewServeMux()
	mux.HandleFunc("/api/books", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.Book{{ID: "b1", Title: "Shelter"}})
	})
	mux.HandleFunc("/api/books/", func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/b1") {
			json.NewEncoder(w).Encode(models.Book{ID: "b1", Title: "Shelter"})
			return
		}
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"error": "no such book"})
	})
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&upstreamCalls, 1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(backend.Close)

	logger := zap.NewNop()
	memCache := cache.NewMemoryCache(&cache.Config{
		MaxKeys:         1000,
		CleanupInterval: time.Hour,
	}, logger)
	t.Cleanup(func() { memCache.Close() })

	store := query.NewStore(memCache, &query.Config{TTL: time.Minute}, logger)
	api := upstream.NewClient(&upstream.Config{BaseURL: backend.URL, Timeout: 5 * time.Second}, logger)
	collection := services.NewCollection(store, api, messaging.NewHub(logger), logger)

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:  testSecret,
			JWTIssuer:  "archnet",
			CookieName: "archnet_token",
		},
		Security: config.SecurityConfig{
			RateLimitEnabled:  true,
			RateLimitRequests: 1000,
			RateLimitWindow:   time.Minute,
		},
	}
	builder := response.NewBuilder(logger)

	handler := handlers.New(collection, builder, logger)
	mounted := router.New(router.Deps{
		Handler:     handler,
		Auth:        middleware.NewAuth(&cfg.Auth, builder, logger),
		RateLimiter: middleware.NewRateLimiter(&cfg.Security, builder, logger),
		Builder:     builder,
		Cache:       memCache,
		Logger:      logger,
	})

	return &testApp{router: mounted, upstream: &upstreamCalls}
}

func signToken(t *testing.T, userID string, role models.Role) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, middleware.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			Issuer:    "archnet",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Role: string(role),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doRequest(app *testApp, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.router.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) response.APIResponse {
	t.Helper()
	var resp response.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestListBooks(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/books", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	resp := decodeResponse(t, rec)
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.RequestID)
}

func TestMissingBookRendersNotFoundWithBackLink(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/books/ghost", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Type)
	assert.Equal(t, "/books", resp.Error.Details["back_link"])
}

func TestGuestLikeReturnsSingleAdvisoryAndNoUpstreamCall(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodPost, "/api/content/research/r1/like", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Notice, "guest mutation surfaces an advisory notice")
	assert.Equal(t, "info", resp.Notice.Level)
	assert.Contains(t, resp.Notice.Message, "sign in")
	assert.Equal(t, 1, strings.Count(rec.Body.String(), `"notice"`), "exactly one advisory")

	assert.Zero(t, atomic.LoadInt64(app.upstream), "no upstream call for guest mutations")
}

func TestAdminGuard(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/admin/stats", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	userToken := signToken(t, "u1", models.RoleUser)
	rec = doRequest(app, http.MethodGet, "/api/admin/stats", userToken)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeResponse(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "FORBIDDEN", resp.Error.Type)
}

func TestRequireGuardOnLibrary(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/library", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestInvalidTokenTreatedAsGuest(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/api/books", "not-a-jwt")
	assert.Equal(t, http.StatusOK, rec.Code, "reads stay public with a bad token")
}

func TestHealthEndpoint(t *testing.T) {
	app := newTestApp(t)

	rec := doRequest(app, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}
