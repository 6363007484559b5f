// internal/router/router.go
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"archnet/internal/cache"
	"archnet/internal/handlers"
	"archnet/internal/middleware"
	"archnet/internal/response"
)

// Deps carries everything the router mounts.
type Deps struct {
	Handler     *handlers.Handler
	Auth        *middleware.Auth
	RateLimiter *middleware.RateLimiter
	Builder     *response.Builder
	Cache       cache.Cache
	Logger      *zap.Logger
}

// New assembles the full route tree. Reads are public behind optional auth;
// per-user surfaces require a session; the admin subtree requires the admin
// role.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(deps.Builder, deps.Logger))
	r.Use(middleware.Logging(deps.Logger))
	r.Use(chimiddleware.RealIP)
	r.Use(deps.RateLimiter.Handler)
	r.Use(deps.Auth.Optional)

	r.Get("/health", healthHandler(deps.Cache))

	r.Route("/api", func(r chi.Router) {
		// Content reads
		r.Get("/feed", deps.Handler.Feed)
		r.Get("/books", deps.Handler.ListBooks)
		r.Get("/books/{id}", deps.Handler.GetBook)
		r.Get("/competitions", deps.Handler.ListCompetitions)
		r.Get("/competitions/{id}", deps.Handler.GetCompetition)
		r.Get("/research", deps.Handler.ListResearch)
		r.Get("/research/{id}", deps.Handler.GetResearch)
		r.Get("/jobs", deps.Handler.ListJobs)
		r.Get("/users/{id}", deps.Handler.GetProfile)

		// Social interactions, keyed by content identity
		r.Route("/content/{type}/{id}", func(r chi.Router) {
			r.Get("/interactions", deps.Handler.GetInteractions)
			r.Post("/like", deps.Handler.ToggleLike)
			r.Post("/save", deps.Handler.ToggleSave)
			r.Get("/comments", deps.Handler.GetThread)
			r.Post("/comments", deps.Handler.CreateComment)
			r.Patch("/comments/{commentID}", deps.Handler.UpdateComment)
			r.Delete("/comments/{commentID}", deps.Handler.DeleteComment)
			r.Post("/report", deps.Handler.ReportContent)
		})

		// Per-user surfaces
		r.Group(func(r chi.Router) {
			r.Use(deps.Auth.Require)

			r.Get("/library", deps.Handler.Library)
			r.Get("/activity", deps.Handler.Activity)

			r.Get("/notifications", deps.Handler.ListNotifications)
			r.Get("/notifications/unread-count", deps.Handler.UnreadCount)
			r.Post("/notifications/{id}/read", deps.Handler.MarkNotificationRead)
			r.Post("/notifications/read-all", deps.Handler.MarkAllNotificationsRead)

			r.Get("/messages/conversations", deps.Handler.Inbox)
			r.Get("/messages/{counterpartID}", deps.Handler.Conversation)
			r.Post("/messages", deps.Handler.SendMessage)
		})

		// Live message stream; the handler re-checks identity after upgrade.
		r.Get("/messages/ws", deps.Handler.MessagesSocket)

		// Moderation dashboard
		r.Route("/admin", func(r chi.Router) {
			r.Use(deps.Auth.RequireAdmin)

			r.Get("/stats", deps.Handler.AdminStats)
			r.Get("/users", deps.Handler.AdminUsers)
			r.Patch("/users/{id}/role", deps.Handler.ChangeUserRole)
			r.Post("/content/{type}/{id}/{decision}", deps.Handler.ModerateContent)
		})
	})

	return r
}

func healthHandler(c cache.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := http.StatusOK
		body := `{"status":"ok"}`
		if err := c.Health(r.Context()); err != nil {
			status = http.StatusServiceUnavailable
			body = `{"status":"degraded","cache":"unavailable"}`
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}
}
