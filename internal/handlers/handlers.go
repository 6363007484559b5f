// internal/handlers/handlers.go

// Package handlers exposes the gateway's HTTP surface: content reads, social
// mutations, notifications, messaging and the admin dashboard.
package handlers

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/models"
	"archnet/internal/response"
	"archnet/internal/services"
)

// Handler carries the service collection into every route.
type Handler struct {
	services *services.Collection
	builder  *response.Builder
	logger   *zap.Logger
}

// New creates the handler set.
func New(svcs *services.Collection, builder *response.Builder, logger *zap.Logger) *Handler {
	return &Handler{services: svcs, builder: builder, logger: logger}
}

// ===============================
// REQUEST HELPERS
// ===============================

const maxBodyBytes = 1 << 20

// decode reads a JSON request body into dest.
func (h *Handler) decode(r *http.Request, dest interface{}) error {
	body := http.MaxBytesReader(nil, r.Body, maxBodyBytes)
	defer io.Copy(io.Discard, body)

	if err := json.NewDecoder(body).Decode(dest); err != nil {
		return apperrors.NewValidationError("invalid request body", err)
	}
	return nil
}

// contentRef extracts the (type, id) content identity from route params.
func contentRef(r *http.Request) (models.ContentType, string, error) {
	contentType := models.ContentType(chi.URLParam(r, "type"))
	contentID := chi.URLParam(r, "id")
	if !contentType.Valid() || contentID == "" {
		return "", "", apperrors.NewValidationError("unknown content type", nil)
	}
	return contentType, contentID, nil
}
