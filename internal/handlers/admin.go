// internal/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"archnet/internal/models"
)

// AdminStats serves the dashboard headline numbers.
func (h *Handler) AdminStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.services.Admin.Stats(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, stats)
}

// AdminUsers serves the user table with per-row role-change permissions.
func (h *Handler) AdminUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.services.Admin.Users(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, rows)
}

type roleBody struct {
	Role string `json:"role"`
}

// ChangeUserRole assigns a new role to a user.
func (h *Handler) ChangeUserRole(w http.ResponseWriter, r *http.Request) {
	var body roleBody
	if err := h.decode(r, &body); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	err := h.services.Admin.ChangeRole(r.Context(), chi.URLParam(r, "id"), models.Role(body.Role))
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}

// ModerateContent applies an approve/reject decision to pending content.
func (h *Handler) ModerateContent(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	decision := models.ModerationDecision(chi.URLParam(r, "decision"))

	if err := h.services.Admin.Moderate(r.Context(), contentType, contentID, decision); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}
