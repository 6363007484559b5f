// internal/handlers/content.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"archnet/internal/apperrors"
)

// Feed serves the home page post stream.
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	posts, err := h.services.Content.Feed(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, posts)
}

// ListBooks serves the books listing.
func (h *Handler) ListBooks(w http.ResponseWriter, r *http.Request) {
	books, err := h.services.Content.ListBooks(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, books)
}

// GetBook serves one book's detail view. A missing id renders the dedicated
// not-found payload with a link back to the listing.
func (h *Handler) GetBook(w http.ResponseWriter, r *http.Request) {
	book, err := h.services.Content.GetBook(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.builder.NotFound(w, r, "Book not found", "/books")
			return
		}
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, book)
}

// ListCompetitions serves the competitions listing.
func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	competitions, err := h.services.Content.ListCompetitions(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, competitions)
}

// GetCompetition serves one competition's detail view.
func (h *Handler) GetCompetition(w http.ResponseWriter, r *http.Request) {
	competition, err := h.services.Content.GetCompetition(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.builder.NotFound(w, r, "Competition not found", "/competitions")
			return
		}
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, competition)
}

// ListResearch serves the research listing.
func (h *Handler) ListResearch(w http.ResponseWriter, r *http.Request) {
	research, err := h.services.Content.ListResearch(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, research)
}

// GetResearch serves one research item's detail view.
func (h *Handler) GetResearch(w http.ResponseWriter, r *http.Request) {
	research, err := h.services.Content.GetResearch(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.builder.NotFound(w, r, "Research not found", "/research")
			return
		}
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, research)
}

// ListJobs serves the jobs listing.
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	jobs, err := h.services.Content.ListJobs(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, jobs)
}

// GetProfile serves a public user profile.
func (h *Handler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, err := h.services.Content.GetUser(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if apperrors.IsNotFound(err) {
			h.builder.NotFound(w, r, "User not found", "/")
			return
		}
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, user)
}
