// internal/handlers/interactions.go
package handlers

import "net/http"

// GetInteractions serves the per-content interaction summary every card and
// detail view renders.
func (h *Handler) GetInteractions(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	summary, err := h.services.Interactions.GetSummary(r.Context(), contentType, contentID)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, summary)
}

// ToggleLike flips the viewer's like on a content item.
func (h *Handler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	if err := h.services.Interactions.ToggleLike(r.Context(), contentType, contentID); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	// No state is returned; the fresh summary comes from the invalidated
	// cache on the next read.
	h.builder.Success(w, r, http.StatusOK, nil)
}

// ToggleSave flips the viewer's saved-state on a content item.
func (h *Handler) ToggleSave(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	if err := h.services.Interactions.ToggleSave(r.Context(), contentType, contentID); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}
