// internal/handlers/library.go
package handlers

import (
	"net/http"

	"archnet/internal/contextutils"
	"archnet/internal/utils"
)

// Library serves the viewer's saved items with their "saved N ago" labels.
func (h *Handler) Library(w http.ResponseWriter, r *http.Request) {
	saved, err := h.services.Interactions.ListSaved(r.Context())
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	type savedView struct {
		ID         string `json:"id"`
		TargetType string `json:"target_type"`
		TargetID   string `json:"target_id"`
		SavedAgo   string `json:"saved_ago"`
	}
	views := make([]savedView, 0, len(saved))
	for _, item := range saved {
		views = append(views, savedView{
			ID:         item.ID,
			TargetType: string(item.TargetType),
			TargetID:   item.TargetID,
			SavedAgo:   utils.TimeAgo(item.CreatedAt),
		})
	}
	h.builder.Success(w, r, http.StatusOK, views)
}

// Activity serves the viewer's own like list for the activity page.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	userID, _ := contextutils.UserID(r.Context())
	likes, err := h.services.Interactions.ListUserLikes(r.Context(), userID)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, likes)
}
