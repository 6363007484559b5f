// internal/handlers/comments.go
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"archnet/internal/services"
)

// GetThread serves the built comment forest for one content item.
func (h *Handler) GetThread(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	thread, err := h.services.Comments.GetThread(r.Context(), contentType, contentID)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, thread)
}

type commentBody struct {
	Content  string  `json:"content"`
	ParentID *string `json:"parent_id,omitempty"`
}

// CreateComment posts a comment or reply on a content item.
func (h *Handler) CreateComment(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	var body commentBody
	if err := h.decode(r, &body); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	comment, err := h.services.Comments.Create(r.Context(), services.CreateCommentInput{
		TargetType: contentType,
		TargetID:   contentID,
		Content:    body.Content,
		ParentID:   body.ParentID,
	})
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusCreated, comment)
}

// UpdateComment edits an owned comment.
func (h *Handler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	var body commentBody
	if err := h.decode(r, &body); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	comment, err := h.services.Comments.Update(r.Context(),
		contentType, contentID, chi.URLParam(r, "commentID"), body.Content)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, comment)
}

// DeleteComment removes an owned comment.
func (h *Handler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	if err := h.services.Comments.Delete(r.Context(),
		contentType, contentID, chi.URLParam(r, "commentID")); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.Success(w, r, http.StatusOK, nil)
}

type reportBody struct {
	Reason string `json:"reason"`
}

// ReportContent files a moderation report against a content item.
func (h *Handler) ReportContent(w http.ResponseWriter, r *http.Request) {
	contentType, contentID, err := contentRef(r)
	if err != nil {
		h.builder.Error(w, r, err)
		return
	}

	var body reportBody
	if err := h.decode(r, &body); err != nil {
		h.builder.Error(w, r, err)
		return
	}

	if err := h.services.Comments.Report(r.Context(), contentType, contentID, body.Reason); err != nil {
		h.builder.Error(w, r, err)
		return
	}
	h.builder.SuccessWithNotice(w, r, http.StatusCreated, nil, "Report submitted, thank you")
}
