// internal/response/response.go
package response

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
)

// ===============================
// RESPONSE TYPES
// ===============================

// APIResponse represents a standardized API response
type APIResponse struct {
	Success   bool         `json:"success"`
	Data      interface{}  `json:"data,omitempty"`
	Error     *ErrorDetail `json:"error,omitempty"`
	Notice    *Notice      `json:"notice,omitempty"`
	RequestID string       `json:"request_id,omitempty"`
	Timestamp int64        `json:"timestamp,omitempty"`
}

// ErrorDetail represents error information in API responses
type ErrorDetail struct {
	Type    string                 `json:"type"`
	Message string                 `json:"message"`
	Code    string                 `json:"code,omitempty"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Notice is a transient, non-blocking user-facing message. Failed mutations
// and guest-gated actions surface exactly one of these; the page itself stays
// interactive.
type Notice struct {
	Level   string `json:"level"` // "info", "warning", "destructive"
	Message string `json:"message"`
}

// ===============================
// RESPONSE BUILDER
// ===============================

// Builder writes standardized responses.
type Builder struct {
	logger *zap.Logger
}

// NewBuilder creates a response builder.
func NewBuilder(logger *zap.Logger) *Builder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Builder{logger: logger}
}

// Success writes a successful response with data.
func (b *Builder) Success(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	b.write(w, r, status, &APIResponse{Success: true, Data: data})
}

// SuccessWithNotice writes a successful response carrying an advisory notice.
func (b *Builder) SuccessWithNotice(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	b.write(w, r, status, &APIResponse{
		Success: true,
		Data:    data,
		Notice:  &Notice{Level: "info", Message: message},
	})
}

// Error maps a service error onto the wire. Guest-gate errors become advisory
// notices; mutation failures become destructive notices; everything else is a
// plain error payload.
func (b *Builder) Error(w http.ResponseWriter, r *http.Request, err error) {
	se := apperrors.AsServiceError(err)

	resp := &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    se.Type,
			Message: se.Message,
			Code:    se.Code,
			Details: se.Details,
		},
	}
	switch se.Type {
	case "AUTH_REQUIRED":
		resp.Notice = &Notice{Level: "info", Message: se.Message}
	case "MUTATION_FAILED":
		resp.Notice = &Notice{Level: "destructive", Message: se.Message}
	}

	if se.StatusCode >= 500 {
		b.logger.Error("Request failed",
			zap.String("path", r.URL.Path),
			zap.String("error_type", se.Type),
			zap.Error(se))
		// Internals are masked on the wire.
		resp.Error.Message = "An unexpected error occurred"
	}

	b.write(w, r, se.GetStatusCode(), resp)
}

// NotFound writes the dedicated not-found payload detail pages render with a
// link back to their listing.
func (b *Builder) NotFound(w http.ResponseWriter, r *http.Request, message, backLink string) {
	b.write(w, r, http.StatusNotFound, &APIResponse{
		Success: false,
		Error: &ErrorDetail{
			Type:    "NOT_FOUND",
			Message: message,
			Details: map[string]interface{}{"back_link": backLink},
		},
	})
}

func (b *Builder) write(w http.ResponseWriter, r *http.Request, status int, resp *APIResponse) {
	resp.RequestID = contextutils.RequestID(r.Context())
	resp.Timestamp = time.Now().Unix()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		b.logger.Error("Failed to encode response", zap.Error(err))
	}
}
