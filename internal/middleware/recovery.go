// internal/middleware/recovery.go
package middleware

import (
	"net/http"
	"runtime/debug"

	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/contextutils"
	"archnet/internal/response"
)

// Recovery converts panics into 500 responses instead of dropped connections.
func Recovery(builder *response.Builder, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error("Panic recovered",
						zap.Any("panic", rec),
						zap.String("path", r.URL.Path),
						zap.String("request_id", contextutils.RequestID(r.Context())),
						zap.ByteString("stack", debug.Stack()),
					)
					builder.Error(w, r, apperrors.NewInternalError("An unexpected error occurred"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
