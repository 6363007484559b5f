// internal/middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"archnet/internal/apperrors"
	"archnet/internal/config"
	"archnet/internal/contextutils"
	"archnet/internal/models"
	"archnet/internal/response"
)

// Claims is the token payload the auth provider signs.
type Claims struct {
	jwt.RegisteredClaims
	Role string `json:"role,omitempty"`
}

// Auth verifies bearer tokens and session cookies. Verification is optional
// by default: a guest request proceeds with no identity, and the mutation
// guards downstream decide what guests may do.
type Auth struct {
	config  *config.AuthConfig
	builder *response.Builder
	logger  *zap.Logger
}

// NewAuth creates auth middleware.
func NewAuth(cfg *config.AuthConfig, builder *response.Builder, logger *zap.Logger) *Auth {
	return &Auth{config: cfg, builder: builder, logger: logger}
}

// Optional attaches the user identity when a valid token is present and
// passes the request through either way. Invalid tokens are treated as
// guest, not rejected; reads are public.
func (a *Auth) Optional(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := a.extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.verify(token)
		if err != nil {
			a.logger.Debug("Ignoring invalid token", zap.Error(err))
			next.ServeHTTP(w, r)
			return
		}

		ctx := contextutils.WithUser(r.Context(), claims.Subject, models.Role(claims.Role))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// Require rejects guests with the sign-in advisory. Used for surfaces that
// have no guest rendering at all (library, activity, messages).
func (a *Auth) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !contextutils.IsAuthenticated(r.Context()) {
			a.builder.Error(w, r, apperrors.NewAuthRequiredError("access this page"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin turns non-admin visitors away from the moderation dashboard.
func (a *Auth) RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if !contextutils.IsAuthenticated(ctx) {
			a.builder.Error(w, r, apperrors.NewAuthRequiredError("access the admin dashboard"))
			return
		}
		if !contextutils.IsAdmin(ctx) {
			a.builder.Error(w, r, apperrors.NewForbiddenError("Admin access required"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Auth) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie(a.config.CookieName); err == nil {
		return cookie.Value
	}
	return ""
}

func (a *Auth) verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return []byte(a.config.JWTSecret), nil
		},
		jwt.WithIssuer(a.config.JWTIssuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.Subject == "" {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}
