package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

// AccessTokenCookie is checked before the Authorization header.
const AccessTokenCookie = "accessToken"

type authenticator interface {
	Authenticate(ctx context.Context, rawAccess string) (model.Identity, error)
}

type contextKey string

const identityContextKey contextKey = "identity"

type AuthMiddleware struct {
	auth authenticator
}

func NewAuthMiddleware(auth authenticator) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth resolves the caller's access token to a live user and stores the
// identity on the request context. It never writes to persistence.
func (m *AuthMiddleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := tokenFromRequest(r)
		if raw == "" {
			writeJSONError(w, http.StatusUnauthorized, apierror.CodeUnauthenticated, "unauthorized request")
			return
		}

		identity, err := m.auth.Authenticate(r.Context(), raw)
		if err != nil {
			var apiErr *apierror.APIError
			if errors.As(err, &apiErr) {
				writeJSONError(w, apiErr.HTTPStatus, apiErr.Code, apiErr.Message)
				return
			}
			slog.Error("session lookup failed", "error", err)
			writeJSONError(w, http.StatusInternalServerError, apierror.CodeInternal, "Internal Server Error")
			return
		}

		annotateUser(r.Context(), identity.ID)
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), identity)))
	})
}

func tokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil {
		if v := strings.TrimSpace(cookie.Value); v != "" {
			return v
		}
	}

	header := strings.TrimSpace(r.Header.Get("Authorization"))
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}

	return ""
}

func WithIdentity(ctx context.Context, identity model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (model.Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(model.Identity)
	return identity, ok
}
