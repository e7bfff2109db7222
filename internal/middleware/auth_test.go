package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

type stubAuthenticator struct {
	tokens map[string]model.Identity
	err    error
	seen   []string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, raw string) (model.Identity, error) {
	s.seen = append(s.seen, raw)
	if s.err != nil {
		return model.Identity{}, s.err
	}
	identity, ok := s.tokens[raw]
	if !ok {
		return model.Identity{}, apierror.Unauthenticated("invalid access token")
	}
	return identity, nil
}

func echoIdentity(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := IdentityFromContext(r.Context())
		require.True(t, ok)
		_, _ = w.Write([]byte(identity.ID))
	})
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) model.APIResponse {
	t.Helper()

	var body model.APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestRequireAuth(t *testing.T) {
	auth := &stubAuthenticator{tokens: map[string]model.Identity{
		"cookie-token": {ID: "from-cookie"},
		"header-token": {ID: "from-header"},
	}}
	handler := NewAuthMiddleware(auth).RequireAuth(echoIdentity(t))

	t.Run("cookie wins over header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/get-user", nil)
		req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: "cookie-token"})
		req.Header.Set("Authorization", "Bearer header-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "from-cookie", rec.Body.String())
	})

	t.Run("bearer header is accepted case-insensitively", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/get-user", nil)
		req.Header.Set("Authorization", "bearer header-token")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "from-header", rec.Body.String())
	})

	t.Run("missing token never reaches the authenticator", func(t *testing.T) {
		before := len(auth.seen)
		req := httptest.NewRequest(http.MethodGet, "/api/user/get-user", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Len(t, auth.seen, before)

		body := decodeEnvelope(t, rec)
		assert.Equal(t, http.StatusUnauthorized, body.StatusCode)
		assert.Equal(t, apierror.CodeUnauthenticated, body.Error.Code)
	})

	t.Run("rejected token keeps the authenticator message", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/user/get-user", nil)
		req.Header.Set("Authorization", "Bearer forged")
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, "invalid access token", decodeEnvelope(t, rec).Message)
	})
}

func TestRequireAuth_LookupFailureIsInternal(t *testing.T) {
	auth := &stubAuthenticator{err: errors.New("connection refused")}
	handler := NewAuthMiddleware(auth).RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler must not run")
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer any")
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestIdentityFromContext_Empty(t *testing.T) {
	_, ok := IdentityFromContext(context.Background())
	assert.False(t, ok)
}
