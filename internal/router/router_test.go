package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-social-api/internal/config"
	"go-social-api/internal/handler"
	"go-social-api/internal/middleware"
	"go-social-api/internal/model"
	"go-social-api/pkg/apierror"
)

type rejectAll struct{}

func (rejectAll) Authenticate(context.Context, string) (model.Identity, error) {
	return model.Identity{}, apierror.Unauthenticated("invalid access token")
}

type healthy struct{}

func (healthy) Health(context.Context) error { return nil }

func newTestRouter(t *testing.T, staticDir string) http.Handler {
	t.Helper()

	cfg := &config.Config{
		CORSOrigins:      []string{"http://localhost:5173"},
		RateLimitRPM:     0,
		AuthRateLimitRPM: 100,
		RequestTimeout:   5 * time.Second,
		MaxBodySize:      1024,
		MaxUploadSize:    1 << 20,
		StaticDir:        staticDir,
	}

	return New(cfg, middleware.NewAuthMiddleware(rejectAll{}), Handlers{
		Auth:   handler.NewAuthHandler(nil, handler.CookieConfig{}),
		User:   handler.NewUserHandler(nil),
		Post:   handler.NewPostHandler(nil),
		Feed:   handler.NewFeedHandler(nil, cfg.CORSOrigins),
		Health: handler.NewHealthHandler(healthy{}),
	})
}

func TestRouter_ProtectedRoutesRequireSession(t *testing.T) {
	r := newTestRouter(t, "")

	routes := []struct{ method, path string }{
		{http.MethodGet, "/api/user/get-user"},
		{http.MethodGet, "/api/user/logout"},
		{http.MethodGet, "/api/user/leaderboard"},
		{http.MethodPatch, "/api/user/store-data"},
		{http.MethodPost, "/api/posts/create"},
		{http.MethodGet, "/api/posts/get-posts"},
		{http.MethodDelete, "/api/posts/delete"},
		{http.MethodPost, "/api/posts/like"},
		{http.MethodDelete, "/api/posts/comments"},
		{http.MethodGet, "/api/feed/ws"},
	}

	for _, route := range routes {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(route.method, route.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestRouter_HealthAndHeaders(t *testing.T) {
	r := newTestRouter(t, "")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRouter_CORSPreflightAllowsCredentials(t *testing.T) {
	r := newTestRouter(t, "")

	req := httptest.NewRequest(http.MethodOptions, "/api/user/update-email", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPatch)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestRouter_ServesStaticFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<h1>hi</h1>"), 0o644))
	r := newTestRouter(t, dir)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/index.html", nil))
	// FileServer redirects /index.html to /
	assert.Equal(t, http.StatusMovedPermanently, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "hi")
}
