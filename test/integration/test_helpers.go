//go:build integration

package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"go-social-api/internal/config"
	"go-social-api/internal/database"
	"go-social-api/internal/event"
	"go-social-api/internal/handler"
	"go-social-api/internal/middleware"
	"go-social-api/internal/repository"
	"go-social-api/internal/router"
	"go-social-api/internal/service"
	"go-social-api/internal/storage"
	"go-social-api/internal/token"
	"go-social-api/internal/websocket"
)

type session struct {
	UserID       string
	AccessToken  string
	RefreshToken string
}

type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Error      *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newServer(t *testing.T) *httptest.Server {
	t.Helper()

	url := os.Getenv("TEST_DATABASE_URL")
	if url == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := database.New(ctx, url, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	require.NoError(t, db.EnsureSchema(ctx))
	_, err = db.Pool.Exec(ctx, "TRUNCATE comments, post_likes, posts, users CASCADE")
	require.NoError(t, err)

	issuer, err := token.NewIssuer("access-secret", "refresh-secret", 15*time.Minute, time.Hour)
	require.NoError(t, err)
	staging, err := storage.NewStaging(t.TempDir())
	require.NoError(t, err)

	bus := event.NewBus()
	hub := websocket.NewHub(bus)
	hubCtx, cancel := context.WithCancel(ctx)
	t.Cleanup(cancel)
	go hub.Run(hubCtx)

	media := service.NewMediaService(storage.Disabled{}, staging, "test", 256)
	users := repository.NewUserRepository(db.Pool)
	authService := service.NewAuthService(users, issuer, media, 4)
	userService := service.NewUserService(users, media, bus, 5, 50)
	postService := service.NewPostService(repository.NewPostRepository(db.Pool), repository.NewCommentRepository(db.Pool), media, bus, 3)

	cfg := &config.Config{
		CORSOrigins:      []string{"http://localhost:5173"},
		RateLimitRPM:     0,
		AuthRateLimitRPM: 1000,
		RequestTimeout:   10 * time.Second,
		MaxBodySize:      32 * 1024,
		MaxUploadSize:    1 << 20,
	}

	server := httptest.NewServer(router.New(cfg, middleware.NewAuthMiddleware(authService), router.Handlers{
		Auth:   handler.NewAuthHandler(authService, handler.CookieConfig{Secure: true, SameSite: "none"}),
		User:   handler.NewUserHandler(userService),
		Post:   handler.NewPostHandler(postService),
		Feed:   handler.NewFeedHandler(hub, cfg.CORSOrigins),
		Health: handler.NewHealthHandler(db),
	}))
	t.Cleanup(server.Close)
	return server
}

func register(t *testing.T, server *httptest.Server, username string, project string) session {
	t.Helper()

	resp := doJSON(t, http.MethodPost, server.URL+"/api/user/register", map[string]string{
		"username": username, "fullname": username, "password": "secret1", "project": project,
	}, "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var data struct {
		User struct {
			ID string `json:"id"`
		} `json:"user"`
		AccessToken  string `json:"accessToken"`
		RefreshToken string `json:"refreshToken"`
	}
	decodeData(t, resp, &data)
	return session{UserID: data.User.ID, AccessToken: data.AccessToken, RefreshToken: data.RefreshToken}
}

func doJSON(t *testing.T, method string, url string, body any, accessToken string) *http.Response {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	req, err := http.NewRequest(method, url, &payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readEnvelope(t *testing.T, resp *http.Response) envelope {
	t.Helper()

	var parsed envelope
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&parsed))
	return parsed
}

func decodeData(t *testing.T, resp *http.Response, dst any) {
	t.Helper()

	parsed := readEnvelope(t, resp)
	require.True(t, parsed.Success, parsed.Message)
	require.NoError(t, json.Unmarshal(parsed.Data, dst))
}
