package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-social-api/internal/event"
	"go-social-api/internal/model"
	"go-social-api/internal/storage"
	"go-social-api/pkg/apierror"
)

func seedScores(t *testing.T, users *memoryUsers, project string, scores map[string]int64, order []string) map[string]model.User {
	t.Helper()

	seeded := map[string]model.User{}
	base := time.Now()
	for i, name := range order {
		u := model.User{ID: name + "-id", Username: name, Project: project, Score: scores[name], CreatedAt: base.Add(time.Duration(i) * time.Second)}
		require.NoError(t, users.Create(context.Background(), u))
		seeded[name] = u
	}
	return seeded
}

func TestUserService_Leaderboard(t *testing.T) {
	users := newMemoryUsers()
	seeded := seedScores(t, users, "p1", map[string]int64{"a": 50, "b": 30, "c": 30, "d": 10}, []string{"a", "b", "c", "d"})
	seedScores(t, users, "p2", map[string]int64{"z": 999}, []string{"z"})
	svc := NewUserService(users, nil, nil, 5, 50)

	t.Run("ties share a rank and the next rank is skipped", func(t *testing.T) {
		board, err := svc.Leaderboard(context.Background(), seeded["c"].Identity(), "")
		require.NoError(t, err)
		assert.Equal(t, 2, board.Rank)
		assert.Equal(t, "c", board.SpecificUser.Username)

		ranks := map[string]int{}
		for _, e := range board.Users {
			ranks[e.Username] = e.Rank
			assert.Equal(t, "p1", e.Project)
		}
		assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 2, "d": 4}, ranks)
	})

	t.Run("window is bounded by range", func(t *testing.T) {
		board, err := svc.Leaderboard(context.Background(), seeded["d"].Identity(), "1")
		require.NoError(t, err)
		assert.Equal(t, 4, board.Rank)
		require.Len(t, board.Users, 1)
		assert.Equal(t, "d", board.Users[0].Username)
	})

	t.Run("invalid range", func(t *testing.T) {
		_, err := svc.Leaderboard(context.Background(), seeded["a"].Identity(), "-3")
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, apierror.CodeValidation, apiErr.Code)
	})

	t.Run("queries are scoped to the identity's project", func(t *testing.T) {
		identity := seeded["a"].Identity()
		identity.Project = "p2"
		_, err := svc.Leaderboard(context.Background(), identity, "")
		assert.ErrorIs(t, err, model.ErrUserNotFound)
	})
}

func TestUserService_ParseRangeCapsAtMax(t *testing.T) {
	svc := NewUserService(nil, nil, nil, 5, 50)

	window, err := svc.parseRange("500")
	require.NoError(t, err)
	assert.Equal(t, 50, window)

	window, err = svc.parseRange("0")
	require.NoError(t, err)
	assert.Equal(t, 0, window)
}

func TestUserService_AddScorePublishes(t *testing.T) {
	users := newMemoryUsers()
	seeded := seedScores(t, users, "p1", map[string]int64{"a": 5}, []string{"a"})
	bus := event.NewBus()
	events, unsubscribe := bus.Subscribe()
	defer unsubscribe()
	svc := NewUserService(users, nil, bus, 5, 50)

	updated, err := svc.AddScore(context.Background(), seeded["a"].Identity(), model.AddScoreRequest{Score: -2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), updated.Score)

	e := <-events
	assert.Equal(t, event.TypeScoreUpdated, e.Type)
	assert.Equal(t, "p1", e.Project)
}

func TestUserService_StoreData(t *testing.T) {
	users := newMemoryUsers()
	seeded := seedScores(t, users, "p1", map[string]int64{"a": 0}, []string{"a"})
	svc := NewUserService(users, nil, nil, 5, 50)
	ctx := context.Background()
	identity := seeded["a"].Identity()

	for _, raw := range []string{"", "null", "  null "} {
		_, err := svc.StoreData(ctx, identity, model.StoreDataRequest{Data: json.RawMessage(raw)})
		var apiErr *apierror.APIError
		require.True(t, errors.As(err, &apiErr), "input %q", raw)
		assert.Equal(t, apierror.CodeValidation, apiErr.Code)
	}

	stored, err := svc.StoreData(ctx, identity, model.StoreDataRequest{Data: json.RawMessage(`{"level":3}`)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":3}`, string(stored))

	fetched, err := svc.GetStoredData(ctx, identity)
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":3}`, string(fetched))
}

func TestUserService_UpdateAvatarRemovesPrevious(t *testing.T) {
	users := newMemoryUsers()
	require.NoError(t, users.Create(context.Background(), model.User{
		ID: "u1", Username: "alice", Project: "p1", Avatar: "https://cdn.example.com/old.jpg",
	}))

	store := new(storage.MockObjectStore)
	media, _ := newTestMedia(t, store, 32)
	store.On("Put", mock.Anything, mock.Anything, "image/jpeg", mock.Anything).Return("https://cdn.example.com/new.jpg", nil)
	store.On("Delete", mock.Anything, "https://cdn.example.com/old.jpg").Return(nil)

	svc := NewUserService(users, media, nil, 5, 50)
	updated, err := svc.UpdateAvatar(context.Background(), model.Identity{ID: "u1", Project: "p1"}, bytes.NewReader(pngBytes(t, 8, 8)))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/new.jpg", updated.Avatar)
	store.AssertExpectations(t)
}

func TestUserService_UpdateEmailValidates(t *testing.T) {
	users := new(MockUserRepository)
	svc := NewUserService(users, nil, nil, 5, 50)

	_, err := svc.UpdateEmail(context.Background(), model.Identity{ID: "u1"}, model.UpdateEmailRequest{Email: "not-an-email"})
	var apiErr *apierror.APIError
	require.True(t, errors.As(err, &apiErr))
	users.AssertNotCalled(t, "UpdateEmail", mock.Anything, mock.Anything, mock.Anything)

	users.On("UpdateEmail", mock.Anything, "u1", "a@example.com").Return(model.User{ID: "u1", Email: "a@example.com"}, nil)
	updated, err := svc.UpdateEmail(context.Background(), model.Identity{ID: "u1"}, model.UpdateEmailRequest{Email: " a@example.com "})
	require.NoError(t, err)
	assert.Equal(t, "a@example.com", updated.Email)
}
