package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strconv"
	"strings"

	"go-social-api/internal/event"
	"go-social-api/internal/model"
	"go-social-api/internal/validation"
	"go-social-api/pkg/apierror"
)

type UserService struct {
	users        UserRepository
	media        *MediaService
	bus          event.Publisher
	defaultRange int
	maxRange     int
}

func NewUserService(users UserRepository, media *MediaService, bus event.Publisher, defaultRange int, maxRange int) *UserService {
	if bus == nil {
		bus = event.Discard{}
	}
	return &UserService{
		users:        users,
		media:        media,
		bus:          bus,
		defaultRange: defaultRange,
		maxRange:     maxRange,
	}
}

func (s *UserService) GetUser(ctx context.Context, identity model.Identity) (model.PublicUser, error) {
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

func (s *UserService) AddScore(ctx context.Context, identity model.Identity, req model.AddScoreRequest) (model.PublicUser, error) {
	if err := validation.Struct(&req); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.AddScore(ctx, identity.ID, req.Score)
	if err != nil {
		return model.PublicUser{}, err
	}

	s.bus.Publish(event.New(event.TypeScoreUpdated, user.Project, user.ID, map[string]any{
		"id":       user.ID,
		"username": user.Username,
		"score":    user.Score,
	}))
	return user.Public(), nil
}

// Leaderboard returns the caller's rank and every user of the caller's
// project ranked within window places of it. An empty rawRange selects the
// default window; larger windows are capped.
func (s *UserService) Leaderboard(ctx context.Context, identity model.Identity, rawRange string) (model.Leaderboard, error) {
	window, err := s.parseRange(rawRange)
	if err != nil {
		return model.Leaderboard{}, err
	}

	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return model.Leaderboard{}, err
	}

	// Both queries are scoped to the session's project; a stale identity
	// whose project no longer matches the record finds no rank.
	rank, err := s.users.Rank(ctx, user.ID, identity.Project)
	if err != nil {
		return model.Leaderboard{}, err
	}

	entries, err := s.users.Leaderboard(ctx, identity.Project, max(rank-window, 1), rank+window)
	if err != nil {
		return model.Leaderboard{}, err
	}

	return model.Leaderboard{
		Users: entries,
		SpecificUser: model.LeaderboardUser{
			ID:       user.ID,
			Username: user.Username,
			Project:  user.Project,
			Score:    user.Score,
		},
		Rank: rank,
	}, nil
}

func (s *UserService) parseRange(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return s.defaultRange, nil
	}

	window, err := strconv.Atoi(raw)
	if err != nil || window < 0 {
		return 0, apierror.Validation("range must be a non-negative integer", raw)
	}
	return min(window, s.maxRange), nil
}

// UpdateAvatar replaces the avatar and deletes the previous object
// best-effort.
func (s *UserService) UpdateAvatar(ctx context.Context, identity model.Identity, r io.Reader) (model.PublicUser, error) {
	if r == nil {
		return model.PublicUser{}, apierror.Validation("avatar is required", "avatar")
	}

	current, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return model.PublicUser{}, err
	}

	url, err := s.media.Store(ctx, r, "avatars")
	if err != nil {
		return model.PublicUser{}, err
	}

	updated, err := s.users.UpdateAvatar(ctx, identity.ID, url)
	if err != nil {
		s.media.Remove(ctx, url)
		return model.PublicUser{}, err
	}

	if current.Avatar != "" && current.Avatar != url {
		s.media.Remove(ctx, current.Avatar)
	}
	return updated.Public(), nil
}

func (s *UserService) UpdateEmail(ctx context.Context, identity model.Identity, req model.UpdateEmailRequest) (model.PublicUser, error) {
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if err := validation.Struct(&req); err != nil {
		return model.PublicUser{}, err
	}

	user, err := s.users.UpdateEmail(ctx, identity.ID, req.Email)
	if err != nil {
		return model.PublicUser{}, err
	}
	return user.Public(), nil
}

// StoreData replaces the caller's opaque data blob. Any JSON value except
// null is accepted.
func (s *UserService) StoreData(ctx context.Context, identity model.Identity, req model.StoreDataRequest) (json.RawMessage, error) {
	data := bytes.TrimSpace(req.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, apierror.Validation("data is required", "data")
	}
	if !json.Valid(data) {
		return nil, apierror.Validation("data must be valid JSON", "data")
	}

	user, err := s.users.StoreData(ctx, identity.ID, json.RawMessage(data))
	if err != nil {
		return nil, err
	}
	return user.UserData, nil
}

func (s *UserService) GetStoredData(ctx context.Context, identity model.Identity) (json.RawMessage, error) {
	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return nil, err
	}
	return user.UserData, nil
}
