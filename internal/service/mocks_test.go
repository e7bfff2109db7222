package service

import (
	"context"
	"encoding/json"

	"github.com/stretchr/testify/mock"

	"go-social-api/internal/model"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	args := m.Called(ctx, username)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	return m.Called(ctx, userID, token).Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) (model.User, error) {
	args := m.Called(ctx, userID, passwordHash)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateEmail(ctx context.Context, userID string, email string) (model.User, error) {
	args := m.Called(ctx, userID, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) UpdateAvatar(ctx context.Context, userID string, avatarURL string) (model.User, error) {
	args := m.Called(ctx, userID, avatarURL)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) AddScore(ctx context.Context, userID string, delta int64) (model.User, error) {
	args := m.Called(ctx, userID, delta)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) StoreData(ctx context.Context, userID string, data json.RawMessage) (model.User, error) {
	args := m.Called(ctx, userID, data)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserRepository) Rank(ctx context.Context, userID string, project string) (int, error) {
	args := m.Called(ctx, userID, project)
	return args.Int(0), args.Error(1)
}

func (m *MockUserRepository) Leaderboard(ctx context.Context, project string, lowRank int, highRank int) ([]model.LeaderboardEntry, error) {
	args := m.Called(ctx, project, lowRank, highRank)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.LeaderboardEntry), args.Error(1)
}

type MockPostRepository struct {
	mock.Mock
}

func (m *MockPostRepository) Create(ctx context.Context, p model.Post) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostRepository) ListByProject(ctx context.Context, project string) ([]model.Post, error) {
	args := m.Called(ctx, project)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) ListLikedBy(ctx context.Context, userID string) ([]model.Post, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) Search(ctx context.Context, project string, query string) ([]model.Post, error) {
	args := m.Called(ctx, project, query)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, id string, upd model.PostUpdate) (model.Post, error) {
	args := m.Called(ctx, id, upd)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *MockPostRepository) Delete(ctx context.Context, post model.Post) error {
	return m.Called(ctx, post).Error(0)
}

func (m *MockPostRepository) HasLike(ctx context.Context, postID string, userID string) (bool, error) {
	args := m.Called(ctx, postID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPostRepository) AddLike(ctx context.Context, postID string, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}

func (m *MockPostRepository) RemoveLike(ctx context.Context, postID string, userID string) error {
	return m.Called(ctx, postID, userID).Error(0)
}

type MockCommentRepository struct {
	mock.Mock
}

func (m *MockCommentRepository) Create(ctx context.Context, c model.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCommentRepository) FindByID(ctx context.Context, id string) (model.Comment, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Comment), args.Error(1)
}

func (m *MockCommentRepository) Delete(ctx context.Context, c model.Comment) error {
	return m.Called(ctx, c).Error(0)
}
