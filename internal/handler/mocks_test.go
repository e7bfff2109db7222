package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/stretchr/testify/mock"

	"go-social-api/internal/model"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Register(ctx context.Context, req model.RegisterRequest, avatar io.Reader) (model.AuthResult, error) {
	args := m.Called(ctx, req, avatar)
	return args.Get(0).(model.AuthResult), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(model.AuthResult), args.Error(1)
}

func (m *mockAuthService) Refresh(ctx context.Context, rawRefresh string) (model.AuthResult, error) {
	args := m.Called(ctx, rawRefresh)
	return args.Get(0).(model.AuthResult), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, identity model.Identity) error {
	args := m.Called(ctx, identity)
	return args.Error(0)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, identity model.Identity, req model.ChangePasswordRequest) error {
	args := m.Called(ctx, identity, req)
	return args.Error(0)
}

type mockUserService struct {
	mock.Mock
}

func (m *mockUserService) GetUser(ctx context.Context, identity model.Identity) (model.PublicUser, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) AddScore(ctx context.Context, identity model.Identity, req model.AddScoreRequest) (model.PublicUser, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) Leaderboard(ctx context.Context, identity model.Identity, rawRange string) (model.Leaderboard, error) {
	args := m.Called(ctx, identity, rawRange)
	return args.Get(0).(model.Leaderboard), args.Error(1)
}

func (m *mockUserService) UpdateAvatar(ctx context.Context, identity model.Identity, r io.Reader) (model.PublicUser, error) {
	args := m.Called(ctx, identity, r)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) UpdateEmail(ctx context.Context, identity model.Identity, req model.UpdateEmailRequest) (model.PublicUser, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).(model.PublicUser), args.Error(1)
}

func (m *mockUserService) StoreData(ctx context.Context, identity model.Identity, req model.StoreDataRequest) (json.RawMessage, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func (m *mockUserService) GetStoredData(ctx context.Context, identity model.Identity) (json.RawMessage, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

type mockPostService struct {
	mock.Mock
}

func (m *mockPostService) Create(ctx context.Context, identity model.Identity, req model.CreatePostRequest, images []io.Reader) (model.Post, error) {
	args := m.Called(ctx, identity, req, images)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *mockPostService) ListProject(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *mockPostService) ListMine(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *mockPostService) ListLiked(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	args := m.Called(ctx, identity)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *mockPostService) Search(ctx context.Context, identity model.Identity, req model.SearchRequest) ([]model.Post, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).([]model.Post), args.Error(1)
}

func (m *mockPostService) Update(ctx context.Context, identity model.Identity, req model.UpdatePostRequest) (model.Post, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).(model.Post), args.Error(1)
}

func (m *mockPostService) Delete(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	return m.Called(ctx, identity, req).Error(0)
}

func (m *mockPostService) Like(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	return m.Called(ctx, identity, req).Error(0)
}

func (m *mockPostService) Unlike(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	return m.Called(ctx, identity, req).Error(0)
}

func (m *mockPostService) AddComment(ctx context.Context, identity model.Identity, req model.AddCommentRequest) (model.Comment, error) {
	args := m.Called(ctx, identity, req)
	return args.Get(0).(model.Comment), args.Error(1)
}

func (m *mockPostService) DeleteComment(ctx context.Context, identity model.Identity, req model.CommentRefRequest) error {
	return m.Called(ctx, identity, req).Error(0)
}
