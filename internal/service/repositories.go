package service

import (
	"context"
	"encoding/json"

	"go-social-api/internal/model"
)

type UserRepository interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByUsername(ctx context.Context, username string) (model.User, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	SetRefreshToken(ctx context.Context, userID string, token string) error
	UpdatePassword(ctx context.Context, userID string, passwordHash string) (model.User, error)
	UpdateEmail(ctx context.Context, userID string, email string) (model.User, error)
	UpdateAvatar(ctx context.Context, userID string, avatarURL string) (model.User, error)
	AddScore(ctx context.Context, userID string, delta int64) (model.User, error)
	StoreData(ctx context.Context, userID string, data json.RawMessage) (model.User, error)
	Rank(ctx context.Context, userID string, project string) (int, error)
	Leaderboard(ctx context.Context, project string, lowRank int, highRank int) ([]model.LeaderboardEntry, error)
}

type PostRepository interface {
	Create(ctx context.Context, p model.Post) error
	FindByID(ctx context.Context, id string) (model.Post, error)
	ListByProject(ctx context.Context, project string) ([]model.Post, error)
	ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error)
	ListLikedBy(ctx context.Context, userID string) ([]model.Post, error)
	Search(ctx context.Context, project string, query string) ([]model.Post, error)
	Update(ctx context.Context, id string, upd model.PostUpdate) (model.Post, error)
	Delete(ctx context.Context, post model.Post) error
	HasLike(ctx context.Context, postID string, userID string) (bool, error)
	AddLike(ctx context.Context, postID string, userID string) error
	RemoveLike(ctx context.Context, postID string, userID string) error
}

type CommentRepository interface {
	Create(ctx context.Context, c model.Comment) error
	FindByID(ctx context.Context, id string) (model.Comment, error)
	Delete(ctx context.Context, c model.Comment) error
}
