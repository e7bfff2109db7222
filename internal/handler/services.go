package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	"go-social-api/internal/middleware"
	"go-social-api/internal/model"
)

type authService interface {
	Register(ctx context.Context, req model.RegisterRequest, avatar io.Reader) (model.AuthResult, error)
	Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error)
	Refresh(ctx context.Context, rawRefresh string) (model.AuthResult, error)
	Logout(ctx context.Context, identity model.Identity) error
	ChangePassword(ctx context.Context, identity model.Identity, req model.ChangePasswordRequest) error
}

type userService interface {
	GetUser(ctx context.Context, identity model.Identity) (model.PublicUser, error)
	AddScore(ctx context.Context, identity model.Identity, req model.AddScoreRequest) (model.PublicUser, error)
	Leaderboard(ctx context.Context, identity model.Identity, rawRange string) (model.Leaderboard, error)
	UpdateAvatar(ctx context.Context, identity model.Identity, r io.Reader) (model.PublicUser, error)
	UpdateEmail(ctx context.Context, identity model.Identity, req model.UpdateEmailRequest) (model.PublicUser, error)
	StoreData(ctx context.Context, identity model.Identity, req model.StoreDataRequest) (json.RawMessage, error)
	GetStoredData(ctx context.Context, identity model.Identity) (json.RawMessage, error)
}

type postService interface {
	Create(ctx context.Context, identity model.Identity, req model.CreatePostRequest, images []io.Reader) (model.Post, error)
	ListProject(ctx context.Context, identity model.Identity) ([]model.Post, error)
	ListMine(ctx context.Context, identity model.Identity) ([]model.Post, error)
	ListLiked(ctx context.Context, identity model.Identity) ([]model.Post, error)
	Search(ctx context.Context, identity model.Identity, req model.SearchRequest) ([]model.Post, error)
	Update(ctx context.Context, identity model.Identity, req model.UpdatePostRequest) (model.Post, error)
	Delete(ctx context.Context, identity model.Identity, req model.PostRefRequest) error
	Like(ctx context.Context, identity model.Identity, req model.PostRefRequest) error
	Unlike(ctx context.Context, identity model.Identity, req model.PostRefRequest) error
	AddComment(ctx context.Context, identity model.Identity, req model.AddCommentRequest) (model.Comment, error)
	DeleteComment(ctx context.Context, identity model.Identity, req model.CommentRefRequest) error
}

// requireIdentity reads the identity attached by the session middleware.
func requireIdentity(w http.ResponseWriter, r *http.Request) (model.Identity, bool) {
	identity, ok := middleware.IdentityFromContext(r.Context())
	if !ok {
		writeError(w, model.ErrUnauthenticated)
		return model.Identity{}, false
	}
	return identity, true
}
