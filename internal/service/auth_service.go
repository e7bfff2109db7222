package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-social-api/internal/model"
	"go-social-api/internal/token"
	"go-social-api/internal/validation"
	"go-social-api/pkg/apierror"
)

type AuthService struct {
	users      UserRepository
	tokens     *token.Issuer
	media      *MediaService
	bcryptCost int
	now        func() time.Time
}

func NewAuthService(users UserRepository, tokens *token.Issuer, media *MediaService, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		media:      media,
		bcryptCost: bcryptCost,
		now:        time.Now,
	}
}

// Register creates the account, uploads the optional avatar and opens a
// session. A failed avatar upload leaves the avatar empty.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest, avatar io.Reader) (model.AuthResult, error) {
	req.Username = normalizeUsername(req.Username)
	req.Fullname = strings.TrimSpace(req.Fullname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	req.Project = strings.ToLower(strings.TrimSpace(req.Project))

	if err := validation.Struct(&req); err != nil {
		return model.AuthResult{}, err
	}

	exists, err := s.users.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return model.AuthResult{}, err
	}
	if exists {
		return model.AuthResult{}, model.ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return model.AuthResult{}, err
	}

	avatarURL := ""
	if avatar != nil && s.media != nil {
		avatarURL = s.media.Upload(ctx, avatar, "avatars")
	}

	now := s.now().UTC()
	user := model.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		Project:      req.Project,
		Fullname:     req.Fullname,
		Email:        req.Email,
		PasswordHash: string(hash),
		Avatar:       avatarURL,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if avatarURL != "" {
			s.media.Remove(ctx, avatarURL)
		}
		return model.AuthResult{}, err
	}

	return s.openSession(ctx, user)
}

// Login verifies credentials and rotates the stored refresh token, ending
// any other session of the same user.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResult, error) {
	req.Username = normalizeUsername(req.Username)
	if err := validation.Struct(&req); err != nil {
		return model.AuthResult{}, err
	}

	user, err := s.users.FindByUsername(ctx, req.Username)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResult{}, model.ErrInvalidCredentials
	}
	if err != nil {
		return model.AuthResult{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.AuthResult{}, model.ErrInvalidCredentials
	}

	return s.openSession(ctx, user)
}

// Refresh exchanges the current refresh token for a new pair. Tokens that
// were rotated away or cleared by logout are rejected.
func (s *AuthService) Refresh(ctx context.Context, rawRefresh string) (model.AuthResult, error) {
	rawRefresh = strings.TrimSpace(rawRefresh)
	if rawRefresh == "" {
		return model.AuthResult{}, apierror.Unauthenticated("refresh token is required")
	}

	claims, err := s.tokens.VerifyRefresh(rawRefresh)
	if err != nil {
		return model.AuthResult{}, apierror.Unauthenticated(tokenFailureMessage(err, "refresh"))
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.AuthResult{}, model.ErrUnauthenticated
	}
	if err != nil {
		return model.AuthResult{}, err
	}

	if user.RefreshToken == "" || subtle.ConstantTimeCompare([]byte(user.RefreshToken), []byte(rawRefresh)) != 1 {
		return model.AuthResult{}, model.ErrRefreshTokenMismatch
	}

	return s.openSession(ctx, user)
}

func (s *AuthService) Logout(ctx context.Context, identity model.Identity) error {
	return s.users.SetRefreshToken(ctx, identity.ID, "")
}

// Authenticate resolves an access token to the identity of an existing user.
// It never writes.
func (s *AuthService) Authenticate(ctx context.Context, rawAccess string) (model.Identity, error) {
	claims, err := s.tokens.VerifyAccess(rawAccess)
	if err != nil {
		return model.Identity{}, apierror.Unauthenticated(tokenFailureMessage(err, "access"))
	}

	user, err := s.users.FindByID(ctx, claims.UserID)
	if errors.Is(err, model.ErrUserNotFound) {
		return model.Identity{}, apierror.Unauthenticated("user no longer exists")
	}
	if err != nil {
		return model.Identity{}, err
	}

	return user.Identity(), nil
}

func (s *AuthService) ChangePassword(ctx context.Context, identity model.Identity, req model.ChangePasswordRequest) error {
	if err := validation.Struct(&req); err != nil {
		return err
	}

	user, err := s.users.FindByID(ctx, identity.ID)
	if err != nil {
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return apierror.Validation("oldPassword is incorrect", "oldPassword")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), s.bcryptCost)
	if err != nil {
		return err
	}

	_, err = s.users.UpdatePassword(ctx, identity.ID, string(hash))
	return err
}

func (s *AuthService) openSession(ctx context.Context, user model.User) (model.AuthResult, error) {
	pair, err := s.tokens.Pair(user.Identity())
	if err != nil {
		return model.AuthResult{}, err
	}

	if err := s.users.SetRefreshToken(ctx, user.ID, pair.RefreshToken); err != nil {
		return model.AuthResult{}, err
	}

	return model.AuthResult{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, nil
}

func tokenFailureMessage(err error, kind string) string {
	switch {
	case errors.Is(err, token.ErrExpired):
		return kind + " token expired"
	case errors.Is(err, token.ErrInvalidSignature):
		return kind + " token signature is invalid"
	default:
		return "invalid " + kind + " token"
	}
}

func normalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
