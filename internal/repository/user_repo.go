package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-social-api/internal/model"
)

const userColumns = `id, username, project, fullname, email, password_hash, refresh_token,
	score, avatar, user_data, post_ids, comment_ids, liked_post_ids, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(&u.ID, &u.Username, &u.Project, &u.Fullname, &u.Email, &u.PasswordHash, &u.RefreshToken,
		&u.Score, &u.Avatar, &u.UserData, &u.PostIDs, &u.CommentIDs, &u.LikedPostIDs, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}

func (r *UserRepository) queryUser(ctx context.Context, op string, sql string, args ...any) (model.User, error) {
	u, err := scanUser(r.pool.QueryRow(ctx, sql, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.User{}, model.ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

func (r *UserRepository) Create(ctx context.Context, u model.User) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users (id, username, project, fullname, email, password_hash, avatar, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		u.ID, u.Username, u.Project, u.Fullname, u.Email, u.PasswordHash, u.Avatar, u.CreatedAt, u.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (model.User, error) {
	return r.queryUser(ctx, "find user by id",
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (model.User, error) {
	return r.queryUser(ctx, "find user by username",
		`SELECT `+userColumns+` FROM users WHERE username = $1`, strings.ToLower(strings.TrimSpace(username)))
}

func (r *UserRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE username = $1)`,
		strings.ToLower(strings.TrimSpace(username))).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check username exists: %w", err)
	}
	return exists, nil
}

// SetRefreshToken overwrites the single refresh token slot. An empty token
// ends the session.
func (r *UserRepository) SetRefreshToken(ctx context.Context, userID string, token string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET refresh_token = $2, updated_at = now() WHERE id = $1`, userID, token)
	if err != nil {
		return fmt.Errorf("set refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID string, passwordHash string) (model.User, error) {
	return r.queryUser(ctx, "update password",
		`UPDATE users SET password_hash = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, passwordHash)
}

func (r *UserRepository) UpdateEmail(ctx context.Context, userID string, email string) (model.User, error) {
	return r.queryUser(ctx, "update email",
		`UPDATE users SET email = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, email)
}

func (r *UserRepository) UpdateAvatar(ctx context.Context, userID string, avatarURL string) (model.User, error) {
	return r.queryUser(ctx, "update avatar",
		`UPDATE users SET avatar = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, avatarURL)
}

// AddScore applies delta in a single statement so concurrent updates for the
// same user never lose increments.
func (r *UserRepository) AddScore(ctx context.Context, userID string, delta int64) (model.User, error) {
	u, err := r.queryUser(ctx, "add score",
		`UPDATE users SET score = score + $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, delta)
	if isOutOfRange(err) {
		return model.User{}, model.ErrScoreOutOfRange
	}
	return u, err
}

func (r *UserRepository) StoreData(ctx context.Context, userID string, data json.RawMessage) (model.User, error) {
	return r.queryUser(ctx, "store user data",
		`UPDATE users SET user_data = $2, updated_at = now() WHERE id = $1 RETURNING `+userColumns,
		userID, data)
}

// Rank returns 1 + the number of users in project with a strictly greater
// score than userID.
func (r *UserRepository) Rank(ctx context.Context, userID string, project string) (int, error) {
	var rank int
	err := r.pool.QueryRow(ctx,
		`SELECT 1 + (
			SELECT COUNT(*) FROM users o
			WHERE o.project = me.project AND o.score > me.score
		 )
		 FROM users me
		 WHERE me.id = $1 AND me.project = $2`, userID, project).Scan(&rank)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, model.ErrUserNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("rank user: %w", err)
	}
	return rank, nil
}

// Leaderboard returns the users of project whose competition rank lies in
// [lowRank, highRank]. Equal scores share a rank; within a rank the earlier
// account comes first.
func (r *UserRepository) Leaderboard(ctx context.Context, project string, lowRank int, highRank int) ([]model.LeaderboardEntry, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, username, score, project, rank
		 FROM (
			SELECT id, username, score, project, created_at,
			       RANK() OVER (ORDER BY score DESC) AS rank
			FROM users
			WHERE project = $1
		 ) ranked
		 WHERE rank BETWEEN $2 AND $3
		 ORDER BY score DESC, created_at ASC, id ASC`, project, lowRank, highRank)
	if err != nil {
		return nil, fmt.Errorf("query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := make([]model.LeaderboardEntry, 0)
	for rows.Next() {
		var e model.LeaderboardEntry
		if err := rows.Scan(&e.ID, &e.Username, &e.Score, &e.Project, &e.Rank); err != nil {
			return nil, fmt.Errorf("scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
