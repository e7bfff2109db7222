package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-social-api/internal/model"
)

type CommentRepository struct {
	pool *pgxpool.Pool
}

func NewCommentRepository(pool *pgxpool.Pool) *CommentRepository {
	return &CommentRepository{pool: pool}
}

func (r *CommentRepository) Create(ctx context.Context, c model.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO comments (id, post_id, user_id, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
			c.ID, c.PostID, c.UserID, c.Text, c.CreatedAt)
		if err != nil {
			return fmt.Errorf("insert comment: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET comment_ids = array_append(comment_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			c.UserID, c.ID)
		if err != nil {
			return fmt.Errorf("link comment to user: %w", err)
		}
		return nil
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id string) (model.Comment, error) {
	var c model.Comment
	err := r.pool.QueryRow(ctx,
		`SELECT id, post_id, user_id, text, created_at FROM comments WHERE id = $1`, id).
		Scan(&c.ID, &c.PostID, &c.UserID, &c.Text, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Comment{}, model.ErrCommentNotFound
	}
	if err != nil {
		return model.Comment{}, fmt.Errorf("find comment: %w", err)
	}
	return c, nil
}

func (r *CommentRepository) Delete(ctx context.Context, c model.Comment) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM comments WHERE id = $1`, c.ID)
		if err != nil {
			return fmt.Errorf("delete comment: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrCommentNotFound
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET comment_ids = array_remove(comment_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			c.UserID, c.ID)
		if err != nil {
			return fmt.Errorf("unlink comment from user: %w", err)
		}
		return nil
	})
}
