package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"go-social-api/internal/model"
)

const postColumns = `p.id, p.title, p.content, p.images, p.owner_id, p.project, p.views, p.created_at, p.updated_at, u.username`

type PostRepository struct {
	pool *pgxpool.Pool
}

func NewPostRepository(pool *pgxpool.Pool) *PostRepository {
	return &PostRepository{pool: pool}
}

func scanPost(row pgx.Row) (model.Post, error) {
	var p model.Post
	var owner model.Author
	err := row.Scan(&p.ID, &p.Title, &p.Content, &p.Images, &p.OwnerID, &p.Project, &p.Views,
		&p.CreatedAt, &p.UpdatedAt, &owner.Username)
	if err != nil {
		return model.Post{}, err
	}
	owner.ID = p.OwnerID
	p.Owner = &owner
	if p.Images == nil {
		p.Images = []string{}
	}
	p.Comments = []model.PostComment{}
	p.Likes = []model.Author{}
	return p, nil
}

// Create inserts the post and records its id on the owner in one transaction.
func (r *PostRepository) Create(ctx context.Context, p model.Post) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`INSERT INTO posts (id, title, content, images, owner_id, project, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			p.ID, p.Title, p.Content, p.Images, p.OwnerID, p.Project, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert post: %w", err)
		}

		tag, err := tx.Exec(ctx,
			`UPDATE users SET post_ids = array_append(post_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			p.OwnerID, p.ID)
		if err != nil {
			return fmt.Errorf("link post to owner: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrUserNotFound
		}
		return nil
	})
}

func (r *PostRepository) FindByID(ctx context.Context, id string) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`SELECT `+postColumns+` FROM posts p JOIN users u ON u.id = p.owner_id WHERE p.id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("find post: %w", err)
	}

	posts := []model.Post{p}
	if err := hydrate(ctx, r.pool, posts); err != nil {
		return model.Post{}, err
	}
	return posts[0], nil
}

// ListByProject returns every post of project, newest first, counting the
// listing as one view of each returned post.
func (r *PostRepository) ListByProject(ctx context.Context, project string) ([]model.Post, error) {
	return r.list(ctx, "list project posts",
		`WITH viewed AS (
			UPDATE posts SET views = views + 1 WHERE project = $1 RETURNING *
		 )
		 SELECT `+postColumns+`
		 FROM viewed p JOIN users u ON u.id = p.owner_id
		 ORDER BY p.created_at DESC, p.id`, project)
}

func (r *PostRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Post, error) {
	return r.list(ctx, "list owner posts",
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.owner_id
		 WHERE p.owner_id = $1
		 ORDER BY p.created_at DESC, p.id`, ownerID)
}

func (r *PostRepository) ListLikedBy(ctx context.Context, userID string) ([]model.Post, error) {
	return r.list(ctx, "list liked posts",
		`SELECT `+postColumns+`
		 FROM post_likes l
		 JOIN posts p ON p.id = l.post_id
		 JOIN users u ON u.id = p.owner_id
		 WHERE l.user_id = $1
		 ORDER BY l.created_at DESC, p.id`, userID)
}

// Search matches query as a case-insensitive substring of the title.
func (r *PostRepository) Search(ctx context.Context, project string, query string) ([]model.Post, error) {
	return r.list(ctx, "search posts",
		`SELECT `+postColumns+`
		 FROM posts p JOIN users u ON u.id = p.owner_id
		 WHERE p.project = $1 AND p.title ILIKE $2 ESCAPE '\'
		 ORDER BY p.created_at DESC, p.id`, project, likePattern(query))
}

func (r *PostRepository) Update(ctx context.Context, id string, upd model.PostUpdate) (model.Post, error) {
	p, err := scanPost(r.pool.QueryRow(ctx,
		`WITH updated AS (
			UPDATE posts
			SET title = COALESCE($2, title), content = COALESCE($3, content), updated_at = now()
			WHERE id = $1
			RETURNING *
		 )
		 SELECT `+postColumns+` FROM updated p JOIN users u ON u.id = p.owner_id`,
		id, upd.Title, upd.Content))
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Post{}, model.ErrPostNotFound
	}
	if err != nil {
		return model.Post{}, fmt.Errorf("update post: %w", err)
	}

	posts := []model.Post{p}
	if err := hydrate(ctx, r.pool, posts); err != nil {
		return model.Post{}, err
	}
	return posts[0], nil
}

// Delete removes the post with its likes and comments, and scrubs every
// denormalized reference held on users, atomically.
func (r *PostRepository) Delete(ctx context.Context, post model.Post) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx,
			`UPDATE users u
			 SET comment_ids = ARRAY(
				SELECT c FROM unnest(u.comment_ids) AS c
				WHERE c NOT IN (SELECT id FROM comments WHERE post_id = $1)
			 ), updated_at = now()
			 WHERE u.id IN (SELECT user_id FROM comments WHERE post_id = $1)`, post.ID)
		if err != nil {
			return fmt.Errorf("unlink post comments: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET liked_post_ids = array_remove(liked_post_ids, $1::uuid), updated_at = now()
			 WHERE id IN (SELECT user_id FROM post_likes WHERE post_id = $1)`, post.ID)
		if err != nil {
			return fmt.Errorf("unlink post likes: %w", err)
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET post_ids = array_remove(post_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			post.OwnerID, post.ID)
		if err != nil {
			return fmt.Errorf("unlink post from owner: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM posts WHERE id = $1`, post.ID)
		if err != nil {
			return fmt.Errorf("delete post: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrPostNotFound
		}
		return nil
	})
}

func (r *PostRepository) HasLike(ctx context.Context, postID string, userID string) (bool, error) {
	var liked bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = $1 AND user_id = $2)`,
		postID, userID).Scan(&liked)
	if err != nil {
		return false, fmt.Errorf("check like: %w", err)
	}
	return liked, nil
}

// AddLike records the like and mirrors it on the user. The primary key on
// post_likes makes a concurrent double like fail with ErrAlreadyLiked.
func (r *PostRepository) AddLike(ctx context.Context, postID string, userID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`INSERT INTO post_likes (post_id, user_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			postID, userID)
		if err != nil {
			return fmt.Errorf("insert like: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrAlreadyLiked
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET liked_post_ids = array_append(liked_post_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			userID, postID)
		if err != nil {
			return fmt.Errorf("link like to user: %w", err)
		}
		return nil
	})
}

func (r *PostRepository) RemoveLike(ctx context.Context, postID string, userID string) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`DELETE FROM post_likes WHERE post_id = $1 AND user_id = $2`, postID, userID)
		if err != nil {
			return fmt.Errorf("delete like: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrNotLiked
		}

		_, err = tx.Exec(ctx,
			`UPDATE users SET liked_post_ids = array_remove(liked_post_ids, $2::uuid), updated_at = now() WHERE id = $1`,
			userID, postID)
		if err != nil {
			return fmt.Errorf("unlink like from user: %w", err)
		}
		return nil
	})
}

func (r *PostRepository) list(ctx context.Context, op string, sql string, args ...any) ([]model.Post, error) {
	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	posts := make([]model.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("%s: scan: %w", op, err)
		}
		posts = append(posts, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := hydrate(ctx, r.pool, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// hydrate fills likes and comments, each with author usernames, for posts.
func hydrate(ctx context.Context, q querier, posts []model.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]string, len(posts))
	index := make(map[string]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
		index[p.ID] = i
	}

	likeRows, err := q.Query(ctx,
		`SELECT l.post_id, u.id, u.username
		 FROM post_likes l JOIN users u ON u.id = l.user_id
		 WHERE l.post_id = ANY($1::uuid[])
		 ORDER BY l.created_at, u.id`, ids)
	if err != nil {
		return fmt.Errorf("load likes: %w", err)
	}
	for likeRows.Next() {
		var postID string
		var a model.Author
		if err := likeRows.Scan(&postID, &a.ID, &a.Username); err != nil {
			likeRows.Close()
			return fmt.Errorf("scan like: %w", err)
		}
		i := index[postID]
		posts[i].Likes = append(posts[i].Likes, a)
	}
	likeRows.Close()
	if err := likeRows.Err(); err != nil {
		return fmt.Errorf("load likes: %w", err)
	}

	commentRows, err := q.Query(ctx,
		`SELECT c.post_id, c.id, c.text, u.id, u.username
		 FROM comments c JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = ANY($1::uuid[])
		 ORDER BY c.created_at, c.id`, ids)
	if err != nil {
		return fmt.Errorf("load comments: %w", err)
	}
	defer commentRows.Close()
	for commentRows.Next() {
		var postID string
		var c model.PostComment
		if err := commentRows.Scan(&postID, &c.ID, &c.Text, &c.User.ID, &c.User.Username); err != nil {
			return fmt.Errorf("scan comment: %w", err)
		}
		i := index[postID]
		posts[i].Comments = append(posts[i].Comments, c)
	}
	return commentRows.Err()
}

func likePattern(query string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(query)
	return "%" + escaped + "%"
}
