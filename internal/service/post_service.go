package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"go-social-api/internal/event"
	"go-social-api/internal/model"
	"go-social-api/internal/validation"
	"go-social-api/pkg/apierror"
)

type PostService struct {
	posts     PostRepository
	comments  CommentRepository
	media     *MediaService
	bus       event.Publisher
	maxImages int
	now       func() time.Time
}

func NewPostService(posts PostRepository, comments CommentRepository, media *MediaService, bus event.Publisher, maxImages int) *PostService {
	if bus == nil {
		bus = event.Discard{}
	}
	return &PostService{
		posts:     posts,
		comments:  comments,
		media:     media,
		bus:       bus,
		maxImages: maxImages,
		now:       time.Now,
	}
}

// Create uploads every image before inserting the post. Any image failure
// aborts the post; objects already uploaded are deleted best-effort.
func (s *PostService) Create(ctx context.Context, identity model.Identity, req model.CreatePostRequest, images []io.Reader) (model.Post, error) {
	req.Title = strings.TrimSpace(req.Title)
	if err := validation.Struct(&req); err != nil {
		return model.Post{}, err
	}
	if len(images) > s.maxImages {
		return model.Post{}, apierror.Validation(fmt.Sprintf("a post can carry at most %d images", s.maxImages), "images")
	}

	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.media.Store(ctx, img, "posts")
		if err != nil {
			s.media.Remove(ctx, urls...)
			return model.Post{}, err
		}
		urls = append(urls, url)
	}

	now := s.now().UTC()
	post := model.Post{
		ID:        uuid.NewString(),
		Title:     req.Title,
		Content:   req.Content,
		Images:    urls,
		OwnerID:   identity.ID,
		Owner:     &model.Author{ID: identity.ID, Username: identity.Username},
		Project:   identity.Project,
		Comments:  []model.PostComment{},
		Likes:     []model.Author{},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if len(urls) > 0 {
			slog.Warn("post insert failed, removing uploaded images", "post_id", post.ID, "images", len(urls))
			s.media.Remove(ctx, urls...)
		}
		return model.Post{}, err
	}

	s.bus.Publish(event.New(event.TypePostCreated, post.Project, identity.ID, post))
	return post, nil
}

// ListProject returns the caller's project feed; every listed post gains a
// view.
func (s *PostService) ListProject(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	return s.posts.ListByProject(ctx, identity.Project)
}

func (s *PostService) ListMine(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	return s.posts.ListByOwner(ctx, identity.ID)
}

func (s *PostService) ListLiked(ctx context.Context, identity model.Identity) ([]model.Post, error) {
	return s.posts.ListLikedBy(ctx, identity.ID)
}

func (s *PostService) Search(ctx context.Context, identity model.Identity, req model.SearchRequest) ([]model.Post, error) {
	req.Query = strings.TrimSpace(req.Query)
	if err := validation.Struct(&req); err != nil {
		return nil, err
	}
	return s.posts.Search(ctx, identity.Project, req.Query)
}

func (s *PostService) Update(ctx context.Context, identity model.Identity, req model.UpdatePostRequest) (model.Post, error) {
	if err := validation.Struct(&req); err != nil {
		return model.Post{}, err
	}
	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if trimmed == "" {
			return model.Post{}, apierror.Validation("title cannot be empty", "title")
		}
		req.Title = &trimmed
	}
	if req.Content != nil && strings.TrimSpace(*req.Content) == "" {
		return model.Post{}, apierror.Validation("content cannot be empty", "content")
	}
	if req.Title == nil && req.Content == nil {
		return model.Post{}, apierror.Validation("title or content is required", "title,content")
	}

	post, err := s.ownedPost(ctx, identity, req.Post)
	if err != nil {
		return model.Post{}, err
	}

	updated, err := s.posts.Update(ctx, post.ID, model.PostUpdate{Title: req.Title, Content: req.Content})
	if err != nil {
		return model.Post{}, err
	}

	s.bus.Publish(event.New(event.TypePostUpdated, updated.Project, identity.ID, updated))
	return updated, nil
}

// Delete removes the post with its likes and comments, then deletes its
// image objects best-effort.
func (s *PostService) Delete(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	if err := validation.Struct(&req); err != nil {
		return err
	}

	post, err := s.ownedPost(ctx, identity, req.Post)
	if err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, post); err != nil {
		return err
	}
	s.media.Remove(ctx, post.Images...)

	s.bus.Publish(event.New(event.TypePostDeleted, post.Project, identity.ID, map[string]string{"id": post.ID}))
	return nil
}

func (s *PostService) Like(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	post, err := s.projectPost(ctx, identity, req)
	if err != nil {
		return err
	}

	liked, err := s.posts.HasLike(ctx, post.ID, identity.ID)
	if err != nil {
		return err
	}
	if liked {
		return model.ErrAlreadyLiked
	}

	if err := s.posts.AddLike(ctx, post.ID, identity.ID); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypePostLiked, post.Project, identity.ID, model.LikeEvent{
		Post: post.ID,
		User: model.Author{ID: identity.ID, Username: identity.Username},
	}))
	return nil
}

func (s *PostService) Unlike(ctx context.Context, identity model.Identity, req model.PostRefRequest) error {
	post, err := s.projectPost(ctx, identity, req)
	if err != nil {
		return err
	}

	liked, err := s.posts.HasLike(ctx, post.ID, identity.ID)
	if err != nil {
		return err
	}
	if !liked {
		return model.ErrNotLiked
	}

	if err := s.posts.RemoveLike(ctx, post.ID, identity.ID); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypePostUnliked, post.Project, identity.ID, map[string]string{"post": post.ID, "user": identity.ID}))
	return nil
}

func (s *PostService) AddComment(ctx context.Context, identity model.Identity, req model.AddCommentRequest) (model.Comment, error) {
	req.Text = strings.TrimSpace(req.Text)
	if err := validation.Struct(&req); err != nil {
		return model.Comment{}, err
	}

	post, err := s.projectPost(ctx, identity, model.PostRefRequest{Post: req.Post})
	if err != nil {
		return model.Comment{}, err
	}

	comment := model.Comment{
		ID:        uuid.NewString(),
		PostID:    post.ID,
		UserID:    identity.ID,
		Text:      req.Text,
		CreatedAt: s.now().UTC(),
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return model.Comment{}, err
	}

	s.bus.Publish(event.New(event.TypeCommentAdded, post.Project, identity.ID, model.CommentEvent{
		Post: post.ID,
		Comment: model.PostComment{
			ID:   comment.ID,
			Text: comment.Text,
			User: model.Author{ID: identity.ID, Username: identity.Username},
		},
	}))
	return comment, nil
}

func (s *PostService) DeleteComment(ctx context.Context, identity model.Identity, req model.CommentRefRequest) error {
	if err := validation.Struct(&req); err != nil {
		return err
	}

	comment, err := s.comments.FindByID(ctx, req.Comment)
	if err != nil {
		return err
	}
	if err := requireOwner(identity, comment.UserID); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, comment); err != nil {
		return err
	}

	s.bus.Publish(event.New(event.TypeCommentDeleted, identity.Project, identity.ID, map[string]string{"id": comment.ID, "post": comment.PostID}))
	return nil
}

func (s *PostService) projectPost(ctx context.Context, identity model.Identity, req model.PostRefRequest) (model.Post, error) {
	if err := validation.Struct(&req); err != nil {
		return model.Post{}, err
	}

	post, err := s.posts.FindByID(ctx, req.Post)
	if err != nil {
		return model.Post{}, err
	}
	if err := requireSameProject(identity, post.Project); err != nil {
		return model.Post{}, err
	}
	return post, nil
}

func (s *PostService) ownedPost(ctx context.Context, identity model.Identity, postID string) (model.Post, error) {
	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return model.Post{}, err
	}
	if err := requireSameProject(identity, post.Project); err != nil {
		return model.Post{}, err
	}
	if err := requireOwner(identity, post.OwnerID); err != nil {
		return model.Post{}, err
	}
	return post, nil
}
