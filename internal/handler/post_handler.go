package handler

import (
	"io"
	"net/http"
	"strings"

	"go-social-api/internal/model"
)

type PostHandler struct {
	service postService
}

func NewPostHandler(service postService) *PostHandler {
	return &PostHandler{service: service}
}

// Create accepts JSON or a multipart form whose files arrive under images.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.CreatePostRequest
	var images []io.Reader

	if isMultipart(r) {
		form, err := parseUploadForm(r)
		if err != nil {
			writeError(w, err)
			return
		}
		defer form.Close()

		payload = model.CreatePostRequest{Title: form.value("title"), Content: form.value("content")}
		if images, err = form.open("images", "images[]"); err != nil {
			writeError(w, err)
			return
		}
	} else if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Create(r.Context(), identity, payload, images)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "post created successfully", post)
}

func (h *PostHandler) GetPosts(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	posts, err := h.service.ListProject(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "posts fetched successfully", posts)
}

func (h *PostHandler) GetUserPosts(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	posts, err := h.service.ListMine(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "posts fetched successfully", posts)
}

func (h *PostHandler) LikedPosts(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	posts, err := h.service.ListLiked(r.Context(), identity)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "posts fetched successfully", posts)
}

// Search takes the query from the query string, falling back to the body.
func (h *PostHandler) Search(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	payload := model.SearchRequest{Query: strings.TrimSpace(r.URL.Query().Get("query"))}
	if payload.Query == "" {
		if err := decodeJSON(r, &payload); err != nil {
			writeError(w, err)
			return
		}
		payload.Query = strings.TrimSpace(payload.Query)
	}

	posts, err := h.service.Search(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "posts fetched successfully", posts)
}

func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.UpdatePostRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	post, err := h.service.Update(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "post updated successfully", post)
}

// Delete takes the post id from the body, falling back to ?post=.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.PostRefRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Post == "" {
		payload.Post = strings.TrimSpace(r.URL.Query().Get("post"))
	}

	if err := h.service.Delete(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "post deleted successfully", map[string]any{})
}

func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.PostRefRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Like(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "post liked successfully", map[string]any{"post": payload.Post})
}

func (h *PostHandler) Unlike(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.PostRefRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Unlike(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "post unliked successfully", map[string]any{"post": payload.Post})
}

func (h *PostHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.AddCommentRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}

	comment, err := h.service.AddComment(r.Context(), identity, payload)
	if err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusCreated, "comment added successfully", comment)
}

// DeleteComment takes the comment id from the body, falling back to
// ?comment=.
func (h *PostHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	identity, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var payload model.CommentRefRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, err)
		return
	}
	if payload.Comment == "" {
		payload.Comment = strings.TrimSpace(r.URL.Query().Get("comment"))
	}

	if err := h.service.DeleteComment(r.Context(), identity, payload); err != nil {
		writeError(w, err)
		return
	}

	writeSuccess(w, http.StatusOK, "comment deleted successfully", map[string]any{})
}
