package model

import "encoding/json"

type RegisterRequest struct {
	Username string `json:"username" validate:"required,max=64"`
	Fullname string `json:"fullname" validate:"required,max=128"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Project  string `json:"project" validate:"required,max=64"`
}

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AddScoreRequest struct {
	Score int64 `json:"score" validate:"required"`
}

type UpdateEmailRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6,max=72"`
}

type StoreDataRequest struct {
	Data json.RawMessage `json:"data"`
}

type CreatePostRequest struct {
	Title   string `json:"title" validate:"required,max=256"`
	Content string `json:"content" validate:"required"`
}

type UpdatePostRequest struct {
	Post    string  `json:"post" validate:"required,uuid"`
	Title   *string `json:"title" validate:"omitempty,max=256"`
	Content *string `json:"content"`
}

type PostRefRequest struct {
	Post string `json:"post" validate:"required,uuid"`
}

type AddCommentRequest struct {
	Post string `json:"post" validate:"required,uuid"`
	Text string `json:"text" validate:"required,max=2000"`
}

type CommentRefRequest struct {
	Comment string `json:"comment" validate:"required,uuid"`
}

type SearchRequest struct {
	Query string `json:"query" validate:"required"`
}
