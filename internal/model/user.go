package model

import (
	"encoding/json"
	"time"
)

// User is the persisted credential record. PasswordHash and RefreshToken
// never leave the process: both are excluded from JSON and every response
// path goes through Public().
type User struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Project      string          `json:"project"`
	Fullname     string          `json:"fullname"`
	Email        string          `json:"email"`
	PasswordHash string          `json:"-"`
	RefreshToken string          `json:"-"`
	Score        int64           `json:"score"`
	Avatar       string          `json:"avatar"`
	UserData     json.RawMessage `json:"userdata,omitempty"`
	PostIDs      []string        `json:"posts"`
	CommentIDs   []string        `json:"comments"`
	LikedPostIDs []string        `json:"likes"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// PublicUser is the profile shape returned to clients.
type PublicUser struct {
	ID           string          `json:"id"`
	Username     string          `json:"username"`
	Project      string          `json:"project"`
	Fullname     string          `json:"fullname"`
	Email        string          `json:"email"`
	Score        int64           `json:"score"`
	Avatar       string          `json:"avatar"`
	UserData     json.RawMessage `json:"userdata,omitempty"`
	PostIDs      []string        `json:"posts"`
	CommentIDs   []string        `json:"comments"`
	LikedPostIDs []string        `json:"likes"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

func (u User) Public() PublicUser {
	return PublicUser{
		ID:           u.ID,
		Username:     u.Username,
		Project:      u.Project,
		Fullname:     u.Fullname,
		Email:        u.Email,
		Score:        u.Score,
		Avatar:       u.Avatar,
		UserData:     u.UserData,
		PostIDs:      nonNil(u.PostIDs),
		CommentIDs:   nonNil(u.CommentIDs),
		LikedPostIDs: nonNil(u.LikedPostIDs),
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

// Identity is what the session middleware attaches to an authenticated
// request.
type Identity struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Project  string `json:"project"`
	Fullname string `json:"fullname"`
	Email    string `json:"email"`
	Avatar   string `json:"avatar"`
	Score    int64  `json:"score"`
}

func (u User) Identity() Identity {
	return Identity{
		ID:       u.ID,
		Username: u.Username,
		Project:  u.Project,
		Fullname: u.Fullname,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Score:    u.Score,
	}
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResult is returned by register, login and refresh.
type AuthResult struct {
	User         PublicUser `json:"user"`
	AccessToken  string     `json:"accessToken"`
	RefreshToken string     `json:"refreshToken"`
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
