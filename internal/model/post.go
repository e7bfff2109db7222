package model

import "time"

type Author struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

type Post struct {
	ID        string        `json:"id"`
	Title     string        `json:"title"`
	Content   string        `json:"content"`
	Images    []string      `json:"images"`
	OwnerID   string        `json:"ownerId"`
	Owner     *Author       `json:"owner,omitempty"`
	Project   string        `json:"project"`
	Views     int64         `json:"views"`
	Comments  []PostComment `json:"comments"`
	Likes     []Author      `json:"likes"`
	CreatedAt time.Time     `json:"createdAt"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// PostComment is the denormalized comment view embedded in a post listing.
type PostComment struct {
	ID   string `json:"id"`
	Text string `json:"text"`
	User Author `json:"user"`
}

// LikeEvent and CommentEvent are feed payloads; both name the post so a
// client knows which card to update.
type LikeEvent struct {
	Post string `json:"post"`
	User Author `json:"user"`
}

type CommentEvent struct {
	Post    string      `json:"post"`
	Comment PostComment `json:"comment"`
}

type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"post"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostUpdate carries the optional fields of an update; nil leaves the column
// untouched.
type PostUpdate struct {
	Title   *string
	Content *string
}
