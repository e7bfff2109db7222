package event

import (
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypePostCreated    Type = "post.created"
	TypePostUpdated    Type = "post.updated"
	TypePostDeleted    Type = "post.deleted"
	TypePostLiked      Type = "post.liked"
	TypePostUnliked    Type = "post.unliked"
	TypeCommentAdded   Type = "comment.added"
	TypeCommentDeleted Type = "comment.deleted"
	TypeScoreUpdated   Type = "score.updated"
)

// Event is a change notification scoped to one project. Only subscribers of
// the same project ever receive it.
type Event struct {
	ID        string    `json:"id"`
	Type      Type      `json:"type"`
	Project   string    `json:"project"`
	ActorID   string    `json:"actorId,omitempty"`
	Payload   any       `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

func New(typ Type, project string, actorID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      typ,
		Project:   project,
		ActorID:   actorID,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
	}
}

type Publisher interface {
	Publish(e Event)
}

type Bus interface {
	Publisher
	Subscribe() (<-chan Event, func())
}

// Discard is a Publisher that drops every event.
type Discard struct{}

func (Discard) Publish(Event) {}
