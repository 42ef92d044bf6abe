package events

import (
	"context"
	"time"
)

type Type string

const (
	ReviewCreated    Type = "review.created"
	ReviewDeleted    Type = "review.deleted"
	ReviewFlagged    Type = "review.flagged"
	ReviewAutoHidden Type = "review.auto_hidden"
	ReviewHidden     Type = "review.hidden"
	ReviewUnhidden   Type = "review.unhidden"
)

// ReviewEvent is published after the transaction that caused it commits.
type ReviewEvent struct {
	Type       Type      `json:"type"`
	ReviewID   string    `json:"review_id"`
	AuthorID   string    `json:"author_id"`
	MovieID    string    `json:"movie_id"`
	ActorID    string    `json:"actor_id,omitempty"`
	FlagCount  int64     `json:"flag_count,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

type Publisher interface {
	Publish(ctx context.Context, event ReviewEvent) error
	Close() error
}

// NoopPublisher drops every event. Used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, ReviewEvent) error { return nil }

func (NoopPublisher) Close() error { return nil }
