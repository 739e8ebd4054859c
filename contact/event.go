package contact

import (
	"context"
	"time"
)

// Event types published after a successful mutation.
const (
	EventCreated = "contact.created"
	EventUpdated = "contact.updated"
	EventDeleted = "contact.deleted"
)

// Event describes a change to a single contact.
type Event struct {
	Type       string    `json:"type"`
	Contact    Contact   `json:"contact"`
	OccurredAt time.Time `json:"occurredAt"`
}

// EventPublisher delivers contact events to interested parties.
type EventPublisher interface {
	Publish(ctx context.Context, e Event) error
}

// NopPublisher drops every event.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }
