package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when no message has the requested ID.
var ErrNotFound = errors.New("message not found")

// Message represents a persisted message.
type Message struct {
	ID      int64
	Content string
}

// MessageStore handles message persistence.
type MessageStore interface {
	// ListMessages returns every message ordered by ID.
	ListMessages(ctx context.Context) ([]*Message, error)

	// GetMessage retrieves a message by ID.
	GetMessage(ctx context.Context, id int64) (*Message, error)

	// CreateMessage inserts a message and returns it with its assigned ID.
	CreateMessage(ctx context.Context, content string) (*Message, error)

	// UpdateMessage replaces the content of an existing message.
	UpdateMessage(ctx context.Context, id int64, content string) error

	// DeleteMessage removes a message.
	DeleteMessage(ctx context.Context, id int64) error
}

// Store aggregates all storage interfaces.
type Store interface {
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
