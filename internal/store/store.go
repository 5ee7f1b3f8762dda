// Package store is the engine's boundary to the external message store.
// The engine only needs append, lookup and a keyed mutation primitive that
// serializes delivery transitions per message.
package store

import (
	"context"

	"github.com/casedesk/caseline/internal/domain"
)

// MessageStore is the collaborator the engine aggregates over. Persistence
// engines live behind this interface; the in-memory implementation below is
// the reference the server ships with.
type MessageStore interface {
	// Append stores a new message. The id must be unique.
	Append(ctx context.Context, msg *domain.Message) error

	// Get returns a snapshot of one message or domain.ErrMessageNotFound.
	Get(ctx context.Context, id string) (*domain.Message, error)

	// Thread returns snapshots of every message in a thread, in insertion
	// order. An unknown thread yields an empty slice, not an error.
	Thread(ctx context.Context, threadID string) ([]*domain.Message, error)

	// All returns snapshots of every stored message.
	All(ctx context.Context) ([]*domain.Message, error)

	// Mutate runs fn against the live message under that message's lock.
	// Concurrent mutations of the same message are serialized; mutations of
	// different messages proceed independently.
	Mutate(ctx context.Context, id string, fn func(*domain.Message) error) error
}
