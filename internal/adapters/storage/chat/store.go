package chat

import (
	"context"

	domain "aura/internal/domain/chat"
)

// Store persists chat Message state.
type Store interface {
	Save(ctx context.Context, m domain.Message) error
	// ListByUsername returns a student's thread in chronological order.
	ListByUsername(ctx context.Context, username string) ([]domain.Message, error)
	// All returns every thread keyed by username, each in chronological
	// order.
	All(ctx context.Context) (map[string][]domain.Message, error)
	Delete(ctx context.Context, id string) error
	DeleteThread(ctx context.Context, username string) error
}
