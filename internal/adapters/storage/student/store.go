package student

import (
	"context"

	domain "aura/internal/domain/student"
)

// Store persists Student state.
type Store interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	GetByUsername(ctx context.Context, username string) (domain.Student, error)
	GetByAccountID(ctx context.Context, accountID string) (domain.Student, error)
	Save(ctx context.Context, value domain.Student) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter ListFilter) ([]domain.Student, error)
	Count(ctx context.Context) (int, error)
}

// ListFilter carries filtering parameters for List operations.
type ListFilter struct {
	Status string
	Limit  int
	Offset int
}
