package plan

import (
	"context"

	domain "aura/internal/domain/plan"
)

// Store persists plan documents keyed by username. Plans are stored whole,
// as one JSON document per student, because every operation reads or
// replaces a full plan.
type Store interface {
	// GetByUsername returns the stored plan for a username. Raw data that
	// does not decode cleanly is repaired via normalization, never
	// rejected.
	GetByUsername(ctx context.Context, username string) (domain.Plan, error)

	// Save replaces the full plan document for a username.
	Save(ctx context.Context, username string, p domain.Plan) error

	// Delete removes the plan document for a username.
	Delete(ctx context.Context, username string) error

	// All returns every stored plan keyed by username.
	All(ctx context.Context) (map[string]domain.Plan, error)
}
