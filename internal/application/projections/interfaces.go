package projections

import (
	"context"

	"aura/internal/adapters/storage/student"
	domainChat "aura/internal/domain/chat"
	domainPlan "aura/internal/domain/plan"
	domainStudent "aura/internal/domain/student"
)

// PlanStore interface for plan document queries.
type PlanStore interface {
	GetByUsername(ctx context.Context, username string) (domainPlan.Plan, error)
	All(ctx context.Context) (map[string]domainPlan.Plan, error)
}

// ChatStore interface for chat thread queries.
type ChatStore interface {
	ListByUsername(ctx context.Context, username string) ([]domainChat.Message, error)
	All(ctx context.Context) (map[string][]domainChat.Message, error)
}

// StudentStore interface for student queries.
type StudentStore interface {
	GetByUsername(ctx context.Context, username string) (domainStudent.Student, error)
	List(ctx context.Context, filter student.ListFilter) ([]domainStudent.Student, error)
	Count(ctx context.Context) (int, error)
}
