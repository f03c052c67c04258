package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	domain "aura/internal/domain/student"
)

// StudentStoreForDuplicate defines the store interface needed by DuplicateStudent.
type StudentStoreForDuplicate interface {
	GetByUsername(ctx context.Context, username string) (domain.Student, error)
	Save(ctx context.Context, s domain.Student) error
}

// DuplicateStudentInput carries input for the duplicate student orchestrator.
// The coach uses this to spin up a new client from an existing one whose
// programming is a good starting point.
type DuplicateStudentInput struct {
	SourceUsername string
	NewUsername    string
	NewEmail       string
}

// DuplicateStudentDeps holds dependencies for DuplicateStudent.
type DuplicateStudentDeps struct {
	StudentStore StudentStoreForDuplicate
	PlanStore    PlanStoreForSave
	GenerateID   func() string
	Now          func() time.Time
}

// ExecuteDuplicateStudent creates a pending student copied from an existing
// one, including the source's plan document when one is stored. The copy has
// no account; it goes through the normal approval flow.
// PRE: SourceUsername names an existing student; NewUsername is free
// POST: New pending student saved; plan document copied when present
func ExecuteDuplicateStudent(ctx context.Context, input DuplicateStudentInput, deps DuplicateStudentDeps) (domain.Student, error) {
	src, err := deps.StudentStore.GetByUsername(ctx, input.SourceUsername)
	if err != nil {
		return domain.Student{}, ErrUnknownStudent
	}

	newUsername := strings.TrimSpace(input.NewUsername)
	if _, err := deps.StudentStore.GetByUsername(ctx, newUsername); err == nil {
		return domain.Student{}, ErrUsernameTaken
	}

	dup := domain.Student{
		ID:        deps.GenerateID(),
		Username:  newUsername,
		Email:     strings.TrimSpace(input.NewEmail),
		Skill:     src.Skill,
		Level:     src.Level,
		Goal:      src.Goal,
		Concerns:  src.Concerns,
		Status:    domain.StatusPending,
		CreatedAt: deps.Now(),
	}
	if err := dup.Validate(); err != nil {
		return domain.Student{}, err
	}
	if err := deps.StudentStore.Save(ctx, dup); err != nil {
		return domain.Student{}, fmt.Errorf("save student: %w", err)
	}

	p, err := deps.PlanStore.GetByUsername(ctx, src.Username)
	if errors.Is(err, sql.ErrNoRows) {
		slog.Info("plan_event", "event", "student_duplicated", "source", src.Username, "username", dup.Username, "plan_copied", false)
		return dup, nil
	}
	if err != nil {
		return domain.Student{}, fmt.Errorf("load source plan: %w", err)
	}
	if err := deps.PlanStore.Save(ctx, dup.Username, p); err != nil {
		return domain.Student{}, fmt.Errorf("copy plan: %w", err)
	}

	slog.Info("plan_event", "event", "student_duplicated", "source", src.Username, "username", dup.Username, "plan_copied", true)
	return dup, nil
}
