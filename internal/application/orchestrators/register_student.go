package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"aura/internal/domain/outbox"
	domain "aura/internal/domain/student"
)

// StudentStoreForRegister defines the store interface needed by RegisterStudent.
type StudentStoreForRegister interface {
	GetByUsername(ctx context.Context, username string) (domain.Student, error)
	Save(ctx context.Context, s domain.Student) error
}

// RegisterStudentInput carries the public application form.
type RegisterStudentInput struct {
	Username string
	Email    string
	Skill    string
	Level    string
	Goal     string
	Concerns string
	// AdminEmail receives the new-application notification.
	AdminEmail string
}

// RegisterStudentDeps holds dependencies for RegisterStudent.
type RegisterStudentDeps struct {
	StudentStore StudentStoreForRegister
	OutboxStore  OutboxStoreForEnqueue
	GenerateID   func() string
	Now          func() time.Time
}

var ErrUsernameTaken = errors.New("username is already taken")

// ExecuteRegisterStudent records a coaching application in pending status.
// The coach reviews pending applications and approves them by hand.
// PRE: Username and Email are non-empty; Goal describes what to train for
// POST: Student created as pending; notification queued for the coach
// INVARIANT: Username is unique, compared case-insensitively
func ExecuteRegisterStudent(ctx context.Context, input RegisterStudentInput, deps RegisterStudentDeps) (domain.Student, error) {
	username := strings.TrimSpace(input.Username)
	if _, err := deps.StudentStore.GetByUsername(ctx, username); err == nil {
		return domain.Student{}, ErrUsernameTaken
	}

	s := domain.Student{
		ID:        deps.GenerateID(),
		Username:  username,
		Email:     strings.TrimSpace(input.Email),
		Skill:     strings.TrimSpace(input.Skill),
		Level:     strings.TrimSpace(input.Level),
		Goal:      strings.TrimSpace(input.Goal),
		Concerns:  strings.TrimSpace(input.Concerns),
		Status:    domain.StatusPending,
		CreatedAt: deps.Now(),
	}
	if err := s.Validate(); err != nil {
		return domain.Student{}, err
	}
	if err := deps.StudentStore.Save(ctx, s); err != nil {
		return domain.Student{}, err
	}

	slog.Info("student_event", "event", "application_received", "username", s.Username, "skill", s.Skill)

	if input.AdminEmail != "" {
		entry := outbox.Entry{
			ID:          deps.GenerateID(),
			To:          input.AdminEmail,
			Subject:     fmt.Sprintf("Nueva solicitud de %s", s.Username),
			HTML:        applicationEmail(s),
			Status:      outbox.StatusPending,
			MaxAttempts: outbox.DefaultMaxAttempts,
			CreatedAt:   deps.Now(),
		}
		if err := deps.OutboxStore.Save(ctx, entry); err != nil {
			slog.Error("student_event", "event", "notify_enqueue_failed", "username", s.Username, "error", err.Error())
		}
	}

	return s, nil
}

func applicationEmail(s domain.Student) string {
	return fmt.Sprintf(
		`<p>Nueva solicitud de coaching:</p><ul><li>Usuario: %s</li><li>Email: %s</li><li>Habilidad: %s</li><li>Nivel: %s</li><li>Objetivo: %s</li></ul>`,
		html.EscapeString(s.Username), html.EscapeString(s.Email),
		html.EscapeString(s.Skill), html.EscapeString(s.Level), html.EscapeString(s.Goal))
}
