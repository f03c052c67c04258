package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	accountDomain "aura/internal/domain/account"
	"aura/internal/domain/outbox"
	planDomain "aura/internal/domain/plan"
	domain "aura/internal/domain/student"
)

// StudentStoreForApprove defines the store interface needed by ApproveStudent.
type StudentStoreForApprove interface {
	GetByID(ctx context.Context, id string) (domain.Student, error)
	Save(ctx context.Context, s domain.Student) error
}

// AccountStoreForApprove defines the account creation needed by ApproveStudent.
type AccountStoreForApprove interface {
	GetByEmail(ctx context.Context, email string) (accountDomain.Account, error)
	Save(ctx context.Context, a accountDomain.Account) error
}

// PlanStoreForApprove seeds the starter plan on approval.
type PlanStoreForApprove interface {
	GetByUsername(ctx context.Context, username string) (planDomain.Plan, error)
	Save(ctx context.Context, username string, p planDomain.Plan) error
}

// ApproveStudentInput carries input for the approve student orchestrator.
type ApproveStudentInput struct {
	StudentID string
	// Password is the initial portal password handed to the student.
	Password string
}

// ApproveStudentDeps holds dependencies for ApproveStudent.
type ApproveStudentDeps struct {
	StudentStore StudentStoreForApprove
	AccountStore AccountStoreForApprove
	PlanStore    PlanStoreForApprove
	OutboxStore  OutboxStoreForEnqueue
	GenerateID   func() string
	Now          func() time.Time
}

var ErrEmailInUse = errors.New("an account with that email already exists")

// ExecuteApproveStudent grants portal access: the student is approved, a
// student account is created with the initial password, and the starter
// plan is seeded unless a plan document already exists.
// PRE: StudentID names a pending student; Password meets length rules
// POST: Student approved and linked to a new account; welcome email queued
func ExecuteApproveStudent(ctx context.Context, input ApproveStudentInput, deps ApproveStudentDeps) (domain.Student, error) {
	st, err := deps.StudentStore.GetByID(ctx, input.StudentID)
	if err != nil {
		return domain.Student{}, ErrUnknownStudent
	}
	if err := st.Approve(); err != nil {
		return domain.Student{}, err
	}
	if _, err := deps.AccountStore.GetByEmail(ctx, st.Email); err == nil {
		return domain.Student{}, ErrEmailInUse
	}

	acct := accountDomain.Account{
		ID:        deps.GenerateID(),
		Email:     st.Email,
		Role:      accountDomain.RoleStudent,
		CreatedAt: deps.Now(),
	}
	if err := acct.SetPassword(input.Password); err != nil {
		return domain.Student{}, err
	}
	if err := acct.Validate(); err != nil {
		return domain.Student{}, err
	}
	if err := deps.AccountStore.Save(ctx, acct); err != nil {
		return domain.Student{}, fmt.Errorf("save account: %w", err)
	}

	st.AccountID = acct.ID
	if err := deps.StudentStore.Save(ctx, st); err != nil {
		return domain.Student{}, fmt.Errorf("save student: %w", err)
	}

	// Seed the starter plan, keeping any document a coach already drafted.
	if _, err := deps.PlanStore.GetByUsername(ctx, st.Username); errors.Is(err, sql.ErrNoRows) {
		if err := deps.PlanStore.Save(ctx, st.Username, planDomain.DefaultPlan()); err != nil {
			return domain.Student{}, fmt.Errorf("seed plan: %w", err)
		}
	}

	slog.Info("student_event", "event", "student_approved", "username", st.Username, "account_id", acct.ID)

	entry := outbox.Entry{
		ID:          deps.GenerateID(),
		To:          st.Email,
		Subject:     "Tu acceso al portal está listo",
		HTML:        welcomeEmail(st.Username),
		Status:      outbox.StatusPending,
		MaxAttempts: outbox.DefaultMaxAttempts,
		CreatedAt:   deps.Now(),
	}
	if err := deps.OutboxStore.Save(ctx, entry); err != nil {
		slog.Error("student_event", "event", "notify_enqueue_failed", "username", st.Username, "error", err.Error())
	}

	return st, nil
}

func welcomeEmail(username string) string {
	return fmt.Sprintf(
		`<p>Hola %s,</p><p>Tu solicitud fue aprobada. Ya podés entrar al portal con tu email y la contraseña que te pasó tu entrenador.</p>`,
		html.EscapeString(username))
}
