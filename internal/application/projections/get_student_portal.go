package projections

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	domainChat "aura/internal/domain/chat"
	domainPlan "aura/internal/domain/plan"
	domainStudent "aura/internal/domain/student"
)

// GetStudentPortalQuery carries query parameters.
type GetStudentPortalQuery struct {
	Username string
}

// GetStudentPortalResult carries everything the student portal shows: the
// full plan with check-off state, per-week progress rows and the chat
// thread.
type GetStudentPortalResult struct {
	Student  domainStudent.Student
	Plan     domainPlan.Plan
	Progress []domainPlan.WeekProgress
	Messages []domainChat.Message
}

// GetStudentPortalDeps holds dependencies for GetStudentPortal.
type GetStudentPortalDeps struct {
	StudentStore StudentStore
	PlanStore    PlanStore
	ChatStore    ChatStore
}

var ErrStudentNotApproved = errors.New("student does not have portal access")

// QueryGetStudentPortal assembles the portal view for one student.
// PRE: Username names an approved student
// POST: Returns the student's plan (the starter plan when none is stored),
// recomputed progress rows and the full thread
func QueryGetStudentPortal(ctx context.Context, query GetStudentPortalQuery, deps GetStudentPortalDeps) (GetStudentPortalResult, error) {
	st, err := deps.StudentStore.GetByUsername(ctx, query.Username)
	if err != nil {
		return GetStudentPortalResult{}, fmt.Errorf("load student: %w", err)
	}
	if !st.IsApproved() {
		return GetStudentPortalResult{}, ErrStudentNotApproved
	}

	p, err := deps.PlanStore.GetByUsername(ctx, st.Username)
	if errors.Is(err, sql.ErrNoRows) {
		p = domainPlan.DefaultPlan()
	} else if err != nil {
		return GetStudentPortalResult{}, fmt.Errorf("load plan: %w", err)
	}

	messages, err := deps.ChatStore.ListByUsername(ctx, st.Username)
	if err != nil {
		return GetStudentPortalResult{}, fmt.Errorf("load chat: %w", err)
	}

	return GetStudentPortalResult{
		Student:  st,
		Plan:     p,
		Progress: domainPlan.ProgressRows(p),
		Messages: messages,
	}, nil
}
