package orchestrators

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"time"

	"aura/internal/application/planedit"
	"aura/internal/domain/outbox"
	domain "aura/internal/domain/plan"
	studentDomain "aura/internal/domain/student"
)

// PlanStoreForSave defines the store interface needed by SavePlan.
type PlanStoreForSave interface {
	GetByUsername(ctx context.Context, username string) (domain.Plan, error)
	Save(ctx context.Context, username string, p domain.Plan) error
}

// StudentStoreForSave defines the student lookup needed by SavePlan.
type StudentStoreForSave interface {
	GetByUsername(ctx context.Context, username string) (studentDomain.Student, error)
}

// OutboxStoreForEnqueue defines the outbox interface needed to queue emails.
type OutboxStoreForEnqueue interface {
	Save(ctx context.Context, e outbox.Entry) error
}

// SavePlanInput carries input for the save plan orchestrator.
type SavePlanInput struct {
	Username string
	// Form holds the posted editor fields. Structured item rows are the
	// primary source; a week{w}_day{d}_text field, when present, replaces
	// the rows of that day with parsed delimited text.
	Form *planedit.FormView
	// Notify queues an email to the student when the save succeeds.
	Notify bool
}

// SavePlanDeps holds dependencies for SavePlan.
type SavePlanDeps struct {
	PlanStore    PlanStoreForSave
	StudentStore StudentStoreForSave
	OutboxStore  OutboxStoreForEnqueue
	GenerateID   func() string
	Now          func() time.Time
}

var ErrUnknownStudent = errors.New("no student with that username")

// ExecuteSavePlan assembles a full plan from the posted editor form and
// replaces the student's stored document. Check-off state (item statuses
// and notes) is carried over from the stored plan by position, so a coach
// edit never wipes what the student already marked. A day posted with the
// rest flag on is saved without items.
// PRE: input.Form is non-nil, input.Username is non-empty
// POST: Full document replaced; notification queued when Notify is set
func ExecuteSavePlan(ctx context.Context, input SavePlanInput, deps SavePlanDeps) (domain.Plan, error) {
	if input.Form == nil {
		return domain.Plan{}, errors.New("form is required")
	}
	st, err := deps.StudentStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return domain.Plan{}, ErrUnknownStudent
	}

	old, err := deps.PlanStore.GetByUsername(ctx, st.Username)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return domain.Plan{}, fmt.Errorf("load stored plan: %w", err)
	}

	p := assemblePlan(input.Form)
	carryOverStatuses(&p, old)

	if err := p.Validate(); err != nil {
		return domain.Plan{}, err
	}
	if err := deps.PlanStore.Save(ctx, st.Username, p); err != nil {
		return domain.Plan{}, fmt.Errorf("save plan: %w", err)
	}

	slog.Info("plan_event", "event", "plan_saved", "username", st.Username, "title", p.Title)

	if input.Notify && st.Email != "" {
		entry := outbox.Entry{
			ID:          deps.GenerateID(),
			To:          st.Email,
			Subject:     "Tu plan de entrenamiento fue actualizado",
			HTML:        planUpdatedEmail(st.Username, p.Title),
			Status:      outbox.StatusPending,
			MaxAttempts: outbox.DefaultMaxAttempts,
			CreatedAt:   deps.Now(),
		}
		if err := deps.OutboxStore.Save(ctx, entry); err != nil {
			// The save already succeeded; a lost notification is logged,
			// not surfaced.
			slog.Error("plan_event", "event", "notify_enqueue_failed", "username", st.Username, "error", err.Error())
		}
	}

	return p, nil
}

// assemblePlan reads the full 4-week plan out of the posted form.
func assemblePlan(form *planedit.FormView) domain.Plan {
	p := domain.Plan{Title: form.PlanTitle()}
	if p.Title == "" {
		p.Title = domain.DefaultPlanTitle
	}
	for w := 1; w <= domain.WeeksPerPlan; w++ {
		week := planedit.ExtractWeek(form.Week(w))
		if week.Title == "" {
			week.Title = fmt.Sprintf("Semana %d", w)
		}
		for d := 1; d <= domain.DaysPerWeek; d++ {
			day := &week.Days[d-1]
			if day.Title == "" {
				day.Title = fmt.Sprintf("Día %d", d)
			}
			switch {
			case day.Rest:
				// A rest day is saved clean.
				day.Items = nil
			default:
				textKey := fmt.Sprintf("week%d_day%d_text", w, d)
				if form.Has(textKey) {
					day.Items = domain.ParseDayText(form.Get(textKey))
				}
			}
		}
		p.Weeks = append(p.Weeks, week)
	}
	return p
}

// carryOverStatuses copies check-off state from the old plan by position:
// week, day and item index. Items that moved position lose their mark,
// matching how the panel has always behaved.
func carryOverStatuses(p *domain.Plan, old domain.Plan) {
	for wi := range p.Weeks {
		if wi >= len(old.Weeks) {
			break
		}
		newWeek, oldWeek := &p.Weeks[wi], old.Weeks[wi]
		newWeek.Summary = oldWeek.Summary
		for di := range newWeek.Days {
			if di >= len(oldWeek.Days) {
				break
			}
			newDay, oldDay := &newWeek.Days[di], oldWeek.Days[di]
			newDay.Status = oldDay.Status
			newDay.StatusNote = oldDay.StatusNote
			newDay.Feedback = oldDay.Feedback
			for ii := range newDay.Items {
				if ii >= len(oldDay.Items) {
					break
				}
				newDay.Items[ii].Status = oldDay.Items[ii].Status
				newDay.Items[ii].StatusNote = oldDay.Items[ii].StatusNote
				newDay.Items[ii].StudentNote = oldDay.Items[ii].StudentNote
			}
		}
	}
}

func planUpdatedEmail(username, title string) string {
	return fmt.Sprintf(
		`<p>Hola %s,</p><p>Tu entrenador actualizó tu plan <strong>%s</strong>.</p><p>Entrá al portal para ver los cambios.</p>`,
		html.EscapeString(username), html.EscapeString(title))
}
