package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	domain "aura/internal/domain/plan"
)

// PlanStoreForCheckOff defines the store interface needed by the check-off
// orchestrators.
type PlanStoreForCheckOff interface {
	GetByUsername(ctx context.Context, username string) (domain.Plan, error)
	Save(ctx context.Context, username string, p domain.Plan) error
}

// CheckOffDeps holds dependencies for the check-off orchestrators.
type CheckOffDeps struct {
	PlanStore PlanStoreForCheckOff
}

// UpdateDayStatusInput marks one day done or missed from the portal.
type UpdateDayStatusInput struct {
	Username   string
	Week       int // 1-based
	Day        int // 1-based
	Status     string
	StatusNote string
	Feedback   string
}

// ExecuteUpdateDayStatus sets a day's check-off state on the stored plan.
// PRE: (Week, Day) addresses a slot; Status is done, missed or empty
// POST: Stored plan updated in place; everything else untouched
func ExecuteUpdateDayStatus(ctx context.Context, input UpdateDayStatusInput, deps CheckOffDeps) error {
	if !domain.ValidWeek(input.Week) {
		return domain.ErrWeekOutOfRange
	}
	if !domain.ValidDay(input.Day) {
		return domain.ErrDayOutOfRange
	}
	if !domain.ValidStatus(input.Status) {
		return domain.ErrInvalidStatus
	}

	p, err := deps.PlanStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	day := &p.Weeks[input.Week-1].Days[input.Day-1]
	day.Status = input.Status
	day.StatusNote = strings.TrimSpace(input.StatusNote)
	day.Feedback = strings.TrimSpace(input.Feedback)

	if err := deps.PlanStore.Save(ctx, input.Username, p); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "day_status_updated",
		"username", input.Username, "week", input.Week, "day", input.Day, "status", input.Status)
	return nil
}

// UpdateItemStatusInput marks one exercise done or missed from the portal.
type UpdateItemStatusInput struct {
	Username    string
	Week        int // 1-based
	Day         int // 1-based
	Item        int // 1-based
	Status      string
	StatusNote  string
	StudentNote string
}

var ErrItemOutOfRange = errors.New("item index does not address an exercise")

// ExecuteUpdateItemStatus sets one exercise's check-off state.
// PRE: (Week, Day, Item) addresses an existing exercise
// POST: Stored plan updated in place
func ExecuteUpdateItemStatus(ctx context.Context, input UpdateItemStatusInput, deps CheckOffDeps) error {
	if !domain.ValidWeek(input.Week) {
		return domain.ErrWeekOutOfRange
	}
	if !domain.ValidDay(input.Day) {
		return domain.ErrDayOutOfRange
	}
	if !domain.ValidStatus(input.Status) {
		return domain.ErrInvalidStatus
	}

	p, err := deps.PlanStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	day := &p.Weeks[input.Week-1].Days[input.Day-1]
	if input.Item < 1 || input.Item > len(day.Items) {
		return ErrItemOutOfRange
	}
	item := &day.Items[input.Item-1]
	item.Status = input.Status
	item.StatusNote = strings.TrimSpace(input.StatusNote)
	item.StudentNote = strings.TrimSpace(input.StudentNote)

	if err := deps.PlanStore.Save(ctx, input.Username, p); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "item_status_updated",
		"username", input.Username, "week", input.Week, "day", input.Day, "item", input.Item, "status", input.Status)
	return nil
}

// UpdateWeekSummaryInput sets the coach's weekly summary text.
type UpdateWeekSummaryInput struct {
	Username string
	Week     int // 1-based
	Summary  string
}

// ExecuteUpdateWeekSummary stores the coach's summary for one week.
// PRE: Week addresses a week slot
// POST: Stored plan updated in place
func ExecuteUpdateWeekSummary(ctx context.Context, input UpdateWeekSummaryInput, deps CheckOffDeps) error {
	if !domain.ValidWeek(input.Week) {
		return domain.ErrWeekOutOfRange
	}
	p, err := deps.PlanStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return fmt.Errorf("load plan: %w", err)
	}
	p.Weeks[input.Week-1].Summary = strings.TrimSpace(input.Summary)

	if err := deps.PlanStore.Save(ctx, input.Username, p); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	slog.Info("plan_event", "event", "week_summary_updated", "username", input.Username, "week", input.Week)
	return nil
}
