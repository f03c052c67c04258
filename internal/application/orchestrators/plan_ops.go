package orchestrators

import (
	"context"
	"fmt"
	"log/slog"

	"aura/internal/application/planedit"
	domain "aura/internal/domain/plan"
)

// Structural editor operation names, as posted by the editor controls.
const (
	OpMoveDay       = "move_day"
	OpClearDay      = "clear_day"
	OpMoveWeek      = "move_week"
	OpClearWeek     = "clear_week"
	OpDuplicateWeek = "duplicate_week"
	OpCopyWeek      = "copy_week"
	OpCopyDay       = "copy_day"
	OpMoveDayAcross = "move_day_across"
	OpClearSlot     = "clear_slot"
)

// PlanStoreForOps defines the store interface needed by PlanOp.
type PlanStoreForOps interface {
	All(ctx context.Context) (map[string]domain.Plan, error)
	Save(ctx context.Context, username string, p domain.Plan) error
}

// PlanOpInput selects one structural operation on the stored plans.
// Username is the student whose editor is in focus; Week is the active
// week for day-level operations. The Src*/Dst* fields are only read by
// the cross-slot operations.
type PlanOpInput struct {
	Op       string
	Username string
	Week     int
	Day      int
	// Dir is -1 (left/up) or 1 (right/down) for the move operations.
	Dir     int
	SrcUser string
	SrcWeek int
	SrcDay  int
	DstUser string
	DstWeek int
	DstDay  int
}

// PlanOpDeps holds dependencies for PlanOp.
type PlanOpDeps struct {
	PlanStore    PlanStoreForOps
	StudentStore StudentStoreForSave
}

// PlanOpResult reports where the editor should land after the operation.
// Username and Week follow the edit focus, which the cross-user copies
// move to the destination student.
type PlanOpResult struct {
	Applied  bool
	Username string
	Week     int
}

// ExecutePlanOp applies one structural operation (move, clear, duplicate
// or cross-slot copy) to the stored plan documents and saves the plan the
// operation landed on. A declined operation (out-of-range slot, missing
// source) is not an error: the result carries Applied=false and nothing
// is written. Check-off state is carried over from the stored plan by
// position, same as a regular save.
// PRE: input.Username names an existing student
// POST: at most one plan document is rewritten
func ExecutePlanOp(ctx context.Context, input PlanOpInput, deps PlanOpDeps) (PlanOpResult, error) {
	st, err := deps.StudentStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return PlanOpResult{}, ErrUnknownStudent
	}

	plans, err := deps.PlanStore.All(ctx)
	if err != nil {
		return PlanOpResult{}, fmt.Errorf("load plans: %w", err)
	}
	if _, ok := plans[st.Username]; !ok {
		plans[st.Username] = domain.DefaultPlan()
	}
	if input.DstUser != "" && input.DstUser != st.Username {
		if _, err := deps.StudentStore.GetByUsername(ctx, input.DstUser); err != nil {
			return PlanOpResult{}, ErrUnknownStudent
		}
		if _, ok := plans[input.DstUser]; !ok {
			plans[input.DstUser] = domain.DefaultPlan()
		}
	}

	b := planedit.NewBuffer(&planedit.Snapshot{Plans: plans})
	b.LoadUser(st.Username)
	if domain.ValidWeek(input.Week) {
		b.SetActiveWeek(input.Week)
	}

	var applied bool
	switch input.Op {
	case OpMoveDay:
		applied = validDir(input.Dir) && b.MoveDay(input.Day, planedit.Direction(input.Dir))
	case OpClearDay:
		applied = b.ClearDay(input.Day)
	case OpMoveWeek:
		applied = validDir(input.Dir) && b.MoveWeek(b.ActiveWeek(), planedit.Direction(input.Dir))
	case OpClearWeek:
		applied = b.ClearWeek(b.ActiveWeek())
	case OpDuplicateWeek:
		applied = b.DuplicateWeek(b.ActiveWeek())
	case OpCopyWeek:
		applied = b.CopyWeekAcrossUsers(input.SrcUser, input.SrcWeek, input.DstUser, input.DstWeek)
	case OpCopyDay:
		applied = b.CopyDayAcross(input.SrcUser,
			planedit.SlotRef{Week: input.SrcWeek, Day: input.SrcDay},
			input.DstUser,
			planedit.SlotRef{Week: input.DstWeek, Day: input.DstDay})
	case OpMoveDayAcross:
		applied = b.MoveDayAcrossWeeks(
			planedit.SlotRef{Week: input.SrcWeek, Day: input.SrcDay},
			planedit.SlotRef{Week: input.DstWeek, Day: input.DstDay})
	case OpClearSlot:
		applied = b.ClearSlot(planedit.SlotRef{Week: input.DstWeek, Day: input.DstDay})
	default:
		return PlanOpResult{}, fmt.Errorf("unknown plan operation %q", input.Op)
	}

	result := PlanOpResult{Applied: applied, Username: b.ActiveUser(), Week: b.ActiveWeek()}
	if !applied {
		slog.Info("plan_event", "event", "plan_op_declined", "op", input.Op, "username", st.Username)
		return result, nil
	}

	p := b.Extract()
	carryOverStatuses(&p, plans[result.Username])
	if err := p.Validate(); err != nil {
		return PlanOpResult{}, err
	}
	if err := deps.PlanStore.Save(ctx, result.Username, p); err != nil {
		return PlanOpResult{}, fmt.Errorf("save plan: %w", err)
	}

	slog.Info("plan_event", "event", "plan_op_applied",
		"op", input.Op, "username", result.Username, "week", result.Week)
	return result, nil
}

func validDir(dir int) bool { return dir == -1 || dir == 1 }
