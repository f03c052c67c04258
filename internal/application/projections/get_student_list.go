package projections

import (
	"context"
	"fmt"

	"aura/internal/adapters/storage/student"
	domainPlan "aura/internal/domain/plan"
	domainStudent "aura/internal/domain/student"
)

// StudentRow is one row of the admin student list.
type StudentRow struct {
	domainStudent.Student
	// OverallDonePct aggregates done percentage across the whole plan,
	// zero when no plan is stored yet.
	OverallDonePct int
}

// GetStudentListResult carries the query result.
type GetStudentListResult struct {
	Pending  []StudentRow
	Approved []StudentRow
}

// GetStudentListDeps holds dependencies for GetStudentList.
type GetStudentListDeps struct {
	StudentStore StudentStore
	PlanStore    PlanStore
}

// QueryGetStudentList retrieves all students grouped by approval state,
// with a per-student completion figure for the approved ones.
// PRE: Context is valid
// POST: Rows are ordered by username within each group
func QueryGetStudentList(ctx context.Context, deps GetStudentListDeps) (GetStudentListResult, error) {
	students, err := deps.StudentStore.List(ctx, student.ListFilter{})
	if err != nil {
		return GetStudentListResult{}, fmt.Errorf("load students: %w", err)
	}
	plans, err := deps.PlanStore.All(ctx)
	if err != nil {
		return GetStudentListResult{}, fmt.Errorf("load plans: %w", err)
	}

	var result GetStudentListResult
	for _, st := range students {
		row := StudentRow{Student: st}
		if p, ok := plans[st.Username]; ok {
			row.OverallDonePct = overallDonePct(p)
		}
		if st.IsApproved() {
			result.Approved = append(result.Approved, row)
		} else {
			result.Pending = append(result.Pending, row)
		}
	}
	return result, nil
}

// overallDonePct aggregates progress over all four weeks.
func overallDonePct(p domainPlan.Plan) int {
	var total, done int
	for _, w := range p.Weeks {
		prog := domainPlan.ComputeWeekProgress(w)
		total += prog.Total
		done += prog.Done
	}
	if total == 0 {
		return 0
	}
	return int(float64(done)/float64(total)*100 + 0.5)
}
