package planedit

import (
	"aura/internal/domain/plan"
)

// Direction selects the neighbor slot for a move operation.
type Direction int

// Day moves go left/right along the week; week moves go up/down the plan.
const (
	Left  Direction = -1
	Right Direction = 1
	Up    Direction = -1
	Down  Direction = 1
)

// SlotRef addresses one day slot in a plan (both 1-based).
type SlotRef struct {
	Week int
	Day  int
}

// Buffer is the edit buffer: the live, mutable surface for the one student
// currently in focus. Operations read full source state via extract,
// compute the new arrangement and write full target state via apply, so no
// half-updated state is ever observable. Every operation declines silently
// (returns false) when a selection or source is missing — deliberate for a
// form-driven UI with optional selectors.
type Buffer struct {
	snap       *Snapshot
	form       *FormView
	activeUser string
	activeWeek int
}

// NewBuffer creates an empty buffer over a snapshot with week 1 active.
func NewBuffer(snap *Snapshot) *Buffer {
	if snap == nil {
		snap = &Snapshot{}
	}
	return &Buffer{snap: snap, form: NewFormView(), activeWeek: 1}
}

// ActiveUser returns the username currently loaded, or "" before any load.
func (b *Buffer) ActiveUser() string { return b.activeUser }

// ActiveWeek returns the 1-based active week index.
func (b *Buffer) ActiveWeek() int { return b.activeWeek }

// Form exposes the underlying edit surface.
func (b *Buffer) Form() *FormView { return b.form }

// SetActiveWeek switches the visible week tab. Out-of-range values are
// declined.
func (b *Buffer) SetActiveWeek(week int) bool {
	if !plan.ValidWeek(week) {
		return false
	}
	b.activeWeek = week
	return true
}

// LoadUser replaces the entire buffer with the stored plan of the target
// username, discarding unsaved edits. The active week is preserved across
// the switch. Declines when the username has no stored plan.
func (b *Buffer) LoadUser(username string) bool {
	p, ok := b.snap.PlanFor(username)
	if !ok {
		return false
	}
	b.form = NewFormView()
	b.form.SetPlanTitle(p.Title)
	for n := 1; n <= plan.WeeksPerPlan; n++ {
		if n <= len(p.Weeks) {
			ApplyWeek(b.form.Week(n), p.Weeks[n-1])
		} else {
			ApplyWeek(b.form.Week(n), plan.EmptyWeek(n))
		}
	}
	b.activeUser = username
	return true
}

// Extract reads the whole buffer back into a Plan.
func (b *Buffer) Extract() plan.Plan {
	p := plan.Plan{Title: b.form.PlanTitle()}
	for n := 1; n <= plan.WeeksPerPlan; n++ {
		p.Weeks = append(p.Weeks, ExtractWeek(b.form.Week(n)))
	}
	return p
}

// MoveDay swaps the full day data between day n and its neighbor within the
// active week. Declines when either index leaves [1,7].
func (b *Buffer) MoveDay(day int, dir Direction) bool {
	target := day + int(dir)
	if !plan.ValidDay(day) || !plan.ValidDay(target) {
		return false
	}
	a := b.form.DayAt(b.activeWeek, day)
	c := b.form.DayAt(b.activeWeek, target)
	if a == nil || c == nil {
		return false
	}
	dayData, targetData := ExtractDay(a), ExtractDay(c)
	ApplyDay(a, targetData)
	ApplyDay(c, dayData)
	return true
}

// ClearDay resets a day of the active week to the empty template.
func (b *Buffer) ClearDay(day int) bool {
	v := b.form.DayAt(b.activeWeek, day)
	if v == nil {
		return false
	}
	ApplyDay(v, plan.EmptyDay(day))
	return true
}

// MoveWeek swaps full week data (title plus 7 days) between week n and its
// neighbor. Declines when either index leaves [1,4].
func (b *Buffer) MoveWeek(week int, dir Direction) bool {
	target := week + int(dir)
	if !plan.ValidWeek(week) || !plan.ValidWeek(target) {
		return false
	}
	a, c := b.form.Week(week), b.form.Week(target)
	weekData, targetData := ExtractWeek(a), ExtractWeek(c)
	ApplyWeek(a, targetData)
	ApplyWeek(c, weekData)
	return true
}

// ClearWeek resets a week to the empty template.
func (b *Buffer) ClearWeek(week int) bool {
	v := b.form.Week(week)
	if v == nil {
		return false
	}
	ApplyWeek(v, plan.EmptyWeek(week))
	return true
}

// DuplicateWeek copies a week's data into the adjacent slot: the next week,
// or the previous one when the source is already the last. The adjacency is
// fixed, not user-chosen.
func (b *Buffer) DuplicateWeek(week int) bool {
	if !plan.ValidWeek(week) {
		return false
	}
	target := week + 1
	if target > plan.WeeksPerPlan {
		target = week - 1
	}
	src := ExtractWeek(b.form.Week(week))
	ApplyWeek(b.form.Week(target), src)
	return true
}

// CopyWeekAcrossUsers writes a source user's week into a target user's week
// slot, loading the target user first when needed, and activates the target
// week. Declines when the source plan or week is missing.
func (b *Buffer) CopyWeekAcrossUsers(srcUser string, srcWeek int, dstUser string, dstWeek int) bool {
	if !plan.ValidWeek(srcWeek) || !plan.ValidWeek(dstWeek) {
		return false
	}
	srcPlan, ok := b.planFor(srcUser)
	if !ok || srcWeek > len(srcPlan.Weeks) {
		return false
	}
	week := srcPlan.Weeks[srcWeek-1].Clone()
	if dstUser != b.activeUser && !b.LoadUser(dstUser) {
		return false
	}
	ApplyWeek(b.form.Week(dstWeek), week)
	b.activeWeek = dstWeek
	return true
}

// CopyDayAcross copies one day between arbitrary (user, week, day) slots.
// Declines when any source lookup fails.
func (b *Buffer) CopyDayAcross(srcUser string, src SlotRef, dstUser string, dst SlotRef) bool {
	if !validSlot(src) || !validSlot(dst) {
		return false
	}
	srcPlan, ok := b.planFor(srcUser)
	if !ok || src.Week > len(srcPlan.Weeks) || src.Day > len(srcPlan.Weeks[src.Week-1].Days) {
		return false
	}
	day := srcPlan.Weeks[src.Week-1].Days[src.Day-1].Clone()
	if dstUser != b.activeUser && !b.LoadUser(dstUser) {
		return false
	}
	v := b.form.DayAt(dst.Week, dst.Day)
	if v == nil {
		return false
	}
	ApplyDay(v, day)
	return true
}

// MoveDayAcrossWeeks copies a day of the active buffer into another slot
// and resets the source slot to the empty template — a true move, not a
// copy. Declines when source equals target or either slot is missing.
func (b *Buffer) MoveDayAcrossWeeks(src, dst SlotRef) bool {
	if src == dst || !validSlot(src) || !validSlot(dst) {
		return false
	}
	from := b.form.DayAt(src.Week, src.Day)
	to := b.form.DayAt(dst.Week, dst.Day)
	if from == nil || to == nil {
		return false
	}
	ApplyDay(to, ExtractDay(from))
	ApplyDay(from, plan.EmptyDay(src.Day))
	return true
}

// ClearSlot resets one day slot of the active buffer to the empty template.
func (b *Buffer) ClearSlot(dst SlotRef) bool {
	if !validSlot(dst) {
		return false
	}
	v := b.form.DayAt(dst.Week, dst.Day)
	if v == nil {
		return false
	}
	ApplyDay(v, plan.EmptyDay(dst.Day))
	return true
}

// planFor resolves a username to plan data: the live buffer for the active
// user, the stored snapshot for everyone else.
func (b *Buffer) planFor(username string) (plan.Plan, bool) {
	if username != "" && username == b.activeUser {
		return b.Extract(), true
	}
	return b.snap.PlanFor(username)
}

func validSlot(s SlotRef) bool {
	return plan.ValidWeek(s.Week) && plan.ValidDay(s.Day)
}
