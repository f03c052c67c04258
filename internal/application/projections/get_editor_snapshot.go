package projections

import (
	"context"
	"encoding/json"
	"fmt"

	"aura/internal/application/planedit"
	domainPlan "aura/internal/domain/plan"
)

// GetEditorSnapshotResult carries everything the admin panel embeds in the
// page: the decoded snapshot for server-side rendering plus the three JSON
// blobs the in-page editor is hydrated from.
type GetEditorSnapshotResult struct {
	Snapshot     *planedit.Snapshot
	PlansJSON    []byte
	ProgressJSON []byte
	ChatsJSON    []byte
}

// GetEditorSnapshotDeps holds dependencies for GetEditorSnapshot.
type GetEditorSnapshotDeps struct {
	PlanStore PlanStore
	ChatStore ChatStore
}

// QueryGetEditorSnapshot assembles the admin editor's working set: every
// student's plan, the progress rows derived from it, and every chat thread.
// Item check-off fields are blanked in the plans payload — the editor edits
// programming, not results, and must not post stale marks back.
// PRE: Context is valid
// POST: Returns a consistent snapshot; progress is recomputed, never stored
func QueryGetEditorSnapshot(ctx context.Context, deps GetEditorSnapshotDeps) (GetEditorSnapshotResult, error) {
	plans, err := deps.PlanStore.All(ctx)
	if err != nil {
		return GetEditorSnapshotResult{}, fmt.Errorf("load plans: %w", err)
	}
	chats, err := deps.ChatStore.All(ctx)
	if err != nil {
		return GetEditorSnapshotResult{}, fmt.Errorf("load chats: %w", err)
	}

	snap := &planedit.Snapshot{
		Plans:    make(map[string]domainPlan.Plan, len(plans)),
		Progress: make(map[string][]domainPlan.WeekProgress, len(plans)),
		Chats:    chats,
	}
	for username, p := range plans {
		snap.Progress[username] = domainPlan.ProgressRows(p)
		snap.Plans[username] = stripItemMarks(p)
	}

	plansJSON, err := json.Marshal(snap.Plans)
	if err != nil {
		return GetEditorSnapshotResult{}, fmt.Errorf("encode plans: %w", err)
	}
	progressJSON, err := json.Marshal(progressPayload(snap.Progress))
	if err != nil {
		return GetEditorSnapshotResult{}, fmt.Errorf("encode progress: %w", err)
	}
	chatsJSON, err := json.Marshal(snap.Chats)
	if err != nil {
		return GetEditorSnapshotResult{}, fmt.Errorf("encode chats: %w", err)
	}

	return GetEditorSnapshotResult{
		Snapshot:     snap,
		PlansJSON:    plansJSON,
		ProgressJSON: progressJSON,
		ChatsJSON:    chatsJSON,
	}, nil
}

// stripItemMarks blanks item-level check-off fields on a deep copy.
func stripItemMarks(p domainPlan.Plan) domainPlan.Plan {
	out := p.Clone()
	for wi := range out.Weeks {
		for di := range out.Weeks[wi].Days {
			items := out.Weeks[wi].Days[di].Items
			for ii := range items {
				items[ii].Status = ""
				items[ii].StatusNote = ""
				items[ii].StudentNote = ""
			}
		}
	}
	return out
}

// progressPayload wraps each user's rows the way the page consumes them.
func progressPayload(progress map[string][]domainPlan.WeekProgress) map[string]struct {
	Weeks []domainPlan.WeekProgress `json:"weeks"`
} {
	payload := make(map[string]struct {
		Weeks []domainPlan.WeekProgress `json:"weeks"`
	}, len(progress))
	for username, rows := range progress {
		payload[username] = struct {
			Weeks []domainPlan.WeekProgress `json:"weeks"`
		}{Weeks: rows}
	}
	return payload
}
