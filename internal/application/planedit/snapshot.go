// Package planedit implements the coach's plan editor: a snapshot of every
// student's plan/progress/chat data, an edit buffer for the one student in
// focus, and the structural operations (move, copy, duplicate, clear) the
// editor offers. All failure paths degrade to "do nothing" — the editor
// never surfaces errors for missing selections.
package planedit

import (
	"encoding/json"

	"aura/internal/domain/chat"
	"aura/internal/domain/plan"
)

// Snapshot is the page-load-time view of all students. Plans are the stored
// (saved) versions; the edit buffer for the active student may diverge until
// saved. Progress and chat data are read-only here.
type Snapshot struct {
	Plans    map[string]plan.Plan
	Progress map[string][]plan.WeekProgress
	Chats    map[string][]chat.Message
}

// LoadSnapshot builds a Snapshot from the three embedded JSON blobs.
// Malformed or empty input degrades to an empty mapping for that blob;
// loading never fails.
func LoadSnapshot(plansJSON, progressJSON, chatsJSON []byte) *Snapshot {
	return &Snapshot{
		Plans:    ParsePlans(plansJSON),
		Progress: ParseProgress(progressJSON),
		Chats:    ParseChats(chatsJSON),
	}
}

// ParsePlans decodes a username -> plan mapping. Every decoded plan is
// normalized to the fixed 4x7 shape.
func ParsePlans(blob []byte) map[string]plan.Plan {
	out := make(map[string]plan.Plan)
	var raw map[string]any
	if len(blob) == 0 || json.Unmarshal(blob, &raw) != nil {
		return out
	}
	for username, rawPlan := range raw {
		if username == "" {
			continue
		}
		out[username] = plan.Normalize(rawPlan)
	}
	return out
}

// ParseProgress decodes a username -> {weeks: [row]} mapping.
func ParseProgress(blob []byte) map[string][]plan.WeekProgress {
	out := make(map[string][]plan.WeekProgress)
	var raw map[string]struct {
		Weeks []plan.WeekProgress `json:"weeks"`
	}
	if len(blob) == 0 || json.Unmarshal(blob, &raw) != nil {
		return out
	}
	for username, payload := range raw {
		if username == "" {
			continue
		}
		out[username] = payload.Weeks
	}
	return out
}

// ParseChats decodes a username -> message list mapping and orders each
// thread chronologically.
func ParseChats(blob []byte) map[string][]chat.Message {
	out := make(map[string][]chat.Message)
	var raw map[string][]chat.Message
	if len(blob) == 0 || json.Unmarshal(blob, &raw) != nil {
		return out
	}
	for username, messages := range raw {
		if username == "" {
			continue
		}
		chat.SortMessages(messages)
		out[username] = messages
	}
	return out
}

// PlanFor returns the stored plan for a username.
func (s *Snapshot) PlanFor(username string) (plan.Plan, bool) {
	p, ok := s.Plans[username]
	return p, ok
}
