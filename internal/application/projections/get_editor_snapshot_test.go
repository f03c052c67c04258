package projections

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"aura/internal/adapters/storage/student"
	"aura/internal/application/planedit"
	domainChat "aura/internal/domain/chat"
	domainPlan "aura/internal/domain/plan"
	domainStudent "aura/internal/domain/student"
)

var fixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// mockPlanStore implements PlanStore for testing.
type mockPlanStore struct {
	plans map[string]domainPlan.Plan
}

func (m *mockPlanStore) GetByUsername(_ context.Context, username string) (domainPlan.Plan, error) {
	p, ok := m.plans[username]
	if !ok {
		return domainPlan.Plan{}, sql.ErrNoRows
	}
	return p, nil
}

func (m *mockPlanStore) All(_ context.Context) (map[string]domainPlan.Plan, error) {
	return m.plans, nil
}

// mockChatStore implements ChatStore for testing.
type mockChatStore struct {
	threads map[string][]domainChat.Message
}

func (m *mockChatStore) ListByUsername(_ context.Context, username string) ([]domainChat.Message, error) {
	return m.threads[username], nil
}

func (m *mockChatStore) All(_ context.Context) (map[string][]domainChat.Message, error) {
	return m.threads, nil
}

// mockStudentStore implements StudentStore for testing.
type mockStudentStore struct {
	students []domainStudent.Student
}

func (m *mockStudentStore) GetByUsername(_ context.Context, username string) (domainStudent.Student, error) {
	for _, s := range m.students {
		if domainStudent.NormalizeUsername(s.Username) == domainStudent.NormalizeUsername(username) {
			return s, nil
		}
	}
	return domainStudent.Student{}, errors.New("not found")
}

func (m *mockStudentStore) List(_ context.Context, _ student.ListFilter) ([]domainStudent.Student, error) {
	return m.students, nil
}

func (m *mockStudentStore) Count(_ context.Context) (int, error) {
	return len(m.students), nil
}

func markedPlan() domainPlan.Plan {
	p := domainPlan.DefaultPlan()
	p.Weeks[0].Days[0].Status = domainPlan.StatusDone
	p.Weeks[0].Days[0].Items[0].Status = domainPlan.StatusDone
	p.Weeks[0].Days[0].Items[0].StudentNote = "fácil"
	return p
}

func TestQueryGetEditorSnapshot(t *testing.T) {
	deps := GetEditorSnapshotDeps{
		PlanStore: &mockPlanStore{plans: map[string]domainPlan.Plan{"lucia": markedPlan()}},
		ChatStore: &mockChatStore{threads: map[string][]domainChat.Message{
			"lucia": {{ID: "m1", Username: "lucia", Author: domainChat.AuthorCoach, Text: "hola", CreatedAt: fixedTime.Unix()}},
		}},
	}

	result, err := QueryGetEditorSnapshot(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Item marks are blanked in the editor payload, day marks survive
	got := result.Snapshot.Plans["lucia"]
	if got.Weeks[0].Days[0].Items[0].Status != "" || got.Weeks[0].Days[0].Items[0].StudentNote != "" {
		t.Errorf("item marks leaked into editor payload: %+v", got.Weeks[0].Days[0].Items[0])
	}
	if got.Weeks[0].Days[0].Status != domainPlan.StatusDone {
		t.Error("day mark lost from editor payload")
	}

	rows := result.Snapshot.Progress["lucia"]
	if len(rows) != domainPlan.WeeksPerPlan {
		t.Fatalf("got %d progress rows", len(rows))
	}
	if rows[0].Done != 1 {
		t.Errorf("week 1 progress = %+v", rows[0])
	}

	if len(result.Snapshot.Chats["lucia"]) != 1 {
		t.Errorf("chat thread missing")
	}
}

// TestQueryGetEditorSnapshot_BlobsHydrate tests that the emitted JSON blobs
// decode back through the editor's own loader.
func TestQueryGetEditorSnapshot_BlobsHydrate(t *testing.T) {
	deps := GetEditorSnapshotDeps{
		PlanStore: &mockPlanStore{plans: map[string]domainPlan.Plan{"lucia": markedPlan()}},
		ChatStore: &mockChatStore{threads: map[string][]domainChat.Message{}},
	}
	result, err := QueryGetEditorSnapshot(context.Background(), deps)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := planedit.LoadSnapshot(result.PlansJSON, result.ProgressJSON, result.ChatsJSON)
	p, ok := snap.PlanFor("lucia")
	if !ok {
		t.Fatal("plan lost in round trip")
	}
	if err := p.Validate(); err != nil {
		t.Errorf("hydrated plan invalid: %v", err)
	}
	if len(snap.Progress["lucia"]) != domainPlan.WeeksPerPlan {
		t.Errorf("progress rows lost in round trip")
	}
}

// TestQueryGetEditorSnapshot_MutationIsolated tests that blanking marks for
// the payload never touches the stored plan.
func TestQueryGetEditorSnapshot_MutationIsolated(t *testing.T) {
	store := &mockPlanStore{plans: map[string]domainPlan.Plan{"lucia": markedPlan()}}
	deps := GetEditorSnapshotDeps{
		PlanStore: store,
		ChatStore: &mockChatStore{threads: map[string][]domainChat.Message{}},
	}
	if _, err := QueryGetEditorSnapshot(context.Background(), deps); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.plans["lucia"].Weeks[0].Days[0].Items[0].Status != domainPlan.StatusDone {
		t.Error("stored plan mutated by the projection")
	}
}
