package chat_test

import (
	"strings"
	"testing"

	"aura/internal/domain/chat"
)

// TestMessage_Validate tests validation of chat messages.
func TestMessage_Validate(t *testing.T) {
	tests := []struct {
		name    string
		msg     chat.Message
		wantErr error
	}{
		{
			name: "valid coach message",
			msg:  chat.Message{ID: "1", Username: "marco", Author: chat.AuthorCoach, Text: "Buen trabajo"},
		},
		{
			name: "valid student message",
			msg:  chat.Message{ID: "2", Username: "marco", Author: chat.AuthorStudent, Text: "Gracias", CreatedAt: 1700000000},
		},
		{
			name:    "empty username",
			msg:     chat.Message{Author: chat.AuthorCoach, Text: "hola"},
			wantErr: chat.ErrEmptyUsername,
		},
		{
			name:    "blank text",
			msg:     chat.Message{Username: "marco", Author: chat.AuthorCoach, Text: "   "},
			wantErr: chat.ErrEmptyText,
		},
		{
			name:    "text too long",
			msg:     chat.Message{Username: "marco", Author: chat.AuthorCoach, Text: strings.Repeat("a", chat.MaxTextLength+1)},
			wantErr: chat.ErrTextTooLong,
		},
		{
			name:    "unknown author",
			msg:     chat.Message{Username: "marco", Author: "bot", Text: "hola"},
			wantErr: chat.ErrInvalidAuthor,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestSortMessages tests chronological ordering with stable ties.
func TestSortMessages(t *testing.T) {
	msgs := []chat.Message{
		{ID: "c", CreatedAt: 300},
		{ID: "a1", CreatedAt: 0},
		{ID: "b", CreatedAt: 100},
		{ID: "a2", CreatedAt: 0},
	}
	chat.SortMessages(msgs)
	want := []string{"a1", "a2", "b", "c"}
	for i, id := range want {
		if msgs[i].ID != id {
			t.Errorf("position %d = %s, want %s", i, msgs[i].ID, id)
		}
	}
}

// TestMessage_IsOwn tests own-message detection per viewer role.
func TestMessage_IsOwn(t *testing.T) {
	coach := chat.Message{Author: chat.AuthorCoach}
	student := chat.Message{Author: chat.AuthorStudent}
	if !coach.IsOwn("admin") || student.IsOwn("admin") {
		t.Error("admin view should own coach messages only")
	}
	if coach.IsOwn("user") || !student.IsOwn("user") {
		t.Error("student view should own student messages only")
	}
}

// TestMessage_Timestamp tests zero handling for unknown timestamps.
func TestMessage_Timestamp(t *testing.T) {
	m := chat.Message{CreatedAt: 0}
	if !m.Timestamp().IsZero() {
		t.Error("zero created_at should yield zero time")
	}
	m.CreatedAt = 1700000000
	if m.Timestamp().Unix() != 1700000000 {
		t.Errorf("Timestamp().Unix() = %d", m.Timestamp().Unix())
	}
}
