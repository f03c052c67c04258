package planedit_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"aura/internal/application/planedit"
	"aura/internal/domain/chat"
	"aura/internal/domain/plan"
)

func TestRenderProgress(t *testing.T) {
	snap := &planedit.Snapshot{
		Progress: map[string][]plan.WeekProgress{
			"lucia": {
				{Week: 1, Progress: plan.Progress{Total: 4, Done: 2, Missed: 1, Pending: 1, DonePct: 50, MissedPct: 25, PendingPct: 25}},
			},
		},
	}

	view := snap.RenderProgress("lucia", 1)
	if view.DonutStyle != "--done:50;--missed:25;--pending:25" {
		t.Errorf("donut style = %q", view.DonutStyle)
	}
	if view.Label != "50%" {
		t.Errorf("label = %q", view.Label)
	}
}

// TestRenderProgress_UnknownDefaultsToZero tests that the donut never
// errors: unknown users and weeks render the all-zero row.
func TestRenderProgress_UnknownDefaultsToZero(t *testing.T) {
	snap := &planedit.Snapshot{}

	for _, tt := range []struct {
		user string
		week int
	}{
		{"nadie", 1},
		{"lucia", 9},
	} {
		view := snap.RenderProgress(tt.user, tt.week)
		if view.DonutStyle != "--done:0;--missed:0;--pending:0" {
			t.Errorf("(%q, %d) donut style = %q", tt.user, tt.week, view.DonutStyle)
		}
		if view.Label != "0%" {
			t.Errorf("(%q, %d) label = %q", tt.user, tt.week, view.Label)
		}
	}
}

func chatAt(author, text string, ts time.Time) chat.Message {
	return chat.Message{Username: "lucia", Author: author, Text: text, CreatedAt: ts.Unix()}
}

func TestRenderChat(t *testing.T) {
	base := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	snap := &planedit.Snapshot{
		Chats: map[string][]chat.Message{
			"lucia": {
				chatAt(chat.AuthorCoach, "Buen trabajo", base),
				chatAt(chat.AuthorStudent, "Gracias!", base.Add(time.Minute)),
			},
		},
	}

	lines := snap.RenderChat("lucia", "user")
	if len(lines) != 2 {
		t.Fatalf("got %d lines", len(lines))
	}
	if lines[0].Author != "Profesor" || lines[0].Own {
		t.Errorf("coach line = %+v", lines[0])
	}
	if lines[1].Author != "Alumno" || !lines[1].Own {
		t.Errorf("student line = %+v", lines[1])
	}
	if want := time.Unix(base.Unix(), 0).Format("02-01 15:04"); lines[0].Time != want {
		t.Errorf("time = %q, want %q", lines[0].Time, want)
	}
}

// TestRenderChat_EscapesMarkup tests that message text renders as literal
// text, never as markup.
func TestRenderChat_EscapesMarkup(t *testing.T) {
	snap := &planedit.Snapshot{
		Chats: map[string][]chat.Message{
			"lucia": {chatAt(chat.AuthorStudent, `<script>alert("x")</script>`, time.Now())},
		},
	}

	lines := snap.RenderChat("lucia", "admin")
	if strings.Contains(lines[0].Text, "<script>") {
		t.Fatalf("markup survived escaping: %q", lines[0].Text)
	}
	if !strings.Contains(lines[0].Text, "&lt;script&gt;") {
		t.Errorf("text = %q", lines[0].Text)
	}

	html := snap.RenderChatHTML("lucia", "admin")
	if strings.Contains(html, "<script>") {
		t.Errorf("markup survived into the rendered list: %q", html)
	}
}

// TestRenderChat_CapsAtLatest tests the render cap: only the newest
// MaxChatMessages entries appear, oldest dropped first.
func TestRenderChat_CapsAtLatest(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	var messages []chat.Message
	for i := 0; i < planedit.MaxChatMessages+25; i++ {
		messages = append(messages, chatAt(chat.AuthorCoach, fmt.Sprintf("msg %d", i), base.Add(time.Duration(i)*time.Minute)))
	}
	snap := &planedit.Snapshot{Chats: map[string][]chat.Message{"lucia": messages}}

	lines := snap.RenderChat("lucia", "admin")
	if len(lines) != planedit.MaxChatMessages {
		t.Fatalf("got %d lines, want %d", len(lines), planedit.MaxChatMessages)
	}
	if lines[0].Text != "msg 25" {
		t.Errorf("first rendered line = %q, want the oldest surviving message", lines[0].Text)
	}
	if last := lines[len(lines)-1].Text; last != fmt.Sprintf("msg %d", planedit.MaxChatMessages+24) {
		t.Errorf("last rendered line = %q", last)
	}
}

func TestRenderChatHTML_Empty(t *testing.T) {
	snap := &planedit.Snapshot{}
	got := snap.RenderChatHTML("lucia", "admin")
	if !strings.Contains(got, "Sin mensajes") {
		t.Errorf("empty thread = %q", got)
	}
}
