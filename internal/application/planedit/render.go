package planedit

import (
	"fmt"
	"html"
	"strings"

	"aura/internal/domain/chat"
	"aura/internal/domain/plan"
)

// MaxChatMessages bounds how many messages a thread renders; older entries
// are dropped from the view (never from the data).
const MaxChatMessages = 200

// chatTimeLayout matches the original panel: day-month hour:minute.
const chatTimeLayout = "02-01 15:04"

// ProgressView is the render model for the weekly progress donut.
type ProgressView struct {
	Username string
	Week     int
	plan.Progress
	// DonutStyle carries the CSS custom properties driving the donut
	// chart, e.g. "--done:50;--missed:25;--pending:25".
	DonutStyle string
	// Label is the center text, e.g. "50%".
	Label string
}

// RenderProgress looks up the progress row for (username, week) and builds
// the donut render model. Unknown users or weeks yield the all-zero row.
// Pure function of the snapshot — nothing is mutated.
func (s *Snapshot) RenderProgress(username string, week int) ProgressView {
	view := ProgressView{Username: username, Week: week}
	for _, row := range s.Progress[username] {
		if row.Week == week {
			view.Progress = row.Progress
			break
		}
	}
	view.DonutStyle = fmt.Sprintf("--done:%d;--missed:%d;--pending:%d",
		view.DonePct, view.MissedPct, view.PendingPct)
	view.Label = fmt.Sprintf("%d%%", view.DonePct)
	return view
}

// ChatLine is one rendered chat entry.
type ChatLine struct {
	Author string // display label, not the raw author id
	Own    bool   // written by the viewing side
	Text   string // HTML-escaped
	Time   string // formatted timestamp, "" when unknown
}

// RenderChat builds the chat thread for a username as seen by a role
// ("admin" or "user"). At most the latest MaxChatMessages entries are
// rendered; message text is HTML-escaped so markup in messages stays
// literal text.
func (s *Snapshot) RenderChat(username, role string) []ChatLine {
	messages := s.Chats[username]
	if len(messages) > MaxChatMessages {
		messages = messages[len(messages)-MaxChatMessages:]
	}
	lines := make([]ChatLine, 0, len(messages))
	for _, m := range messages {
		label := "Profesor"
		if m.Author == chat.AuthorStudent {
			label = "Alumno"
		}
		line := ChatLine{
			Author: label,
			Own:    m.IsOwn(role),
			Text:   html.EscapeString(m.Text),
		}
		if ts := m.Timestamp(); !ts.IsZero() {
			line.Time = ts.Format(chatTimeLayout)
		}
		lines = append(lines, line)
	}
	return lines
}

// RenderChatHTML renders the thread as the <li> list the chat panel shows.
func (s *Snapshot) RenderChatHTML(username, role string) string {
	lines := s.RenderChat(username, role)
	if len(lines) == 0 {
		return `<li class="chat-empty">Sin mensajes todavía.</li>`
	}
	var sb strings.Builder
	for _, line := range lines {
		class := "chat-message"
		if line.Own {
			class += " is-own"
		}
		sb.WriteString(`<li class="` + class + `">`)
		sb.WriteString(`<span class="chat-author">` + html.EscapeString(line.Author) + `</span>`)
		sb.WriteString(`<p>` + line.Text + `</p>`)
		if line.Time != "" {
			sb.WriteString(`<span class="chat-time">` + line.Time + `</span>`)
		}
		sb.WriteString(`</li>`)
	}
	return sb.String()
}
