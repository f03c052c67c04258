package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"strings"
	"time"

	"aura/internal/domain/chat"
	"aura/internal/domain/outbox"
	studentDomain "aura/internal/domain/student"
)

// ChatStoreForSend defines the store interface needed by SendChatMessage.
type ChatStoreForSend interface {
	Save(ctx context.Context, m chat.Message) error
}

// StudentStoreForChat defines the student lookup needed by SendChatMessage.
type StudentStoreForChat interface {
	GetByUsername(ctx context.Context, username string) (studentDomain.Student, error)
}

// SendChatMessageInput carries input for the send chat message orchestrator.
type SendChatMessageInput struct {
	Username string
	Author   string // chat.AuthorCoach or chat.AuthorStudent
	Text     string
	// AdminEmail receives the notification when a student writes.
	AdminEmail string
}

// SendChatMessageDeps holds dependencies for SendChatMessage.
type SendChatMessageDeps struct {
	ChatStore    ChatStoreForSend
	StudentStore StudentStoreForChat
	// OutboxStore is optional; when set, the counterpart is notified.
	OutboxStore OutboxStoreForEnqueue
	GenerateID  func() string
	Now         func() time.Time
}

var (
	ErrEmptyMessage   = errors.New("message text is required")
	ErrMessageTooLong = errors.New("message text is too long")
)

// ExecuteSendChatMessage appends a message to a student's thread.
// PRE: Username names an existing student; Author is a valid author
// POST: Message persisted with a server-side timestamp
func ExecuteSendChatMessage(ctx context.Context, input SendChatMessageInput, deps SendChatMessageDeps) (chat.Message, error) {
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return chat.Message{}, ErrEmptyMessage
	}
	if len(text) > chat.MaxTextLength {
		return chat.Message{}, ErrMessageTooLong
	}
	st, err := deps.StudentStore.GetByUsername(ctx, input.Username)
	if err != nil {
		return chat.Message{}, ErrUnknownStudent
	}

	m := chat.Message{
		ID:        deps.GenerateID(),
		Username:  st.Username,
		Author:    input.Author,
		Text:      text,
		CreatedAt: deps.Now().Unix(),
	}
	if err := m.Validate(); err != nil {
		return chat.Message{}, err
	}
	if err := deps.ChatStore.Save(ctx, m); err != nil {
		return chat.Message{}, err
	}

	slog.Info("chat_event", "event", "message_sent", "username", st.Username, "author", m.Author)

	// Tell the counterpart. A failed enqueue never fails the send.
	if deps.OutboxStore != nil {
		to := st.Email
		subject := "Tu entrenador te ha escrito"
		if input.Author == chat.AuthorStudent {
			to = input.AdminEmail
			subject = "Nuevo mensaje de " + st.Username
		}
		if to != "" {
			entry := outbox.Entry{
				ID:          deps.GenerateID(),
				To:          to,
				Subject:     subject,
				HTML:        chatNotificationEmail(st.Username, text),
				Status:      outbox.StatusPending,
				MaxAttempts: outbox.DefaultMaxAttempts,
				CreatedAt:   deps.Now(),
			}
			if err := deps.OutboxStore.Save(ctx, entry); err != nil {
				slog.Error("chat_event", "event", "notify_failed", "username", st.Username, "error", err.Error())
			}
		}
	}
	return m, nil
}

func chatNotificationEmail(username, text string) string {
	return fmt.Sprintf(
		"<p>Hay un mensaje nuevo en el chat de <strong>%s</strong>:</p><blockquote>%s</blockquote>",
		html.EscapeString(username), html.EscapeString(text))
}
