package chat

import (
	"errors"
	"sort"
	"strings"
	"time"
)

// Author constants. The coach side of every thread is the admin account;
// the student side is identified by the thread's username.
const (
	AuthorCoach   = "coach"
	AuthorStudent = "user"
)

// MaxTextLength caps a single chat message.
const MaxTextLength = 2000

// Domain errors
var (
	ErrEmptyUsername = errors.New("chat username is required")
	ErrEmptyText     = errors.New("chat message text cannot be empty")
	ErrTextTooLong   = errors.New("chat message exceeds 2000 characters")
	ErrInvalidAuthor = errors.New("author must be 'coach' or 'user'")
)

// Message is one entry in a coach/student thread. Threads are keyed by the
// student's username and ordered by CreatedAt (unix seconds; zero means the
// timestamp is unknown and is omitted from rendering).
type Message struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Author    string `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"created_at"`
}

// Validate checks if the Message has valid data.
// PRE: Message struct is populated
// POST: Returns nil if valid, error otherwise
func (m *Message) Validate() error {
	if strings.TrimSpace(m.Username) == "" {
		return ErrEmptyUsername
	}
	if strings.TrimSpace(m.Text) == "" {
		return ErrEmptyText
	}
	if len(m.Text) > MaxTextLength {
		return ErrTextTooLong
	}
	if m.Author != AuthorCoach && m.Author != AuthorStudent {
		return ErrInvalidAuthor
	}
	return nil
}

// IsOwn reports whether the message was written by the given role's side of
// the thread ("admin" sees coach messages as own, "user" sees student ones).
func (m *Message) IsOwn(role string) bool {
	if role == "admin" {
		return m.Author == AuthorCoach
	}
	return m.Author == AuthorStudent
}

// SortMessages orders messages by creation time, oldest first. Messages
// with equal or unknown timestamps keep their stored order.
func SortMessages(messages []Message) {
	sort.SliceStable(messages, func(i, j int) bool {
		return messages[i].CreatedAt < messages[j].CreatedAt
	})
}

// Timestamp returns the message time, or the zero time when unknown.
func (m *Message) Timestamp() time.Time {
	if m.CreatedAt <= 0 {
		return time.Time{}
	}
	return time.Unix(m.CreatedAt, 0)
}
