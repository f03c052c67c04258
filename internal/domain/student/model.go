package student

import (
	"errors"
	"strings"
	"time"
)

// Max length constants for user-editable fields.
const (
	MaxUsernameLength = 60
	MaxGoalLength     = 500
)

// Business rule constants
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

// Domain errors
var (
	ErrEmptyUsername   = errors.New("username cannot be empty")
	ErrInvalidEmail    = errors.New("student email must be valid")
	ErrEmptyGoal       = errors.New("training goal cannot be empty")
	ErrAlreadyApproved = errors.New("student is already approved")
	ErrNotApproved     = errors.New("student is not approved")
)

// Student holds a coaching client: the public application data plus the
// approval state. The username keys the student's plan, progress and chat
// thread everywhere in the system.
type Student struct {
	ID        string
	AccountID string
	Username  string
	Email     string
	Skill     string // skill the student wants to unlock (e.g. "dominada")
	Level     string // self-reported starting level
	Goal      string
	Concerns  string
	Status    string
	CreatedAt time.Time
}

// Validate checks if the Student has valid data.
// PRE: Student struct is initialized
// POST: Returns error if validation fails, nil otherwise
// INVARIANT: Email must contain '@', Username must not be empty
func (s *Student) Validate() error {
	if strings.TrimSpace(s.Username) == "" {
		return ErrEmptyUsername
	}
	if len(s.Username) > MaxUsernameLength {
		return errors.New("username cannot exceed 60 characters")
	}
	if !strings.Contains(s.Email, "@") {
		return ErrInvalidEmail
	}
	if strings.TrimSpace(s.Goal) == "" {
		return ErrEmptyGoal
	}
	if len(s.Goal) > MaxGoalLength {
		return errors.New("training goal cannot exceed 500 characters")
	}
	if s.Status != StatusPending && s.Status != StatusApproved {
		return errors.New("status must be 'pending' or 'approved'")
	}
	return nil
}

// IsApproved returns true if the student has portal access.
// INVARIANT: Status field is not mutated
func (s *Student) IsApproved() bool {
	return s.Status == StatusApproved
}

// Approve grants portal access.
// PRE: Student is pending
// POST: Status is set to approved
func (s *Student) Approve() error {
	if s.Status == StatusApproved {
		return ErrAlreadyApproved
	}
	s.Status = StatusApproved
	return nil
}

// NormalizeUsername lowercases and trims a username for lookups. Usernames
// are stored as entered but compared case-insensitively.
func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}
