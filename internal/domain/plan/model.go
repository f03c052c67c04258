package plan

import (
	"errors"
	"fmt"
	"strings"
)

// Fixed plan shape: every plan has 4 weeks, every week has 7 day slots.
const (
	WeeksPerPlan = 4
	DaysPerWeek  = 7
)

// Item status constants (portal check-off).
const (
	StatusDone   = "done"
	StatusMissed = "missed"
)

// Domain errors
var (
	ErrWeekOutOfRange = errors.New("week number must be between 1 and 4")
	ErrDayOutOfRange  = errors.New("day number must be between 1 and 7")
	ErrInvalidStatus  = errors.New("status must be 'done', 'missed' or empty")
	ErrEmptyPlanTitle = errors.New("plan title cannot be empty")
)

// Item is one exercise entry in a training day. All fields are free-form
// text; Rest here is the rest interval between sets, not the day-level
// rest flag.
type Item struct {
	Exercise string `json:"exercise"`
	Sets     string `json:"sets"`
	Reps     string `json:"reps"`
	Weight   string `json:"weight"`
	Rest     string `json:"rest"`
	Notes    string `json:"notes"`

	// Portal check-off state, written by the student.
	Status      string `json:"status"` // "", "done" or "missed"
	StatusNote  string `json:"status_note"`
	StudentNote string `json:"student_note"`
}

// IsEmpty reports whether the item carries no exercise. Items with no
// exercise name are dropped on normalization and extraction.
func (i Item) IsEmpty() bool {
	return strings.TrimSpace(i.Exercise) == ""
}

// Day is a single training day. Rest=true disables editing of items in the
// UI but does not clear them; stale item data may persist underneath the
// flag.
type Day struct {
	Title string `json:"title"`
	Rest  bool   `json:"rest"`
	Items []Item `json:"items"`

	// Portal check-off state for the whole day.
	Status     string `json:"status"` // "", "done" or "missed"
	StatusNote string `json:"status_note"`
	Feedback   string `json:"feedback"`
}

// Week is a 7-day container with its own title and a student-written
// summary note.
type Week struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Days    []Day  `json:"days"`
}

// Plan is a student's full training program.
type Plan struct {
	Title string `json:"title"`
	Weeks []Week `json:"weeks"`
}

// EmptyDay returns the empty day template for slot n (1-based).
func EmptyDay(n int) Day {
	return Day{Title: fmt.Sprintf("Día %d", n)}
}

// EmptyWeek returns the empty week template for slot n (1-based): a fresh
// title and 7 empty days.
func EmptyWeek(n int) Week {
	w := Week{Title: fmt.Sprintf("Semana %d", n), Days: make([]Day, 0, DaysPerWeek)}
	for d := 1; d <= DaysPerWeek; d++ {
		w.Days = append(w.Days, EmptyDay(d))
	}
	return w
}

// ValidStatus reports whether s is an allowed check-off status.
func ValidStatus(s string) bool {
	return s == "" || s == StatusDone || s == StatusMissed
}

// ValidWeek reports whether n is a valid 1-based week number.
func ValidWeek(n int) bool {
	return n >= 1 && n <= WeeksPerPlan
}

// ValidDay reports whether n is a valid 1-based day number.
func ValidDay(n int) bool {
	return n >= 1 && n <= DaysPerWeek
}

// Clone returns a deep copy of the plan. Buffers and stored snapshots must
// never alias each other's week/day/item slices.
func (p Plan) Clone() Plan {
	out := Plan{Title: p.Title, Weeks: make([]Week, len(p.Weeks))}
	for i, w := range p.Weeks {
		out.Weeks[i] = w.Clone()
	}
	return out
}

// Clone returns a deep copy of the week.
func (w Week) Clone() Week {
	out := Week{Title: w.Title, Summary: w.Summary, Days: make([]Day, len(w.Days))}
	for i, d := range w.Days {
		out.Days[i] = d.Clone()
	}
	return out
}

// Clone returns a deep copy of the day.
func (d Day) Clone() Day {
	out := d
	out.Items = make([]Item, len(d.Items))
	copy(out.Items, d.Items)
	return out
}

// Validate checks if the Plan has valid data.
// PRE: Plan struct is populated (normalized or hand-built)
// POST: Returns nil if valid, error otherwise
func (p *Plan) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyPlanTitle
	}
	if len(p.Weeks) != WeeksPerPlan {
		return fmt.Errorf("plan must have exactly %d weeks, got %d", WeeksPerPlan, len(p.Weeks))
	}
	for wi, w := range p.Weeks {
		if len(w.Days) != DaysPerWeek {
			return fmt.Errorf("week %d must have exactly %d days, got %d", wi+1, DaysPerWeek, len(w.Days))
		}
		for di, d := range w.Days {
			if !ValidStatus(d.Status) {
				return fmt.Errorf("week %d day %d: %w", wi+1, di+1, ErrInvalidStatus)
			}
			for _, item := range d.Items {
				if !ValidStatus(item.Status) {
					return fmt.Errorf("week %d day %d: %w", wi+1, di+1, ErrInvalidStatus)
				}
			}
		}
	}
	return nil
}
