package planedit

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"aura/internal/domain/plan"
)

// Admin section identifiers.
const (
	SectionSummary = "resumen"
	SectionPortal  = "portal"
	SectionContent = "contenido"
	SectionClients = "alumnos"
)

var validSections = map[string]bool{
	SectionSummary: true,
	SectionPortal:  true,
	SectionContent: true,
	SectionClients: true,
}

// ViewState is the router state: exactly one active admin section and one
// active plan week, kept in sync with the page URL so a reload or shared
// link restores the same view. Read-only with respect to plan data.
type ViewState struct {
	Section string
	Week    int
	// User is the student in focus, carried through links into the editor.
	User string
}

// DefaultViewState returns the initial state: summary section, week 1.
func DefaultViewState() ViewState {
	return ViewState{Section: SectionSummary, Week: 1}
}

// ParseViewState restores router state from a URL query and fragment.
// Unknown sections and out-of-range weeks fall back to the defaults; a
// fragment of the form "plan3" selects the week when the query carries
// none.
func ParseViewState(query url.Values, fragment string) ViewState {
	state := DefaultViewState()

	if section := query.Get("admin_section"); validSections[section] {
		state.Section = section
	}
	state.User = strings.TrimSpace(query.Get("plan_user"))

	if week, err := strconv.Atoi(query.Get("plan_week")); err == nil && plan.ValidWeek(week) {
		state.Week = week
		return state
	}
	if rest, ok := strings.CutPrefix(fragment, "plan"); ok {
		if week, err := strconv.Atoi(rest); err == nil && plan.ValidWeek(week) {
			state.Week = week
		}
	}
	return state
}

// Query encodes the state back into URL query values.
func (s ViewState) Query() url.Values {
	q := url.Values{}
	q.Set("admin_section", s.Section)
	if s.User != "" {
		q.Set("plan_user", s.User)
	}
	if s.Week != 1 {
		q.Set("plan_week", strconv.Itoa(s.Week))
	}
	return q
}

// Fragment encodes the active week as a URL fragment ("plan2"), or "plan"
// for week 1 so the link still jumps to the editor.
func (s ViewState) Fragment() string {
	if s.Week == 1 {
		return "plan"
	}
	return fmt.Sprintf("plan%d", s.Week)
}

// EditorLink builds the admin URL for a student's plan editor.
func EditorLink(username string, week int) string {
	state := ViewState{Section: SectionPortal, Week: week, User: username}
	if !plan.ValidWeek(week) {
		state.Week = 1
	}
	return "/admin?" + state.Query().Encode() + "#" + state.Fragment()
}
