package planedit_test

import (
	"net/url"
	"testing"

	"aura/internal/application/planedit"
)

func TestParseViewState(t *testing.T) {
	tests := []struct {
		name     string
		rawQuery string
		fragment string
		want     planedit.ViewState
	}{
		{
			name: "empty query falls back to defaults",
			want: planedit.ViewState{Section: planedit.SectionSummary, Week: 1},
		},
		{
			name:     "section and week from query",
			rawQuery: "admin_section=portal&plan_week=3&plan_user=lucia",
			want:     planedit.ViewState{Section: planedit.SectionPortal, Week: 3, User: "lucia"},
		},
		{
			name:     "unknown section falls back",
			rawQuery: "admin_section=ajustes",
			want:     planedit.ViewState{Section: planedit.SectionSummary, Week: 1},
		},
		{
			name:     "out-of-range week falls back",
			rawQuery: "plan_week=9",
			want:     planedit.ViewState{Section: planedit.SectionSummary, Week: 1},
		},
		{
			name:     "fragment selects the week when the query has none",
			fragment: "plan4",
			want:     planedit.ViewState{Section: planedit.SectionSummary, Week: 4},
		},
		{
			name:     "query week wins over fragment",
			rawQuery: "plan_week=2",
			fragment: "plan4",
			want:     planedit.ViewState{Section: planedit.SectionSummary, Week: 2},
		},
		{
			name:     "garbage fragment ignored",
			fragment: "plan99",
			want:     planedit.ViewState{Section: planedit.SectionSummary, Week: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := url.ParseQuery(tt.rawQuery)
			if err != nil {
				t.Fatalf("bad query: %v", err)
			}
			got := planedit.ParseViewState(query, tt.fragment)
			if got != tt.want {
				t.Errorf("got %+v, want %+v", got, tt.want)
			}
		})
	}
}

// TestViewStateRoundTrip tests that a state survives encoding into a URL
// and parsing back.
func TestViewStateRoundTrip(t *testing.T) {
	states := []planedit.ViewState{
		{Section: planedit.SectionPortal, Week: 2, User: "lucia"},
		{Section: planedit.SectionClients, Week: 1},
		{Section: planedit.SectionContent, Week: 4, User: "mateo"},
	}
	for _, want := range states {
		got := planedit.ParseViewState(want.Query(), want.Fragment())
		if got != want {
			t.Errorf("round trip: got %+v, want %+v", got, want)
		}
	}
}

func TestEditorLink(t *testing.T) {
	link := planedit.EditorLink("lucia", 3)
	u, err := url.Parse(link)
	if err != nil {
		t.Fatalf("bad link: %v", err)
	}
	q := u.Query()
	if q.Get("admin_section") != planedit.SectionPortal {
		t.Errorf("section = %q", q.Get("admin_section"))
	}
	if q.Get("plan_user") != "lucia" || q.Get("plan_week") != "3" {
		t.Errorf("query = %q", u.RawQuery)
	}
	if u.Fragment != "plan3" {
		t.Errorf("fragment = %q", u.Fragment)
	}

	if got, err := url.Parse(planedit.EditorLink("lucia", 0)); err != nil || got.Query().Get("plan_week") != "" {
		t.Errorf("invalid week not defaulted: %v %q", err, got.RawQuery)
	}
}
