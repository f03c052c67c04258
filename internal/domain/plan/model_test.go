package plan_test

import (
	"encoding/json"
	"testing"

	"aura/internal/domain/plan"
)

// TestEmptyWeek_Shape tests the empty week template.
func TestEmptyWeek_Shape(t *testing.T) {
	w := plan.EmptyWeek(3)
	if w.Title != "Semana 3" {
		t.Errorf("EmptyWeek(3) title = %q, want %q", w.Title, "Semana 3")
	}
	if len(w.Days) != plan.DaysPerWeek {
		t.Fatalf("EmptyWeek(3) has %d days, want %d", len(w.Days), plan.DaysPerWeek)
	}
	for i, d := range w.Days {
		if d.Rest {
			t.Errorf("day %d of empty week has rest flag set", i+1)
		}
		if len(d.Items) != 0 {
			t.Errorf("day %d of empty week has %d items, want 0", i+1, len(d.Items))
		}
	}
	if w.Days[0].Title != "Día 1" || w.Days[6].Title != "Día 7" {
		t.Errorf("empty day titles = %q..%q, want Día 1..Día 7", w.Days[0].Title, w.Days[6].Title)
	}
}

// TestDefaultPlan_Validates tests that the stock program is well-formed.
func TestDefaultPlan_Validates(t *testing.T) {
	p := plan.DefaultPlan()
	if err := p.Validate(); err != nil {
		t.Fatalf("DefaultPlan().Validate() = %v, want nil", err)
	}
	if len(p.Weeks) != plan.WeeksPerPlan {
		t.Errorf("default plan has %d weeks, want %d", len(p.Weeks), plan.WeeksPerPlan)
	}
	for wi, w := range p.Weeks {
		for di, d := range w.Days {
			if len(d.Items) != 1 {
				t.Errorf("week %d day %d has %d items, want 1", wi+1, di+1, len(d.Items))
			}
		}
	}
}

// TestNormalize tests coercion of raw JSON shapes into the fixed 4x7 plan.
func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		json string
	}{
		{name: "null input", json: `null`},
		{name: "not an object", json: `[1,2,3]`},
		{name: "empty object", json: `{}`},
		{name: "short weeks", json: `{"title":"Mi plan","weeks":[{"title":"W1","days":["press"]}]}`},
		{name: "day as string list", json: `{"weeks":[{"days":[["flexiones","fondos"]]}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var raw any
			if err := json.Unmarshal([]byte(tt.json), &raw); err != nil {
				t.Fatalf("bad test fixture: %v", err)
			}
			p := plan.Normalize(raw)
			if err := p.Validate(); err != nil {
				t.Errorf("Normalize(%s).Validate() = %v, want nil", tt.name, err)
			}
			if len(p.Weeks) != plan.WeeksPerPlan {
				t.Errorf("got %d weeks, want %d", len(p.Weeks), plan.WeeksPerPlan)
			}
			for _, w := range p.Weeks {
				if len(w.Days) != plan.DaysPerWeek {
					t.Errorf("got %d days, want %d", len(w.Days), plan.DaysPerWeek)
				}
			}
		})
	}
}

// TestNormalize_PreservesData tests that supplied fields survive normalization.
func TestNormalize_PreservesData(t *testing.T) {
	blob := `{
		"title": "Plan personalizado",
		"weeks": [{
			"title": "Semana intro",
			"summary": "buena semana",
			"days": [{
				"title": "Empuje",
				"rest": false,
				"items": [
					{"exercise": "Dominadas", "sets": "4", "reps": "8", "weight": "BW", "rest": "90s", "notes": "estrictas", "status": "done"},
					{"exercise": "", "sets": "3"}
				]
			}]
		}]
	}`
	var raw any
	if err := json.Unmarshal([]byte(blob), &raw); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	p := plan.Normalize(raw)
	if p.Title != "Plan personalizado" {
		t.Errorf("title = %q", p.Title)
	}
	w := p.Weeks[0]
	if w.Title != "Semana intro" || w.Summary != "buena semana" {
		t.Errorf("week = %q / %q", w.Title, w.Summary)
	}
	d := w.Days[0]
	if d.Title != "Empuje" {
		t.Errorf("day title = %q", d.Title)
	}
	if len(d.Items) != 1 {
		t.Fatalf("items = %d, want 1 (empty item dropped)", len(d.Items))
	}
	item := d.Items[0]
	if item.Exercise != "Dominadas" || item.Sets != "4" || item.Rest != "90s" || item.Status != plan.StatusDone {
		t.Errorf("item = %+v", item)
	}
}

// TestNormalizeItem_LegacyFields tests the accessories/result_note/feedback fallbacks.
func TestNormalizeItem_LegacyFields(t *testing.T) {
	raw := map[string]any{
		"exercise":    "Remo",
		"accessories": "60s",
		"result_note": "casi",
		"feedback":    "duro",
		"status":      "bogus",
	}
	item := plan.NormalizeItem(raw)
	if item.Rest != "60s" {
		t.Errorf("Rest = %q, want 60s (accessories fallback)", item.Rest)
	}
	if item.StatusNote != "casi" {
		t.Errorf("StatusNote = %q, want casi", item.StatusNote)
	}
	if item.StudentNote != "duro" {
		t.Errorf("StudentNote = %q, want duro", item.StudentNote)
	}
	if item.Status != "" {
		t.Errorf("Status = %q, want empty for invalid value", item.Status)
	}
}

// TestNormalizeDay_RestKeepsItems tests that the rest flag does not erase items.
func TestNormalizeDay_RestKeepsItems(t *testing.T) {
	raw := map[string]any{
		"title": "Día suave",
		"rest":  true,
		"items": []any{map[string]any{"exercise": "Estiramientos"}},
	}
	d := plan.NormalizeDay(raw)
	if !d.Rest {
		t.Fatal("rest flag lost")
	}
	if len(d.Items) != 1 || d.Items[0].Exercise != "Estiramientos" {
		t.Errorf("items under rest flag = %+v, want preserved", d.Items)
	}
}

// TestClone_NoAliasing tests that Clone produces independent item slices.
func TestClone_NoAliasing(t *testing.T) {
	p := plan.DefaultPlan()
	c := p.Clone()
	c.Weeks[0].Days[0].Items[0].Exercise = "cambiado"
	if p.Weeks[0].Days[0].Items[0].Exercise == "cambiado" {
		t.Error("Clone shares item storage with the original")
	}
}

// TestValidate_Errors tests validation failures.
func TestValidate_Errors(t *testing.T) {
	p := plan.DefaultPlan()
	p.Title = "  "
	if err := p.Validate(); err == nil {
		t.Error("blank title accepted")
	}

	p = plan.DefaultPlan()
	p.Weeks = p.Weeks[:3]
	if err := p.Validate(); err == nil {
		t.Error("3-week plan accepted")
	}

	p = plan.DefaultPlan()
	p.Weeks[1].Days[2].Status = "sometimes"
	if err := p.Validate(); err == nil {
		t.Error("invalid day status accepted")
	}
}
