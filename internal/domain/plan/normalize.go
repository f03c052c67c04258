package plan

import (
	"fmt"
	"strings"
)

// Normalize coerces arbitrary JSON-decoded data into a well-formed Plan.
// Missing or malformed pieces fall back to the default program so that a
// student always sees a complete 4x7 plan. The input is the result of
// decoding untrusted JSON (map[string]any / []any / scalars).
// PRE: none — raw may be nil or any shape
// POST: result passes Validate and has exactly 4 weeks of 7 days
func Normalize(raw any) Plan {
	def := DefaultPlan()
	src, _ := raw.(map[string]any)

	out := Plan{Title: stringField(src, "title")}
	if out.Title == "" {
		out.Title = def.Title
	}

	weeks, _ := src["weeks"].([]any)
	for wi := 0; wi < WeeksPerPlan; wi++ {
		var rawWeek any
		if wi < len(weeks) {
			rawWeek = weeks[wi]
		}
		out.Weeks = append(out.Weeks, normalizeWeek(rawWeek, def.Weeks[wi], wi+1))
	}
	return out
}

func normalizeWeek(raw any, def Week, n int) Week {
	src, _ := raw.(map[string]any)
	w := Week{Title: stringField(src, "title"), Summary: stringField(src, "summary")}
	if w.Title == "" {
		w.Title = def.Title
		if w.Title == "" {
			w.Title = fmt.Sprintf("Semana %d", n)
		}
	}
	days, _ := src["days"].([]any)
	for di := 0; di < DaysPerWeek; di++ {
		if di < len(days) && days[di] != nil {
			w.Days = append(w.Days, NormalizeDay(days[di]))
		} else if di < len(def.Days) {
			// Missing slots fall back to the default program's day.
			w.Days = append(w.Days, def.Days[di].Clone())
		} else {
			w.Days = append(w.Days, NormalizeDay(nil))
		}
	}
	return w
}

// NormalizeDay coerces one raw day value. A plain string becomes a
// single-item day with that text as the exercise; a list is treated as the
// item list of an untitled day.
func NormalizeDay(raw any) Day {
	var d Day
	var items []any
	switch v := raw.(type) {
	case map[string]any:
		d.Title = stringField(v, "title")
		d.Rest, _ = v["rest"].(bool)
		d.Status = validStatusOrEmpty(stringField(v, "status"))
		d.StatusNote = stringField(v, "status_note")
		d.Feedback = stringField(v, "feedback")
		if list, ok := v["items"].([]any); ok {
			items = list
		} else {
			// Legacy entries stored the item fields directly on the day.
			items = []any{raw}
		}
	case []any:
		items = v
	case nil:
	default:
		items = []any{raw}
	}
	for _, rawItem := range items {
		item := NormalizeItem(rawItem)
		if !item.IsEmpty() {
			d.Items = append(d.Items, item)
		}
	}
	return d
}

// NormalizeItem coerces one raw item value. A plain string is taken as the
// exercise name; legacy records may carry the rest interval under
// "accessories" and notes under "result_note"/"feedback".
func NormalizeItem(raw any) Item {
	if src, ok := raw.(map[string]any); ok {
		rest := stringField(src, "rest")
		if rest == "" {
			rest = stringField(src, "accessories")
		}
		statusNote := stringField(src, "status_note")
		if statusNote == "" {
			statusNote = stringField(src, "result_note")
		}
		studentNote := stringField(src, "student_note")
		if studentNote == "" {
			studentNote = stringField(src, "feedback")
		}
		return Item{
			Exercise:    stringField(src, "exercise"),
			Sets:        stringField(src, "sets"),
			Reps:        stringField(src, "reps"),
			Weight:      stringField(src, "weight"),
			Rest:        rest,
			Notes:       stringField(src, "notes"),
			Status:      validStatusOrEmpty(stringField(src, "status")),
			StatusNote:  statusNote,
			StudentNote: studentNote,
		}
	}
	text := strings.TrimSpace(fmt.Sprintf("%v", raw))
	if raw == nil || text == "" {
		return Item{}
	}
	return Item{Exercise: text}
}

func stringField(src map[string]any, key string) string {
	if src == nil {
		return ""
	}
	v, ok := src[key]
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(fmt.Sprintf("%v", v))
}

func validStatusOrEmpty(s string) string {
	if ValidStatus(s) {
		return s
	}
	return ""
}
