package plan

import "strings"

// Delimited-text codec for day items: one line per exercise, fields joined
// with " | " in the order Exercise | Sets | Reps | Weight | Rest | Notes.
// This is the import/export form of the editor; the structured per-field
// rows are the primary representation.

const textFieldCount = 6

// DayToText serializes a day's items to delimited text. Trailing empty
// fields are trimmed from each line; empty items produce no line.
func DayToText(d Day) string {
	var lines []string
	for _, item := range d.Items {
		parts := []string{
			strings.TrimSpace(item.Exercise),
			strings.TrimSpace(item.Sets),
			strings.TrimSpace(item.Reps),
			strings.TrimSpace(item.Weight),
			strings.TrimSpace(item.Rest),
			strings.TrimSpace(item.Notes),
		}
		for len(parts) > 0 && parts[len(parts)-1] == "" {
			parts = parts[:len(parts)-1]
		}
		if len(parts) > 0 {
			lines = append(lines, strings.Join(parts, " | "))
		}
	}
	return strings.Join(lines, "\n")
}

// ParseDayText parses delimited text into items. Lines whose first field is
// empty are dropped; missing fields are padded with the empty string and
// extra fields beyond the sixth are ignored.
func ParseDayText(text string) []Item {
	var items []Item
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		parts := strings.Split(line, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		for len(parts) < textFieldCount {
			parts = append(parts, "")
		}
		if parts[0] == "" {
			continue
		}
		items = append(items, Item{
			Exercise: parts[0],
			Sets:     parts[1],
			Reps:     parts[2],
			Weight:   parts[3],
			Rest:     parts[4],
			Notes:    parts[5],
		})
	}
	return items
}

// WeekToTexts serializes all 7 day slots of a week, padding or truncating to
// exactly DaysPerWeek entries.
func WeekToTexts(w Week) []string {
	texts := make([]string, 0, DaysPerWeek)
	for _, d := range w.Days {
		texts = append(texts, DayToText(d))
	}
	for len(texts) < DaysPerWeek {
		texts = append(texts, "")
	}
	return texts[:DaysPerWeek]
}
