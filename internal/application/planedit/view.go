package planedit

import (
	"fmt"
	"net/url"
	"strings"

	"aura/internal/domain/plan"
)

// DayView is the capability surface of one day's edit widgets. The editors
// below speak only to this interface, so the data model stays independent
// of how the edit surface is represented.
type DayView interface {
	Title() string
	SetTitle(string)
	RestFlag() bool
	SetRestFlag(bool)
	// ItemRows returns the current rows in order, blanks included.
	ItemRows() []plan.Item
	// SetItemRows regenerates the rows to hold exactly the given items,
	// with a minimum of one blank row.
	SetItemRows([]plan.Item)
}

// WeekView addresses one week of the edit surface: its title plus 7 day
// views.
type WeekView interface {
	Title() string
	SetTitle(string)
	// Day returns the view for day n (1-based), or nil when out of range.
	Day(n int) DayView
}

// ExtractDay reads the current day state from the edit surface. Fields are
// trimmed and items with no non-empty field are dropped. Items are read
// regardless of the rest flag: rest hides editing but does not erase data.
func ExtractDay(v DayView) plan.Day {
	d := plan.Day{
		Title: strings.TrimSpace(v.Title()),
		Rest:  v.RestFlag(),
	}
	for _, row := range v.ItemRows() {
		item := trimItem(row)
		if !itemBlank(item) {
			d.Items = append(d.Items, item)
		}
	}
	return d
}

// ApplyDay writes a day into the edit surface, regenerating exactly enough
// rows for the supplied items (minimum one empty row).
func ApplyDay(v DayView, d plan.Day) {
	v.SetTitle(strings.TrimSpace(d.Title))
	v.SetRestFlag(d.Rest)
	items := make([]plan.Item, 0, len(d.Items))
	for _, item := range d.Items {
		item = trimItem(item)
		if !itemBlank(item) {
			items = append(items, item)
		}
	}
	v.SetItemRows(items)
}

// ExtractWeek reads a full week: title plus all 7 day slots.
func ExtractWeek(v WeekView) plan.Week {
	w := plan.Week{Title: strings.TrimSpace(v.Title())}
	for n := 1; n <= plan.DaysPerWeek; n++ {
		if dv := v.Day(n); dv != nil {
			w.Days = append(w.Days, ExtractDay(dv))
		} else {
			w.Days = append(w.Days, plan.EmptyDay(n))
		}
	}
	return w
}

// ApplyWeek writes a full week, always yielding exactly 7 day slots no
// matter how many days the input carries.
func ApplyWeek(v WeekView, w plan.Week) {
	v.SetTitle(strings.TrimSpace(w.Title))
	for n := 1; n <= plan.DaysPerWeek; n++ {
		dv := v.Day(n)
		if dv == nil {
			continue
		}
		if n <= len(w.Days) {
			ApplyDay(dv, w.Days[n-1])
		} else {
			ApplyDay(dv, plan.EmptyDay(n))
		}
	}
}

func trimItem(item plan.Item) plan.Item {
	item.Exercise = strings.TrimSpace(item.Exercise)
	item.Sets = strings.TrimSpace(item.Sets)
	item.Reps = strings.TrimSpace(item.Reps)
	item.Weight = strings.TrimSpace(item.Weight)
	item.Rest = strings.TrimSpace(item.Rest)
	item.Notes = strings.TrimSpace(item.Notes)
	return item
}

// itemBlank reports whether all six editable fields are empty. Unlike
// Item.IsEmpty this ignores the check-off fields, which the editor never
// writes.
func itemBlank(item plan.Item) bool {
	return item.Exercise == "" && item.Sets == "" && item.Reps == "" &&
		item.Weight == "" && item.Rest == "" && item.Notes == ""
}

// itemFieldNames lists the per-item form field suffixes in order.
var itemFieldNames = []string{"exercise", "sets", "reps", "weight", "rest", "notes"}

// FormView is the flat-field edit surface: the same naming scheme the admin
// form posts on save (week{w}_title, week{w}_day{d}_title, _rest and
// week{w}_day{d}_item{i}_{field}). It backs the Buffer and doubles as the
// decoder for submitted forms.
type FormView struct {
	fields map[string]string
}

// NewFormView creates an empty form surface.
func NewFormView() *FormView {
	return &FormView{fields: make(map[string]string)}
}

// FormViewFromValues builds a view over posted form values. Repeated keys
// keep their first value.
func FormViewFromValues(values url.Values) *FormView {
	f := NewFormView()
	for key := range values {
		f.fields[key] = values.Get(key)
	}
	return f
}

// PlanTitle returns the plan_title field.
func (f *FormView) PlanTitle() string {
	return strings.TrimSpace(f.fields["plan_title"])
}

// SetPlanTitle sets the plan_title field.
func (f *FormView) SetPlanTitle(title string) {
	f.fields["plan_title"] = title
}

// Week returns the view for week n (1-based), or nil when out of range.
func (f *FormView) Week(n int) WeekView {
	if !plan.ValidWeek(n) {
		return nil
	}
	return &formWeekView{form: f, week: n}
}

// DayAt returns the day view at (week, day), or nil when either index is
// out of range.
func (f *FormView) DayAt(week, day int) DayView {
	if !plan.ValidWeek(week) || !plan.ValidDay(day) {
		return nil
	}
	return &formDayView{form: f, week: week, day: day}
}

// Get returns a raw field value (empty when absent).
func (f *FormView) Get(key string) string {
	return f.fields[key]
}

// Has reports whether a raw field is present.
func (f *FormView) Has(key string) bool {
	_, ok := f.fields[key]
	return ok
}

type formWeekView struct {
	form *FormView
	week int
}

func (v *formWeekView) Title() string {
	return v.form.fields[fmt.Sprintf("week%d_title", v.week)]
}

func (v *formWeekView) SetTitle(title string) {
	v.form.fields[fmt.Sprintf("week%d_title", v.week)] = title
}

func (v *formWeekView) Day(n int) DayView {
	return v.form.DayAt(v.week, n)
}

type formDayView struct {
	form *FormView
	week int
	day  int
}

func (v *formDayView) key(suffix string) string {
	return fmt.Sprintf("week%d_day%d_%s", v.week, v.day, suffix)
}

func (v *formDayView) itemKey(row int, field string) string {
	return fmt.Sprintf("week%d_day%d_item%d_%s", v.week, v.day, row, field)
}

func (v *formDayView) Title() string {
	return v.form.fields[v.key("title")]
}

func (v *formDayView) SetTitle(title string) {
	v.form.fields[v.key("title")] = title
}

func (v *formDayView) RestFlag() bool {
	// Checkbox semantics: present means checked.
	val, ok := v.form.fields[v.key("rest")]
	return ok && val != ""
}

func (v *formDayView) SetRestFlag(rest bool) {
	if rest {
		v.form.fields[v.key("rest")] = "on"
	} else {
		delete(v.form.fields, v.key("rest"))
	}
}

// MaxItemRows caps row enumeration. Posted forms may carry sparse row
// indices, so enumeration cannot stop at the first gap. The cap also
// bounds the save path: rows posted past index 40 are silently dropped,
// far beyond what a training day holds.
const MaxItemRows = 40

func (v *formDayView) ItemRows() []plan.Item {
	var rows []plan.Item
	for row := 1; row <= MaxItemRows; row++ {
		if item, present := v.readItemRow(row); present {
			rows = append(rows, item)
		}
	}
	return rows
}

func (v *formDayView) SetItemRows(items []plan.Item) {
	// Drop existing rows before regenerating.
	for row := 1; row <= MaxItemRows; row++ {
		for _, field := range itemFieldNames {
			delete(v.form.fields, v.itemKey(row, field))
		}
	}
	if len(items) == 0 {
		items = []plan.Item{{}}
	}
	for i, item := range items {
		row := i + 1
		v.form.fields[v.itemKey(row, "exercise")] = item.Exercise
		v.form.fields[v.itemKey(row, "sets")] = item.Sets
		v.form.fields[v.itemKey(row, "reps")] = item.Reps
		v.form.fields[v.itemKey(row, "weight")] = item.Weight
		v.form.fields[v.itemKey(row, "rest")] = item.Rest
		v.form.fields[v.itemKey(row, "notes")] = item.Notes
	}
}

// readItemRow reports whether any field of the row exists and assembles the
// item from whatever fields are present.
func (v *formDayView) readItemRow(row int) (plan.Item, bool) {
	var item plan.Item
	present := false
	for _, field := range itemFieldNames {
		val, ok := v.form.fields[v.itemKey(row, field)]
		if !ok {
			continue
		}
		present = true
		switch field {
		case "exercise":
			item.Exercise = val
		case "sets":
			item.Sets = val
		case "reps":
			item.Reps = val
		case "weight":
			item.Weight = val
		case "rest":
			item.Rest = val
		case "notes":
			item.Notes = val
		}
	}
	return item, present
}
