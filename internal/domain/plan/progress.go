package plan

import "math"

// Progress holds check-off counts and integer percentages for a day or a week.
type Progress struct {
	Total      int `json:"total"`
	Done       int `json:"done"`
	Missed     int `json:"missed"`
	Pending    int `json:"pending"`
	DonePct    int `json:"done_pct"`
	MissedPct  int `json:"missed_pct"`
	PendingPct int `json:"pending_pct"`
}

// WeekProgress is the per-week progress row embedded in the editor page.
type WeekProgress struct {
	Week  int    `json:"week"`
	Title string `json:"title"`
	Progress
}

// DayProgress counts item check-offs for one day. Items without an exercise
// name do not count toward the total.
// PRE: none
// POST: DonePct+MissedPct+PendingPct == 100 when Total > 0, all zero otherwise
func DayProgress(d Day) Progress {
	var p Progress
	for _, item := range d.Items {
		if item.IsEmpty() {
			continue
		}
		p.Total++
		switch item.Status {
		case StatusDone:
			p.Done++
		case StatusMissed:
			p.Missed++
		}
	}
	p.finish()
	return p
}

// ComputeWeekProgress aggregates day progress over a week.
func ComputeWeekProgress(w Week) Progress {
	var p Progress
	for _, d := range w.Days {
		dp := DayProgress(d)
		p.Total += dp.Total
		p.Done += dp.Done
		p.Missed += dp.Missed
		p.Pending += dp.Pending
	}
	p.DonePct, p.MissedPct, p.PendingPct = 0, 0, 0
	if p.Total > 0 {
		p.DonePct = roundPct(p.Done, p.Total)
		p.MissedPct = roundPct(p.Missed, p.Total)
		p.PendingPct = clampPct(100 - p.DonePct - p.MissedPct)
	}
	return p
}

// ProgressRows computes the per-week progress payload for a whole plan.
func ProgressRows(p Plan) []WeekProgress {
	rows := make([]WeekProgress, 0, len(p.Weeks))
	for i, w := range p.Weeks {
		rows = append(rows, WeekProgress{Week: i + 1, Title: w.Title, Progress: ComputeWeekProgress(w)})
	}
	return rows
}

func (p *Progress) finish() {
	p.Pending = p.Total - p.Done - p.Missed
	if p.Pending < 0 {
		p.Pending = 0
	}
	if p.Total > 0 {
		p.DonePct = roundPct(p.Done, p.Total)
		p.MissedPct = roundPct(p.Missed, p.Total)
		p.PendingPct = clampPct(100 - p.DonePct - p.MissedPct)
	}
}

func roundPct(part, total int) int {
	return int(math.Round(float64(part) / float64(total) * 100))
}

func clampPct(v int) int {
	if v < 0 {
		return 0
	}
	return v
}
