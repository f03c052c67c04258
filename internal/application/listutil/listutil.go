// Package listutil paginates the admin roster views. The roster is small
// enough to slice in memory, so the helpers here work on totals and
// offsets rather than SQL.
package listutil

import (
	"net/url"
	"strconv"
)

// DefaultPerPage is the rows-per-page applied when the query carries no
// valid per_page value.
const DefaultPerPage = 20

// PerPageOptions are the accepted per_page values; anything else falls
// back to DefaultPerPage so a crafted URL cannot request a huge page.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// PageParams is the pagination request as parsed from the URL, before the
// total row count is known.
type PageParams struct {
	Page    int // 1-based
	PerPage int
}

// ParsePageParams reads page and per_page from URL query values, applying
// the defaults to missing or invalid values.
// PRE: none
// POST: Page >= 1 and PerPage is one of PerPageOptions
func ParsePageParams(q url.Values) PageParams {
	p := PageParams{Page: 1, PerPage: DefaultPerPage}
	if page, err := strconv.Atoi(q.Get("page")); err == nil && page > 1 {
		p.Page = page
	}
	if perPage, err := strconv.Atoi(q.Get("per_page")); err == nil && isValidPerPage(perPage) {
		p.PerPage = perPage
	}
	return p
}

// PageInfo is the resolved pagination window over a known total, ready
// for slicing rows and rendering the page controls.
type PageInfo struct {
	Page       int // current page, clamped into [1, TotalPages]
	PerPage    int
	Total      int
	TotalPages int
}

// NewPageInfo resolves the requested page against the total row count.
// A page past the end lands on the last page rather than an empty one.
// PRE: total >= 0
// POST: 1 <= Page <= TotalPages, TotalPages >= 1
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	switch {
	case page < 1:
		page = 1
	case page > totalPages:
		page = totalPages
	}
	return PageInfo{Page: page, PerPage: perPage, Total: total, TotalPages: totalPages}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// EndRow returns the index just past the last row on the current page, so
// rows[p.Offset():p.EndRow()] is the page slice.
func (p PageInfo) EndRow() int {
	end := p.Offset() + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return end
}

// PageNumbers returns up to five page numbers centered on the current
// page, for the numbered links under the roster table.
func (p PageInfo) PageNumbers() []int {
	const window = 5
	start := p.Page - window/2
	if start < 1 {
		start = 1
	}
	end := start + window - 1
	if end > p.TotalPages {
		end = p.TotalPages
		if start = end - window + 1; start < 1 {
			start = 1
		}
	}
	pages := make([]int, 0, end-start+1)
	for n := start; n <= end; n++ {
		pages = append(pages, n)
	}
	return pages
}

// ShowPagination reports whether the rows overflow a single page.
func (p PageInfo) ShowPagination() bool {
	return p.Total > p.PerPage
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}
