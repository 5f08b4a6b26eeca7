package listutil

import (
	"net/url"
	"strconv"
	"strings"
)

// PageParams carries pagination parameters parsed from a request.
type PageParams struct {
	Page    int // 1-indexed page number
	PerPage int // rows per page
}

// SortParams carries sorting parameters parsed from a request.
type SortParams struct {
	Sort string // column key, empty for the default order
	Dir  string // "asc" or "desc"
}

// ListParams combines pagination, sorting and the free-text search term.
type ListParams struct {
	PageParams
	SortParams
	Search string
	Status string
}

// PageInfo carries pagination metadata returned with list responses.
type PageInfo struct {
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// DefaultPerPage is the default number of rows per page.
const DefaultPerPage = 50

// PerPageOptions are the allowed rows-per-page values.
var PerPageOptions = []int{10, 20, 50, 100, 200}

// ParsePageParams extracts page and per_page from URL query values.
// PRE: none
// POST: returns valid PageParams with defaults applied
func ParsePageParams(q url.Values) PageParams {
	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	perPage, _ := strconv.Atoi(q.Get("per_page"))
	if !isValidPerPage(perPage) {
		perPage = DefaultPerPage
	}
	return PageParams{Page: page, PerPage: perPage}
}

// ParseSortParams extracts sort and dir from URL query values.
// PRE: none
// POST: returns SortParams; Sort is empty or allowed, Dir is always "asc" or "desc"
func ParseSortParams(q url.Values, allowedColumns []string) SortParams {
	sort := q.Get("sort")
	dir := strings.ToLower(q.Get("dir"))

	if !isAllowedColumn(sort, allowedColumns) {
		sort = ""
	}
	if dir != "asc" && dir != "desc" {
		dir = "asc"
	}
	return SortParams{Sort: sort, Dir: dir}
}

// ParseListParams parses all list parameters from URL query values.
func ParseListParams(q url.Values, allowedSortCols []string) ListParams {
	return ListParams{
		PageParams: ParsePageParams(q),
		SortParams: ParseSortParams(q, allowedSortCols),
		Search:     strings.TrimSpace(q.Get("q")),
		Status:     strings.TrimSpace(q.Get("status")),
	}
}

// NewPageInfo computes pagination metadata.
// PRE: total >= 0
// POST: returns PageInfo with TotalPages >= 1; Page clamped to valid range
func NewPageInfo(page, perPage, total int) PageInfo {
	if perPage < 1 {
		perPage = DefaultPerPage
	}
	totalPages := (total + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return PageInfo{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first row on the current page.
func (p PageInfo) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Bounds returns the [start, end) slice bounds of the current page.
// PRE: PageInfo is valid
// POST: 0 <= start <= end <= Total
func (p PageInfo) Bounds() (int, int) {
	start := p.Offset()
	if start > p.Total {
		start = p.Total
	}
	end := start + p.PerPage
	if end > p.Total {
		end = p.Total
	}
	return start, end
}

func isValidPerPage(n int) bool {
	for _, opt := range PerPageOptions {
		if n == opt {
			return true
		}
	}
	return false
}

func isAllowedColumn(col string, allowed []string) bool {
	for _, a := range allowed {
		if col == a {
			return true
		}
	}
	return false
}
