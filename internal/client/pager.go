package client

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	PageParam       = "page"
	DefaultPageSize = 10
)

// Pager is the pagination state of a listing. Page is read once from the URL
// and never clamped; out-of-range pages show nothing and disable the controls.
type Pager struct {
	Page     int
	PageSize int
	Total    int
}

// NewPager reads the page from query. Missing or invalid values mean page 1.
func NewPager(total, pageSize int, query url.Values) Pager {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := 1
	if n, err := strconv.Atoi(query.Get(PageParam)); err == nil && n >= 1 {
		page = n
	}
	return Pager{Page: page, PageSize: pageSize, Total: total}
}

func (p Pager) TotalPages() int {
	if p.Total <= 0 {
		return 0
	}
	size := p.size()
	return (p.Total + size - 1) / size
}

func (p Pager) size() int {
	if p.PageSize <= 0 {
		return DefaultPageSize
	}
	return p.PageSize
}

func (p Pager) HasPrev() bool { return p.Page > 1 }
func (p Pager) HasNext() bool { return p.Page < p.TotalPages() }

// Bounds returns the [start, end) item range of the current page. Pages
// below 1 count as page 1; pages past the end give an empty range.
func (p Pager) Bounds() (int, int) {
	page := max(p.Page, 1)
	if p.Total <= 0 || page-1 >= p.TotalPages() {
		total := max(p.Total, 0)
		return total, total
	}
	start := (page - 1) * p.size()
	end := min(start+p.size(), p.Total)
	return start, end
}

// Items returns the slice of items on the current page.
func Items[T any](p Pager, items []T) []T {
	p.Total = len(items)
	start, end := p.Bounds()
	return items[start:end]
}

// Replace returns the pager moved to page along with u rewritten to carry it.
// The URL is replaced in place of navigating: only the query changes. Pages
// below 1 become page 1.
func (p Pager) Replace(u url.URL, page int) (Pager, url.URL) {
	p.Page = max(page, 1)
	q := u.Query()
	q.Set(PageParam, strconv.Itoa(p.Page))
	u.RawQuery = q.Encode()
	return p, u
}

// Neighbours finds the item whose path equals the route (with base removed)
// and returns its previous and next items. ok is false when nothing matches.
func Neighbours[T any](items []T, route, base string, pathOf func(T) string) (prev, next *T, ok bool) {
	target := normalizePath(strings.TrimPrefix(route, strings.TrimSuffix(base, "/")))
	for i := range items {
		if normalizePath(pathOf(items[i])) != target {
			continue
		}
		if i > 0 {
			prev = &items[i-1]
		}
		if i+1 < len(items) {
			next = &items[i+1]
		}
		return prev, next, true
	}
	return nil, nil, false
}

func normalizePath(p string) string {
	return "/" + strings.TrimPrefix(p, "/")
}
