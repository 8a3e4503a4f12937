// Package listview holds the searchable, paged list shared by the users,
// messages and per-user messages screens.
package listview

import "strings"

// PageSize is fixed for every list in the console.
const PageSize = 10

// FieldFunc returns one searchable field of a row.
type FieldFunc[T any] func(T) string

// Page is the derived, render-ready view of a list.
type Page[T any] struct {
	Rows        []T // rows on the current page
	Filtered    []T // every row matching the search term, in source order
	CurrentPage int // 1-based
	TotalPages  int // 0 when nothing matches
}

// Matches reports whether any field contains term, ignoring case. An empty or
// blank term matches every row.
func Matches[T any](row T, term string, fields []FieldFunc[T]) bool {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return true
	}
	for _, field := range fields {
		if strings.Contains(strings.ToLower(field(row)), term) {
			return true
		}
	}
	return false
}

// Filter keeps the rows matching term, preserving order.
func Filter[T any](source []T, term string, fields []FieldFunc[T]) []T {
	out := make([]T, 0, len(source))
	for _, row := range source {
		if Matches(row, term, fields) {
			out = append(out, row)
		}
	}
	return out
}

// TotalPages is ceil(n / PageSize).
func TotalPages(n int) int {
	return (n + PageSize - 1) / PageSize
}

// ClampPage keeps page within [1, max(totalPages, 1)].
func ClampPage(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// DeriveFilteredPage computes the page view of source for term and page.
func DeriveFilteredPage[T any](source []T, term string, page int, fields []FieldFunc[T]) Page[T] {
	filtered := Filter(source, term, fields)
	total := TotalPages(len(filtered))
	page = ClampPage(page, total)

	start := (page - 1) * PageSize
	end := start + PageSize
	if start > len(filtered) {
		start = len(filtered)
	}
	if end > len(filtered) {
		end = len(filtered)
	}

	return Page[T]{
		Rows:        filtered[start:end],
		Filtered:    filtered,
		CurrentPage: page,
		TotalPages:  total,
	}
}

// Paginator holds the inputs of a list view. Every change to the source or the
// search term sends the view back to page 1.
type Paginator[T any] struct {
	source []T
	term   string
	page   int
	fields []FieldFunc[T]
	view   Page[T]
}

// NewPaginator returns an empty paginator that searches the given fields.
func NewPaginator[T any](fields ...FieldFunc[T]) *Paginator[T] {
	p := &Paginator[T]{page: 1, fields: fields}
	p.derive()
	return p
}

// Configure replaces the searchable fields.
func (p *Paginator[T]) Configure(fields ...FieldFunc[T]) {
	p.fields = fields
	p.page = 1
	p.derive()
}

// SetSource replaces the rows and returns to page 1.
func (p *Paginator[T]) SetSource(source []T) {
	p.source = source
	p.page = 1
	p.derive()
}

// SetSearchTerm changes the filter and returns to page 1.
func (p *Paginator[T]) SetSearchTerm(term string) {
	p.term = term
	p.page = 1
	p.derive()
}

func (p *Paginator[T]) SearchTerm() string { return p.term }

func (p *Paginator[T]) Source() []T { return p.source }

// Next moves forward one page; a no-op on the last page.
func (p *Paginator[T]) Next() bool {
	if p.page >= p.view.TotalPages {
		return false
	}
	p.page++
	p.derive()
	return true
}

// Previous moves back one page; a no-op on the first page.
func (p *Paginator[T]) Previous() bool {
	if p.page <= 1 {
		return false
	}
	p.page--
	p.derive()
	return true
}

func (p *Paginator[T]) HasNext() bool { return p.page < p.view.TotalPages }

func (p *Paginator[T]) HasPrevious() bool { return p.page > 1 }

// Page returns the current derived view.
func (p *Paginator[T]) Page() Page[T] { return p.view }

func (p *Paginator[T]) derive() {
	p.view = DeriveFilteredPage(p.source, p.term, p.page, p.fields)
	p.page = p.view.CurrentPage
}
