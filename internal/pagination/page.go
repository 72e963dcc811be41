package pagination

const (
	DefaultPerPage = 12
	MaxPerPage     = 100
)

// Page is an offset paging request. Number is 1-based.
type Page struct {
	Number  int
	PerPage int
}

// Normalize fills defaults and caps PerPage.
func (p Page) Normalize() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	p = p.Normalize()
	return (p.Number - 1) * p.PerPage
}

// TotalPages is the number of pages needed for totalCount items.
func TotalPages(totalCount, perPage int) int {
	if totalCount <= 0 || perPage <= 0 {
		return 0
	}
	return (totalCount + perPage - 1) / perPage
}

// Result is one page of items along with the selector to render for it.
// Page is clamped to TotalPages like the selector is.
type Result[T any] struct {
	Items      []T
	TotalCount int
	TotalPages int
	Page       int
	PerPage    int
	Controls   []Descriptor
}

func NewResult[T any](items []T, totalCount int, page Page) Result[T] {
	page = page.Normalize()
	totalPages := TotalPages(totalCount, page.PerPage)
	if totalPages > 0 && page.Number > totalPages {
		page.Number = totalPages
	}
	return Result[T]{
		Items:      items,
		TotalCount: totalCount,
		TotalPages: totalPages,
		Page:       page.Number,
		PerPage:    page.PerPage,
		Controls:   Build(page.Number, totalPages),
	}
}
