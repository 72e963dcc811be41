package pagination

// Kind tags a Descriptor.
type Kind string

const (
	KindPage     Kind = "page"
	KindEllipsis Kind = "ellipsis"
	KindPrevious Kind = "previous"
	KindNext     Kind = "next"
)

// maxFullPages is the largest page count rendered without ellipses.
const maxFullPages = 7

// Descriptor is one renderable element of a page selector.
type Descriptor struct {
	Kind     Kind `json:"kind"`
	Number   int  `json:"number,omitempty"`
	Active   bool `json:"active,omitempty"`
	Disabled bool `json:"disabled,omitempty"`
}

func pageOf(number, current int) Descriptor {
	return Descriptor{Kind: KindPage, Number: number, Active: number == current}
}

// Build returns the page selector for currentPage out of totalPages.
//
// Up to seven pages are listed in full. Past that, the first and last pages
// are always shown around a window of at most three pages near currentPage,
// with an ellipsis on each side that hides pages. Previous and next are always
// present and only disabled at the edges. A currentPage outside
// [1, totalPages] is clamped.
func Build(currentPage, totalPages int) []Descriptor {
	if totalPages <= 1 {
		return []Descriptor{}
	}
	currentPage = max(1, min(currentPage, totalPages))

	items := []Descriptor{{Kind: KindPrevious, Disabled: currentPage == 1}}

	if totalPages <= maxFullPages {
		for p := 1; p <= totalPages; p++ {
			items = append(items, pageOf(p, currentPage))
		}
	} else {
		items = append(items, pageOf(1, currentPage))
		if currentPage > 3 {
			items = append(items, Descriptor{Kind: KindEllipsis})
		}

		startPage := max(2, currentPage-1)
		endPage := min(totalPages-1, currentPage+1)
		if currentPage <= 3 {
			endPage = 3
		}
		if currentPage >= totalPages-2 {
			startPage = totalPages - 2
		}
		for p := startPage; p <= endPage; p++ {
			items = append(items, pageOf(p, currentPage))
		}

		if currentPage < totalPages-2 {
			items = append(items, Descriptor{Kind: KindEllipsis})
		}
		items = append(items, pageOf(totalPages, currentPage))
	}

	return append(items, Descriptor{Kind: KindNext, Disabled: currentPage == totalPages})
}
