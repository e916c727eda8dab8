package repository

// Page selects either every match (All) or one 1-based page of a listing.
type Page struct {
	All    bool
	Number int
	Size   int
}

func PageAll() Page { return Page{All: true} }

func PageOf(number, size int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = 5
	}
	return Page{Number: number, Size: size}
}

// Paginated is the uniform listing envelope. The count and page fields are
// omitted entirely, not zeroed, when the listing was requested unpaginated.
type Paginated[T any] struct {
	Result      []T    `json:"result"`
	DocsCount   *int64 `json:"docsCount,omitempty"`
	Limit       *int   `json:"limit,omitempty"`
	Pages       *int   `json:"pages,omitempty"`
	CurrentPage *int   `json:"currentPage,omitempty"`
}
