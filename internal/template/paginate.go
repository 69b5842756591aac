package template

// DefaultPerPage is used when the caller does not supply a page size.
const DefaultPerPage = 20

// Page describes a 1-indexed slice of an ordered query result.
type Page struct {
	Number int
	Size   int
}

// Valid reports whether the page parameters can address a slice.
// Invalid pages degrade to empty results rather than erroring.
func (p Page) Valid() bool {
	return p.Number >= 1 && p.Size >= 1
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Limit returns the maximum number of rows in the page.
func (p Page) Limit() int {
	return p.Size
}

// Pagination is the page metadata returned alongside a template list.
// Total is present only when the caller requested a count.
type Pagination struct {
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Total   *int64 `json:"total,omitempty"`
}
