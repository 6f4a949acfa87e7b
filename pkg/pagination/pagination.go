package pagination

import (
	"net/url"
	"strconv"
)

// MaxPageSize is the largest page a headless CMS will normally honour.
const MaxPageSize = 100

// Params identifies one page of a CMS collection.
type Params struct {
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

// DefaultParams returns the first page with the CMS default size.
func DefaultParams() Params {
	return Params{Page: 1, PageSize: 25}
}

// New returns params for the first page of the given size, clamped to
// [1, MaxPageSize].
func New(pageSize int) Params {
	p := DefaultParams()
	if pageSize > 0 {
		p.PageSize = min(pageSize, MaxPageSize)
	}
	return p
}

// Next returns the params for the following page.
func (p Params) Next() Params {
	return Params{Page: p.Page + 1, PageSize: p.PageSize}
}

// Apply writes the params into q using the bracketed CMS query keys
// pagination[page] and pagination[pageSize].
func (p Params) Apply(q url.Values) {
	q.Set("pagination[page]", strconv.Itoa(p.Page))
	q.Set("pagination[pageSize]", strconv.Itoa(p.PageSize))
}

// Meta mirrors the pagination block a CMS returns under meta.pagination.
type Meta struct {
	Page      int `json:"page"`
	PageSize  int `json:"pageSize"`
	PageCount int `json:"pageCount"`
	Total     int `json:"total"`
}

// HasNext reports whether another page follows this one. A zero Meta (CMS
// returned no pagination block) has no next page.
func (m Meta) HasNext() bool {
	return m.PageCount > 0 && m.Page < m.PageCount
}
