// Package helpers holds small utilities shared by the search engine and the REST handlers.
package helpers

const (
	// DefaultPageSize matches the listing pages of the catalogue site
	DefaultPageSize = 10
	// MaxPageSize caps client-supplied page sizes
	MaxPageSize = 100
)

// Pagination represents pagination parameters
type Pagination struct {
	Page     int
	PageSize int
}

// NewPagination creates a new Pagination with validation
// Ensures page >= 1 and pageSize between 1 and MaxPageSize
func NewPagination(page, pageSize int) Pagination {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Pagination{
		Page:     page,
		PageSize: pageSize,
	}
}

// Offset calculates the database offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// TotalPages returns how many pages hold total items
func (p Pagination) TotalPages(total int64) int {
	if p.PageSize < 1 {
		return 0
	}
	return int((total + int64(p.PageSize) - 1) / int64(p.PageSize))
}
