package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		pageSize int
		want     Pagination
	}{
		{"defaults", 0, 0, Pagination{Page: 1, PageSize: DefaultPageSize}},
		{"negative", -2, -5, Pagination{Page: 1, PageSize: DefaultPageSize}},
		{"valid", 3, 25, Pagination{Page: 3, PageSize: 25}},
		{"capped", 1, 500, Pagination{Page: 1, PageSize: MaxPageSize}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPagination(tt.page, tt.pageSize))
		})
	}
}

func TestPaginationOffset(t *testing.T) {
	assert.Equal(t, 0, NewPagination(1, 10).Offset())
	assert.Equal(t, 20, NewPagination(3, 10).Offset())
}

func TestPaginationTotalPages(t *testing.T) {
	p := NewPagination(1, 10)
	assert.Equal(t, 0, p.TotalPages(0))
	assert.Equal(t, 1, p.TotalPages(10))
	assert.Equal(t, 2, p.TotalPages(11))
	assert.Equal(t, 0, Pagination{}.TotalPages(5))
}
