package catalog

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

type Filter struct {
	Keyword      string
	Category     Category
	Status       Status
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	MinRating    *float64
	Manufacturer string
	SellerID     int64
	SortBy       string // name | price | rating
	SortDesc     bool
	Page         int
	Size         int
}

// Normalize applies paging defaults.
func (f *Filter) Normalize() {
	f.Keyword = strings.TrimSpace(f.Keyword)
	if f.Page < 0 {
		f.Page = 0
	}
	if f.Size <= 0 {
		f.Size = DefaultPageSize
	}
	if f.Size > MaxPageSize {
		f.Size = MaxPageSize
	}
	switch f.SortBy {
	case "name", "price", "rating":
	default:
		f.SortBy = "name"
	}
}

type Page[T any] struct {
	Content         []T   `json:"content"`
	TotalElements   int64 `json:"totalElements"`
	TotalPages      int   `json:"totalPages"`
	CurrentPage     int   `json:"currentPage"`
	PageSize        int   `json:"pageSize"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

func NewPage[T any](content []T, total int64, page, size int) Page[T] {
	if content == nil {
		content = []T{}
	}
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return Page[T]{
		Content:         content,
		TotalElements:   total,
		TotalPages:      pages,
		CurrentPage:     page,
		PageSize:        size,
		HasNextPage:     page+1 < pages,
		HasPreviousPage: page > 0,
	}
}
