package shared

import (
	"strings"
	"time"
)

// Pagination bounds applied by Filter.Normalize.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter represents query filter options
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	DateFrom *time.Time
	DateTo   *time.Time
	Filters  map[string]interface{}
}

// DefaultFilter returns a filter with default values
func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]interface{}),
	}
}

// Normalize clamps pagination to sane bounds, trims the search term and
// drops empty-string field filters. Unknown sort fields are left for the
// repository's whitelist to degrade to the entity default; they are never
// an error.
func (f Filter) Normalize() Filter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	f.Search = strings.TrimSpace(f.Search)
	f.OrderBy = strings.TrimSpace(f.OrderBy)
	switch strings.ToLower(strings.TrimSpace(f.OrderDir)) {
	case "asc":
		f.OrderDir = "asc"
	default:
		f.OrderDir = "desc"
	}
	if f.Filters != nil {
		for key, value := range f.Filters {
			if s, ok := value.(string); ok {
				s = strings.TrimSpace(s)
				if s == "" {
					delete(f.Filters, key)
					continue
				}
				f.Filters[key] = s
			}
		}
	}
	return f
}

// WithFilter returns a copy of the filter with an additional field filter set.
func (f Filter) WithFilter(key string, value interface{}) Filter {
	if f.Filters == nil {
		f.Filters = make(map[string]interface{})
	}
	f.Filters[key] = value
	return f
}

// Paginated represents a paginated result. Page and PageSize are the
// normalized values the query actually ran with, not the raw request.
type Paginated[T any] struct {
	Items      []T   `json:"items"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	TotalPages int   `json:"total_pages"`
}

// NewPaginated creates a new paginated result
func NewPaginated[T any](items []T, total int64, page, pageSize int) Paginated[T] {
	totalPages := 0
	if pageSize > 0 {
		totalPages = int(total) / pageSize
		if int(total)%pageSize > 0 {
			totalPages++
		}
	}
	return Paginated[T]{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
