package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter_Normalize(t *testing.T) {
	t.Run("clamps page and page size", func(t *testing.T) {
		f := Filter{Page: 0, PageSize: 0}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, DefaultPageSize, f.PageSize)

		f = Filter{Page: -3, PageSize: 5000}.Normalize()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, MaxPageSize, f.PageSize)
	})

	t.Run("normalizes order direction", func(t *testing.T) {
		assert.Equal(t, "asc", Filter{OrderDir: " ASC "}.Normalize().OrderDir)
		assert.Equal(t, "desc", Filter{OrderDir: "sideways"}.Normalize().OrderDir)
		assert.Equal(t, "desc", Filter{}.Normalize().OrderDir)
	})

	t.Run("trims search and drops empty string filters", func(t *testing.T) {
		f := Filter{
			Search: "  widget  ",
			Filters: map[string]interface{}{
				"status": "  ",
				"event":  " login_failed ",
				"risk":   50,
			},
		}.Normalize()

		assert.Equal(t, "widget", f.Search)
		assert.NotContains(t, f.Filters, "status")
		assert.Equal(t, "login_failed", f.Filters["event"])
		assert.Equal(t, 50, f.Filters["risk"])
	})

	t.Run("valid values pass through", func(t *testing.T) {
		f := Filter{Page: 3, PageSize: 50, OrderBy: "created_at", OrderDir: "asc"}.Normalize()
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 50, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
	})
}

func TestNewPaginated(t *testing.T) {
	items := []string{"a", "b", "c"}

	p := NewPaginated(items, 23, 2, 10)
	assert.Equal(t, int64(23), p.Total)
	assert.Equal(t, 2, p.Page)
	assert.Equal(t, 10, p.PageSize)
	assert.Equal(t, 3, p.TotalPages)
	assert.Len(t, p.Items, 3)

	p = NewPaginated([]string{}, 20, 1, 10)
	assert.Equal(t, 2, p.TotalPages)

	p = NewPaginated([]string{}, 20, 0, 0)
	assert.Equal(t, 0, p.TotalPages)
}

func TestDomainErrorKinds(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrNotFound))
	assert.Equal(t, KindConflict, KindOf(ErrConcurrencyConflict))
	assert.Equal(t, KindValidation, KindOf(ErrReasonRequired))
	assert.Equal(t, KindUnexpected, KindOf(assert.AnError))

	err := NewConflictError("DUPLICATE_SKU", "SKU already in use")
	assert.Equal(t, "SKU already in use", err.Error())
	assert.Equal(t, "DUPLICATE_SKU", err.Code)
}
