package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListQuery_Filter(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		f := ListQuery{}.Filter()
		assert.Equal(t, 1, f.Page)
		assert.Equal(t, 20, f.PageSize)
		assert.Equal(t, "created_at", f.OrderBy)
		assert.Equal(t, "desc", f.OrderDir)
		assert.False(t, f.IncludeInactive)
		assert.NotNil(t, f.Filters)
	})

	t.Run("explicit values", func(t *testing.T) {
		f := ListQuery{Page: 3, PageSize: 50, OrderBy: "code", OrderDir: "asc", Search: "pr", IncludeInactive: true}.Filter()
		assert.Equal(t, 3, f.Page)
		assert.Equal(t, 50, f.PageSize)
		assert.Equal(t, "code", f.OrderBy)
		assert.Equal(t, "asc", f.OrderDir)
		assert.Equal(t, "pr", f.Search)
		assert.True(t, f.IncludeInactive)
		assert.Equal(t, 100, f.Offset())
	})

	t.Run("page size clamped", func(t *testing.T) {
		f := ListQuery{PageSize: 500}.Filter()
		assert.Equal(t, 100, f.PageSize)
	})
}
