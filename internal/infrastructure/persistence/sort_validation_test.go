package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	assert.Equal(t, "ASC", ValidateSortOrder("asc"))
	assert.Equal(t, "ASC", ValidateSortOrder(" ASC "))
	assert.Equal(t, "DESC", ValidateSortOrder("desc"))
	assert.Equal(t, "DESC", ValidateSortOrder(""))
	assert.Equal(t, "DESC", ValidateSortOrder("; DROP TABLE users"))
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "code", ValidateSortField("code", MenuCodeSortFields, "sort_order"))
	assert.Equal(t, "sort_order", ValidateSortField("", MenuCodeSortFields, "sort_order"))
	assert.Equal(t, "sort_order", ValidateSortField("password_hash", MenuCodeSortFields, "sort_order"))
	assert.Equal(t, "created_at", ValidateSortField("created_at", UserSortFields, "username"))
	assert.Equal(t, "username", ValidateSortField("id; --", UserSortFields, "username"))
}
