package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestParseParams(t *testing.T) {
	tests := []struct {
		name           string
		queryString    string
		expectedLimit  int
		expectedOffset int
	}{
		{"no params uses defaults", "", DefaultLimit, DefaultOffset},
		{"valid limit and offset", "limit=10&offset=20", 10, 20},
		{"zero limit uses default", "limit=0", DefaultLimit, DefaultOffset},
		{"negative limit uses default", "limit=-10", DefaultLimit, DefaultOffset},
		{"limit exceeds max", "limit=200", MaxLimit, DefaultOffset},
		{"negative offset uses default", "offset=-5", DefaultLimit, DefaultOffset},
		{"garbage values", "limit=abc&offset=xyz", DefaultLimit, DefaultOffset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest("GET", "/api/receipts?"+tt.queryString, nil)

			params := ParseParams(c)

			assert.Equal(t, tt.expectedLimit, params.Limit)
			assert.Equal(t, tt.expectedOffset, params.Offset)
		})
	}
}

func TestBuildMeta(t *testing.T) {
	tests := []struct {
		name               string
		limit              int
		total              int64
		expectedTotalPages int
	}{
		{"exact pages", 20, 100, 5},
		{"partial last page", 10, 25, 3},
		{"no items", 10, 0, 0},
		{"zero limit", 0, 100, 0},
		{"limit greater than total", 50, 10, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := BuildMeta(tt.limit, 0, tt.total)

			assert.Equal(t, tt.limit, meta.Limit)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.expectedTotalPages, meta.TotalPages)
		})
	}
}

func TestHasMore(t *testing.T) {
	assert.True(t, HasMore(0, 10, 11))
	assert.False(t, HasMore(0, 10, 10))
	assert.False(t, HasMore(20, 10, 25))
}

func TestGetCurrentPage(t *testing.T) {
	assert.Equal(t, 1, GetCurrentPage(0, 10))
	assert.Equal(t, 2, GetCurrentPage(15, 10))
	assert.Equal(t, 1, GetCurrentPage(10, 0))
}

func TestSlice(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	assert.Equal(t, []int{1, 2}, Slice(items, Params{Limit: 2, Offset: 0}))
	assert.Equal(t, []int{5}, Slice(items, Params{Limit: 2, Offset: 4}))
	assert.Equal(t, []int{}, Slice(items, Params{Limit: 2, Offset: 10}))
	assert.Equal(t, items, Slice(items, Params{Limit: 0, Offset: 0}))
}
