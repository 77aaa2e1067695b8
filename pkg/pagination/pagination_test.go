package pagination

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultParams(t *testing.T) {
	p := DefaultParams()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_Defaults(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reviews", nil)
	p := FromRequest(req)

	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 5, p.Limit)
	assert.Equal(t, 0, p.Offset)
}

func TestFromRequest_CustomValues(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reviews?page=3&limit=10", nil)
	p := FromRequest(req)

	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 10, p.Limit)
	assert.Equal(t, 20, p.Offset) // (3-1) * 10
}

func TestFromRequest_InvalidPage(t *testing.T) {
	for _, q := range []string{"page=-1", "page=0", "page=abc"} {
		req := httptest.NewRequest(http.MethodGet, "/reviews?"+q, nil)
		p := FromRequest(req)
		assert.Equal(t, 1, p.Page, "query %q should fall back to page 1", q)
	}
}

func TestFromRequest_LimitOverCapIgnored(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/reviews?limit=500", nil)
	p := FromRequest(req)
	assert.Equal(t, 5, p.Limit)
}

func TestClamp(t *testing.T) {
	tests := []struct {
		page, limit         int
		wantPage, wantLimit int
	}{
		{0, 0, 1, 5},
		{-3, -1, 1, 5},
		{2, 5, 2, 5},
		{1, 500, 1, 100},
	}

	for _, tt := range tests {
		p := Clamp(tt.page, tt.limit)
		assert.Equal(t, tt.wantPage, p.Page)
		assert.Equal(t, tt.wantLimit, p.Limit)
		assert.Equal(t, (tt.wantPage-1)*tt.wantLimit, p.Offset)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total, limit, want int
	}{
		{0, 5, 0},
		{1, 5, 1},
		{5, 5, 1},
		{6, 5, 2},
		{7, 5, 2},
		{10, 5, 2},
		{11, 5, 3},
		{3, 0, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, TotalPages(tt.total, tt.limit),
			"total=%d limit=%d", tt.total, tt.limit)
	}
}
