package pagination

import (
	"net/http"
	"strconv"
)

const (
	// DefaultLimit is the number of items returned per page when the client
	// does not specify one.
	DefaultLimit = 5

	// MaxLimit caps the page size a client may request.
	MaxLimit = 100
)

// Params holds pagination parameters extracted from query strings.
type Params struct {
	Page   int `json:"page"`
	Limit  int `json:"limit"`
	Offset int `json:"-"`
}

// DefaultParams returns the default pagination window.
func DefaultParams() Params {
	return Params{
		Page:   1,
		Limit:  DefaultLimit,
		Offset: 0,
	}
}

// FromRequest extracts `page` and `limit` parameters from an HTTP request.
// Invalid or out-of-range values fall back to the defaults.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()

	if page := r.URL.Query().Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if limit := r.URL.Query().Get("limit"); limit != "" {
		if v, err := strconv.Atoi(limit); err == nil && v > 0 && v <= MaxLimit {
			p.Limit = v
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// Clamp normalizes arbitrary page/limit values to the valid range. It is used
// by service-layer code that receives pagination values outside an HTTP
// request.
func Clamp(page, limit int) Params {
	p := Params{Page: page, Limit: limit}
	if p.Page <= 0 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// TotalPages computes the number of pages needed for totalCount items.
func TotalPages(totalCount, limit int) int {
	if limit <= 0 {
		return 0
	}
	pages := totalCount / limit
	if totalCount%limit > 0 {
		pages++
	}
	return pages
}
