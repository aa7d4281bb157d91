// Package pagination implements the shared page/limit contract used by every
// listing endpoint: 1-indexed pages, skip = (page-1)*limit, and derived
// metadata (total pages, has-next/has-prev flags).
package pagination

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Params captures the listing query parameters common to all collections.
type Params struct {
	Page     int
	Limit    int
	Query    string // case-insensitive substring search, may be empty
	SortBy   string
	SortType string // "asc" or "desc"
}

// FromQuery parses listing parameters with defaults: page=1, limit=10,
// sortType=desc. Out-of-range values fall back to the defaults rather
// than erroring; the limit is capped at MaxLimit.
func FromQuery(q url.Values) Params {
	p := Params{
		Page:     DefaultPage,
		Limit:    DefaultLimit,
		Query:    strings.TrimSpace(q.Get("query")),
		SortBy:   strings.TrimSpace(q.Get("sortBy")),
		SortType: "desc",
	}

	if v, err := strconv.Atoi(q.Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(q.Get("limit")); err == nil && v > 0 {
		p.Limit = v
		if p.Limit > MaxLimit {
			p.Limit = MaxLimit
		}
	}
	if strings.EqualFold(q.Get("sortType"), "asc") {
		p.SortType = "asc"
	}

	return p
}

// Offset returns the number of rows to skip for the current page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta describes the position of a page within the full result set.
type Meta struct {
	TotalCount  int  `json:"totalCount"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	Limit       int  `json:"limit"`
	HasNextPage bool `json:"hasNextPage"`
	HasPrevPage bool `json:"hasPrevPage"`
}

// NewMeta computes page metadata for a known total count.
// totalPages = ceil(totalCount/limit); hasNextPage = page < totalPages;
// hasPrevPage = page > 1.
func NewMeta(totalCount, page, limit int) Meta {
	totalPages := 0
	if limit > 0 {
		totalPages = (totalCount + limit - 1) / limit
	}
	return Meta{
		TotalCount:  totalCount,
		TotalPages:  totalPages,
		CurrentPage: page,
		Limit:       limit,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}
}
