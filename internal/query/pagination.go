package query

import (
	"math"
	"strconv"
)

// Pagination defaults and bounds. Values above the maximums are clamped, not
// rejected, to keep result-set and memory cost bounded. MaxPage keeps
// (page-1)*limit inside int range for any resolved limit.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	MaxPage      = math.MaxInt / MaxLimit
)

// Pagination is a normalized page/limit window. Page is always >= 1 and
// Limit is always in [1, MaxLimit] once resolved.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// ResolvePagination normalizes raw page/limit query values. Any value that
// does not parse to a positive integer is replaced by its default rather
// than raising an error; limits above MaxLimit and pages above MaxPage are
// clamped.
func ResolvePagination(rawPage, rawLimit string) Pagination {
	p := Pagination{Page: DefaultPage, Limit: DefaultLimit}

	if page, err := strconv.Atoi(rawPage); err == nil && page >= 1 {
		if page > MaxPage {
			page = MaxPage
		}
		p.Page = page
	}

	if limit, err := strconv.Atoi(rawLimit); err == nil && limit >= 1 {
		if limit > MaxLimit {
			limit = MaxLimit
		}
		p.Limit = limit
	}

	return p
}

// Offset returns the row offset for the resolved window.
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}
