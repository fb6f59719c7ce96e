// Package page turns a requested page and limit into a fetch window and the
// pagination metadata reported back to callers.
package page

import (
	"math"

	"github.com/kailas-cloud/prodex/internal/domain/product"
)

// Pagination defaults for non-positive inputs.
const (
	DefaultPage  = 1
	DefaultLimit = 10
)

// Policy decides which page number is reported back.
type Policy int

const (
	// Clamped reports TotalPages when the requested page is past the end.
	Clamped Policy = iota
	// Unclamped reports the requested page as-is.
	Unclamped
)

func (p Policy) String() string {
	if p == Unclamped {
		return "unclamped"
	}
	return "clamped"
}

// Window is the slice of the filtered catalog to fetch plus the page metadata.
// Offset and Count come from the requested page; TotalPages and Page are
// filled by Describe once the total is known.
type Window struct {
	Offset     int
	Count      int
	Limit      int
	Requested  int
	TotalPages int
	Page       int
}

// Request computes the fetch window for page and limit.
// Non-positive values fall back to DefaultPage and DefaultLimit. Pages whose
// offset would overflow int are capped at the last addressable page.
func Request(page, limit int) Window {
	if page <= 0 {
		page = DefaultPage
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	if page-1 > math.MaxInt/limit {
		page = math.MaxInt/limit + 1
	}
	return Window{
		Offset:    (page - 1) * limit,
		Count:     limit,
		Limit:     limit,
		Requested: page,
		Page:      page,
	}
}

// Describe fills total pages and the reported page for a known total.
// The fetch offset is never changed, so a clamped page past the end still
// reports the last page while its items come back empty.
func (w Window) Describe(total int, policy Policy) Window {
	if total < 0 {
		total = 0
	}
	w.TotalPages = total / w.Limit
	if total%w.Limit != 0 {
		w.TotalPages++
	}
	w.Page = w.Requested
	if policy == Clamped && w.Page > w.TotalPages {
		w.Page = w.TotalPages
	}
	return w
}

// Paginate is Request followed by Describe.
func Paginate(total, page, limit int, policy Policy) Window {
	return Request(page, limit).Describe(total, policy)
}

// Result is one page of products with its pagination metadata.
type Result struct {
	Items      []product.Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// NewResult assembles a Result from fetched items and a described window.
func NewResult(items []product.Product, total int, w Window) Result {
	if items == nil {
		items = []product.Product{}
	}
	return Result{
		Items:      items,
		Total:      total,
		Page:       w.Page,
		Limit:      w.Limit,
		TotalPages: w.TotalPages,
	}
}
