package chi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/oapi-codegen/runtime"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

// SearchParams are the query parameters of GET /products.
type SearchParams struct {
	SearchTerm    *string
	Category      *string
	Location      *string
	Tags          *[]string // repeated (tags=a&tags=b) or comma form (tags=a,b)
	MinPrice      *float64
	MaxPrice      *float64
	Page          *int
	Limit         *int
	SortBy        *string
	SortDirection *string
}

// SuggestParams are the query parameters of GET /products/suggestions.
type SuggestParams struct {
	SearchTerm *string
	Category   *string
	Limit      *int
}

// PageLimits bound the limit parameter of GET /products.
type PageLimits struct {
	Default int
	Max     int
}

func bindSearchParams(r *http.Request) (SearchParams, error) {
	q := r.URL.Query()
	var p SearchParams
	binds := []struct {
		name string
		dest any
	}{
		{"searchTerm", &p.SearchTerm},
		{"category", &p.Category},
		{"location", &p.Location},
		{"tags", &p.Tags},
		{"minPrice", &p.MinPrice},
		{"maxPrice", &p.MaxPrice},
		{"page", &p.Page},
		{"limit", &p.Limit},
		{"sortBy", &p.SortBy},
		{"sortDirection", &p.SortDirection},
	}
	for _, b := range binds {
		if err := runtime.BindQueryParameter("form", true, false, b.name, q, b.dest); err != nil {
			return SearchParams{}, fmt.Errorf("invalid parameter %s: %w", b.name, domain.ErrInvalidQuery)
		}
	}
	return p, nil
}

func bindSuggestParams(r *http.Request) (SuggestParams, error) {
	q := r.URL.Query()
	var p SuggestParams
	if err := runtime.BindQueryParameter("form", true, false, "searchTerm", q, &p.SearchTerm); err != nil {
		return SuggestParams{}, fmt.Errorf("invalid parameter searchTerm: %w", domain.ErrInvalidQuery)
	}
	if err := runtime.BindQueryParameter("form", true, false, "category", q, &p.Category); err != nil {
		return SuggestParams{}, fmt.Errorf("invalid parameter category: %w", domain.ErrInvalidQuery)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", q, &p.Limit); err != nil {
		return SuggestParams{}, fmt.Errorf("invalid parameter limit: %w", domain.ErrInvalidQuery)
	}
	return p, nil
}

// toQuery validates the bound parameters and builds a search query.
func (p SearchParams) toQuery(limits PageLimits) (query.Query, error) {
	q := query.Query{
		FreeText: deref(p.SearchTerm),
		Category: deref(p.Category),
		Location: deref(p.Location),
		MinPrice: p.MinPrice,
		MaxPrice: p.MaxPrice,
		Page:     1,
		Limit:    limits.Default,
	}

	if p.MinPrice != nil && *p.MinPrice < 0 {
		return query.Query{}, fmt.Errorf("minPrice must be non-negative: %w", domain.ErrInvalidQuery)
	}
	if p.MaxPrice != nil && *p.MaxPrice < 0 {
		return query.Query{}, fmt.Errorf("maxPrice must be non-negative: %w", domain.ErrInvalidQuery)
	}
	if p.Page != nil {
		if *p.Page < 1 {
			return query.Query{}, fmt.Errorf("page must be at least 1: %w", domain.ErrInvalidQuery)
		}
		q.Page = *p.Page
	}
	if p.Limit != nil {
		if *p.Limit < 1 || *p.Limit > limits.Max {
			return query.Query{}, fmt.Errorf("limit must be between 1 and %d: %w", limits.Max, domain.ErrInvalidQuery)
		}
		q.Limit = *p.Limit
	}

	if p.Tags != nil {
		for _, raw := range *p.Tags {
			for _, t := range strings.Split(raw, ",") {
				if t = strings.TrimSpace(t); t != "" {
					q.Tags = append(q.Tags, t)
				}
			}
		}
	}

	if p.SortBy != nil || p.SortDirection != nil {
		field := sortorder.Field(deref(p.SortBy))
		if field != "" && !field.IsValid() {
			return query.Query{}, fmt.Errorf("unknown sortBy %q: %w", field, domain.ErrInvalidQuery)
		}
		dir := sortorder.Direction(strings.ToLower(deref(p.SortDirection)))
		if dir != "" && !dir.IsValid() {
			return query.Query{}, fmt.Errorf("unknown sortDirection %q: %w", dir, domain.ErrInvalidQuery)
		}
		q.Sort = &sortorder.Order{Field: field, Direction: dir}
	}
	return q, nil
}

func (p SuggestParams) toRequest() suggestuc.Request {
	req := suggestuc.Request{Term: deref(p.SearchTerm), Category: deref(p.Category)}
	if p.Limit != nil {
		req.Limit = *p.Limit
	}
	return req
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}
