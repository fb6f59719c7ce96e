package query

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/search/mode"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// MaxFreeTextLength is the maximum accepted free-text length in bytes.
const MaxFreeTextLength = 512

// Query is a catalog search request. Empty strings and nil pointers mean the
// field is absent and imposes no constraint.
type Query struct {
	FreeText string
	Category string
	Location string
	Tags     []string
	MinPrice *float64
	MaxPrice *float64
	Page     int
	Limit    int
	// Sort may carry only a Direction (empty Field): weighted mode applies it
	// to the name order, simple mode keeps its default order.
	Sort *sortorder.Order
}

// Normalize trims text fields and drops blank tags. A blank free text becomes
// absent, which selects simple mode.
func (q Query) Normalize() Query {
	q.FreeText = strings.TrimSpace(q.FreeText)
	q.Category = strings.TrimSpace(q.Category)
	q.Location = strings.TrimSpace(q.Location)
	if len(q.Tags) > 0 {
		tags := make([]string, 0, len(q.Tags))
		for _, t := range q.Tags {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
		q.Tags = tags
	}
	return q
}

// Validate checks the fields the ranking pipeline cannot default.
// Price bounds are not cross-checked: minPrice > maxPrice simply matches
// nothing. Errors wrap domain.ErrInvalidQuery.
func (q Query) Validate() error {
	if len(q.FreeText) > MaxFreeTextLength {
		return fmt.Errorf("search term too long (max %d): %w", MaxFreeTextLength, domain.ErrInvalidQuery)
	}
	if q.Sort != nil {
		if q.Sort.Field != "" && !q.Sort.Field.IsValid() {
			return fmt.Errorf("unknown sort field %q: %w", q.Sort.Field, domain.ErrInvalidQuery)
		}
		if q.Sort.Direction != "" && !q.Sort.Direction.IsValid() {
			return fmt.Errorf("unknown sort direction %q: %w", q.Sort.Direction, domain.ErrInvalidQuery)
		}
	}
	return nil
}

// HasFreeText reports whether the query carries a non-blank search term.
func (q Query) HasFreeText() bool {
	return strings.TrimSpace(q.FreeText) != ""
}

// Mode returns the search strategy for the query.
func (q Query) Mode() mode.Mode {
	return mode.For(q.HasFreeText())
}

// Direction returns the requested sort direction, ascending by default.
func (q Query) Direction() sortorder.Direction {
	if q.Sort == nil || q.Sort.Direction == "" {
		return sortorder.Asc
	}
	return q.Sort.Direction
}
