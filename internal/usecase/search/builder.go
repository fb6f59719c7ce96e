package search

import (
	"github.com/kailas-cloud/prodex/internal/domain/search/mode"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	"github.com/kailas-cloud/prodex/internal/domain/search/text"
)

// Plan is what a query asks of the catalog: the filter, the fetch order and
// how the page is reported back.
type Plan struct {
	Mode      mode.Mode
	Predicate predicate.Predicate
	Order     []sortorder.Order
	Policy    page.Policy
	Phrase    string
}

// BuildPlan picks simple or weighted mode from the query's free text.
// q is expected to be normalized.
func BuildPlan(q query.Query) Plan {
	if q.HasFreeText() {
		return Plan{
			Mode:      mode.Weighted,
			Predicate: WeightedPredicate(q),
			Order:     weightedOrder(q),
			Policy:    page.Unclamped,
			Phrase:    q.FreeText,
		}
	}
	return Plan{
		Mode:      mode.Simple,
		Predicate: SimplePredicate(q),
		Order:     simpleOrder(q),
		Policy:    page.Clamped,
	}
}

// SimplePredicate matches category and location as substrings.
func SimplePredicate(q query.Query) predicate.Predicate {
	var terms []predicate.Predicate
	if q.Category != "" {
		terms = append(terms, predicate.Contains(predicate.Category, q.Category))
	}
	if q.Location != "" {
		terms = append(terms, predicate.Contains(predicate.Location, q.Location))
	}
	return predicate.And(append(terms, commonTerms(q)...)...)
}

// WeightedPredicate requires every free-text word in the name or the
// description, and matches category and location exactly.
func WeightedPredicate(q query.Query) predicate.Predicate {
	var terms []predicate.Predicate
	for _, w := range text.Words(q.FreeText) {
		terms = append(terms, predicate.Or(
			predicate.Contains(predicate.Name, w),
			predicate.Contains(predicate.Description, w),
		))
	}
	if q.Category != "" {
		terms = append(terms, predicate.Equals(predicate.Category, q.Category))
	}
	if q.Location != "" {
		terms = append(terms, predicate.Equals(predicate.Location, q.Location))
	}
	return predicate.And(append(terms, commonTerms(q)...)...)
}

// commonTerms are the tag and price constraints shared by both modes.
func commonTerms(q query.Query) []predicate.Predicate {
	var terms []predicate.Predicate
	if len(q.Tags) > 0 {
		terms = append(terms, predicate.HasAny(predicate.Tags, q.Tags))
	}
	if q.MinPrice != nil || q.MaxPrice != nil {
		terms = append(terms, predicate.Range(predicate.Price, q.MinPrice, q.MaxPrice))
	}
	return terms
}

var newestFirst = sortorder.By(sortorder.CreatedAt, sortorder.Desc)

func simpleOrder(q query.Query) []sortorder.Order {
	if q.Sort == nil || q.Sort.Field == "" {
		return []sortorder.Order{newestFirst}
	}
	return []sortorder.Order{sortorder.By(q.Sort.Field, q.Sort.Direction)}
}

// weightedOrder only decides which rows form the page; the page itself is
// re-sorted by relevance.
func weightedOrder(q query.Query) []sortorder.Order {
	return []sortorder.Order{
		sortorder.By(sortorder.Name, q.Direction()),
		newestFirst,
	}
}
