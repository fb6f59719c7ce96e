package product

import (
	"cmp"
	"slices"
	"strings"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	"github.com/kailas-cloud/prodex/internal/domain/search/text"
)

// sortProducts orders ps by orders in sequence, then by ID ascending so
// that pages are deterministic.
func sortProducts(ps []domprod.Product, orders []sortorder.Order) {
	slices.SortStableFunc(ps, func(a, b domprod.Product) int {
		for _, o := range orders {
			c := compareField(a, b, o.Field)
			if o.Descending() {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID(), b.ID())
	})
}

func compareField(a, b domprod.Product, f sortorder.Field) int {
	switch f {
	case sortorder.Name:
		return strings.Compare(text.Normalize(a.Name()), text.Normalize(b.Name()))
	case sortorder.Price:
		return cmp.Compare(a.Price(), b.Price())
	case sortorder.CreatedAt:
		return a.CreatedAt().Compare(b.CreatedAt())
	case sortorder.UpdatedAt:
		return a.UpdatedAt().Compare(b.UpdatedAt())
	}
	return 0
}
