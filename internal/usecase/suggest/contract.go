package suggest

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// Store is the read contract for autocomplete.
type Store interface {
	FetchPage(
		ctx context.Context, p predicate.Predicate, order []sortorder.Order, offset, count int,
	) ([]product.Product, error)
	// Distinct returns up to limit distinct values of f among products
	// matching p, in ascending order.
	Distinct(ctx context.Context, f predicate.Field, p predicate.Predicate, limit int) ([]string, error)
}
