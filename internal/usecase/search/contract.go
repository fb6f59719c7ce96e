package search

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// Catalog is the read contract the ranking pipeline needs from storage.
// Both calls must see the same predicate semantics so that the page and the
// total agree.
type Catalog interface {
	FetchPage(
		ctx context.Context, p predicate.Predicate, order []sortorder.Order, offset, count int,
	) ([]product.Product, error)
	CountMatching(ctx context.Context, p predicate.Predicate) (int, error)
}
