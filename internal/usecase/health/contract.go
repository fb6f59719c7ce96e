package health

import (
	"context"

	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
)

// DBPinger checks database availability.
type DBPinger interface {
	Ping(ctx context.Context) error
}

// CatalogCounter counts catalog rows; used to confirm the catalog is readable.
type CatalogCounter interface {
	CountMatching(ctx context.Context, p predicate.Predicate) (int, error)
}
