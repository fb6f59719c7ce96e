package chi

import (
	"context"

	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

// ProductService is the CRUD surface used by the product handlers.
type ProductService interface {
	Create(ctx context.Context, f domprod.Fields) (domprod.Product, error)
	Get(ctx context.Context, id string) (domprod.Product, error)
	Update(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error)
	Delete(ctx context.Context, id string) error
}

// Ranker answers catalog searches.
type Ranker interface {
	Rank(ctx context.Context, q query.Query) (page.Result, error)
}

// BatchService runs multi-product writes.
type BatchService interface {
	Upsert(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error)
	Delete(ctx context.Context, ids []string) ([]dombatch.Result, error)
}

// Suggester answers autocomplete requests.
type Suggester interface {
	Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) healthuc.Report
}
