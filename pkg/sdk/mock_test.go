package prodex

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

// --- productUseCase mock ---

type mockProductUC struct {
	createFn func(ctx context.Context, f domprod.Fields) (domprod.Product, error)
	getFn    func(ctx context.Context, id string) (domprod.Product, error)
	updateFn func(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockProductUC) Create(ctx context.Context, f domprod.Fields) (domprod.Product, error) {
	return m.createFn(ctx, f)
}

func (m *mockProductUC) Get(ctx context.Context, id string) (domprod.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockProductUC) Update(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error) {
	return m.updateFn(ctx, id, pt)
}

func (m *mockProductUC) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

// --- searchUseCase mock ---

type mockSearchUC struct {
	rankFn func(ctx context.Context, q query.Query) (page.Result, error)
}

func (m *mockSearchUC) Rank(ctx context.Context, q query.Query) (page.Result, error) {
	return m.rankFn(ctx, q)
}

// --- suggestUseCase mock ---

type mockSuggestUC struct {
	suggestFn func(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

func (m *mockSuggestUC) Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error) {
	return m.suggestFn(ctx, req)
}

// --- batchUseCase mock ---

type mockBatchUC struct {
	upsertFn func(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error)
	deleteFn func(ctx context.Context, ids []string) ([]dombatch.Result, error)
}

func (m *mockBatchUC) Upsert(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error) {
	return m.upsertFn(ctx, items)
}

func (m *mockBatchUC) Delete(ctx context.Context, ids []string) ([]dombatch.Result, error) {
	return m.deleteFn(ctx, ids)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(_ context.Context) healthuc.Report { return m.report }
