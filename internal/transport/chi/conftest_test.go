package chi

import (
	"context"
	"time"

	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

type mockProducts struct {
	createFn func(ctx context.Context, f domprod.Fields) (domprod.Product, error)
	getFn    func(ctx context.Context, id string) (domprod.Product, error)
	updateFn func(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error)
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockProducts) Create(ctx context.Context, f domprod.Fields) (domprod.Product, error) {
	return m.createFn(ctx, f)
}

func (m *mockProducts) Get(ctx context.Context, id string) (domprod.Product, error) {
	return m.getFn(ctx, id)
}

func (m *mockProducts) Update(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error) {
	return m.updateFn(ctx, id, pt)
}

func (m *mockProducts) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockRanker struct {
	rankFn func(ctx context.Context, q query.Query) (page.Result, error)
}

func (m *mockRanker) Rank(ctx context.Context, q query.Query) (page.Result, error) {
	return m.rankFn(ctx, q)
}

type mockBatch struct {
	upsertFn func(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error)
	deleteFn func(ctx context.Context, ids []string) ([]dombatch.Result, error)
}

func (m *mockBatch) Upsert(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error) {
	return m.upsertFn(ctx, items)
}

func (m *mockBatch) Delete(ctx context.Context, ids []string) ([]dombatch.Result, error) {
	return m.deleteFn(ctx, ids)
}

type mockSuggester struct {
	suggestFn func(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

func (m *mockSuggester) Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error) {
	return m.suggestFn(ctx, req)
}

type mockHealth struct {
	report healthuc.Report
}

func (m *mockHealth) Check(_ context.Context) healthuc.Report { return m.report }

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testProduct(id, name string) domprod.Product {
	return domprod.Reconstruct(id, domprod.Fields{
		Name:     name,
		Category: "Electronics",
		Location: "Berlin",
		Price:    19.99,
		Stock:    3,
		Tags:     []string{"sale"},
	}, testNow, testNow)
}

type testServices struct {
	products  *mockProducts
	ranker    *mockRanker
	batch     *mockBatch
	suggester *mockSuggester
	health    *mockHealth
}

func newTestServices() *testServices {
	return &testServices{
		products:  &mockProducts{},
		ranker:    &mockRanker{},
		batch:     &mockBatch{},
		suggester: &mockSuggester{},
		health:    &mockHealth{report: healthuc.Report{Status: healthuc.Healthy}},
	}
}

func (ts *testServices) server() *Server {
	return NewServer(Services{
		Products: ts.products,
		Search:   ts.ranker,
		Batch:    ts.batch,
		Suggest:  ts.suggester,
		Health:   ts.health,
	}, PageLimits{Default: 10, Max: 100}, "test", nil)
}
