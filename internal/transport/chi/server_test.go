package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/prodex/internal/domain"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, http.NoBody)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&v))
	return v
}

func TestSearchProducts(t *testing.T) {
	ts := newTestServices()
	var got query.Query
	ts.ranker.rankFn = func(_ context.Context, q query.Query) (page.Result, error) {
		got = q
		return page.Result{
			Items:      []domprod.Product{testProduct("p1", "Phone")},
			Total:      1,
			Page:       1,
			Limit:      5,
			TotalPages: 1,
		}, nil
	}

	rr := do(t, ts.server().Handler(), http.MethodGet,
		"/products?searchTerm=phone&category=Electronics&tags=sale,new&tags=hot&minPrice=1&maxPrice=50&limit=5&sortBy=price&sortDirection=DESC", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	assert.Equal(t, "phone", got.FreeText)
	assert.Equal(t, "Electronics", got.Category)
	assert.Equal(t, []string{"sale", "new", "hot"}, got.Tags)
	require.NotNil(t, got.MinPrice)
	assert.InDelta(t, 1.0, *got.MinPrice, 1e-9)
	require.NotNil(t, got.MaxPrice)
	assert.InDelta(t, 50.0, *got.MaxPrice, 1e-9)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 5, got.Limit)
	require.NotNil(t, got.Sort)
	assert.Equal(t, sortorder.Price, got.Sort.Field)
	assert.Equal(t, sortorder.Desc, got.Sort.Direction)

	resp := decode[SearchResponse](t, rr)
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "p1", resp.Data[0].ID)
	assert.Equal(t, []string{"sale"}, resp.Data[0].Tags)
	assert.Equal(t, Pagination{Total: 1, Page: 1, Limit: 5, TotalPages: 1}, resp.Pagination)
}

func TestSearchProducts_Defaults(t *testing.T) {
	ts := newTestServices()
	var got query.Query
	ts.ranker.rankFn = func(_ context.Context, q query.Query) (page.Result, error) {
		got = q
		return page.Result{Page: 1, Limit: q.Limit}, nil
	}

	rr := do(t, ts.server().Handler(), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 10, got.Limit)
	assert.Nil(t, got.Sort)
	assert.Nil(t, got.MinPrice)

	resp := decode[SearchResponse](t, rr)
	assert.NotNil(t, resp.Data)
	assert.Empty(t, resp.Data)
}

func TestSearchProducts_InvalidParams(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"non-numeric page", "page=abc"},
		{"page zero", "page=0"},
		{"limit zero", "limit=0"},
		{"limit above max", "limit=101"},
		{"negative min price", "minPrice=-1"},
		{"negative max price", "maxPrice=-0.5"},
		{"unknown sort field", "sortBy=stock"},
		{"unknown direction", "sortDirection=up"},
		{"non-numeric price", "minPrice=cheap"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			ts.ranker.rankFn = func(context.Context, query.Query) (page.Result, error) {
				t.Fatal("ranker must not be called")
				return page.Result{}, nil
			}

			rr := do(t, ts.server().Handler(), http.MethodGet, "/products?"+tt.query, "")

			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.Equal(t, CodeValidationFailed, decode[ErrorResponse](t, rr).Code)
		})
	}
}

func TestSearchProducts_ServiceValidationError(t *testing.T) {
	ts := newTestServices()
	ts.ranker.rankFn = func(context.Context, query.Query) (page.Result, error) {
		return page.Result{}, fmt.Errorf("minPrice exceeds maxPrice: %w", domain.ErrInvalidQuery)
	}

	rr := do(t, ts.server().Handler(), http.MethodGet, "/products?minPrice=10&maxPrice=1", "")

	require.Equal(t, http.StatusBadRequest, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Contains(t, resp.Message, "minPrice exceeds maxPrice")
}

func TestSearchProducts_InternalErrorIsHidden(t *testing.T) {
	ts := newTestServices()
	ts.ranker.rankFn = func(context.Context, query.Query) (page.Result, error) {
		return page.Result{}, errors.New("connection refused to 10.0.0.1")
	}

	rr := do(t, ts.server().Handler(), http.MethodGet, "/products", "")

	require.Equal(t, http.StatusInternalServerError, rr.Code)
	resp := decode[ErrorResponse](t, rr)
	assert.Equal(t, CodeInternalError, resp.Code)
	assert.NotContains(t, resp.Message, "10.0.0.1")
}

func TestSuggestProducts(t *testing.T) {
	ts := newTestServices()
	var got suggestuc.Request
	ts.suggester.suggestFn = func(_ context.Context, req suggestuc.Request) (suggestuc.Result, error) {
		got = req
		return suggestuc.Result{
			Products:   []domprod.Product{testProduct("p1", "Phone")},
			Categories: []string{"Electronics"},
			Locations:  []string{},
		}, nil
	}

	rr := do(t, ts.server().Handler(), http.MethodGet, "/products/suggestions?searchTerm=ph&category=Elec&limit=3", "")

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, suggestuc.Request{Term: "ph", Category: "Elec", Limit: 3}, got)

	resp := decode[SuggestionsResponse](t, rr)
	require.Len(t, resp.Products, 1)
	assert.Equal(t, ProductSuggestion{ID: "p1", Name: "Phone", Category: "Electronics", Location: "Berlin"}, resp.Products[0])
	assert.Equal(t, []string{"Electronics"}, resp.Categories)
	assert.Empty(t, resp.Locations)
}

func TestSuggestProducts_Errors(t *testing.T) {
	ts := newTestServices()
	ts.suggester.suggestFn = func(context.Context, suggestuc.Request) (suggestuc.Result, error) {
		return suggestuc.Result{}, fmt.Errorf("search term too short: %w", domain.ErrInvalidQuery)
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodGet, "/products/suggestions?searchTerm=p", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/products/suggestions?searchTerm=phone&limit=0", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodGet, "/products/suggestions?searchTerm=phone&limit=x", "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestCreateProduct(t *testing.T) {
	ts := newTestServices()
	var got domprod.Fields
	ts.products.createFn = func(_ context.Context, f domprod.Fields) (domprod.Product, error) {
		got = f
		return testProduct("new-id", f.Name), nil
	}

	body := `{"name":"Phone","description":"Smart","category":"Electronics","location":"Berlin","price":19.99,"stock":3,"tags":["sale"]}`
	rr := do(t, ts.server().Handler(), http.MethodPost, "/products", body)

	require.Equal(t, http.StatusCreated, rr.Code)
	assert.Equal(t, "Phone", got.Name)
	assert.Equal(t, "Smart", got.Description)
	assert.InDelta(t, 19.99, got.Price, 1e-9)
	assert.Equal(t, []string{"sale"}, got.Tags)

	resp := decode[Product](t, rr)
	assert.Equal(t, "new-id", resp.ID)
	assert.True(t, resp.CreatedAt.Equal(testNow))
}

func TestCreateProduct_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		err      error
		wantCode int
		wantErr  string
	}{
		{"malformed json", `{"name":`, nil, http.StatusBadRequest, CodeBadRequest},
		{"unknown field", `{"name":"x","colour":"red"}`, nil, http.StatusBadRequest, CodeBadRequest},
		{"invalid product", `{"name":""}`, fmt.Errorf("name is required: %w", domain.ErrInvalidProduct), http.StatusBadRequest, CodeValidationFailed},
		{"duplicate", `{"name":"x"}`, domain.ErrAlreadyExists, http.StatusConflict, CodeAlreadyExists},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			ts.products.createFn = func(context.Context, domprod.Fields) (domprod.Product, error) {
				return domprod.Product{}, tt.err
			}

			rr := do(t, ts.server().Handler(), http.MethodPost, "/products", tt.body)

			require.Equal(t, tt.wantCode, rr.Code)
			assert.Equal(t, tt.wantErr, decode[ErrorResponse](t, rr).Code)
		})
	}
}

func TestGetProduct(t *testing.T) {
	ts := newTestServices()
	ts.products.getFn = func(_ context.Context, id string) (domprod.Product, error) {
		if id == "p1" {
			return testProduct("p1", "Phone"), nil
		}
		return domprod.Product{}, domain.ErrProductNotFound
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodGet, "/products/p1", "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Phone", decode[Product](t, rr).Name)

	rr = do(t, h, http.MethodGet, "/products/missing", "")
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, CodeProductNotFound, decode[ErrorResponse](t, rr).Code)
}

func TestPatchProduct(t *testing.T) {
	ts := newTestServices()
	var gotID string
	var got patch.Patch
	ts.products.updateFn = func(_ context.Context, id string, pt patch.Patch) (domprod.Product, error) {
		gotID, got = id, pt
		return testProduct(id, "Renamed"), nil
	}

	rr := do(t, ts.server().Handler(), http.MethodPatch, "/products/p1", `{"name":"Renamed","tags":[]}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "p1", gotID)
	require.NotNil(t, got.Name())
	assert.Equal(t, "Renamed", *got.Name())
	assert.Nil(t, got.Price())
	assert.True(t, got.HasTags())
	assert.Empty(t, got.Tags())
}

func TestPatchProduct_TagsAbsent(t *testing.T) {
	ts := newTestServices()
	var got patch.Patch
	ts.products.updateFn = func(_ context.Context, id string, pt patch.Patch) (domprod.Product, error) {
		got = pt
		return testProduct(id, "Phone"), nil
	}

	rr := do(t, ts.server().Handler(), http.MethodPatch, "/products/p1", `{"price":5}`)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.False(t, got.HasTags())
	require.NotNil(t, got.Price())
	assert.InDelta(t, 5.0, *got.Price(), 1e-9)
}

func TestPatchProduct_Errors(t *testing.T) {
	ts := newTestServices()
	ts.products.updateFn = func(context.Context, string, patch.Patch) (domprod.Product, error) {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodPatch, "/products/p1", `{}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, CodeValidationFailed, decode[ErrorResponse](t, rr).Code)

	rr = do(t, h, http.MethodPatch, "/products/p1", `{"stock":-1}`)
	require.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPatch, "/products/missing", `{"name":"x"}`)
	require.Equal(t, http.StatusNotFound, rr.Code)
}

func TestDeleteProduct(t *testing.T) {
	ts := newTestServices()
	ts.products.deleteFn = func(_ context.Context, id string) error {
		if id == "p1" {
			return nil
		}
		return domain.ErrProductNotFound
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodDelete, "/products/p1", "")
	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Empty(t, rr.Body.String())

	rr = do(t, h, http.MethodDelete, "/products/p2", "")
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestBatchUpsert(t *testing.T) {
	ts := newTestServices()
	var got []batchuc.Item
	ts.batch.upsertFn = func(_ context.Context, items []batchuc.Item) ([]dombatch.Result, error) {
		got = items
		return []dombatch.Result{
			dombatch.NewResult(0, "p1", dombatch.StatusUpdated),
			dombatch.NewError(1, "", fmt.Errorf("name is required: %w", domain.ErrInvalidProduct)),
			dombatch.NewError(2, "p3", errors.New("disk on fire")),
		}, nil
	}

	body := `{"items":[{"id":"p1","name":"Phone"},{"name":""},{"id":"p3","name":"Cable"}]}`
	rr := do(t, ts.server().Handler(), http.MethodPost, "/products/batch", body)

	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, got, 3)
	assert.Equal(t, "p1", got[0].ID)
	assert.Equal(t, "Phone", got[0].Fields.Name)
	assert.Empty(t, got[1].ID)

	resp := decode[BatchResponse](t, rr)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 2, resp.Failed)
	require.Len(t, resp.Results, 3)
	assert.Equal(t, "updated", resp.Results[0].Status)
	assert.Nil(t, resp.Results[0].Error)
	require.NotNil(t, resp.Results[1].Error)
	assert.Equal(t, CodeValidationFailed, resp.Results[1].Error.Code)
	require.NotNil(t, resp.Results[2].Error)
	assert.Equal(t, CodeInternalError, resp.Results[2].Error.Code)
	assert.Equal(t, "internal error", resp.Results[2].Error.Message)
}

func TestBatchUpsert_Errors(t *testing.T) {
	ts := newTestServices()
	ts.batch.upsertFn = func(context.Context, []batchuc.Item) ([]dombatch.Result, error) {
		return nil, fmt.Errorf("batch of 2 exceeds 1: %w", domain.ErrBatchTooLarge)
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodPost, "/products/batch", `{"items":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = do(t, h, http.MethodPost, "/products/batch", `{"items":[{"name":"a"},{"name":"b"}]}`)
	require.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, CodeBatchTooLarge, decode[ErrorResponse](t, rr).Code)
}

func TestBatchDelete(t *testing.T) {
	ts := newTestServices()
	ts.batch.deleteFn = func(_ context.Context, ids []string) ([]dombatch.Result, error) {
		return []dombatch.Result{
			dombatch.NewResult(0, ids[0], dombatch.StatusDeleted),
			dombatch.NewError(1, ids[1], domain.ErrProductNotFound),
		}, nil
	}
	h := ts.server().Handler()

	rr := do(t, h, http.MethodPost, "/products/batch/delete", `{"ids":["p1","gone"]}`)
	require.Equal(t, http.StatusOK, rr.Code)
	resp := decode[BatchResponse](t, rr)
	assert.Equal(t, 1, resp.Succeeded)
	assert.Equal(t, 1, resp.Failed)
	assert.Equal(t, CodeProductNotFound, resp.Results[1].Error.Code)

	rr = do(t, h, http.MethodPost, "/products/batch/delete", `{"ids":[]}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name     string
		status   healthuc.Status
		wantCode int
	}{
		{"healthy", healthuc.Healthy, http.StatusOK},
		{"degraded", healthuc.Degraded, http.StatusOK},
		{"unhealthy", healthuc.Unhealthy, http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServices()
			ts.health.report = healthuc.Report{
				Status:   tt.status,
				Checks:   map[string]healthuc.CheckResult{"database": healthuc.CheckOK},
				Products: 7,
			}

			rr := do(t, ts.server().Handler(), http.MethodGet, "/health", "")

			require.Equal(t, tt.wantCode, rr.Code)
			resp := decode[HealthResponse](t, rr)
			assert.Equal(t, string(tt.status), resp.Status)
			assert.Equal(t, "ok", resp.Checks["database"])
			assert.Equal(t, 7, resp.Products)
			assert.Equal(t, "test", resp.Version)
		})
	}
}

func TestHandleDomainError_CancelledRequest(t *testing.T) {
	ts := newTestServices()
	ts.ranker.rankFn = func(context.Context, query.Query) (page.Result, error) {
		return page.Result{}, fmt.Errorf("fetch page: %w", context.Canceled)
	}

	rr := do(t, ts.server().Handler(), http.MethodGet, "/products", "")

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}
