package prodex

import (
	"context"
	"fmt"
	"time"

	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

// ProductService manages and queries the catalog.
type ProductService struct {
	products productUseCase
	search   searchUseCase
	suggest  suggestUseCase
	batch    batchUseCase
	obs      *observer
}

// Create stores a new product under a generated ID.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (_ Product, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.create", start, err) }()

	p, err := s.products.Create(ctx, toFields(in))
	if err != nil {
		return Product{}, fmt.Errorf("create product: %w", err)
	}
	return fromInternalProduct(p), nil
}

// Get retrieves a product by ID.
func (s *ProductService) Get(ctx context.Context, id string) (_ Product, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.get", start, err) }()

	p, err := s.products.Get(ctx, id)
	if err != nil {
		return Product{}, fmt.Errorf("get product: %w", err)
	}
	return fromInternalProduct(p), nil
}

// Update applies a partial update.
func (s *ProductService) Update(ctx context.Context, id string, pp ProductPatch) (_ Product, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.update", start, err) }()

	pt, err := toInternalPatch(pp)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	p, err := s.products.Update(ctx, id, pt)
	if err != nil {
		return Product{}, fmt.Errorf("update product: %w", err)
	}
	return fromInternalProduct(p), nil
}

// Delete removes a product by ID.
func (s *ProductService) Delete(ctx context.Context, id string) (err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.delete", start, err) }()

	if err = s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

// Search returns one page of the filtered catalog.
func (s *ProductService) Search(ctx context.Context, req SearchRequest) (_ SearchResult, err error) {
	start := time.Now()
	q := toQuery(req)
	m := q.Mode()
	total := 0
	defer func() {
		s.obs.observe("product.search", start, err, "mode", string(m), "total", total)
	}()

	res, err := s.search.Rank(ctx, q)
	if err != nil {
		return SearchResult{}, fmt.Errorf("search: %w", err)
	}
	total = res.Total
	s.obs.observeSearch(m, total)
	out := SearchResult{
		Products:   make([]Product, len(res.Items)),
		Total:      res.Total,
		Page:       res.Page,
		Limit:      res.Limit,
		TotalPages: res.TotalPages,
	}
	for i, p := range res.Items {
		out.Products[i] = fromInternalProduct(p)
	}
	return out, nil
}

// Suggest returns autocomplete candidates for a partial term.
func (s *ProductService) Suggest(ctx context.Context, req SuggestRequest) (_ Suggestions, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.suggest", start, err) }()

	res, err := s.suggest.Suggest(ctx, suggestuc.Request{
		Term:     req.Term,
		Category: req.Category,
		Limit:    req.Limit,
	})
	if err != nil {
		return Suggestions{}, fmt.Errorf("suggest: %w", err)
	}
	out := Suggestions{
		Products:   make([]Product, len(res.Products)),
		Categories: res.Categories,
		Locations:  res.Locations,
	}
	for i, p := range res.Products {
		out.Products[i] = fromInternalProduct(p)
	}
	return out, nil
}

// BatchUpsert creates or replaces products. Item failures are reported per
// item; the error is only set when the whole batch is rejected.
func (s *ProductService) BatchUpsert(ctx context.Context, items []ProductInput) (_ []BatchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.batch_upsert", start, err) }()

	in := make([]batchuc.Item, len(items))
	for i, it := range items {
		in[i] = batchuc.Item{ID: it.ID, Fields: toFields(it)}
	}
	results, err := s.batch.Upsert(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("batch upsert: %w", err)
	}
	out := fromBatchResults(results)
	s.obs.observeBatch("upsert", out)
	return out, nil
}

// BatchDelete removes products by ID.
func (s *ProductService) BatchDelete(ctx context.Context, ids []string) (_ []BatchResult, err error) {
	start := time.Now()
	defer func() { s.obs.observe("product.batch_delete", start, err) }()

	results, err := s.batch.Delete(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("batch delete: %w", err)
	}
	out := fromBatchResults(results)
	s.obs.observeBatch("delete", out)
	return out, nil
}

func toFields(in ProductInput) domprod.Fields {
	return domprod.Fields{
		Name:        in.Name,
		Description: in.Description,
		Category:    in.Category,
		Location:    in.Location,
		Price:       in.Price,
		Stock:       in.Stock,
		Tags:        in.Tags,
	}
}

func fromInternalProduct(p domprod.Product) Product {
	return Product{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		Location:    p.Location(),
		Price:       p.Price(),
		Stock:       p.Stock(),
		Tags:        p.Tags(),
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func toInternalPatch(p ProductPatch) (patch.Patch, error) {
	var tags []string
	if p.Tags != nil {
		tags = *p.Tags
	}
	pt, err := patch.New(p.Name, p.Description, p.Category, p.Location, p.Price, p.Stock, tags, p.Tags != nil)
	if err != nil {
		return patch.Patch{}, fmt.Errorf("validate patch: %w", err)
	}
	return pt, nil
}

func toQuery(req SearchRequest) query.Query {
	q := query.Query{
		FreeText: req.Term,
		Category: req.Category,
		Location: req.Location,
		Tags:     req.Tags,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Page:     req.Page,
		Limit:    req.Limit,
	}
	if req.SortBy != "" || req.SortDirection != "" {
		q.Sort = &sortorder.Order{
			Field:     sortorder.Field(req.SortBy),
			Direction: sortorder.Direction(req.SortDirection),
		}
	}
	return q
}

func fromBatchResults(results []dombatch.Result) []BatchResult {
	out := make([]BatchResult, len(results))
	for i, r := range results {
		out[i] = BatchResult{
			Index:  r.Index(),
			ID:     r.ID(),
			Status: BatchStatus(r.Status()),
			Err:    r.Err(),
		}
	}
	return out
}
