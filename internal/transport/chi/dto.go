package chi

import (
	"time"

	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

// ProductRequest is the body of POST /products and of each batch item.
type ProductRequest struct {
	ID          string   `json:"id,omitempty"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Location    string   `json:"location"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Tags        []string `json:"tags"`
}

func (r ProductRequest) fields() domprod.Fields {
	return domprod.Fields{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Location:    r.Location,
		Price:       r.Price,
		Stock:       r.Stock,
		Tags:        r.Tags,
	}
}

// PatchProductRequest is the body of PATCH /products/{id}. Absent fields are
// left unchanged; a present tags list replaces the stored one.
type PatchProductRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Category    *string   `json:"category"`
	Location    *string   `json:"location"`
	Price       *float64  `json:"price"`
	Stock       *int      `json:"stock"`
	Tags        *[]string `json:"tags"`
}

// BatchUpsertRequest is the body of POST /products/batch.
type BatchUpsertRequest struct {
	Items []ProductRequest `json:"items"`
}

// BatchDeleteRequest is the body of POST /products/batch/delete.
type BatchDeleteRequest struct {
	IDs []string `json:"ids"`
}

// Product is the JSON view of a product.
type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Location    string    `json:"location"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	Tags        []string  `json:"tags"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Pagination describes the returned page.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// SearchResponse is the body of GET /products.
type SearchResponse struct {
	Data       []Product  `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// ProductSuggestion is the compact product view used by autocomplete.
type ProductSuggestion struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Location string `json:"location"`
}

// SuggestionsResponse is the body of GET /products/suggestions.
type SuggestionsResponse struct {
	Products   []ProductSuggestion `json:"products"`
	Categories []string            `json:"categories"`
	Locations  []string            `json:"locations"`
}

// BatchItemResult reports the outcome of one batch item.
type BatchItemResult struct {
	Index  int            `json:"index"`
	ID     string         `json:"id,omitempty"`
	Status string         `json:"status"`
	Error  *ErrorResponse `json:"error,omitempty"`
}

// BatchResponse is the body of both batch endpoints.
type BatchResponse struct {
	Results   []BatchItemResult `json:"results"`
	Succeeded int               `json:"succeeded"`
	Failed    int               `json:"failed"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status   string            `json:"status"`
	Checks   map[string]string `json:"checks"`
	Products int               `json:"products"`
	Version  string            `json:"version"`
}

func productToDTO(p domprod.Product) Product {
	tags := p.Tags()
	if tags == nil {
		tags = []string{}
	}
	return Product{
		ID:          p.ID(),
		Name:        p.Name(),
		Description: p.Description(),
		Category:    p.Category(),
		Location:    p.Location(),
		Price:       p.Price(),
		Stock:       p.Stock(),
		Tags:        tags,
		CreatedAt:   p.CreatedAt(),
		UpdatedAt:   p.UpdatedAt(),
	}
}

func searchResultToDTO(r page.Result) SearchResponse {
	data := make([]Product, len(r.Items))
	for i, p := range r.Items {
		data[i] = productToDTO(p)
	}
	return SearchResponse{
		Data: data,
		Pagination: Pagination{
			Total:      r.Total,
			Page:       r.Page,
			Limit:      r.Limit,
			TotalPages: r.TotalPages,
		},
	}
}

func suggestionsToDTO(r suggestuc.Result) SuggestionsResponse {
	products := make([]ProductSuggestion, len(r.Products))
	for i, p := range r.Products {
		products[i] = ProductSuggestion{ID: p.ID(), Name: p.Name(), Category: p.Category(), Location: p.Location()}
	}
	return SuggestionsResponse{Products: products, Categories: r.Categories, Locations: r.Locations}
}

func batchToDTO(results []dombatch.Result) BatchResponse {
	items := make([]BatchItemResult, len(results))
	for i, r := range results {
		item := BatchItemResult{Index: r.Index(), ID: r.ID(), Status: string(r.Status())}
		if err := r.Err(); err != nil {
			item.Error = &ErrorResponse{Code: errorCode(err), Message: safeMessage(err)}
		}
		items[i] = item
	}
	sum := dombatch.Summarize(results)
	return BatchResponse{Results: items, Succeeded: sum.Succeeded, Failed: sum.Failed}
}

func healthToDTO(r healthuc.Report, version string) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, v := range r.Checks {
		checks[k] = string(v)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks, Products: r.Products, Version: version}
}
