package prodex

import "time"

// Product is a catalog entry.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Location    string
	Price       float64
	Stock       int
	Tags        []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ProductInput carries the writable product fields. ID is only used by
// BatchUpsert, where an empty ID creates a new product.
type ProductInput struct {
	ID          string
	Name        string
	Description string
	Category    string
	Location    string
	Price       float64
	Stock       int
	Tags        []string
}

// ProductPatch is a partial update. Nil fields are unchanged; a non-nil
// Tags replaces the whole list.
type ProductPatch struct {
	Name        *string
	Description *string
	Category    *string
	Location    *string
	Price       *float64
	Stock       *int
	Tags        *[]string
}

// SortField names a sortable product attribute.
type SortField string

// Sort fields.
const (
	SortByName      SortField = "name"
	SortByPrice     SortField = "price"
	SortByCreatedAt SortField = "createdAt"
	SortByUpdatedAt SortField = "updatedAt"
)

// SortDirection is ascending or descending.
type SortDirection string

// Sort directions.
const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// SearchRequest filters and pages the catalog. A non-blank Term switches to
// relevance ranking within the fetched page.
type SearchRequest struct {
	Term          string
	Category      string
	Location      string
	Tags          []string
	MinPrice      *float64
	MaxPrice      *float64
	Page          int
	Limit         int
	SortBy        SortField
	SortDirection SortDirection
}

// SearchResult is one page of products.
type SearchResult struct {
	Products   []Product
	Total      int
	Page       int
	Limit      int
	TotalPages int
}

// SuggestRequest asks for autocomplete candidates.
type SuggestRequest struct {
	Term     string
	Category string
	Limit    int
}

// Suggestions are autocomplete candidates.
type Suggestions struct {
	Products   []Product
	Categories []string
	Locations  []string
}

// BatchStatus is the outcome of one batch item.
type BatchStatus string

// Batch statuses.
const (
	BatchCreated BatchStatus = "created"
	BatchUpdated BatchStatus = "updated"
	BatchDeleted BatchStatus = "deleted"
	BatchError   BatchStatus = "error"
)

// BatchResult is the outcome of one item in a batch operation.
type BatchResult struct {
	Index  int
	ID     string
	Status BatchStatus
	Err    error
}

// OK reports whether the item succeeded.
func (r BatchResult) OK() bool { return r.Status != BatchError }
