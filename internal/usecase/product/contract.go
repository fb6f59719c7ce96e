package product

import (
	"context"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// Repository defines the storage contract for products.
type Repository interface {
	// Create stores a new product; domain.ErrAlreadyExists if the ID is taken.
	Create(ctx context.Context, p domprod.Product) error
	// Get loads a product; domain.ErrProductNotFound if absent.
	Get(ctx context.Context, id string) (domprod.Product, error)
	// Update replaces a stored product; domain.ErrProductNotFound if absent.
	Update(ctx context.Context, p domprod.Product) error
	// Delete removes a product; domain.ErrProductNotFound if absent.
	Delete(ctx context.Context, id string) error
}
