package batch

import (
	"context"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// ProductUpserter creates or replaces a product.
type ProductUpserter interface {
	Upsert(ctx context.Context, id string, f domprod.Fields) (p domprod.Product, created bool, err error)
}

// ProductDeleter deletes a product.
type ProductDeleter interface {
	Delete(ctx context.Context, id string) error
}
