package prodex

import "github.com/kailas-cloud/prodex/internal/domain"

// Sentinel errors re-exported from the domain layer.
// Use errors.Is() to check.
var (
	ErrNotFound        = domain.ErrNotFound
	ErrAlreadyExists   = domain.ErrAlreadyExists
	ErrProductNotFound = domain.ErrProductNotFound
	ErrInvalidProduct  = domain.ErrInvalidProduct
	ErrInvalidQuery    = domain.ErrInvalidQuery
	ErrBatchTooLarge   = domain.ErrBatchTooLarge
)
