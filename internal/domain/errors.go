package domain

import "errors"

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource.
	ErrAlreadyExists = errors.New("already exists")
	// ErrProductNotFound signals a missing product.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidProduct signals a product that fails validation.
	ErrInvalidProduct = errors.New("invalid product")
	// ErrInvalidQuery signals unusable search or suggestion parameters.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrBatchTooLarge signals a batch over the configured size.
	ErrBatchTooLarge = errors.New("batch too large")
)
