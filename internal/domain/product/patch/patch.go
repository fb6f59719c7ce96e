package patch

import (
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
)

// Patch is a partial product update. Nil fields are unchanged.
// Tags replace the whole list when set; an empty list clears it.
type Patch struct {
	name        *string
	description *string
	category    *string
	location    *string
	price       *float64
	stock       *int
	tags        []string
	hasTags     bool
}

// New validates and creates a Patch. At least one field must be provided.
func New(
	name, description, category, location *string,
	price *float64, stock *int,
	tags []string, hasTags bool,
) (Patch, error) {
	if name == nil && description == nil && category == nil && location == nil &&
		price == nil && stock == nil && !hasTags {
		return Patch{}, fmt.Errorf("at least one field must be provided: %w", domain.ErrInvalidProduct)
	}
	if price != nil && *price < 0 {
		return Patch{}, fmt.Errorf("price must be non-negative: %w", domain.ErrInvalidProduct)
	}
	if stock != nil && *stock < 0 {
		return Patch{}, fmt.Errorf("stock must be non-negative: %w", domain.ErrInvalidProduct)
	}
	return Patch{
		name: name, description: description,
		category: category, location: location,
		price: price, stock: stock,
		tags: tags, hasTags: hasTags,
	}, nil
}

// Name returns the new name, or nil if unchanged.
func (p Patch) Name() *string { return p.name }

// Description returns the new description, or nil if unchanged.
func (p Patch) Description() *string { return p.description }

// Category returns the new category, or nil if unchanged.
func (p Patch) Category() *string { return p.category }

// Location returns the new location, or nil if unchanged.
func (p Patch) Location() *string { return p.location }

// Price returns the new price, or nil if unchanged.
func (p Patch) Price() *float64 { return p.price }

// Stock returns the new stock, or nil if unchanged.
func (p Patch) Stock() *int { return p.stock }

// Tags returns the replacement tag list.
func (p Patch) Tags() []string { return p.tags }

// HasTags reports whether the patch replaces tags.
func (p Patch) HasTags() bool { return p.hasTags }
