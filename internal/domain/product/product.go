package product

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// Field limits.
const (
	MaxIDLength          = 64
	MaxNameLength        = 256
	MaxDescriptionLength = 4096
	MaxTags              = 32
	MaxTagLength         = 64
)

// Fields are the caller-editable attributes of a product.
type Fields struct {
	Name        string
	Description string
	Category    string
	Location    string
	Price       float64
	Stock       int
	Tags        []string
}

// Product is the catalog aggregate (immutable value object).
type Product struct {
	id          string
	name        string
	description string
	category    string
	location    string
	price       float64
	stock       int
	tags        []string
	createdAt   time.Time
	updatedAt   time.Time
}

// New validates f and creates a Product stamped with now.
func New(id string, f Fields, now time.Time) (Product, error) {
	if err := ValidateID(id); err != nil {
		return Product{}, err
	}
	f, err := Normalize(f)
	if err != nil {
		return Product{}, err
	}
	now = now.UTC()
	return fromFields(id, f, now, now), nil
}

// Reconstruct creates a Product without validation (storage hydration).
func Reconstruct(id string, f Fields, createdAt, updatedAt time.Time) Product {
	return fromFields(id, f, createdAt, updatedAt)
}

// ValidateID checks an identifier: ^[a-zA-Z0-9_-]+$, 1-64 chars.
func ValidateID(id string) error {
	switch {
	case id == "":
		return fmt.Errorf("product ID is required: %w", domain.ErrInvalidProduct)
	case len(id) > MaxIDLength:
		return fmt.Errorf("product ID too long (max %d): %w", MaxIDLength, domain.ErrInvalidProduct)
	case !idRegex.MatchString(id):
		return fmt.Errorf("product ID must be alphanumeric with underscores and hyphens: %w", domain.ErrInvalidProduct)
	}
	return nil
}

func fromFields(id string, f Fields, createdAt, updatedAt time.Time) Product {
	return Product{
		id:          id,
		name:        f.Name,
		description: f.Description,
		category:    f.Category,
		location:    f.Location,
		price:       f.Price,
		stock:       f.Stock,
		tags:        slices.Clone(f.Tags),
		createdAt:   createdAt,
		updatedAt:   updatedAt,
	}
}

// Normalize trims text fields, de-duplicates tags and validates the result.
// Validation failures wrap domain.ErrInvalidProduct.
func Normalize(f Fields) (Fields, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Description = strings.TrimSpace(f.Description)
	f.Category = strings.TrimSpace(f.Category)
	f.Location = strings.TrimSpace(f.Location)
	f.Tags = NormalizeTags(f.Tags)

	switch {
	case f.Name == "":
		return Fields{}, fmt.Errorf("name is required: %w", domain.ErrInvalidProduct)
	case len(f.Name) > MaxNameLength:
		return Fields{}, fmt.Errorf("name too long (max %d): %w", MaxNameLength, domain.ErrInvalidProduct)
	case len(f.Description) > MaxDescriptionLength:
		return Fields{}, fmt.Errorf("description too long (max %d): %w", MaxDescriptionLength, domain.ErrInvalidProduct)
	case f.Category == "":
		return Fields{}, fmt.Errorf("category is required: %w", domain.ErrInvalidProduct)
	case f.Location == "":
		return Fields{}, fmt.Errorf("location is required: %w", domain.ErrInvalidProduct)
	case f.Price < 0:
		return Fields{}, fmt.Errorf("price must be non-negative: %w", domain.ErrInvalidProduct)
	case f.Stock < 0:
		return Fields{}, fmt.Errorf("stock must be non-negative: %w", domain.ErrInvalidProduct)
	case len(f.Tags) > MaxTags:
		return Fields{}, fmt.Errorf("too many tags (max %d): %w", MaxTags, domain.ErrInvalidProduct)
	}
	for _, t := range f.Tags {
		if len(t) > MaxTagLength {
			return Fields{}, fmt.Errorf("tag %q too long (max %d): %w", t, MaxTagLength, domain.ErrInvalidProduct)
		}
	}
	return f, nil
}

// NormalizeTags trims tags, drops empty ones and removes duplicates while
// keeping first-seen order. It returns nil for no tags.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ID returns the product identifier.
func (p Product) ID() string { return p.id }

// Name returns the product name.
func (p Product) Name() string { return p.name }

// Description returns the description; empty means absent.
func (p Product) Description() string { return p.description }

// Category returns the category.
func (p Product) Category() string { return p.category }

// Location returns the location.
func (p Product) Location() string { return p.location }

// Price returns the price.
func (p Product) Price() float64 { return p.price }

// Stock returns the stock count.
func (p Product) Stock() int { return p.stock }

// Tags returns the tag list.
func (p Product) Tags() []string { return p.tags }

// CreatedAt returns the creation time.
func (p Product) CreatedAt() time.Time { return p.createdAt }

// UpdatedAt returns the time of the last change.
func (p Product) UpdatedAt() time.Time { return p.updatedAt }

// Fields returns a copy of the editable attributes.
func (p Product) Fields() Fields {
	return Fields{
		Name:        p.name,
		Description: p.description,
		Category:    p.category,
		Location:    p.location,
		Price:       p.price,
		Stock:       p.stock,
		Tags:        slices.Clone(p.tags),
	}
}

// Apply returns a copy with the patch applied and updatedAt set to now.
// The merged fields are validated like New.
func (p Product) Apply(pt patch.Patch, now time.Time) (Product, error) {
	f := p.Fields()
	if v := pt.Name(); v != nil {
		f.Name = *v
	}
	if v := pt.Description(); v != nil {
		f.Description = *v
	}
	if v := pt.Category(); v != nil {
		f.Category = *v
	}
	if v := pt.Location(); v != nil {
		f.Location = *v
	}
	if v := pt.Price(); v != nil {
		f.Price = *v
	}
	if v := pt.Stock(); v != nil {
		f.Stock = *v
	}
	if pt.HasTags() {
		f.Tags = pt.Tags()
	}

	f, err := Normalize(f)
	if err != nil {
		return Product{}, err
	}
	return fromFields(p.id, f, p.createdAt, now.UTC()), nil
}

// WithTimestamps returns a copy with the given timestamps.
func (p Product) WithTimestamps(createdAt, updatedAt time.Time) Product {
	p.createdAt = createdAt
	p.updatedAt = updatedAt
	return p
}
