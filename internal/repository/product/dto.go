package product

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
)

// Hash field names.
const (
	fieldID          = "id"
	fieldName        = "name"
	fieldDescription = "description"
	fieldCategory    = "category"
	fieldLocation    = "location"
	fieldPrice       = "price"
	fieldStock       = "stock"
	fieldTags        = "tags"
	fieldCreatedAt   = "created_at"
	fieldUpdatedAt   = "updated_at"
)

// buildHashFields flattens a product for HSET. Every field is always
// written so that HSET over an existing hash fully replaces it.
func buildHashFields(p domprod.Product) map[string]string {
	tags := p.Tags()
	if tags == nil {
		tags = []string{}
	}
	rawTags, _ := json.Marshal(tags) // []string never fails to marshal

	return map[string]string{
		fieldID:          p.ID(),
		fieldName:        p.Name(),
		fieldDescription: p.Description(),
		fieldCategory:    p.Category(),
		fieldLocation:    p.Location(),
		fieldPrice:       strconv.FormatFloat(p.Price(), 'f', -1, 64),
		fieldStock:       strconv.Itoa(p.Stock()),
		fieldTags:        string(rawTags),
		fieldCreatedAt:   p.CreatedAt().UTC().Format(time.RFC3339Nano),
		fieldUpdatedAt:   p.UpdatedAt().UTC().Format(time.RFC3339Nano),
	}
}

// parseHashFields rebuilds a product from its hash.
func parseHashFields(id string, m map[string]string) (domprod.Product, error) {
	price, err := strconv.ParseFloat(m[fieldPrice], 64)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse price: %w", id, err)
	}
	stock, err := strconv.Atoi(m[fieldStock])
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse stock: %w", id, err)
	}
	var tags []string
	if raw := m[fieldTags]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &tags); err != nil {
			return domprod.Product{}, fmt.Errorf("product %s: parse tags: %w", id, err)
		}
	}
	createdAt, err := time.Parse(time.RFC3339Nano, m[fieldCreatedAt])
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse created_at: %w", id, err)
	}
	updatedAt, err := time.Parse(time.RFC3339Nano, m[fieldUpdatedAt])
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse updated_at: %w", id, err)
	}

	return domprod.Reconstruct(id, domprod.Fields{
		Name:        m[fieldName],
		Description: m[fieldDescription],
		Category:    m[fieldCategory],
		Location:    m[fieldLocation],
		Price:       price,
		Stock:       stock,
		Tags:        domprod.NormalizeTags(tags),
	}, createdAt, updatedAt), nil
}
