package predicate

import (
	"slices"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/text"
)

// Record exposes field values to Match.
type Record interface {
	Text(f Field) string
	Number(f Field) (float64, bool)
	List(f Field) []string
}

// Match reports whether rec satisfies p. Unknown fields read as empty, so a
// text constraint on them never matches.
func Match(p Predicate, rec Record) bool {
	switch p.Kind {
	case KindAll:
		return true
	case KindAnd:
		for _, c := range p.Children {
			if !Match(c, rec) {
				return false
			}
		}
		return true
	case KindOr:
		for _, c := range p.Children {
			if Match(c, rec) {
				return true
			}
		}
		return false
	case KindContains:
		return strings.Contains(text.Normalize(rec.Text(p.Field)), text.Normalize(p.Value))
	case KindEquals:
		return text.Normalize(rec.Text(p.Field)) == text.Normalize(p.Value)
	case KindRange:
		v, ok := rec.Number(p.Field)
		if !ok {
			return false
		}
		if p.Min != nil && v < *p.Min {
			return false
		}
		if p.Max != nil && v > *p.Max {
			return false
		}
		return true
	case KindHasAny:
		have := rec.List(p.Field)
		for _, want := range p.Values {
			if slices.Contains(have, want) {
				return true
			}
		}
		return false
	}
	return false
}

// ProductRecord adapts a product to Record.
type ProductRecord struct {
	product.Product
}

// Of wraps p for matching.
func Of(p product.Product) ProductRecord { return ProductRecord{p} }

// Text returns the text value of f.
func (r ProductRecord) Text(f Field) string {
	switch f {
	case Name:
		return r.Name()
	case Description:
		return r.Description()
	case Category:
		return r.Category()
	case Location:
		return r.Location()
	}
	return ""
}

// Number returns the numeric value of f.
func (r ProductRecord) Number(f Field) (float64, bool) {
	if f == Price {
		return r.Price(), true
	}
	return 0, false
}

// List returns the list value of f.
func (r ProductRecord) List(f Field) []string {
	if f == Tags {
		return r.Product.Tags()
	}
	return nil
}
