// Package predicate holds the store-independent filter tree built for a
// catalog query. Key-value stores evaluate it with Match; SQL stores
// translate it into a WHERE clause.
package predicate

import (
	"fmt"
	"strings"
)

// Kind tags the variant held by a Predicate.
type Kind int

// Predicate kinds.
const (
	KindAll Kind = iota
	KindAnd
	KindOr
	KindContains
	KindEquals
	KindRange
	KindHasAny
)

var kindNames = [...]string{"all", "and", "or", "contains", "equals", "range", "hasAny"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Field is a filterable product attribute.
type Field string

// Filterable fields.
const (
	Name        Field = "name"
	Description Field = "description"
	Category    Field = "category"
	Location    Field = "location"
	Price       Field = "price"
	Tags        Field = "tags"
)

// Predicate is a tagged variant. Only the members relevant to Kind are set.
type Predicate struct {
	Kind     Kind
	Field    Field
	Value    string
	Values   []string
	Min      *float64
	Max      *float64
	Children []Predicate
}

// All matches every product.
func All() Predicate { return Predicate{Kind: KindAll} }

// And is the conjunction of ps. No terms yield All; a single term is
// returned as-is.
func And(ps ...Predicate) Predicate {
	return combine(KindAnd, ps)
}

// Or is the disjunction of ps. A single term is returned as-is.
func Or(ps ...Predicate) Predicate {
	return combine(KindOr, ps)
}

func combine(k Kind, ps []Predicate) Predicate {
	switch len(ps) {
	case 0:
		return All()
	case 1:
		return ps[0]
	}
	return Predicate{Kind: k, Children: ps}
}

// Contains matches a case-insensitive substring of a text field.
func Contains(f Field, v string) Predicate {
	return Predicate{Kind: KindContains, Field: f, Value: v}
}

// Equals matches a text field case-insensitively.
func Equals(f Field, v string) Predicate {
	return Predicate{Kind: KindEquals, Field: f, Value: v}
}

// Range matches a numeric field within inclusive, independently optional bounds.
func Range(f Field, minVal, maxVal *float64) Predicate {
	return Predicate{Kind: KindRange, Field: f, Min: minVal, Max: maxVal}
}

// HasAny matches a list field sharing at least one exact value with vs.
func HasAny(f Field, vs []string) Predicate {
	return Predicate{Kind: KindHasAny, Field: f, Values: vs}
}

// IsAll reports whether the predicate imposes no constraint.
func (p Predicate) IsAll() bool { return p.Kind == KindAll }

func (p Predicate) String() string {
	switch p.Kind {
	case KindAll:
		return "all"
	case KindAnd, KindOr:
		parts := make([]string, len(p.Children))
		for i, c := range p.Children {
			parts[i] = c.String()
		}
		return p.Kind.String() + "(" + strings.Join(parts, ", ") + ")"
	case KindContains, KindEquals:
		return fmt.Sprintf("%s(%s, %q)", p.Kind, p.Field, p.Value)
	case KindRange:
		return fmt.Sprintf("range(%s, %s, %s)", p.Field, bound(p.Min), bound(p.Max))
	case KindHasAny:
		return fmt.Sprintf("hasAny(%s, %q)", p.Field, p.Values)
	}
	return p.Kind.String()
}

func bound(v *float64) string {
	if v == nil {
		return "*"
	}
	return fmt.Sprintf("%g", *v)
}
