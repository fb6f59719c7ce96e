// Package sortorder describes the fetch order handed to catalog stores.
package sortorder

import "fmt"

// Field is a sortable product attribute.
type Field string

// Sortable fields.
const (
	Name      Field = "name"
	Price     Field = "price"
	CreatedAt Field = "createdAt"
	UpdatedAt Field = "updatedAt"
)

// IsValid reports whether f is sortable.
func (f Field) IsValid() bool {
	switch f {
	case Name, Price, CreatedAt, UpdatedAt:
		return true
	}
	return false
}

// Direction is ascending or descending.
type Direction string

// Sort directions.
const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// IsValid reports whether d is a known direction.
func (d Direction) IsValid() bool { return d == Asc || d == Desc }

// Order is one sort key. A list of orders is applied in sequence.
type Order struct {
	Field     Field
	Direction Direction
}

// By builds an order, defaulting an empty direction to Asc.
func By(f Field, d Direction) Order {
	if d == "" {
		d = Asc
	}
	return Order{Field: f, Direction: d}
}

// Parse validates raw field and direction strings.
// An empty direction means ascending.
func Parse(field, direction string) (Order, error) {
	f := Field(field)
	if !f.IsValid() {
		return Order{}, fmt.Errorf("unknown sort field %q", field)
	}
	d := Direction(direction)
	if d != "" && !d.IsValid() {
		return Order{}, fmt.Errorf("unknown sort direction %q", direction)
	}
	return By(f, d), nil
}

// Descending reports whether the order is descending.
func (o Order) Descending() bool { return o.Direction == Desc }

func (o Order) String() string { return string(o.Field) + " " + string(o.Direction) }
