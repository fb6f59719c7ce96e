package sqlproduct

import (
	"fmt"
	"strings"

	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

var textColumns = map[predicate.Field]string{
	predicate.Name:        "name",
	predicate.Description: "description",
	predicate.Category:    "category",
	predicate.Location:    "location",
}

var orderColumns = map[sortorder.Field]string{
	sortorder.Name:      "fold(name)",
	sortorder.Price:     "price",
	sortorder.CreatedAt: "created_at",
	sortorder.UpdatedAt: "updated_at",
}

// buildWhere translates p into a boolean SQL expression over the products
// table with positional arguments.
func buildWhere(p predicate.Predicate) (string, []any, error) {
	var args []any
	expr, err := appendWhere(p, &args)
	if err != nil {
		return "", nil, err
	}
	return expr, args, nil
}

func appendWhere(p predicate.Predicate, args *[]any) (string, error) {
	switch p.Kind {
	case predicate.KindAll:
		return "1 = 1", nil
	case predicate.KindAnd, predicate.KindOr:
		if len(p.Children) == 0 {
			if p.Kind == predicate.KindAnd {
				return "1 = 1", nil
			}
			return "0 = 1", nil
		}
		parts := make([]string, 0, len(p.Children))
		for _, c := range p.Children {
			s, err := appendWhere(c, args)
			if err != nil {
				return "", err
			}
			parts = append(parts, s)
		}
		sep := " AND "
		if p.Kind == predicate.KindOr {
			sep = " OR "
		}
		return "(" + strings.Join(parts, sep) + ")", nil
	case predicate.KindContains:
		col, err := textColumn(p.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, p.Value)
		return "instr(fold(" + col + "), fold(?)) > 0", nil
	case predicate.KindEquals:
		col, err := textColumn(p.Field)
		if err != nil {
			return "", err
		}
		*args = append(*args, p.Value)
		return "fold(" + col + ") = fold(?)", nil
	case predicate.KindRange:
		if p.Field != predicate.Price {
			return "", fmt.Errorf("range on %s is not supported", p.Field)
		}
		var parts []string
		if p.Min != nil {
			parts = append(parts, "price >= ?")
			*args = append(*args, *p.Min)
		}
		if p.Max != nil {
			parts = append(parts, "price <= ?")
			*args = append(*args, *p.Max)
		}
		if len(parts) == 0 {
			return "1 = 1", nil
		}
		return "(" + strings.Join(parts, " AND ") + ")", nil
	case predicate.KindHasAny:
		if p.Field != predicate.Tags {
			return "", fmt.Errorf("hasAny on %s is not supported", p.Field)
		}
		if len(p.Values) == 0 {
			return "0 = 1", nil
		}
		for _, v := range p.Values {
			*args = append(*args, v)
		}
		return "EXISTS (SELECT 1 FROM product_tags t WHERE t.product_id = products.id AND t.tag IN (" +
			placeholders(len(p.Values)) + "))", nil
	}
	return "", fmt.Errorf("unknown predicate kind %s", p.Kind)
}

func textColumn(f predicate.Field) (string, error) {
	col, ok := textColumns[f]
	if !ok {
		return "", fmt.Errorf("text match on %s is not supported", f)
	}
	return col, nil
}

// buildOrderBy renders orders followed by the id tiebreak.
func buildOrderBy(orders []sortorder.Order) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	for _, o := range orders {
		col, ok := orderColumns[o.Field]
		if !ok {
			return "", fmt.Errorf("unknown sort field %q", o.Field)
		}
		dir := "ASC"
		if o.Descending() {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", "), nil
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}
