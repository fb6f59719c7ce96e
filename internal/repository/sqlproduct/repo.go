// Package sqlproduct stores products in the embedded SQLite catalog. Catalog
// predicates and orders are translated to SQL so filtering and windowing run
// inside the database.
package sqlproduct

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/db"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// timeLayout is fixed-width so that text ordering equals time ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const selectColumns = `id, name, description, category, location, price, stock, created_at, updated_at`

// Repo implements the product repository, the search catalog and the
// suggestion store over SQLite.
type Repo struct {
	db *sql.DB
}

// New creates a repository over an opened, migrated database.
func New(sqlDB *sql.DB) *Repo {
	return &Repo{db: sqlDB}
}

// Create inserts a new product with its tags.
func (r *Repo) Create(ctx context.Context, p domprod.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO products (`+selectColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO NOTHING`,
			p.ID(), p.Name(), p.Description(), p.Category(), p.Location(),
			p.Price(), p.Stock(), formatTime(p.CreatedAt()), formatTime(p.UpdatedAt()),
		)
		if err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
		if n, err := res.RowsAffected(); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		} else if n == 0 {
			return domain.ErrAlreadyExists
		}
		return insertTags(ctx, tx, p.ID(), p.Tags())
	})
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domprod.Product, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM products WHERE id = ?`, id)
	p, err := scanProduct(row)
	if errors.Is(err, sql.ErrNoRows) {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	if err != nil {
		return domprod.Product{}, err
	}
	withTags, err := r.attachTags(ctx, []domprod.Product{p})
	if err != nil {
		return domprod.Product{}, err
	}
	return withTags[0], nil
}

// Update replaces a stored product and its tags.
func (r *Repo) Update(ctx context.Context, p domprod.Product) error {
	return r.withTx(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `
			UPDATE products
			SET name = ?, description = ?, category = ?, location = ?, price = ?, stock = ?,
			    created_at = ?, updated_at = ?
			WHERE id = ?`,
			p.Name(), p.Description(), p.Category(), p.Location(), p.Price(), p.Stock(),
			formatTime(p.CreatedAt()), formatTime(p.UpdatedAt()), p.ID(),
		)
		if err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
		if n, err := res.RowsAffected(); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		} else if n == 0 {
			return domain.ErrProductNotFound
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM product_tags WHERE product_id = ?`, p.ID()); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
		return insertTags(ctx, tx, p.ID(), p.Tags())
	})
}

// Delete removes a product; its tags cascade.
func (r *Repo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	n, err := res.RowsAffected()
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	if n == 0 {
		return domain.ErrProductNotFound
	}
	return nil
}

// FetchPage returns count products matching p starting at offset.
func (r *Repo) FetchPage(
	ctx context.Context, p predicate.Predicate, order []sortorder.Order, offset, count int,
) ([]domprod.Product, error) {
	if count <= 0 {
		return []domprod.Product{}, nil
	}
	where, args, err := buildWhere(p)
	if err != nil {
		return nil, fmt.Errorf("build where: %w", err)
	}
	orderBy, err := buildOrderBy(order)
	if err != nil {
		return nil, fmt.Errorf("build order: %w", err)
	}

	query := `SELECT ` + selectColumns + ` FROM products WHERE ` + where +
		` ORDER BY ` + orderBy + ` LIMIT ? OFFSET ?`
	args = append(args, count, max(offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	products := make([]domprod.Product, 0, count)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	rows.Close()

	return r.attachTags(ctx, products)
}

// CountMatching returns how many products match p.
func (r *Repo) CountMatching(ctx context.Context, p predicate.Predicate) (int, error) {
	where, args, err := buildWhere(p)
	if err != nil {
		return 0, fmt.Errorf("build where: %w", err)
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM products WHERE `+where, args...).Scan(&n); err != nil {
		return 0, &db.Error{Op: db.OpQuery, Err: err}
	}
	return n, nil
}

// Distinct returns up to limit distinct non-empty values of f among
// products matching p, in ascending order.
func (r *Repo) Distinct(ctx context.Context, f predicate.Field, p predicate.Predicate, limit int) ([]string, error) {
	col, err := textColumn(f)
	if err != nil {
		return nil, err
	}
	where, args, err := buildWhere(p)
	if err != nil {
		return nil, fmt.Errorf("build where: %w", err)
	}
	if limit <= 0 {
		limit = -1
	}
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx,
		`SELECT DISTINCT `+col+` FROM products WHERE `+where+` AND `+col+` <> ''
		 ORDER BY `+col+` ASC LIMIT ?`, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	values := make([]string, 0)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		values = append(values, v)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	return values, nil
}

func (r *Repo) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return &db.Error{Op: db.OpExec, Err: err}
	}
	return nil
}

func insertTags(ctx context.Context, tx *sql.Tx, id string, tags []string) error {
	for i, tag := range tags {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO product_tags (product_id, position, tag) VALUES (?, ?, ?)`, id, i, tag,
		); err != nil {
			return &db.Error{Op: db.OpExec, Err: err}
		}
	}
	return nil
}

// attachTags loads tags for products with one query, after any row cursor
// has been closed.
func (r *Repo) attachTags(ctx context.Context, products []domprod.Product) ([]domprod.Product, error) {
	if len(products) == 0 {
		return products, nil
	}
	args := make([]any, len(products))
	for i, p := range products {
		args[i] = p.ID()
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT product_id, tag FROM product_tags WHERE product_id IN (`+placeholders(len(args))+`)
		 ORDER BY product_id, position`, args...)
	if err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}
	defer rows.Close()

	tags := make(map[string][]string)
	for rows.Next() {
		var id, tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return nil, &db.Error{Op: db.OpQuery, Err: err}
		}
		tags[id] = append(tags[id], tag)
	}
	if err := rows.Err(); err != nil {
		return nil, &db.Error{Op: db.OpQuery, Err: err}
	}

	for i, p := range products {
		if t, ok := tags[p.ID()]; ok {
			f := p.Fields()
			f.Tags = t
			products[i] = domprod.Reconstruct(p.ID(), f, p.CreatedAt(), p.UpdatedAt())
		}
	}
	return products, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(sc scanner) (domprod.Product, error) {
	var (
		id                   string
		f                    domprod.Fields
		createdAt, updatedAt string
	)
	err := sc.Scan(&id, &f.Name, &f.Description, &f.Category, &f.Location, &f.Price, &f.Stock, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domprod.Product{}, err
	}
	if err != nil {
		return domprod.Product{}, &db.Error{Op: db.OpQuery, Err: err}
	}

	created, err := time.Parse(timeLayout, createdAt)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse created_at: %w", id, err)
	}
	updated, err := time.Parse(timeLayout, updatedAt)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("product %s: parse updated_at: %w", id, err)
	}
	return domprod.Reconstruct(id, f, created, updated), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}
