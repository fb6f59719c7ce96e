// Package product stores products in a key-value db.Store (Redis, Valkey or
// Badger). Each product is a hash; an id set indexes the catalog. Filtering,
// ordering and windowing run in process over the id set.
package product

import (
	"context"
	"fmt"
	"slices"

	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// DefaultKeyPrefix namespaces every key written by the repository.
const DefaultKeyPrefix = "prodex:"

// store is the consumer interface for products (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetNX(ctx context.Context, key, field, value string) (bool, error)
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	HGetAllMulti(ctx context.Context, keys []string) ([]map[string]string, error)
	Del(ctx context.Context, key string) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SCard(ctx context.Context, key string) (int, error)
}

// Repo implements the product repository, the search catalog and the
// suggestion store over a key-value store.
type Repo struct {
	store  store
	prefix string
}

// New creates a product repository. An empty prefix means DefaultKeyPrefix.
func New(s store, prefix string) *Repo {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &Repo{store: s, prefix: prefix}
}

// Create stores a new product. The id field is claimed with HSETNX so two
// concurrent creates for one ID cannot both succeed.
func (r *Repo) Create(ctx context.Context, p domprod.Product) error {
	key := r.productKey(p.ID())

	claimed, err := r.store.HSetNX(ctx, key, fieldID, p.ID())
	if err != nil {
		return fmt.Errorf("hsetnx %s: %w", key, err)
	}
	if !claimed {
		return domain.ErrAlreadyExists
	}

	if err := r.store.HSet(ctx, key, buildHashFields(p)); err != nil {
		_, _ = r.store.Del(ctx, key)
		return fmt.Errorf("hset %s: %w", key, err)
	}
	if err := r.store.SAdd(ctx, r.idsKey(), p.ID()); err != nil {
		_, _ = r.store.Del(ctx, key)
		return fmt.Errorf("sadd %s: %w", r.idsKey(), err)
	}
	return nil
}

// Get returns a product by ID.
func (r *Repo) Get(ctx context.Context, id string) (domprod.Product, error) {
	key := r.productKey(id)
	m, err := r.store.HGetAll(ctx, key)
	if err != nil {
		return domprod.Product{}, fmt.Errorf("hgetall %s: %w", key, err)
	}
	// A hash holding only the claimed id belongs to a create in flight.
	if len(m) == 0 || m[fieldCreatedAt] == "" {
		return domprod.Product{}, domain.ErrProductNotFound
	}
	return parseHashFields(id, m)
}

// Update replaces a stored product.
func (r *Repo) Update(ctx context.Context, p domprod.Product) error {
	key := r.productKey(p.ID())

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrProductNotFound
	}

	if err := r.store.HSet(ctx, key, buildHashFields(p)); err != nil {
		return fmt.Errorf("hset %s: %w", key, err)
	}
	return nil
}

// Delete removes a product and its id set entry.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := r.productKey(id)

	existed, err := r.store.Del(ctx, key)
	if err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	if !existed {
		return domain.ErrProductNotFound
	}
	if err := r.store.SRem(ctx, r.idsKey(), id); err != nil {
		return fmt.Errorf("srem %s: %w", r.idsKey(), err)
	}
	return nil
}

// FetchPage returns count products matching p starting at offset, ordered
// by order with ID as the final tiebreak.
func (r *Repo) FetchPage(
	ctx context.Context, p predicate.Predicate, order []sortorder.Order, offset, count int,
) ([]domprod.Product, error) {
	matched, err := r.matching(ctx, p)
	if err != nil {
		return nil, err
	}
	if offset < 0 {
		offset = 0
	}
	if count <= 0 || offset >= len(matched) {
		return []domprod.Product{}, nil
	}

	sortProducts(matched, order)
	end := offset + min(count, len(matched)-offset)
	return matched[offset:end], nil
}

// CountMatching returns how many products match p. The unfiltered count is
// answered from the id set cardinality.
func (r *Repo) CountMatching(ctx context.Context, p predicate.Predicate) (int, error) {
	if p.IsAll() {
		n, err := r.store.SCard(ctx, r.idsKey())
		if err != nil {
			return 0, fmt.Errorf("scard %s: %w", r.idsKey(), err)
		}
		return n, nil
	}
	matched, err := r.matching(ctx, p)
	if err != nil {
		return 0, err
	}
	return len(matched), nil
}

// Distinct returns up to limit distinct non-empty values of f among
// products matching p, in ascending byte order.
func (r *Repo) Distinct(ctx context.Context, f predicate.Field, p predicate.Predicate, limit int) ([]string, error) {
	matched, err := r.matching(ctx, p)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{})
	values := make([]string, 0)
	for _, prod := range matched {
		v := predicate.Of(prod).Text(f)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	slices.Sort(values)
	if limit > 0 && len(values) > limit {
		values = values[:limit]
	}
	return values, nil
}

func (r *Repo) matching(ctx context.Context, p predicate.Predicate) ([]domprod.Product, error) {
	all, err := r.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, prod := range all {
		if predicate.Match(p, predicate.Of(prod)) {
			out = append(out, prod)
		}
	}
	return out, nil
}

// loadAll reads every indexed product. Ids whose hash has vanished are
// removed from the id set.
func (r *Repo) loadAll(ctx context.Context) ([]domprod.Product, error) {
	ids, err := r.store.SMembers(ctx, r.idsKey())
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", r.idsKey(), err)
	}
	if len(ids) == 0 {
		return []domprod.Product{}, nil
	}
	slices.Sort(ids)

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.productKey(id)
	}
	hashes, err := r.store.HGetAllMulti(ctx, keys)
	if err != nil {
		return nil, fmt.Errorf("hgetall products: %w", err)
	}

	products := make([]domprod.Product, 0, len(ids))
	var dangling []string
	for i, m := range hashes {
		if len(m) == 0 {
			dangling = append(dangling, ids[i])
			continue
		}
		p, err := parseHashFields(ids[i], m)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}

	if len(dangling) > 0 {
		if err := r.store.SRem(ctx, r.idsKey(), dangling...); err != nil {
			return nil, fmt.Errorf("srem dangling ids: %w", err)
		}
	}
	return products, nil
}

func (r *Repo) productKey(id string) string {
	return r.prefix + "product:" + id
}

func (r *Repo) idsKey() string {
	return r.prefix + "products"
}
