package suggest

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodex/internal/domain"
	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
)

// Suggestion limits.
const (
	MinTermLength = 2
	DefaultLimit  = 5
	MaxLimit      = 20
)

// Request is an autocomplete request.
type Request struct {
	Term     string
	Category string
	Limit    int
}

// Result holds matching products plus distinct category and location values.
type Result struct {
	Products   []product.Product
	Categories []string
	Locations  []string
}

// Service answers autocomplete requests. Results are passed through as the
// store returns them; nothing is ranked.
type Service struct {
	store        Store
	defaultLimit int
}

// New creates a suggestion service.
func New(store Store) *Service {
	return &Service{store: store, defaultLimit: DefaultLimit}
}

// WithDefaultLimit sets the limit used when a request has none.
func (s *Service) WithDefaultLimit(limit int) *Service {
	if limit > 0 && limit <= MaxLimit {
		s.defaultLimit = limit
	}
	return s
}

// Suggest runs the product, category and location lookups concurrently.
func (s *Service) Suggest(ctx context.Context, req Request) (Result, error) {
	term := strings.TrimSpace(req.Term)
	if utf8.RuneCountInString(term) < MinTermLength {
		return Result{}, fmt.Errorf("search term must be at least %d characters: %w", MinTermLength, domain.ErrInvalidQuery)
	}
	limit := req.Limit
	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > MaxLimit {
		return Result{}, fmt.Errorf("limit must be at most %d: %w", MaxLimit, domain.ErrInvalidQuery)
	}

	productPred := predicate.Or(
		predicate.Contains(predicate.Name, term),
		predicate.Contains(predicate.Description, term),
	)
	if c := strings.TrimSpace(req.Category); c != "" {
		productPred = predicate.And(productPred, predicate.Contains(predicate.Category, c))
	}

	var res Result
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		order := []sortorder.Order{sortorder.By(sortorder.Name, sortorder.Asc)}
		res.Products, err = s.store.FetchPage(gctx, productPred, order, 0, limit)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Categories, err = s.store.Distinct(gctx, predicate.Category, predicate.Contains(predicate.Category, term), limit)
		if err != nil {
			return fmt.Errorf("distinct categories: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		res.Locations, err = s.store.Distinct(gctx, predicate.Location, predicate.Contains(predicate.Location, term), limit)
		if err != nil {
			return fmt.Errorf("distinct locations: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	if res.Products == nil {
		res.Products = []product.Product{}
	}
	if res.Categories == nil {
		res.Categories = []string{}
	}
	if res.Locations == nil {
		res.Locations = []string{}
	}
	return res, nil
}
