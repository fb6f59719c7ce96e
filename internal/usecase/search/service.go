package search

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/mode"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/domain/search/relevance"
	"github.com/kailas-cloud/prodex/internal/logger"
)

// Service ranks catalog queries. It holds no per-request state and is safe
// for concurrent use.
type Service struct {
	catalog Catalog
}

// New creates a search service.
func New(catalog Catalog) *Service {
	return &Service{catalog: catalog}
}

// Rank filters the catalog, fetches one page and, when the query has free
// text, re-orders that page by relevance. Ranking never looks past the
// fetched page.
func (s *Service) Rank(ctx context.Context, q query.Query) (page.Result, error) {
	q = q.Normalize()
	if err := q.Validate(); err != nil {
		return page.Result{}, err
	}

	plan := BuildPlan(q)
	w := page.Request(q.Page, q.Limit)

	var (
		items []product.Product
		total int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		items, err = s.catalog.FetchPage(gctx, plan.Predicate, plan.Order, w.Offset, w.Count)
		if err != nil {
			return fmt.Errorf("fetch page: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		total, err = s.catalog.CountMatching(gctx, plan.Predicate)
		if err != nil {
			return fmt.Errorf("count matching: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return page.Result{}, err
	}

	if plan.Mode == mode.Weighted {
		relevance.Sort(items, plan.Phrase)
	}
	w = w.Describe(total, plan.Policy)

	logger.FromContext(ctx).Debug("Catalog ranked",
		zap.String("mode", string(plan.Mode)),
		zap.Stringer("predicate", plan.Predicate),
		zap.Int("offset", w.Offset),
		zap.Int("count", w.Count),
		zap.Int("fetched", len(items)),
		zap.Int("total", total),
	)

	return page.NewResult(items, total, w), nil
}
