package main

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

// catalog is the part of the SDK the seeder writes through.
type catalog interface {
	Search(ctx context.Context, req prodex.SearchRequest) (prodex.SearchResult, error)
	BatchUpsert(ctx context.Context, items []prodex.ProductInput) ([]prodex.BatchResult, error)
	BatchDelete(ctx context.Context, ids []string) ([]prodex.BatchResult, error)
}

// Stats summarizes a seeding run.
type Stats struct {
	Batches int64
	Created int64
	Updated int64
	Failed  int64
}

// Seeder writes products in fixed-size batches on a worker pool.
type Seeder struct {
	catalog   catalog
	batchSize int
	workers   int
	logger    *zap.Logger
}

// NewSeeder creates a seeder. Non-positive sizes fall back to 100 items per
// batch and four workers.
func NewSeeder(c catalog, batchSize, workers int, logger *zap.Logger) *Seeder {
	if batchSize <= 0 {
		batchSize = 100
	}
	if workers <= 0 {
		workers = 4
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Seeder{catalog: c, batchSize: batchSize, workers: workers, logger: logger}
}

// Seed upserts products. Item failures are counted, not fatal; a rejected
// batch or a cancelled ctx aborts the run once in-flight batches finish.
func (s *Seeder) Seed(parent context.Context, products []prodex.ProductInput) (Stats, error) {
	pool, err := ants.NewPool(s.workers)
	if err != nil {
		return Stats{}, fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	ctx, cancel := context.WithCancel(parent)
	defer cancel()

	var (
		stats    Stats
		wg       sync.WaitGroup
		errOnce  sync.Once
		firstErr error
	)
	total := (len(products) + s.batchSize - 1) / s.batchSize

	for n, start := 1, 0; start < len(products); n, start = n+1, start+s.batchSize {
		if ctx.Err() != nil {
			break
		}
		batch := products[start:min(start+s.batchSize, len(products))]
		num := n

		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			if ctx.Err() != nil {
				return
			}
			results, err := s.catalog.BatchUpsert(ctx, batch)
			if err != nil {
				errOnce.Do(func() {
					firstErr = fmt.Errorf("batch %d: %w", num, err)
					cancel()
				})
				return
			}
			s.record(&stats, results)
			s.logger.Info("Batch inserted", zap.Int("batch", num), zap.Int("of", total), zap.Int("items", len(batch)))
		})
		if submitErr != nil {
			wg.Done()
			return stats, fmt.Errorf("submit batch %d: %w", num, submitErr)
		}
	}
	wg.Wait()

	if firstErr != nil {
		return stats, firstErr
	}
	if err := parent.Err(); err != nil {
		return stats, fmt.Errorf("seed interrupted: %w", err)
	}
	return stats, nil
}

func (s *Seeder) record(stats *Stats, results []prodex.BatchResult) {
	atomic.AddInt64(&stats.Batches, 1)
	for _, r := range results {
		switch r.Status {
		case prodex.BatchCreated:
			atomic.AddInt64(&stats.Created, 1)
		case prodex.BatchUpdated:
			atomic.AddInt64(&stats.Updated, 1)
		default:
			atomic.AddInt64(&stats.Failed, 1)
			s.logger.Warn("Product rejected", zap.Int("index", r.Index), zap.String("id", r.ID), zap.Error(r.Err))
		}
	}
}

// Reset deletes every product, one page at a time.
func (s *Seeder) Reset(ctx context.Context) (int, error) {
	deleted := 0
	for {
		res, err := s.catalog.Search(ctx, prodex.SearchRequest{Page: 1, Limit: s.batchSize})
		if err != nil {
			return deleted, fmt.Errorf("list products: %w", err)
		}
		if len(res.Products) == 0 {
			return deleted, nil
		}

		ids := make([]string, len(res.Products))
		for i, p := range res.Products {
			ids[i] = p.ID
		}
		results, err := s.catalog.BatchDelete(ctx, ids)
		if err != nil {
			return deleted, fmt.Errorf("delete products: %w", err)
		}
		progress := false
		for _, r := range results {
			if r.OK() {
				deleted++
				progress = true
			} else if !errors.Is(r.Err, prodex.ErrProductNotFound) {
				return deleted, fmt.Errorf("delete %s: %w", r.ID, r.Err)
			}
		}
		if !progress {
			return deleted, fmt.Errorf("delete made no progress")
		}
	}
}
