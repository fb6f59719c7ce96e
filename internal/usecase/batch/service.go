package batch

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/prodex/internal/domain"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// MaxBatchSize is the default maximum number of items per batch request.
const MaxBatchSize = 100

// Item is one product in a batch upsert. An empty ID creates a new product.
type Item struct {
	ID     string
	Fields domprod.Fields
}

// Service handles batch product operations with per-item error reporting.
type Service struct {
	upserter     ProductUpserter
	deleter      ProductDeleter
	maxBatchSize int
}

// New creates a batch service.
func New(upserter ProductUpserter, deleter ProductDeleter) *Service {
	return &Service{upserter: upserter, deleter: deleter, maxBatchSize: MaxBatchSize}
}

// WithMaxBatchSize configures the maximum batch size.
func (s *Service) WithMaxBatchSize(size int) *Service {
	if size > 0 {
		s.maxBatchSize = size
	}
	return s
}

// MaxBatchSize returns the configured limit.
func (s *Service) MaxBatchSize() int { return s.maxBatchSize }

// Upsert creates or replaces products one by one. A failing item does not
// stop the batch; a cancelled context fails every remaining item.
func (s *Service) Upsert(ctx context.Context, items []Item) ([]dombatch.Result, error) {
	if len(items) > s.maxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds %d: %w", len(items), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(items))
	for i, item := range items {
		if err := ctx.Err(); err != nil {
			failRemaining(results, i, func(j int) string { return items[j].ID }, err)
			break
		}

		p, created, err := s.upserter.Upsert(ctx, item.ID, item.Fields)
		if err != nil {
			results[i] = dombatch.NewError(i, item.ID, err)
			continue
		}
		status := dombatch.StatusUpdated
		if created {
			status = dombatch.StatusCreated
		}
		results[i] = dombatch.NewResult(i, p.ID(), status)
	}

	record("upsert", results)
	return results, nil
}

// Delete removes products by ID.
func (s *Service) Delete(ctx context.Context, ids []string) ([]dombatch.Result, error) {
	if len(ids) > s.maxBatchSize {
		return nil, fmt.Errorf("batch of %d exceeds %d: %w", len(ids), s.maxBatchSize, domain.ErrBatchTooLarge)
	}

	results := make([]dombatch.Result, len(ids))
	for i, id := range ids {
		if err := ctx.Err(); err != nil {
			failRemaining(results, i, func(j int) string { return ids[j] }, err)
			break
		}
		if err := s.deleter.Delete(ctx, id); err != nil {
			results[i] = dombatch.NewError(i, id, err)
			continue
		}
		results[i] = dombatch.NewResult(i, id, dombatch.StatusDeleted)
	}

	record("delete", results)
	return results, nil
}

func failRemaining(results []dombatch.Result, from int, id func(int) string, err error) {
	for j := from; j < len(results); j++ {
		results[j] = dombatch.NewError(j, id(j), fmt.Errorf("batch aborted: %w", err))
	}
}

func record(op string, results []dombatch.Result) {
	sum := dombatch.Summarize(results)
	metrics.BatchItemsTotal.WithLabelValues(op, "ok").Add(float64(sum.Succeeded))
	metrics.BatchItemsTotal.WithLabelValues(op, "error").Add(float64(sum.Failed))
}
