package search

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/metrics"
)

// Ranker ranks a catalog query.
type Ranker interface {
	Rank(ctx context.Context, q query.Query) (page.Result, error)
}

// InstrumentedRanker wraps a Ranker with search metrics and error logging.
type InstrumentedRanker struct {
	inner  Ranker
	logger *zap.Logger
}

// NewInstrumentedRanker wraps inner. A nil logger disables logging.
func NewInstrumentedRanker(inner Ranker, logger *zap.Logger) *InstrumentedRanker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InstrumentedRanker{inner: inner, logger: logger}
}

// Rank delegates to the inner ranker and records the outcome.
func (r *InstrumentedRanker) Rank(ctx context.Context, q query.Query) (page.Result, error) {
	m := string(q.Mode())
	start := time.Now()

	res, err := r.inner.Rank(ctx, q)

	duration := time.Since(start)
	metrics.SearchDuration.WithLabelValues(m).Observe(duration.Seconds())

	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(m, "error").Inc()
		r.logger.Warn("Catalog search failed",
			zap.String("mode", m),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return page.Result{}, err
	}

	metrics.SearchRequestsTotal.WithLabelValues(m, "ok").Inc()
	metrics.SearchPageSize.Observe(float64(len(res.Items)))
	return res, nil
}
