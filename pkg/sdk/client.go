package prodex

import (
	"context"
	"fmt"
	"time"

	"github.com/kailas-cloud/prodex/internal/config"
	dombatch "github.com/kailas-cloud/prodex/internal/domain/batch"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/product/patch"
	"github.com/kailas-cloud/prodex/internal/domain/search/page"
	"github.com/kailas-cloud/prodex/internal/domain/search/query"
	"github.com/kailas-cloud/prodex/internal/storage"
	batchuc "github.com/kailas-cloud/prodex/internal/usecase/batch"
	healthuc "github.com/kailas-cloud/prodex/internal/usecase/health"
	productuc "github.com/kailas-cloud/prodex/internal/usecase/product"
	searchuc "github.com/kailas-cloud/prodex/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/prodex/internal/usecase/suggest"
)

const defaultReadinessTimeout = 10 * time.Second

// Internal interfaces, swapped out in tests.
type productUseCase interface {
	Create(ctx context.Context, f domprod.Fields) (domprod.Product, error)
	Get(ctx context.Context, id string) (domprod.Product, error)
	Update(ctx context.Context, id string, pt patch.Patch) (domprod.Product, error)
	Delete(ctx context.Context, id string) error
}

type searchUseCase interface {
	Rank(ctx context.Context, q query.Query) (page.Result, error)
}

type suggestUseCase interface {
	Suggest(ctx context.Context, req suggestuc.Request) (suggestuc.Result, error)
}

type batchUseCase interface {
	Upsert(ctx context.Context, items []batchuc.Item) ([]dombatch.Result, error)
	Delete(ctx context.Context, ids []string) ([]dombatch.Result, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the prodex SDK entry point.
type Client struct {
	backend    *storage.Backend
	productSvc productUseCase
	searchSvc  searchUseCase
	suggestSvc suggestUseCase
	batchSvc   batchUseCase
	healthSvc  healthUseCase
	obs        *observer
}

// New opens the catalog database and wires the client.
// The provided context is used for opening and the initial readiness check.
// Without a storage option the catalog lives in an in-memory SQLite database.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{driver: config.DriverSQLite}
	for _, o := range opts {
		o.apply(cfg)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	backend, err := storage.Open(ctx, config.DatabaseConfig{
		Driver:           cfg.driver,
		Addrs:            cfg.addrs,
		Password:         cfg.password,
		Path:             cfg.path,
		ReadinessTimeout: int(defaultReadinessTimeout / time.Second),
	}, cfg.keyPrefix, nil)
	if err != nil {
		return nil, fmt.Errorf("prodex: %w", err)
	}

	return wireClient(backend, cfg, obs), nil
}

func wireClient(backend *storage.Backend, cfg *clientConfig, obs *observer) *Client {
	catalog := backend.Catalog

	productSvc := productuc.New(catalog)
	batchSvc := batchuc.New(productSvc, productSvc)
	if cfg.maxBatchSize > 0 {
		batchSvc = batchSvc.WithMaxBatchSize(cfg.maxBatchSize)
	}
	suggestSvc := suggestuc.New(catalog)
	if cfg.suggestionLimit > 0 {
		suggestSvc = suggestSvc.WithDefaultLimit(cfg.suggestionLimit)
	}

	return &Client{
		backend:    backend,
		productSvc: productSvc,
		searchSvc:  searchuc.New(catalog),
		suggestSvc: suggestSvc,
		batchSvc:   batchSvc,
		healthSvc:  healthuc.New(backend, catalog),
		obs:        obs,
	}
}

// Close releases all resources.
func (c *Client) Close() {
	if c.backend != nil {
		c.backend.Close()
	}
}

// Ping checks database connectivity.
func (c *Client) Ping(ctx context.Context) (err error) {
	start := time.Now()
	defer func() { c.obs.observe("ping", start, err) }()

	if err = c.backend.Ping(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// Products returns the product service.
func (c *Client) Products() *ProductService {
	return &ProductService{
		products: c.productSvc,
		search:   c.searchSvc,
		suggest:  c.suggestSvc,
		batch:    c.batchSvc,
		obs:      c.obs,
	}
}
