// Package storage opens the configured database and exposes it as a product
// catalog. It is the single place that knows which repository serves which
// driver.
package storage

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/prodex/internal/config"
	"github.com/kailas-cloud/prodex/internal/db"
	dbBadger "github.com/kailas-cloud/prodex/internal/db/badger"
	dbRedis "github.com/kailas-cloud/prodex/internal/db/redis"
	dbSQLite "github.com/kailas-cloud/prodex/internal/db/sqlite"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
	"github.com/kailas-cloud/prodex/internal/domain/search/sortorder"
	productrepo "github.com/kailas-cloud/prodex/internal/repository/product"
	"github.com/kailas-cloud/prodex/internal/repository/sqlproduct"
)

const defaultReadinessTimeout = 10 * time.Second

// Catalog is everything the use cases need from a product repository.
//
//nolint:interfacebloat // union of the use case contracts
type Catalog interface {
	Create(ctx context.Context, p domprod.Product) error
	Get(ctx context.Context, id string) (domprod.Product, error)
	Update(ctx context.Context, p domprod.Product) error
	Delete(ctx context.Context, id string) error
	FetchPage(
		ctx context.Context, p predicate.Predicate, order []sortorder.Order, offset, count int,
	) ([]domprod.Product, error)
	CountMatching(ctx context.Context, p predicate.Predicate) (int, error)
	Distinct(ctx context.Context, f predicate.Field, p predicate.Predicate, limit int) ([]string, error)
}

// database is the lifecycle surface shared by every driver.
type database interface {
	Ping(ctx context.Context) error
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Backend is an open database plus the catalog built on it.
type Backend struct {
	Catalog Catalog
	Driver  string
	db      database
}

// Ping checks the underlying database.
func (b *Backend) Ping(ctx context.Context) error { return b.db.Ping(ctx) }

// Close releases the database.
func (b *Backend) Close() { b.db.Close() }

// Open connects to the database named by cfg and waits until it answers.
// keyPrefix namespaces keys on the key-value drivers.
func Open(ctx context.Context, cfg config.DatabaseConfig, keyPrefix string, log *zap.Logger) (*Backend, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		b   *Backend
		err error
	)
	switch cfg.Driver {
	case config.DriverSQLite, "":
		b, err = openSQLite(ctx, cfg)
	case config.DriverRedis, config.DriverValkey:
		b, err = openKV(cfg.Driver, keyPrefix, func() (db.Store, error) {
			return dbRedis.NewStore(dbRedis.Config{
				Addrs:    cfg.Addrs,
				Username: cfg.Username,
				Password: cfg.Password,
			})
		})
	case config.DriverBadger:
		b, err = openKV(cfg.Driver, keyPrefix, func() (db.Store, error) {
			return dbBadger.NewStore(dbBadger.Config{
				Path:     cfg.Path,
				InMemory: cfg.Path == "",
				Logger:   log,
			})
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, err
	}

	timeout := time.Duration(cfg.ReadinessTimeout) * time.Second
	if timeout <= 0 {
		timeout = defaultReadinessTimeout
	}
	if err := b.db.WaitForReady(ctx, timeout); err != nil {
		b.Close()
		return nil, fmt.Errorf("database not ready: %w", err)
	}
	log.Debug("Database ready", zap.String("driver", b.Driver))
	return b, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig) (*Backend, error) {
	sdb, err := dbSQLite.Open(ctx, dbSQLite.Config{Path: cfg.Path})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return &Backend{
		Catalog: sqlproduct.New(sdb.SQL()),
		Driver:  config.DriverSQLite,
		db:      sdb,
	}, nil
}

func openKV(driver, keyPrefix string, create func() (db.Store, error)) (*Backend, error) {
	store, err := create()
	if err != nil {
		return nil, fmt.Errorf("create %s store: %w", driver, err)
	}
	return &Backend{
		Catalog: productrepo.New(store, keyPrefix),
		Driver:  driver,
		db:      store,
	}, nil
}
