package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kailas-cloud/prodex/internal/config"
	"github.com/kailas-cloud/prodex/internal/domain"
	domprod "github.com/kailas-cloud/prodex/internal/domain/product"
	"github.com/kailas-cloud/prodex/internal/domain/search/predicate"
)

func roundTrip(t *testing.T, b *Backend) {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	p, err := domprod.New("p1", domprod.Fields{Name: "Desk Lamp", Category: "Home", Price: 25}, now)
	require.NoError(t, err)
	require.NoError(t, b.Catalog.Create(ctx, p))

	got, err := b.Catalog.Get(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "Desk Lamp", got.Name())

	n, err := b.Catalog.CountMatching(ctx, predicate.All())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, b.Catalog.Delete(ctx, "p1"))
	_, err = b.Catalog.Get(ctx, "p1")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestOpen_SQLiteInMemory(t *testing.T) {
	b, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite}, "", nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.DriverSQLite, b.Driver)
	require.NoError(t, b.Ping(context.Background()))
	roundTrip(t, b)
}

func TestOpen_DefaultDriverIsSQLite(t *testing.T) {
	b, err := Open(context.Background(), config.DatabaseConfig{}, "", nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.DriverSQLite, b.Driver)
}

func TestOpen_SQLiteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.db")
	b, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverSQLite, Path: path}, "", nil)
	require.NoError(t, err)
	defer b.Close()

	roundTrip(t, b)
}

func TestOpen_BadgerInMemory(t *testing.T) {
	b, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverBadger}, "test:", nil)
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, config.DriverBadger, b.Driver)
	roundTrip(t, b)
}

func TestOpen_BadgerDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "badger")
	b, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverBadger, Path: dir}, "", nil)
	require.NoError(t, err)
	defer b.Close()

	roundTrip(t, b)
}

func TestOpen_RedisRequiresAddrs(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: config.DriverRedis}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "create redis store")
}

func TestOpen_UnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), config.DatabaseConfig{Driver: "mongo"}, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown database driver")
}
