// Command prodex-seed fills a prodex catalog with fixture or random products.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	logpkg "github.com/kailas-cloud/prodex/internal/logger"
	prodex "github.com/kailas-cloud/prodex/pkg/sdk"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "prodex-seed",
		Usage: "Seed a prodex product catalog",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.StringFlag{
				Name:    "driver",
				Usage:   "Database driver (sqlite, badger, redis, valkey)",
				Value:   "sqlite",
				EnvVars: []string{"DB_DRIVER"},
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "SQLite file or Badger directory",
				Value:   "./data/prodex.db",
				EnvVars: []string{"DB_PATH"},
			},
			&cli.StringFlag{
				Name:    "addr",
				Usage:   "Redis/Valkey address",
				Value:   "localhost:6379",
				EnvVars: []string{"DB_ADDR"},
			},
			&cli.StringFlag{
				Name:    "password",
				Usage:   "Redis/Valkey password",
				EnvVars: []string{"DB_PASSWORD"},
			},
			&cli.StringFlag{
				Name:  "key-prefix",
				Usage: "Key prefix for Redis, Valkey and Badger",
				Value: "prodex:",
			},
			&cli.IntFlag{
				Name:  "batch-size",
				Usage: "Number of products per batch",
				Value: 100,
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Number of batches written concurrently",
				Value: 4,
			},
			&cli.BoolFlag{
				Name:  "reset",
				Usage: "Delete every product before seeding",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "generate",
				Usage:  "Insert randomly generated products",
				Action: generateCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "count",
						Aliases: []string{"n"},
						Usage:   "Number of products to generate",
						Value:   1000,
					},
					&cli.Uint64Flag{
						Name:  "seed",
						Usage: "Random seed (0 picks one from the clock)",
					},
				},
			},
			{
				Name:   "load",
				Usage:  "Upsert products from a YAML fixture file",
				Action: loadCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "Path to the fixture file",
						Required: true,
					},
				},
			},
		},
	}
}

func generateCommand(c *cli.Context) error {
	count := c.Int("count")
	if count <= 0 {
		return fmt.Errorf("count must be positive, got %d", count)
	}
	seed := c.Uint64("seed")
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return run(c, NewGenerator(seed).Products(count))
}

func loadCommand(c *cli.Context) error {
	products, err := LoadFixtures(c.String("file"))
	if err != nil {
		return err
	}
	return run(c, products)
}

func run(c *cli.Context, products []prodex.ProductInput) error {
	logger, err := logpkg.NewLogger("local", c.String("log-level"))
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	opt, err := storageOption(c)
	if err != nil {
		return err
	}

	ctx := context.Background()
	client, err := prodex.New(ctx, opt,
		prodex.WithKeyPrefix(c.String("key-prefix")),
		prodex.WithMaxBatchSize(c.Int("batch-size")),
	)
	if err != nil {
		return err
	}
	defer client.Close()

	seeder := NewSeeder(client.Products(), c.Int("batch-size"), c.Int("workers"), logger)

	if c.Bool("reset") {
		n, err := seeder.Reset(ctx)
		if err != nil {
			return err
		}
		logger.Info("Catalog cleared", zap.Int("deleted", n))
	}

	start := time.Now()
	logger.Info("Seeding products", zap.Int("count", len(products)))
	stats, err := seeder.Seed(ctx, products)
	logger.Info("Seeding finished",
		zap.Int64("batches", stats.Batches),
		zap.Int64("created", stats.Created),
		zap.Int64("updated", stats.Updated),
		zap.Int64("failed", stats.Failed),
		zap.Duration("took", time.Since(start)),
	)
	return err
}

func storageOption(c *cli.Context) (prodex.Option, error) {
	switch driver := c.String("driver"); driver {
	case "sqlite":
		return prodex.WithSQLite(c.String("db")), nil
	case "badger":
		return prodex.WithBadger(c.String("db")), nil
	case "redis":
		return prodex.WithRedis(c.String("addr"), c.String("password")), nil
	case "valkey":
		return prodex.WithValkey(c.String("addr"), c.String("password")), nil
	default:
		return nil, fmt.Errorf("unknown driver %q", driver)
	}
}
