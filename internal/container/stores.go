package container

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/infrastructure/memory"
	mongoinfra "github.com/oksasatya/storefront/internal/infrastructure/mongodb"
	pginfra "github.com/oksasatya/storefront/internal/infrastructure/postgres"
)

// OpenStores connects the backend named by STORE_DRIVER, registers it on the container
// and returns a close func. Postgres migrations run when migrate is true.
func OpenStores(ctx context.Context, c *config.Config, logger *logrus.Logger, migrate bool) (func(), error) {
	switch c.StoreDriver {
	case config.StorePostgres:
		pool, err := pginfra.NewPool(ctx, c.PostgresDSN(), pginfra.PoolOptions{
			MaxConns:    c.DBMaxConns,
			MinConns:    c.DBMinConns,
			MaxConnLife: c.DBMaxConnLife,
		})
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		if migrate {
			if err := pginfra.RunMigrations(c.PostgresDSN(), c.MigrationsDir, logger); err != nil {
				pool.Close()
				return nil, fmt.Errorf("migrate: %w", err)
			}
		}
		SetPGPool(pool)
		SetStores(Stores{
			Users:    pginfra.NewUserRepository(pool),
			Carts:    pginfra.NewCartRepository(pool),
			Products: pginfra.NewProductRepository(pool),
		})
		return pool.Close, nil

	case config.StoreMongo:
		client, err := mongoinfra.NewClient(ctx, c.MongoURI)
		if err != nil {
			return nil, fmt.Errorf("connect mongo: %w", err)
		}
		db := client.Database(c.MongoDatabase)
		if err := mongoinfra.EnsureIndexes(ctx, db); err != nil {
			_ = client.Disconnect(context.Background())
			return nil, fmt.Errorf("mongo indexes: %w", err)
		}
		SetMongo(db)
		SetStores(Stores{
			Users:    mongoinfra.NewUserRepository(db),
			Carts:    mongoinfra.NewCartRepository(db),
			Products: mongoinfra.NewProductRepository(db),
		})
		return func() { _ = client.Disconnect(context.Background()) }, nil

	case config.StoreMemory:
		logger.Warn("STORE_DRIVER=memory: data is lost on restart")
		s := memory.NewStore()
		SetStores(Stores{Users: s.Users(), Carts: s.Carts(), Products: s.Products()})
		return func() {}, nil
	}
	return nil, fmt.Errorf("unknown store driver %q", c.StoreDriver)
}
