//go:build integration

package postgres

import (
	"context"
	"fmt"
	"log"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"

	"github.com/oksasatya/storefront/internal/infrastructure/repotest"
	"github.com/oksasatya/storefront/pkg/helpers"
)

var testPool *pgxpool.Pool

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("docker: %v", err)
	}
	pool.MaxWait = 2 * time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "postgres",
		Tag:        "16-alpine",
		Env: []string{
			"POSTGRES_USER=storefront",
			"POSTGRES_PASSWORD=secret",
			"POSTGRES_DB=storefront",
		},
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("start postgres: %v", err)
	}
	_ = resource.Expire(300)

	dsn := fmt.Sprintf("postgres://storefront:secret@%s/storefront?sslmode=disable", resource.GetHostPort("5432/tcp"))
	ctx := context.Background()
	if err := pool.Retry(func() error {
		p, err := NewPool(ctx, dsn, PoolOptions{MaxConns: 20})
		if err != nil {
			return err
		}
		testPool = p
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("connect postgres: %v", err)
	}
	if err := RunMigrations(dsn, "../../../db/migrations", helpers.NopLogger()); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("migrate: %v", err)
	}

	code := m.Run()
	testPool.Close()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func TestPostgresContract(t *testing.T) {
	repotest.Run(t, repotest.Stores{
		Users:    NewUserRepository(testPool),
		Carts:    NewCartRepository(testPool),
		Products: NewProductRepository(testPool),
	}, "pg-")
}
