//go:build integration

package cache

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/internal/domain/entity"
	"github.com/oksasatya/storefront/pkg/helpers"
)

var testRedis *redis.Client

func TestMain(m *testing.M) {
	pool, err := dockertest.NewPool("")
	if err != nil {
		log.Fatalf("docker: %v", err)
	}
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	if err != nil {
		log.Fatalf("start redis: %v", err)
	}
	_ = resource.Expire(120)

	if err := pool.Retry(func() error {
		c, err := helpers.NewRedisClient(context.Background(), resource.GetHostPort("6379/tcp"), "", 0)
		if err != nil {
			return err
		}
		testRedis = c
		return nil
	}); err != nil {
		_ = pool.Purge(resource)
		log.Fatalf("connect redis: %v", err)
	}

	code := m.Run()
	_ = testRedis.Close()
	_ = pool.Purge(resource)
	os.Exit(code)
}

func TestProductCache_RoundTripAndDelete(t *testing.T) {
	ctx := context.Background()
	c := NewProductCache(testRedis, time.Minute)
	a := entity.Product{ID: entity.NewID(), Name: "a", Price: 1.5, Sizes: []string{"M"}}
	b := entity.Product{ID: entity.NewID(), Name: "b", Price: 3}

	require.NoError(t, c.SetMany(ctx, []entity.Product{a, b}))

	missingID := entity.NewID()
	found, missing, err := c.GetMany(ctx, []string{a.ID, missingID, b.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{missingID}, missing)
	assert.Equal(t, "a", found[a.ID].Name)
	assert.Equal(t, []string{"M"}, found[a.ID].Sizes)
	assert.InDelta(t, 3.0, found[b.ID].Price, 0.001)

	ttl, err := testRedis.TTL(ctx, productKey(a.ID)).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, c.Delete(ctx, a.ID))
	_, missing, err = c.GetMany(ctx, []string{a.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{a.ID}, missing)
}

func TestProductCache_CorruptEntryIsEvicted(t *testing.T) {
	ctx := context.Background()
	c := NewProductCache(testRedis, time.Minute)
	id := entity.NewID()
	require.NoError(t, testRedis.Set(ctx, productKey(id), "{not json", time.Minute).Err())

	found, missing, err := c.GetMany(ctx, []string{id})
	require.NoError(t, err)
	assert.Empty(t, found)
	assert.Equal(t, []string{id}, missing)

	n, err := testRedis.Exists(ctx, productKey(id)).Result()
	require.NoError(t, err)
	assert.Zero(t, n)
}
