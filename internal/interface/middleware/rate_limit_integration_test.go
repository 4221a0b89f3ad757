//go:build integration

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/storefront/pkg/helpers"
)

func startRedis(t *testing.T) *redis.Client {
	t.Helper()
	pool, err := dockertest.NewPool("")
	require.NoError(t, err)
	pool.MaxWait = time.Minute

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{Repository: "redis", Tag: "7-alpine"}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
		hc.RestartPolicy = docker.RestartPolicy{Name: "no"}
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	var rdb *redis.Client
	require.NoError(t, pool.Retry(func() error {
		c, err := helpers.NewRedisClient(context.Background(), resource.GetHostPort("6379/tcp"), "", 0)
		if err != nil {
			return err
		}
		rdb = c
		return nil
	}))
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TestRateLimit_BlocksAfterLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rdb := startRedis(t)

	r := gin.New()
	r.Use(RealIP())
	r.POST("/user/login", RateLimit(rdb, 2, time.Minute, KeyByIPAndPath(), AllowPrivateIP()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	call := func(remote string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/user/login", nil)
		req.RemoteAddr = remote
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, call("198.51.100.7:1000").Code)
	rec := call("198.51.100.7:1000")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = call("198.51.100.7:1000")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, call("198.51.100.8:1000").Code, "other clients keep their own window")
	for i := 0; i < 5; i++ {
		assert.Equal(t, http.StatusOK, call("10.0.0.5:1000").Code, "private callers bypass")
	}
}
