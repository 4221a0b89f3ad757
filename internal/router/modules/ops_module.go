package modules

import (
	"context"
	"expvar"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/metrics"
	"github.com/oksasatya/storefront/pkg/response"
)

// HealthCheck pings one dependency.
type HealthCheck func(ctx context.Context) error

// OpsModule exposes /healthz and, when Metrics is set, /metrics and /debug/vars.
type OpsModule struct {
	Checks  map[string]HealthCheck
	Metrics *metrics.Manager
	Redis   *redis.Client
}

func NewOpsModule(checks map[string]HealthCheck, m *metrics.Manager, rdb *redis.Client) *OpsModule {
	return &OpsModule{Checks: checks, Metrics: m, Redis: rdb}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.health)
	if m.Metrics == nil {
		return
	}
	rg.GET("/metrics", gin.WrapH(m.Metrics.Handler()))
	rl := middleware.RateLimit(m.Redis, 120, time.Minute, middleware.KeyByIPAndPath(), nil)
	rg.GET("/debug/vars", rl, gin.WrapH(expvar.Handler()))
}

func (m *OpsModule) health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	names := make([]string, 0, len(m.Checks))
	for name := range m.Checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := make(map[string]string, len(names))
	healthy := true
	for _, name := range names {
		if err := m.Checks[name](ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}
	if !healthy {
		response.Error(c, http.StatusServiceUnavailable, "degraded", response.ErrorBody{Code: "unhealthy", Details: status})
		return
	}
	response.Success(c, http.StatusOK, gin.H{"checks": status}, "ok", nil)
}
