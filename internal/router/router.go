package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/storefront/internal/container"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/pkg/validation"
)

// New builds the gin engine with global middleware and every module registered.
func New() *gin.Engine {
	cfg := container.GetConfig()
	gin.SetMode(cfg.GinMode)
	validation.Init()

	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.HTTPLogEnabled || cfg.Env == "development" {
		r.Use(gin.Logger())
	}
	r.Use(middleware.RequestIDMiddleware(), middleware.RealIP())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(container.GetMetrics()))
	}

	reg := NewRegistry(r, cfg.APIPrefix)
	InitModules(reg)
	reg.RegisterAll()
	return r
}
