package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/container"
	"github.com/oksasatya/storefront/internal/infrastructure/search"
	"github.com/oksasatya/storefront/internal/router"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/metrics"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx := context.Background()

	container.SetConfig(cfg)
	container.SetLogger(logger)
	container.SetJWT(helpers.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL))
	container.SetCookies(helpers.NewCookie(cfg.SessionCookieName, cfg.CookieDomain, cfg.CookieSecure, cfg.CookieSameSite))

	closeStores, err := container.OpenStores(ctx, cfg, logger, true)
	if err != nil {
		logger.WithError(err).Fatal("failed to open store")
	}
	defer closeStores()
	logger.WithField("driver", cfg.StoreDriver).Info("store ready")

	for _, closeFn := range initOptional(ctx, cfg, logger) {
		defer closeFn()
	}

	if cfg.MetricsEnabled {
		container.SetMetrics(metrics.NewManager(metricsNamespace(cfg.AppName)))
	}

	r := router.New()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Infof("server starting on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %s\n", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctxShutdown); err != nil {
		logger.WithError(err).Error("server forced to shutdown")
	}
	logger.Info("server exited properly")
}

// initOptional connects side-channel infrastructure. Each one is skipped with a warning
// when unconfigured or unreachable; the API keeps serving without it.
func initOptional(ctx context.Context, cfg *config.Config, logger *logrus.Logger) []func() {
	var closers []func()

	if cfg.RedisAddr != "" {
		rdb, err := helpers.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.WithError(err).Warn("redis unavailable; product cache and rate limits disabled")
		} else {
			container.SetRedis(rdb)
			closers = append(closers, func() { _ = rdb.Close() })
		}
	} else {
		logger.Warn("REDIS_ADDR not set; product cache and rate limits disabled")
	}

	if cfg.GCSBucket != "" {
		gcs, err := helpers.NewGCSClient(ctx, cfg.GCSCredentialsJSONPath)
		if err != nil {
			logger.WithError(err).Warn("gcs unavailable; image upload disabled")
		} else {
			container.SetGCS(gcs)
			closers = append(closers, func() { _ = gcs.Close() })
		}
	}

	if addrs := cfg.ESAddrs(); len(addrs) > 0 {
		es, err := helpers.NewESClient(ctx, addrs, cfg.ElasticsearchUser, cfg.ElasticsearchPass)
		if err != nil {
			logger.WithError(err).Warn("elasticsearch unavailable; search falls back to the store")
		} else if err := search.NewProductIndex(es, cfg.ESProductsIndex).EnsureIndex(ctx); err != nil {
			logger.WithError(err).Warn("elasticsearch index unavailable; search falls back to the store")
		} else {
			container.SetES(es)
		}
	}

	if cfg.MailSendEnabled && cfg.RabbitMQURL != "" {
		pub, err := helpers.NewRabbitPublisher(cfg.RabbitMQURL, cfg.RabbitMQEmailQueue)
		if err != nil {
			logger.WithError(err).Warn("rabbitmq unavailable; email notifications disabled")
		} else {
			container.SetRabbitPub(pub)
			closers = append(closers, pub.Close)
		}
	}

	return closers
}

func metricsNamespace(app string) string {
	return strings.NewReplacer("-", "_", " ", "_", ".", "_").Replace(app)
}
