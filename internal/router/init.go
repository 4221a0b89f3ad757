package router

import (
	"context"

	"github.com/oksasatya/storefront/internal/application"
	"github.com/oksasatya/storefront/internal/container"
	"github.com/oksasatya/storefront/internal/infrastructure/cache"
	"github.com/oksasatya/storefront/internal/infrastructure/objectstore"
	"github.com/oksasatya/storefront/internal/infrastructure/search"
	handlers "github.com/oksasatya/storefront/internal/interface/http"
	"github.com/oksasatya/storefront/internal/interface/middleware"
	"github.com/oksasatya/storefront/internal/router/modules"
	mailtpl "github.com/oksasatya/storefront/pkg/mailer/templates"
)

// Services are the application services built from the container.
type Services struct {
	Users    *application.UserService
	Carts    *application.CartService
	Products *application.ProductService
}

// BuildServices wires services from the container. Optional side channels are only
// attached when their client exists, so services never hold a typed nil.
func BuildServices() Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	stores := container.GetStores()
	m := container.GetMetrics()

	products := application.NewProductService(stores.Products, logger)
	products.Metrics = m
	if rdb := container.GetRedis(); rdb != nil {
		products.Cache = cache.NewProductCache(rdb, cfg.ProductCacheTTL)
	}
	if es := container.GetES(); es != nil {
		products.Search = search.NewProductIndex(es, cfg.ESProductsIndex)
	}
	if gcs := container.GetGCS(); gcs != nil && cfg.GCSBucket != "" {
		products.Images = objectstore.NewGCSImageStore(gcs, cfg.GCSBucket)
	}

	users := application.NewUserService(stores.Users, container.GetJWT(), logger)
	if pub := container.GetRabbitPub(); pub != nil && cfg.MailSendEnabled {
		users.Mail = pub
	}
	users.NotifyLogin = cfg.LoginNotifyEnabled
	users.Brand = mailtpl.Brand{
		CompanyName: cfg.CompanyName,
		AppName:     cfg.AppName,
		ShopURL:     cfg.ShopURL,
		SupportURL:  cfg.SupportURL,
	}

	carts := application.NewCartService(stores.Carts, stores.Users, products, logger)
	carts.Metrics = m

	return Services{Users: users, Carts: carts, Products: products}
}

func healthChecks() map[string]modules.HealthCheck {
	checks := map[string]modules.HealthCheck{}
	if pool := container.GetPGPool(); pool != nil {
		checks["postgres"] = pool.Ping
	}
	if db := container.GetMongo(); db != nil {
		checks["mongo"] = func(ctx context.Context) error { return db.Client().Ping(ctx, nil) }
	}
	if rdb := container.GetRedis(); rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	return checks
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) Services {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	cookies := container.GetCookies()
	rdb := container.GetRedis()
	svc := BuildServices()

	auth := middleware.Auth(svc.Users, cookies, logger)
	limits := modules.RateLimits{
		Auth:         cfg.AuthRateLimit,
		Cart:         cfg.CartRateLimit,
		AllowPrivate: cfg.RateLimitPrivate,
	}

	r.Add(modules.NewUserModule(
		handlers.NewUserHandler(svc.Users, svc.Carts, cookies, logger),
		handlers.NewCartHandler(svc.Carts, cookies, logger),
		auth, rdb, limits,
	))
	r.Add(modules.NewProductModule(handlers.NewProductHandler(svc.Products, logger)))
	r.Add(modules.NewAdminModule(handlers.NewAdminHandler(svc.Products, svc.Users, logger), auth))

	var m = container.GetMetrics()
	if !cfg.MetricsEnabled {
		m = nil
	}
	r.AddRoot(modules.NewOpsModule(healthChecks(), m, rdb))
	return svc
}
