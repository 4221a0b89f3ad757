package container

import (
	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oksasatya/storefront/config"
	"github.com/oksasatya/storefront/internal/domain/repository"
	"github.com/oksasatya/storefront/pkg/helpers"
	"github.com/oksasatya/storefront/pkg/metrics"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons. Optional clients stay nil when not configured.

// Stores groups the repositories of the selected STORE_DRIVER.
type Stores struct {
	Users    repository.UserRepository
	Carts    repository.CartRepository
	Products repository.ProductRepository
}

var (
	cfg         *config.Config
	logger      *logrus.Logger
	stores      Stores
	pgPool      *pgxpool.Pool
	mongoDB     *mongo.Database
	redisClient *redis.Client
	gcsClient   *storage.Client

	jwtManager *helpers.JWTManager
	cookies    *helpers.Manager
	metricsMgr *metrics.Manager

	rabbitPub *helpers.RabbitPublisher
	esClient  *elasticsearch.Client
)

func SetConfig(c *config.Config) { cfg = c }
func GetConfig() *config.Config {
	if cfg == nil {
		cfg = config.Load()
	}
	return cfg
}
func SetLogger(l *logrus.Logger) { logger = l }
func GetLogger() *logrus.Logger {
	if logger == nil {
		return helpers.NopLogger()
	}
	return logger
}
func SetStores(s Stores)            { stores = s }
func GetStores() Stores             { return stores }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetMongo(db *mongo.Database)   { mongoDB = db }
func GetMongo() *mongo.Database     { return mongoDB }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetGCS(s *storage.Client)      { gcsClient = s }
func GetGCS() *storage.Client       { return gcsClient }
func SetMetrics(m *metrics.Manager) { metricsMgr = m }
func GetMetrics() *metrics.Manager  { return metricsMgr }
func SetCookies(m *helpers.Manager) { cookies = m }
func SetJWT(m *helpers.JWTManager)  { jwtManager = m }
func GetJWT() *helpers.JWTManager {
	if jwtManager == nil {
		c := GetConfig()
		jwtManager = helpers.NewJWTManager(c.JWTSecret, c.SessionTTL)
	}
	return jwtManager
}
func GetCookies() *helpers.Manager {
	if cookies == nil {
		c := GetConfig()
		cookies = helpers.NewCookie(c.SessionCookieName, c.CookieDomain, c.CookieSecure, c.CookieSameSite)
	}
	return cookies
}

func SetRabbitPub(p *helpers.RabbitPublisher) { rabbitPub = p }
func GetRabbitPub() *helpers.RabbitPublisher  { return rabbitPub }
func SetES(c *elasticsearch.Client)           { esClient = c }
func GetES() *elasticsearch.Client            { return esClient }

// Reset drops every singleton. Tests use it between router setups.
func Reset() {
	cfg, logger, stores = nil, nil, Stores{}
	pgPool, mongoDB, redisClient, gcsClient = nil, nil, nil, nil
	jwtManager, cookies, metricsMgr = nil, nil, nil
	rabbitPub, esClient = nil, nil
}
