package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "dev-session-secret"

// Store drivers selectable through STORE_DRIVER.
const (
	StorePostgres = "postgres"
	StoreMongo    = "mongo"
	StoreMemory   = "memory"
)

// Config holds application configuration loaded from environment variables.
// Defaults target local development.
type Config struct {
	AppName   string
	Env       string // development, staging, production
	Port      string
	GinMode   string
	APIPrefix string

	StoreDriver string

	// Postgres. DatabaseURL wins over the DB_* parts.
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration
	MigrationsDir string

	// Mongo
	MongoURI      string
	MongoDatabase string

	// Redis
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	ProductCacheTTL time.Duration

	// Google Cloud Storage
	GCSBucket              string
	GCSCredentialsJSONPath string // empty means Application Default Credentials

	// Session
	JWTSecret         string
	SessionTTL        time.Duration
	SessionCookieName string
	CookieDomain      string
	CookieSecure      bool
	CookieSameSite    string // strict, lax or none

	// CORS
	AllowedOrigins string // comma-separated

	// Mailgun
	MailgunDomain string
	MailgunAPIKey string
	MailgunSender string

	// RabbitMQ
	RabbitMQURL        string
	RabbitMQEmailQueue string

	// Elasticsearch
	ElasticsearchAddrs string // comma-separated
	ElasticsearchUser  string
	ElasticsearchPass  string
	ESProductsIndex    string

	// Email branding
	CompanyName string
	ShopURL     string
	SupportURL  string

	MailSendEnabled    bool
	LoginNotifyEnabled bool
	MetricsEnabled     bool
	HTTPLogEnabled     bool

	// Rate limits per minute. Zero disables.
	AuthRateLimit    int
	CartRateLimit    int
	RateLimitPrivate bool // apply limits to private/loopback callers too
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		AppName:   getenv("APP_NAME", "storefront"),
		Env:       getenv("APP_ENV", "development"),
		Port:      getenv("PORT", "8080"),
		GinMode:   getenv("GIN_MODE", "release"),
		APIPrefix: getenv("API_PREFIX", ""),

		StoreDriver: strings.ToLower(getenv("STORE_DRIVER", StorePostgres)),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "storefront"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DB_MAX_CONNS", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),
		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		MongoURI:      getenv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDatabase: getenv("MONGO_DATABASE", "storefront"),

		RedisAddr:       getenv("REDIS_ADDR", ""),
		RedisPassword:   getenv("REDIS_PASSWORD", ""),
		RedisDB:         getint("REDIS_DB", 0),
		ProductCacheTTL: getdur("PRODUCT_CACHE_TTL", 10*time.Minute),

		GCSBucket:              getenv("GCS_BUCKET", ""),
		GCSCredentialsJSONPath: getenv("GCS_CREDENTIALS_JSON", ""),

		JWTSecret:         getenv("JWT_SECRET", defaultJWTSecret),
		SessionTTL:        getdur("SESSION_TTL", time.Hour),
		SessionCookieName: getenv("SESSION_COOKIE_NAME", "token"),
		CookieDomain:      getenv("COOKIE_DOMAIN", ""),
		CookieSecure:      getbool("COOKIE_SECURE", false),
		CookieSameSite:    strings.ToLower(getenv("COOKIE_SAMESITE", "strict")),

		AllowedOrigins: getenv("ALLOWED_ORIGIN", "http://localhost:5173"),

		MailgunDomain: getenv("MAILGUN_DOMAIN", ""),
		MailgunAPIKey: getenv("MAILGUN_API_KEY", ""),
		MailgunSender: getenv("MAILGUN_SENDER", ""),

		RabbitMQURL:        getenv("RABBITMQ_URL", ""),
		RabbitMQEmailQueue: getenv("RABBITMQ_EMAIL_QUEUE", "emails"),

		ElasticsearchAddrs: getenv("ELASTICSEARCH_ADDRS", ""),
		ElasticsearchUser:  getenv("ELASTICSEARCH_USERNAME", ""),
		ElasticsearchPass:  getenv("ELASTICSEARCH_PASSWORD", ""),
		ESProductsIndex:    getenv("ES_PRODUCTS_INDEX", "products"),

		CompanyName: getenv("COMPANY_NAME", ""),
		ShopURL:     getenv("SHOP_URL", ""),
		SupportURL:  getenv("SUPPORT_URL", ""),

		MailSendEnabled:    getbool("MAIL_SEND_ENABLED", true),
		LoginNotifyEnabled: getbool("LOGIN_NOTIFY_ENABLED", true),
		MetricsEnabled:     getbool("METRICS_ENABLED", true),
		HTTPLogEnabled:     getbool("HTTP_LOG_ENABLED", false),

		AuthRateLimit:    getint("AUTH_RATE_LIMIT", 10),
		CartRateLimit:    getint("CART_RATE_LIMIT", 120),
		RateLimitPrivate: getbool("RATE_LIMIT_PRIVATE", false),
	}
}

// Validate rejects settings that would be unsafe or unusable.
func (c *Config) Validate() error {
	var errs []error
	switch c.StoreDriver {
	case StorePostgres, StoreMongo, StoreMemory:
	default:
		errs = append(errs, fmt.Errorf("STORE_DRIVER must be postgres, mongo or memory, got %q", c.StoreDriver))
	}
	switch c.CookieSameSite {
	case "strict", "lax", "none":
	default:
		errs = append(errs, fmt.Errorf("COOKIE_SAMESITE must be strict, lax or none, got %q", c.CookieSameSite))
	}
	if c.CookieSameSite == "none" && !c.CookieSecure {
		errs = append(errs, errors.New("COOKIE_SAMESITE=none requires COOKIE_SECURE=true"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	if c.IsProduction() && (c.JWTSecret == defaultJWTSecret || len(c.JWTSecret) < 32) {
		errs = append(errs, errors.New("JWT_SECRET must be set to at least 32 characters in production"))
	}
	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// PostgresDSN returns DATABASE_URL when set, otherwise a DSN built from DB_*.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as slice
func (c *Config) CORSOrigins() []string {
	return splitList(c.AllowedOrigins)
}

// ESAddrs returns Elasticsearch addresses as a slice
func (c *Config) ESAddrs() []string {
	return splitList(c.ElasticsearchAddrs)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
