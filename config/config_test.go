package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("SESSION_TTL", "")
	cfg := Load()

	assert.Equal(t, StorePostgres, cfg.StoreDriver)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, "token", cfg.SessionCookieName)
	assert.Equal(t, "strict", cfg.CookieSameSite)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "Mongo")
	t.Setenv("SESSION_TTL", "30m")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("COOKIE_SAMESITE", "None")
	t.Setenv("ALLOWED_ORIGIN", "https://a.example.com, https://b.example.com,")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/x")
	t.Setenv("DB_MAX_CONNS", "not-a-number")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreMongo, cfg.StoreDriver)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "none", cfg.CookieSameSite)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CORSOrigins())
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.PostgresDSN())
	assert.Equal(t, int32(10), cfg.DBMaxConns)
}

func TestValidate(t *testing.T) {
	cfg := Load()
	cfg.StoreDriver = "sqlite"
	cfg.CookieSameSite = "none"
	cfg.CookieSecure = false
	cfg.Env = "production"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORE_DRIVER")
	assert.Contains(t, err.Error(), "COOKIE_SECURE")
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestPostgresDSN_FromParts(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
