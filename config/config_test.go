package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("SESSION_TTL", "")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.False(t, cfg.CookieSecure)
	assert.Equal(t, "postgres", cfg.StoreDriver)
	assert.Equal(t, "direct", cfg.ChatSyncMode)
}

func TestLoadProductionSecureCookie(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("COOKIE_SECURE", "")

	cfg := Load()

	assert.True(t, cfg.IsProduction())
	assert.True(t, cfg.CookieSecure)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("SESSION_TTL", "a week")
	t.Setenv("DB_MAX_CONNS", "many")
	t.Setenv("METRICS_ENABLED", "sometimes")

	cfg := Load()

	assert.Equal(t, 7*24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, int32(10), cfg.DBMaxConns)
	assert.True(t, cfg.MetricsEnabled)
}

func TestListHelpers(t *testing.T) {
	cfg := &Config{
		CORSAllowedOrigins: " http://a.test , ,http://b.test",
		DBReplicaDSNs:      "",
		DBUser:             "u",
		DBPassword:         "p",
		DBHost:             "h",
		DBPort:             "5432",
		DBName:             "db",
		DBSSLMode:          "disable",
	}

	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Empty(t, cfg.ReplicaDSNs())
	assert.Equal(t, "postgres://u:p@h:5432/db?sslmode=disable", cfg.PostgresDSN())
}
