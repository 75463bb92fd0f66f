package config

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_PORT", "9090")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, UnknownPlanDeny, cfg.UnknownPlanPolicy)
	assert.Equal(t, time.UTC, cfg.Location)
}

func TestLoad_UnknownPlanPolicy(t *testing.T) {
	t.Setenv("ENTITLEMENT_UNKNOWN_PLAN", "Basic")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, UnknownPlanBasic, cfg.UnknownPlanPolicy)

	t.Setenv("ENTITLEMENT_UNKNOWN_PLAN", "grant-all")
	_, err = Load()
	assert.Error(t, err)
}

func TestLoad_InvalidTimezone(t *testing.T) {
	t.Setenv("RESTAURANT_TIMEZONE", "Mars/Olympus_Mons")
	_, err := Load()
	assert.Error(t, err)
}

func TestDSN(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBName: "rest", DBSSLMode: "disable"}
	assert.Equal(t, "host=db port=5432 user=app dbname=rest sslmode=disable", cfg.DSN())

	cfg.DBPass = "secret"
	assert.Contains(t, cfg.DSN(), "password=secret")
}

func TestDSN_QuotesSpecialValues(t *testing.T) {
	cfg := Config{DBHost: "db", DBPort: "5432", DBUser: "app", DBName: "rest", DBSSLMode: "disable"}

	cfg.DBPass = `p a'ss\word`
	assert.Equal(t, `host=db port=5432 user=app dbname=rest sslmode=disable password='p a\'ss\\word'`, cfg.DSN())
	_, err := pq.NewConnector(cfg.DSN())
	assert.NoError(t, err)

	cfg.DBName = "my db"
	cfg.DBPass = "x sslmode=require"
	dsn := cfg.DSN()
	assert.Contains(t, dsn, "dbname='my db'")
	assert.Contains(t, dsn, "password='x sslmode=require'")
	assert.Contains(t, dsn, "sslmode=disable")
	_, err = pq.NewConnector(dsn)
	assert.NoError(t, err)
}

func TestLoadRateLimitConfig_Clamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_INTERVAL", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	assert.Equal(t, 1, cfg.Capacity)
	assert.Equal(t, 10*time.Second, cfg.TTL)
	assert.Equal(t, "ip_route", cfg.KeyStrategy)
}

func TestLoadRedisConfig_HostPort(t *testing.T) {
	assert.Equal(t, "localhost:6379", LoadRedisConfig().Addr)

	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")
	assert.Equal(t, "cache:6380", LoadRedisConfig().Addr)
}

func TestLoadCacheConfig_Methods(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head ,")
	cfg := LoadCacheConfig()
	assert.Equal(t, MethodSet{"GET": true, "HEAD": true}, cfg.Methods)
	assert.Equal(t, time.Minute, cfg.TTL)
}
