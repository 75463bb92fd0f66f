package config

// Redis backs the distributed rate limiter and the response cache.  Both
// are optional: when the server cannot be reached NewRedisClient returns nil
// and the middlewares turn into pass-throughs.

import (
	"context"
	"crypto/tls"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RedisConfig describes how to reach Redis.  URL (redis://...) takes
// precedence over Host/Port, which take precedence over Addr.
type RedisConfig struct {
	Enabled bool   `env:"REDIS_ENABLED,default=true"`
	Addr    string `env:"REDIS_ADDR,default=localhost:6379"`
	Host    string `env:"REDIS_HOST"`
	Port    string `env:"REDIS_PORT"`
	URL     string `env:"REDIS_URL"`
	Pass    string `env:"REDIS_PASSWORD"`
	DB      int    `env:"REDIS_DB"`
	TLS     bool   `env:"REDIS_TLS"`
}

// LoadRedisConfig reads REDIS_* variables.
func LoadRedisConfig() RedisConfig {
	var cfg RedisConfig
	if err := decodeEnv(&cfg); err != nil {
		logrus.WithError(err).Warn("config: redis settings")
	}
	if cfg.Host != "" && cfg.Port != "" {
		cfg.Addr = cfg.Host + ":" + cfg.Port
	}
	return cfg
}

// NewRedisClient connects to Redis and pings it with a short timeout.  It
// returns nil when Redis is disabled, misconfigured or unreachable.
func NewRedisClient(cfg RedisConfig) *redis.Client {
	if !cfg.Enabled {
		return nil
	}
	var opts *redis.Options
	if cfg.URL != "" {
		parsed, err := redis.ParseURL(cfg.URL)
		if err != nil {
			logrus.WithError(err).Warn("redis: invalid REDIS_URL, caching and rate limiting disabled")
			return nil
		}
		opts = parsed
	} else {
		opts = &redis.Options{Addr: cfg.Addr, Password: cfg.Pass, DB: cfg.DB}
		if cfg.TLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
	}
	client := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		logrus.WithError(err).WithField("addr", opts.Addr).Warn("redis: unreachable, caching and rate limiting disabled")
		_ = client.Close()
		return nil
	}
	return client
}
