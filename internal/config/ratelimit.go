package config

import (
	"time"

	"github.com/sirupsen/logrus"
)

// RateLimitConfig tunes the Redis token bucket applied to public write
// endpoints (reservation and waitlist requests).
type RateLimitConfig struct {
	Enabled        bool          `env:"RATE_LIMIT_ENABLED,default=true"`
	Capacity       int           `env:"RATE_LIMIT_CAPACITY,default=20"`
	RefillTokens   int           `env:"RATE_LIMIT_REFILL_TOKENS,default=1"`
	RefillInterval time.Duration `env:"RATE_LIMIT_REFILL_INTERVAL,default=3s"`
	TTL            time.Duration `env:"RATE_LIMIT_TTL,default=10m"`
	KeyStrategy    string        `env:"RATE_LIMIT_KEY_STRATEGY,default=ip_route"`
	Prefix         string        `env:"RATE_LIMIT_PREFIX,default=rl"`
	Debug          bool          `env:"RATE_LIMIT_DEBUG"`
}

// LoadRateLimitConfig reads RATE_LIMIT_* variables and clamps the bucket
// to usable values.
func LoadRateLimitConfig() RateLimitConfig {
	var cfg RateLimitConfig
	if err := decodeEnv(&cfg); err != nil {
		logrus.WithError(err).Warn("config: rate limit settings")
	}
	cfg.Capacity = max(cfg.Capacity, 1)
	cfg.RefillTokens = max(cfg.RefillTokens, 1)
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	// the bucket must outlive a full refill cycle
	cfg.TTL = max(cfg.TTL, 5*cfg.RefillInterval)
	return cfg
}
