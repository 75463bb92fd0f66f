package config

import (
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// MethodSet is an upper-cased set of HTTP methods decoded from a comma
// separated list such as "get, head".
type MethodSet map[string]bool

// Decode implements envdecode.Decoder.
func (m *MethodSet) Decode(s string) error {
	set := MethodSet{}
	for _, f := range strings.FieldsFunc(strings.ToUpper(s), func(r rune) bool { return r == ',' || r == ' ' }) {
		set[f] = true
	}
	*m = set
	return nil
}

// CacheConfig defines settings for the response cache middleware.  Only the
// plan catalogue is cached, so the defaults favour a short TTL keyed on
// route and query string.
type CacheConfig struct {
	Enabled      bool          `env:"CACHE_ENABLED,default=true"`
	Methods      MethodSet     `env:"CACHE_METHODS,default=GET"`
	TTL          time.Duration `env:"CACHE_TTL,default=1m"`
	KeyStrategy  string        `env:"CACHE_KEY_STRATEGY,default=route_query"`
	Prefix       string        `env:"CACHE_PREFIX,default=cache"`
	MaxBodyBytes int           `env:"CACHE_MAX_BODY_BYTES,default=1048576"`
}

// LoadCacheConfig reads CACHE_* variables.
func LoadCacheConfig() CacheConfig {
	var cfg CacheConfig
	if err := decodeEnv(&cfg); err != nil {
		logrus.WithError(err).Warn("config: cache settings")
	}
	return cfg
}
