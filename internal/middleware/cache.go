package middleware

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/restaurant-service/internal/config"
	"github.com/iliyamo/restaurant-service/internal/logger"
)

// captureWriter copies the response body, up to limit bytes, while
// forwarding it to the client.
type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
	size   int64
	limit  int64
}

func (cw *captureWriter) WriteHeader(code int) {
	cw.status = code
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *captureWriter) Write(b []byte) (int, error) {
	if cw.limit <= 0 || cw.size+int64(len(b)) <= cw.limit {
		cw.buf.Write(b)
	}
	cw.size += int64(len(b))
	return cw.ResponseWriter.Write(b)
}

func (cw *captureWriter) truncated() bool { return cw.limit > 0 && cw.size > cw.limit }

// cachedResponse is the value stored under a cache key.
type cachedResponse struct {
	Status int         `json:"s"`
	Header http.Header `json:"h,omitempty"`
	Body   []byte      `json:"b"`
}

// skipHeaders are never stored: they are per-response.
var skipHeaders = []string{echo.HeaderContentLength, echo.HeaderXRequestID, "X-Cache"}

func cacheKeyFrom(cfg config.CacheConfig, c echo.Context) string {
	r := c.Request()
	strategy := strings.ToLower(cfg.KeyStrategy)
	h := sha1.New()
	if strings.HasPrefix(strategy, "method_") {
		h.Write([]byte(r.Method + " "))
	}
	h.Write([]byte(c.Path()))
	if strategy == "" || strings.HasSuffix(strategy, "_query") {
		h.Write([]byte("?" + r.URL.RawQuery))
	}
	return cfg.Prefix + ":" + hex.EncodeToString(h.Sum(nil))
}

func encodePayload(status int, header http.Header, body []byte) ([]byte, error) {
	return json.Marshal(cachedResponse{Status: status, Header: header, Body: body})
}

func decodePayload(bs []byte) (int, http.Header, []byte, bool) {
	var cr cachedResponse
	if err := json.Unmarshal(bs, &cr); err != nil || cr.Status == 0 {
		return 0, nil, nil, false
	}
	return cr.Status, cr.Header, cr.Body, true
}

func replay(c echo.Context, status int, hdr http.Header, body []byte) error {
	out := c.Response().Header()
	for k, vals := range hdr {
		for _, v := range vals {
			out.Add(k, v)
		}
	}
	out.Set("X-Cache", "HIT")
	c.Response().WriteHeader(status)
	_, err := c.Response().Write(body)
	return err
}

// NewRedisCache replays cached 200 responses, headers included, for the
// configured methods.  It is a no-op when disabled or without Redis.
func NewRedisCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return passthrough
	}
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = time.Minute
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !cfg.Methods[strings.ToUpper(c.Request().Method)] {
				return next(c)
			}
			ctx := c.Request().Context()
			log := logger.FromContext(ctx)
			key := cacheKeyFrom(cfg, c)

			bs, err := rdb.Get(ctx, key).Bytes()
			switch {
			case err == nil:
				if status, hdr, body, ok := decodePayload(bs); ok {
					return replay(c, status, hdr, body)
				}
				log.WithField("key", key).Warn("discarding unreadable cache entry")
			case err != redis.Nil:
				log.WithError(err).Warn("response cache read failed")
			}

			cw := &captureWriter{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: int64(cfg.MaxBodyBytes)}
			c.Response().Writer = cw
			c.Response().Header().Set("X-Cache", "MISS")
			if err := next(c); err != nil {
				return err
			}
			if cw.status != http.StatusOK || cw.truncated() {
				return nil
			}

			hdr := c.Response().Header().Clone()
			for _, k := range skipHeaders {
				hdr.Del(k)
			}
			payload, err := encodePayload(cw.status, hdr, cw.buf.Bytes())
			if err != nil {
				return nil
			}
			if err := rdb.SetEx(context.WithoutCancel(ctx), key, payload, ttl).Err(); err != nil {
				log.WithError(err).Warn("response cache write failed")
			}
			return nil
		}
	}
}
