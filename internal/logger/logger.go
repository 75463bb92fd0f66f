// Package logger wires logrus for the service.  Every request gets its own
// entry carrying a request ID so that log lines from handlers, services
// and repositories can be correlated.
package logger

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type contextKeyRequestLoggerType struct{}

var contextKeyRequestLogger = &contextKeyRequestLoggerType{}

const (
	requestIDLoggerKey = "requestID"
	// HeaderRequestID is echoed back on every response.
	HeaderRequestID = "X-Request-ID"
)

// Init sets up the text formatter and the level for all log statements.
// Unknown levels fall back to info.
func Init(level string) {
	formatter := new(logrus.TextFormatter)
	formatter.TimestampFormat = "2006-01-02 15:04:05"
	formatter.FullTimestamp = true
	logrus.SetFormatter(formatter)

	lvl, err := logrus.ParseLevel(strings.TrimSpace(level))
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logrus.SetLevel(lvl)
}

// Default returns a logger without a request ID.
func Default() *logrus.Entry {
	return logrus.NewEntry(logrus.StandardLogger())
}

// ContextWithLogger returns a context carrying a logger with the given
// request ID.  An empty ID gets a fresh UUID.
func ContextWithLogger(ctx context.Context, requestID string) (context.Context, *logrus.Entry) {
	if ctx == nil {
		ctx = context.Background()
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	rlog := logrus.WithField(requestIDLoggerKey, requestID)
	return context.WithValue(ctx, contextKeyRequestLogger, rlog), rlog
}

// FromContext returns the logger stored in ctx or the default logger.
func FromContext(ctx context.Context) *logrus.Entry {
	if ctx == nil {
		return Default()
	}
	rlog, ok := ctx.Value(contextKeyRequestLogger).(*logrus.Entry)
	if !ok || rlog == nil {
		return Default()
	}
	return rlog
}

// Middleware attaches a request logger to every request and logs the
// outcome once the handler chain returns.
func Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx, rlog := ContextWithLogger(req.Context(), req.Header.Get(HeaderRequestID))
			c.SetRequest(req.WithContext(ctx))
			if id, ok := rlog.Data[requestIDLoggerKey].(string); ok {
				c.Response().Header().Set(HeaderRequestID, id)
			}

			start := time.Now()
			err := next(c)
			if err != nil {
				// let the error handler write the response before we read the status
				c.Error(err)
			}
			entry := rlog.WithFields(logrus.Fields{
				"method":      req.Method,
				"path":        c.Path(),
				"status":      c.Response().Status,
				"duration_ms": time.Since(start).Milliseconds(),
			})
			switch status := c.Response().Status; {
			case status >= 500:
				entry.Error("request failed")
			case status >= 400:
				entry.Warn("request rejected")
			default:
				entry.Info("request completed")
			}
			return nil
		}
	}
}
