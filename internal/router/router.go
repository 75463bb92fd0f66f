// Package router registers the HTTP routes on an Echo instance.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-service/internal/handler"
)

// Handlers bundles everything the routes dispatch to.
type Handlers struct {
	Reservations *handler.ReservationHandler
	Waitlist     *handler.WaitlistHandler
	Tables       *handler.TableHandler
	Plans        *handler.PlanHandler
	Entitlements *handler.EntitlementHandler
	Health       echo.HandlerFunc
}

// Middleware holds the optional per-route middleware.  RateLimit guards
// the public booking endpoints and Cache fronts the plan catalogue.
type Middleware struct {
	RateLimit echo.MiddlewareFunc
	Cache     echo.MiddlewareFunc
}

// Register mounts all routes.  Nil middleware is skipped.
func Register(e *echo.Echo, h Handlers, m Middleware) {
	limited := optional(m.RateLimit)
	cached := optional(m.Cache)

	e.GET("/healthz", h.Health)

	// ---- Reservations ----
	e.POST("/reservations", h.Reservations.Create, limited...)
	e.GET("/reservations", h.Reservations.List)
	e.GET("/reservations/:id", h.Reservations.Get)
	e.PATCH("/reservations", h.Reservations.Update)
	e.DELETE("/reservations", h.Reservations.Cancel)

	// ---- Waitlist ----
	e.POST("/waitlist", h.Waitlist.Join, limited...)
	e.GET("/waitlist", h.Waitlist.List)
	e.PATCH("/waitlist", h.Waitlist.Update)
	e.DELETE("/waitlist", h.Waitlist.Remove)

	// ---- Tables ----
	// the static scan route is matched before :id
	e.GET("/tables/scan", h.Tables.Scan)
	e.GET("/tables", h.Tables.List)
	e.POST("/tables", h.Tables.Create)
	e.PATCH("/tables/:id", h.Tables.UpdateStatus)
	e.DELETE("/tables/:id", h.Tables.Delete)

	// ---- Plans and entitlements ----
	e.GET("/subscription-plans", h.Plans.List, cached...)
	e.GET("/users/:id/entitlements", h.Entitlements.List)
	e.GET("/users/:id/entitlements/:feature", h.Entitlements.Check)
}

func optional(m echo.MiddlewareFunc) []echo.MiddlewareFunc {
	if m == nil {
		return nil
	}
	return []echo.MiddlewareFunc{m}
}
