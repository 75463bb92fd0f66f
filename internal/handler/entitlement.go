package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// EntitlementHandler answers feature access questions for a user.
type EntitlementHandler struct {
	svc EntitlementService
}

// NewEntitlementHandler panics on a nil service.
func NewEntitlementHandler(svc EntitlementService) *EntitlementHandler {
	if svc == nil {
		panic("nil service passed to NewEntitlementHandler")
	}
	return &EntitlementHandler{svc: svc}
}

// List handles GET /users/:id/entitlements.
func (h *EntitlementHandler) List(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	sum, err := h.svc.List(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to resolve entitlements")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "entitlements": sum})
}

// Check handles GET /users/:id/entitlements/:feature.
func (h *EntitlementHandler) Check(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid user id")
	}
	d, err := h.svc.Check(c.Request().Context(), id, c.Param("feature"))
	if err != nil {
		return respondError(c, err, "failed to resolve entitlement")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "entitlement": d})
}
