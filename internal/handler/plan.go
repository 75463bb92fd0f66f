package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// PlanHandler serves the public plan catalogue.
type PlanHandler struct {
	svc PlanService
}

// NewPlanHandler panics on a nil service.
func NewPlanHandler(svc PlanService) *PlanHandler {
	if svc == nil {
		panic("nil service passed to NewPlanHandler")
	}
	return &PlanHandler{svc: svc}
}

// List handles GET /subscription-plans.
func (h *PlanHandler) List(c echo.Context) error {
	plans, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to load subscription plans")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "plans": plans})
}
