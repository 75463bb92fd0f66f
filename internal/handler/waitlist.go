package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/service"
)

// WaitlistHandler serves /waitlist.
type WaitlistHandler struct {
	svc WaitlistService
}

// NewWaitlistHandler panics on a nil service.
func NewWaitlistHandler(svc WaitlistService) *WaitlistHandler {
	if svc == nil {
		panic("nil service passed to NewWaitlistHandler")
	}
	return &WaitlistHandler{svc: svc}
}

type joinWaitlistRequest struct {
	CustomerName    string `json:"customerName"`
	CustomerPhone   string `json:"customerPhone"`
	CustomerEmail   string `json:"customerEmail"`
	PartySize       int    `json:"partySize"`
	Date            string `json:"date"`
	Time            string `json:"time"`
	SpecialRequests string `json:"specialRequests"`
}

// Join handles POST /waitlist.
func (h *WaitlistHandler) Join(c echo.Context) error {
	var body joinWaitlistRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	res, err := h.svc.Join(c.Request().Context(), service.JoinWaitlistInput(body))
	if err != nil {
		return respondError(c, err, "failed to join waitlist")
	}
	return c.JSON(http.StatusCreated, echo.Map{
		"message":           fmt.Sprintf("Added to the waitlist at position %d", res.Position),
		"waitlistEntry":     res.Entry,
		"position":          res.Position,
		"estimatedWaitTime": res.EstimatedWaitTime,
	})
}

// List handles GET /waitlist?date=&status=.
func (h *WaitlistHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), repository.WaitlistFilter{
		Date:   strings.TrimSpace(c.QueryParam("date")),
		Status: strings.TrimSpace(c.QueryParam("status")),
	})
	if err != nil {
		return respondError(c, err, "failed to list waitlist")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "waitlist": list})
}

type updateWaitlistRequest struct {
	ID       uint64  `json:"id"`
	Status   *string `json:"status"`
	Notified *bool   `json:"notified"`
}

// Update handles PATCH /waitlist with the ID in the body.
func (h *WaitlistHandler) Update(c echo.Context) error {
	var body updateWaitlistRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.ID == 0 {
		return fail(c, http.StatusBadRequest, "id is required")
	}
	if !validID(body.ID) {
		return fail(c, http.StatusBadRequest, "id is invalid")
	}
	entry, err := h.svc.Update(c.Request().Context(), body.ID, repository.WaitlistPatch{Status: body.Status, Notified: body.Notified})
	if err != nil {
		return respondError(c, err, "failed to update waitlist entry")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "waitlistEntry": entry})
}

// Remove handles DELETE /waitlist?id=.
func (h *WaitlistHandler) Remove(c echo.Context) error {
	id, ok := parseID(c.QueryParam("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "id query parameter is required")
	}
	if err := h.svc.Remove(c.Request().Context(), id); err != nil {
		return respondError(c, err, "failed to remove waitlist entry")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Waitlist entry removed"})
}
