package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/service"
)

// ReservationHandler serves /reservations.
type ReservationHandler struct {
	svc ReservationService
}

// NewReservationHandler panics on a nil service.
func NewReservationHandler(svc ReservationService) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	return &ReservationHandler{svc: svc}
}

type createReservationRequest struct {
	CustomerName    string  `json:"customerName"`
	CustomerEmail   string  `json:"customerEmail"`
	CustomerPhone   string  `json:"customerPhone"`
	PartySize       int     `json:"partySize"`
	Date            string  `json:"date"`
	Time            string  `json:"time"`
	SpecialRequests string  `json:"specialRequests"`
	TableID         *uint64 `json:"tableId"`
}

// Create handles POST /reservations.  The reservation is confirmed with a
// table when one fits and waitlisted otherwise.
func (h *ReservationHandler) Create(c echo.Context) error {
	var body createReservationRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if !validOptionalID(body.TableID) {
		return fail(c, http.StatusBadRequest, "tableId is invalid")
	}
	res, err := h.svc.Create(c.Request().Context(), service.CreateReservationInput{
		CustomerName:    body.CustomerName,
		CustomerEmail:   body.CustomerEmail,
		CustomerPhone:   body.CustomerPhone,
		PartySize:       body.PartySize,
		Date:            body.Date,
		Time:            body.Time,
		SpecialRequests: body.SpecialRequests,
		TableID:         body.TableID,
	})
	if err != nil {
		return respondError(c, err, "failed to create reservation")
	}

	out := echo.Map{"success": true, "reservation": res.Reservation}
	if res.Reservation.Status == model.ReservationConfirmed {
		out["message"] = "Reservation confirmed"
		if res.Table != nil {
			out["table_number"] = res.Table.Number
			if res.Table.QRCodeURL != nil {
				out["table_qr_code"] = *res.Table.QRCodeURL
			}
		}
	} else {
		out["message"] = "No table is available for this time; you have been added to the waitlist"
	}
	return c.JSON(http.StatusCreated, out)
}

// List handles GET /reservations?date=&status=.
func (h *ReservationHandler) List(c echo.Context) error {
	list, err := h.svc.List(c.Request().Context(), repository.ReservationFilter{
		Date:   strings.TrimSpace(c.QueryParam("date")),
		Status: strings.TrimSpace(c.QueryParam("status")),
	})
	if err != nil {
		return respondError(c, err, "failed to list reservations")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservations": list})
}

// Get handles GET /reservations/:id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	res, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to load reservation")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservation": res})
}

type updateReservationRequest struct {
	ID                  uint64  `json:"id"`
	Status              *string `json:"status"`
	Date                *string `json:"date"`
	Time                *string `json:"time"`
	PartySize           *int    `json:"partySize"`
	TableID             *uint64 `json:"tableId"`
	SpecialInstructions *string `json:"specialInstructions"`
}

// Update handles PATCH /reservations with the ID in the body.
func (h *ReservationHandler) Update(c echo.Context) error {
	var body updateReservationRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	if body.ID == 0 {
		return fail(c, http.StatusBadRequest, "id is required")
	}
	if !validID(body.ID) || !validOptionalID(body.TableID) {
		return fail(c, http.StatusBadRequest, "id is invalid")
	}
	res, err := h.svc.Update(c.Request().Context(), body.ID, service.UpdateReservationInput{
		Status:              body.Status,
		Date:                body.Date,
		Time:                body.Time,
		PartySize:           body.PartySize,
		TableID:             body.TableID,
		SpecialInstructions: body.SpecialInstructions,
	})
	if err != nil {
		return respondError(c, err, "failed to update reservation")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "reservation": res})
}

// Cancel handles DELETE /reservations?id=.  The row is kept with status
// cancelled.
func (h *ReservationHandler) Cancel(c echo.Context) error {
	id, ok := parseID(c.QueryParam("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "id query parameter is required")
	}
	res, err := h.svc.Cancel(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err, "failed to cancel reservation")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Reservation cancelled", "reservation": res})
}
