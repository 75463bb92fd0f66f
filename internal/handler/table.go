package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-service/internal/service"
)

// TableHandler serves /tables.
type TableHandler struct {
	svc TableService
}

// NewTableHandler panics on a nil service.
func NewTableHandler(svc TableService) *TableHandler {
	if svc == nil {
		panic("nil service passed to NewTableHandler")
	}
	return &TableHandler{svc: svc}
}

// List handles GET /tables.
func (h *TableHandler) List(c echo.Context) error {
	tables, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, err, "failed to list tables")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "tables": tables})
}

type createTableRequest struct {
	TableNumber int    `json:"tableNumber"`
	Seats       int    `json:"seats"`
	IsSmoking   bool   `json:"isSmoking"`
	Status      string `json:"status"`
	QRCodeURL   string `json:"qrCodeUrl"`
}

// Create handles POST /tables.
func (h *TableHandler) Create(c echo.Context) error {
	var body createTableRequest
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	t, err := h.svc.Create(c.Request().Context(), service.CreateTableInput{
		Number:    body.TableNumber,
		Seats:     body.Seats,
		IsSmoking: body.IsSmoking,
		Status:    body.Status,
		QRCodeURL: body.QRCodeURL,
	})
	if err != nil {
		return respondError(c, err, "failed to create table")
	}
	return c.JSON(http.StatusCreated, echo.Map{"success": true, "table": t})
}

// UpdateStatus handles PATCH /tables/:id.
func (h *TableHandler) UpdateStatus(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	var body struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&body); err != nil {
		return fail(c, http.StatusBadRequest, "invalid request body")
	}
	t, err := h.svc.UpdateStatus(c.Request().Context(), id, body.Status)
	if err != nil {
		return respondError(c, err, "failed to update table")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "table": t})
}

// Delete handles DELETE /tables/:id.
func (h *TableHandler) Delete(c echo.Context) error {
	id, ok := parseID(c.Param("id"))
	if !ok {
		return fail(c, http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return respondError(c, err, "failed to delete table")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "Table deleted"})
}

// Scan handles GET /tables/scan?token=, the target of a table's QR code.
func (h *TableHandler) Scan(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return fail(c, http.StatusBadRequest, "token is required")
	}
	t, err := h.svc.Scan(c.Request().Context(), token)
	if err != nil {
		return respondError(c, err, "failed to resolve table")
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "table": t})
}
