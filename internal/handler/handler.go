// Package handler holds the HTTP handlers.  Handlers bind and shape
// requests, call a service and map its errors onto status codes.
package handler

import (
	"context"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
	"github.com/iliyamo/restaurant-service/internal/service"
)

// ReservationService is implemented by *service.ReservationService.
type ReservationService interface {
	Create(ctx context.Context, in service.CreateReservationInput) (*service.ReservationResult, error)
	Get(ctx context.Context, id uint64) (*model.Reservation, error)
	List(ctx context.Context, f repository.ReservationFilter) ([]model.Reservation, error)
	Update(ctx context.Context, id uint64, in service.UpdateReservationInput) (*model.Reservation, error)
	Cancel(ctx context.Context, id uint64) (*model.Reservation, error)
}

// WaitlistService is implemented by *service.WaitlistService.
type WaitlistService interface {
	Join(ctx context.Context, in service.JoinWaitlistInput) (*service.JoinResult, error)
	List(ctx context.Context, f repository.WaitlistFilter) ([]model.WaitlistEntry, error)
	Update(ctx context.Context, id uint64, p repository.WaitlistPatch) (*model.WaitlistEntry, error)
	Remove(ctx context.Context, id uint64) error
}

// TableService is implemented by *service.TableService.
type TableService interface {
	List(ctx context.Context) ([]model.Table, error)
	Create(ctx context.Context, in service.CreateTableInput) (*model.Table, error)
	UpdateStatus(ctx context.Context, id uint64, status string) (*model.Table, error)
	Delete(ctx context.Context, id uint64) error
	Scan(ctx context.Context, token string) (*model.Table, error)
}

// PlanService is implemented by *service.PlanService.
type PlanService interface {
	List(ctx context.Context) ([]model.PlanView, error)
}

// EntitlementService is implemented by *service.EntitlementService.
type EntitlementService interface {
	Check(ctx context.Context, userID uint64, feature string) (*service.EntitlementDecision, error)
	List(ctx context.Context, userID uint64) (*service.EntitlementSummary, error)
}

func fail(c echo.Context, status int, msg string) error {
	return c.JSON(status, echo.Map{"success": false, "error": msg})
}

// respondError maps a service error onto the error envelope.  Unexpected
// errors are logged and answered with fallback.
func respondError(c echo.Context, err error, fallback string) error {
	switch {
	case service.IsValidation(err):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrInvalidTableToken):
		return fail(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrTableNotFound),
		errors.Is(err, repository.ErrReservationNotFound),
		errors.Is(err, repository.ErrWaitlistEntryNotFound),
		errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrPlanNotFound):
		return fail(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrTableUnavailable),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, repository.ErrDuplicateTableNumber),
		errors.Is(err, repository.ErrTableInUse),
		errors.Is(err, repository.ErrConflict):
		return fail(c, http.StatusConflict, err.Error())
	}
	logger.FromContext(c.Request().Context()).WithError(err).
		WithField("path", c.Path()).Error(fallback)
	return fail(c, http.StatusInternalServerError, fallback)
}

// parseID reads a positive numeric ID that fits a BIGINT column.
func parseID(raw string) (uint64, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(raw), 10, 63)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// validID reports whether an ID decoded from a body fits a BIGINT column.
func validID(id uint64) bool { return id > 0 && id <= math.MaxInt64 }

func validOptionalID(id *uint64) bool { return id == nil || *id <= math.MaxInt64 }
