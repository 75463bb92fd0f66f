package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// HoursRepo reads the weekly opening hours.
type HoursRepo struct {
	db *sql.DB
}

// NewHoursRepo returns a HoursRepo bound to the given database.
func NewHoursRepo(db *sql.DB) *HoursRepo { return &HoursRepo{db: db} }

// GetByDay returns the hours for a weekday (0 = Sunday).  A day without a
// row is reported as nil, nil and treated as closed by callers.
func (r *HoursRepo) GetByDay(ctx context.Context, day int) (*model.BusinessHours, error) {
	var h model.BusinessHours
	err := r.db.QueryRowContext(ctx,
		`SELECT day_of_week, to_char(open_time, 'HH24:MI'), to_char(close_time, 'HH24:MI'), is_active
		 FROM business_hours WHERE day_of_week = $1`, day,
	).Scan(&h.DayOfWeek, &h.OpenTime, &h.CloseTime, &h.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &h, nil
}
