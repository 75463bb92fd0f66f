package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// UserRepo reads user subscription state.
type UserRepo struct {
	db *sql.DB
}

// NewUserRepo returns a UserRepo bound to the given database.
func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{db: db} }

// GetSubscriptionState returns the user's denormalized subscription fields
// together with their most recent subscriptions row, when one exists.
func (r *UserRepo) GetSubscriptionState(ctx context.Context, userID uint64) (*model.SubscriptionState, error) {
	const q = `SELECT u.id, u.email, u.name, u.subscription_plan, u.subscription_status, u.subscription_end, u.created_at,
	                  s.id, s.plan_ref, s.status, s.current_period_end, s.created_at
	           FROM users u
	           LEFT JOIN LATERAL (
	               SELECT id, plan_ref, status, current_period_end, created_at
	               FROM subscriptions
	               WHERE user_id = u.id
	               ORDER BY created_at DESC, id DESC
	               LIMIT 1
	           ) s ON TRUE
	           WHERE u.id = $1`
	var (
		st                     model.SubscriptionState
		planRef, status        sql.NullString
		end                    sql.NullTime
		subID                  sql.NullInt64
		subPlan, subStatus     sql.NullString
		subPeriodEnd, subStart sql.NullTime
	)
	err := r.db.QueryRowContext(ctx, q, userID).Scan(
		&st.User.ID, &st.User.Email, &st.User.Name, &planRef, &status, &end, &st.User.CreatedAt,
		&subID, &subPlan, &subStatus, &subPeriodEnd, &subStart,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	st.User.PlanRef = stringPtr(planRef)
	st.User.SubscriptionStatus = stringPtr(status)
	st.User.SubscriptionEnd = timePtr(end)
	if subID.Valid {
		st.Subscription = &model.Subscription{
			ID:               uint64(subID.Int64),
			UserID:           st.User.ID,
			PlanRef:          subPlan.String,
			Status:           subStatus.String,
			CurrentPeriodEnd: timePtr(subPeriodEnd),
			CreatedAt:        subStart.Time,
		}
	}
	return &st, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
