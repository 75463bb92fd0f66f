package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/restaurant-service/internal/model"
)

// PlanRepo provides read access to plans and plan_features.
type PlanRepo struct {
	db *sql.DB
}

// NewPlanRepo returns a PlanRepo bound to the given database.
func NewPlanRepo(db *sql.DB) *PlanRepo { return &PlanRepo{db: db} }

const planColumns = `id, name, price_cents, billing_period, features, is_active, created_at`

func scanPlan(row rowScanner) (*model.Plan, error) {
	var p model.Plan
	var features sql.NullString
	if err := row.Scan(&p.ID, &p.Name, &p.PriceCents, &p.BillingPeriod, &features, &p.IsActive, &p.CreatedAt); err != nil {
		return nil, err
	}
	p.Features = stringPtr(features)
	return &p, nil
}

// List returns plans ordered by price.  With activeOnly set, inactive
// plans are left out.
func (r *PlanRepo) List(ctx context.Context, activeOnly bool) ([]model.Plan, error) {
	q := `SELECT ` + planColumns + ` FROM plans`
	if activeOnly {
		q += ` WHERE is_active`
	}
	q += ` ORDER BY price_cents, id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Plan{}
	for rows.Next() {
		p, err := scanPlan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

// GetByID returns a plan or ErrPlanNotFound.
func (r *PlanRepo) GetByID(ctx context.Context, id uint64) (*model.Plan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	return p, err
}

// GetByName looks a plan up by name, ignoring case.
func (r *PlanRepo) GetByName(ctx context.Context, name string) (*model.Plan, error) {
	p, err := scanPlan(r.db.QueryRowContext(ctx, `SELECT `+planColumns+` FROM plans WHERE LOWER(name) = LOWER($1) LIMIT 1`, name))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlanNotFound
	}
	return p, err
}

// FeatureKeys returns the plan_features rows of a plan.
func (r *PlanRepo) FeatureKeys(ctx context.Context, planID uint64) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT feature_key FROM plan_features WHERE plan_id = $1 ORDER BY feature_key`, planID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	keys := []string{}
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}
