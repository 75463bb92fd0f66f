package service

import (
	"context"
	"fmt"

	"github.com/iliyamo/restaurant-service/internal/entitlement"
	"github.com/iliyamo/restaurant-service/internal/model"
)

// PlanService lists subscription plans for the pricing page.
type PlanService struct {
	plans PlanStore
}

// NewPlanService wires the service.
func NewPlanService(plans PlanStore) *PlanService { return &PlanService{plans: plans} }

// List returns active plans with features as display names.  Stored
// plan_features rows take precedence over the plan's features column.
func (s *PlanService) List(ctx context.Context) ([]model.PlanView, error) {
	plans, err := s.plans.List(ctx, true)
	if err != nil {
		return nil, err
	}
	out := make([]model.PlanView, 0, len(plans))
	for i := range plans {
		p := &plans[i]
		keys, err := s.plans.FeatureKeys(ctx, p.ID)
		if err != nil {
			return nil, fmt.Errorf("load features of plan %d: %w", p.ID, err)
		}
		var names []string
		if len(keys) > 0 {
			names = entitlement.Names(keys)
		} else {
			names = entitlement.Names(rawFeatures(p))
		}
		out = append(out, model.PlanView{Plan: *p, Features: names})
	}
	return out, nil
}
