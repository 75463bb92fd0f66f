package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/iliyamo/restaurant-service/internal/entitlement"
	"github.com/iliyamo/restaurant-service/internal/logger"
	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
)

// SubscriptionStore loads a user's subscription state.
type SubscriptionStore interface {
	GetSubscriptionState(ctx context.Context, userID uint64) (*model.SubscriptionState, error)
}

// PlanStore reads plans and their stored features.
type PlanStore interface {
	List(ctx context.Context, activeOnly bool) ([]model.Plan, error)
	GetByID(ctx context.Context, id uint64) (*model.Plan, error)
	GetByName(ctx context.Context, name string) (*model.Plan, error)
	FeatureKeys(ctx context.Context, planID uint64) ([]string, error)
}

// EntitlementDecision is the answer for one feature.
type EntitlementDecision struct {
	UserID             uint64 `json:"user_id"`
	Feature            string `json:"feature"`
	Plan               string `json:"plan"`
	SubscriptionStatus string `json:"subscription_status"`
	entitlement.Result
}

// FeatureAccess is one catalog feature in an entitlement listing.
type FeatureAccess struct {
	entitlement.Feature
	Allowed bool   `json:"allowed"`
	Source  string `json:"source"`
}

// EntitlementSummary lists every catalog feature for a user.
type EntitlementSummary struct {
	UserID             uint64           `json:"user_id"`
	Plan               string           `json:"plan"`
	SubscriptionStatus string           `json:"subscription_status"`
	Tier               entitlement.Tier `json:"tier"`
	Features           []FeatureAccess  `json:"features"`
}

// EntitlementService answers feature access questions for users.
type EntitlementService struct {
	users    SubscriptionStore
	plans    PlanStore
	resolver *entitlement.Resolver
	now      func() time.Time
}

// NewEntitlementService wires the service around a resolver.
func NewEntitlementService(users SubscriptionStore, plans PlanStore, resolver *entitlement.Resolver) *EntitlementService {
	return &EntitlementService{users: users, plans: plans, resolver: resolver, now: time.Now}
}

// subject is a user's plan, resolved once per request.
type subject struct {
	userID uint64
	status string
	input  entitlement.Input
}

func (s subject) planLabel() string {
	if s.input.PlanName != "" {
		return s.input.PlanName
	}
	return s.input.Ref.String()
}

// Check decides a single feature for a user.
func (s *EntitlementService) Check(ctx context.Context, userID uint64, feature string) (*EntitlementDecision, error) {
	if strings.TrimSpace(feature) == "" {
		return nil, invalidf("feature is required")
	}
	sub, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	res := s.resolve(ctx, sub, feature)
	return &EntitlementDecision{
		UserID:             userID,
		Feature:            feature,
		Plan:               sub.planLabel(),
		SubscriptionStatus: sub.status,
		Result:             res,
	}, nil
}

// List decides every catalog feature for a user.
func (s *EntitlementService) List(ctx context.Context, userID uint64) (*EntitlementSummary, error) {
	sub, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := &EntitlementSummary{
		UserID:             userID,
		Plan:               sub.planLabel(),
		SubscriptionStatus: sub.status,
		Features:           make([]FeatureAccess, 0, len(entitlement.Catalog)),
	}
	for i, f := range entitlement.Catalog {
		res := s.resolve(ctx, sub, f.Key)
		if i == 0 {
			out.Tier = res.Tier
		}
		out.Features = append(out.Features, FeatureAccess{Feature: f, Allowed: res.Allowed, Source: res.Source})
	}
	return out, nil
}

func (s *EntitlementService) resolve(ctx context.Context, sub *subject, feature string) entitlement.Result {
	in := sub.input
	in.Feature = feature
	res := s.resolver.Resolve(in)
	if res.TierFallback {
		logger.FromContext(ctx).WithFields(logrus.Fields{
			"user_id": sub.userID, "plan_ref": in.Ref.String(), "tier": res.Tier.String(),
		}).Warn("unrecognised plan reference, applying fallback tier")
	}
	return res
}

// load reconciles the user's denormalized subscription fields with the
// subscriptions table and resolves the plan reference to a plan record.
func (s *EntitlementService) load(ctx context.Context, userID uint64) (*subject, error) {
	st, err := s.users.GetSubscriptionState(ctx, userID)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).WithField("user_id", userID)
	rawRef, status, periodEnd := reconcile(log, st)

	sub := &subject{userID: userID, status: status}
	if status != model.SubscriptionActive {
		// only an active subscription grants the paid plan
		sub.input = entitlement.Input{Ref: entitlement.ByAlias("free")}
		return sub, nil
	}
	if periodEnd != nil && periodEnd.Before(s.now()) {
		log.WithField("period_end", periodEnd.UTC().Format(time.RFC3339)).
			Warn("active subscription past its period end; not enforced")
	}

	ref := entitlement.ParsePlanRef(rawRef)
	sub.input = entitlement.Input{Ref: ref}
	plan, err := s.lookupPlan(ctx, ref)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		if !ref.IsUnknown() {
			log.WithField("plan_ref", rawRef).Info("plan reference matches no plan record")
		}
		return sub, nil
	}
	features, err := s.plans.FeatureKeys(ctx, plan.ID)
	if err != nil {
		return nil, fmt.Errorf("load plan features: %w", err)
	}
	if len(features) == 0 {
		features = entitlement.IDs(rawFeatures(plan))
	}
	sub.input.PlanID = plan.ID
	sub.input.PlanName = plan.Name
	sub.input.PlanFeatures = features
	return sub, nil
}

// reconcile picks the authoritative plan reference and status.  The latest
// subscriptions row wins over the user's copy.
func reconcile(log *logrus.Entry, st *model.SubscriptionState) (string, string, *time.Time) {
	userRef, userStatus := deref(st.User.PlanRef), deref(st.User.SubscriptionStatus)
	if st.Subscription == nil {
		return userRef, strings.ToLower(userStatus), st.User.SubscriptionEnd
	}
	subRef, subStatus := st.Subscription.PlanRef, st.Subscription.Status
	if !strings.EqualFold(strings.TrimSpace(userRef), strings.TrimSpace(subRef)) || !strings.EqualFold(userStatus, subStatus) {
		log.WithFields(logrus.Fields{
			"user_plan": userRef, "user_status": userStatus,
			"subscription_plan": subRef, "subscription_status": subStatus,
		}).Warn("user subscription fields out of sync, using subscriptions table")
	}
	return subRef, strings.ToLower(subStatus), st.Subscription.CurrentPeriodEnd
}

// lookupPlan finds the plan record a reference points at.  Aliases are
// looked up by the name of the tier they stand for.  It returns nil, nil
// when no plan matches.
func (s *EntitlementService) lookupPlan(ctx context.Context, ref entitlement.PlanRef) (*model.Plan, error) {
	var (
		plan *model.Plan
		err  error
	)
	switch ref.Kind {
	case entitlement.RefByID:
		plan, err = s.plans.GetByID(ctx, uint64(ref.ID))
	case entitlement.RefByName:
		plan, err = s.plans.GetByName(ctx, ref.Name)
	case entitlement.RefByAlias:
		plan, err = s.plans.GetByName(ctx, ref.Name)
		if errors.Is(err, repository.ErrPlanNotFound) {
			if tier := entitlement.NormalizeTier(ref, ""); tier != entitlement.TierUnknown {
				plan, err = s.plans.GetByName(ctx, tier.String())
			}
		}
	default:
		return nil, nil
	}
	if errors.Is(err, repository.ErrPlanNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load plan: %w", err)
	}
	return plan, nil
}

func rawFeatures(p *model.Plan) any {
	if p.Features == nil {
		return nil
	}
	return *p.Features
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
