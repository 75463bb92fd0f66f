package service

import (
	"context"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/restaurant-service/internal/entitlement"
	"github.com/iliyamo/restaurant-service/internal/model"
	"github.com/iliyamo/restaurant-service/internal/repository"
)

type fakeUsers struct {
	states map[uint64]*model.SubscriptionState
}

func (f *fakeUsers) GetSubscriptionState(_ context.Context, id uint64) (*model.SubscriptionState, error) {
	st, ok := f.states[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return st, nil
}

type fakePlans struct {
	plans    []model.Plan
	features map[uint64][]string
	lookups  []string
}

func (f *fakePlans) List(_ context.Context, activeOnly bool) ([]model.Plan, error) {
	var out []model.Plan
	for _, p := range f.plans {
		if activeOnly && !p.IsActive {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePlans) GetByID(_ context.Context, id uint64) (*model.Plan, error) {
	f.lookups = append(f.lookups, "id:"+strconv.FormatUint(id, 10))
	for i := range f.plans {
		if f.plans[i].ID == id {
			return &f.plans[i], nil
		}
	}
	return nil, repository.ErrPlanNotFound
}

func (f *fakePlans) GetByName(_ context.Context, name string) (*model.Plan, error) {
	f.lookups = append(f.lookups, "name:"+name)
	for i := range f.plans {
		if strings.EqualFold(f.plans[i].Name, name) {
			return &f.plans[i], nil
		}
	}
	return nil, repository.ErrPlanNotFound
}

func (f *fakePlans) FeatureKeys(_ context.Context, id uint64) ([]string, error) {
	return f.features[id], nil
}

func strp(s string) *string { return &s }

func activeUser(ref string) *model.SubscriptionState {
	return &model.SubscriptionState{User: model.User{ID: 1, PlanRef: strp(ref), SubscriptionStatus: strp(model.SubscriptionActive)}}
}

func seededPlans() *fakePlans {
	return &fakePlans{
		plans: []model.Plan{
			{ID: 1, Name: "Free", IsActive: true},
			{ID: 2, Name: "Basic", IsActive: true, Features: strp(`["waitlist","qr_ordering"]`)},
			{ID: 4, Name: "Premium", IsActive: true},
			{ID: 9, Name: "Legacy Bundle", IsActive: false, Features: strp("Table Management, Reservations")},
		},
		features: map[uint64][]string{4: {"advanced_analytics"}},
	}
}

func newEntitlementService(users map[uint64]*model.SubscriptionState, plans *fakePlans, unknownAs entitlement.Tier) *EntitlementService {
	svc := NewEntitlementService(&fakeUsers{states: users}, plans, entitlement.DefaultResolver(unknownAs))
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestEntitlementCheck_PlanByID(t *testing.T) {
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: activeUser("4")}, seededPlans(), entitlement.TierUnknown)

	got, err := svc.Check(context.Background(), 1, "advanced_analytics")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.Equal(t, entitlement.SourcePlanFeatures, got.Source)
	assert.Equal(t, entitlement.TierPremium, got.Tier)
	assert.Equal(t, "Premium", got.Plan)

	got, err = svc.Check(context.Background(), 1, "api_access")
	require.NoError(t, err)
	assert.False(t, got.Allowed)
	assert.Equal(t, entitlement.SourceDefault, got.Source)
}

func TestEntitlementCheck_SubscriptionRowWins(t *testing.T) {
	st := activeUser("basic")
	st.Subscription = &model.Subscription{ID: 3, UserID: 1, PlanRef: "premium", Status: "ACTIVE"}
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: st}, seededPlans(), entitlement.TierUnknown)

	got, err := svc.Check(context.Background(), 1, "Loyalty Program")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.Equal(t, entitlement.TierPremium, got.Tier)
	assert.Equal(t, model.SubscriptionActive, got.SubscriptionStatus)
}

func TestEntitlementCheck_InactiveResolvesAsFree(t *testing.T) {
	plans := seededPlans()
	st := &model.SubscriptionState{User: model.User{ID: 1, PlanRef: strp("4"), SubscriptionStatus: strp(model.SubscriptionCanceled)}}
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: st}, plans, entitlement.TierUnknown)

	got, err := svc.Check(context.Background(), 1, "waitlist")
	require.NoError(t, err)
	assert.False(t, got.Allowed)
	assert.Equal(t, entitlement.TierFree, got.Tier)

	got, err = svc.Check(context.Background(), 1, "reservations")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.Equal(t, entitlement.SourceTier, got.Source)
	assert.Empty(t, plans.lookups)
}

func TestEntitlementCheck_AliasFallsBackToTierName(t *testing.T) {
	plans := seededPlans()
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: activeUser("pro")}, plans, entitlement.TierUnknown)

	got, err := svc.Check(context.Background(), 1, "advanced_analytics")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.Equal(t, entitlement.SourcePlanFeatures, got.Source)
	assert.Equal(t, []string{"name:pro", "name:Premium"}, plans.lookups)
}

func TestEntitlementCheck_FeaturesColumnFallback(t *testing.T) {
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: activeUser("9")}, seededPlans(), entitlement.TierUnknown)

	got, err := svc.Check(context.Background(), 1, "table_management")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.Equal(t, entitlement.SourcePlanFeatures, got.Source)
}

func TestEntitlementCheck_UnknownPlanPolicy(t *testing.T) {
	users := map[uint64]*model.SubscriptionState{1: activeUser("Gold Plan")}

	deny := newEntitlementService(users, seededPlans(), entitlement.TierUnknown)
	got, err := deny.Check(context.Background(), 1, "reservations")
	require.NoError(t, err)
	assert.False(t, got.Allowed)
	assert.Equal(t, entitlement.TierUnknown, got.Tier)

	basic := newEntitlementService(users, seededPlans(), entitlement.TierBasic)
	got, err = basic.Check(context.Background(), 1, "reservations")
	require.NoError(t, err)
	assert.True(t, got.Allowed)
	assert.True(t, got.TierFallback)
	assert.Equal(t, "Gold Plan", got.Plan)
}

func TestEntitlementCheck_Errors(t *testing.T) {
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{}, seededPlans(), entitlement.TierUnknown)

	_, err := svc.Check(context.Background(), 1, " ")
	assert.True(t, IsValidation(err))

	_, err = svc.Check(context.Background(), 42, "waitlist")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)
}

func TestEntitlementList_EnterpriseGetsEverything(t *testing.T) {
	svc := newEntitlementService(map[uint64]*model.SubscriptionState{1: activeUser("business")}, seededPlans(), entitlement.TierUnknown)

	sum, err := svc.List(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, entitlement.TierEnterprise, sum.Tier)
	require.Len(t, sum.Features, len(entitlement.Catalog))
	for _, f := range sum.Features {
		assert.True(t, f.Allowed, f.Key)
	}
}

func TestPlanServiceList(t *testing.T) {
	svc := NewPlanService(seededPlans())

	plans, err := svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.Empty(t, plans[0].Features)
	assert.Equal(t, []string{"Waitlist", "QR Code Ordering"}, plans[1].Features)
	assert.Equal(t, []string{"Advanced Analytics"}, plans[2].Features)
}
