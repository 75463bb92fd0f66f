package entitlement

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolve_Sources(t *testing.T) {
	r := DefaultResolver(TierUnknown)
	cases := []struct {
		name    string
		in      Input
		allowed bool
		source  string
		tier    Tier
	}{
		{
			name:    "exact plan feature",
			in:      Input{Ref: ByName("Chef Special"), PlanID: 12, PlanName: "Chef Special", PlanFeatures: []string{"api_access"}, Feature: "api_access"},
			allowed: true, source: SourcePlanFeatures, tier: TierUnknown,
		},
		{
			name:    "loose plan feature",
			in:      Input{Ref: ByName("Chef Special"), PlanFeatures: []string{"inventory"}, Feature: "inventory_management"},
			allowed: true, source: SourcePlanFeatures, tier: TierUnknown,
		},
		{
			name:    "plan feature given as display name",
			in:      Input{Ref: ByID(12), PlanFeatures: []string{"Advanced Analytics"}, Feature: "advanced_analytics"},
			allowed: true, source: SourcePlanFeatures, tier: TierUnknown,
		},
		{
			name:    "tier list by key",
			in:      Input{Ref: ByAlias("free"), Feature: "reservations"},
			allowed: true, source: SourceTier, tier: TierFree,
		},
		{
			name:    "tier list by display name",
			in:      Input{Ref: ByID(8), Feature: "Advanced Analytics"},
			allowed: true, source: SourceTier, tier: TierPremium,
		},
		{
			name:    "legacy map",
			in:      Input{Ref: ByAlias("standard"), Feature: "staff_scheduling"},
			allowed: true, source: SourceLegacyMap, tier: TierStandard,
		},
		{
			name:    "legacy map denies lower tier",
			in:      Input{Ref: ByAlias("basic"), Feature: "staff_scheduling"},
			allowed: false, source: SourceDefault, tier: TierBasic,
		},
		{
			name:    "free tier has no analytics",
			in:      Input{Ref: ByAlias("free"), Feature: "advanced_analytics"},
			allowed: false, source: SourceDefault, tier: TierFree,
		},
		{
			name:    "empty feature",
			in:      Input{Ref: ByID(5), Feature: "  "},
			allowed: false, source: SourceDefault, tier: TierEnterprise,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := r.Resolve(tc.in)
			assert.Equal(t, tc.allowed, res.Allowed)
			assert.Equal(t, tc.source, res.Source)
			assert.Equal(t, tc.tier, res.Tier)
		})
	}
}

func TestResolve_Deterministic(t *testing.T) {
	r := DefaultResolver(TierUnknown)
	in := Input{Ref: ByName("Growth Plus"), PlanFeatures: []string{"waitlist", "Online Ordering"}, Feature: "inventory"}
	first := r.Resolve(in)
	for i := 0; i < 50; i++ {
		assert.Equal(t, first, r.Resolve(in))
	}
}

func TestResolve_UnknownPlanPolicy(t *testing.T) {
	in := Input{Ref: ParsePlanRef("mystery-plan"), Feature: "waitlist"}

	strict := DefaultResolver(TierUnknown).Resolve(in)
	assert.False(t, strict.Allowed)
	assert.Equal(t, SourceDefault, strict.Source)
	assert.Equal(t, TierUnknown, strict.Tier)
	assert.False(t, strict.TierFallback)

	lenient := DefaultResolver(TierBasic).Resolve(in)
	assert.True(t, lenient.Allowed)
	assert.Equal(t, SourceTier, lenient.Source)
	assert.Equal(t, TierBasic, lenient.Tier)
	assert.True(t, lenient.TierFallback)
}

func TestResolve_GarbageNeverPanics(t *testing.T) {
	garbage := []string{"", "\x00", "🍕", "[]", "{}", "null", "-1", "0", "999999999999999999999999",
		"  pro  ", "%%%", "DROP TABLE plans;", "Ünïcødé Plan"}
	features := []string{"", "reservations", "\xff\xfe", "a", "API Access", "__"}
	for _, policy := range []Tier{TierUnknown, TierBasic} {
		r := DefaultResolver(policy)
		for _, g := range garbage {
			for _, f := range features {
				require.NotPanics(t, func() {
					_ = r.Resolve(Input{Ref: ParsePlanRef(g), PlanName: g, PlanFeatures: []string{g, ""}, Feature: f})
				})
			}
		}
	}
}

type denyAll struct{}

func (denyAll) Name() string           { return "deny_all" }
func (denyAll) Decide(Query) Decision { return Deny }

func TestResolve_FirstDefiniteAnswerWins(t *testing.T) {
	r := NewResolver(TierUnknown, denyAll{}, TierFeatures{})
	res := r.Resolve(Input{Ref: ByID(5), Feature: "reservations"})
	assert.False(t, res.Allowed)
	assert.Equal(t, Deny, res.Decision)
	assert.Equal(t, "deny_all", res.Source)

	empty := NewResolver(TierUnknown)
	assert.Equal(t, SourceDefault, empty.Resolve(Input{Ref: ByID(5), Feature: "reservations"}).Source)
}
