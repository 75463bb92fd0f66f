package entitlement

import "strings"

// Tier is a rung of the fixed subscription ladder.  TierUnknown sits below
// Free and grants nothing on its own.
type Tier int

const (
	TierUnknown Tier = iota
	TierFree
	TierBasic
	TierStandard
	TierPremium
	TierEnterprise
)

var tierNames = map[Tier]string{
	TierUnknown:    "Unknown",
	TierFree:       "Free",
	TierBasic:      "Basic",
	TierStandard:   "Standard",
	TierPremium:    "Premium",
	TierEnterprise: "Enterprise",
}

func (t Tier) String() string {
	if n, ok := tierNames[t]; ok {
		return n
	}
	return "Unknown"
}

// MarshalText encodes the tier by name.
func (t Tier) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// numericTiers maps historical plan IDs.  1-5 are the ladder itself and
// 6-9 were bundled offers priced against a ladder rung.
var numericTiers = map[int]Tier{
	1: TierFree,
	2: TierBasic,
	3: TierStandard,
	4: TierPremium,
	5: TierEnterprise,
	6: TierBasic,
	7: TierStandard,
	8: TierPremium,
	9: TierEnterprise,
}

// nameTiers covers exact tier names and legacy aliases, lower case.
var nameTiers = map[string]Tier{
	"free":         TierFree,
	"basic":        TierBasic,
	"trial":        TierBasic,
	"starter":      TierBasic,
	"standard":     TierStandard,
	"growth":       TierStandard,
	"premium":      TierPremium,
	"pro":          TierPremium,
	"professional": TierPremium,
	"enterprise":   TierEnterprise,
	"business":     TierEnterprise,
}

// containsOrder is checked highest first so "Premium Plus Basic Support"
// lands on Premium.
var containsOrder = []Tier{TierEnterprise, TierPremium, TierStandard, TierBasic, TierFree}

// NormalizeTier maps a plan reference, and the canonical plan name when a
// plan record was found, onto the ladder.  It returns TierUnknown when
// nothing matches; applying a fallback is the caller's policy.
func NormalizeTier(ref PlanRef, planName string) Tier {
	if t := tierFromName(planName); t != TierUnknown {
		return t
	}
	switch ref.Kind {
	case RefByID:
		if t, ok := numericTiers[ref.ID]; ok {
			return t
		}
	case RefByAlias, RefByName:
		return tierFromName(ref.Name)
	}
	return TierUnknown
}

func tierFromName(name string) Tier {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return TierUnknown
	}
	if t, ok := nameTiers[n]; ok {
		return t
	}
	for _, t := range containsOrder {
		if strings.Contains(n, strings.ToLower(t.String())) {
			return t
		}
	}
	return TierUnknown
}
