package entitlement

import (
	"strconv"
	"strings"
)

// Decision is the answer of a single strategy.
type Decision int

const (
	NoOpinion Decision = iota
	Grant
	Deny
)

func (d Decision) String() string {
	switch d {
	case Grant:
		return "grant"
	case Deny:
		return "deny"
	default:
		return "no_opinion"
	}
}

// Sources reported in Result.Source.
const (
	SourcePlanFeatures = "plan_features"
	SourceTier         = "tier"
	SourceLegacyMap    = "legacy_map"
	SourceDefault      = "default"
)

// Input is everything resolution may look at.  PlanID, PlanName and
// PlanFeatures describe the canonical plan record and are zero when the
// reference matched no row.
type Input struct {
	Ref          PlanRef
	PlanID       uint64
	PlanName     string
	PlanFeatures []string
	Feature      string
}

// Query is the input after normalization, as seen by strategies.
type Query struct {
	Input
	Tier       Tier
	FeatureKey string
}

// Strategy is one rule of the resolution chain.
type Strategy interface {
	Name() string
	Decide(q Query) Decision
}

// Result describes a resolution.
type Result struct {
	Allowed  bool     `json:"allowed"`
	Decision Decision `json:"-"`
	Source   string   `json:"source"`
	Tier     Tier     `json:"tier"`
	// TierFallback is set when the plan matched no tier and the unknown
	// plan policy substituted one.
	TierFallback bool `json:"tier_fallback,omitempty"`
}

// Resolver runs strategies in order; the first Grant or Deny wins and
// Deny is the answer when every strategy abstains.
type Resolver struct {
	strategies []Strategy
	unknownAs  Tier
}

// NewResolver builds a resolver.  unknownAs is the tier used for plans
// that match no ladder rung; TierUnknown keeps them unknown.
func NewResolver(unknownAs Tier, strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies, unknownAs: unknownAs}
}

// DefaultResolver returns the standard chain: plan features, tier lists,
// legacy feature map.
func DefaultResolver(unknownAs Tier) *Resolver {
	return NewResolver(unknownAs, PlanFeatures{}, TierFeatures{}, LegacyFeatureMap{})
}

// Resolve decides one feature.  It has no side effects and the same input
// always yields the same result.
func (r *Resolver) Resolve(in Input) Result {
	q := Query{Input: in, FeatureKey: featureKey(in.Feature)}
	q.Tier = NormalizeTier(in.Ref, in.PlanName)
	fallback := false
	if q.Tier == TierUnknown && r.unknownAs != TierUnknown {
		q.Tier = r.unknownAs
		fallback = true
	}
	if q.FeatureKey != "" {
		for _, s := range r.strategies {
			switch d := s.Decide(q); d {
			case Grant, Deny:
				return Result{Allowed: d == Grant, Decision: d, Source: s.Name(), Tier: q.Tier, TierFallback: fallback}
			}
		}
	}
	return Result{Allowed: false, Decision: Deny, Source: SourceDefault, Tier: q.Tier, TierFallback: fallback}
}

// PlanFeatures grants features stored for the plan: an exact key first,
// then a loose match where either key contains the other.
type PlanFeatures struct{}

func (PlanFeatures) Name() string { return SourcePlanFeatures }

func (PlanFeatures) Decide(q Query) Decision {
	keys := make([]string, 0, len(q.PlanFeatures))
	for _, f := range q.PlanFeatures {
		if k := featureKey(f); k != "" {
			keys = append(keys, k)
		}
	}
	for _, k := range keys {
		if k == q.FeatureKey {
			return Grant
		}
	}
	for _, k := range keys {
		if strings.Contains(q.FeatureKey, k) || strings.Contains(k, q.FeatureKey) {
			return Grant
		}
	}
	return NoOpinion
}

// TierFeatures grants features listed for the plan's tier, matching the
// display names exactly or by substring, ignoring case.
type TierFeatures struct{}

func (TierFeatures) Name() string { return SourceTier }

func (TierFeatures) Decide(q Query) Decision {
	if q.Tier == TierUnknown {
		return NoOpinion
	}
	want := foldName(q.Feature)
	if f, ok := LookupFeature(q.Feature); ok {
		want = foldName(f.Name)
	}
	if want == "" {
		return NoOpinion
	}
	for _, name := range tierFeatures[q.Tier] {
		have := foldName(name)
		if have == want || strings.Contains(have, want) || strings.Contains(want, have) {
			return Grant
		}
	}
	return NoOpinion
}

// foldName folds a key or display name to lower case words.
func foldName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", " ", "-", " ").Replace(s)
}

// LegacyFeatureMap grants features through the coarse substring table
// when the plan is one of the allowed identifiers.
type LegacyFeatureMap struct{}

func (LegacyFeatureMap) Name() string { return SourceLegacyMap }

func (LegacyFeatureMap) Decide(q Query) Decision {
	ids := planIdentifiers(q)
	for _, rule := range legacyRules {
		if !strings.Contains(q.FeatureKey, rule.Substring) {
			continue
		}
		for _, allowed := range rule.Allowed {
			if _, ok := ids[allowed]; ok {
				return Grant
			}
		}
	}
	return NoOpinion
}

// planIdentifiers collects the lower case names and numeric strings the
// plan is known by.
func planIdentifiers(q Query) map[string]struct{} {
	ids := make(map[string]struct{}, 4)
	add := func(s string) {
		if s = strings.ToLower(strings.TrimSpace(s)); s != "" {
			ids[s] = struct{}{}
		}
	}
	if q.Tier != TierUnknown {
		add(q.Tier.String())
	}
	add(q.PlanName)
	if q.PlanID != 0 {
		add(strconv.FormatUint(q.PlanID, 10))
	}
	add(q.Ref.String())
	return ids
}
