package entitlement

// legacyRule grants features whose key contains Substring to plans
// identified by one of Allowed: a tier or plan name (any case) or a
// numeric plan ID.
type legacyRule struct {
	Substring string
	Allowed   []string
}

// legacyRules is the feature map used before per-plan features existed.
// It is deliberately kept as it was; it can disagree with the tier lists.
var legacyRules = []legacyRule{
	{Substring: "api_access", Allowed: []string{"enterprise", "5", "9"}},
	{Substring: "multi_location", Allowed: []string{"enterprise", "5", "9"}},
	{Substring: "analytics", Allowed: []string{"premium", "enterprise", "4", "5", "8", "9"}},
	{Substring: "loyalty", Allowed: []string{"premium", "enterprise", "4", "5", "8", "9"}},
	{Substring: "inventory", Allowed: []string{"standard", "premium", "enterprise", "3", "4", "5", "7", "8", "9"}},
	{Substring: "staff", Allowed: []string{"standard", "premium", "enterprise", "3", "4", "5", "7", "8", "9"}},
	{Substring: "waitlist", Allowed: []string{"basic", "standard", "premium", "enterprise", "2", "3", "4", "5", "6", "7", "8", "9"}},
	{Substring: "reservation", Allowed: []string{"free", "basic", "standard", "premium", "enterprise", "1", "2", "3", "4", "5", "6", "7", "8", "9"}},
}
