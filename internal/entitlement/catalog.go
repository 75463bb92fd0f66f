package entitlement

import "strings"

// Feature is an entry of the static feature catalog.
type Feature struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

// Catalog lists every feature the product sells, in display order.
var Catalog = []Feature{
	{Key: "table_management", Name: "Table Management", Category: "operations"},
	{Key: "reservations", Name: "Reservations", Category: "operations"},
	{Key: "waitlist", Name: "Waitlist", Category: "operations"},
	{Key: "menu_management", Name: "Menu Management", Category: "ordering"},
	{Key: "online_ordering", Name: "Online Ordering", Category: "ordering"},
	{Key: "qr_ordering", Name: "QR Code Ordering", Category: "ordering"},
	{Key: "inventory_management", Name: "Inventory Management", Category: "operations"},
	{Key: "staff_management", Name: "Staff Management", Category: "team"},
	{Key: "basic_reports", Name: "Basic Reports", Category: "insights"},
	{Key: "advanced_analytics", Name: "Advanced Analytics", Category: "insights"},
	{Key: "email_marketing", Name: "Email Marketing", Category: "marketing"},
	{Key: "loyalty_program", Name: "Loyalty Program", Category: "marketing"},
	{Key: "custom_branding", Name: "Custom Branding", Category: "platform"},
	{Key: "api_access", Name: "API Access", Category: "platform"},
	{Key: "multi_location", Name: "Multi-Location Support", Category: "platform"},
	{Key: "priority_support", Name: "Priority Support", Category: "support"},
	{Key: "dedicated_account_manager", Name: "Dedicated Account Manager", Category: "support"},
}

var (
	featureByKey  = make(map[string]Feature, len(Catalog))
	featureByName = make(map[string]Feature, len(Catalog))
)

func init() {
	for _, f := range Catalog {
		featureByKey[f.Key] = f
		featureByName[strings.ToLower(f.Name)] = f
	}
}

// LookupFeature finds a catalog feature by key or by display name,
// ignoring case and surrounding space.
func LookupFeature(s string) (Feature, bool) {
	n := strings.ToLower(strings.TrimSpace(s))
	if f, ok := featureByKey[n]; ok {
		return f, true
	}
	f, ok := featureByName[n]
	return f, ok
}

// featureKey turns a requested feature into its canonical key.  Unknown
// display names are folded to snake_case so substring rules still apply.
func featureKey(s string) string {
	if f, ok := LookupFeature(s); ok {
		return f.Key
	}
	n := strings.ToLower(strings.TrimSpace(s))
	n = strings.NewReplacer(" ", "_", "-", "_").Replace(n)
	return n
}

// tierFeatures holds the display names each tier sells.  Every tier
// includes everything below it.
var tierFeatures = buildTierFeatures(map[Tier][]string{
	TierFree:       {"Table Management", "Reservations", "Menu Management", "Basic Reports"},
	TierBasic:      {"Waitlist", "Online Ordering", "QR Code Ordering"},
	TierStandard:   {"Inventory Management", "Staff Management", "Email Marketing"},
	TierPremium:    {"Advanced Analytics", "Loyalty Program", "Custom Branding", "Priority Support"},
	TierEnterprise: {"API Access", "Multi-Location Support", "Dedicated Account Manager"},
})

func buildTierFeatures(added map[Tier][]string) map[Tier][]string {
	out := make(map[Tier][]string, len(added))
	var acc []string
	for t := TierFree; t <= TierEnterprise; t++ {
		acc = append(acc, added[t]...)
		out[t] = append([]string(nil), acc...)
	}
	return out
}

// TierFeatureNames returns the display names a tier includes.
func TierFeatureNames(t Tier) []string {
	return append([]string(nil), tierFeatures[t]...)
}
