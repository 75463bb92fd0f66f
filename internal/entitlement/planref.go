// Package entitlement decides whether a subscription plan grants a
// feature.  Plan references arrive in several legacy shapes and are parsed
// once into a PlanRef; resolution then runs an ordered chain of strategies
// that each grant, deny or abstain.
package entitlement

import (
	"strconv"
	"strings"
)

// RefKind tells which representation a plan reference used.
type RefKind int

const (
	RefUnknown RefKind = iota
	RefByID
	RefByName
	RefByAlias
)

// PlanRef is a parsed plan reference.  Only the field matching Kind is
// meaningful: ID for RefByID, Name for RefByName and RefByAlias.
type PlanRef struct {
	Kind RefKind
	ID   int
	Name string
}

// ByID references a plan by numeric identifier.
func ByID(id int) PlanRef { return PlanRef{Kind: RefByID, ID: id} }

// ByName references a plan by its display name.
func ByName(name string) PlanRef { return PlanRef{Kind: RefByName, Name: name} }

// ByAlias references a plan through a legacy alias such as "pro".
func ByAlias(alias string) PlanRef { return PlanRef{Kind: RefByAlias, Name: strings.ToLower(alias)} }

// Unknown is the reference of a user without a usable plan value.
func Unknown() PlanRef { return PlanRef{Kind: RefUnknown} }

// legacyAliases are the short plan values written by older billing code.
var legacyAliases = map[string]struct{}{
	"free": {}, "trial": {}, "starter": {}, "basic": {}, "standard": {}, "growth": {},
	"pro": {}, "professional": {}, "premium": {}, "business": {}, "enterprise": {},
}

// ParsePlanRef classifies a raw stored plan value.  All-digit strings are
// IDs, known aliases are matched case-insensitively and anything else is
// treated as a plan name.  It never fails.
func ParsePlanRef(raw string) PlanRef {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Unknown()
	}
	if isDigits(s) {
		id, err := strconv.Atoi(s)
		if err != nil {
			return Unknown()
		}
		return ByID(id)
	}
	if _, ok := legacyAliases[strings.ToLower(s)]; ok {
		return ByAlias(s)
	}
	return ByName(s)
}

// String renders the reference the way it would be stored.
func (r PlanRef) String() string {
	switch r.Kind {
	case RefByID:
		return strconv.Itoa(r.ID)
	case RefByName, RefByAlias:
		return r.Name
	default:
		return ""
	}
}

// IsUnknown reports whether the reference carries no plan value.
func (r PlanRef) IsUnknown() bool { return r.Kind == RefUnknown }

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}
