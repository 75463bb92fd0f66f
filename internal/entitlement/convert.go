package entitlement

import (
	"regexp"
	"sort"
	"strings"

	"github.com/goccy/go-json"
)

var idPattern = regexp.MustCompile(`^[a-z_]+$`)

// looksLikeID reports whether s has the shape of a canonical feature key.
func looksLikeID(s string) bool { return idPattern.MatchString(s) }

func nameFor(s string) string {
	if looksLikeID(s) {
		if f, ok := featureByKey[s]; ok {
			return f.Name
		}
	}
	return s
}

func idFor(s string) string {
	if looksLikeID(s) {
		return s
	}
	if f, ok := featureByName[strings.ToLower(strings.TrimSpace(s))]; ok {
		return f.Key
	}
	return s
}

// ToNames converts feature keys to display names.  It accepts nil, a
// []string, a []any, a map[string]any (keys are converted, values kept
// and colliding keys merged deterministically)
// or a string holding JSON or a comma separated list.  Strings that are
// not catalog keys pass through unchanged.  Other values are returned as
// they are.
func ToNames(v any) any { return convert(v, nameFor) }

// ToIDs converts display names to feature keys; it is the inverse of
// ToNames for catalog features and accepts the same shapes.
func ToIDs(v any) any { return convert(v, idFor) }

func convert(v any, fn func(string) string) any {
	switch t := v.(type) {
	case nil:
		return []string{}
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = fn(s)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			if s, ok := e.(string); ok {
				out[i] = fn(s)
			} else {
				out[i] = e
			}
		}
		return out
	case map[string]any:
		return convertKeys(t, fn)
	case string:
		return convert(parseList(t), fn)
	default:
		return v
	}
}

// convertKeys converts the keys of m.  When several keys convert to the
// same one, a key that is already in converted form wins, then the first
// key in sorted order.
func convertKeys(m map[string]any, fn func(string) string) map[string]any {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(m))
	for _, k := range keys {
		if fn(k) == k {
			out[k] = m[k]
		}
	}
	for _, k := range keys {
		ck := fn(k)
		if _, ok := out[ck]; !ok {
			out[ck] = m[k]
		}
	}
	return out
}

// parseList decodes a stored feature value.  JSON arrays and objects are
// decoded as such; anything else is split on commas.
func parseList(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return []string{}
	}
	if strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{") || strings.HasPrefix(s, `"`) {
		var decoded any
		if err := json.Unmarshal([]byte(s), &decoded); err == nil {
			switch d := decoded.(type) {
			case []any, map[string]any:
				return d
			case string:
				return splitList(d)
			}
		}
	}
	return splitList(s)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.Trim(strings.TrimSpace(p), `[]{}"'`)
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Names flattens any supported feature value into a de-duplicated list of
// display names, keeping first-seen order.  Map values are dropped and
// non-string entries ignored.
func Names(v any) []string { return flatten(ToNames(v)) }

// IDs is Names for feature keys.
func IDs(v any) []string { return flatten(ToIDs(v)) }

func flatten(v any) []string {
	var raw []string
	switch t := v.(type) {
	case []string:
		raw = t
	case []any:
		for _, e := range t {
			if s, ok := e.(string); ok {
				raw = append(raw, s)
			}
		}
	case map[string]any:
		for k := range t {
			raw = append(raw, k)
		}
		sort.Strings(raw)
	}
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, s := range raw {
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
