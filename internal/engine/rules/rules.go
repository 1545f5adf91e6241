// Package rules decides whether a library applies to a platform.
package rules

import "go.trai.ch/quarry/internal/core/domain"

// Applies evaluates the rules of lib against p.
//
// A library without rules applies. Otherwise the result starts as false and
// every rule is scanned in order: a rule without an OS constraint sets the
// result to its action, a rule with one sets it only when the OS name matches.
// An OS constraint with an empty name matches every platform, so such a rule
// is unconditional; its other fields such as arch are ignored.
// The last matching rule wins.
func Applies(lib *domain.Library, p domain.Platform) bool {
	if len(lib.Rules) == 0 {
		return true
	}

	allow := false
	for _, rule := range lib.Rules {
		if rule.OS != nil && rule.OS.Name != "" && rule.OS.Name != p.OS {
			continue
		}
		allow = rule.Action == domain.RuleAllow
	}
	return allow
}

// Filter returns the libraries of libs that apply to p, in order.
func Filter(libs []domain.Library, p domain.Platform) []domain.Library {
	out := make([]domain.Library, 0, len(libs))
	for i := range libs {
		if Applies(&libs[i], p) {
			out = append(out, libs[i])
		}
	}
	return out
}
