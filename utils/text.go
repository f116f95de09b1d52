package utils

import "strings"

// Norm collapses all whitespace runs to single spaces, trims, and
// lowercases. It is the sole key used to match species names across the
// ratings table, the noxious list, and scan targets, so it must stay
// idempotent: Norm(Norm(s)) == Norm(s).
func Norm(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// CollapseSpace trims and collapses internal whitespace without
// changing case. Used for display fields and query composition.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// YesNo parses the small fixed vocabulary the regulatory lists use for
// boolean columns. Anything outside it is false.
func YesNo(s string) bool {
	switch Norm(s) {
	case "yes", "y", "true", "1":
		return true
	}
	return false
}
