package common

import (
	"strings"

	"golang.org/x/text/cases"
)

// JoinNonEmpty joins the parts that are not blank, trimming each one.
func JoinNonEmpty(sep string, parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}

// FoldKey returns the case-folded form of s for case-insensitive comparison.
func FoldKey(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

// FoldEqual reports whether a and b are equal under Unicode case folding.
func FoldEqual(a, b string) bool {
	return FoldKey(a) == FoldKey(b)
}
