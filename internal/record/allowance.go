package record

import (
	"regexp"
)

var (
	allowancePrefixRe   = regexp.MustCompile(`(?i)^(allowance|بدل)`)
	allowanceContainsRe = regexp.MustCompile(`(?i)allowance`)
)

// KnownAllowances lists Arabic allowance headers that do not follow the
// prefix convention (or do, but are worth pinning explicitly).
var KnownAllowances = []string{
	"بدل سكن",
	"بدل مواصلات",
	"بدل إعاشة",
	"بدل اضافي ثابت",
	"بدل طبيعة عمل",
	"بدل ادارة",
	"بدل محروقات",
	"بدل اتصال",
	"أخرى",
}

// IsAllowanceName reports whether a header looks like an allowance by name
// alone.
func IsAllowanceName(col string) bool {
	return allowancePrefixRe.MatchString(col) || allowanceContainsRe.MatchString(col)
}

// DiscoverAllowanceColumns picks the allowance columns of a dataset. Pattern
// matches come first in column order, then KnownAllowances entries that are
// present. Duplicates and the names in exclude (the resolved base salary
// and total columns) are dropped.
func DiscoverAllowanceColumns(columns []string, exclude ...string) []string {
	present := make(map[string]struct{}, len(columns))
	for _, c := range columns {
		present[c] = struct{}{}
	}
	skip := make(map[string]struct{}, len(exclude))
	for _, e := range exclude {
		if e != "" {
			skip[e] = struct{}{}
		}
	}
	seen := map[string]struct{}{}
	var out []string
	add := func(c string) {
		if _, ok := seen[c]; ok {
			return
		}
		seen[c] = struct{}{}
		if _, ok := skip[c]; ok {
			return
		}
		out = append(out, c)
	}
	for _, c := range columns {
		if IsAllowanceName(c) {
			add(c)
		}
	}
	for _, c := range KnownAllowances {
		if _, ok := present[c]; ok {
			add(c)
		}
	}
	return out
}
