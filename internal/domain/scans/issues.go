package scans

import (
	"sort"
	"strings"
)

// Filter narrows an issue list the way the scanner page does. Empty or "all"
// fields match everything.
type Filter struct {
	Type   string `json:"type"`
	Impact string `json:"impact"`
	Status string `json:"status"`
	Search string `json:"search"`
}

func (f Filter) Match(i *Issue) bool {
	if !matchEnum(f.Type, string(i.Type)) ||
		!matchEnum(f.Impact, string(i.Impact)) ||
		!matchEnum(f.Status, string(i.Status)) {
		return false
	}
	q := strings.ToLower(strings.TrimSpace(f.Search))
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(i.Title), q) ||
		strings.Contains(strings.ToLower(i.Description), q)
}

func matchEnum(want, got string) bool {
	return want == "" || want == "all" || strings.EqualFold(want, got)
}

// Apply returns the issues matching f, preserving order.
func (f Filter) Apply(in []*Issue) []*Issue {
	out := make([]*Issue, 0, len(in))
	for _, i := range in {
		if f.Match(i) {
			out = append(out, i)
		}
	}
	return out
}

// ImpactRank orders impacts critical first; unknown impacts sort last.
func ImpactRank(i Impact) int {
	switch Impact(strings.ToLower(string(i))) {
	case ImpactCritical:
		return 0
	case ImpactHigh:
		return 1
	case ImpactMedium:
		return 2
	case ImpactLow:
		return 3
	}
	return 4
}

// SortByImpact sorts in place, most severe first, keeping input order for ties.
func SortByImpact(issues []*Issue) {
	sort.SliceStable(issues, func(a, b int) bool {
		return ImpactRank(issues[a].Impact) < ImpactRank(issues[b].Impact)
	})
}

// Tally counts issues per impact. Unknown impacts count toward the total only.
func Tally(issues []*Issue) Counts {
	var c Counts
	for _, i := range issues {
		switch ImpactRank(i.Impact) {
		case 0:
			c.Critical++
		case 1:
			c.High++
		case 2:
			c.Medium++
		case 3:
			c.Low++
		}
		c.IssuesFound++
	}
	return c
}

// NormalizeImpact maps provider spellings onto the four known impacts.
func NormalizeImpact(s string) Impact {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "critical", "blocker":
		return ImpactCritical
	case "high", "major", "error":
		return ImpactHigh
	case "medium", "moderate", "warning":
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// NormalizeType maps an issue type string onto a known type, defaulting to content.
func NormalizeType(s string) IssueType {
	switch t := IssueType(strings.ToLower(strings.TrimSpace(s))); t {
	case TypePerformance, TypeSEO, TypeAccessibility, TypeContent, TypeBloat:
		return t
	case "speed":
		return TypePerformance
	}
	return TypeContent
}
