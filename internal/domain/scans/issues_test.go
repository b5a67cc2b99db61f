package scans

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func issues() []*Issue {
	return []*Issue{
		{ID: "a", Type: TypeSEO, Impact: ImpactLow, Status: IssueOpen, Title: "Missing meta description"},
		{ID: "b", Type: TypePerformance, Impact: ImpactCritical, Status: IssueOpen, Title: "Render-blocking script"},
		{ID: "c", Type: TypeAccessibility, Impact: ImpactHigh, Status: IssueFixed, Title: "Low contrast", Description: "Footer META links"},
		{ID: "d", Type: TypeSEO, Impact: ImpactCritical, Status: IssueOpen, Title: "Duplicate title"},
	}
}

func ids(in []*Issue) []string {
	out := make([]string, 0, len(in))
	for _, i := range in {
		out = append(out, i.ID)
	}
	return out
}

func TestFilter(t *testing.T) {
	tests := []struct {
		name string
		f    Filter
		want []string
	}{
		{"empty", Filter{}, []string{"a", "b", "c", "d"}},
		{"all", Filter{Type: "all", Impact: "all", Status: "all"}, []string{"a", "b", "c", "d"}},
		{"type", Filter{Type: "seo"}, []string{"a", "d"}},
		{"impact", Filter{Impact: "CRITICAL"}, []string{"b", "d"}},
		{"status", Filter{Status: "fixed"}, []string{"c"}},
		{"search title and description", Filter{Search: " meta "}, []string{"a", "c"}},
		{"combined", Filter{Type: "seo", Impact: "critical", Search: "title"}, []string{"d"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(tt.f.Apply(issues())))
		})
	}
}

func TestSortByImpact_Stable(t *testing.T) {
	list := issues()
	list = append(list, &Issue{ID: "e", Impact: "unknown"})
	SortByImpact(list)
	assert.Equal(t, []string{"b", "d", "c", "a", "e"}, ids(list))
}

func TestTally(t *testing.T) {
	list := append(issues(), &Issue{Impact: "unknown"})
	assert.Equal(t, Counts{IssuesFound: 5, Critical: 2, High: 1, Medium: 0, Low: 1}, Tally(list))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, ImpactHigh, NormalizeImpact("Major"))
	assert.Equal(t, ImpactMedium, NormalizeImpact("warning"))
	assert.Equal(t, ImpactLow, NormalizeImpact("whatever"))
	assert.Equal(t, TypePerformance, NormalizeType("speed"))
	assert.Equal(t, TypeBloat, NormalizeType(" Bloat "))
	assert.Equal(t, TypeContent, NormalizeType("misc"))
}
