package plans

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
)

func TestAllows(t *testing.T) {
	tests := []struct {
		plan    stores.Plan
		feature Feature
		want    bool
	}{
		{stores.PlanBasic, FeatureGeoBanner, false},
		{stores.PlanGrowth, FeatureGeoBanner, true},
		{stores.PlanGrowth, FeatureLayoutGenerator, true},
		{stores.PlanGrowth, FeatureCompetitorSpy, false},
		{stores.PlanPro, FeatureStorefrontBuilder, true},
		{stores.PlanPro, FeaturePremiumTemplates, true},
		{"", FeatureReviewImporter, false},
		{stores.PlanBasic, Feature("seo_audit"), true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Allows(tt.plan, tt.feature), "%s/%s", tt.plan, tt.feature)
	}
}

func TestRequire(t *testing.T) {
	err := Require(stores.PlanBasic, FeatureCompetitorSpy)
	assert.ErrorIs(t, err, ErrFeatureLocked)
	assert.Contains(t, err.Error(), "pro")
	assert.NoError(t, Require(stores.PlanPro, FeatureCompetitorSpy))
}

func TestCatalog(t *testing.T) {
	list := Catalog()
	keys := make([]stores.Plan, 0, len(list))
	for _, p := range list {
		keys = append(keys, p.Key)
		assert.NotEmpty(t, p.Features, p.Key)
	}
	assert.Equal(t, []stores.Plan{stores.PlanBasic, stores.PlanGrowth, stores.PlanPro}, keys)
}
