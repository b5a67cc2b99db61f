package plans

import (
	"errors"
	"fmt"

	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
)

// ErrFeatureLocked is returned when the merchant's plan does not include a feature.
var ErrFeatureLocked = errors.New("feature not included in plan")

// Feature identifies a gated capability.
type Feature string

const (
	FeatureCompetitorSpy     Feature = "competitor_spy"
	FeatureReviewImporter    Feature = "review_importer"
	FeatureStorefrontBuilder Feature = "storefront_builder"
	FeaturePremiumTemplates  Feature = "premium_templates"
	FeatureLayoutGenerator   Feature = "layout_generator"
	FeatureGeoBanner         Feature = "geo_banner"
)

var rank = map[stores.Plan]int{
	stores.PlanBasic:  0,
	stores.PlanGrowth: 1,
	stores.PlanPro:    2,
}

var requires = map[Feature]stores.Plan{
	FeatureCompetitorSpy:     stores.PlanPro,
	FeatureReviewImporter:    stores.PlanPro,
	FeatureStorefrontBuilder: stores.PlanPro,
	FeaturePremiumTemplates:  stores.PlanPro,
	FeatureLayoutGenerator:   stores.PlanGrowth,
	FeatureGeoBanner:         stores.PlanGrowth,
}

// Allows reports whether plan includes feature. Ungated features are always allowed.
func Allows(plan stores.Plan, f Feature) bool {
	need, gated := requires[f]
	if !gated {
		return true
	}
	have, ok := rank[plan]
	if !ok {
		have = rank[stores.PlanBasic]
	}
	return have >= rank[need]
}

// Require returns ErrFeatureLocked (wrapped with the needed plan) when not allowed.
func Require(plan stores.Plan, f Feature) error {
	if Allows(plan, f) {
		return nil
	}
	return fmt.Errorf("%w: %s requires the %s plan", ErrFeatureLocked, f, requires[f])
}

type Price struct {
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

type Item struct {
	Name         string      `json:"name"`
	Included     bool        `json:"included"`
	RequiresPlan stores.Plan `json:"requires_plan,omitempty"`
}

type Plan struct {
	Key      stores.Plan `json:"key"`
	Name     string      `json:"name"`
	Price    Price       `json:"price"`
	Popular  bool        `json:"popular,omitempty"`
	Features []Item      `json:"features"`
}

// Catalog returns the published plans, cheapest first.
func Catalog() []Plan {
	return []Plan{
		{
			Key: stores.PlanBasic, Name: "Basic", Price: Price{0, 0},
			Features: []Item{
				{Name: "SEO Scanner (basic audit)", Included: true},
				{Name: "Image Optimizer (10/day limit)", Included: true},
				{Name: "AI Audit Summary", Included: true},
				{Name: "Basic Theme Speed Fixes", Included: true},
				{Name: "AI Layout Generator", RequiresPlan: stores.PlanGrowth},
				{Name: "Geo Banner Swap", RequiresPlan: stores.PlanGrowth},
				{Name: "AI Store Builder", RequiresPlan: stores.PlanPro},
				{Name: "Product Review Importer", RequiresPlan: stores.PlanPro},
				{Name: "Competitor Spy Tools", RequiresPlan: stores.PlanPro},
				{Name: "Theme Auto Fixer Panel", RequiresPlan: stores.PlanPro},
			},
		},
		{
			Key: stores.PlanGrowth, Name: "Growth", Price: Price{14.99, 149.99}, Popular: true,
			Features: []Item{
				{Name: "Everything in Basic", Included: true},
				{Name: "AI Layout Generator", Included: true},
				{Name: "Auto Blog Generator (5/mo)", Included: true},
				{Name: "Geo Banner Swap (UK vs US)", Included: true},
				{Name: "AI Store Builder", RequiresPlan: stores.PlanPro},
				{Name: "Product Review Importer", RequiresPlan: stores.PlanPro},
				{Name: "Competitor Spy Tools", RequiresPlan: stores.PlanPro},
				{Name: "Theme Auto Fixer Panel", RequiresPlan: stores.PlanPro},
			},
		},
		{
			Key: stores.PlanPro, Name: "Pro", Price: Price{29.99, 299.99},
			Features: []Item{
				{Name: "Everything in Growth", Included: true},
				{Name: "AI Store Builder (full theme pages)", Included: true},
				{Name: "Product Review Importer (All platforms)", Included: true},
				{Name: "Competitor Spy Tools (Amazon, Etsy, eBay)", Included: true},
				{Name: "Geo-Product Logic (country visibility)", Included: true},
				{Name: "Theme Auto Fixer Log Panel", Included: true},
				{Name: "Premium Templates", Included: true},
			},
		},
	}
}
