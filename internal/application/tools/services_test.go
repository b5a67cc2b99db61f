package tools

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appstores "github.com/bryanwahyu/automaton-shop/internal/application/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/domain/catalog"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

const owner = "owner@shop.io"

type fixture struct {
	svc   *Service
	llm   *testutil.LLM
	repos docstore.Repositories
	store *stores.Store
}

func setup(t *testing.T, plan stores.Plan) fixture {
	t.Helper()
	ctx := context.Background()
	repos := testutil.Repos(t)
	clock := testutil.NewClock()
	log := zap.NewNop()

	st := &stores.Store{ID: "store-1", Owner: owner, StoreName: "Glow Shop", ShopDomain: "glow.myshopify.com", Plan: plan, CreatedAt: clock.Now()}
	st.ApplyScores(stores.Scores{Speed: 50, SEO: 50, Accessibility: 50, Content: 50, Bloat: 50})
	require.NoError(t, repos.Stores.Save(ctx, st))

	llm := testutil.NewLLM()
	storeSvc := &appstores.Service{Repo: repos.Stores, Functions: testutil.NewFunctions(), Clock: clock, Log: log}
	return fixture{
		svc: &Service{
			LLM:      llm,
			Stores:   storeSvc,
			Products: repos.Products,
			Jobs:     &appjobs.Service{Repo: repos.Jobs, Stores: repos.Stores, Clock: clock, Log: log},
			Clock:    clock,
			Log:      log,
		},
		llm:   llm,
		repos: repos,
		store: st,
	}
}

func (f fixture) jobs(t *testing.T) []*jobs.OptimizationJob {
	t.Helper()
	list, err := f.repos.Jobs.List(context.Background(), jobs.Filter{Owner: owner})
	require.NoError(t, err)
	return list
}

func (f fixture) reload(t *testing.T) *stores.Store {
	t.Helper()
	st, err := f.repos.Stores.Get(context.Background(), f.store.ID)
	require.NoError(t, err)
	return st
}

func TestSEOAudit_UpdatesScore(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolSEOAudit, `{"overall_score": 90, "critical_issues": [{"title": "Missing meta", "impact": "high"}],
		"keyword_opportunities": [{"keyword": "vegan soap", "volume": "high"}], "recommendations": ["Add meta descriptions"]}`)

	res, err := f.svc.SEOAudit(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 90, res.OverallScore)
	require.Len(t, res.CriticalIssues, 1)
	assert.Equal(t, "vegan soap", res.KeywordOpportunities[0].Keyword)

	req := f.llm.Last()
	assert.Contains(t, req.Prompt, "Glow Shop (glow.myshopify.com)")
	assert.JSONEq(t, string(seoAuditSchema), string(req.Schema))

	st := f.reload(t)
	assert.Equal(t, 90, st.SEO)
	assert.Equal(t, 58, st.HealthScore)
}

func TestSEOAudit_PropagatesLLMErrors(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Fail(toolSEOAudit, ai.ErrQuotaExceeded)

	_, err := f.svc.SEOAudit(context.Background(), owner)
	assert.ErrorIs(t, err, ai.ErrQuotaExceeded)
	assert.Equal(t, 50, f.reload(t).SEO)
}

func TestSEOAudit_SchemaMismatch(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolSEOAudit, `{"overall_score": "excellent"}`)

	_, err := f.svc.SEOAudit(context.Background(), owner)
	assert.ErrorIs(t, err, ai.ErrInvalidResponse)
}

func TestSEOContent(t *testing.T) {
	ctx := context.Background()
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolSEOContent, `{"optimized_title": "Organic Lavender Soap", "meta_description": "Handmade.", "suggested_alt_text": ["soap bar"]}`)

	_, err := f.svc.SEOContent(ctx, owner, SEOContentInput{Keywords: "soap"})
	assert.True(t, middleware.IsValidation(err))
	assert.Empty(t, f.llm.Requests)

	res, err := f.svc.SEOContent(ctx, owner, SEOContentInput{Title: "Soap", Keywords: "lavender"})
	require.NoError(t, err)
	assert.Equal(t, "Organic Lavender Soap", res.OptimizedTitle)
	assert.Contains(t, f.llm.Last().Prompt, "for a product:")

	list := f.jobs(t)
	require.Len(t, list, 1)
	assert.Equal(t, jobs.TypeSEOGeneration, list[0].JobType)
	assert.Equal(t, jobs.StatusCompleted, list[0].Status)
	assert.Equal(t, "SEO Content: Soap", list[0].Title)
}

func TestPricingAnalysis(t *testing.T) {
	ctx := context.Background()
	f := setup(t, stores.PlanBasic)

	_, err := f.svc.PricingAnalysis(ctx, owner)
	assert.True(t, middleware.IsValidation(err))

	for _, name := range []string{"A", "B", "C", "D", "E", "F", "G"} {
		require.NoError(t, f.repos.Products.Save(ctx, &catalog.Product{
			ID: "p" + name, Owner: owner, Name: "Product " + name, Description: "desc",
			CreatedAt: f.svc.Clock.Now(),
		}))
	}
	f.llm.Answer(toolPricing, `{"market_analysis": {"price_position": "mid"}, "products": [{"name": "Product A", "current_price": 10, "suggested_price": 12.5}]}`)

	res, err := f.svc.PricingAnalysis(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 12.5, res.Products[0].SuggestedPrice)

	req := f.llm.Last()
	assert.True(t, req.UseInternet)
	assert.Equal(t, 5, countLines(req.Prompt, "- Product "))

	list := f.jobs(t)
	require.Len(t, list, 1)
	assert.Equal(t, jobs.TypePricingAnalysis, list[0].JobType)
	assert.Equal(t, 5, list[0].ItemsTotal)
}

func TestAccessibilityAudit_MarksAutoFixable(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolAccessibility, `{"overall_score": 71, "critical_issues": [
		{"title": "Missing Alt Text on product images"},
		{"title": "Low color contrast in footer"},
		{"title": "Keyboard trap in menu", "auto_fixable": true}]}`)

	res, err := f.svc.AccessibilityAudit(context.Background(), owner)
	require.NoError(t, err)
	require.Len(t, res.CriticalIssues, 3)
	assert.True(t, res.CriticalIssues[0].AutoFixable)
	assert.True(t, res.CriticalIssues[1].AutoFixable)
	assert.False(t, res.CriticalIssues[2].AutoFixable)
	assert.Equal(t, 71, f.reload(t).Accessibility)

	list := f.jobs(t)
	require.Len(t, list, 1)
	assert.Equal(t, jobs.TypeAccessibilityAudit, list[0].JobType)
}

func TestUXTest_JourneyCount(t *testing.T) {
	ctx := context.Background()
	f := setup(t, stores.PlanBasic)

	f.llm.Answer(toolUX, `{"overall_ux_score": 64, "journey_tests": [{"journey": "checkout", "score": 60}, {"journey": "search", "score": 70}]}`)
	_, err := f.svc.UXTest(ctx, owner)
	require.NoError(t, err)

	f.llm.Answer(toolUX, `{"overall_ux_score": 64}`)
	_, err = f.svc.UXTest(ctx, owner)
	require.NoError(t, err)

	list := f.jobs(t)
	require.Len(t, list, 2)
	assert.Equal(t, defaultJourneys, list[0].ItemsTotal)
	assert.Equal(t, 2, list[1].ItemsTotal)
	assert.Equal(t, jobs.TypeUXAnalysis, list[1].JobType)
}

func TestThemeSpeed(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolThemeSpeed, `{"overall_score": 42, "core_vitals": {"lcp": "3.1s", "fid": "120ms", "cls": "0.2"},
		"issues": [{"title": "Render-blocking JS"}], "potential_score": 88}`)

	res, err := f.svc.ThemeSpeed(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "3.1s", res.CoreVitals.LCP)
	assert.Equal(t, 42, f.reload(t).Speed)

	list := f.jobs(t)
	require.Len(t, list, 1)
	assert.Equal(t, jobs.TypePerformanceAnalysis, list[0].JobType)
}

func TestBrokenLinks_ItemsFromSummary(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolBrokenLinks, `{"summary": {"total_links": 240, "broken_links": 3}, "broken_links": [{"url": "/old", "status_code": 404}]}`)

	res, err := f.svc.BrokenLinks(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, 404, res.BrokenLinks[0].StatusCode)

	list := f.jobs(t)
	require.Len(t, list, 1)
	assert.Equal(t, jobs.TypeLinkScan, list[0].JobType)
	assert.Equal(t, 240, list[0].ItemsTotal)
	assert.Equal(t, 100, list[0].Progress)
}

func TestCompetitorAnalysis(t *testing.T) {
	ctx := context.Background()

	t.Run("requires pro", func(t *testing.T) {
		f := setup(t, stores.PlanGrowth)
		_, err := f.svc.CompetitorAnalysis(ctx, owner, "https://rival.example.com")
		assert.ErrorIs(t, err, plans.ErrFeatureLocked)
	})

	t.Run("rejects internal urls", func(t *testing.T) {
		f := setup(t, stores.PlanPro)
		_, err := f.svc.CompetitorAnalysis(ctx, owner, "http://localhost:8080")
		assert.True(t, middleware.IsValidation(err))
	})

	t.Run("pro plan", func(t *testing.T) {
		f := setup(t, stores.PlanPro)
		f.llm.Answer(toolCompetitor, `{"competitor_name": "Rival", "opportunities": ["Bundle offers"]}`)
		res, err := f.svc.CompetitorAnalysis(ctx, owner, "https://rival.example.com")
		require.NoError(t, err)
		assert.Equal(t, "Rival", res.CompetitorName)
		assert.True(t, f.llm.Last().UseInternet)
	})
}

func TestProductDescription_SanitizesHTML(t *testing.T) {
	ctx := context.Background()
	f := setup(t, stores.PlanBasic)
	require.NoError(t, f.repos.Products.Save(ctx, &catalog.Product{ID: "prod_1", Owner: owner, Name: "Earbuds", Description: "Wireless"}))
	require.NoError(t, f.repos.Products.Save(ctx, &catalog.Product{ID: "prod_2", Owner: "other@shop.io", Name: "Watch"}))
	f.llm.Answer(toolProductCopy, `{"new_title": "Earbuds Pro", "meta_description": "Great sound",
		"full_description": "<h3 class=\"lead\">Sound</h3><script>alert(1)</script><p onclick=\"x()\">Clear</p>"}`)

	res, err := f.svc.ProductDescription(ctx, owner, "prod_1", "")
	require.NoError(t, err)
	assert.Equal(t, `<h3 class="lead">Sound</h3><p>Clear</p>`, res.FullDescription)
	assert.Contains(t, f.llm.Last().Prompt, "Desired Tone: professional")

	_, err = f.svc.ProductDescription(ctx, owner, "prod_2", "fun")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestEmailCampaign(t *testing.T) {
	ctx := context.Background()
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolEmailCampaign, `{"emails": [{"subject": "Welcome!", "body": "<p>Hi {{customer_name}}</p><img src=x onerror=alert(1)>"}]}`)

	_, err := f.svc.EmailCampaign(ctx, owner, EmailCampaignInput{})
	assert.True(t, middleware.IsValidation(err))

	res, err := f.svc.EmailCampaign(ctx, owner, EmailCampaignInput{CampaignType: "welcome"})
	require.NoError(t, err)
	assert.Equal(t, "Welcome Series", res.CampaignName)
	require.Len(t, res.Emails, 1)
	assert.NotContains(t, res.Emails[0].Body, "onerror")
	assert.Contains(t, res.Emails[0].Body, "{{customer_name}}")
	assert.Contains(t, f.llm.Last().Prompt, `"Glow Shop"`)
}

func TestAppRecommendations(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolAppRecommender, `{"categories": [{"category": "SEO", "apps": [{"name": "Booster"}]}]}`)

	res, err := f.svc.AppRecommendations(context.Background(), owner)
	require.NoError(t, err)
	assert.Equal(t, "Booster", res.Categories[0].Apps[0].Name)
	assert.True(t, f.llm.Last().UseInternet)
	assert.Contains(t, f.llm.Last().Prompt, "Health Score: 50")
}

func TestLandingPage_PlanGate(t *testing.T) {
	ctx := context.Background()
	in := LandingPageInput{PageType: "product", Headline: "Sleep better", ConversionGoal: "purchase"}

	f := setup(t, stores.PlanBasic)
	_, err := f.svc.LandingPage(ctx, owner, in)
	assert.ErrorIs(t, err, plans.ErrFeatureLocked)

	f = setup(t, stores.PlanGrowth)
	_, err = f.svc.LandingPage(ctx, owner, LandingPageInput{PageType: "product"})
	assert.True(t, middleware.IsValidation(err))

	f.llm.Answer(toolLandingPage, `{"hero": {"headline": "Sleep better"}, "html_code": "<section><iframe src=\"https://evil\"></iframe><h1>Hi</h1></section>"}`)
	res, err := f.svc.LandingPage(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, "<section><h1>Hi</h1></section>", res.HTMLCode)
}

func TestStorefront(t *testing.T) {
	ctx := context.Background()
	in := StorefrontInput{Niche: "pet toys", Vibe: "playful", Features: []string{"newsletter", "reviews"}}

	f := setup(t, stores.PlanGrowth)
	_, err := f.svc.Storefront(ctx, owner, in)
	assert.ErrorIs(t, err, plans.ErrFeatureLocked)

	f = setup(t, stores.PlanPro)
	f.llm.Answer(toolStorefront, `{"homepage_sections": [{"type": "hero"}], "pages": [{"title": "About", "handle": "about", "body_html": "<p>Us</p><script>x</script>"}]}`)
	res, err := f.svc.Storefront(ctx, owner, in)
	require.NoError(t, err)
	assert.Equal(t, "<p>Us</p>", res.Pages[0].BodyHTML)
	assert.Contains(t, f.llm.Last().Prompt, "newsletter, reviews")
}

func TestTrustBadges(t *testing.T) {
	out, err := TrustBadges([]string{"secure", "returns", "secure"})
	require.NoError(t, err)
	assert.Contains(t, out, "Secure Checkout")
	assert.Contains(t, out, "30-Day Returns")
	assert.NotContains(t, out, "Free Shipping")
	assert.Equal(t, 2, countLines(out, "<span>"))

	_, err = TrustBadges([]string{"secure", "bogus"})
	assert.True(t, middleware.IsValidation(err))

	_, err = TrustBadges(nil)
	assert.True(t, middleware.IsValidation(err))
}

func TestJobResultsKeepRawAnswer(t *testing.T) {
	f := setup(t, stores.PlanBasic)
	f.llm.Answer(toolBrokenLinks, `{"summary": {"total_links": 10}, "seo_impact": "low"}`)

	_, err := f.svc.BrokenLinks(context.Background(), owner)
	require.NoError(t, err)

	var results map[string]any
	require.NoError(t, json.Unmarshal(f.jobs(t)[0].Results, &results))
	assert.Equal(t, "low", results["seo_impact"])
}

func countLines(s, prefix string) int { return strings.Count(s, prefix) }
