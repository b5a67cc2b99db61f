// Package tools runs the AI-backed store optimization tools.
package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appstores "github.com/bryanwahyu/automaton-shop/internal/application/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/domain/catalog"
	"github.com/bryanwahyu/automaton-shop/internal/domain/insights"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Service implements use-cases untuk AI tools
type Service struct {
	LLM      ai.Client
	Stores   *appstores.Service
	Products catalog.ProductRepository
	Jobs     *appjobs.Service
	Clock    application.Clock
	Log      *zap.Logger
	Metrics  *metrics.Metrics
}

// pricingSample is how many products go into one pricing prompt.
const pricingSample = 5

// defaultJourneys is used when the UX answer does not list its journeys.
const defaultJourneys = 5

// generated HTML keeps formatting and classes but loses scripts and handlers
var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Globally()
	return p
}()

// SanitizeHTML cleans model-written markup before it reaches a storefront.
func SanitizeHTML(s string) string { return htmlPolicy.Sanitize(s) }

func (s *Service) invoke(ctx context.Context, req ai.Request, out any) (json.RawMessage, error) {
	log := s.Log.With(zap.String("tool", req.Name))
	raw, err := s.LLM.Invoke(ctx, req)
	s.Metrics.LLMCall(err)
	if err != nil {
		log.Warn("llm call failed", zap.Error(err))
		return nil, fmt.Errorf("%s: %w", req.Name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		log.Warn("llm answer does not match schema", zap.Error(err))
		return nil, fmt.Errorf("%s: %w: %v", req.Name, ai.ErrInvalidResponse, err)
	}
	log.Debug("llm call finished", zap.Int("bytes", len(raw)))
	return raw, nil
}

func (s *Service) setScore(ctx context.Context, st *stores.Store, mutate func(*stores.Scores)) {
	if _, err := s.Stores.UpdateScores(ctx, st.ID, nil, mutate); err != nil {
		s.Log.Error("store score update failed", zap.String("store_id", st.ID), zap.Error(err))
	}
}

func (s *Service) SEOAudit(ctx context.Context, owner string) (*insights.SEOAudit, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.SEOAudit
	if _, err := s.invoke(ctx, ai.Request{Name: toolSEOAudit, Prompt: seoAuditPrompt(st), Schema: seoAuditSchema}, &res); err != nil {
		return nil, err
	}
	s.setScore(ctx, st, func(sc *stores.Scores) { sc.SEO = res.OverallScore })
	return &res, nil
}

type SEOContentInput struct {
	ContentType string `json:"content_type"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Keywords    string `json:"keywords"`
}

// SEOContent rewrites a title/description pair and records the run as a job.
func (s *Service) SEOContent(ctx context.Context, owner string, in SEOContentInput) (*insights.SEOContent, error) {
	in.Title = middleware.SanitizeString(in.Title)
	in.Description = middleware.SanitizeString(in.Description)
	in.Keywords = middleware.SanitizeString(in.Keywords)
	if in.Title == "" && in.Description == "" {
		return nil, middleware.Invalid("title", "provide either a title or description to optimize")
	}
	if in.ContentType = strings.TrimSpace(in.ContentType); in.ContentType == "" {
		in.ContentType = "product"
	}
	if _, err := s.Stores.Current(ctx, owner); err != nil {
		return nil, err
	}
	var res insights.SEOContent
	raw, err := s.invoke(ctx, ai.Request{Name: toolSEOContent, Prompt: seoContentPrompt(in), Schema: seoContentSchema}, &res)
	if err != nil {
		return nil, err
	}
	title := "SEO Content: " + firstNonEmpty(in.Title, truncate(in.Description, 40))
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeSEOGeneration, title, raw, 1); err != nil {
		return nil, err
	}
	return &res, nil
}

// PricingAnalysis prices the first few products of the merchant against
// the market, with web context.
func (s *Service) PricingAnalysis(ctx context.Context, owner string) (*insights.Pricing, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	products, err := s.Products.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return nil, middleware.Invalid("products", "add products to your store to analyze pricing")
	}
	if len(products) > pricingSample {
		products = products[:pricingSample]
	}
	var res insights.Pricing
	raw, err := s.invoke(ctx, ai.Request{
		Name:        toolPricing,
		Prompt:      pricingPrompt(st, products),
		Schema:      pricingSchema,
		UseInternet: true,
	}, &res)
	if err != nil {
		return nil, err
	}
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypePricingAnalysis, "Smart Pricing Analysis", raw, len(products)); err != nil {
		return nil, err
	}
	return &res, nil
}

// AutoFixable reports whether an accessibility issue can be fixed without
// a developer: missing alt text and color contrast.
func AutoFixable(title string) bool {
	t := strings.ToLower(title)
	return strings.Contains(t, "alt text") || strings.Contains(t, "color contrast")
}

func (s *Service) AccessibilityAudit(ctx context.Context, owner string) (*insights.Accessibility, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.Accessibility
	if _, err := s.invoke(ctx, ai.Request{Name: toolAccessibility, Prompt: accessibilityPrompt(st), Schema: accessibilitySchema}, &res); err != nil {
		return nil, err
	}
	for i := range res.CriticalIssues {
		res.CriticalIssues[i].AutoFixable = AutoFixable(res.CriticalIssues[i].Title)
	}
	s.setScore(ctx, st, func(sc *stores.Scores) { sc.Accessibility = res.OverallScore })
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeAccessibilityAudit, "Accessibility Audit", &res, len(res.CriticalIssues)); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) UXTest(ctx context.Context, owner string) (*insights.UX, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.UX
	raw, err := s.invoke(ctx, ai.Request{Name: toolUX, Prompt: uxPrompt(st), Schema: uxSchema}, &res)
	if err != nil {
		return nil, err
	}
	journeys := int(gjson.GetBytes(raw, "journey_tests.#").Int())
	if journeys == 0 {
		journeys = defaultJourneys
	}
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeUXAnalysis, "UX Journey Test", raw, journeys); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) ThemeSpeed(ctx context.Context, owner string) (*insights.ThemeSpeed, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.ThemeSpeed
	raw, err := s.invoke(ctx, ai.Request{Name: toolThemeSpeed, Prompt: themeSpeedPrompt(st), Schema: themeSpeedSchema}, &res)
	if err != nil {
		return nil, err
	}
	s.setScore(ctx, st, func(sc *stores.Scores) { sc.Speed = res.OverallScore })
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypePerformanceAnalysis, "Theme Speed Analysis", raw, len(res.Issues)); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) BrokenLinks(ctx context.Context, owner string) (*insights.BrokenLinks, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.BrokenLinks
	raw, err := s.invoke(ctx, ai.Request{Name: toolBrokenLinks, Prompt: brokenLinksPrompt(st), Schema: brokenLinksSchema}, &res)
	if err != nil {
		return nil, err
	}
	total := int(gjson.GetBytes(raw, "summary.total_links").Int())
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeLinkScan, "Broken Link Scan", raw, total); err != nil {
		return nil, err
	}
	return &res, nil
}

// CompetitorAnalysis is a pro feature.
func (s *Service) CompetitorAnalysis(ctx context.Context, owner, competitorURL string) (*insights.Competitor, error) {
	competitorURL = strings.TrimSpace(competitorURL)
	if err := middleware.ValidateURL("url", competitorURL); err != nil {
		return nil, err
	}
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := plans.Require(st.Plan, plans.FeatureCompetitorSpy); err != nil {
		return nil, err
	}
	var res insights.Competitor
	if _, err := s.invoke(ctx, ai.Request{
		Name:        toolCompetitor,
		Prompt:      competitorPrompt(st, competitorURL),
		Schema:      competitorSchema,
		UseInternet: true,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (s *Service) product(ctx context.Context, owner, id string) (*catalog.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Owner != owner {
		return nil, fmt.Errorf("product %s: %w", id, records.ErrNotFound)
	}
	return p, nil
}

// ProductDescription writes new copy for one product in the requested tone.
func (s *Service) ProductDescription(ctx context.Context, owner, productID, tone string) (*insights.ProductDescription, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, middleware.Invalid("product_id", "select a product")
	}
	if tone = middleware.SanitizeString(tone); tone == "" {
		tone = "professional"
	}
	p, err := s.product(ctx, owner, productID)
	if err != nil {
		return nil, err
	}
	var res insights.ProductDescription
	if _, err := s.invoke(ctx, ai.Request{Name: toolProductCopy, Prompt: productCopyPrompt(p, tone), Schema: productCopySchema}, &res); err != nil {
		return nil, err
	}
	res.FullDescription = SanitizeHTML(res.FullDescription)
	return &res, nil
}

type EmailCampaignInput struct {
	CampaignType string `json:"campaign_type"`
	Tone         string `json:"tone"`
	ProductID    string `json:"product_id,omitempty"`
}

func (s *Service) EmailCampaign(ctx context.Context, owner string, in EmailCampaignInput) (*insights.EmailCampaign, error) {
	if in.CampaignType = strings.TrimSpace(in.CampaignType); in.CampaignType == "" {
		return nil, middleware.Invalid("campaign_type", "is required")
	}
	if in.Tone = middleware.SanitizeString(in.Tone); in.Tone == "" {
		in.Tone = "friendly"
	}
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var p *catalog.Product
	if in.ProductID != "" {
		if p, err = s.product(ctx, owner, in.ProductID); err != nil {
			return nil, err
		}
	}
	var res insights.EmailCampaign
	if _, err := s.invoke(ctx, ai.Request{Name: toolEmailCampaign, Prompt: emailCampaignPrompt(st, in, p), Schema: emailCampaignSchema}, &res); err != nil {
		return nil, err
	}
	if res.CampaignName == "" {
		res.CampaignName = campaignLabel(in.CampaignType)
	}
	for i := range res.Emails {
		res.Emails[i].Body = SanitizeHTML(res.Emails[i].Body)
	}
	return &res, nil
}

func (s *Service) AppRecommendations(ctx context.Context, owner string) (*insights.AppRecommendations, error) {
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	var res insights.AppRecommendations
	if _, err := s.invoke(ctx, ai.Request{
		Name:        toolAppRecommender,
		Prompt:      appRecommendationsPrompt(st),
		Schema:      appRecommendationsSchema,
		UseInternet: true,
	}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type LandingPageInput struct {
	PageType       string `json:"page_type"`
	Headline       string `json:"headline"`
	Description    string `json:"description"`
	TargetAudience string `json:"target_audience"`
	ConversionGoal string `json:"conversion_goal"`
	KeyBenefits    string `json:"key_benefits"`
	SocialProof    string `json:"social_proof"`
	Urgency        string `json:"urgency"`
}

// LandingPage needs the growth plan or better.
func (s *Service) LandingPage(ctx context.Context, owner string, in LandingPageInput) (*insights.LandingPage, error) {
	in.PageType = middleware.SanitizeString(in.PageType)
	in.Headline = middleware.SanitizeString(in.Headline)
	in.ConversionGoal = middleware.SanitizeString(in.ConversionGoal)
	switch {
	case in.PageType == "":
		return nil, middleware.Invalid("page_type", "is required")
	case in.Headline == "":
		return nil, middleware.Invalid("headline", "is required")
	case in.ConversionGoal == "":
		return nil, middleware.Invalid("conversion_goal", "is required")
	}
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := plans.Require(st.Plan, plans.FeatureLayoutGenerator); err != nil {
		return nil, err
	}
	var res insights.LandingPage
	if _, err := s.invoke(ctx, ai.Request{Name: toolLandingPage, Prompt: landingPagePrompt(in), Schema: landingPageSchema}, &res); err != nil {
		return nil, err
	}
	res.HTMLCode = SanitizeHTML(res.HTMLCode)
	return &res, nil
}

type ColorScheme struct {
	Name    string `json:"name"`
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

type StorefrontInput struct {
	Niche       string      `json:"niche"`
	StoreType   string      `json:"store_type"`
	Vibe        string      `json:"vibe"`
	DesignStyle string      `json:"design_style"`
	Audience    string      `json:"audience"`
	Products    string      `json:"products"`
	Features    []string    `json:"features"`
	ColorScheme ColorScheme `json:"color_scheme"`
}

// Storefront is a pro feature.
func (s *Service) Storefront(ctx context.Context, owner string, in StorefrontInput) (*insights.Storefront, error) {
	in.Niche = middleware.SanitizeString(in.Niche)
	in.Vibe = middleware.SanitizeString(in.Vibe)
	if in.Niche == "" {
		return nil, middleware.Invalid("niche", "is required")
	}
	if in.Vibe == "" {
		return nil, middleware.Invalid("vibe", "is required")
	}
	st, err := s.Stores.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	if err := plans.Require(st.Plan, plans.FeatureStorefrontBuilder); err != nil {
		return nil, err
	}
	var res insights.Storefront
	if _, err := s.invoke(ctx, ai.Request{Name: toolStorefront, Prompt: storefrontPrompt(in), Schema: storefrontSchema}, &res); err != nil {
		return nil, err
	}
	for i := range res.Pages {
		res.Pages[i].BodyHTML = SanitizeHTML(res.Pages[i].BodyHTML)
	}
	return &res, nil
}

type badge struct {
	text string
	icon string
}

var trustBadges = map[string]badge{
	"secure":    {"Secure Checkout", `<path d="M12 22s8-4 8-10V5l-8-3-8 3v7c0 6 8 10 8 10z"/><path d="m9 12 2 2 4-4"/>`},
	"shipping":  {"Free Shipping", `<path d="M1 3h15v13H1z"/><path d="M16 8h4l3 3v5h-7z"/><circle cx="5.5" cy="18.5" r="2.5"/><circle cx="18.5" cy="18.5" r="2.5"/>`},
	"returns":   {"30-Day Returns", `<path d="M21 12a9 9 0 1 1-3-6.7L21 8"/><path d="M21 3v5h-5"/>`},
	"encrypted": {"SSL Encrypted", `<rect x="3" y="11" width="18" height="11" rx="2"/><path d="M7 11V7a5 5 0 0 1 10 0v4"/>`},
}

// TrustBadges renders the install snippet for the selected badges, in the
// order given. Duplicates are dropped.
func TrustBadges(ids []string) (string, error) {
	if len(ids) == 0 {
		return "", middleware.Invalid("badges", "select at least one badge")
	}
	var b strings.Builder
	b.WriteString(`<div style="display: flex; gap: 1rem; justify-content: center; align-items: center; padding: 1rem; background-color: transparent;">`)
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		id = strings.ToLower(strings.TrimSpace(id))
		bd, ok := trustBadges[id]
		if !ok {
			return "", middleware.Invalid("badges", "unknown badge %q", id)
		}
		if seen[id] {
			continue
		}
		seen[id] = true
		fmt.Fprintf(&b, `
  <div style="display: flex; align-items: center; gap: 0.5rem; color: #cbd5e1; font-family: sans-serif; font-size: 0.875rem;">
    <svg xmlns="http://www.w3.org/2000/svg" width="24" height="24" viewBox="0 0 24 24" fill="none" stroke="currentColor" stroke-width="2" stroke-linecap="round" stroke-linejoin="round">%s</svg>
    <span>%s</span>
  </div>`, bd.icon, html.EscapeString(bd.text))
	}
	b.WriteString("\n</div>")
	return b.String(), nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
