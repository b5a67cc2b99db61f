package tools

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/bryanwahyu/automaton-shop/internal/domain/catalog"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
)

// Tool names double as the ai.Request name.
const (
	toolSEOAudit       = "seo_audit"
	toolSEOContent     = "seo_content"
	toolPricing        = "pricing_analysis"
	toolAccessibility  = "accessibility_audit"
	toolUX             = "ux_test"
	toolThemeSpeed     = "theme_speed"
	toolBrokenLinks    = "broken_links"
	toolCompetitor     = "competitor_analysis"
	toolProductCopy    = "product_description"
	toolEmailCampaign  = "email_campaign"
	toolAppRecommender = "app_recommendations"
	toolLandingPage    = "landing_page"
	toolStorefront     = "storefront"
)

var (
	stringList = `{"type":"array","items":{"type":"string"}}`

	seoAuditSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "overall_score": {"type": "number"},
    "critical_issues": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"},
      "impact": {"type": "string"}, "fix": {"type": "string"}}}},
    "keyword_opportunities": {"type": "array", "items": {"type": "object", "properties": {
      "keyword": {"type": "string"}, "volume": {"type": "string"},
      "difficulty": {"type": "string"}, "opportunity": {"type": "string"}}}},
    "technical_issues": {"type": "array", "items": {"type": "object", "properties": {
      "issue": {"type": "string"}, "severity": {"type": "string"}, "solution": {"type": "string"}}}},
    "content_suggestions": ` + stringList + `,
    "recommendations": ` + stringList + `
  },
  "required": ["overall_score", "critical_issues", "recommendations"]
}`)

	seoContentSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "optimized_title": {"type": "string"},
    "meta_description": {"type": "string"},
    "h1_tag": {"type": "string"},
    "optimized_description": {"type": "string"},
    "suggested_alt_text": ` + stringList + `,
    "schema_markup": {"type": "string"}
  },
  "required": ["optimized_title", "meta_description"]
}`)

	pricingSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "market_analysis": {"type": "object", "properties": {
      "price_position": {"type": "string"}, "market_trends": {"type": "string"},
      "competitive_advantage": {"type": "string"}}},
    "products": {"type": "array", "items": {"type": "object", "properties": {
      "name": {"type": "string"}, "current_price": {"type": "number"},
      "suggested_price": {"type": "number"}, "competitor_range": {"type": "string"},
      "profit_potential": {"type": "string"}, "price_confidence": {"type": "string"},
      "reasoning": {"type": "string"}}}},
    "overall_strategy": {"type": "string"},
    "revenue_impact": {"type": "object", "properties": {
      "estimated_increase": {"type": "string"}, "timeframe": {"type": "string"}}}
  },
  "required": ["market_analysis", "products"]
}`)

	accessibilitySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "overall_score": {"type": "number"},
    "critical_issues": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"},
      "impact": {"type": "string"}, "fix_instructions": {"type": "string"},
      "wcag_guideline": {"type": "string"}}}},
    "recommendations": ` + stringList + `,
    "quick_wins": ` + stringList + `
  },
  "required": ["overall_score", "critical_issues"]
}`)

	uxSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "overall_ux_score": {"type": "number"},
    "journey_tests": {"type": "array", "items": {"type": "object", "properties": {
      "journey": {"type": "string"}, "score": {"type": "number"},
      "steps": ` + stringList + `, "pain_points": ` + stringList + `}}},
    "critical_issues": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"},
      "impact": {"type": "string"}, "fix": {"type": "string"}}}},
    "conversion_blockers": ` + stringList + `,
    "mobile_issues": ` + stringList + `,
    "recommendations": ` + stringList + `
  },
  "required": ["overall_ux_score", "journey_tests"]
}`)

	themeSpeedSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "overall_score": {"type": "number"},
    "core_vitals": {"type": "object", "properties": {
      "lcp": {"type": "string"}, "fid": {"type": "string"}, "cls": {"type": "string"}}},
    "issues": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"},
      "impact": {"type": "string"}, "fix": {"type": "string"},
      "estimated_gain": {"type": "string"}}}},
    "recommendations": ` + stringList + `,
    "potential_score": {"type": "number"}
  },
  "required": ["overall_score", "core_vitals"]
}`)

	brokenLinksSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "summary": {"type": "object", "properties": {
      "total_links": {"type": "number"}, "broken_links": {"type": "number"},
      "broken_images": {"type": "number"}, "redirects": {"type": "number"}}},
    "broken_links": {"type": "array", "items": {"type": "object", "properties": {
      "url": {"type": "string"}, "found_on": {"type": "string"},
      "status_code": {"type": "number"}, "fix": {"type": "string"}}}},
    "broken_images": {"type": "array", "items": {"type": "object", "properties": {
      "url": {"type": "string"}, "found_on": {"type": "string"},
      "status_code": {"type": "number"}, "fix": {"type": "string"}}}},
    "seo_impact": {"type": "string"},
    "priority_fixes": ` + stringList + `
  },
  "required": ["summary"]
}`)

	competitorSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "competitor_name": {"type": "string"},
    "pricing_strategy": {"type": "string"},
    "top_products": ` + stringList + `,
    "strengths": ` + stringList + `,
    "weaknesses": ` + stringList + `,
    "marketing_tactics": ` + stringList + `,
    "opportunities": ` + stringList + `
  },
  "required": ["competitor_name", "opportunities"]
}`)

	productCopySchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "new_title": {"type": "string"},
    "meta_description": {"type": "string"},
    "full_description": {"type": "string"}
  },
  "required": ["new_title", "meta_description", "full_description"]
}`)

	emailCampaignSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "campaign_name": {"type": "string"},
    "emails": {"type": "array", "items": {"type": "object", "properties": {
      "subject": {"type": "string"}, "preview_text": {"type": "string"},
      "body": {"type": "string"}, "send_delay": {"type": "string"}},
      "required": ["subject", "body"]}}
  },
  "required": ["emails"]
}`)

	appRecommendationsSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "categories": {"type": "array", "items": {"type": "object", "properties": {
      "category": {"type": "string"},
      "apps": {"type": "array", "items": {"type": "object", "properties": {
        "name": {"type": "string"}, "description": {"type": "string"},
        "pricing": {"type": "string"}, "rating": {"type": "string"},
        "why_useful": {"type": "string"}, "url": {"type": "string"}}}}}}}
  },
  "required": ["categories"]
}`)

	landingPageSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "hero": {"type": "object", "properties": {
      "headline": {"type": "string"}, "subheadline": {"type": "string"}, "cta_text": {"type": "string"}}},
    "benefits": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"}}}},
    "social_proof": ` + stringList + `,
    "trust_signals": ` + stringList + `,
    "html_code": {"type": "string"},
    "css_code": {"type": "string"},
    "conversion_tips": ` + stringList + `
  },
  "required": ["hero", "html_code"]
}`)

	storefrontSchema = json.RawMessage(`{
  "type": "object",
  "properties": {
    "homepage_sections": {"type": "array", "items": {"type": "object", "properties": {
      "type": {"type": "string"}, "heading": {"type": "string"}, "content": {"type": "string"}}}},
    "pages": {"type": "array", "items": {"type": "object", "properties": {
      "title": {"type": "string"}, "handle": {"type": "string"}, "body_html": {"type": "string"}}}},
    "color_theme": {"type": "object", "properties": {
      "primary": {"type": "string"}, "secondary": {"type": "string"}, "accent": {"type": "string"},
      "background": {"type": "string"}, "text": {"type": "string"}}},
    "seo": {"type": "object", "properties": {
      "title": {"type": "string"}, "description": {"type": "string"}, "keywords": ` + stringList + `}},
    "recommendations": ` + stringList + `
  },
  "required": ["homepage_sections", "pages"]
}`)
)

func seoAuditPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Analyze the SEO performance for a Shopify store: %s (%s).
Provide a comprehensive SEO audit including:
- Overall SEO score (0-100)
- Critical issues found
- Keyword opportunities
- Technical SEO problems
- Content optimization suggestions
- Competitor analysis insights

Focus on actionable recommendations.`, st.StoreName, st.ShopDomain)
}

func seoContentPrompt(in SEOContentInput) string {
	return fmt.Sprintf(`Generate SEO-optimized content for a %s:
Current Title: %s
Current Description: %s
Target Keywords: %s

Provide improved versions that are SEO-friendly, engaging, and conversion-focused.`,
		in.ContentType, in.Title, in.Description, in.Keywords)
}

func pricingPrompt(st *stores.Store, products []*catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze pricing strategy for a %s store with these products:\n", st.StoreName)
	for _, p := range products {
		fmt.Fprintf(&b, "- %s: %s", p.Name, p.Description)
		if p.Price > 0 {
			fmt.Fprintf(&b, " (current price %.2f)", p.Price)
		}
		b.WriteByte('\n')
	}
	b.WriteString(`
Provide competitive pricing analysis including:
- Current market price ranges for similar products
- Recommended optimal pricing for maximum profit
- Price elasticity insights
- Competitor analysis summary
- Profit margin recommendations`)
	return b.String()
}

func accessibilityPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Perform a comprehensive accessibility audit for a Shopify store: %s.
Analyze for WCAG 2.1 AA compliance and identify:
- Missing alt text on images
- Color contrast issues
- Keyboard navigation problems
- Screen reader compatibility issues
- Form accessibility issues
- Heading structure problems
- Focus management issues

Provide specific, actionable recommendations.`, st.StoreName)
}

func uxPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Perform a comprehensive UX analysis for a Shopify store: %s

Simulate key customer journeys and analyze:
- Homepage to product discovery flow
- Product page to cart functionality
- Checkout process usability
- Mobile responsiveness issues
- CTA button effectiveness
- Navigation clarity
- Form usability
- Page load friction points
- Trust signals presence
- Conversion blockers

Provide specific findings with severity levels and improvement suggestions.`, st.StoreName)
}

func themeSpeedPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Perform a comprehensive speed and performance analysis for a Shopify store: %s

Analyze and provide:
- Overall performance score (0-100)
- Core Web Vitals analysis
- Specific performance issues found
- Optimization recommendations with impact levels
- Before/after predictions
- Implementation difficulty for each fix`, st.StoreName)
}

func brokenLinksPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Simulate a comprehensive link and image scan for a Shopify store: %s

Generate a realistic report covering:
- Total pages scanned
- Broken internal links found
- Broken external links found
- Missing or broken images
- Redirect chains
- 404 errors
- Specific examples with page locations
- Priority fixes needed
- SEO impact assessment`, st.StoreName)
}

func competitorPrompt(st *stores.Store, url string) string {
	return fmt.Sprintf(`Analyze the competitor store at %s and provide comprehensive insights:
- Pricing strategy analysis
- Product offerings and categories
- Website design and UX analysis
- Marketing strategies observed
- SEO and content strategy
- Social media presence
- Strengths and weaknesses
- Opportunities for our store: %s

Focus on actionable competitive intelligence.`, url, st.StoreName)
}

func productCopyPrompt(p *catalog.Product, tone string) string {
	return fmt.Sprintf(`Generate compelling marketing copy for a Shopify product.
Product Name: %s
Current Description: %s
Desired Tone: %s

Provide the following:
1. A new, catchy product title.
2. A persuasive meta description (max 160 characters).
3. A full, engaging product description using HTML for formatting (h3, p, ul, li).`, p.Name, p.Description, tone)
}

func emailCampaignPrompt(st *stores.Store, in EmailCampaignInput, p *catalog.Product) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate an email campaign for a Shopify store named %q.\n", st.StoreName)
	fmt.Fprintf(&b, "Campaign Type: %s.\nBrand Tone: %s.\n", campaignLabel(in.CampaignType), in.Tone)
	if p != nil {
		fmt.Fprintf(&b, "for the product: %s - %s\n", p.Name, p.Description)
	}
	b.WriteString(`
Provide a JSON response with an array of emails. Each email object should have a 'subject' and a 'body' (in HTML format).
Keep the emails concise, engaging, and mobile-friendly. Use placeholders like {{customer_name}} and {{store_name}}.`)
	return b.String()
}

var campaignLabels = map[string]string{
	"welcome":        "Welcome Series",
	"abandoned_cart": "Abandoned Cart Recovery",
	"product_launch": "New Product Launch",
	"win_back":       "Customer Win-Back",
	"seasonal_sale":  "Seasonal Sale",
}

func campaignLabel(t string) string {
	if l, ok := campaignLabels[t]; ok {
		return l
	}
	return t
}

func appRecommendationsPrompt(st *stores.Store) string {
	return fmt.Sprintf(`Based on this Shopify store profile:
- Name: %s
- Domain: %s
- Plan: %s
- Health Score: %d

Recommend a stack of Shopify apps. Categorize them into 'Marketing', 'SEO', 'Speed', 'Trust', and 'Customer Service'.
For each app, provide a name, a brief description of why it's a good fit for this store, pricing, rating and a link to its app store page.`,
		st.StoreName, st.ShopDomain, st.Plan, st.HealthScore)
}

func landingPagePrompt(in LandingPageInput) string {
	return fmt.Sprintf(`You are an expert conversion copywriter and landing page designer.
Create a high-converting landing page with these specifications:

Page Type: %s
Headline: %s
Description: %s
Target Audience: %s
Conversion Goal: %s
Key Benefits: %s
Social Proof: %s
Urgency Elements: %s

Generate a complete landing page including:
- Compelling hero section with headline and subheadline
- Benefits section with specific value propositions
- Social proof and trust signals
- Clean semantic HTML and matching CSS
- Tips to raise the conversion rate`,
		in.PageType, in.Headline, in.Description, in.TargetAudience,
		in.ConversionGoal, in.KeyBenefits, in.SocialProof, in.Urgency)
}

func storefrontPrompt(in StorefrontInput) string {
	return fmt.Sprintf(`You are an expert Shopify theme developer and branding specialist.
Generate a complete storefront starter pack for a new Shopify store based on these details:

STORE DETAILS:
- Niche: %s
- Store Type: %s
- Brand Vibe: %s
- Design Style: %s
- Target Audience: %s
- Key Products: %s
- Features Requested: %s
- Color Scheme: %s (Primary: %s, Accent: %s)

Include homepage sections, the standard pages (About, Contact, FAQ, Shipping) with HTML bodies,
a color theme, SEO metadata and launch recommendations.`,
		in.Niche, in.StoreType, in.Vibe, in.DesignStyle, in.Audience, in.Products,
		strings.Join(in.Features, ", "), in.ColorScheme.Name, in.ColorScheme.Primary, in.ColorScheme.Accent)
}
