// Package insights holds the structured answers the AI tools return.
package insights

type SEOAudit struct {
	OverallScore         int                  `json:"overall_score"`
	CriticalIssues       []SEOIssue           `json:"critical_issues"`
	KeywordOpportunities []KeywordOpportunity `json:"keyword_opportunities"`
	TechnicalIssues      []TechnicalIssue     `json:"technical_issues"`
	ContentSuggestions   []string             `json:"content_suggestions"`
	Recommendations      []string             `json:"recommendations"`
}

type SEOIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Fix         string `json:"fix"`
}

type KeywordOpportunity struct {
	Keyword     string `json:"keyword"`
	Volume      string `json:"volume"`
	Difficulty  string `json:"difficulty"`
	Opportunity string `json:"opportunity"`
}

type TechnicalIssue struct {
	Issue    string `json:"issue"`
	Severity string `json:"severity"`
	Solution string `json:"solution"`
}

type SEOContent struct {
	OptimizedTitle       string   `json:"optimized_title"`
	MetaDescription      string   `json:"meta_description"`
	H1Tag                string   `json:"h1_tag"`
	OptimizedDescription string   `json:"optimized_description"`
	SuggestedAltText     []string `json:"suggested_alt_text"`
	SchemaMarkup         string   `json:"schema_markup"`
}

type Pricing struct {
	MarketAnalysis  MarketAnalysis  `json:"market_analysis"`
	Products        []ProductPrice  `json:"products"`
	OverallStrategy string          `json:"overall_strategy"`
	RevenueImpact   RevenueEstimate `json:"revenue_impact"`
}

type MarketAnalysis struct {
	PricePosition        string `json:"price_position"`
	MarketTrends         string `json:"market_trends"`
	CompetitiveAdvantage string `json:"competitive_advantage"`
}

type ProductPrice struct {
	Name            string  `json:"name"`
	CurrentPrice    float64 `json:"current_price"`
	SuggestedPrice  float64 `json:"suggested_price"`
	CompetitorRange string  `json:"competitor_range"`
	ProfitPotential string  `json:"profit_potential"`
	PriceConfidence string  `json:"price_confidence"`
	Reasoning       string  `json:"reasoning,omitempty"`
}

type RevenueEstimate struct {
	EstimatedIncrease string `json:"estimated_increase"`
	Timeframe         string `json:"timeframe"`
}

type Accessibility struct {
	OverallScore    int                  `json:"overall_score"`
	CriticalIssues  []AccessibilityIssue `json:"critical_issues"`
	Recommendations []string             `json:"recommendations"`
	QuickWins       []string             `json:"quick_wins"`
}

type AccessibilityIssue struct {
	Title           string `json:"title"`
	Description     string `json:"description"`
	Impact          string `json:"impact"`
	FixInstructions string `json:"fix_instructions"`
	WCAGGuideline   string `json:"wcag_guideline"`
	AutoFixable     bool   `json:"auto_fixable"`
}

type UX struct {
	OverallUXScore     int           `json:"overall_ux_score"`
	JourneyTests       []JourneyTest `json:"journey_tests"`
	CriticalIssues     []UXIssue     `json:"critical_issues"`
	ConversionBlockers []string      `json:"conversion_blockers"`
	MobileIssues       []string      `json:"mobile_issues"`
	Recommendations    []string      `json:"recommendations"`
}

type JourneyTest struct {
	Journey    string   `json:"journey"`
	Score      int      `json:"score"`
	Steps      []string `json:"steps"`
	PainPoints []string `json:"pain_points"`
}

type UXIssue struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Impact      string `json:"impact"`
	Fix         string `json:"fix"`
}

type ThemeSpeed struct {
	OverallScore    int          `json:"overall_score"`
	CoreVitals      CoreVitals   `json:"core_vitals"`
	Issues          []SpeedIssue `json:"issues"`
	Recommendations []string     `json:"recommendations"`
	PotentialScore  int          `json:"potential_score"`
}

type CoreVitals struct {
	LCP string `json:"lcp"`
	FID string `json:"fid"`
	CLS string `json:"cls"`
}

type SpeedIssue struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	Impact        string `json:"impact"`
	Fix           string `json:"fix"`
	EstimatedGain string `json:"estimated_gain"`
}

type BrokenLinks struct {
	Summary       LinkSummary  `json:"summary"`
	BrokenLinks   []BrokenLink `json:"broken_links"`
	BrokenImages  []BrokenLink `json:"broken_images"`
	SEOImpact     string       `json:"seo_impact"`
	PriorityFixes []string     `json:"priority_fixes"`
}

type LinkSummary struct {
	TotalLinks   int `json:"total_links"`
	BrokenLinks  int `json:"broken_links"`
	BrokenImages int `json:"broken_images"`
	Redirects    int `json:"redirects"`
}

type BrokenLink struct {
	URL        string `json:"url"`
	FoundOn    string `json:"found_on"`
	StatusCode int    `json:"status_code"`
	Fix        string `json:"fix"`
}

type Competitor struct {
	CompetitorName   string   `json:"competitor_name"`
	PricingStrategy  string   `json:"pricing_strategy"`
	TopProducts      []string `json:"top_products"`
	Strengths        []string `json:"strengths"`
	Weaknesses       []string `json:"weaknesses"`
	MarketingTactics []string `json:"marketing_tactics"`
	Opportunities    []string `json:"opportunities"`
}

type ProductDescription struct {
	NewTitle        string `json:"new_title"`
	MetaDescription string `json:"meta_description"`
	FullDescription string `json:"full_description"`
}

type EmailCampaign struct {
	CampaignName string  `json:"campaign_name"`
	Emails       []Email `json:"emails"`
}

type Email struct {
	Subject     string `json:"subject"`
	PreviewText string `json:"preview_text,omitempty"`
	Body        string `json:"body"`
	SendDelay   string `json:"send_delay,omitempty"`
}

type AppRecommendations struct {
	Categories []AppCategory `json:"categories"`
}

type AppCategory struct {
	Category string `json:"category"`
	Apps     []App  `json:"apps"`
}

type App struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Pricing     string `json:"pricing"`
	Rating      string `json:"rating"`
	WhyUseful   string `json:"why_useful"`
	URL         string `json:"url,omitempty"`
}

type LandingPage struct {
	Hero           Hero      `json:"hero"`
	Benefits       []Benefit `json:"benefits"`
	SocialProof    []string  `json:"social_proof"`
	TrustSignals   []string  `json:"trust_signals"`
	HTMLCode       string    `json:"html_code"`
	CSSCode        string    `json:"css_code"`
	ConversionTips []string  `json:"conversion_tips"`
}

type Hero struct {
	Headline    string `json:"headline"`
	Subheadline string `json:"subheadline"`
	CTAText     string `json:"cta_text"`
}

type Benefit struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type Storefront struct {
	HomepageSections []StorefrontSection `json:"homepage_sections"`
	Pages            []Page              `json:"pages"`
	ColorTheme       ColorTheme          `json:"color_theme"`
	SEO              StorefrontSEO       `json:"seo"`
	Recommendations  []string            `json:"recommendations"`
}

type StorefrontSection struct {
	Type    string `json:"type"`
	Heading string `json:"heading"`
	Content string `json:"content"`
}

type Page struct {
	Title    string `json:"title"`
	Handle   string `json:"handle"`
	BodyHTML string `json:"body_html"`
}

type ColorTheme struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

type StorefrontSEO struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
}
