package httpserver

import (
	"net/http"

	apptools "github.com/bryanwahyu/automaton-shop/internal/application/tools"
)

// Every tool answer is returned as-is; the run is also recorded as a job
// where the tool produces one.

func (r *Router) handleSEOAudit(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.SEOAudit(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleSEOContent(w http.ResponseWriter, req *http.Request) error {
	var in apptools.SEOContentInput
	if err := decode(req, &in); err != nil {
		return err
	}
	res, err := r.svc.Tools.SEOContent(req.Context(), merchant(req), in)
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handlePricing(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.PricingAnalysis(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleAccessibility(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.AccessibilityAudit(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleUX(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.UXTest(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleThemeSpeed(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.ThemeSpeed(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleBrokenLinks(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.BrokenLinks(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

// Body: {"url": "https://competitor.example"}
func (r *Router) handleCompetitor(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		URL string `json:"url"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	res, err := r.svc.Tools.CompetitorAnalysis(req.Context(), merchant(req), body.URL)
	if err != nil {
		return err
	}
	return ok(w, res)
}

// Body: {"product_id": "prod_001", "tone": "playful"}
func (r *Router) handleProductDescription(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		ProductID string `json:"product_id"`
		Tone      string `json:"tone"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	res, err := r.svc.Tools.ProductDescription(req.Context(), merchant(req), body.ProductID, body.Tone)
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleEmailCampaign(w http.ResponseWriter, req *http.Request) error {
	var in apptools.EmailCampaignInput
	if err := decode(req, &in); err != nil {
		return err
	}
	res, err := r.svc.Tools.EmailCampaign(req.Context(), merchant(req), in)
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleAppRecommendations(w http.ResponseWriter, req *http.Request) error {
	res, err := r.svc.Tools.AppRecommendations(req.Context(), merchant(req))
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleLandingPage(w http.ResponseWriter, req *http.Request) error {
	var in apptools.LandingPageInput
	if err := decode(req, &in); err != nil {
		return err
	}
	res, err := r.svc.Tools.LandingPage(req.Context(), merchant(req), in)
	if err != nil {
		return err
	}
	return ok(w, res)
}

func (r *Router) handleStorefront(w http.ResponseWriter, req *http.Request) error {
	var in apptools.StorefrontInput
	if err := decode(req, &in); err != nil {
		return err
	}
	res, err := r.svc.Tools.Storefront(req.Context(), merchant(req), in)
	if err != nil {
		return err
	}
	return ok(w, res)
}

// Body: {"badges": ["secure", "shipping"]}
func (r *Router) handleTrustBadges(w http.ResponseWriter, req *http.Request) error {
	var body struct {
		Badges []string `json:"badges"`
	}
	if err := decode(req, &body); err != nil {
		return err
	}
	html, err := apptools.TrustBadges(body.Badges)
	if err != nil {
		return err
	}
	return ok(w, map[string]string{"html": html})
}
