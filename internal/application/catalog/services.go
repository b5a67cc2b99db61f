package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/catalog"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Service implements use-cases untuk Product, ProductReview dan geo-targeting
type Service struct {
	ProductRepo domain.ProductRepository
	ReviewRepo  domain.ReviewRepository
	Stores      stores.Repository
	Jobs        *appjobs.Service
	Functions   functions.Caller
	Clock       application.Clock
	Log         *zap.Logger
	Metrics     *metrics.Metrics
}

// newestReviews is how many reviews an import answers with.
const newestReviews = 5

var demoProducts = []domain.Product{
	{ShopifyID: "prod_001", Name: "Wireless Bluetooth Earbuds Pro", Description: "High-quality wireless earbuds with noise cancellation and long battery life.", Price: 79.99},
	{ShopifyID: "prod_002", Name: "Smart Fitness Watch", Description: "Track your health and fitness with this advanced smartwatch.", Price: 149.99},
	{ShopifyID: "prod_003", Name: "Portable Phone Charger 10000mAh", Description: "Fast charging power bank for all your devices.", Price: 29.99},
}

// Products lists the owner's products, seeding the demo catalog on first use.
func (s *Service) Products(ctx context.Context, owner string) ([]*domain.Product, error) {
	list, err := s.ProductRepo.ListByOwner(ctx, owner)
	if err != nil || len(list) > 0 {
		return list, err
	}
	for _, d := range demoProducts {
		p := d
		now := s.Clock.Now()
		p.ID = uuid.NewString()
		p.Owner = owner
		p.CreatedAt = now
		p.UpdatedAt = now
		if err := s.ProductRepo.Save(ctx, &p); err != nil {
			return nil, err
		}
	}
	s.Log.Info("demo products seeded", zap.String("owner", owner), zap.Int("count", len(demoProducts)))
	return s.ProductRepo.ListByOwner(ctx, owner)
}

func (s *Service) Product(ctx context.Context, owner, id string) (*domain.Product, error) {
	p, err := s.ProductRepo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Owner != owner {
		return nil, fmt.Errorf("product %s: %w", id, records.ErrNotFound)
	}
	return p, nil
}

// RegionalProduct is a product as shown to shoppers in one country.
type RegionalProduct struct {
	*domain.Product
	Country string                  `json:"country"`
	Content *domain.RegionalContent `json:"content,omitempty"`
}

// ProductsIn lists the owner's products visible in country, each with its
// regional copy when one is set.
func (s *Service) ProductsIn(ctx context.Context, owner, country string) ([]RegionalProduct, error) {
	codes, err := middleware.NormalizeRegions([]string{country})
	if err != nil {
		return nil, err
	}
	country = codes[0]
	list, err := s.Products(ctx, owner)
	if err != nil {
		return nil, err
	}
	out := make([]RegionalProduct, 0, len(list))
	for _, p := range list {
		if !p.VisibleIn(country) {
			continue
		}
		rp := RegionalProduct{Product: p, Country: country}
		if rc, ok := p.ContentFor(country); ok {
			rp.Content = &rc
		}
		out = append(out, rp)
	}
	return out, nil
}

// GeoRules restrict where a product is sold and what each region sees.
type GeoRules struct {
	Regions         []string                          `json:"region_availability"`
	RegionalContent map[string]domain.RegionalContent `json:"regional_content"`
}

// SaveGeoRules replaces the product's region availability and regional
// copy. Region codes are upper-cased and must be ISO-3166 alpha-2.
func (s *Service) SaveGeoRules(ctx context.Context, owner, productID string, rules GeoRules) (*domain.Product, error) {
	regions, err := middleware.NormalizeRegions(rules.Regions)
	if err != nil {
		return nil, err
	}
	content := make(map[string]domain.RegionalContent, len(rules.RegionalContent))
	for code, rc := range rules.RegionalContent {
		norm, err := middleware.NormalizeRegions([]string{code})
		if err != nil {
			return nil, err
		}
		rc.Price = middleware.SanitizeString(rc.Price)
		rc.ShippingText = middleware.SanitizeString(rc.ShippingText)
		if rc == (domain.RegionalContent{}) || len(norm) == 0 {
			continue
		}
		content[norm[0]] = rc
	}

	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	if err := plans.Require(st.Plan, plans.FeatureGeoBanner); err != nil {
		return nil, err
	}
	p, err := s.Product(ctx, owner, productID)
	if err != nil {
		return nil, err
	}
	p.RegionAvailability = regions
	p.RegionalContent = content
	p.UpdatedAt = s.Clock.Now()
	return p, s.ProductRepo.Save(ctx, p)
}

// AnalyzeProduct runs the remote product analysis and keeps its answer on
// the product.
func (s *Service) AnalyzeProduct(ctx context.Context, owner, productID string) (json.RawMessage, error) {
	p, err := s.Product(ctx, owner, productID)
	if err != nil {
		return nil, err
	}
	var raw json.RawMessage
	err = s.Functions.Call(ctx, functions.RunProductAnalysis, map[string]string{"productId": p.ID}, &raw)
	if err == nil {
		err = remoteFailure(functions.RunProductAnalysis, raw)
	}
	s.Metrics.RemoteCall(err)
	if err != nil {
		s.Log.Warn("product analysis failed", zap.String("product_id", p.ID), zap.Error(err))
		return nil, err
	}

	p.OptimizationResults = raw
	p.UpdatedAt = s.Clock.Now()
	if err := s.ProductRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeProductAnalysis, "Product Analysis: "+p.Name, raw, 1); err != nil {
		return nil, err
	}
	return raw, nil
}

// remoteFailure reads an error out of an answer that has no typed envelope.
func remoteFailure(function string, raw json.RawMessage) error {
	if len(raw) == 0 || string(raw) == "null" {
		return &functions.RemoteError{Function: function, Message: "empty result"}
	}
	if msg := gjson.GetBytes(raw, "error").String(); msg != "" {
		return &functions.RemoteError{Function: function, Message: msg}
	}
	if ok := gjson.GetBytes(raw, "success"); ok.Exists() && !ok.Bool() {
		return &functions.RemoteError{Function: function, Message: "unsuccessful result"}
	}
	return nil
}

type ImportInput struct {
	SourceURL      string `json:"source_url"`
	ProductID      string `json:"product_id"`
	MinRating      int    `json:"min_rating"`
	WithImagesOnly bool   `json:"with_images_only"`
}

type ImportResult struct {
	Count   int                     `json:"count"`
	Reviews []*domain.ProductReview `json:"reviews"`
}

type importResponse struct {
	functions.Envelope
	Count   int                     `json:"count"`
	Reviews []*domain.ProductReview `json:"reviews"`
}

// ImportReviews pulls marketplace reviews for a product (pro plan).
func (s *Service) ImportReviews(ctx context.Context, owner string, in ImportInput) (*ImportResult, error) {
	in.SourceURL = strings.TrimSpace(in.SourceURL)
	if err := middleware.ValidateURL("source_url", in.SourceURL); err != nil {
		return nil, err
	}
	if err := middleware.ValidateRating("min_rating", in.MinRating); err != nil {
		return nil, err
	}
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	if err := plans.Require(st.Plan, plans.FeatureReviewImporter); err != nil {
		return nil, err
	}
	p, err := s.Product(ctx, owner, in.ProductID)
	if err != nil {
		return nil, err
	}

	filter := domain.ReviewFilter{MinRating: in.MinRating, WithImagesOnly: in.WithImagesOnly}
	var resp importResponse
	err = s.Functions.Call(ctx, functions.ImportReviews, map[string]any{
		"sourceUrl": in.SourceURL,
		"productId": p.ID,
		"filters":   filter,
	}, &resp)
	if err == nil {
		err = resp.Failed(functions.ImportReviews)
	}
	s.Metrics.RemoteCall(err)
	if err != nil {
		return nil, err
	}

	count := resp.Count
	if len(resp.Reviews) > 0 {
		known, err := s.importedReviews(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		count = 0
		for _, r := range resp.Reviews {
			if !filter.Keep(r) {
				continue
			}
			// the remote id is only unique within its marketplace
			r.ExternalID, r.ID = r.ID, uuid.NewString()
			r.CreatedAt = s.Clock.Now()
			if prev, ok := known[r.ExternalID]; ok && r.ExternalID != "" {
				r.ID = prev.ID
				r.CreatedAt = prev.CreatedAt
			}
			r.ProductID = p.ID
			r.Owner = owner
			r.Source = in.SourceURL
			r.HasImages = r.HasImages || len(r.Images) > 0
			if err := s.ReviewRepo.Save(ctx, r); err != nil {
				return nil, err
			}
			count++
		}
	}
	s.Log.Info("reviews imported", zap.String("product_id", p.ID), zap.Int("count", count))

	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeReviewImport, "Review Import: "+p.Name,
		map[string]any{"source_url": in.SourceURL, "count": count}, count); err != nil {
		return nil, err
	}
	newest, err := s.ReviewRepo.ListByProduct(ctx, p.ID, newestReviews)
	if err != nil {
		return nil, err
	}
	return &ImportResult{Count: count, Reviews: newest}, nil
}

// importedReviews indexes a product's reviews by marketplace id so a
// re-import updates rows instead of duplicating them.
func (s *Service) importedReviews(ctx context.Context, productID string) (map[string]*domain.ProductReview, error) {
	list, err := s.ReviewRepo.ListByProduct(ctx, productID, 0)
	if err != nil {
		return nil, err
	}
	known := make(map[string]*domain.ProductReview, len(list))
	for _, r := range list {
		if r.ExternalID != "" {
			known[r.ExternalID] = r
		}
	}
	return known, nil
}

func (s *Service) Reviews(ctx context.Context, owner, productID string, limit int) ([]*domain.ProductReview, error) {
	if _, err := s.Product(ctx, owner, productID); err != nil {
		return nil, err
	}
	return s.ReviewRepo.ListByProduct(ctx, productID, middleware.ValidateLimit(limit))
}

type Location struct {
	CountryCode string `json:"country_code"`
	Country     string `json:"country,omitempty"`
}

// GeoLocate resolves the shopper's country from their IP address.
func (s *Service) GeoLocate(ctx context.Context, ip string) (*Location, error) {
	var resp struct {
		Location
		Error string `json:"error,omitempty"`
	}
	err := s.Functions.Call(ctx, functions.GetGeoLocation, map[string]string{"ip": ip}, &resp)
	if err == nil && resp.CountryCode == "" {
		msg := resp.Error
		if msg == "" {
			msg = "no country for address"
		}
		err = &functions.RemoteError{Function: functions.GetGeoLocation, Message: msg}
	}
	s.Metrics.RemoteCall(err)
	if err != nil {
		s.Log.Debug("geo lookup failed", zap.String("ip", ip), zap.Error(err))
		return nil, err
	}
	loc := resp.Location
	loc.CountryCode = strings.ToUpper(loc.CountryCode)
	return &loc, nil
}
