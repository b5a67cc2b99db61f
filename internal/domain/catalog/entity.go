package catalog

import (
	"encoding/json"
	"strings"
	"time"
)

// RegionalContent is the per-country price/shipping copy shown to shoppers.
type RegionalContent struct {
	Price        string `json:"price,omitempty"`
	ShippingText string `json:"shipping_text,omitempty"`
}

// Product mirrors a platform product the tools operate on.
type Product struct {
	ID                  string                     `json:"id"`
	Owner               string                     `json:"created_by"`
	ShopifyID           string                     `json:"shopify_id"`
	Name                string                     `json:"name"`
	Description         string                     `json:"description"`
	Price               float64                    `json:"price,omitempty"`
	RegionAvailability  []string                   `json:"region_availability"`
	RegionalContent     map[string]RegionalContent `json:"regional_content,omitempty"`
	OptimizationResults json.RawMessage            `json:"optimization_results,omitempty"`
	CreatedAt           time.Time                  `json:"created_date"`
	UpdatedAt           time.Time                  `json:"updated_date"`
}

// VisibleIn reports whether shoppers from country may see the product.
// An empty availability list means worldwide.
func (p *Product) VisibleIn(country string) bool {
	if len(p.RegionAvailability) == 0 {
		return true
	}
	country = strings.ToUpper(strings.TrimSpace(country))
	for _, r := range p.RegionAvailability {
		if r == country {
			return true
		}
	}
	return false
}

// ContentFor returns the regional copy for country, if any.
func (p *Product) ContentFor(country string) (RegionalContent, bool) {
	rc, ok := p.RegionalContent[strings.ToUpper(strings.TrimSpace(country))]
	return rc, ok
}

// ProductReview is a review imported from a marketplace.
type ProductReview struct {
	ID         string    `json:"id"`
	ProductID  string    `json:"product_id"`
	Owner      string    `json:"created_by"`
	// ExternalID is the marketplace's id for the review.
	ExternalID string    `json:"external_id,omitempty"`
	Author     string    `json:"author"`
	Rating     int       `json:"rating"`
	Body       string    `json:"body"`
	Source     string    `json:"source,omitempty"`
	HasImages  bool      `json:"has_images"`
	Images     []string  `json:"images,omitempty"`
	CreatedAt  time.Time `json:"created_date"`
}

// ReviewFilter selects which imported reviews to keep.
type ReviewFilter struct {
	MinRating      int  `json:"minRating"`
	WithImagesOnly bool `json:"withImagesOnly"`
}

func (f ReviewFilter) Keep(r *ProductReview) bool {
	if r.Rating < f.MinRating {
		return false
	}
	if f.WithImagesOnly && !r.HasImages && len(r.Images) == 0 {
		return false
	}
	return true
}
