package stores

import (
	"errors"
	"math"
	"strings"
	"time"
)

// ErrNoStore is returned when the merchant has not connected a store yet.
var ErrNoStore = errors.New("no store connected")

// Plan enum
type Plan string

const (
	PlanBasic  Plan = "basic"
	PlanGrowth Plan = "growth"
	PlanPro    Plan = "pro"
)

// ConnectionStatus reflects the last platform connectivity check.
type ConnectionStatus string

const (
	ConnectionUnknown   ConnectionStatus = "checking"
	ConnectionConnected ConnectionStatus = "connected"
	ConnectionError     ConnectionStatus = "error"
)

type Settings struct {
	AutoScan      bool `json:"auto_scan"`
	Notifications bool `json:"notifications"`
}

// Scores holds the per-category 0-100 scores of a store.
type Scores struct {
	Speed         int `json:"speed_score"`
	SEO           int `json:"seo_score"`
	Accessibility int `json:"accessibility_score"`
	Content       int `json:"content_score"`
	Bloat         int `json:"bloat_score"`
}

// Health averages the five category scores.
func (s Scores) Health() int {
	sum := s.Speed + s.SEO + s.Accessibility + s.Content + s.Bloat
	return int(math.Round(float64(sum) / 5))
}

// Store is a connected e-commerce shop tracked by the dashboard.
type Store struct {
	ID          string `json:"id"`
	Owner       string `json:"created_by"`
	ShopDomain  string `json:"shop_domain"`
	StoreName   string `json:"store_name"`
	ThemeID     string `json:"theme_id,omitempty"`
	HealthScore int    `json:"health_score"`
	Scores
	LastScanDate     *time.Time       `json:"last_scan_date,omitempty"`
	Plan             Plan             `json:"plan"`
	Settings         Settings         `json:"settings"`
	Connection       ConnectionStatus `json:"connection_status,omitempty"`
	ConnectionDetail string           `json:"connection_error,omitempty"`
	CreatedAt        time.Time        `json:"created_date"`
	UpdatedAt        time.Time        `json:"updated_date"`
}

// ApplyScores replaces the category scores and recomputes the health score.
func (s *Store) ApplyScores(sc Scores) {
	s.Scores = clampScores(sc)
	s.HealthScore = s.Scores.Health()
}

func clampScores(sc Scores) Scores {
	return Scores{
		Speed:         clamp(sc.Speed),
		SEO:           clamp(sc.SEO),
		Accessibility: clamp(sc.Accessibility),
		Content:       clamp(sc.Content),
		Bloat:         clamp(sc.Bloat),
	}
}

func clamp(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// NormalizeShopDomain turns whatever the merchant typed into a
// "<name>.myshopify.com" host.
func NormalizeShopDomain(raw string) string {
	d := strings.ToLower(strings.TrimSpace(raw))
	d = strings.TrimPrefix(d, "https://")
	d = strings.TrimPrefix(d, "http://")
	if i := strings.IndexAny(d, "/?#"); i >= 0 {
		d = d[:i]
	}
	d = strings.Trim(d, ".")
	if d == "" {
		return ""
	}
	if !strings.HasSuffix(d, ".myshopify.com") {
		d += ".myshopify.com"
	}
	return d
}

// DisplayName derives a human name from a shop domain:
// "super-ai-shop.myshopify.com" -> "Super ai shop".
func DisplayName(domain string) string {
	name := strings.TrimSuffix(domain, ".myshopify.com")
	name = strings.ReplaceAll(name, "-", " ")
	if name == "" {
		return ""
	}
	return strings.ToUpper(name[:1]) + name[1:]
}
