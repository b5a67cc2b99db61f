package templates

import (
	"strings"
	"time"
)

// Category enum
type Category string

const (
	CategoryTechGaming   Category = "tech_gaming"
	CategoryHomeCinema   Category = "home_cinema"
	CategoryGeneralStore Category = "general_store"
	CategoryOneProduct   Category = "one_product"
	CategoryFashion      Category = "fashion"
	CategoryBeauty       Category = "beauty"
)

type Section struct {
	Name     string         `json:"name"`
	Type     string         `json:"type"`
	Settings map[string]any `json:"settings,omitempty"`
}

type ColorScheme struct {
	Primary   string `json:"primary"`
	Secondary string `json:"secondary"`
	Accent    string `json:"accent"`
}

// Template is a theme layout merchants can install.
type Template struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	Category     Category    `json:"category"`
	Description  string      `json:"description"`
	PreviewImage string      `json:"preview_image,omitempty"`
	IsPremium    bool        `json:"is_premium"`
	InstallCount int         `json:"install_count"`
	Sections     []Section   `json:"sections,omitempty"`
	ColorScheme  ColorScheme `json:"color_scheme"`
	CreatedAt    time.Time   `json:"created_date"`
}

// Filter by category and free-text search over name and description.
type Filter struct {
	Category string
	Search   string
}

func (f Filter) Apply(in []*Template) []*Template {
	q := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]*Template, 0, len(in))
	for _, t := range in {
		if f.Category != "" && f.Category != "all" && string(t.Category) != f.Category {
			continue
		}
		if q != "" && !strings.Contains(strings.ToLower(t.Name), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			continue
		}
		out = append(out, t)
	}
	return out
}
