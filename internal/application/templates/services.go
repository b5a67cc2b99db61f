package templates

import (
	"context"
	_ "embed"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/templates"
)

//go:embed seed.yaml
var seedYAML []byte

type seedSection struct {
	Name     string         `yaml:"name"`
	Type     string         `yaml:"type"`
	Settings map[string]any `yaml:"settings"`
}

type seedTemplate struct {
	Name         string        `yaml:"name"`
	Category     string        `yaml:"category"`
	Description  string        `yaml:"description"`
	PreviewImage string        `yaml:"preview_image"`
	IsPremium    bool          `yaml:"is_premium"`
	InstallCount int           `yaml:"install_count"`
	Sections     []seedSection `yaml:"sections"`
	ColorScheme  struct {
		Primary   string `yaml:"primary"`
		Secondary string `yaml:"secondary"`
		Accent    string `yaml:"accent"`
	} `yaml:"color_scheme"`
}

func (t seedTemplate) template() *domain.Template {
	sections := make([]domain.Section, 0, len(t.Sections))
	for _, s := range t.Sections {
		sections = append(sections, domain.Section{Name: s.Name, Type: s.Type, Settings: s.Settings})
	}
	return &domain.Template{
		Name:         t.Name,
		Category:     domain.Category(t.Category),
		Description:  t.Description,
		PreviewImage: t.PreviewImage,
		IsPremium:    t.IsPremium,
		InstallCount: t.InstallCount,
		Sections:     sections,
		ColorScheme: domain.ColorScheme{
			Primary:   t.ColorScheme.Primary,
			Secondary: t.ColorScheme.Secondary,
			Accent:    t.ColorScheme.Accent,
		},
	}
}

// Seed parses the built-in demo templates.
func Seed() ([]*domain.Template, error) {
	var raw []seedTemplate
	if err := yaml.Unmarshal(seedYAML, &raw); err != nil {
		return nil, fmt.Errorf("parse template seed: %w", err)
	}
	out := make([]*domain.Template, 0, len(raw))
	for _, t := range raw {
		out = append(out, t.template())
	}
	return out, nil
}

// Service implements use-cases untuk Template
type Service struct {
	Repo   domain.Repository
	Stores stores.Repository
	Jobs   *appjobs.Service
	Clock  application.Clock
	Log    *zap.Logger

	mu sync.Mutex
}

// List returns the template gallery, seeding the demo templates when it is empty.
func (s *Service) List(ctx context.Context, f domain.Filter) ([]*domain.Template, error) {
	list, err := s.Repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		if list, err = s.seed(ctx); err != nil {
			return nil, err
		}
	}
	return f.Apply(list), nil
}

func (s *Service) seed(ctx context.Context) ([]*domain.Template, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// another request may have seeded while we waited
	if list, err := s.Repo.List(ctx); err != nil || len(list) > 0 {
		return list, err
	}
	seeded, err := Seed()
	if err != nil {
		return nil, err
	}
	for _, t := range seeded {
		t.ID = uuid.NewString()
		t.CreatedAt = s.Clock.Now()
		if err := s.Repo.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	s.Log.Info("demo templates seeded", zap.Int("count", len(seeded)))
	return seeded, nil
}

// Install applies a template to the owner's store. Premium templates need
// the pro plan.
func (s *Service) Install(ctx context.Context, owner, id string) (*domain.Template, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.IsPremium {
		if err := plans.Require(st.Plan, plans.FeaturePremiumTemplates); err != nil {
			return nil, err
		}
	}
	t.InstallCount++
	if err := s.Repo.Save(ctx, t); err != nil {
		return nil, err
	}
	if _, err := s.Jobs.Record(ctx, owner, jobs.TypeTemplateGeneration, "Install Template: "+t.Name,
		map[string]any{"template_id": t.ID, "sections": len(t.Sections)}, len(t.Sections)); err != nil {
		return nil, err
	}
	s.Log.Info("template installed", zap.String("template", t.Name), zap.String("store_id", st.ID))
	return t, nil
}
