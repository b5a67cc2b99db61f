// Package dashboard assembles the merchant's landing page.
package dashboard

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appscans "github.com/bryanwahyu/automaton-shop/internal/application/scans"
	appstores "github.com/bryanwahyu/automaton-shop/internal/application/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
)

const (
	recentScans = 5
	recentJobs  = 10
)

type Service struct {
	Stores *appstores.Service
	Scans  *appscans.Service
	Jobs   *appjobs.Service
	Log    *zap.Logger
}

type Overview struct {
	Store       *stores.Store           `json:"store"`
	HealthScore int                     `json:"health_score"`
	RecentScans []*scans.ScanResult     `json:"recent_scans"`
	RecentJobs  []*jobs.OptimizationJob `json:"recent_jobs"`
	Breakdown   map[string]int          `json:"breakdown"`
}

// Overview makes sure the merchant has a store (the demo store on first
// visit) and loads its recent activity.
func (s *Service) Overview(ctx context.Context, owner string) (*Overview, error) {
	st, err := s.Stores.EnsureDemo(ctx, owner)
	if err != nil {
		return nil, err
	}

	out := &Overview{
		Store:       st,
		HealthScore: st.HealthScore,
		Breakdown: map[string]int{
			"speed":         st.Speed,
			"seo":           st.SEO,
			"accessibility": st.Accessibility,
			"content":       st.Content,
			"bloat":         st.Bloat,
		},
	}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.RecentScans, err = s.Scans.Recent(gctx, owner, recentScans)
		return err
	})
	g.Go(func() error {
		var err error
		out.RecentJobs, err = s.Jobs.List(gctx, owner, jobs.Filter{Limit: recentJobs})
		return err
	})
	if err := g.Wait(); err != nil {
		s.Log.Error("dashboard load failed", zap.String("owner", owner), zap.Error(err))
		return nil, err
	}
	return out, nil
}

// ActionResult holds whichever record a quick action created.
type ActionResult struct {
	Action string                `json:"action"`
	Scan   *scans.ScanResult     `json:"scan,omitempty"`
	Job    *jobs.OptimizationJob `json:"job,omitempty"`
}

// QuickAction runs one of the dashboard shortcuts: scan, images, autofix or templates.
func (s *Service) QuickAction(ctx context.Context, owner, action string) (*ActionResult, error) {
	if action == "scan" {
		scan, err := s.Scans.QueueScan(ctx, owner)
		if err != nil {
			return nil, err
		}
		return &ActionResult{Action: action, Scan: scan}, nil
	}
	job, err := s.Jobs.Queue(ctx, owner, action)
	if err != nil {
		return nil, err
	}
	return &ActionResult{Action: action, Job: job}, nil
}
