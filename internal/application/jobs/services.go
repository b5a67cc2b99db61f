package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Service implements use-cases untuk OptimizationJob
type Service struct {
	Repo      domain.Repository
	Stores    stores.Repository
	Functions functions.Caller
	Clock     application.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics

	wg sync.WaitGroup
}

type quickAction struct {
	jobType domain.Type
	title   string
	items   int
}

var quickActions = map[string]quickAction{
	"images":    {domain.TypeImageOptimization, "Bulk Image Optimization", 25},
	"autofix":   {domain.TypePerformanceFix, "Auto-Fix Performance Issues", 12},
	"templates": {domain.TypeTemplateGeneration, "Generate Homepage Template", 1},
}

// Queue records a queued job for a dashboard quick action.
func (s *Service) Queue(ctx context.Context, owner, action string) (*domain.OptimizationJob, error) {
	qa, ok := quickActions[action]
	if !ok {
		return nil, middleware.Invalid("action", "unknown quick action %q", action)
	}
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	job := &domain.OptimizationJob{
		ID:         uuid.NewString(),
		StoreID:    st.ID,
		Owner:      owner,
		JobType:    qa.jobType,
		Title:      qa.title,
		Status:     domain.StatusQueued,
		ItemsTotal: qa.items,
		StartedAt:  now,
		CreatedAt:  now,
	}
	return job, s.Repo.Save(ctx, job)
}

// Record stores a finished job for work that already completed (AI tool runs).
func (s *Service) Record(ctx context.Context, owner string, typ domain.Type, title string, results any, items int) (*domain.OptimizationJob, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	raw, err := encodeResults(results)
	if err != nil {
		return nil, err
	}
	if items <= 0 {
		items = 1
	}
	now := s.Clock.Now()
	job := &domain.OptimizationJob{
		ID:         uuid.NewString(),
		StoreID:    st.ID,
		Owner:      owner,
		JobType:    typ,
		Title:      title,
		ItemsTotal: items,
		StartedAt:  now,
		CreatedAt:  now,
	}
	job.Complete(raw, now)
	return job, s.Repo.Save(ctx, job)
}

func encodeResults(v any) (json.RawMessage, error) {
	switch r := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return r, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode job results: %w", err)
	}
	return b, nil
}

func (s *Service) List(ctx context.Context, owner string, f domain.Filter) ([]*domain.OptimizationJob, error) {
	f.Owner = owner
	f.Limit = middleware.ValidateLimit(f.Limit)
	return s.Repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, owner, id string) (*domain.OptimizationJob, error) {
	job, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if job.Owner != owner {
		return nil, fmt.Errorf("job %s: %w", id, records.ErrNotFound)
	}
	return job, nil
}

// ImageSettings are passed through to the image optimizer.
type ImageSettings struct {
	Quality  int    `json:"quality"`
	Format   string `json:"format"`
	MaxWidth int    `json:"maxWidth"`
}

func (o ImageSettings) withDefaults() ImageSettings {
	if o.Quality <= 0 || o.Quality > 100 {
		o.Quality = 80
	}
	if o.Format == "" {
		o.Format = "webp"
	}
	if o.MaxWidth <= 0 {
		o.MaxWidth = 1920
	}
	return o
}

type optimizedImage struct {
	FileURL       string `json:"file_url"`
	OptimizedURL  string `json:"optimized_url"`
	OriginalSize  int64  `json:"original_size"`
	OptimizedSize int64  `json:"optimized_size"`
}

// OptimizeImages starts a processing job and optimizes each file in the
// background, advancing the job's progress after every file.
func (s *Service) OptimizeImages(ctx context.Context, owner string, fileURLs []string, settings ImageSettings) (*domain.OptimizationJob, error) {
	if len(fileURLs) == 0 {
		return nil, middleware.Invalid("files", "at least one image is required")
	}
	for _, u := range fileURLs {
		if err := middleware.ValidateURL("files", u); err != nil {
			return nil, err
		}
	}
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	job := &domain.OptimizationJob{
		ID:         uuid.NewString(),
		StoreID:    st.ID,
		Owner:      owner,
		JobType:    domain.TypeImageOptimization,
		Title:      fmt.Sprintf("Optimize %d images", len(fileURLs)),
		Status:     domain.StatusProcessing,
		ItemsTotal: len(fileURLs),
		StartedAt:  now,
		CreatedAt:  now,
	}
	if err := s.Repo.Save(ctx, job); err != nil {
		return nil, err
	}

	s.Metrics.JobStarted()
	s.wg.Add(1)
	go func(job domain.OptimizationJob) {
		defer s.wg.Done()
		s.optimize(context.Background(), &job, fileURLs, settings.withDefaults())
	}(*job)
	return job, nil
}

func (s *Service) optimize(ctx context.Context, job *domain.OptimizationJob, fileURLs []string, settings ImageSettings) {
	log := s.Log.With(zap.String("job_id", job.ID))
	results := make([]optimizedImage, 0, len(fileURLs))
	var saved int64

	for i, u := range fileURLs {
		var resp struct {
			functions.Envelope
			optimizedImage
		}
		err := s.Functions.Call(ctx, functions.OptimizeImage, map[string]any{
			"fileUrl":  u,
			"quality":  settings.Quality,
			"format":   settings.Format,
			"maxWidth": settings.MaxWidth,
		}, &resp)
		if err == nil {
			err = resp.Failed(functions.OptimizeImage)
		}
		s.Metrics.RemoteCall(err)
		if err != nil {
			job.Fail(fmt.Errorf("image %d of %d: %w", i+1, len(fileURLs), err), s.Clock.Now())
			s.save(ctx, log, job)
			s.Metrics.JobFinished(true)
			log.Warn("image optimization failed", zap.Error(err))
			return
		}

		img := resp.optimizedImage
		img.FileURL = u
		results = append(results, img)
		if img.OriginalSize > img.OptimizedSize {
			saved += img.OriginalSize - img.OptimizedSize
		}

		if i+1 < len(fileURLs) {
			job.Advance(i+1, s.Clock.Now())
			s.save(ctx, log, job)
		}
	}

	raw, _ := json.Marshal(map[string]any{"images": results, "bytes_saved": saved})
	job.Complete(raw, s.Clock.Now())
	s.save(ctx, log, job)
	s.Metrics.JobFinished(false)
	log.Info("image optimization finished", zap.Int("images", len(results)), zap.Int64("bytes_saved", saved))
}

func (s *Service) save(ctx context.Context, log *zap.Logger, job *domain.OptimizationJob) {
	if err := s.Repo.Save(ctx, job); err != nil {
		log.Error("job save failed", zap.Error(err))
	}
}

// Wait blocks until background jobs finish.
func (s *Service) Wait() { s.wg.Wait() }
