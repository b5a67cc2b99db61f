package scans

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
)

// Service implements use-cases untuk Scan.
// Service is designed to be used concurrently and is thread-safe.
type Service struct {
	Repo      domain.Repository
	Issues    domain.IssueRepository
	Stores    stores.Repository
	Functions functions.Caller
	Clock     application.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics

	mu      sync.Mutex
	running map[string]bool // store id -> scan in flight
	wg      sync.WaitGroup
}

// remote issue as returned by scanStore
type remoteIssue struct {
	Type            string `json:"type"`
	Impact          string `json:"impact"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	FixInstructions string `json:"fix_instructions"`
	FixCode         string `json:"fix_code"`
	PageURL         string `json:"page_url"`
	AutoFixable     bool   `json:"auto_fixable"`
}

type scanResponse struct {
	functions.Envelope
	PagesScanned    int           `json:"pages_scanned"`
	Scores          *remoteScores `json:"scores"`
	Issues          []remoteIssue `json:"issues"`
	Recommendations []string      `json:"recommendations"`
}

// The remote scores object uses bare category names.
type remoteScores struct {
	Speed         int `json:"speed"`
	SEO           int `json:"seo"`
	Accessibility int `json:"accessibility"`
	Content       int `json:"content"`
	Bloat         int `json:"bloat"`
}

//
// ==== USE CASES ====
//

// StartFullScan records a running scan and returns it right away; the
// remote scan runs in the background and the caller polls Get.
func (s *Service) StartFullScan(ctx context.Context, owner string) (*domain.ScanResult, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	if err := s.claim(st.ID); err != nil {
		return nil, err
	}

	now := s.Clock.Now()
	scan := &domain.ScanResult{
		ID:        uuid.NewString(),
		StoreID:   st.ID,
		Owner:     owner,
		ScanType:  "full",
		Status:    domain.StatusRunning,
		StartedAt: now,
		CreatedAt: now,
	}
	if err := s.Repo.Save(ctx, scan); err != nil {
		s.release(st.ID)
		return nil, err
	}

	s.Metrics.ScanStarted()
	s.wg.Add(1)
	// 🚀 Jalankan di background, biar jalan sampai selesai
	go func(scan domain.ScanResult, shop string) {
		defer s.wg.Done()
		defer s.release(scan.StoreID)
		s.run(context.Background(), &scan, shop)
	}(*scan, st.ShopDomain)

	return scan, nil
}

// Wait blocks until every background scan has finished.
func (s *Service) Wait() { s.wg.Wait() }

func (s *Service) claim(storeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running == nil {
		s.running = map[string]bool{}
	}
	if s.running[storeID] {
		return domain.ErrScanInProgress
	}
	s.running[storeID] = true
	return nil
}

func (s *Service) release(storeID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.running, storeID)
}

func (s *Service) run(ctx context.Context, scan *domain.ScanResult, shop string) {
	log := s.Log.With(zap.String("scan_id", scan.ID), zap.String("store_id", scan.StoreID))
	log.Info("scan started", zap.String("shop", shop))

	var resp scanResponse
	err := s.Functions.Call(ctx, functions.ScanStore, map[string]string{
		"storeId":    scan.StoreID,
		"shopDomain": shop,
		"scanType":   scan.ScanType,
	}, &resp)
	if err == nil {
		err = resp.Failed(functions.ScanStore)
	}
	s.Metrics.RemoteCall(err)
	if err != nil {
		s.fail(ctx, log, scan, err)
		return
	}

	now := s.Clock.Now()
	issues := make([]*domain.Issue, 0, len(resp.Issues))
	for i, ri := range resp.Issues {
		issue := &domain.Issue{
			ID:              uuid.NewString(),
			ScanID:          scan.ID,
			StoreID:         scan.StoreID,
			Type:            domain.NormalizeType(ri.Type),
			Impact:          domain.NormalizeImpact(ri.Impact),
			Status:          domain.IssueOpen,
			Title:           ri.Title,
			Description:     ri.Description,
			FixInstructions: ri.FixInstructions,
			FixCode:         ri.FixCode,
			PageURL:         ri.PageURL,
			AutoFixable:     ri.AutoFixable,
			// keep the reported order
			CreatedAt: now.Add(time.Duration(i)),
		}
		if err := s.Issues.Save(ctx, issue); err != nil {
			// the failed scan still reports the issues that were kept
			scan.Counts = domain.Tally(issues)
			s.fail(ctx, log, scan, fmt.Errorf("save issue: %w", err))
			return
		}
		issues = append(issues, issue)
	}

	scan.Counts = domain.Tally(issues)
	scan.PagesScanned = resp.PagesScanned
	scan.Recommendations = resp.Recommendations
	scan.Status = domain.StatusCompleted
	scan.CompletedAt = &now
	if err := s.Repo.Save(ctx, scan); err != nil {
		log.Error("scan save failed", zap.Error(err))
		s.Metrics.ScanFinished(true)
		return
	}

	if err := s.applyScores(ctx, scan.StoreID, resp.Scores, now); err != nil {
		log.Warn("store scores not updated", zap.Error(err))
	}
	s.Metrics.ScanFinished(false)
	log.Info("scan finished",
		zap.Int("issues", scan.IssuesFound),
		zap.Int("critical", scan.Critical),
		zap.Int("pages", scan.PagesScanned),
	)
}

func (s *Service) applyScores(ctx context.Context, storeID string, sc *remoteScores, at time.Time) error {
	st, err := s.Stores.Get(ctx, storeID)
	if err != nil {
		return err
	}
	if sc != nil {
		st.ApplyScores(stores.Scores{
			Speed:         sc.Speed,
			SEO:           sc.SEO,
			Accessibility: sc.Accessibility,
			Content:       sc.Content,
			Bloat:         sc.Bloat,
		})
	}
	st.LastScanDate = &at
	st.UpdatedAt = at
	return s.Stores.Save(ctx, st)
}

func (s *Service) fail(ctx context.Context, log *zap.Logger, scan *domain.ScanResult, cause error) {
	now := s.Clock.Now()
	scan.Status = domain.StatusFailed
	scan.ErrorMessage = cause.Error()
	scan.CompletedAt = &now
	if err := s.Repo.Save(ctx, scan); err != nil {
		log.Error("scan save failed", zap.Error(err))
	}
	s.Metrics.ScanFinished(true)
	log.Warn("scan failed", zap.Error(cause))
}

// QueueScan records a pending scan for the dashboard quick action.
func (s *Service) QueueScan(ctx context.Context, owner string) (*domain.ScanResult, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	scan := &domain.ScanResult{
		ID:        uuid.NewString(),
		StoreID:   st.ID,
		Owner:     owner,
		ScanType:  "full",
		Status:    domain.StatusPending,
		StartedAt: now,
		CreatedAt: now,
	}
	return scan, s.Repo.Save(ctx, scan)
}

// LatestResult is the newest scan of the store with its issues, most severe first.
type LatestResult struct {
	Scan   *domain.ScanResult `json:"scan"`
	Issues []*domain.Issue    `json:"issues"`
}

func (s *Service) Latest(ctx context.Context, owner string) (LatestResult, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return LatestResult{}, err
	}
	list, err := s.Repo.ListByStore(ctx, st.ID, 1)
	if err != nil {
		return LatestResult{}, err
	}
	if len(list) == 0 {
		return LatestResult{Issues: []*domain.Issue{}}, nil
	}
	issues, err := s.Issues.ListByScan(ctx, list[0].ID)
	if err != nil {
		return LatestResult{}, err
	}
	domain.SortByImpact(issues)
	return LatestResult{Scan: list[0], Issues: issues}, nil
}

// Recent ambil N scan terakhir
func (s *Service) Recent(ctx context.Context, owner string, limit int) ([]*domain.ScanResult, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if err != nil {
		return nil, err
	}
	return s.Repo.ListByStore(ctx, st.ID, limit)
}

// Get ambil 1 scan by id
func (s *Service) Get(ctx context.Context, owner, id string) (*domain.ScanResult, error) {
	scan, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if scan.Owner != owner {
		return nil, fmt.Errorf("scan %s: %w", id, records.ErrNotFound)
	}
	return scan, nil
}

// ListIssues returns a scan's issues, most severe first, narrowed by f.
func (s *Service) ListIssues(ctx context.Context, owner, scanID string, f domain.Filter) ([]*domain.Issue, error) {
	if _, err := s.Get(ctx, owner, scanID); err != nil {
		return nil, err
	}
	issues, err := s.Issues.ListByScan(ctx, scanID)
	if err != nil {
		return nil, err
	}
	domain.SortByImpact(issues)
	return f.Apply(issues), nil
}

// ApplyFix asks the backend to apply the issue's fix and marks it fixed.
func (s *Service) ApplyFix(ctx context.Context, owner, issueID string) (*domain.Issue, error) {
	issue, err := s.Issues.Get(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if _, err := s.Get(ctx, owner, issue.ScanID); err != nil {
		return nil, err
	}
	if issue.Status == domain.IssueFixed {
		return issue, nil
	}

	var resp functions.Envelope
	err = s.Functions.Call(ctx, functions.ApplyFix, map[string]string{
		"issueId": issue.ID,
		"storeId": issue.StoreID,
		"fixCode": issue.FixCode,
	}, &resp)
	if err == nil {
		err = resp.Failed(functions.ApplyFix)
	}
	s.Metrics.RemoteCall(err)
	if err != nil {
		s.Log.Warn("apply fix failed", zap.String("issue_id", issue.ID), zap.Error(err))
		return nil, err
	}

	now := s.Clock.Now()
	issue.Status = domain.IssueFixed
	issue.FixedAt = &now
	return issue, s.Issues.Save(ctx, issue)
}
