package audit

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	domain "github.com/bryanwahyu/automaton-shop/internal/domain/audit"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
)

// How far back the activity log reaches.
const (
	jobWindow  = 50
	scanWindow = 20
)

// Service implements use-cases untuk audit log
type Service struct {
	Stores stores.Repository
	Jobs   jobs.Repository
	Scans  scans.Repository
	Log    *zap.Logger
}

// Logs merges the store's recent jobs and scans, newest first, and narrows
// them with f. A merchant without a store has an empty log.
func (s *Service) Logs(ctx context.Context, owner string, f domain.Filter) ([]domain.Entry, error) {
	st, err := stores.Current(ctx, s.Stores, owner)
	if errors.Is(err, stores.ErrNoStore) {
		return []domain.Entry{}, nil
	}
	if err != nil {
		return nil, err
	}

	var (
		jobList  []*jobs.OptimizationJob
		scanList []*scans.ScanResult
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		jobList, err = s.Jobs.List(gctx, jobs.Filter{StoreID: st.ID, Limit: jobWindow})
		return err
	})
	g.Go(func() error {
		var err error
		scanList, err = s.Scans.ListByStore(gctx, st.ID, scanWindow)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(jobList)+len(scanList))
	for _, j := range jobList {
		entries = append(entries, fromJob(j))
	}
	for _, sc := range scanList {
		entries = append(entries, fromScan(sc))
	}
	sort.SliceStable(entries, func(i, k int) bool {
		return entries[i].CreatedAt.After(entries[k].CreatedAt)
	})
	return f.Apply(entries), nil
}

func fromJob(j *jobs.OptimizationJob) domain.Entry {
	return domain.Entry{
		ID:             j.ID,
		Type:           domain.KindOptimization,
		Title:          j.Title,
		Status:         string(j.Status),
		Progress:       j.Progress,
		CreatedAt:      j.CreatedAt,
		CompletedAt:    j.CompletedAt,
		JobType:        string(j.JobType),
		ItemsTotal:     j.ItemsTotal,
		ItemsProcessed: j.ItemsProcessed,
		Results:        j.Results,
		ErrorMessage:   j.ErrorMessage,
	}
}

func fromScan(sc *scans.ScanResult) domain.Entry {
	progress := 0
	if sc.Status.Done() {
		progress = 100
	}
	return domain.Entry{
		ID:           sc.ID,
		Type:         domain.KindScan,
		Title:        sc.ScanType + " scan",
		Status:       string(sc.Status),
		Progress:     progress,
		CreatedAt:    sc.CreatedAt,
		CompletedAt:  sc.CompletedAt,
		ErrorMessage: sc.ErrorMessage,
		ScanType:     sc.ScanType,
		IssuesFound:  sc.IssuesFound,
		PagesScanned: sc.PagesScanned,
	}
}

// Summary counts entries by outcome.
type Summary struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Active    int `json:"active"`
	Failed    int `json:"failed"`
}

func Summarize(entries []domain.Entry) Summary {
	sum := Summary{Total: len(entries)}
	for _, e := range entries {
		switch e.Status {
		case "completed":
			sum.Completed++
		case "processing", "running":
			sum.Active++
		case "failed":
			sum.Failed++
		}
	}
	return sum
}

// ExportCSV writes entries with the columns Date, Type, Title, Status, Details.
func ExportCSV(w io.Writer, entries []domain.Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Date", "Type", "Title", "Status", "Details"}); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{
			e.CreatedAt.UTC().Format(time.RFC3339),
			string(e.Type),
			e.Title,
			e.Status,
			e.Details(),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
