package scans

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const owner = "owner@shop.io"

type fixture struct {
	svc   *Service
	fns   *testutil.Functions
	store *stores.Store
}

func setup(t *testing.T) fixture {
	t.Helper()
	repos := testutil.Repos(t)
	clock := testutil.NewClock()
	st := &stores.Store{ID: "store-1", Owner: owner, ShopDomain: "demo.myshopify.com", Plan: stores.PlanPro, CreatedAt: clock.Now()}
	require.NoError(t, repos.Stores.Save(context.Background(), st))

	fns := testutil.NewFunctions()
	return fixture{
		svc: &Service{
			Repo:      repos.Scans,
			Issues:    repos.Issues,
			Stores:    repos.Stores,
			Functions: fns,
			Clock:     clock,
			Log:       zap.NewNop(),
		},
		fns:   fns,
		store: st,
	}
}

func scanAnswer(map[string]any) (any, error) {
	return map[string]any{
		"success":       true,
		"pages_scanned": 12,
		"scores":        map[string]int{"speed": 55, "seo": 81, "accessibility": 60, "content": 75, "bloat": 40},
		"issues": []map[string]any{
			{"type": "seo", "impact": "low", "title": "Missing meta description", "description": "Home page"},
			{"type": "speed", "impact": "critical", "title": "Render-blocking scripts", "description": "3 scripts", "auto_fixable": true, "fix_code": "<script defer>"},
			{"type": "accessibility", "impact": "moderate", "title": "Images without alt text", "description": "14 images"},
		},
		"recommendations": []string{"Compress hero images"},
	}, nil
}

func TestStartFullScan_Completes(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.fns.On(functions.ScanStore, scanAnswer)

	scan, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRunning, scan.Status)
	f.svc.Wait()

	got, err := f.svc.Get(ctx, owner, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, domain.Counts{IssuesFound: 3, Critical: 1, Medium: 1, Low: 1}, got.Counts)
	assert.Equal(t, 12, got.PagesScanned)
	assert.Equal(t, []string{"Compress hero images"}, got.Recommendations)
	assert.NotNil(t, got.CompletedAt)

	st, err := f.svc.Stores.Get(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, st.Speed)
	assert.Equal(t, 62, st.HealthScore)
	assert.NotNil(t, st.LastScanDate)

	latest, err := f.svc.Latest(ctx, owner)
	require.NoError(t, err)
	require.Len(t, latest.Issues, 3)
	assert.Equal(t, domain.ImpactCritical, latest.Issues[0].Impact)
	assert.Equal(t, domain.TypePerformance, latest.Issues[0].Type)
	assert.Equal(t, domain.ImpactLow, latest.Issues[2].Impact)

	filtered, err := f.svc.ListIssues(ctx, owner, scan.ID, domain.Filter{Type: "all", Search: "ALT TEXT"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	assert.Equal(t, "Images without alt text", filtered[0].Title)
}

func TestStartFullScan_RemoteFailure(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.fns.On(functions.ScanStore, func(map[string]any) (any, error) {
		return map[string]any{"success": false, "error": "theme unavailable"}, nil
	})

	scan, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	f.svc.Wait()

	got, err := f.svc.Get(ctx, owner, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "theme unavailable")

	st, err := f.svc.Stores.Get(ctx, f.store.ID)
	require.NoError(t, err)
	assert.Nil(t, st.LastScanDate, "store untouched on failure")
}

// brokenIssues stops accepting issues after the first ok saves.
type brokenIssues struct {
	domain.IssueRepository
	ok int
}

func (b *brokenIssues) Save(ctx context.Context, i *domain.Issue) error {
	if b.ok == 0 {
		return errors.New("disk full")
	}
	b.ok--
	return b.IssueRepository.Save(ctx, i)
}

func TestStartFullScan_IssueSaveFails(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.svc.Issues = &brokenIssues{IssueRepository: f.svc.Issues, ok: 2}
	f.fns.On(functions.ScanStore, scanAnswer)

	scan, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	f.svc.Wait()

	got, err := f.svc.Get(ctx, owner, scan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Contains(t, got.ErrorMessage, "disk full")

	kept, err := f.svc.ListIssues(ctx, owner, scan.ID, domain.Filter{})
	require.NoError(t, err)
	require.Len(t, kept, 2)
	assert.Equal(t, len(kept), got.IssuesFound)
	assert.Equal(t, domain.Counts{IssuesFound: 2, Critical: 1, Low: 1}, got.Counts)
}

func TestStartFullScan_OnePerStore(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	release := make(chan struct{})
	f.fns.On(functions.ScanStore, func(p map[string]any) (any, error) {
		<-release
		return scanAnswer(p)
	})

	_, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	_, err = f.svc.StartFullScan(ctx, owner)
	assert.ErrorIs(t, err, domain.ErrScanInProgress)

	close(release)
	f.svc.Wait()

	_, err = f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	f.svc.Wait()
}

func TestStartFullScan_NoStore(t *testing.T) {
	f := setup(t)
	_, err := f.svc.StartFullScan(context.Background(), "nobody@x.io")
	assert.ErrorIs(t, err, stores.ErrNoStore)
}

func TestQueueScanAndRecent(t *testing.T) {
	ctx := context.Background()
	f := setup(t)

	first, err := f.svc.QueueScan(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, first.Status)
	second, err := f.svc.QueueScan(ctx, owner)
	require.NoError(t, err)

	recent, err := f.svc.Recent(ctx, owner, 5)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, second.ID, recent[0].ID)

	_, err = f.svc.Get(ctx, "other@x.io", first.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestLatest_Empty(t *testing.T) {
	f := setup(t)
	latest, err := f.svc.Latest(context.Background(), owner)
	require.NoError(t, err)
	assert.Nil(t, latest.Scan)
	assert.Empty(t, latest.Issues)
}

func TestApplyFix(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.fns.On(functions.ScanStore, scanAnswer)
	f.fns.On(functions.ApplyFix, func(p map[string]any) (any, error) {
		return map[string]any{"success": true}, nil
	})

	scan, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	f.svc.Wait()

	issues, err := f.svc.ListIssues(ctx, owner, scan.ID, domain.Filter{Impact: "critical"})
	require.NoError(t, err)
	require.Len(t, issues, 1)

	fixed, err := f.svc.ApplyFix(ctx, owner, issues[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueFixed, fixed.Status)
	assert.NotNil(t, fixed.FixedAt)

	calls := f.fns.Calls(functions.ApplyFix)
	require.Len(t, calls, 1)
	assert.Equal(t, "<script defer>", calls[0]["fixCode"])
	assert.Equal(t, f.store.ID, calls[0]["storeId"])

	open, err := f.svc.ListIssues(ctx, owner, scan.ID, domain.Filter{Status: "open"})
	require.NoError(t, err)
	assert.Len(t, open, 2)
}

func TestApplyFix_RemoteRefuses(t *testing.T) {
	ctx := context.Background()
	f := setup(t)
	f.fns.On(functions.ScanStore, scanAnswer)
	f.fns.On(functions.ApplyFix, func(map[string]any) (any, error) {
		return map[string]any{"success": false, "error": "not auto-fixable"}, nil
	})

	scan, err := f.svc.StartFullScan(ctx, owner)
	require.NoError(t, err)
	f.svc.Wait()
	issues, err := f.svc.ListIssues(ctx, owner, scan.ID, domain.Filter{})
	require.NoError(t, err)

	_, err = f.svc.ApplyFix(ctx, owner, issues[0].ID)
	assert.ErrorIs(t, err, functions.ErrRemote)

	again, err := f.svc.Issues.Get(ctx, issues[0].ID)
	require.NoError(t, err)
	assert.Equal(t, domain.IssueOpen, again.Status)

}
