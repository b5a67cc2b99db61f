package dashboard

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appscans "github.com/bryanwahyu/automaton-shop/internal/application/scans"
	appstores "github.com/bryanwahyu/automaton-shop/internal/application/stores"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const owner = "owner@shop.io"

func newService(t *testing.T) *Service {
	t.Helper()
	repos := testutil.Repos(t)
	clock := testutil.NewClock()
	log := zap.NewNop()
	fns := testutil.NewFunctions()
	return &Service{
		Stores: &appstores.Service{Repo: repos.Stores, Functions: fns, Clock: clock, Log: log},
		Scans:  &appscans.Service{Repo: repos.Scans, Issues: repos.Issues, Stores: repos.Stores, Functions: fns, Clock: clock, Log: log},
		Jobs:   &appjobs.Service{Repo: repos.Jobs, Stores: repos.Stores, Functions: fns, Clock: clock, Log: log},
		Log:    log,
	}
}

func TestOverview_CreatesDemoStore(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)

	ov, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "Demo Store", ov.Store.StoreName)
	assert.Equal(t, 73, ov.HealthScore)
	assert.Equal(t, 83, ov.Breakdown["seo"])
	assert.Empty(t, ov.RecentScans)
	assert.Empty(t, ov.RecentJobs)

	again, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, ov.Store.ID, again.Store.ID)
}

func TestQuickActions(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.Overview(ctx, owner)
	require.NoError(t, err)

	res, err := svc.QuickAction(ctx, owner, "scan")
	require.NoError(t, err)
	require.NotNil(t, res.Scan)
	assert.Equal(t, scans.StatusPending, res.Scan.Status)

	for _, action := range []string{"images", "autofix", "templates"} {
		res, err := svc.QuickAction(ctx, owner, action)
		require.NoError(t, err, action)
		require.NotNil(t, res.Job, action)
		assert.Equal(t, jobs.StatusQueued, res.Job.Status)
	}

	_, err = svc.QuickAction(ctx, owner, "reboot")
	assert.True(t, middleware.IsValidation(err))

	ov, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, ov.RecentScans, 1)
	require.Len(t, ov.RecentJobs, 3)
	assert.Equal(t, jobs.TypeTemplateGeneration, ov.RecentJobs[0].JobType)
}

func TestOverview_LimitsRecentJobs(t *testing.T) {
	ctx := context.Background()
	svc := newService(t)
	_, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	for i := 0; i < 12; i++ {
		_, err := svc.QuickAction(ctx, owner, "images")
		require.NoError(t, err)
	}
	for i := 0; i < 6; i++ {
		_, err := svc.QuickAction(ctx, owner, "scan")
		require.NoError(t, err)
	}

	ov, err := svc.Overview(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, ov.RecentJobs, recentJobs)
	assert.Len(t, ov.RecentScans, recentScans)
}
