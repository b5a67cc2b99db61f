package templates

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/templates"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

const owner = "owner@shop.io"

func setup(t *testing.T, plan stores.Plan) (*Service, docstore.Repositories) {
	t.Helper()
	repos := testutil.Repos(t)
	clock := testutil.NewClock()
	log := zap.NewNop()
	require.NoError(t, repos.Stores.Save(context.Background(), &stores.Store{ID: "store-1", Owner: owner, Plan: plan, CreatedAt: clock.Now()}))
	return &Service{
		Repo:   repos.Templates,
		Stores: repos.Stores,
		Jobs:   &appjobs.Service{Repo: repos.Jobs, Stores: repos.Stores, Clock: clock, Log: log},
		Clock:  clock,
		Log:    log,
	}, repos
}

func byName(t *testing.T, list []*domain.Template, name string) *domain.Template {
	t.Helper()
	for _, tpl := range list {
		if tpl.Name == name {
			return tpl
		}
	}
	t.Fatalf("template %q not found", name)
	return nil
}

func TestSeed(t *testing.T) {
	list, err := Seed()
	require.NoError(t, err)
	require.Len(t, list, 6)

	tech := list[0]
	assert.Equal(t, "Tech Nexus Pro", tech.Name)
	assert.Equal(t, domain.CategoryTechGaming, tech.Category)
	assert.True(t, tech.IsPremium)
	assert.Equal(t, 1247, tech.InstallCount)
	require.Len(t, tech.Sections, 3)
	assert.Equal(t, "full-width", tech.Sections[0].Settings["layout"])
	assert.Equal(t, "#00ff88", tech.ColorScheme.Primary)

	assert.Equal(t, domain.CategoryBeauty, list[5].Category)
	assert.False(t, list[5].IsPremium)
}

func TestList_SeedsOnceAndFilters(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t, stores.PlanPro)

	all, err := svc.List(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Len(t, all, 6)

	again, err := svc.List(ctx, domain.Filter{Category: "all"})
	require.NoError(t, err)
	assert.Len(t, again, 6)
	stored, err := repos.Templates.List(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 6)

	fashion, err := svc.List(ctx, domain.Filter{Category: "fashion"})
	require.NoError(t, err)
	require.Len(t, fashion, 1)
	assert.Equal(t, "Fashion Forward", fashion[0].Name)

	dark, err := svc.List(ctx, domain.Filter{Search: "DARK"})
	require.NoError(t, err)
	assert.Len(t, dark, 2)
}

func TestInstall(t *testing.T) {
	ctx := context.Background()
	svc, repos := setup(t, stores.PlanPro)
	all, err := svc.List(ctx, domain.Filter{})
	require.NoError(t, err)

	tech := byName(t, all, "Tech Nexus Pro")
	got, err := svc.Install(ctx, owner, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, 1248, got.InstallCount)

	stored, err := repos.Templates.Get(ctx, tech.ID)
	require.NoError(t, err)
	assert.Equal(t, 1248, stored.InstallCount)

	list, err := repos.Jobs.List(ctx, jobs.Filter{Owner: owner, JobType: jobs.TypeTemplateGeneration})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Install Template: Tech Nexus Pro", list[0].Title)
	assert.Equal(t, jobs.StatusCompleted, list[0].Status)
}

func TestInstall_PremiumNeedsPro(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, stores.PlanGrowth)
	all, err := svc.List(ctx, domain.Filter{})
	require.NoError(t, err)

	_, err = svc.Install(ctx, owner, byName(t, all, "Cinema Elite").ID)
	assert.ErrorIs(t, err, plans.ErrFeatureLocked)

	free, err := svc.Install(ctx, owner, byName(t, all, "Store Classic").ID)
	require.NoError(t, err)
	assert.Equal(t, 3422, free.InstallCount)

	_, err = svc.Install(ctx, owner, "missing")
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestInstall_NoStore(t *testing.T) {
	svc, _ := setup(t, stores.PlanPro)
	_, err := svc.Install(context.Background(), "nobody@shop.io", "any")
	assert.ErrorIs(t, err, stores.ErrNoStore)
}
