package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/jobs"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const owner = "owner@shop.io"

func setup(t *testing.T) (*Service, *testutil.Functions) {
	t.Helper()
	repos := testutil.Repos(t)
	clock := testutil.NewClock()
	require.NoError(t, repos.Stores.Save(context.Background(), &stores.Store{ID: "store-1", Owner: owner, CreatedAt: clock.Now()}))
	fns := testutil.NewFunctions()
	return &Service{
		Repo:      repos.Jobs,
		Stores:    repos.Stores,
		Functions: fns,
		Clock:     clock,
		Log:       zap.NewNop(),
	}, fns
}

func TestQueue(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	tests := []struct {
		action string
		typ    domain.Type
		title  string
		items  int
	}{
		{"images", domain.TypeImageOptimization, "Bulk Image Optimization", 25},
		{"autofix", domain.TypePerformanceFix, "Auto-Fix Performance Issues", 12},
		{"templates", domain.TypeTemplateGeneration, "Generate Homepage Template", 1},
	}
	for _, tt := range tests {
		job, err := svc.Queue(ctx, owner, tt.action)
		require.NoError(t, err, tt.action)
		assert.Equal(t, tt.typ, job.JobType)
		assert.Equal(t, tt.title, job.Title)
		assert.Equal(t, tt.items, job.ItemsTotal)
		assert.Equal(t, domain.StatusQueued, job.Status)
		assert.Zero(t, job.Progress)
	}

	_, err := svc.Queue(ctx, owner, "teleport")
	assert.True(t, middleware.IsValidation(err))

	list, err := svc.List(ctx, owner, domain.Filter{JobType: domain.TypePerformanceFix})
	require.NoError(t, err)
	require.Len(t, list, 1)
}

func TestRecordAndGet(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t)

	job, err := svc.Record(ctx, owner, domain.TypeLinkScan, "Broken Link Scan", map[string]int{"total_links": 40}, 40)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, job.Status)
	assert.Equal(t, 100, job.Progress)
	assert.Equal(t, 40, job.ItemsProcessed)

	got, err := svc.Get(ctx, owner, job.ID)
	require.NoError(t, err)
	assert.JSONEq(t, `{"total_links":40}`, string(got.Results))

	_, err = svc.Get(ctx, "someone@else.io", job.ID)
	assert.ErrorIs(t, err, records.ErrNotFound)
}

func TestOptimizeImages(t *testing.T) {
	ctx := context.Background()
	svc, fns := setup(t)
	fns.On(functions.OptimizeImage, func(p map[string]any) (any, error) {
		assert.EqualValues(t, 80, p["quality"])
		assert.Equal(t, "webp", p["format"])
		return map[string]any{
			"success":        true,
			"optimized_url":  fmt.Sprint(p["fileUrl"], ".webp"),
			"original_size":  1000,
			"optimized_size": 400,
		}, nil
	})

	files := []string{"https://cdn.example.com/a.png", "https://cdn.example.com/b.png", "https://cdn.example.com/c.png"}
	job, err := svc.OptimizeImages(ctx, owner, files, ImageSettings{})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusProcessing, job.Status)
	svc.Wait()

	got, err := svc.Get(ctx, owner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, got.Status)
	assert.Equal(t, 3, got.ItemsProcessed)
	assert.Equal(t, 100, got.Progress)

	var res struct {
		Images     []optimizedImage `json:"images"`
		BytesSaved int64            `json:"bytes_saved"`
	}
	require.NoError(t, json.Unmarshal(got.Results, &res))
	assert.Len(t, res.Images, 3)
	assert.EqualValues(t, 1800, res.BytesSaved)
	assert.Equal(t, "https://cdn.example.com/b.png.webp", res.Images[1].OptimizedURL)
}

func TestOptimizeImages_FailureKeepsProgress(t *testing.T) {
	ctx := context.Background()
	svc, fns := setup(t)
	n := 0
	fns.On(functions.OptimizeImage, func(map[string]any) (any, error) {
		n++
		if n == 3 {
			return map[string]any{"success": false, "error": "unsupported format"}, nil
		}
		return map[string]any{"success": true}, nil
	})

	files := []string{"https://x.io/1.png", "https://x.io/2.png", "https://x.io/3.png", "https://x.io/4.png"}
	job, err := svc.OptimizeImages(ctx, owner, files, ImageSettings{Quality: 60})
	require.NoError(t, err)
	svc.Wait()

	got, err := svc.Get(ctx, owner, job.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusFailed, got.Status)
	assert.Equal(t, 2, got.ItemsProcessed)
	assert.Equal(t, 50, got.Progress)
	assert.Contains(t, got.ErrorMessage, "unsupported format")
}

func TestOptimizeImages_Validation(t *testing.T) {
	svc, _ := setup(t)
	_, err := svc.OptimizeImages(context.Background(), owner, nil, ImageSettings{})
	assert.True(t, middleware.IsValidation(err))
	_, err = svc.OptimizeImages(context.Background(), owner, []string{"file:///etc/passwd"}, ImageSettings{})
	assert.True(t, middleware.IsValidation(err))
}
