package stores

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
	"github.com/bryanwahyu/automaton-shop/internal/testutil"
)

const owner = "owner@shop.io"

func newService(t *testing.T, fns *testutil.Functions) *Service {
	t.Helper()
	return &Service{
		Repo:      testutil.Repos(t).Stores,
		Functions: fns,
		Clock:     testutil.NewClock(),
		Log:       zap.NewNop(),
	}
}

func TestCurrent_NoStore(t *testing.T) {
	_, err := newService(t, testutil.NewFunctions()).Current(context.Background(), owner)
	assert.ErrorIs(t, err, domain.ErrNoStore)
}

func TestEnsureDemo_Idempotent(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, testutil.NewFunctions())

	first, err := svc.EnsureDemo(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, "demo-store.myshopify.com", first.ShopDomain)
	assert.Equal(t, domain.PlanPro, first.Plan)
	assert.Equal(t, 68, first.Speed)
	assert.Equal(t, 73, first.HealthScore)

	second, err := svc.EnsureDemo(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
}

func TestConnect(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, testutil.NewFunctions())

	st, err := svc.Connect(ctx, owner, "https://Super-AI-Shop.myshopify.com/admin")
	require.NoError(t, err)
	assert.Equal(t, "super-ai-shop.myshopify.com", st.ShopDomain)
	assert.Equal(t, "Super ai shop", st.StoreName)
	assert.Zero(t, st.HealthScore)
	assert.Equal(t, domain.PlanPro, st.Plan)

	again, err := svc.Connect(ctx, owner, "super-ai-shop")
	require.NoError(t, err)
	assert.Equal(t, st.ID, again.ID)

	_, err = svc.Connect(ctx, owner, "   ")
	assert.True(t, middleware.IsValidation(err))

	scanned, err := svc.InitialScan(ctx, owner, st.ID)
	require.NoError(t, err)
	assert.Equal(t, 83, scanned.SEO)
	assert.NotNil(t, scanned.LastScanDate)

	_, err = svc.InitialScan(ctx, "intruder@x.io", st.ID)
	assert.Error(t, err)
}

func TestUpdateScoresAndSettings(t *testing.T) {
	ctx := context.Background()
	svc := newService(t, testutil.NewFunctions())
	st, err := svc.EnsureDemo(ctx, owner)
	require.NoError(t, err)

	updated, err := svc.UpdateScores(ctx, st.ID, nil, func(sc *domain.Scores) { sc.SEO = 150 })
	require.NoError(t, err)
	assert.Equal(t, 100, updated.SEO)
	assert.Equal(t, domain.Scores{Speed: 68, SEO: 100, Accessibility: 65, Content: 79, Bloat: 71}.Health(), updated.HealthScore)

	updated, err = svc.UpdateSettings(ctx, owner, domain.Settings{AutoScan: false, Notifications: true})
	require.NoError(t, err)
	assert.False(t, updated.Settings.AutoScan)
}

func TestCheckConnection(t *testing.T) {
	ctx := context.Background()

	t.Run("connected", func(t *testing.T) {
		fns := testutil.NewFunctions().On(functions.ShopifyIntegration, func(p map[string]any) (any, error) {
			assert.Equal(t, "getShop", p["action"])
			return map[string]any{
				"success": true,
				"data":    map[string]any{"shop": map[string]any{"name": "Real Shop", "theme": map[string]any{"id": 987654}}},
			}, nil
		})
		svc := newService(t, fns)
		_, err := svc.EnsureDemo(ctx, owner)
		require.NoError(t, err)

		st, err := svc.CheckConnection(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionConnected, st.Connection)
		assert.Equal(t, "Real Shop", st.StoreName)
		assert.Equal(t, "987654", st.ThemeID)
	})

	t.Run("classified failure", func(t *testing.T) {
		fns := testutil.NewFunctions().On(functions.ShopifyIntegration, func(map[string]any) (any, error) {
			return map[string]any{"success": false, "error": "[API] Invalid access token"}, nil
		})
		svc := newService(t, fns)
		_, err := svc.EnsureDemo(ctx, owner)
		require.NoError(t, err)

		st, err := svc.CheckConnection(ctx, owner)
		require.NoError(t, err)
		assert.Equal(t, domain.ConnectionError, st.Connection)
		assert.Contains(t, st.ConnectionDetail, "access token is invalid")
	})

	t.Run("non remote error propagates", func(t *testing.T) {
		boom := errors.New("boom")
		fns := testutil.NewFunctions().On(functions.ShopifyIntegration, func(map[string]any) (any, error) { return nil, boom })
		svc := newService(t, fns)
		_, err := svc.EnsureDemo(ctx, owner)
		require.NoError(t, err)

		_, err = svc.CheckConnection(ctx, owner)
		assert.ErrorIs(t, err, boom)
	})
}

func TestConnectionMessage(t *testing.T) {
	tests := map[string]string{
		"401 Unauthorized":          "access token is invalid",
		"Shop not found":            "Store not found",
		"missing scope read_themes": "read_themes, read_products and read_shop",
		"timeout":                   "Error details: timeout",
	}
	for in, want := range tests {
		assert.Contains(t, ConnectionMessage(in), want, in)
	}
}
