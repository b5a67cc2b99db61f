package stores

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	domain "github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Service implements use-cases untuk Store
type Service struct {
	Repo      domain.Repository
	Functions functions.Caller
	Clock     application.Clock
	Log       *zap.Logger
	Metrics   *metrics.Metrics
}

// sampleScores are shown right after onboarding, before the first real scan.
var sampleScores = domain.Scores{Speed: 68, SEO: 83, Accessibility: 65, Content: 79, Bloat: 71}

func (s *Service) Current(ctx context.Context, owner string) (*domain.Store, error) {
	return domain.Current(ctx, s.Repo, owner)
}

// EnsureDemo returns the owner's store, creating the demo store on first visit.
func (s *Service) EnsureDemo(ctx context.Context, owner string) (*domain.Store, error) {
	st, err := s.Current(ctx, owner)
	if err == nil || !errors.Is(err, domain.ErrNoStore) {
		return st, err
	}
	now := s.Clock.Now()
	st = &domain.Store{
		ID:         uuid.NewString(),
		Owner:      owner,
		ShopDomain: "demo-store.myshopify.com",
		StoreName:  "Demo Store",
		ThemeID:    "12345",
		Plan:       domain.PlanPro,
		Settings:   domain.Settings{AutoScan: true, Notifications: true},
		Connection: domain.ConnectionUnknown,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	st.ApplyScores(sampleScores)
	st.LastScanDate = &now
	if err := s.Repo.Save(ctx, st); err != nil {
		return nil, err
	}
	s.Log.Info("demo store created", zap.String("owner", owner), zap.String("store_id", st.ID))
	return st, nil
}

// Connect registers the merchant's shop from whatever URL they typed.
// Connecting the same domain twice returns the existing record.
func (s *Service) Connect(ctx context.Context, owner, storeURL string) (*domain.Store, error) {
	shop := domain.NormalizeShopDomain(storeURL)
	if err := middleware.ValidateShopDomain(shop); err != nil {
		return nil, err
	}
	existing, err := s.Repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}
	for _, st := range existing {
		if st.ShopDomain == shop {
			return st, nil
		}
	}

	now := s.Clock.Now()
	st := &domain.Store{
		ID:         uuid.NewString(),
		Owner:      owner,
		ShopDomain: shop,
		StoreName:  domain.DisplayName(shop),
		Plan:       domain.PlanPro,
		Connection: domain.ConnectionUnknown,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.Repo.Save(ctx, st); err != nil {
		return nil, err
	}
	s.Log.Info("store connected", zap.String("owner", owner), zap.String("shop", shop))
	return st, nil
}

// InitialScan fills the onboarding sample scores for a freshly connected store.
func (s *Service) InitialScan(ctx context.Context, owner, storeID string) (*domain.Store, error) {
	st, err := s.owned(ctx, owner, storeID)
	if err != nil {
		return nil, err
	}
	now := s.Clock.Now()
	st.ApplyScores(sampleScores)
	st.LastScanDate = &now
	st.UpdatedAt = now
	return st, s.Repo.Save(ctx, st)
}

// UpdateScores loads the store, lets mutate change its scores and saves it
// with a recomputed health score.
func (s *Service) UpdateScores(ctx context.Context, storeID string, scanned *time.Time, mutate func(*domain.Scores)) (*domain.Store, error) {
	st, err := s.Repo.Get(ctx, storeID)
	if err != nil {
		return nil, err
	}
	sc := st.Scores
	mutate(&sc)
	st.ApplyScores(sc)
	if scanned != nil {
		st.LastScanDate = scanned
	}
	st.UpdatedAt = s.Clock.Now()
	return st, s.Repo.Save(ctx, st)
}

func (s *Service) UpdateSettings(ctx context.Context, owner string, settings domain.Settings) (*domain.Store, error) {
	st, err := s.Current(ctx, owner)
	if err != nil {
		return nil, err
	}
	st.Settings = settings
	st.UpdatedAt = s.Clock.Now()
	return st, s.Repo.Save(ctx, st)
}

type shopResponse struct {
	functions.Envelope
	Data struct {
		Shop struct {
			Name  string `json:"name"`
			Theme struct {
				ID   json.RawMessage `json:"id"`
				Name string          `json:"name"`
			} `json:"theme"`
		} `json:"shop"`
	} `json:"data"`
}

// CheckConnection asks the platform integration for the shop details. A
// failed check is recorded on the store, not returned as an error.
func (s *Service) CheckConnection(ctx context.Context, owner string) (*domain.Store, error) {
	st, err := s.Current(ctx, owner)
	if err != nil {
		return nil, err
	}

	var resp shopResponse
	err = s.Functions.Call(ctx, functions.ShopifyIntegration, map[string]string{
		"action":     "getShop",
		"shopDomain": st.ShopDomain,
	}, &resp)
	if err == nil {
		err = resp.Failed(functions.ShopifyIntegration)
	}
	s.Metrics.RemoteCall(err)

	st.UpdatedAt = s.Clock.Now()
	if err != nil {
		if !errors.Is(err, functions.ErrRemote) {
			return nil, err
		}
		s.Log.Warn("store connection check failed", zap.String("store_id", st.ID), zap.Error(err))
		st.Connection = domain.ConnectionError
		st.ConnectionDetail = ConnectionMessage(remoteMessage(err))
		return st, s.Repo.Save(ctx, st)
	}

	st.Connection = domain.ConnectionConnected
	st.ConnectionDetail = ""
	if name := resp.Data.Shop.Name; name != "" {
		st.StoreName = name
	}
	if id := strings.Trim(string(resp.Data.Shop.Theme.ID), `"`); id != "" && id != "null" {
		st.ThemeID = id
	}
	return st, s.Repo.Save(ctx, st)
}

func remoteMessage(err error) string {
	var re *functions.RemoteError
	if errors.As(err, &re) {
		return re.Message
	}
	return err.Error()
}

// ConnectionMessage turns a raw integration error into advice for the merchant.
func ConnectionMessage(raw string) string {
	msg := strings.ToLower(raw)
	switch {
	case strings.Contains(msg, "unauthorized") || strings.Contains(msg, "invalid access token"):
		return "Your Shopify access token is invalid or has expired. Please reconnect your store with a valid Admin API access token."
	case strings.Contains(msg, "not found"):
		return "Store not found. Please check that your store domain is correct."
	case strings.Contains(msg, "permission") || strings.Contains(msg, "scope"):
		return "The access token is missing required permissions. Please grant the read_themes, read_products and read_shop scopes."
	default:
		return "Unable to connect to your Shopify store. Error details: " + raw
	}
}

func (s *Service) owned(ctx context.Context, owner, id string) (*domain.Store, error) {
	if id == "" {
		return s.Current(ctx, owner)
	}
	st, err := s.Repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if st.Owner != owner {
		return nil, fmt.Errorf("store %s: %w", id, records.ErrNotFound)
	}
	return st, nil
}
