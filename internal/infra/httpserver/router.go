package httpserver

import (
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appaudit "github.com/bryanwahyu/automaton-shop/internal/application/audit"
	appbackups "github.com/bryanwahyu/automaton-shop/internal/application/backups"
	appcatalog "github.com/bryanwahyu/automaton-shop/internal/application/catalog"
	appdashboard "github.com/bryanwahyu/automaton-shop/internal/application/dashboard"
	appjobs "github.com/bryanwahyu/automaton-shop/internal/application/jobs"
	appscans "github.com/bryanwahyu/automaton-shop/internal/application/scans"
	appstores "github.com/bryanwahyu/automaton-shop/internal/application/stores"
	apptemplates "github.com/bryanwahyu/automaton-shop/internal/application/templates"
	apptools "github.com/bryanwahyu/automaton-shop/internal/application/tools"
	appuploads "github.com/bryanwahyu/automaton-shop/internal/application/uploads"
	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/domain/files"
	"github.com/bryanwahyu/automaton-shop/internal/domain/functions"
	"github.com/bryanwahyu/automaton-shop/internal/domain/plans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/records"
	"github.com/bryanwahyu/automaton-shop/internal/domain/scans"
	"github.com/bryanwahyu/automaton-shop/internal/domain/stores"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

// Services are the use-cases the API exposes.
type Services struct {
	Stores    *appstores.Service
	Dashboard *appdashboard.Service
	Scans     *appscans.Service
	Jobs      *appjobs.Service
	Uploads   *appuploads.Service
	Tools     *apptools.Service
	Catalog   *appcatalog.Service
	Templates *apptemplates.Service
	Backups   *appbackups.Service
	Audit     *appaudit.Service
}

type Options struct {
	Log             *zap.Logger
	Metrics         *metrics.Metrics
	CORSOrigins     []string
	APIKeys         map[string]string
	DefaultMerchant string
	// Limiter throttles the LLM tool routes; nil disables it.
	Limiter *middleware.RateLimiter
	Health  map[string]middleware.HealthChecker
	// MaxUploadBytes caps multipart bodies.
	MaxUploadBytes int64
}

const defaultMaxUpload = 32 << 20

type Router struct {
	svc Services
	log *zap.Logger
	max int64
}

func NewRouter(svc Services, opt Options) http.Handler {
	if opt.Log == nil {
		opt.Log = zap.NewNop()
	}
	if opt.Metrics == nil {
		opt.Metrics = metrics.Default()
	}
	if opt.MaxUploadBytes <= 0 {
		opt.MaxUploadBytes = defaultMaxUpload
	}
	origins := opt.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r := &Router{svc: svc, log: opt.Log, max: opt.MaxUploadBytes}

	mux := chi.NewRouter()
	mux.Use(chimw.RealIP)
	mux.Use(chimw.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders: []string{"Content-Disposition", "Retry-After"},
		MaxAge:         300,
	}))
	mux.Use(middleware.Logging(opt.Log))
	mux.Use(middleware.Metrics(opt.Metrics))
	mux.Use(middleware.APIKeyAuth(opt.APIKeys, opt.DefaultMerchant))

	mux.Get("/health", middleware.LivenessHandler)
	mux.Get("/healthz", middleware.HealthHandler(opt.Health))
	mux.Get("/readyz", middleware.ReadinessHandler)
	mux.Get("/metrics", opt.Metrics.Handler)

	mux.Route("/v1", func(rt chi.Router) {
		rt.Get("/store", r.wrap(r.handleStore))
		rt.Post("/store/connect", r.wrap(r.handleConnect))
		rt.Post("/store/initial-scan", r.wrap(r.handleInitialScan))
		rt.Post("/store/check-connection", r.wrap(r.handleCheckConnection))
		rt.Patch("/store/settings", r.wrap(r.handleSettings))

		rt.Get("/dashboard", r.wrap(r.handleDashboard))
		rt.Post("/dashboard/actions/{action}", r.wrap(r.handleQuickAction))

		rt.Post("/scans", r.wrap(r.handleStartScan))
		rt.Get("/scans", r.wrap(r.handleRecentScans))
		rt.Get("/scans/latest", r.wrap(r.handleLatestScan))
		rt.Get("/scans/{id}", r.wrap(r.handleGetScan))
		rt.Get("/scans/{id}/issues", r.wrap(r.handleIssues))
		rt.Post("/issues/{id}/fix", r.wrap(r.handleApplyFix))

		rt.Get("/jobs", r.wrap(r.handleJobs))
		rt.Get("/jobs/{id}", r.wrap(r.handleGetJob))
		rt.Post("/jobs/images", r.wrap(r.handleOptimizeImages))

		rt.Post("/uploads", r.wrap(r.handleUpload))

		rt.Route("/tools", func(tr chi.Router) {
			if opt.Limiter != nil {
				tr.Use(middleware.RateLimit(opt.Limiter))
			}
			tr.Post("/seo-audit", r.wrap(r.handleSEOAudit))
			tr.Post("/seo-content", r.wrap(r.handleSEOContent))
			tr.Post("/pricing", r.wrap(r.handlePricing))
			tr.Post("/accessibility", r.wrap(r.handleAccessibility))
			tr.Post("/ux", r.wrap(r.handleUX))
			tr.Post("/theme-speed", r.wrap(r.handleThemeSpeed))
			tr.Post("/broken-links", r.wrap(r.handleBrokenLinks))
			tr.Post("/competitor", r.wrap(r.handleCompetitor))
			tr.Post("/product-description", r.wrap(r.handleProductDescription))
			tr.Post("/email-campaign", r.wrap(r.handleEmailCampaign))
			tr.Post("/app-recommendations", r.wrap(r.handleAppRecommendations))
			tr.Post("/landing-page", r.wrap(r.handleLandingPage))
			tr.Post("/storefront", r.wrap(r.handleStorefront))
			tr.Post("/trust-badges", r.wrap(r.handleTrustBadges))
		})

		rt.Get("/products", r.wrap(r.handleProducts))
		rt.Put("/products/{id}/geo", r.wrap(r.handleGeoRules))
		rt.Post("/products/{id}/analyze", r.wrap(r.handleAnalyzeProduct))
		rt.Get("/products/{id}/reviews", r.wrap(r.handleReviews))
		rt.Post("/reviews/import", r.wrap(r.handleImportReviews))
		rt.Get("/geo", r.wrap(r.handleGeo))
		rt.Get("/storefront/products", r.wrap(r.handleStorefrontProducts))

		rt.Get("/templates", r.wrap(r.handleTemplates))
		rt.Post("/templates/{id}/install", r.wrap(r.handleInstallTemplate))

		rt.Get("/backups", r.wrap(r.handleBackups))
		rt.Post("/backups", r.wrap(r.handleCreateBackup))
		rt.Delete("/backups/{id}", r.wrap(r.handleDeleteBackup))

		rt.Get("/audit", r.wrap(r.handleAudit))
		rt.Get("/audit.csv", r.wrap(r.handleAuditCSV))

		rt.Get("/plans", r.wrap(r.handlePlans))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			status := statusFor(err)
			if status >= http.StatusInternalServerError {
				r.log.Error("request failed",
					zap.String("method", req.Method),
					zap.String("path", req.URL.Path),
					zap.Int("status", status),
					zap.Error(err))
			}
			writeError(w, status, err)
		}
	}
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, records.ErrNotFound), errors.Is(err, sql.ErrNoRows):
		return http.StatusNotFound
	case middleware.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, plans.ErrFeatureLocked):
		return http.StatusPaymentRequired
	case errors.Is(err, stores.ErrNoStore), errors.Is(err, scans.ErrScanInProgress):
		return http.StatusConflict
	case errors.Is(err, ai.ErrQuotaExceeded):
		return http.StatusTooManyRequests
	case errors.Is(err, ai.ErrInvalidResponse), errors.Is(err, functions.ErrRemote):
		return http.StatusBadGateway
	case errors.Is(err, files.ErrDisabled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, status int, err error) {
	msg := err.Error()
	switch {
	case status == http.StatusInternalServerError:
		msg = "internal server error"
	case errors.Is(err, ai.ErrQuotaExceeded):
		msg = "ai quota exceeded"
	}
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}

func ok(w http.ResponseWriter, v any) error { return writeJSON(w, http.StatusOK, v) }

// decode reads an optional JSON body into v. An empty body leaves v untouched.
func decode(req *http.Request, v any) error {
	if err := json.NewDecoder(req.Body).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		return middleware.Invalid("body", "malformed JSON: %v", err)
	}
	return nil
}

func merchant(req *http.Request) string { return middleware.MerchantFromContext(req.Context()) }

func queryInt(req *http.Request, key string) int {
	n, _ := strconv.Atoi(req.URL.Query().Get(key))
	return n
}
