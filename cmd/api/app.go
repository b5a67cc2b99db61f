package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/application"
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
	"github.com/bryanwahyu/automaton-shop/internal/config"
	"github.com/bryanwahyu/automaton-shop/internal/domain/ai"
	"github.com/bryanwahyu/automaton-shop/internal/domain/files"
	"github.com/bryanwahyu/automaton-shop/internal/domain/templates"
	"github.com/bryanwahyu/automaton-shop/internal/infra/ai/gemini"
	"github.com/bryanwahyu/automaton-shop/internal/infra/ai/openai"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/docstore"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/mysql"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/postgres"
	"github.com/bryanwahyu/automaton-shop/internal/infra/db/sqlite"
	"github.com/bryanwahyu/automaton-shop/internal/infra/functions"
	"github.com/bryanwahyu/automaton-shop/internal/infra/httpserver"
	"github.com/bryanwahyu/automaton-shop/internal/infra/storage"
	"github.com/bryanwahyu/automaton-shop/internal/metrics"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

type app struct {
	store    *docstore.Store
	services httpserver.Services
	metrics  *metrics.Metrics
	health   map[string]middleware.HealthChecker
}

func (a *app) close() { a.store.DB().Close() }

// openStore connects the configured driver and applies the schema.
func openStore(ctx context.Context, cfg *config.Config) (*docstore.Store, error) {
	switch cfg.Database.Driver {
	case "sqlite":
		return sqlite.Open(ctx, cfg.Database.SQLitePath)
	case "mysql", "postgres":
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}

	var st *docstore.Store
	if cfg.Database.Driver == "mysql" {
		db, err := mysql.Connect(ctx, cfg.MySQLDSN())
		if err != nil {
			return nil, fmt.Errorf("mysql connect: %w", err)
		}
		st = docstore.New(db, mysql.Dialect())
	} else {
		db, err := postgres.Connect(ctx, cfg.PostgresDSN())
		if err != nil {
			return nil, fmt.Errorf("postgres connect: %w", err)
		}
		st = docstore.New(db, postgres.Dialect())
	}
	if err := st.Migrate(ctx); err != nil {
		st.DB().Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return st, nil
}

func newLLM(ctx context.Context, cfg *config.Config, log *zap.Logger) (ai.Client, error) {
	switch cfg.AI.Provider {
	case "gemini":
		return gemini.NewClient(ctx, cfg.AI.APIKey, cfg.AI.Model, log)
	case "openai", "":
		return openai.NewClient(cfg.AI.APIKey, cfg.AI.Model, log), nil
	}
	return nil, fmt.Errorf("unknown ai provider %q", cfg.AI.Provider)
}

func build(ctx context.Context, cfg *config.Config, log *zap.Logger) (*app, error) {
	st, err := openStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	health := map[string]middleware.HealthChecker{
		"database": &middleware.DatabaseHealthChecker{DB: st.DB()},
	}

	// object storage is optional; uploads answer 503 without it
	var fs files.Store
	if cfg.MinioEnabled() {
		m, err := storage.New(ctx, cfg.Minio.Endpoint, cfg.Minio.Region, cfg.Minio.BucketName,
			cfg.Minio.AccessKey, cfg.Minio.SecretKey, cfg.Minio.UseSSL, cfg.Minio.PresignTTL)
		if err != nil {
			st.DB().Close()
			return nil, fmt.Errorf("minio init: %w", err)
		}
		fs = m
		health["storage"] = m
	} else {
		log.Warn("object storage disabled, uploads will be rejected")
	}

	llm, err := newLLM(ctx, cfg, log)
	if err != nil {
		st.DB().Close()
		return nil, err
	}
	fns := functions.NewClient(cfg.Functions.BaseURL, cfg.Functions.APIKey, cfg.Functions.Timeout, log)

	repos := docstore.NewRepositories(st)
	clock := application.SystemClock{}
	m := metrics.Default()

	storeSvc := &appstores.Service{Repo: repos.Stores, Functions: fns, Clock: clock, Log: log, Metrics: m}
	scanSvc := &appscans.Service{Repo: repos.Scans, Issues: repos.Issues, Stores: repos.Stores, Functions: fns,
		Clock: clock, Log: log, Metrics: m}
	jobSvc := &appjobs.Service{Repo: repos.Jobs, Stores: repos.Stores, Functions: fns, Clock: clock, Log: log, Metrics: m}
	uploadSvc := &appuploads.Service{Files: fs, Log: log}

	return &app{
		store:   st,
		metrics: m,
		health:  health,
		services: httpserver.Services{
			Stores:    storeSvc,
			Dashboard: &appdashboard.Service{Stores: storeSvc, Scans: scanSvc, Jobs: jobSvc, Log: log},
			Scans:     scanSvc,
			Jobs:      jobSvc,
			Uploads:   uploadSvc,
			Tools: &apptools.Service{LLM: llm, Stores: storeSvc, Products: repos.Products, Jobs: jobSvc,
				Clock: clock, Log: log, Metrics: m},
			Catalog: &appcatalog.Service{ProductRepo: repos.Products, ReviewRepo: repos.Reviews, Stores: repos.Stores,
				Jobs: jobSvc, Functions: fns, Clock: clock, Log: log, Metrics: m},
			Templates: &apptemplates.Service{Repo: repos.Templates, Stores: repos.Stores, Jobs: jobSvc, Clock: clock, Log: log},
			Backups:   &appbackups.Service{Repo: repos.Backups, Stores: repos.Stores, Uploads: uploadSvc, Clock: clock, Log: log},
			Audit:     &appaudit.Service{Stores: repos.Stores, Jobs: repos.Jobs, Scans: repos.Scans, Log: log},
		},
	}, nil
}

// seed loads the template catalogue and gives owner the demo store.
func (a *app) seed(ctx context.Context, owner string) error {
	list, err := a.services.Templates.List(ctx, templates.Filter{})
	if err != nil {
		return err
	}
	st, err := a.services.Stores.EnsureDemo(ctx, owner)
	if err != nil {
		return err
	}
	if _, err := a.services.Catalog.Products(ctx, owner); err != nil {
		return err
	}
	a.services.Stores.Log.Info("seed complete",
		zap.Int("templates", len(list)),
		zap.String("owner", owner),
		zap.String("store_id", st.ID))
	return nil
}
