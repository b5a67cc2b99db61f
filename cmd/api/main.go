package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bryanwahyu/automaton-shop/internal/config"
	"github.com/bryanwahyu/automaton-shop/internal/infra/httpserver"
	"github.com/bryanwahyu/automaton-shop/internal/logging"
	"github.com/bryanwahyu/automaton-shop/internal/middleware"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:          "automaton-shop",
	Short:        "Store optimization API for Shopify merchants",
	SilenceUsage: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the record tables and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		st, err := openStore(cmd.Context(), cfg)
		if err != nil {
			return err
		}
		defer st.DB().Close()
		log.Info("migrations applied", zap.String("driver", cfg.Database.Driver))
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the template catalogue and the default merchant's demo store",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := setup()
		if err != nil {
			return err
		}
		defer log.Sync()
		a, err := build(cmd.Context(), cfg, log)
		if err != nil {
			return err
		}
		defer a.close()
		return a.seed(cmd.Context(), cfg.Auth.DefaultMerchant)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default $CONFIG_PATH or config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func setup() (*config.Config, *zap.Logger, error) {
	path := configPath
	if path == "" {
		path = "config.yaml"
		if v := os.Getenv("CONFIG_PATH"); v != "" {
			path = v
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, fmt.Errorf("config load: %w", err)
	}
	log, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

func serve(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := build(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.close()

	limiterCtx, cancelLimiter := context.WithCancel(context.Background())
	defer cancelLimiter()

	handler := httpserver.NewRouter(a.services, httpserver.Options{
		Log:             log,
		Metrics:         a.metrics,
		CORSOrigins:     cfg.Server.CORSOrigins,
		APIKeys:         cfg.Auth.APIKeys,
		DefaultMerchant: cfg.Auth.DefaultMerchant,
		Limiter:         middleware.NewRateLimiter(limiterCtx, cfg.Server.RateLimitBurst, cfg.Server.RateLimitPerSec),
		Health:          a.health,
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.ReadTimeout * 4,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", zap.Error(err))
	}
	// scans and image jobs started by requests finish before the store closes
	a.services.Scans.Wait()
	a.services.Jobs.Wait()
	return nil
}
